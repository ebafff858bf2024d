package domain

import "errors"

// Field assignment errors.
var (
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidDate  = errors.New("invalid date, expected MM/DD/YYYY")
	ErrNullValue    = errors.New("value cannot be null")
)
