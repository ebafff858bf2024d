package market

import "errors"

// Lookup errors.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrOfferNotFound = errors.New("offer not found")
)

// Write errors.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDuplicateID  = errors.New("record with this id already exists")
)
