package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the application reacts to.
const (
	CodeUniqueViolation           = "23505"
	CodeInvalidTextRepresentation = "22P02"
	CodeNumericValueOutOfRange    = "22003"
	CodeInvalidDatetimeFormat     = "22007"
	CodeDatetimeFieldOverflow     = "22008"
)

// ErrorCode returns the SQLSTATE of err, or "" if err is not a server error.
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDataError reports whether err was caused by a value the column cannot hold.
func IsDataError(err error) bool {
	switch ErrorCode(err) {
	case CodeInvalidTextRepresentation, CodeNumericValueOutOfRange,
		CodeInvalidDatetimeFormat, CodeDatetimeFieldOverflow:
		return true
	}
	return false
}
