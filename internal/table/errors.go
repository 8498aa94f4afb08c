package table

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("missing column")

	// ErrNotNumeric is returned when a numeric operation targets a string column.
	ErrNotNumeric = errors.New("column is not numeric")

	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrLengthMismatch is returned when columns differ in length.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrInvalidTable is returned for structurally broken tables.
	ErrInvalidTable = errors.New("invalid table")

	// ErrDivideByZero is returned by Divide with a zero divisor.
	ErrDivideByZero = errors.New("division by zero")

	// ErrUnsupportedFormat is returned when a format cannot be read or written.
	ErrUnsupportedFormat = errors.New("unsupported table format")

	// ErrSyntax is returned for malformed text input.
	ErrSyntax = errors.New("syntax error")
)
