package clean

import (
	"errors"
	"fmt"
)

// ErrKind is wrapped when a column has the wrong storage kind for an operation.
var ErrKind = errors.New("unsupported column kind")

// ParseError indicates a date/time pair that does not match the expected layout.
type ParseError struct {
	Row   int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: parse datetime %q: %v", e.Row, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyColumnError indicates a column with no values to average.
type EmptyColumnError struct{ Column string }

func (e *EmptyColumnError) Error() string {
	return fmt.Sprintf("column %q has no non-missing values to average", e.Column)
}
