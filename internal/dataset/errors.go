package dataset

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is wrapped by ColumnError.
var ErrColumnNotFound = errors.New("column not found")

// IOError indicates the source file could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// FormatError indicates a structurally malformed row.
type FormatError struct {
	Line int
	Want int
	Got  int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed input at line %d: expected %d fields, got %d", e.Line, e.Want, e.Got)
}

func (e *FormatError) Unwrap() error { return e.Err }

// ColumnError names a column that is not present in the dataset.
type ColumnError struct{ Name string }

func (e *ColumnError) Error() string { return fmt.Sprintf("column %q: %v", e.Name, ErrColumnNotFound) }

func (e *ColumnError) Unwrap() error { return ErrColumnNotFound }
