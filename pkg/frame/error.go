package frame

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyID  = errors.New("ID is required")
	ErrNotFrame = errors.New("not a frame line")
)

// ValidationError is returned when a frame can not be built from user input.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ParseError is returned for recognized frame lines that could not be decoded.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %q: %s", e.Line, e.Reason)
}
