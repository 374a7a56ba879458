package hostrouter

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyHostname  = errors.New("hostrouter: empty hostname")
	ErrNilHandler     = errors.New("hostrouter: nil handler")
	ErrInvalidPattern = errors.New("hostrouter: invalid host pattern")
)

// PanicError is returned in place of a handler result when the handler panics.
type PanicError struct {
	Value any    // The panic value
	Stack []byte // Stack trace of the panicking goroutine
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// AsPanicError extracts the PanicError from an error if present.
func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
