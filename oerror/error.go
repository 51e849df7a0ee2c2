package oerror

import "fmt"

// PeekError is an error raised by peek itself, as opposed to an error returned by one of its dependencies.
type PeekError struct {
	Err string
}

// New returns a new PeekError with a message formatted from the format and arguments passed.
func New(format string, args ...any) *PeekError {
	return &PeekError{Err: fmt.Sprintf(format, args...)}
}

func (e *PeekError) Error() string {
	return e.Err
}
