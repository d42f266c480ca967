// Package apperr defines the application error type.
package apperr

import "fmt"

// Error is an application error. Message may contain format specifiers
// that are filled in via Fmt.
type Error struct {
	Message string
	Cause   error
	parent  *Error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is this error or the error it was derived
// from via Fmt or Wrap, so that errors.Is matches the package-level
// error values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (e.parent != nil && e.parent == t)
}

// Fmt returns a copy of e with its message format specifiers filled in.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		parent:  e.root(),
	}
}

// Wrap returns a copy of e with err recorded as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
		parent:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.parent != nil {
		return e.parent
	}

	return e
}
