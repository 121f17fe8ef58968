// Package errs defines the error kinds shared by repositories, services and
// handlers. Every failure a caller is expected to react to wraps exactly one
// of the sentinel kinds, so callers discriminate with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
)

// Error is a failure of a known kind with a human readable message.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// NotFound reports a missing resource, e.g. NotFound("order", 7).
func NotFound(resource string, id any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf("%s %v", resource, id)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func InvalidTransition(format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// Validation reports a malformed input value for the named field.
func Validation(field string, cause error) *Error {
	return &Error{Kind: ErrValidation, Message: field, Cause: cause}
}

// Kind returns the sentinel kind wrapped by err, or nil when err carries none.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrInvalidTransition, ErrValidation, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
