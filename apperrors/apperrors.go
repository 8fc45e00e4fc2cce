// Package apperrors defines the error kinds surfaced by the tasks service.
// Every failure returned by a service carries exactly one kind so transports
// can classify it without string matching.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the kind for unknown task or user ids.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is the kind for callers lacking the capability for a mutation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidArgument is the kind for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnavailable is the kind for record store access failures.
	ErrUnavailable = errors.New("unavailable")
)

var kinds = []error{ErrNotFound, ErrForbidden, ErrInvalidArgument, ErrUnavailable}

// Error is a classified failure with a human-readable message.
type Error struct {
	kind    error
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Message returns the message without the underlying cause.
func (e *Error) Message() string {
	return e.message
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the sentinel this error is classified as.
func (e *Error) Kind() error {
	return e.kind
}

func newError(kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...), cause: cause}
}

func NotFound(format string, args ...any) *Error {
	return newError(ErrNotFound, nil, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newError(ErrForbidden, nil, format, args...)
}

func InvalidArgument(format string, args ...any) *Error {
	return newError(ErrInvalidArgument, nil, format, args...)
}

// Unavailable wraps a store failure.
func Unavailable(cause error, format string, args ...any) *Error {
	return newError(ErrUnavailable, cause, format, args...)
}

// KindOf returns the kind sentinel of err, or nil when err is unclassified.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}
