// Package apperr defines the error taxonomy shared by services and HTTP handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation         = errors.New("validation error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrPersistence        = errors.New("persistence error")
)

// Error carries a kind, a message that is safe to show to clients, and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newError(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// Validation reports bad or missing input.
func Validation(msg string) error { return newError(ErrValidation, msg, nil) }

// Unauthorized reports a missing or unknown identity.
func Unauthorized(msg string) error { return newError(ErrUnauthorized, msg, nil) }

// Forbidden reports an ownership mismatch.
func Forbidden(msg string) error { return newError(ErrForbidden, msg, nil) }

// NotFound reports a missing resource.
func NotFound(msg string) error { return newError(ErrNotFound, msg, nil) }

// Storage wraps an object-store failure. Safe to retry.
func Storage(msg string, cause error) error { return newError(ErrStorageUnavailable, msg, cause) }

// Persistence wraps a metadata-store failure.
func Persistence(msg string, cause error) error { return newError(ErrPersistence, msg, cause) }

// Message returns the client-facing message of err, or fallback when err
// carries none.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
