// Package service holds the business rules: user registration and login,
// and the event lifecycle with its ownership and uniqueness checks.
package service

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to handlers.  Handlers map each to an HTTP status;
// anything else is an internal error.
var (
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUpload       = errors.New("flyer upload failed")
	ErrValidation   = errors.New("validation failed")
)

// Error pairs a taxonomy kind with a human readable message for the caller.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Message returns the caller-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
