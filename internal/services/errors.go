package services

import (
	"errors"
	"fmt"
)

// Service errors. Handlers map each one to a single HTTP status.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrService            = errors.New("service unavailable")
)

// Error is a service error with a message that is safe to show to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// serviceError wraps a store or upstream failure; the cause stays available to errors.Is/As.
func serviceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrService, op, err)
}
