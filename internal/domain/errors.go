package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrDatesTaken        = errors.New("dates already reserved")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInactive          = errors.New("account inactive")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedType   = errors.New("unsupported file type")
)

// ValidationError names the offending field. errors.Is(err, ErrInvalidInput) holds.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
