package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured   = errors.New("backing table is not configured")
	ErrNotFound        = errors.New("not found")
	ErrAuth            = errors.New("authentication required")
	ErrForbidden       = errors.New("not allowed")
	ErrUnsupportedRoom = errors.New("room is not a two-party conversation")
	ErrConflict        = errors.New("already exists")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError names the offending field. errors.Is(err, ErrValidation) holds for it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
