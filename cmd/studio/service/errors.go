package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "does not exist" and "not owned by the
	// caller". The two are deliberately indistinguishable so that probing
	// ids leaks nothing about other owners' games.
	ErrNotFound = errors.New("not found")

	// ErrGenerationUnavailable indicates the external artifact generator
	// failed. Surfaced to the caller as a try-again-later condition; never
	// retried here.
	ErrGenerationUnavailable = errors.New("generation unavailable")
)

// ValidationError reports malformed input with field-level detail
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IntegrityError reports a state that correct concurrency control should
// make impossible (partial cascade, dangling pointer). It aborts the
// operation; callers must never attempt best-effort repair.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integrity fault in %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("integrity fault in %s", e.Op)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}
