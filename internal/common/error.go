// Package common defines shared constants and sentinel errors used across
// client and server layers of staffbook. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound         = errors.New("not found")
	ErrorStoreUnavailable = errors.New("store unavailable")

	// Service-level errors.
	ErrorValidation         = errors.New("validation failed")
	ErrorConflict           = errors.New("already exists")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorNoSearchCriteria   = fmt.Errorf("%w: department or position required", ErrorValidation)

	// Auth errors (missing, invalid or malformed token).
	ErrorUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken      = fmt.Errorf("%w: invalid token", ErrorUnauthenticated)
	ErrTokenExpired      = fmt.Errorf("%w: token expired", ErrorUnauthenticated)
)

// FieldError describes a single failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation, in input order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

// Merge appends the field failures carried by err, if it is a *ValidationError.
// It reports whether err was one.
func (e *ValidationError) Merge(err error) bool {
	var other *ValidationError
	if !errors.As(err, &other) {
		return false
	}
	e.Errors = append(e.Errors, other.Errors...)
	return true
}

// Add appends a field failure.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Err returns e when at least one field failed and nil otherwise.
func (e *ValidationError) Err() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// ConflictError reports a uniqueness violation on Field of Entity.
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s already exists", e.Entity)
	}
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrorConflict
}
