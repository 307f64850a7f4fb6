// Package schema defines the request and response shapes of the API and the
// validation rules applied to incoming payloads.
package schema

import (
	"strings"
)

// FieldError is a single validation failure.
// Field is empty for failures that are not tied to one field.
type FieldError struct {
	Field string `json:"field,omitempty"`
	Msg   string `json:"msg"`
}

// ValidationError carries every failure found in a payload.
type ValidationError struct {
	Errors []FieldError

	// Err is an optional underlying cause for errors.Is checks.
	Err error
}

// NewValidationError creates a ValidationError from the given failures.
func NewValidationError(errs ...FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// Message creates a ValidationError with a single non-field message.
func Message(msg string) *ValidationError {
	return NewValidationError(FieldError{Msg: msg})
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field != "" {
			parts = append(parts, fe.Field+": "+fe.Msg)
		} else {
			parts = append(parts, fe.Msg)
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap returns the underlying cause, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Add appends a failure.
func (e *ValidationError) Add(field, msg string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Msg: msg})
}

// HasField reports whether a failure was recorded for field.
func (e *ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// OrNil returns nil when no failures were recorded.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
