package domain

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations.
// They are distinct from infrastructure errors (database, network, etc.).

var (
	// ===========================================
	// User Errors
	// ===========================================

	// ErrUserNotFound indicates the requested user does not exist or is inactive.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates another user, active or not, already owns the email.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ===========================================
	// Recipe Errors
	// ===========================================

	// ErrRecipeNotFound indicates the requested recipe does not exist or is hidden.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrRecipeTagNotFound indicates the requested recipe tag does not exist.
	ErrRecipeTagNotFound = errors.New("recipe tag not found")

	// ErrPeriodTypeNotFound indicates the requested period type does not exist.
	ErrPeriodTypeNotFound = errors.New("period type not found")

	// ErrPeriodTypeExists indicates a period type with the same name exists.
	ErrPeriodTypeExists = errors.New("period type already exists")

	// ErrSlugTaken indicates a slug collided at insert time.
	ErrSlugTaken = errors.New("slug already taken")
)

// IsNotFound reports whether err is one of the not-found domain errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRecipeNotFound) ||
		errors.Is(err, ErrRecipeTagNotFound) ||
		errors.Is(err, ErrPeriodTypeNotFound)
}

// DomainError wraps a domain error with additional context.
type DomainError struct {
	// Err is the underlying domain error.
	Err error

	// Message provides additional context.
	Message string

	// Resource identifies the affected resource (e.g., a slug or an email).
	Resource string
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Err.Error(), e.Message, e.Resource)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError with context.
func NewDomainError(err error, message, resource string) *DomainError {
	return &DomainError{
		Err:      err,
		Message:  message,
		Resource: resource,
	}
}
