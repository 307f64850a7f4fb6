// Package service provides business logic services for recipebook.
// Every mutating operation composes its guards in the same order:
// authentication, payload validation, existence, authorization, mutation.
package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	// ErrInternalError wraps persistence and other unexpected failures.
	ErrInternalError = errors.New("internal server error")
)

// Client-facing messages.
const (
	MsgPasswordsMismatch     = "Passwords do not match."
	MsgEmailTaken            = "The email is already taken."
	MsgInvalidCredentials    = "Login credentials are incorrect."
	MsgWeakPassword          = "Password does not meet strength requirements: "
	MsgPeriodTypeNotFound    = "Period type with such ID doesn't exist."
	MsgRecipeTagNotFoundFmt  = "Recipe tag with ID %d doesn't exist."
	MsgPeriodTypeNameTaken   = "Recipe Type with such name already exists."
	MsgPeriodTypeNameMissing = "Recipe Type name must not be empty."
)

// internal wraps err so that handlers render the generic error.
func internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternalError, err)
}
