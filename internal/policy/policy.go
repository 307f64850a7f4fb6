// Package policy holds the authorization predicates applied before mutations.
// An actor is the authenticated user of a request; nil means anonymous.
package policy

import (
	"errors"

	"github.com/prn-tf/recipebook/internal/domain"
)

var (
	// ErrUnauthenticated indicates the request carries no valid session.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// Owned is implemented by entities that belong to a user.
type Owned interface {
	OwnerID() int64
}

// RequireAuthenticated fails for anonymous actors.
func RequireAuthenticated(actor *domain.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// RequireSuperuser fails for anonymous actors and for regular users.
func RequireSuperuser(actor *domain.User) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsSuperuser {
		return ErrForbidden
	}
	return nil
}

// IsOwnerOrSuperuser reports whether actor owns target or is a superuser.
func IsOwnerOrSuperuser(actor *domain.User, target Owned) bool {
	if actor == nil {
		return false
	}
	return actor.IsSuperuser || actor.ID == target.OwnerID()
}

// RequireOwnerOrSuperuser fails unless actor owns target or is a superuser.
func RequireOwnerOrSuperuser(actor *domain.User, target Owned) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !IsOwnerOrSuperuser(actor, target) {
		return ErrForbidden
	}
	return nil
}
