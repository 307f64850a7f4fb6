// Package domain contains the core business entities for recipebook.
// These are pure Go structs with no external dependencies, representing
// the fundamental concepts of the recipe sharing application.
package domain

import (
	"time"
)

// User represents a registered user in the system.
// Users author recipes; superusers additionally manage tags and other users.
type User struct {
	// ID is the unique identifier for the user (auto-generated).
	ID int64 `json:"id"`

	// Email is the unique email address used for login.
	// Uniqueness spans active and inactive users.
	Email string `json:"email"`

	// PasswordHash is the bcrypt hash of the user's password.
	// This should never be exposed in API responses.
	PasswordHash string `json:"-"`

	// Name is the display name.
	Name string `json:"name"`

	// Bio is a free-form profile text.
	Bio string `json:"bio"`

	// IsActive is false once the account has been soft-deleted.
	IsActive bool `json:"is_active"`

	// IsSuperuser grants moderation rights over every resource.
	IsSuperuser bool `json:"is_superuser"`

	// CreatedOn is the timestamp when the user registered.
	CreatedOn time.Time `json:"created_on"`
}

// NewUser creates a new active User with default values.
func NewUser(email, passwordHash, name string) *User {
	return &User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		IsActive:     true,
		IsSuperuser:  false,
		CreatedOn:    time.Now().UTC(),
	}
}

// CanAuthenticate returns true if the user is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return u.IsActive
}

// OwnerID returns the user's own ID; a user owns its account.
func (u *User) OwnerID() int64 {
	return u.ID
}
