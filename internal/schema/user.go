package schema

import (
	"github.com/prn-tf/recipebook/internal/domain"
)

// UserCreate is the registration payload.
type UserCreate struct {
	Name            string `json:"name" validate:"required,max=64"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm"`
}

// UserEdit is the partial profile update payload.
// Nil fields are left untouched.
type UserEdit struct {
	Name  *string `json:"name" validate:"omitnil,max=64"`
	Bio   *string `json:"bio" validate:"omitnil,max=512"`
	Email *string `json:"email" validate:"omitnil,email"`
}

// Empty reports whether the payload carries no field at all.
func (e UserEdit) Empty() bool {
	return e.Name == nil && e.Bio == nil && e.Email == nil
}

// UserLogin is the login payload.
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=128"`
}

// UserPublic is the public projection of a user.
type UserPublic struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserDetailed adds the profile text to the public projection.
type UserDetailed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio"`
}

// UserID is the login response body.
type UserID struct {
	ID int64 `json:"id"`
}

// NewUserPublic projects u for public listings.
func NewUserPublic(u *domain.User) UserPublic {
	return UserPublic{ID: u.ID, Name: u.Name}
}

// NewUserDetailed projects u with its bio.
func NewUserDetailed(u *domain.User) UserDetailed {
	return UserDetailed{ID: u.ID, Name: u.Name, Bio: u.Bio}
}
