// Package repository defines data access interfaces for recipebook.
// These interfaces abstract database operations, allowing for different implementations
// (SQLite, PostgreSQL, in-memory fakes for testing) while keeping the service layer clean.
package repository

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
)

// =============================================================================
// Scopes
// =============================================================================

// Scope restricts which records a lookup may return.
type Scope uint8

const (
	// ScopeVisible excludes soft-deleted records: hidden recipes and inactive users.
	ScopeVisible Scope = iota

	// ScopeAll includes soft-deleted records.
	ScopeAll
)

// ScopeActive is ScopeVisible as applied to users.
const ScopeActive = ScopeVisible

// Filtered reports whether the scope hides soft-deleted records.
func (s Scope) Filtered() bool {
	return s != ScopeAll
}

// =============================================================================
// User Repository
// =============================================================================

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user and sets its ID.
	// Returns domain.ErrEmailTaken if the email is already stored.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID within scope.
	GetByID(ctx context.Context, id int64, scope Scope) (*domain.User, error)

	// GetByEmail retrieves a user by email within scope.
	GetByEmail(ctx context.Context, email string, scope Scope) (*domain.User, error)

	// ExistsByEmail checks if any user, active or not, has the given email.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Update stores every mutable field of user.
	Update(ctx context.Context, user *domain.User) error

	// SoftDelete marks the user inactive.
	SoftDelete(ctx context.Context, id int64) error

	// List returns users within scope ordered by ID.
	List(ctx context.Context, scope Scope, opts ListOptions) (*ListResult[domain.User], error)
}

// =============================================================================
// Recipe Repository
// =============================================================================

// RecipeRepository defines the interface for recipe data access.
// Reads populate Author, PeriodType and Tags.
type RecipeRepository interface {
	// Create creates a new recipe with its tag links and sets its ID.
	// Returns domain.ErrSlugTaken if the slug is already stored.
	Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error

	// GetByID retrieves a recipe by ID within scope.
	GetByID(ctx context.Context, id int64, scope Scope) (*domain.Recipe, error)

	// Update stores every mutable field of recipe. A non-nil tagIDs
	// replaces the tag links; nil leaves them untouched.
	Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error

	// SoftDelete marks the recipe invisible.
	SoftDelete(ctx context.Context, id int64) error

	// List returns recipes within scope ordered by ID.
	List(ctx context.Context, scope Scope, opts ListOptions) (*ListResult[domain.Recipe], error)

	// ExistsBySlug checks if any recipe, visible or not, has the given slug.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// =============================================================================
// Recipe Tag Repository
// =============================================================================

// RecipeTagRepository defines the interface for recipe tag data access.
type RecipeTagRepository interface {
	// Create creates a new tag and sets its ID.
	Create(ctx context.Context, tag *domain.RecipeTag) error

	// GetByID retrieves a tag by ID.
	GetByID(ctx context.Context, id int64) (*domain.RecipeTag, error)

	// FindMissing returns the IDs from ids that have no tag, in input order.
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)

	// Update stores the tag name.
	Update(ctx context.Context, tag *domain.RecipeTag) error

	// Delete removes a tag and its recipe links.
	Delete(ctx context.Context, id int64) error

	// List returns tags ordered by ID.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.RecipeTag], error)

	// ExistsBySlug checks if a tag with the given slug exists.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// =============================================================================
// Period Type Repository
// =============================================================================

// PeriodTypeRepository defines the interface for period type data access.
type PeriodTypeRepository interface {
	// Create creates a new period type and sets its ID.
	Create(ctx context.Context, pt *domain.PeriodType) error

	// GetByID retrieves a period type by ID.
	GetByID(ctx context.Context, id int64) (*domain.PeriodType, error)

	// ExistsByName checks case-insensitively if a period type has the given name.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// ExistsBySlug checks if a period type with the given slug exists.
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Delete removes a period type; recipes referencing it lose the reference.
	Delete(ctx context.Context, id int64) error

	// DeleteAll removes every period type and returns how many were removed.
	DeleteAll(ctx context.Context) (int64, error)

	// List returns period types ordered by ID.
	List(ctx context.Context, opts ListOptions) (*ListResult[domain.PeriodType], error)
}

// =============================================================================
// Transactions
// =============================================================================

// TxManager runs a function inside a database transaction.
// Repository calls made with the ctx passed to fn join the transaction.
// fn's error rolls the transaction back; a nil error commits it.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// =============================================================================
// Common Types
// =============================================================================

// ListOptions contains common pagination options.
type ListOptions struct {
	// Offset is the number of records to skip.
	Offset int

	// Limit is the maximum number of records to return.
	Limit int
}

// ListResult is a generic paginated list result.
type ListResult[T any] struct {
	// Items is the list of items.
	Items []*T

	// Total is the total number of items (without pagination).
	Total int64

	// Offset is the current offset.
	Offset int

	// Limit is the current limit.
	Limit int
}
