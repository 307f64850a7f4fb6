package schema

import (
	"github.com/prn-tf/recipebook/internal/domain"
)

// RecipeTagCreate is the payload for a new tag.
type RecipeTagCreate struct {
	Name string `json:"name" validate:"required,max=64"`
}

// RecipeTagUpdate is the partial tag update payload.
type RecipeTagUpdate struct {
	Name *string `json:"name" validate:"omitnil,min=1,max=64"`
}

// RecipeTagOut is the response shape of a tag.
type RecipeTagOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewRecipeTagOut projects t.
func NewRecipeTagOut(t *domain.RecipeTag) RecipeTagOut {
	return RecipeTagOut{ID: t.ID, Name: t.Name, Slug: t.Slug}
}
