package schema

import (
	"time"

	"github.com/prn-tf/recipebook/internal/domain"
)

// RecipeCreate is the payload for a new recipe. The slug is derived from
// Name and the author is the caller; neither is accepted from the client.
type RecipeCreate struct {
	Name         string  `json:"name" validate:"required,max=64"`
	Calories     *Int    `json:"calories" validate:"required,gte=0"`
	CookingTime  *Int    `json:"cooking_time" validate:"required,gte=0"`
	Ingredients  *string `json:"ingredients" validate:"required,max=512"`
	Text         *string `json:"text" validate:"required,max=8192"`
	PeriodTypeID *Int    `json:"period_type_id" validate:"required"`
	Tags         []Int   `json:"tags"`
	IsPublished  *bool   `json:"is_published"`
}

// RecipeUpdate is the partial recipe update payload.
// Nil fields are left untouched; a non-nil Tags replaces the tag set.
type RecipeUpdate struct {
	Name         *string `json:"name" validate:"omitnil,min=1,max=64"`
	Calories     *Int    `json:"calories" validate:"omitnil,gte=0"`
	CookingTime  *Int    `json:"cooking_time" validate:"omitnil,gte=0"`
	Ingredients  *string `json:"ingredients" validate:"omitnil,max=512"`
	Text         *string `json:"text" validate:"omitnil,max=8192"`
	PeriodTypeID *Int    `json:"period_type_id"`
	Tags         *[]Int  `json:"tags"`
	IsPublished  *bool   `json:"is_published"`
}

// TagIDs converts client tag IDs, dropping duplicates but keeping order.
func TagIDs(tags []Int) []int64 {
	seen := make(map[int64]struct{}, len(tags))
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		id := t.Int64()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// PeriodTypeOut is the response shape of a period type.
type PeriodTypeOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewPeriodTypeOut projects p.
func NewPeriodTypeOut(p *domain.PeriodType) PeriodTypeOut {
	return PeriodTypeOut{ID: p.ID, Name: p.Name, Slug: p.Slug}
}

// RecipeOut is the response shape of a recipe.
type RecipeOut struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Calories    int64          `json:"calories"`
	CookingTime int64          `json:"cooking_time"`
	Ingredients string         `json:"ingredients"`
	Text        string         `json:"text"`
	IsPublished bool           `json:"is_published"`
	CreatedOn   time.Time      `json:"created_on"`
	PublishedOn *time.Time     `json:"published_on"`
	LastUpdated time.Time      `json:"last_updated"`
	PeriodType  *PeriodTypeOut `json:"period_type"`
	Author      *UserPublic    `json:"author"`
	Tags        []RecipeTagOut `json:"tags"`
}

// NewRecipeOut projects r, including its loaded relations.
func NewRecipeOut(r *domain.Recipe) RecipeOut {
	out := RecipeOut{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Calories:    r.Calories,
		CookingTime: r.CookingTime,
		Ingredients: r.Ingredients,
		Text:        r.Text,
		IsPublished: r.IsPublished,
		CreatedOn:   r.CreatedOn,
		PublishedOn: r.PublishedOn,
		LastUpdated: r.LastUpdated,
		Tags:        make([]RecipeTagOut, 0, len(r.Tags)),
	}
	if r.PeriodType != nil {
		pt := NewPeriodTypeOut(r.PeriodType)
		out.PeriodType = &pt
	}
	if r.Author != nil {
		a := NewUserPublic(r.Author)
		out.Author = &a
	}
	for _, t := range r.Tags {
		out.Tags = append(out.Tags, NewRecipeTagOut(t))
	}
	return out
}
