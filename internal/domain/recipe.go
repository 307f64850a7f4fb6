package domain

import (
	"time"
)

// PeriodType is a meal-time category such as breakfast or dinner.
type PeriodType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RecipeTag is a label attached to recipes.
type RecipeTag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Recipe represents a recipe authored by a user.
type Recipe struct {
	// ID is the unique identifier for the recipe (auto-generated).
	ID int64 `json:"id"`

	// Name is the display name; at most 64 characters.
	Name string `json:"name"`

	// Slug is derived from Name once, at creation.
	Slug string `json:"slug"`

	// AuthorID references the owning user and never changes.
	AuthorID int64 `json:"author_id"`

	// Author is populated on reads; nil when the author row is gone.
	Author *User `json:"author,omitempty"`

	Calories    int64 `json:"calories"`
	CookingTime int64 `json:"cooking_time"`

	// PeriodTypeID is nil when the period type was deleted.
	PeriodTypeID *int64      `json:"period_type_id"`
	PeriodType   *PeriodType `json:"period_type,omitempty"`

	Ingredients string `json:"ingredients"`
	Text        string `json:"text"`

	IsPublished bool `json:"is_published"`

	// IsVisible is false once the recipe has been soft-deleted.
	IsVisible bool `json:"is_visible"`

	CreatedOn   time.Time  `json:"created_on"`
	PublishedOn *time.Time `json:"published_on"`
	LastUpdated time.Time  `json:"last_updated"`

	// Tags is populated on reads, ordered by tag ID.
	Tags []*RecipeTag `json:"tags"`
}

// NewRecipe creates a new visible Recipe owned by authorID.
func NewRecipe(authorID int64, name, slug string) *Recipe {
	now := time.Now().UTC()
	return &Recipe{
		Name:        name,
		Slug:        slug,
		AuthorID:    authorID,
		IsVisible:   true,
		CreatedOn:   now,
		LastUpdated: now,
		Tags:        []*RecipeTag{},
	}
}

// OwnerID returns the ID of the recipe's author.
func (r *Recipe) OwnerID() int64 {
	return r.AuthorID
}

// SetPublished flips the publication flag and stamps PublishedOn the first
// time the recipe is published.
func (r *Recipe) SetPublished(published bool, now time.Time) {
	r.IsPublished = published
	if published && r.PublishedOn == nil {
		t := now
		r.PublishedOn = &t
	}
}

// TagIDs returns the IDs of the recipe's tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
