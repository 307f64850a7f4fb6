package sqlstore

import (
	"context"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// recipeTagRepository implements repository.RecipeTagRepository.
type recipeTagRepository struct {
	s *Store
}

// NewRecipeTagRepository creates a new recipe tag repository.
func NewRecipeTagRepository(s *Store) repository.RecipeTagRepository {
	return &recipeTagRepository{s: s}
}

// Create creates a new tag.
func (r *recipeTagRepository) Create(ctx context.Context, tag *domain.RecipeTag) error {
	err := r.s.queryRow(ctx,
		`INSERT INTO recipe_tags (name, slug) VALUES (?, ?) RETURNING id`,
		tag.Name, tag.Slug,
	).Scan(&tag.ID)
	if err != nil {
		if r.s.isUniqueViolation(err) {
			return domain.NewDomainError(domain.ErrSlugTaken, "unique constraint rejected insert", tag.Slug)
		}
		return fmt.Errorf("failed to create recipe tag: %w", err)
	}
	return nil
}

// GetByID retrieves a tag by ID.
func (r *recipeTagRepository) GetByID(ctx context.Context, id int64) (*domain.RecipeTag, error) {
	tag := &domain.RecipeTag{}
	err := r.s.queryRow(ctx, `SELECT id, name, slug FROM recipe_tags WHERE id = ?`, id).
		Scan(&tag.ID, &tag.Name, &tag.Slug)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRecipeTagNotFound
		}
		return nil, fmt.Errorf("failed to get recipe tag by ID: %w", err)
	}
	return tag, nil
}

// FindMissing returns the IDs that have no matching tag.
func (r *recipeTagRepository) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.s.query(ctx,
		`SELECT id FROM recipe_tags WHERE id IN (`+placeholders(len(ids))+`)`,
		int64Args(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recipe tags: %w", err)
	}
	defer rows.Close()

	found := make(map[int64]struct{}, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe tags: %w", err)
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// Update stores the tag name.
func (r *recipeTagRepository) Update(ctx context.Context, tag *domain.RecipeTag) error {
	result, err := r.s.exec(ctx, `UPDATE recipe_tags SET name = ? WHERE id = ?`, tag.Name, tag.ID)
	if err != nil {
		return fmt.Errorf("failed to update recipe tag: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRecipeTagNotFound
	}
	return nil
}

// Delete removes a tag. Links go with it through ON DELETE CASCADE.
func (r *recipeTagRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.s.exec(ctx, `DELETE FROM recipe_tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe tag: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRecipeTagNotFound
	}
	return nil
}

// List returns tags with pagination.
func (r *recipeTagRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.RecipeTag], error) {
	var total int64
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM recipe_tags`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count recipe tags: %w", err)
	}

	rows, err := r.s.query(ctx,
		`SELECT id, name, slug FROM recipe_tags ORDER BY id LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*domain.RecipeTag, 0, opts.Limit)
	for rows.Next() {
		tag := &domain.RecipeTag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipe tags: %w", err)
	}

	return &repository.ListResult[domain.RecipeTag]{
		Items:  tags,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsBySlug checks if a tag with the given slug exists.
func (r *recipeTagRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	exists, err := r.s.exists(ctx, `SELECT COUNT(*) FROM recipe_tags WHERE slug = ?`, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe tag slug: %w", err)
	}
	return exists, nil
}

var _ repository.RecipeTagRepository = (*recipeTagRepository)(nil)
