package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

const recipeSelect = `
	SELECT r.id, r.name, r.slug, r.author_id, r.calories, r.cooking_time,
		r.period_type_id, r.ingredients, r.text, r.is_published, r.is_visible,
		r.created_on, r.published_on, r.last_updated,
		u.id, u.name, u.bio,
		p.id, p.name, p.slug
	FROM recipes r
	LEFT JOIN users u ON u.id = r.author_id
	LEFT JOIN period_types p ON p.id = r.period_type_id
`

// recipeRepository implements repository.RecipeRepository.
type recipeRepository struct {
	s *Store
}

// NewRecipeRepository creates a new recipe repository.
func NewRecipeRepository(s *Store) repository.RecipeRepository {
	return &recipeRepository{s: s}
}

func scanRecipe(row rowScanner) (*domain.Recipe, error) {
	recipe := &domain.Recipe{Tags: []*domain.RecipeTag{}}

	var (
		periodTypeID sql.NullInt64
		createdOn    timeScanner
		publishedOn  timeScanner
		lastUpdated  timeScanner
		authorID     sql.NullInt64
		authorName   sql.NullString
		authorBio    sql.NullString
		ptID         sql.NullInt64
		ptName       sql.NullString
		ptSlug       sql.NullString
	)

	err := row.Scan(
		&recipe.ID,
		&recipe.Name,
		&recipe.Slug,
		&recipe.AuthorID,
		&recipe.Calories,
		&recipe.CookingTime,
		&periodTypeID,
		&recipe.Ingredients,
		&recipe.Text,
		&recipe.IsPublished,
		&recipe.IsVisible,
		&createdOn,
		&publishedOn,
		&lastUpdated,
		&authorID,
		&authorName,
		&authorBio,
		&ptID,
		&ptName,
		&ptSlug,
	)
	if err != nil {
		return nil, err
	}

	recipe.CreatedOn = createdOn.t
	recipe.PublishedOn = publishedOn.ptr()
	recipe.LastUpdated = lastUpdated.t

	if periodTypeID.Valid {
		id := periodTypeID.Int64
		recipe.PeriodTypeID = &id
	}
	if authorID.Valid {
		recipe.Author = &domain.User{
			ID:   authorID.Int64,
			Name: authorName.String,
			Bio:  authorBio.String,
		}
	}
	if ptID.Valid {
		recipe.PeriodType = &domain.PeriodType{
			ID:   ptID.Int64,
			Name: ptName.String,
			Slug: ptSlug.String,
		}
	}

	return recipe, nil
}

func visibleFilter(where string, args []any, scope repository.Scope) (string, []any) {
	if !scope.Filtered() {
		return where, args
	}
	if where == "" {
		return "WHERE r.is_visible = ?", append(args, true)
	}
	return where + " AND r.is_visible = ?", append(args, true)
}

// Create creates a new recipe with its tag links.
func (r *recipeRepository) Create(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error {
	return r.s.WithTx(ctx, func(ctx context.Context) error {
		query := `
			INSERT INTO recipes (
				name, slug, author_id, calories, cooking_time, period_type_id,
				ingredients, text, is_published, is_visible,
				created_on, published_on, last_updated
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`

		err := r.s.queryRow(ctx, query,
			recipe.Name,
			recipe.Slug,
			recipe.AuthorID,
			recipe.Calories,
			recipe.CookingTime,
			nullInt64(recipe.PeriodTypeID),
			recipe.Ingredients,
			recipe.Text,
			recipe.IsPublished,
			recipe.IsVisible,
			recipe.CreatedOn.UTC(),
			nullTime(recipe.PublishedOn),
			recipe.LastUpdated.UTC(),
		).Scan(&recipe.ID)
		if err != nil {
			if r.s.isUniqueViolation(err) {
				return domain.NewDomainError(domain.ErrSlugTaken, "unique constraint rejected insert", recipe.Slug)
			}
			return fmt.Errorf("failed to create recipe: %w", err)
		}

		return r.linkTags(ctx, recipe.ID, tagIDs)
	})
}

// linkTags inserts one link per tag ID.
func (r *recipeRepository) linkTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	for _, tagID := range tagIDs {
		_, err := r.s.exec(ctx,
			`INSERT INTO recipe_tag_links (recipe_id, tag_id) VALUES (?, ?)`,
			recipeID, tagID,
		)
		if err != nil {
			return fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}
	return nil
}

// GetByID retrieves a recipe by ID.
func (r *recipeRepository) GetByID(ctx context.Context, id int64, scope repository.Scope) (*domain.Recipe, error) {
	where, args := visibleFilter("WHERE r.id = ?", []any{id}, scope)

	recipe, err := scanRecipe(r.s.queryRow(ctx, recipeSelect+where, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	if err := r.loadTags(ctx, []*domain.Recipe{recipe}); err != nil {
		return nil, err
	}
	return recipe, nil
}

// loadTags populates Tags for every recipe with a single query.
func (r *recipeRepository) loadTags(ctx context.Context, recipes []*domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Recipe, len(recipes))
	ids := make([]int64, 0, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
		ids = append(ids, recipe.ID)
	}

	query := `
		SELECT l.recipe_id, t.id, t.name, t.slug
		FROM recipe_tag_links l
		JOIN recipe_tags t ON t.id = l.tag_id
		WHERE l.recipe_id IN (` + placeholders(len(ids)) + `)
		ORDER BY t.id
	`

	rows, err := r.s.query(ctx, query, int64Args(ids)...)
	if err != nil {
		return fmt.Errorf("failed to load recipe tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var recipeID int64
		tag := &domain.RecipeTag{}
		if err := rows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Tags = append(recipe.Tags, tag)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating recipe tags: %w", err)
	}
	return nil
}

// Update updates an existing recipe.
func (r *recipeRepository) Update(ctx context.Context, recipe *domain.Recipe, tagIDs []int64) error {
	return r.s.WithTx(ctx, func(ctx context.Context) error {
		query := `
			UPDATE recipes
			SET name = ?, calories = ?, cooking_time = ?, period_type_id = ?,
				ingredients = ?, text = ?, is_published = ?, is_visible = ?,
				published_on = ?, last_updated = ?
			WHERE id = ?
		`

		result, err := r.s.exec(ctx, query,
			recipe.Name,
			recipe.Calories,
			recipe.CookingTime,
			nullInt64(recipe.PeriodTypeID),
			recipe.Ingredients,
			recipe.Text,
			recipe.IsPublished,
			recipe.IsVisible,
			nullTime(recipe.PublishedOn),
			recipe.LastUpdated.UTC(),
			recipe.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update recipe: %w", err)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if tagIDs == nil {
			return nil
		}

		if _, err := r.s.exec(ctx, `DELETE FROM recipe_tag_links WHERE recipe_id = ?`, recipe.ID); err != nil {
			return fmt.Errorf("failed to clear recipe tags: %w", err)
		}
		return r.linkTags(ctx, recipe.ID, tagIDs)
	})
}

// SoftDelete hides a recipe.
func (r *recipeRepository) SoftDelete(ctx context.Context, id int64) error {
	result, err := r.s.exec(ctx,
		`UPDATE recipes SET is_visible = ?, last_updated = ? WHERE id = ?`,
		false, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to hide recipe: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}

	return nil
}

// List returns recipes with pagination.
func (r *recipeRepository) List(ctx context.Context, scope repository.Scope, opts repository.ListOptions) (*repository.ListResult[domain.Recipe], error) {
	where, args := visibleFilter("", nil, scope)

	var total int64
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM recipes r `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}

	rows, err := r.s.query(ctx, recipeSelect+where+` ORDER BY r.id LIMIT ? OFFSET ?`, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]*domain.Recipe, 0, opts.Limit)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}
	// Released before loadTags: an in-memory database has a single connection.
	rows.Close()

	if err := r.loadTags(ctx, recipes); err != nil {
		return nil, err
	}

	return &repository.ListResult[domain.Recipe]{
		Items:  recipes,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

// ExistsBySlug checks if a recipe with the given slug exists.
func (r *recipeRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	exists, err := r.s.exists(ctx, `SELECT COUNT(*) FROM recipes WHERE slug = ?`, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe slug: %w", err)
	}
	return exists, nil
}

// Ensure recipeRepository implements repository.RecipeRepository.
var _ repository.RecipeRepository = (*recipeRepository)(nil)
