package sqlstore

import (
	"context"
	"fmt"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// periodTypeRepository implements repository.PeriodTypeRepository.
type periodTypeRepository struct {
	s *Store
}

// NewPeriodTypeRepository creates a new period type repository.
func NewPeriodTypeRepository(s *Store) repository.PeriodTypeRepository {
	return &periodTypeRepository{s: s}
}

// Create creates a new period type.
func (r *periodTypeRepository) Create(ctx context.Context, pt *domain.PeriodType) error {
	err := r.s.queryRow(ctx,
		`INSERT INTO period_types (name, slug) VALUES (?, ?) RETURNING id`,
		pt.Name, pt.Slug,
	).Scan(&pt.ID)
	if err != nil {
		if r.s.isUniqueViolation(err) {
			return domain.NewDomainError(domain.ErrSlugTaken, "unique constraint rejected insert", pt.Slug)
		}
		return fmt.Errorf("failed to create period type: %w", err)
	}
	return nil
}

// GetByID retrieves a period type by ID.
func (r *periodTypeRepository) GetByID(ctx context.Context, id int64) (*domain.PeriodType, error) {
	pt := &domain.PeriodType{}
	err := r.s.queryRow(ctx, `SELECT id, name, slug FROM period_types WHERE id = ?`, id).
		Scan(&pt.ID, &pt.Name, &pt.Slug)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPeriodTypeNotFound
		}
		return nil, fmt.Errorf("failed to get period type by ID: %w", err)
	}
	return pt, nil
}

// ExistsByName checks case-insensitively if a period type has the given name.
func (r *periodTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	exists, err := r.s.exists(ctx, `SELECT COUNT(*) FROM period_types WHERE LOWER(name) = LOWER(?)`, name)
	if err != nil {
		return false, fmt.Errorf("failed to check period type name: %w", err)
	}
	return exists, nil
}

// ExistsBySlug checks if a period type with the given slug exists.
func (r *periodTypeRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	exists, err := r.s.exists(ctx, `SELECT COUNT(*) FROM period_types WHERE slug = ?`, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check period type slug: %w", err)
	}
	return exists, nil
}

// Delete removes a period type. Recipes keep a NULL reference.
func (r *periodTypeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.s.exec(ctx, `DELETE FROM period_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete period type: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrPeriodTypeNotFound
	}
	return nil
}

// DeleteAll removes every period type.
func (r *periodTypeRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.s.exec(ctx, `DELETE FROM period_types`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete period types: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// List returns period types with pagination.
func (r *periodTypeRepository) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.PeriodType], error) {
	var total int64
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM period_types`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count period types: %w", err)
	}

	rows, err := r.s.query(ctx,
		`SELECT id, name, slug FROM period_types ORDER BY id LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list period types: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.PeriodType, 0, opts.Limit)
	for rows.Next() {
		pt := &domain.PeriodType{}
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan period type: %w", err)
		}
		items = append(items, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period types: %w", err)
	}

	return &repository.ListResult[domain.PeriodType]{
		Items:  items,
		Total:  total,
		Offset: opts.Offset,
		Limit:  opts.Limit,
	}, nil
}

var _ repository.PeriodTypeRepository = (*periodTypeRepository)(nil)
