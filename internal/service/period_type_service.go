package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/slug"
)

// PeriodTypeService handles period types. Creation and deletion are
// administrative and reachable from the admin CLI only.
type PeriodTypeService struct {
	periodTypeRepo repository.PeriodTypeRepository
	slugs          *slug.Generator
	metrics        Metrics
	logger         zerolog.Logger
}

// NewPeriodTypeService creates a new PeriodTypeService.
func NewPeriodTypeService(
	periodTypeRepo repository.PeriodTypeRepository,
	slugs *slug.Generator,
	metrics Metrics,
	logger zerolog.Logger,
) *PeriodTypeService {
	return &PeriodTypeService{
		periodTypeRepo: periodTypeRepo,
		slugs:          slugs,
		metrics:        metricsOrNop(metrics),
		logger:         logger.With().Str("service", "period_type").Logger(),
	}
}

// Create stores a new period type with a title-cased name.
// Returns domain.ErrPeriodTypeExists if the name is taken, ignoring case.
func (s *PeriodTypeService) Create(ctx context.Context, name string) (*domain.PeriodType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, schema.NewValidationError(schema.FieldError{Field: "name", Msg: MsgPeriodTypeNameMissing})
	}

	exists, err := s.periodTypeRepo.ExistsByName(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check period type name")
		return nil, internal(err)
	}
	if exists {
		return nil, domain.NewDomainError(domain.ErrPeriodTypeExists, MsgPeriodTypeNameTaken, name)
	}

	ptSlug, err := s.slugs.Generate(ctx, name, countCollisions(s.metrics, "period_type", s.periodTypeRepo.ExistsBySlug))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate period type slug")
		return nil, internal(err)
	}

	pt := &domain.PeriodType{Name: cases.Title(language.English).String(name), Slug: ptSlug}
	if err := s.periodTypeRepo.Create(ctx, pt); err != nil {
		s.logger.Error().Err(err).Str("slug", ptSlug).Msg("failed to create period type")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("period_type_id", pt.ID).
		Str("slug", pt.Slug).
		Msg("period type created")

	return pt, nil
}

// List returns a page of period types.
func (s *PeriodTypeService) List(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.PeriodType], error) {
	result, err := s.periodTypeRepo.List(ctx, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list period types")
		return nil, internal(err)
	}
	return result, nil
}

// Get retrieves a period type by ID.
func (s *PeriodTypeService) Get(ctx context.Context, id int64) (*domain.PeriodType, error) {
	pt, err := s.periodTypeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPeriodTypeNotFound) {
			return nil, domain.ErrPeriodTypeNotFound
		}
		s.logger.Error().Err(err).Int64("period_type_id", id).Msg("failed to get period type")
		return nil, internal(err)
	}
	return pt, nil
}

// Delete removes a period type. Recipes referencing it lose the reference.
func (s *PeriodTypeService) Delete(ctx context.Context, id int64) error {
	if err := s.periodTypeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrPeriodTypeNotFound) {
			return domain.ErrPeriodTypeNotFound
		}
		s.logger.Error().Err(err).Int64("period_type_id", id).Msg("failed to delete period type")
		return internal(err)
	}

	s.logger.Info().Int64("period_type_id", id).Msg("period type deleted")
	return nil
}

// DeleteAll removes every period type and returns how many were removed.
func (s *PeriodTypeService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.periodTypeRepo.DeleteAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to delete period types")
		return 0, internal(err)
	}

	s.logger.Info().Int64("deleted", n).Msg("all period types deleted")
	return n, nil
}
