package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/slug"
)

// RecipeTagService handles recipe tag operations. Writes are superuser-only.
type RecipeTagService struct {
	tagRepo   repository.RecipeTagRepository
	slugs     *slug.Generator
	validator *schema.Validator
	metrics   Metrics
	logger    zerolog.Logger
}

// NewRecipeTagService creates a new RecipeTagService.
func NewRecipeTagService(
	tagRepo repository.RecipeTagRepository,
	slugs *slug.Generator,
	validator *schema.Validator,
	metrics Metrics,
	logger zerolog.Logger,
) *RecipeTagService {
	return &RecipeTagService{
		tagRepo:   tagRepo,
		slugs:     slugs,
		validator: validator,
		metrics:   metricsOrNop(metrics),
		logger:    logger.With().Str("service", "recipe_tag").Logger(),
	}
}

// Create stores a new tag.
func (s *RecipeTagService) Create(ctx context.Context, actor *domain.User, in schema.RecipeTagCreate) (*domain.RecipeTag, error) {
	if err := policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}

	if err := s.validator.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	tagSlug, err := s.slugs.Generate(ctx, in.Name, countCollisions(s.metrics, "recipe_tag", s.tagRepo.ExistsBySlug))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate tag slug")
		return nil, internal(err)
	}

	tag := &domain.RecipeTag{Name: in.Name, Slug: tagSlug}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		s.logger.Error().Err(err).Str("slug", tagSlug).Msg("failed to create recipe tag")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("tag_id", tag.ID).
		Str("slug", tag.Slug).
		Msg("recipe tag created")

	return tag, nil
}

// List returns a page of tags.
func (s *RecipeTagService) List(ctx context.Context, page schema.Page) (*repository.ListResult[domain.RecipeTag], error) {
	result, err := s.tagRepo.List(ctx, repository.ListOptions{Offset: page.Offset(), Limit: page.PerPage})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recipe tags")
		return nil, internal(err)
	}
	return result, nil
}

// Get retrieves a tag by ID.
func (s *RecipeTagService) Get(ctx context.Context, id int64) (*domain.RecipeTag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeTagNotFound) {
			return nil, domain.ErrRecipeTagNotFound
		}
		s.logger.Error().Err(err).Int64("tag_id", id).Msg("failed to get recipe tag")
		return nil, internal(err)
	}
	return tag, nil
}

// Update renames a tag. The slug is kept.
func (s *RecipeTagService) Update(ctx context.Context, actor *domain.User, id int64, in schema.RecipeTagUpdate) (*domain.RecipeTag, error) {
	if err := policy.RequireSuperuser(actor); err != nil {
		return nil, err
	}

	if err := s.validator.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	tag, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name == nil {
		return tag, nil
	}

	tag.Name = *in.Name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		s.logger.Error().Err(err).Int64("tag_id", id).Msg("failed to update recipe tag")
		return nil, internal(err)
	}

	return tag, nil
}

// Delete removes a tag and detaches it from every recipe.
func (s *RecipeTagService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := policy.RequireSuperuser(actor); err != nil {
		return err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.tagRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrRecipeTagNotFound) {
			return domain.ErrRecipeTagNotFound
		}
		s.logger.Error().Err(err).Int64("tag_id", id).Msg("failed to delete recipe tag")
		return internal(err)
	}

	s.logger.Info().Int64("tag_id", id).Msg("recipe tag deleted")
	return nil
}
