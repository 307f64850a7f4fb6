package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/slug"
)

// RecipeService handles recipe operations.
type RecipeService struct {
	recipeRepo     repository.RecipeRepository
	tagRepo        repository.RecipeTagRepository
	periodTypeRepo repository.PeriodTypeRepository
	slugs          *slug.Generator
	validator      *schema.Validator
	metrics        Metrics
	logger         zerolog.Logger
	now            func() time.Time
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	repos *repository.Repositories,
	slugs *slug.Generator,
	validator *schema.Validator,
	metrics Metrics,
	logger zerolog.Logger,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     repos.Recipe,
		tagRepo:        repos.RecipeTag,
		periodTypeRepo: repos.PeriodType,
		slugs:          slugs,
		validator:      validator,
		metrics:        metricsOrNop(metrics),
		logger:         logger.With().Str("service", "recipe").Logger(),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new recipe authored by actor.
func (s *RecipeService) Create(ctx context.Context, actor *domain.User, in schema.RecipeCreate) (*domain.Recipe, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	verr := s.validator.Struct(in)
	if verr.OrNil() != nil {
		return nil, verr
	}

	tagIDs := schema.TagIDs(in.Tags)
	periodTypeID := in.PeriodTypeID.Int64()
	if err := s.checkRelations(ctx, verr, &periodTypeID, tagIDs); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	recipeSlug, err := s.slugs.Generate(ctx, in.Name, countCollisions(s.metrics, "recipe", s.recipeRepo.ExistsBySlug))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to generate recipe slug")
		return nil, internal(err)
	}

	recipe := domain.NewRecipe(actor.ID, in.Name, recipeSlug)
	recipe.Calories = in.Calories.Int64()
	recipe.CookingTime = in.CookingTime.Int64()
	recipe.Ingredients = *in.Ingredients
	recipe.Text = *in.Text
	recipe.PeriodTypeID = &periodTypeID
	if in.IsPublished != nil {
		recipe.SetPublished(*in.IsPublished, recipe.CreatedOn)
	}

	if err := s.recipeRepo.Create(ctx, recipe, tagIDs); err != nil {
		s.logger.Error().Err(err).Str("slug", recipeSlug).Msg("failed to create recipe")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("recipe_id", recipe.ID).
		Int64("author_id", actor.ID).
		Str("slug", recipe.Slug).
		Msg("recipe created")

	return s.reload(ctx, recipe.ID)
}

// checkRelations records a failure on verr for every referenced period type
// or tag that does not exist. A nil periodTypeID is not checked.
func (s *RecipeService) checkRelations(ctx context.Context, verr *schema.ValidationError, periodTypeID *int64, tagIDs []int64) error {
	if periodTypeID != nil {
		if _, err := s.periodTypeRepo.GetByID(ctx, *periodTypeID); err != nil {
			if !errors.Is(err, domain.ErrPeriodTypeNotFound) {
				s.logger.Error().Err(err).Msg("failed to look up period type")
				return internal(err)
			}
			verr.Add("period_type_id", MsgPeriodTypeNotFound)
		}
	}

	if len(tagIDs) > 0 {
		missing, err := s.tagRepo.FindMissing(ctx, tagIDs)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to look up recipe tags")
			return internal(err)
		}
		for _, id := range missing {
			verr.Add("tags", fmt.Sprintf(MsgRecipeTagNotFoundFmt, id))
		}
	}

	return nil
}

// reload reads a recipe back with its relations.
func (s *RecipeService) reload(ctx context.Context, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id, repository.ScopeAll)
	if err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to reload recipe")
		return nil, internal(err)
	}
	return recipe, nil
}

// List returns a page of visible recipes.
func (s *RecipeService) List(ctx context.Context, page schema.Page) (*repository.ListResult[domain.Recipe], error) {
	result, err := s.recipeRepo.List(ctx, repository.ScopeVisible, repository.ListOptions{
		Offset: page.Offset(),
		Limit:  page.PerPage,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list recipes")
		return nil, internal(err)
	}
	return result, nil
}

// Get retrieves a visible recipe by ID.
func (s *RecipeService) Get(ctx context.Context, id int64) (*domain.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, id, repository.ScopeVisible)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to get recipe")
		return nil, internal(err)
	}
	return recipe, nil
}

// Update applies a partial edit on behalf of actor. The slug is kept.
func (s *RecipeService) Update(ctx context.Context, actor *domain.User, id int64, in schema.RecipeUpdate) (*domain.Recipe, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	verr := s.validator.Struct(in)
	if verr.OrNil() != nil {
		return nil, verr
	}

	var periodTypeID *int64
	if in.PeriodTypeID != nil {
		v := in.PeriodTypeID.Int64()
		periodTypeID = &v
	}
	var tagIDs []int64
	if in.Tags != nil {
		tagIDs = schema.TagIDs(*in.Tags)
	}
	if err := s.checkRelations(ctx, verr, periodTypeID, tagIDs); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireOwnerOrSuperuser(actor, recipe); err != nil {
		return nil, err
	}

	now := s.now()
	if in.Name != nil {
		recipe.Name = *in.Name
	}
	if in.Calories != nil {
		recipe.Calories = in.Calories.Int64()
	}
	if in.CookingTime != nil {
		recipe.CookingTime = in.CookingTime.Int64()
	}
	if in.Ingredients != nil {
		recipe.Ingredients = *in.Ingredients
	}
	if in.Text != nil {
		recipe.Text = *in.Text
	}
	if periodTypeID != nil {
		recipe.PeriodTypeID = periodTypeID
	}
	if in.IsPublished != nil {
		recipe.SetPublished(*in.IsPublished, now)
	}
	recipe.LastUpdated = now

	if err := s.recipeRepo.Update(ctx, recipe, tagIDs); err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to update recipe")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("recipe_id", recipe.ID).
		Int64("actor_id", actor.ID).
		Msg("recipe updated")

	return s.reload(ctx, recipe.ID)
}

// Delete hides a recipe on behalf of actor.
func (s *RecipeService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return err
	}

	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.RequireOwnerOrSuperuser(actor, recipe); err != nil {
		return err
	}

	if err := s.recipeRepo.SoftDelete(ctx, recipe.ID); err != nil {
		s.logger.Error().Err(err).Int64("recipe_id", id).Msg("failed to hide recipe")
		return internal(err)
	}

	s.logger.Info().
		Int64("recipe_id", recipe.ID).
		Int64("actor_id", actor.ID).
		Msg("recipe deleted")

	return nil
}
