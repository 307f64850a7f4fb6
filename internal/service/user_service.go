package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/password"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
)

// UserService handles user management operations.
type UserService struct {
	userRepo  repository.UserRepository
	hasher    password.Hasher
	policy    *password.Policy
	validator *schema.Validator
	metrics   Metrics
	logger    zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	hasher password.Hasher,
	pwPolicy *password.Policy,
	validator *schema.Validator,
	metrics Metrics,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		hasher:    hasher,
		policy:    pwPolicy,
		validator: validator,
		metrics:   metricsOrNop(metrics),
		logger:    logger.With().Str("service", "user").Logger(),
	}
}

// Register creates a new user account.
func (s *UserService) Register(ctx context.Context, in schema.UserCreate) (*domain.User, error) {
	if in.Password != in.PasswordConfirm {
		s.metrics.Registration(ResultRejected)
		return nil, schema.Message(MsgPasswordsMismatch)
	}

	verr := s.validator.Struct(in)

	if !verr.HasField("password") {
		if failed := s.policy.Test(in.Password); len(failed) > 0 {
			verr.Add("password", weakPasswordMessage(failed))
		}
	}

	if !verr.HasField("email") {
		exists, err := s.userRepo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to check email availability")
			s.metrics.Registration(ResultError)
			return nil, internal(err)
		}
		if exists {
			verr.Add("email", MsgEmailTaken)
		}
	}

	if err := verr.OrNil(); err != nil {
		s.metrics.Registration(ResultRejected)
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		s.metrics.Registration(ResultError)
		return nil, internal(err)
	}

	user := domain.NewUser(in.Email, hash, in.Name)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			// Lost the race against a concurrent registration.
			s.metrics.Registration(ResultRejected)
			return nil, emailTaken()
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		s.metrics.Registration(ResultError)
		return nil, internal(err)
	}

	s.metrics.Registration(ResultSuccess)
	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("user registered")

	return user, nil
}

// List returns a page of active users.
func (s *UserService) List(ctx context.Context, page schema.Page) (*repository.ListResult[domain.User], error) {
	return s.list(ctx, repository.ScopeActive, repository.ListOptions{Offset: page.Offset(), Limit: page.PerPage})
}

// ListAll returns users including inactive ones.
func (s *UserService) ListAll(ctx context.Context, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	return s.list(ctx, repository.ScopeAll, opts)
}

func (s *UserService) list(ctx context.Context, scope repository.Scope, opts repository.ListOptions) (*repository.ListResult[domain.User], error) {
	result, err := s.userRepo.List(ctx, scope, opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, internal(err)
	}
	return result, nil
}

// Get retrieves an active user by ID.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id, repository.ScopeActive)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to get user")
		return nil, internal(err)
	}
	return user, nil
}

// Update applies a partial profile edit on behalf of actor.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id int64, in schema.UserEdit) (*domain.User, error) {
	if err := policy.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	if err := s.validator.Struct(in).OrNil(); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := policy.RequireOwnerOrSuperuser(actor, user); err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, *in.Email)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to check email availability")
			return nil, internal(err)
		}
		if exists {
			return nil, emailTaken()
		}
		user.Email = *in.Email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, emailTaken()
		}
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to update user")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Int64("actor_id", actor.ID).
		Msg("user updated")

	return user, nil
}

// Delete deactivates a user on behalf of actor. confirm must be true.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id int64, confirm bool) error {
	// Anonymous callers fail the ownership check, not authentication.
	if actor == nil {
		return policy.ErrForbidden
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.RequireOwnerOrSuperuser(actor, user); err != nil {
		return err
	}

	if !confirm {
		return policy.ErrForbidden
	}

	if err := s.userRepo.SoftDelete(ctx, user.ID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", id).Msg("failed to deactivate user")
		return internal(err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Int64("actor_id", actor.ID).
		Msg("user deactivated")

	return nil
}

// SetSuperuser grants or revokes superuser rights of the active user with email.
func (s *UserService) SetSuperuser(ctx context.Context, email string, superuser bool) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email, repository.ScopeActive)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, internal(err)
	}

	if user.IsSuperuser == superuser {
		return user, nil
	}

	user.IsSuperuser = superuser
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to update superuser flag")
		return nil, internal(err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Bool("is_superuser", superuser).
		Msg("superuser flag changed")

	return user, nil
}

func weakPasswordMessage(failed []password.Rule) string {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, r.String())
	}
	return MsgWeakPassword + strings.Join(parts, "; ")
}

func emailTaken() error {
	return &schema.ValidationError{
		Errors: []schema.FieldError{{Field: "email", Msg: MsgEmailTaken}},
		Err:    domain.ErrEmailTaken,
	}
}
