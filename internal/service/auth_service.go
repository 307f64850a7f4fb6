package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/password"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
)

// SessionManager starts and ends login sessions.
type SessionManager interface {
	Create(ctx context.Context, userID int64) (string, error)
	Destroy(ctx context.Context, token string) error
}

// AuthService handles login and logout.
type AuthService struct {
	userRepo  repository.UserRepository
	hasher    password.Hasher
	sessions  SessionManager
	validator *schema.Validator
	metrics   Metrics
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher password.Hasher,
	sessions SessionManager,
	validator *schema.Validator,
	metrics Metrics,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		sessions:  sessions,
		validator: validator,
		metrics:   metricsOrNop(metrics),
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// InvalidCredentials is the single error returned for every failed login.
func InvalidCredentials() error {
	return &schema.ValidationError{
		Errors: []schema.FieldError{{Msg: MsgInvalidCredentials}},
		Err:    domain.ErrInvalidCredentials,
	}
}

// Login verifies the credentials of an active user and starts a session.
// It returns the user and the session token.
func (s *AuthService) Login(ctx context.Context, in schema.UserLogin) (*domain.User, string, error) {
	if err := s.validator.Struct(in).OrNil(); err != nil {
		s.metrics.Login(ResultRejected)
		return nil, "", InvalidCredentials()
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email, repository.ScopeActive)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Error().Err(err).Msg("failed to look up user for login")
			s.metrics.Login(ResultError)
			return nil, "", internal(err)
		}
		s.hasher.CompareDummy(in.Password)
		s.logger.Debug().Msg("login for unknown or inactive email")
		s.metrics.Login(ResultRejected)
		return nil, "", InvalidCredentials()
	}

	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to verify password")
		}
		s.logger.Debug().Int64("user_id", user.ID).Msg("invalid password during login")
		s.metrics.Login(ResultRejected)
		return nil, "", InvalidCredentials()
	}

	token, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create session")
		s.metrics.Login(ResultError)
		return nil, "", internal(err)
	}

	s.metrics.Login(ResultSuccess)
	s.logger.Info().
		Int64("user_id", user.ID).
		Msg("user logged in")

	return user, token, nil
}

// Logout ends the session for token. An empty or unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Destroy(ctx, token); err != nil {
		s.logger.Error().Err(err).Msg("failed to destroy session")
		return internal(err)
	}
	return nil
}
