// Package auth resolves the session cookie of a request into the acting user.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/session"
)

// SessionResolver looks up the session behind a token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Session, error)
}

// UserFinder loads users by ID.
type UserFinder interface {
	GetByID(ctx context.Context, id int64, scope repository.Scope) (*domain.User, error)
}

type contextKey string

// ActorContextKey is the context key for the authenticated user.
const ActorContextKey contextKey = "actor"

// tokenContextKey holds the raw session token of the request.
const tokenContextKey contextKey = "session_token"

// WithActor returns a copy of ctx carrying user as the actor.
func WithActor(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, ActorContextKey, user)
}

// ActorFromContext returns the authenticated user, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(ActorContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

// TokenFromContext returns the session token presented with the request, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// Middleware attaches the acting user to the request context.
// A missing, unknown or expired session, or an inactive user, leaves the
// request anonymous; it never rejects the request.
func Middleware(sessions SessionResolver, users UserFinder, cookies Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookies.Token(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), tokenContextKey, token)

			sess, err := sessions.Resolve(ctx, token)
			if err != nil {
				if !errors.Is(err, session.ErrInvalidToken) {
					hlog.FromRequest(r).Warn().Err(err).Msg("session lookup failed")
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, err := users.GetByID(ctx, sess.UserID, repository.ScopeActive)
			if err != nil {
				if !domain.IsNotFound(err) {
					hlog.FromRequest(r).Warn().Err(err).Msg("session user lookup failed")
				}
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(ctx, user)))
		})
	}
}

// Cookies reads and writes the session cookie.
type Cookies struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

// NewCookies builds cookie settings from the session configuration.
func NewCookies(cfg config.SessionConfig) Cookies {
	return Cookies{
		Name:   cfg.CookieName,
		TTL:    cfg.TTL,
		Secure: cfg.Secure,
	}
}

// Token returns the session token carried by r, or "".
func (c Cookies) Token(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Set writes the session cookie for token.
func (c Cookies) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
