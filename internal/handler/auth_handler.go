package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
)

// AuthHandler serves login and logout.
type AuthHandler struct {
	authService *service.AuthService
	cookies     auth.Cookies
	logger      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cookies auth.Cookies, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		logger:      logger.With().Str("handler", "auth").Logger(),
	}
}

// RegisterRoutes registers authentication routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if actor := auth.ActorFromContext(r.Context()); actor != nil {
		writeJSON(w, http.StatusOK, schema.UserID{ID: actor.ID})
		return
	}

	var in schema.UserLogin
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, service.InvalidCredentials())
		return
	}

	user, token, err := h.authService.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.cookies.Set(w, token)
	writeJSON(w, http.StatusOK, schema.UserID{ID: user.ID})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), auth.TokenFromContext(r.Context())); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
	}

	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
