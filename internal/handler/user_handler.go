package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
)

// UserHandler serves /users.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
	cookies     auth.Cookies
	pagination  config.PaginationConfig
	logger      zerolog.Logger
}

// UserConfig contains the dependencies of UserHandler.
type UserConfig struct {
	UserService *service.UserService
	AuthService *service.AuthService
	Cookies     auth.Cookies
	Pagination  config.PaginationConfig
	Logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(cfg UserConfig) *UserHandler {
	return &UserHandler{
		userService: cfg.UserService,
		authService: cfg.AuthService,
		cookies:     cfg.Cookies,
		pagination:  cfg.Pagination,
		logger:      cfg.Logger.With().Str("handler", "user").Logger(),
	}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.handleCreate)
	r.Get("/users", h.handleList)
	r.Get("/users/{id:[0-9]+}", h.handleGet)
	r.Put("/users/{id:[0-9]+}", h.handleUpdate)
	r.Delete("/users/{id:[0-9]+}", h.handleDelete)
}

func (h *UserHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in schema.UserCreate
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewUserDetailed(user))
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.userService.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse("user_list", page, result.Total, result.Items, schema.NewUserPublic))
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrUserNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewUserDetailed(user))
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := policy.RequireAuthenticated(actor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := pathID(r, domain.ErrUserNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in schema.UserEdit
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.userService.Update(r.Context(), actor, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewUserDetailed(user))
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())

	id, err := pathID(r, domain.ErrUserNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	confirm := strings.EqualFold(r.URL.Query().Get("confirm"), "true")
	if err := h.userService.Delete(r.Context(), actor, id, confirm); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if actor.ID == id {
		// The account is gone; its session goes with it.
		if err := h.authService.Logout(r.Context(), auth.TokenFromContext(r.Context())); err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("failed to end session of deleted user")
		}
		h.cookies.Clear(w)
	}

	w.WriteHeader(http.StatusNoContent)
}
