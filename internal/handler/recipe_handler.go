package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/auth"
	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
)

// RecipeHandler serves /recipes.
type RecipeHandler struct {
	recipeService *service.RecipeService
	pagination    config.PaginationConfig
	logger        zerolog.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService, pagination config.PaginationConfig, logger zerolog.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		pagination:    pagination,
		logger:        logger.With().Str("handler", "recipe").Logger(),
	}
}

// RegisterRoutes registers recipe routes.
func (h *RecipeHandler) RegisterRoutes(r chi.Router) {
	r.Post("/recipes", h.handleCreate)
	r.Get("/recipes", h.handleList)
	r.Get("/recipes/{id:[0-9]+}", h.handleGet)
	r.Put("/recipes/{id:[0-9]+}", h.handleUpdate)
	r.Delete("/recipes/{id:[0-9]+}", h.handleDelete)
}

func (h *RecipeHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := policy.RequireAuthenticated(actor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in schema.RecipeCreate
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.recipeService.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeOut(recipe))
}

func (h *RecipeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.recipeService.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse("recipe_list", page, result.Total, result.Items, schema.NewRecipeOut))
}

func (h *RecipeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrRecipeNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.recipeService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeOut(recipe))
}

func (h *RecipeHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := policy.RequireAuthenticated(actor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := pathID(r, domain.ErrRecipeNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in schema.RecipeUpdate
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.recipeService.Update(r.Context(), actor, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeOut(recipe))
}

func (h *RecipeHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrRecipeNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.recipeService.Delete(r.Context(), auth.ActorFromContext(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
