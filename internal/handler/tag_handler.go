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

// RecipeTagHandler serves /recipe-tags. Writes are superuser-only.
type RecipeTagHandler struct {
	tagService *service.RecipeTagService
	pagination config.PaginationConfig
	logger     zerolog.Logger
}

// NewRecipeTagHandler creates a new RecipeTagHandler.
func NewRecipeTagHandler(tagService *service.RecipeTagService, pagination config.PaginationConfig, logger zerolog.Logger) *RecipeTagHandler {
	return &RecipeTagHandler{
		tagService: tagService,
		pagination: pagination,
		logger:     logger.With().Str("handler", "recipe_tag").Logger(),
	}
}

// RegisterRoutes registers recipe tag routes.
func (h *RecipeTagHandler) RegisterRoutes(r chi.Router) {
	r.Post("/recipe-tags", h.handleCreate)
	r.Get("/recipe-tags", h.handleList)
	r.Get("/recipe-tags/{id:[0-9]+}", h.handleGet)
	r.Put("/recipe-tags/{id:[0-9]+}", h.handleUpdate)
	r.Delete("/recipe-tags/{id:[0-9]+}", h.handleDelete)
}

func (h *RecipeTagHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := policy.RequireSuperuser(actor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in schema.RecipeTagCreate
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	tag, err := h.tagService.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeTagOut(tag))
}

func (h *RecipeTagHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.tagService.List(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse("recipe_tag_list", page, result.Total, result.Items, schema.NewRecipeTagOut))
}

func (h *RecipeTagHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrRecipeTagNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	tag, err := h.tagService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeTagOut(tag))
}

func (h *RecipeTagHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFromContext(r.Context())
	if err := policy.RequireSuperuser(actor); err != nil {
		writeError(w, h.logger, err)
		return
	}

	id, err := pathID(r, domain.ErrRecipeTagNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var in schema.RecipeTagUpdate
	if err := schema.Decode(r.Body, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	tag, err := h.tagService.Update(r.Context(), actor, id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewRecipeTagOut(tag))
}

func (h *RecipeTagHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrRecipeTagNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.tagService.Delete(r.Context(), auth.ActorFromContext(r.Context()), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
