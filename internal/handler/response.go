package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/policy"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
)

// Client-facing messages that are not produced by the service layer.
const (
	msgUnknownError      = "An unknown error has occurred."
	msgUnauthenticated   = "Authentication required."
	msgForbidden         = "You are not allowed to perform this action."
	msgUserNotFound      = "User with such ID doesn't exist."
	msgRecipeNotFound    = "Recipe with such ID doesn't exist."
	msgRecipeTagNotFound = "Recipe tag with such ID doesn't exist."
	msgNotFound          = "Resource not found."
	msgMethodNotAllowed  = "Method not allowed."
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Errors []schema.FieldError `json:"errors"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Errors: []schema.FieldError{{Msg: msg}}}
}

// writeJSON writes body as JSON with the given status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps err to a status and an error body. Unknown errors are
// logged and rendered as the generic message.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var verr *schema.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Errors: verr.Errors})
	case errors.Is(err, policy.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody(msgUnauthenticated))
	case errors.Is(err, policy.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody(msgForbidden))
	case errors.Is(err, domain.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(msgUserNotFound))
	case errors.Is(err, domain.ErrRecipeNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(msgRecipeNotFound))
	case errors.Is(err, domain.ErrRecipeTagNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(msgRecipeTagNotFound))
	case errors.Is(err, domain.ErrPeriodTypeNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(service.MsgPeriodTypeNotFound))
	default:
		logger.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody(msgUnknownError))
	}
}

// pathID reads the {id} URL parameter. Routes constrain it to digits, so a
// parse failure only happens on overflow and is reported as not found.
func pathID(r *http.Request, notFound error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, notFound
	}
	return id, nil
}

// parsePage reads pagination query parameters.
func parsePage(r *http.Request, cfg config.PaginationConfig) (schema.Page, error) {
	return schema.ParsePage(r.URL.Query(), cfg)
}

// listResponse renders a page envelope whose items are projected by project.
func listResponse[T, O any](listKey string, page schema.Page, total int64, items []*T, project func(*T) O) map[string]any {
	out := make([]O, 0, len(items))
	for _, item := range items {
		out = append(out, project(item))
	}
	return schema.PageEnvelope(listKey, page, total, out)
}
