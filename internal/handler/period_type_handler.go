package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/prn-tf/recipebook/internal/config"
	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
	"github.com/prn-tf/recipebook/internal/schema"
	"github.com/prn-tf/recipebook/internal/service"
)

// PeriodTypeHandler serves read-only /period-types.
type PeriodTypeHandler struct {
	periodTypeService *service.PeriodTypeService
	pagination        config.PaginationConfig
	logger            zerolog.Logger
}

// NewPeriodTypeHandler creates a new PeriodTypeHandler.
func NewPeriodTypeHandler(periodTypeService *service.PeriodTypeService, pagination config.PaginationConfig, logger zerolog.Logger) *PeriodTypeHandler {
	return &PeriodTypeHandler{
		periodTypeService: periodTypeService,
		pagination:        pagination,
		logger:            logger.With().Str("handler", "period_type").Logger(),
	}
}

// RegisterRoutes registers period type routes.
func (h *PeriodTypeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/period-types", h.handleList)
	r.Get("/period-types/{id:[0-9]+}", h.handleGet)
}

func (h *PeriodTypeHandler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, h.pagination)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.periodTypeService.List(r.Context(), repository.ListOptions{
		Offset: page.Offset(),
		Limit:  page.PerPage,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse("period_type_list", page, result.Total, result.Items, schema.NewPeriodTypeOut))
}

func (h *PeriodTypeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, domain.ErrPeriodTypeNotFound)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	pt, err := h.periodTypeService.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.NewPeriodTypeOut(pt))
}
