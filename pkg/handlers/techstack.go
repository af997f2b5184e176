package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/services"
)

// TechStackHandler serves the technology facet endpoints.
type TechStackHandler struct {
	statsService services.StatsService
	logger       *zap.Logger
}

// NewTechStackHandler creates a new tech-stack handler.
func NewTechStackHandler(statsService services.StatsService, logger *zap.Logger) *TechStackHandler {
	return &TechStackHandler{statsService: statsService, logger: logger}
}

// RegisterRoutes registers the tech-stack routes on the given mux.
func (h *TechStackHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/tech-stack", h.List)
	mux.HandleFunc("GET /api/v1/tech-stack/{slug}", h.Get)
}

// List handles GET /api/v1/tech-stack
func (h *TechStackHandler) List(w http.ResponseWriter, r *http.Request) {
	techs, err := h.statsService.Technologies(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate technologies", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to aggregate technologies"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, techs); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/v1/tech-stack/{slug}
func (h *TechStackHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	detail, err := h.statsService.TechnologyBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := WriteError(w, http.StatusNotFound, "NOT_FOUND", "No organization uses this technology"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get technology", zap.String("slug", slug), zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get technology"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, detail); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
