package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/services"
)

// YearsHandler serves the per-year aggregate endpoints.
type YearsHandler struct {
	statsService services.StatsService
	logger       *zap.Logger
}

// NewYearsHandler creates a new years handler.
func NewYearsHandler(statsService services.StatsService, logger *zap.Logger) *YearsHandler {
	return &YearsHandler{statsService: statsService, logger: logger}
}

// RegisterRoutes registers the years routes on the given mux.
func (h *YearsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/years", h.List)
	mux.HandleFunc("GET /api/v1/years/{year}/stats", h.Stats)
}

// List handles GET /api/v1/years
func (h *YearsHandler) List(w http.ResponseWriter, r *http.Request) {
	years, err := h.statsService.Years(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate years", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to aggregate years"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, years); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stats handles GET /api/v1/years/{year}/stats
func (h *YearsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil {
		if err := WriteError(w, http.StatusBadRequest, "INVALID_YEAR", "Year must be an integer"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	stats, err := h.statsService.YearStats(r.Context(), year)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidYear) {
			if err := WriteError(w, http.StatusBadRequest, "INVALID_YEAR", "Year outside the supported range"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to compute year stats", zap.Int("year", year), zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute year stats"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
