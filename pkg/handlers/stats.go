package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/services"
)

// StatsHandler serves the global statistics endpoint.
type StatsHandler struct {
	statsService services.StatsService
	logger       *zap.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsService services.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, logger: logger}
}

// RegisterRoutes registers the stats route on the given mux.
func (h *StatsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/stats", h.Get)
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GlobalStats(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute global stats", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, stats); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
