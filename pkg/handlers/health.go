package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/config"
	"github.com/gsocguide/backend/pkg/database"
)

// HealthHandler serves the health and meta endpoints.
type HealthHandler struct {
	db     *database.DB
	cfg    *config.Config
	logger *zap.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *database.DB, cfg *config.Config, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, cfg: cfg, logger: logger}
}

// RegisterRoutes registers the health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/meta", h.Meta)
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /api/v1/health
// Returns 200 when the store is reachable, 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		if err := WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unreachable"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, healthResponse{Status: "ok", Database: "up"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

type metaResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	GoVersion   string `json:"go_version"`
	Environment string `json:"environment"`
	MinYear     int    `json:"min_year"`
	MaxYear     int    `json:"max_year"`
}

// Meta handles GET /api/v1/meta
func (h *HealthHandler) Meta(w http.ResponseWriter, r *http.Request) {
	response := metaResponse{
		Service:     "gsocguide-backend",
		Version:     h.cfg.Version,
		GoVersion:   runtime.Version(),
		Environment: h.cfg.Env,
		MinYear:     h.cfg.MinYear,
		MaxYear:     h.cfg.MaxYear,
	}

	if err := WriteData(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
