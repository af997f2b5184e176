package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/services"
)

// AdminHandler serves the first-time recomputation endpoints. Both the POST
// and the GET variant require the admin key; with no key configured every
// request is rejected (fail closed).
type AdminHandler struct {
	firstTimeService services.FirstTimeService
	adminKey         string
	logger           *zap.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(firstTimeService services.FirstTimeService, adminKey string, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		firstTimeService: firstTimeService,
		adminKey:         adminKey,
		logger:           logger,
	}
}

// RegisterRoutes registers the admin routes on the given mux.
func (h *AdminHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/compute-first-time", h.requireKey(h.Compute))
	mux.HandleFunc("GET /admin/compute-first-time", h.requireKey(h.Distribution))
}

// requireKey checks the x-admin-key header in constant time.
func (h *AdminHandler) requireKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get("x-admin-key")
		if h.adminKey == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(h.adminKey), []byte(provided)) != 1 {
			if err := WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing admin key"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		next(w, r)
	}
}

// Compute handles POST /admin/compute-first-time?year=YYYY
// The year defaults to the current calendar year.
func (h *AdminHandler) Compute(w http.ResponseWriter, r *http.Request) {
	year := services.CurrentYear()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			if err := WriteError(w, http.StatusBadRequest, "INVALID_YEAR", "Year must be an integer"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		year = parsed
	}

	result, err := h.firstTimeService.Recompute(r.Context(), year)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidYear) {
			if err := WriteError(w, http.StatusBadRequest, "INVALID_YEAR", "Year outside the supported range"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to recompute first_time flags", zap.Int("year", year), zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Recomputation failed"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Distribution handles GET /admin/compute-first-time
// Read-only view of the stored flag distribution.
func (h *AdminHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.firstTimeService.Distribution(r.Context())
	if err != nil {
		h.logger.Error("Failed to read first_time distribution", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to read distribution"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, dist); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
