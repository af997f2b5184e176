package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/services"
)

// OrganizationsHandler serves the organization listing and detail endpoints.
type OrganizationsHandler struct {
	orgService services.OrganizationService
	logger     *zap.Logger
}

// NewOrganizationsHandler creates a new organizations handler.
func NewOrganizationsHandler(orgService services.OrganizationService, logger *zap.Logger) *OrganizationsHandler {
	return &OrganizationsHandler{orgService: orgService, logger: logger}
}

// RegisterRoutes registers the organizations routes on the given mux.
func (h *OrganizationsHandler) RegisterRoutes(mux *http.ServeMux) {
	// Legacy listing shape, no envelope. Kept for existing consumers.
	mux.HandleFunc("GET /organizations", h.ListLegacy)

	mux.HandleFunc("GET /api/v1/organizations", h.List)
	mux.HandleFunc("GET /api/v1/organizations/{slug}", h.Get)
}

// ListLegacy handles GET /organizations
// Responds with the bare {page, limit, total, pages, items} shape.
func (h *OrganizationsHandler) ListLegacy(w http.ResponseWriter, r *http.Request) {
	filters := ParseOrganizationFilters(r)
	page, limit := ParsePage(r)

	result, err := h.orgService.List(r.Context(), filters, page, limit)
	if err != nil {
		h.logger.Error("Failed to list organizations", zap.Error(err))
		if err := WriteJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "failed to list organizations",
		}); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/v1/organizations
func (h *OrganizationsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := ParseOrganizationFilters(r)
	page, limit := ParsePage(r)

	result, err := h.orgService.List(r.Context(), filters, page, limit)
	if err != nil {
		h.logger.Error("Failed to list organizations", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list organizations"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/v1/organizations/{slug}
func (h *OrganizationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	org, err := h.orgService.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := WriteError(w, http.StatusNotFound, "NOT_FOUND", "Organization not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get organization", zap.String("slug", slug), zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get organization"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, org); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
