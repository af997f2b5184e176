package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/services"
)

// ProjectsHandler serves the project listing and detail endpoints.
type ProjectsHandler struct {
	projectService services.ProjectService
	logger         *zap.Logger
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(projectService services.ProjectService, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{projectService: projectService, logger: logger}
}

// RegisterRoutes registers the projects routes on the given mux.
func (h *ProjectsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/projects", h.List)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.Get)
}

// List handles GET /api/v1/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := ParseProjectFilters(r)
	page, limit := ParsePage(r)

	result, err := h.projectService.List(r.Context(), filters, page, limit)
	if err != nil {
		h.logger.Error("Failed to list projects", zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list projects"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/v1/projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := WriteError(w, http.StatusBadRequest, "INVALID_PROJECT_ID", "Invalid project ID format"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	project, err := h.projectService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := WriteError(w, http.StatusNotFound, "NOT_FOUND", "Project not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to get project", zap.String("id", id.String()), zap.Error(err))
		if err := WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get project"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteData(w, http.StatusOK, project); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
