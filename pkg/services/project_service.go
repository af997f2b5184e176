package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
)

// ProjectPage is one page of a filtered project listing.
type ProjectPage struct {
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
	Pages int               `json:"pages"`
	Items []*models.Project `json:"items"`
}

// ProjectService provides filtered, paginated project reads.
type ProjectService interface {
	List(ctx context.Context, filters repositories.ProjectFilters, page, limit int) (*ProjectPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

type projectService struct {
	repo   repositories.ProjectRepository
	logger *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(repo repositories.ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{
		repo:   repo,
		logger: logger.Named("project-service"),
	}
}

var _ ProjectService = (*projectService)(nil)

func (s *projectService) List(ctx context.Context, filters repositories.ProjectFilters, page, limit int) (*ProjectPage, error) {
	page, limit = NormalizePage(page, limit)
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Project{}
	}

	return &ProjectPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: PageCount(total, limit),
		Items: items,
	}, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.repo.Get(ctx, id)
}
