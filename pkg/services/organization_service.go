package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
)

const (
	// DefaultPageSize is used when no limit is supplied.
	DefaultPageSize = 20
	// MaxPageSize is the hard cap on page size.
	MaxPageSize = 100
)

// OrganizationPage is one page of a filtered organization listing.
type OrganizationPage struct {
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
	Total int                    `json:"total"`
	Pages int                    `json:"pages"`
	Items []*models.Organization `json:"items"`
}

// OrganizationService provides filtered, paginated organization reads.
type OrganizationService interface {
	// List applies the filters and returns the requested page. Page numbers
	// are 1-based; a page past the end yields an empty item list, not an
	// error.
	List(ctx context.Context, filters repositories.OrganizationFilters, page, limit int) (*OrganizationPage, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
}

type organizationService struct {
	repo   repositories.OrganizationRepository
	logger *zap.Logger
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(repo repositories.OrganizationRepository, logger *zap.Logger) OrganizationService {
	return &organizationService{
		repo:   repo,
		logger: logger.Named("organization-service"),
	}
}

var _ OrganizationService = (*organizationService)(nil)

func (s *organizationService) List(ctx context.Context, filters repositories.OrganizationFilters, page, limit int) (*OrganizationPage, error) {
	page, limit = NormalizePage(page, limit)
	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Organization{}
	}

	return &OrganizationPage{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: PageCount(total, limit),
		Items: items,
	}, nil
}

func (s *organizationService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// NormalizePage clamps page to at least 1 and limit to [1, MaxPageSize],
// defaulting limit to DefaultPageSize when unset.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// PageCount returns ceil(total/limit).
func PageCount(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
