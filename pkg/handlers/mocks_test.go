package handlers

import (
	"context"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
	"github.com/gsocguide/backend/pkg/services"
)

type mockOrgService struct {
	page    *services.OrganizationPage
	org     *models.Organization
	listErr error
	getErr  error

	capturedFilters repositories.OrganizationFilters
	capturedPage    int
	capturedLimit   int
}

func (m *mockOrgService) List(ctx context.Context, filters repositories.OrganizationFilters, page, limit int) (*services.OrganizationPage, error) {
	m.capturedFilters = filters
	m.capturedPage = page
	m.capturedLimit = limit
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.page, nil
}

func (m *mockOrgService) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.org != nil && m.org.Slug == slug {
		return m.org, nil
	}
	return nil, apperrors.ErrNotFound
}

var _ services.OrganizationService = (*mockOrgService)(nil)

type mockFirstTimeService struct {
	result *services.RecomputeResult
	dist   *repositories.FirstTimeDistribution
	err    error

	capturedYear int
}

func (m *mockFirstTimeService) Recompute(ctx context.Context, year int) (*services.RecomputeResult, error) {
	m.capturedYear = year
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &services.RecomputeResult{Year: year}, nil
}

func (m *mockFirstTimeService) Distribution(ctx context.Context) (*repositories.FirstTimeDistribution, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.dist, nil
}

func (m *mockFirstTimeService) ValidateYear(year int) error {
	return nil
}

var _ services.FirstTimeService = (*mockFirstTimeService)(nil)
