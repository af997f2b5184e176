package services

import (
	"context"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
)

// mockOrgRepository is a configurable mock for testing the services that
// read organizations.
type mockOrgRepository struct {
	orgs       []*models.Organization
	firstYears []repositories.OrgFirstYear
	dist       *repositories.FirstTimeDistribution

	listErr   error
	getAllErr error
	updateErr error
	// failIDs makes UpdateFirstTime fail for specific organizations.
	failIDs map[int64]error

	// Captured inputs for verification.
	capturedFilters repositories.OrganizationFilters
	updates         []firstTimeUpdate
}

type firstTimeUpdate struct {
	ID           int64
	FirstTime    bool
	ComputedYear int
}

func (m *mockOrgRepository) List(ctx context.Context, filters repositories.OrganizationFilters) ([]*models.Organization, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	m.capturedFilters = filters

	total := len(m.orgs)
	start := filters.Offset
	if start > total {
		start = total
	}
	end := start + filters.Limit
	if end > total {
		end = total
	}
	return m.orgs[start:end], total, nil
}

func (m *mockOrgRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	for _, org := range m.orgs {
		if org.Slug == slug {
			return org, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockOrgRepository) GetAll(ctx context.Context) ([]*models.Organization, error) {
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}
	return m.orgs, nil
}

func (m *mockOrgRepository) ListFirstYears(ctx context.Context) ([]repositories.OrgFirstYear, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.firstYears, nil
}

func (m *mockOrgRepository) UpdateFirstTime(ctx context.Context, id int64, firstTime bool, computedYear int) error {
	if err, ok := m.failIDs[id]; ok {
		return err
	}
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, firstTimeUpdate{ID: id, FirstTime: firstTime, ComputedYear: computedYear})
	return nil
}

func (m *mockOrgRepository) GetFirstTimeDistribution(ctx context.Context) (*repositories.FirstTimeDistribution, error) {
	return m.dist, nil
}

var _ repositories.OrganizationRepository = (*mockOrgRepository)(nil)
