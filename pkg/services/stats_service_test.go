package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/models"
)

func newStatsFixtureService(orgs []*models.Organization) StatsService {
	// No Redis in unit tests; a disabled cache degrades every read to a miss.
	return NewStatsService(&mockOrgRepository{orgs: orgs}, nil, zap.NewNop())
}

func TestStatsService_GlobalStats(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalOrganizations)
	assert.Equal(t, 1, stats.ActiveOrganizations)
	assert.Equal(t, 38, stats.TotalProjects)
	assert.Equal(t, 2, stats.TotalTechnologies, "Python and python dedupe")
	assert.Equal(t, 2, stats.TotalTopics)
}

func TestStatsService_Years(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	years, err := svc.Years(context.Background())
	require.NoError(t, err)

	require.Len(t, years, 3)
	assert.Equal(t, YearSummary{Year: 2023, Organizations: 1, Projects: 8}, years[0])
	assert.Equal(t, YearSummary{Year: 2024, Organizations: 1, Projects: 12}, years[1])
	assert.Equal(t, YearSummary{Year: 2025, Organizations: 1, Projects: 18}, years[2])
}

func TestStatsService_YearStats(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	stats, err := svc.YearStats(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, &YearStats{
		Year:          2024,
		Organizations: 1,
		Projects:      12,
		Students:      10,
		FirstTimers:   1, // Mozilla's first year
	}, stats)

	// A supported year with no participants is an empty result, not an error.
	stats, err = svc.YearStats(context.Background(), 2010)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Organizations)
}

func TestStatsService_YearStats_OutOfRange(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	for _, year := range []int{2004, 2031, 1990} {
		_, err := svc.YearStats(context.Background(), year)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidYear), "year %d should be rejected", year)
	}
}

func TestStatsService_Technologies(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	techs, err := svc.Technologies(context.Background())
	require.NoError(t, err)

	require.Len(t, techs, 2)
	assert.Equal(t, models.Technology{Slug: "python", Name: "Python", Count: 2}, techs[0])
	assert.Equal(t, models.Technology{Slug: "rust", Name: "Rust", Count: 1}, techs[1])
}

func TestStatsService_TechnologyBySlug(t *testing.T) {
	svc := newStatsFixtureService(snapshotFixture())

	detail, err := svc.TechnologyBySlug(context.Background(), "python")
	require.NoError(t, err)
	assert.Equal(t, "python", detail.Slug)
	assert.Equal(t, 2, detail.Count)
	require.Len(t, detail.Organizations, 2)
	assert.Equal(t, "mozilla", detail.Organizations[0].Slug)

	_, err = svc.TechnologyBySlug(context.Background(), "cobol")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
