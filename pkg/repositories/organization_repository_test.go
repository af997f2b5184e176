package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/testhelpers"
)

type orgRow struct {
	slug   string
	name   string
	cat    string
	desc   string
	techs  []string
	topics []string
	years  []int
	first  int
	last   int
	active bool
}

func insertOrg(t *testing.T, tdb *testhelpers.TestDB, row orgRow) {
	t.Helper()
	_, err := tdb.DB.Exec(context.Background(), `
		INSERT INTO organizations (slug, name, category, description,
			technologies, topics, active_years, first_year, last_year,
			is_currently_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.slug, row.name, row.cat, row.desc,
		row.techs, row.topics, row.years, row.first, row.last, row.active)
	require.NoError(t, err)
}

func seedFilterFixture(t *testing.T, tdb *testhelpers.TestDB) {
	t.Helper()
	insertOrg(t, tdb, orgRow{
		slug: "mozilla", name: "Mozilla", cat: "Security",
		desc:  "Builds the Firefox browser.",
		techs: []string{"Rust", "JavaScript"}, topics: []string{"Web Browser"},
		years: []int{2024, 2025}, first: 2024, last: 2025, active: true,
	})
	insertOrg(t, tdb, orgRow{
		slug: "zulip", name: "Zulip", cat: "Web Development",
		desc:  "Threaded team chat.",
		techs: []string{"Python"}, topics: []string{"Chat"},
		years: []int{2023, 2025}, first: 2023, last: 2025, active: true,
	})
}

func listSlugs(t *testing.T, repo OrganizationRepository, filters OrganizationFilters) ([]string, int) {
	t.Helper()
	if filters.Limit == 0 {
		filters.Limit = 100
	}
	orgs, total, err := repo.List(context.Background(), filters)
	require.NoError(t, err)
	slugs := make([]string, len(orgs))
	for i, org := range orgs {
		slugs[i] = org.Slug
	}
	return slugs, total
}

func TestOrganizationRepository_ListFilters(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	seedFilterFixture(t, tdb)
	repo := NewOrganizationRepository(tdb.DB)

	// No filters returns everything, name order.
	slugs, total := listSlugs(t, repo, OrganizationFilters{})
	assert.Equal(t, []string{"mozilla", "zulip"}, slugs)
	assert.Equal(t, 2, total)

	// Tech filter is case-insensitive.
	slugs, _ = listSlugs(t, repo, OrganizationFilters{Techs: []string{"rust"}})
	assert.Equal(t, []string{"mozilla"}, slugs)

	// Year + tech groups AND together: Zulip was inactive in 2024.
	slugs, total = listSlugs(t, repo, OrganizationFilters{
		Years: []int{2023}, Techs: []string{"Rust"},
	})
	assert.Empty(t, slugs)
	assert.Equal(t, 0, total)

	// Values within one group OR together.
	slugs, _ = listSlugs(t, repo, OrganizationFilters{
		Techs: []string{"Rust", "Python"},
	})
	assert.Equal(t, []string{"mozilla", "zulip"}, slugs)

	// Year overlap: both participated in 2025.
	slugs, _ = listSlugs(t, repo, OrganizationFilters{Years: []int{2025}})
	assert.Len(t, slugs, 2)

	// Unknown values match zero rows without error.
	slugs, total = listSlugs(t, repo, OrganizationFilters{Categories: []string{"Quantum"}})
	assert.Empty(t, slugs)
	assert.Equal(t, 0, total)
}

func TestOrganizationRepository_ListSearch(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	seedFilterFixture(t, tdb)
	repo := NewOrganizationRepository(tdb.DB)

	// Substring match against name or description.
	slugs, _ := listSlugs(t, repo, OrganizationFilters{Search: "firefox"})
	assert.Equal(t, []string{"mozilla"}, slugs)

	// LIKE metacharacters in the input match literally.
	slugs, _ = listSlugs(t, repo, OrganizationFilters{Search: "100%"})
	assert.Empty(t, slugs)
}

func TestOrganizationRepository_ListFirstTimeOnly(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	seedFilterFixture(t, tdb)
	repo := NewOrganizationRepository(tdb.DB)
	ctx := context.Background()

	// With years: first participation in one of those years.
	slugs, _ := listSlugs(t, repo, OrganizationFilters{
		FirstTimeOnly: true, Years: []int{2024},
	})
	assert.Equal(t, []string{"mozilla"}, slugs)

	// Alone it reads the stored flag, unset until the job has run.
	slugs, _ = listSlugs(t, repo, OrganizationFilters{FirstTimeOnly: true})
	assert.Empty(t, slugs)

	orgs, err := repo.ListFirstYears(ctx)
	require.NoError(t, err)
	for _, org := range orgs {
		require.NoError(t, repo.UpdateFirstTime(ctx, org.ID, org.FirstYear == 2024, 2024))
	}

	slugs, _ = listSlugs(t, repo, OrganizationFilters{FirstTimeOnly: true})
	assert.Equal(t, []string{"mozilla"}, slugs)

	dist, err := repo.GetFirstTimeDistribution(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, dist.Total)
	assert.Equal(t, 1, dist.FirstTime)
	require.NotNil(t, dist.ComputedForYear)
	assert.Equal(t, 2024, *dist.ComputedForYear)
}

func TestOrganizationRepository_ListPagination(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewOrganizationRepository(tdb.DB)

	for i := 0; i < 45; i++ {
		insertOrg(t, tdb, orgRow{
			slug: fmt.Sprintf("org-%03d", i), name: fmt.Sprintf("Org %03d", i),
			cat: "Other", years: []int{2025}, first: 2025, last: 2025,
		})
	}

	slugs, total := listSlugs(t, repo, OrganizationFilters{Limit: 20, Offset: 40})
	assert.Equal(t, 45, total)
	assert.Len(t, slugs, 5)
	assert.Equal(t, "org-040", slugs[0])

	// Past the end: empty page, same total, no error.
	slugs, total = listSlugs(t, repo, OrganizationFilters{Limit: 20, Offset: 80})
	assert.Equal(t, 45, total)
	assert.Empty(t, slugs)
}

func TestOrganizationRepository_GetBySlug(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	seedFilterFixture(t, tdb)
	repo := NewOrganizationRepository(tdb.DB)
	ctx := context.Background()

	org, err := repo.GetBySlug(ctx, "mozilla")
	require.NoError(t, err)
	assert.Equal(t, "Mozilla", org.Name)
	assert.Equal(t, []string{"Rust", "JavaScript"}, org.Technologies)
	assert.Nil(t, org.FirstTime)

	_, err = repo.GetBySlug(ctx, "does-not-exist")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestOrganizationRepository_UpdateFirstTimeMissing(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.TruncateAll(t)
	repo := NewOrganizationRepository(tdb.DB)

	err := repo.UpdateFirstTime(context.Background(), 99999, true, 2025)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
