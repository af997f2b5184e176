package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/database"
	"github.com/gsocguide/backend/pkg/models"
)

// OrganizationFilters describes one listing query. Each non-empty group
// becomes one AND-ed predicate; values within a group are OR-ed. An empty
// group contributes no constraint.
type OrganizationFilters struct {
	Years      []int
	Categories []string
	Techs      []string
	Topics     []string

	// FirstTimeOnly combined with Years matches organizations whose first
	// year is one of Years. On its own it matches the stored first_time flag,
	// whatever year that flag was last computed for.
	FirstTimeOnly bool

	// Search is a case-insensitive substring match on name or description.
	Search string

	Limit  int
	Offset int
}

// OrgFirstYear is the minimal projection the recomputation job works on.
type OrgFirstYear struct {
	ID        int64
	FirstYear int
}

// FirstTimeDistribution summarizes the stored first_time flags.
type FirstTimeDistribution struct {
	Total           int  `json:"total"`
	FirstTime       int  `json:"first_time"`
	ComputedForYear *int `json:"computed_for_year"`
}

// OrganizationRepository provides data access for organizations.
type OrganizationRepository interface {
	List(ctx context.Context, filters OrganizationFilters) ([]*models.Organization, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
	// GetAll returns the full corpus ordered by name then id. Used by the
	// snapshot generator and the facet aggregations.
	GetAll(ctx context.Context) ([]*models.Organization, error)
	// ListFirstYears returns id and first_year for every organization.
	ListFirstYears(ctx context.Context) ([]OrgFirstYear, error)
	UpdateFirstTime(ctx context.Context, id int64, firstTime bool, computedYear int) error
	GetFirstTimeDistribution(ctx context.Context) (*FirstTimeDistribution, error)
}

type organizationRepository struct {
	db *database.DB
}

// NewOrganizationRepository creates a new organization repository.
func NewOrganizationRepository(db *database.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

var _ OrganizationRepository = (*organizationRepository)(nil)

const orgColumns = `id, slug, name, category, description, url, image_url,
	technologies, topics, active_years, first_year, last_year,
	is_currently_active, total_projects, projects_by_year, students_by_year,
	first_time, first_time_computed_year, created_at, updated_at`

func (r *organizationRepository) List(ctx context.Context, filters OrganizationFilters) ([]*models.Organization, int, error) {
	where, args := buildOrgConditions(filters)
	argIdx := len(args) + 1

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM organizations WHERE %s`, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	dataQuery := fmt.Sprintf(`
		SELECT %s
		FROM organizations
		WHERE %s
		ORDER BY name ASC, id ASC
		LIMIT $%d OFFSET $%d`, orgColumns, where, argIdx, argIdx+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	orgs, err := scanOrganizations(rows)
	if err != nil {
		return nil, 0, err
	}
	return orgs, total, nil
}

// buildOrgConditions translates filters into a WHERE clause and its args.
// With no filters set it returns a universally true predicate.
func buildOrgConditions(filters OrganizationFilters) (string, []any) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if len(filters.Years) > 0 {
		conditions = append(conditions, fmt.Sprintf("active_years && $%d", argIdx))
		args = append(args, filters.Years)
		argIdx++
	}
	if len(filters.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", argIdx))
		args = append(args, filters.Categories)
		argIdx++
	}
	if len(filters.Techs) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(technologies) t WHERE lower(t) = ANY($%d))", argIdx))
		args = append(args, lowerAll(filters.Techs))
		argIdx++
	}
	if len(filters.Topics) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM unnest(topics) t WHERE lower(t) = ANY($%d))", argIdx))
		args = append(args, lowerAll(filters.Topics))
		argIdx++
	}
	if filters.FirstTimeOnly {
		if len(filters.Years) > 0 {
			// "First-time specifically in one of these years."
			conditions = append(conditions, fmt.Sprintf("first_year = ANY($%d)", argIdx))
			args = append(args, filters.Years)
			argIdx++
		} else {
			conditions = append(conditions, "first_time IS TRUE")
		}
	}
	if filters.Search != "" {
		pattern := "%" + escapeLike(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	return strings.Join(conditions, " AND "), args
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations WHERE slug = $1`, orgColumns)

	row := r.db.QueryRow(ctx, query, slug)
	org, err := scanOrganization(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

func (r *organizationRepository) GetAll(ctx context.Context) ([]*models.Organization, error) {
	query := fmt.Sprintf(`SELECT %s FROM organizations ORDER BY name ASC, id ASC`, orgColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}
	defer rows.Close()

	return scanOrganizations(rows)
}

func (r *organizationRepository) ListFirstYears(ctx context.Context) ([]OrgFirstYear, error) {
	rows, err := r.db.Query(ctx, `SELECT id, first_year FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list organization years: %w", err)
	}
	defer rows.Close()

	var results []OrgFirstYear
	for rows.Next() {
		var o OrgFirstYear
		if err := rows.Scan(&o.ID, &o.FirstYear); err != nil {
			return nil, fmt.Errorf("failed to scan organization year: %w", err)
		}
		results = append(results, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read organization years: %w", err)
	}
	return results, nil
}

func (r *organizationRepository) UpdateFirstTime(ctx context.Context, id int64, firstTime bool, computedYear int) error {
	query := `
		UPDATE organizations
		SET first_time = $2, first_time_computed_year = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, firstTime, computedYear)
	if err != nil {
		return fmt.Errorf("failed to update first_time: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *organizationRepository) GetFirstTimeDistribution(ctx context.Context) (*FirstTimeDistribution, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE first_time IS TRUE),
		       MAX(first_time_computed_year)
		FROM organizations`

	var dist FirstTimeDistribution
	if err := r.db.QueryRow(ctx, query).Scan(&dist.Total, &dist.FirstTime, &dist.ComputedForYear); err != nil {
		return nil, fmt.Errorf("failed to read first_time distribution: %w", err)
	}
	return &dist, nil
}

func scanOrganizations(rows pgx.Rows) ([]*models.Organization, error) {
	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read organizations: %w", err)
	}
	return orgs, nil
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	var projectsByYear, studentsByYear []byte

	err := row.Scan(
		&org.ID,
		&org.Slug,
		&org.Name,
		&org.Category,
		&org.Description,
		&org.URL,
		&org.ImageURL,
		&org.Technologies,
		&org.Topics,
		&org.ActiveYears,
		&org.FirstYear,
		&org.LastYear,
		&org.IsCurrentlyActive,
		&org.TotalProjects,
		&projectsByYear,
		&studentsByYear,
		&org.FirstTime,
		&org.FirstTimeComputedYear,
		&org.CreatedAt,
		&org.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(projectsByYear, &org.ProjectsByYear); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projects_by_year: %w", err)
	}
	if err := json.Unmarshal(studentsByYear, &org.StudentsByYear); err != nil {
		return nil, fmt.Errorf("failed to unmarshal students_by_year: %w", err)
	}

	return &org, nil
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}
	return lowered
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
