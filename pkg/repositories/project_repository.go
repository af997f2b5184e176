package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/database"
	"github.com/gsocguide/backend/pkg/models"
)

// ProjectFilters narrows a project listing. Zero values contribute nothing.
type ProjectFilters struct {
	Year    int
	OrgSlug string
	Search  string
	Limit   int
	Offset  int
}

// ProjectRepository provides data access for projects.
type ProjectRepository interface {
	List(ctx context.Context, filters ProjectFilters) ([]*models.Project, int, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

type projectRepository struct {
	db *database.DB
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(db *database.DB) ProjectRepository {
	return &projectRepository{db: db}
}

var _ ProjectRepository = (*projectRepository)(nil)

const projectColumns = `id, title, abstract, org_slug, org_name, year,
	contributor, mentors, project_url, code_url, created_at, updated_at`

func (r *projectRepository) List(ctx context.Context, filters ProjectFilters) ([]*models.Project, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	argIdx := 1

	if filters.Year != 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, filters.Year)
		argIdx++
	}
	if filters.OrgSlug != "" {
		conditions = append(conditions, fmt.Sprintf("org_slug = $%d", argIdx))
		args = append(args, filters.OrgSlug)
		argIdx++
	}
	if filters.Search != "" {
		pattern := "%" + escapeLike(filters.Search) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR abstract ILIKE $%d)", argIdx, argIdx))
		args = append(args, pattern)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM projects WHERE %s`, where)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	dataQuery := fmt.Sprintf(`
		SELECT %s
		FROM projects
		WHERE %s
		ORDER BY title ASC, id ASC
		LIMIT $%d OFFSET $%d`, projectColumns, where, argIdx, argIdx+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read projects: %w", err)
	}

	return projects, total, nil
}

func (r *projectRepository) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM projects WHERE id = $1`, projectColumns)

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Abstract,
		&p.OrgSlug,
		&p.OrgName,
		&p.Year,
		&p.Contributor,
		&p.Mentors,
		&p.ProjectURL,
		&p.CodeURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
