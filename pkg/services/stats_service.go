package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/cache"
	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
)

// Per-year stats are served for this fixed window regardless of the
// recomputation range, matching the public API contract.
const (
	minStatsYear = 2005
	maxStatsYear = 2030
)

const (
	cacheKeyGlobalStats = "stats:global"
	cacheKeyTechStack   = "stats:tech-stack"
)

// GlobalStats are the corpus-wide aggregate counts.
type GlobalStats struct {
	TotalOrganizations  int `json:"total_organizations"`
	ActiveOrganizations int `json:"active_organizations"`
	TotalProjects       int `json:"total_projects"`
	TotalTechnologies   int `json:"total_technologies"`
	TotalTopics         int `json:"total_topics"`
}

// YearSummary is one program year with aggregate counts.
type YearSummary struct {
	Year          int `json:"year"`
	Organizations int `json:"organizations"`
	Projects      int `json:"projects"`
}

// YearStats extends YearSummary with per-year detail.
type YearStats struct {
	Year          int `json:"year"`
	Organizations int `json:"organizations"`
	Projects      int `json:"projects"`
	Students      int `json:"students"`
	FirstTimers   int `json:"first_timers"`
}

// TechnologyDetail lists the organizations using one technology.
type TechnologyDetail struct {
	models.Technology
	Organizations []models.OrganizationSummary `json:"organizations"`
}

// StatsService serves aggregate views over the organization corpus.
type StatsService interface {
	GlobalStats(ctx context.Context) (*GlobalStats, error)
	Years(ctx context.Context) ([]YearSummary, error)
	// YearStats returns per-year detail; years outside [2005, 2030] are
	// rejected with apperrors.ErrInvalidYear.
	YearStats(ctx context.Context, year int) (*YearStats, error)
	Technologies(ctx context.Context) ([]models.Technology, error)
	// TechnologyBySlug returns apperrors.ErrNotFound when no organization
	// uses the technology.
	TechnologyBySlug(ctx context.Context, slug string) (*TechnologyDetail, error)
}

type statsService struct {
	repo   repositories.OrganizationRepository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewStatsService creates a new stats service. The cache may be disabled
// (nil Redis client); aggregates are then recomputed per request.
func NewStatsService(repo repositories.OrganizationRepository, c *cache.Cache, logger *zap.Logger) StatsService {
	return &statsService{
		repo:   repo,
		cache:  c,
		logger: logger.Named("stats-service"),
	}
}

var _ StatsService = (*statsService)(nil)

func (s *statsService) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	if data, ok := s.cache.Get(ctx, cacheKeyGlobalStats); ok {
		var stats GlobalStats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
	}

	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	stats := &GlobalStats{TotalOrganizations: len(orgs)}
	techs := newFacetCounter()
	topics := newFacetCounter()
	for _, org := range orgs {
		stats.TotalProjects += org.TotalProjects
		if org.IsCurrentlyActive {
			stats.ActiveOrganizations++
		}
		techs.AddDistinct(org.Technologies)
		topics.AddDistinct(org.Topics)
	}
	stats.TotalTechnologies = len(techs.Values())
	stats.TotalTopics = len(topics.Values())

	if data, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, cacheKeyGlobalStats, data)
	}
	return stats, nil
}

func (s *statsService) Years(ctx context.Context) ([]YearSummary, error) {
	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	byYear := make(map[int]*YearSummary)
	for _, org := range orgs {
		for _, year := range org.ActiveYears {
			summary, ok := byYear[year]
			if !ok {
				summary = &YearSummary{Year: year}
				byYear[year] = summary
			}
			summary.Organizations++
			summary.Projects += org.ProjectsByYear[year]
		}
	}

	years := make([]YearSummary, 0, len(byYear))
	for _, summary := range byYear {
		years = append(years, *summary)
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years, nil
}

func (s *statsService) YearStats(ctx context.Context, year int) (*YearStats, error) {
	if year < minStatsYear || year > maxStatsYear {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", apperrors.ErrInvalidYear, year, minStatsYear, maxStatsYear)
	}

	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	stats := &YearStats{Year: year}
	for _, org := range orgs {
		active := false
		for _, y := range org.ActiveYears {
			if y == year {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		stats.Organizations++
		stats.Projects += org.ProjectsByYear[year]
		stats.Students += org.StudentsByYear[year]
		if org.FirstYear == year {
			stats.FirstTimers++
		}
	}
	return stats, nil
}

func (s *statsService) Technologies(ctx context.Context) ([]models.Technology, error) {
	if data, ok := s.cache.Get(ctx, cacheKeyTechStack); ok {
		var techs []models.Technology
		if err := json.Unmarshal(data, &techs); err == nil {
			return techs, nil
		}
	}

	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	techs := Technologies(orgs)
	if data, err := json.Marshal(techs); err == nil {
		s.cache.Set(ctx, cacheKeyTechStack, data)
	}
	return techs, nil
}

func (s *statsService) TechnologyBySlug(ctx context.Context, slug string) (*TechnologyDetail, error) {
	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organizations: %w", err)
	}

	detail := &TechnologyDetail{}
	for _, org := range orgs {
		uses := false
		for _, tech := range org.Technologies {
			if Slugify(tech) == slug {
				uses = true
				if detail.Name == "" {
					detail.Slug = slug
					detail.Name = tech
				}
				break
			}
		}
		if uses {
			detail.Count++
			detail.Organizations = append(detail.Organizations, org.Summary())
		}
	}

	if detail.Count == 0 {
		return nil, apperrors.ErrNotFound
	}
	return detail, nil
}
