package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/apperrors"
	"github.com/gsocguide/backend/pkg/cache"
	"github.com/gsocguide/backend/pkg/repositories"
)

// RecomputeResult reports one recomputation pass.
type RecomputeResult struct {
	Year           int `json:"year"`
	Total          int `json:"total"`
	Updated        int `json:"updated"`
	FirstTimeCount int `json:"first_time_count"`
	Failed         int `json:"failed"`
}

// FirstTimeService recomputes the first_time flag across the whole corpus.
type FirstTimeService interface {
	// Recompute sets first_time = (first_year == year) on every organization,
	// overwriting any previous value. Idempotent for a fixed year. A failed
	// update on one record is counted and the pass continues.
	Recompute(ctx context.Context, year int) (*RecomputeResult, error)

	// Distribution returns the stored first_time flag counts without
	// modifying anything.
	Distribution(ctx context.Context) (*repositories.FirstTimeDistribution, error)

	// ValidateYear checks a target year against the supported range.
	ValidateYear(year int) error
}

type firstTimeService struct {
	repo    repositories.OrganizationRepository
	cache   *cache.Cache
	minYear int
	maxYear int
	logger  *zap.Logger
}

// NewFirstTimeService creates a new first-time recomputation service.
// Years outside [minYear, maxYear] are rejected, never clamped. The cache
// may be nil; cached aggregates are then left to expire on their own.
func NewFirstTimeService(repo repositories.OrganizationRepository, c *cache.Cache, minYear, maxYear int, logger *zap.Logger) FirstTimeService {
	return &firstTimeService{
		repo:    repo,
		cache:   c,
		minYear: minYear,
		maxYear: maxYear,
		logger:  logger.Named("first-time-service"),
	}
}

var _ FirstTimeService = (*firstTimeService)(nil)

// CurrentYear returns the default recomputation target.
func CurrentYear() int {
	return time.Now().Year()
}

func (s *firstTimeService) ValidateYear(year int) error {
	if year < s.minYear || year > s.maxYear {
		return fmt.Errorf("%w: %d not in [%d, %d]", apperrors.ErrInvalidYear, year, s.minYear, s.maxYear)
	}
	return nil
}

func (s *firstTimeService) Recompute(ctx context.Context, year int) (*RecomputeResult, error) {
	if err := s.ValidateYear(year); err != nil {
		return nil, err
	}

	orgs, err := s.repo.ListFirstYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load organizations: %w", err)
	}

	result := &RecomputeResult{Year: year, Total: len(orgs)}
	for _, org := range orgs {
		firstTime := org.FirstYear == year
		if err := s.repo.UpdateFirstTime(ctx, org.ID, firstTime, year); err != nil {
			result.Failed++
			s.logger.Error("Failed to update first_time flag",
				zap.Int64("org_id", org.ID),
				zap.Int("year", year),
				zap.Error(err))
			continue
		}
		result.Updated++
		if firstTime {
			result.FirstTimeCount++
		}
	}

	if result.Updated > 0 {
		// The pass rewrote organization rows; drop the cached aggregates
		// instead of serving them until the TTL runs out.
		s.cache.Invalidate(ctx, cacheKeyGlobalStats, cacheKeyTechStack)
	}

	s.logger.Info("Recomputed first_time flags",
		zap.Int("year", year),
		zap.Int("total", result.Total),
		zap.Int("updated", result.Updated),
		zap.Int("first_time", result.FirstTimeCount),
		zap.Int("failed", result.Failed))

	return result, nil
}

func (s *firstTimeService) Distribution(ctx context.Context) (*repositories.FirstTimeDistribution, error) {
	return s.repo.GetFirstTimeDistribution(ctx)
}
