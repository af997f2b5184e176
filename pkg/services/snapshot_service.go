package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gsocguide/backend/pkg/config"
	"github.com/gsocguide/backend/pkg/models"
	"github.com/gsocguide/backend/pkg/repositories"
)

// SnapshotVersion is the schema version embedded in every artifact.
const SnapshotVersion = 1

// SnapshotMeta is embedded in every generated document.
type SnapshotMeta struct {
	Version     int       `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SnapshotResult reports one generation run.
type SnapshotResult struct {
	Organizations int    `json:"organizations"`
	Topics        int    `json:"topics"`
	FailedWrites  int    `json:"failed_writes"`
	OutputDir     string `json:"output_dir"`
}

// SnapshotService walks the full organization corpus and emits the static
// JSON documents the site reads at request time.
type SnapshotService interface {
	// Generate writes all artifacts under the configured output directory.
	// Failing to fetch the corpus aborts the run; failing to write a single
	// detail document is counted and the run continues. With unchanged
	// source data the output is byte-identical except for generated_at.
	Generate(ctx context.Context) (*SnapshotResult, error)
}

type snapshotService struct {
	repo   repositories.OrganizationRepository
	cfg    config.SnapshotConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSnapshotService creates a new snapshot generator.
func NewSnapshotService(repo repositories.OrganizationRepository, cfg config.SnapshotConfig, logger *zap.Logger) SnapshotService {
	return &snapshotService{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("snapshot-service"),
		now:    time.Now,
	}
}

var _ SnapshotService = (*snapshotService)(nil)

type indexDocument struct {
	Meta          SnapshotMeta                 `json:"meta"`
	Organizations []models.OrganizationSummary `json:"organizations"`
}

type detailDocument struct {
	Meta         SnapshotMeta         `json:"meta"`
	Organization *models.Organization `json:"organization"`
}

type yearFacet struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

type metadataDocument struct {
	Meta         SnapshotMeta `json:"meta"`
	Technologies []FacetValue `json:"technologies"`
	Topics       []FacetValue `json:"topics"`
	Categories   []FacetValue `json:"categories"`
	Years        []yearFacet  `json:"years"`
}

type topicIndexDocument struct {
	Meta   SnapshotMeta   `json:"meta"`
	Topics []models.Topic `json:"topics"`
}

type topicDetailDocument struct {
	Meta  SnapshotMeta `json:"meta"`
	Topic models.Topic `json:"topic"`
}

type homeStats struct {
	TotalOrganizations  int `json:"total_organizations"`
	ActiveOrganizations int `json:"active_organizations"`
	TotalProjects       int `json:"total_projects"`
}

type homeDocument struct {
	Meta             SnapshotMeta                 `json:"meta"`
	TopOrganizations []models.OrganizationSummary `json:"top_organizations"`
	Stats            homeStats                    `json:"stats"`
}

func (s *snapshotService) Generate(ctx context.Context) (*SnapshotResult, error) {
	// A corpus fetch failure is fatal: no partial snapshot is produced.
	orgs, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization corpus: %w", err)
	}

	meta := SnapshotMeta{Version: SnapshotVersion, GeneratedAt: s.now().UTC()}
	result := &SnapshotResult{Organizations: len(orgs), OutputDir: s.cfg.OutputDir}

	for _, dir := range []string{"organizations", "topics"} {
		if err := os.MkdirAll(filepath.Join(s.cfg.OutputDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := s.writeIndex(orgs, meta); err != nil {
		return nil, err
	}
	s.writeDetails(orgs, meta, result)
	if err := s.writeMetadata(orgs, meta); err != nil {
		return nil, err
	}

	topics := BuildTopics(orgs, s.cfg.StatsFromYear, s.cfg.StatsToYear)
	result.Topics = len(topics)
	if err := s.writeTopics(topics, meta, result); err != nil {
		return nil, err
	}

	if err := s.writeHome(orgs, meta); err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot generated",
		zap.Int("organizations", result.Organizations),
		zap.Int("topics", result.Topics),
		zap.Int("failed_writes", result.FailedWrites),
		zap.String("output_dir", result.OutputDir))

	return result, nil
}

func (s *snapshotService) writeIndex(orgs []*models.Organization, meta SnapshotMeta) error {
	summaries := make([]models.OrganizationSummary, len(orgs))
	for i, org := range orgs {
		summaries[i] = org.Summary()
	}
	// The corpus arrives ordered by name, id; the index keeps that order.
	doc := indexDocument{Meta: meta, Organizations: summaries}
	if err := writeJSON(filepath.Join(s.cfg.OutputDir, "index.json"), doc); err != nil {
		return fmt.Errorf("failed to write index document: %w", err)
	}
	return nil
}

func (s *snapshotService) writeDetails(orgs []*models.Organization, meta SnapshotMeta, result *SnapshotResult) {
	for _, org := range orgs {
		doc := detailDocument{Meta: meta, Organization: org}
		// Re-normalize the stored slug so a malformed one cannot name a
		// path outside the output tree.
		path := filepath.Join(s.cfg.OutputDir, "organizations", Slugify(org.Slug)+".json")
		if err := writeJSON(path, doc); err != nil {
			// One bad document must not abort the run.
			result.FailedWrites++
			s.logger.Error("Failed to write organization detail",
				zap.String("slug", org.Slug),
				zap.Error(err))
		}
	}
}

func (s *snapshotService) writeMetadata(orgs []*models.Organization, meta SnapshotMeta) error {
	techs := newFacetCounter()
	topics := newFacetCounter()
	categories := newFacetCounter()
	yearCounts := make(map[int]int)

	for _, org := range orgs {
		techs.AddDistinct(org.Technologies)
		topics.AddDistinct(org.Topics)
		categories.Add(org.Category)
		for _, year := range org.ActiveYears {
			yearCounts[year]++
		}
	}

	years := make([]yearFacet, 0, len(yearCounts))
	for year, count := range yearCounts {
		years = append(years, yearFacet{Year: year, Count: count})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })

	doc := metadataDocument{
		Meta:         meta,
		Technologies: techs.Values(),
		Topics:       topics.Values(),
		Categories:   categories.Values(),
		Years:        years,
	}
	if err := writeJSON(filepath.Join(s.cfg.OutputDir, "metadata.json"), doc); err != nil {
		return fmt.Errorf("failed to write metadata document: %w", err)
	}
	return nil
}

func (s *snapshotService) writeTopics(topics []models.Topic, meta SnapshotMeta, result *SnapshotResult) error {
	for _, topic := range topics {
		doc := topicDetailDocument{Meta: meta, Topic: topic}
		path := filepath.Join(s.cfg.OutputDir, "topics", topic.Slug+".json")
		if err := writeJSON(path, doc); err != nil {
			result.FailedWrites++
			s.logger.Error("Failed to write topic detail",
				zap.String("slug", topic.Slug),
				zap.Error(err))
		}
	}

	// The index omits the per-topic organization lists.
	index := make([]models.Topic, len(topics))
	for i, topic := range topics {
		topic.Organizations = nil
		index[i] = topic
	}
	doc := topicIndexDocument{Meta: meta, Topics: index}
	if err := writeJSON(filepath.Join(s.cfg.OutputDir, "topics", "index.json"), doc); err != nil {
		return fmt.Errorf("failed to write topic index: %w", err)
	}
	return nil
}

func (s *snapshotService) writeHome(orgs []*models.Organization, meta SnapshotMeta) error {
	stats := homeStats{TotalOrganizations: len(orgs)}

	var active []*models.Organization
	for _, org := range orgs {
		stats.TotalProjects += org.TotalProjects
		if org.IsCurrentlyActive {
			stats.ActiveOrganizations++
			active = append(active, org)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		if active[i].TotalProjects != active[j].TotalProjects {
			return active[i].TotalProjects > active[j].TotalProjects
		}
		return active[i].Name < active[j].Name
	})

	top := s.cfg.TopOrgs
	if top <= 0 {
		top = 25
	}
	if len(active) > top {
		active = active[:top]
	}
	summaries := make([]models.OrganizationSummary, len(active))
	for i, org := range active {
		summaries[i] = org.Summary()
	}

	doc := homeDocument{Meta: meta, TopOrganizations: summaries, Stats: stats}
	if err := writeJSON(filepath.Join(s.cfg.OutputDir, "home.json"), doc); err != nil {
		return fmt.Errorf("failed to write home document: %w", err)
	}
	return nil
}

// BuildTopics derives the topic aggregates from the corpus. Topics are keyed
// by normalized slug with the first-seen trimmed label as display name.
// Yearly stats cover [fromYear, toYear]; missing per-year entries count zero.
func BuildTopics(orgs []*models.Organization, fromYear, toYear int) []models.Topic {
	bySlug := make(map[string]*models.Topic)
	orgSeen := make(map[string]map[string]bool)
	var order []string

	for _, org := range orgs {
		for _, raw := range org.Topics {
			label := strings.TrimSpace(raw)
			slug := Slugify(label)
			if slug == "" {
				continue
			}

			topic, ok := bySlug[slug]
			if !ok {
				topic = &models.Topic{
					Slug:        slug,
					Name:        label,
					YearlyStats: make(map[int]models.TopicYearStat),
				}
				bySlug[slug] = topic
				orgSeen[slug] = make(map[string]bool)
				order = append(order, slug)
			}

			// An organization listing the same topic twice counts once.
			if orgSeen[slug][org.Slug] {
				continue
			}
			orgSeen[slug][org.Slug] = true

			topic.OrganizationCount++
			topic.ProjectCount += org.TotalProjects
			topic.Organizations = append(topic.Organizations, org.Summary())
			topic.Years = unionYears(topic.Years, org.ActiveYears)

			activeYears := make(map[int]bool, len(org.ActiveYears))
			for _, y := range org.ActiveYears {
				activeYears[y] = true
			}
			for year := fromYear; year <= toYear; year++ {
				if !activeYears[year] {
					continue
				}
				stat := topic.YearlyStats[year]
				stat.Organizations++
				stat.Projects += org.ProjectsByYear[year]
				topic.YearlyStats[year] = stat
			}
		}
	}

	topics := make([]models.Topic, 0, len(order))
	for _, slug := range order {
		topics = append(topics, *bySlug[slug])
	}
	sort.SliceStable(topics, func(i, j int) bool {
		if topics[i].OrganizationCount != topics[j].OrganizationCount {
			return topics[i].OrganizationCount > topics[j].OrganizationCount
		}
		return topics[i].Name < topics[j].Name
	})
	return topics
}

func unionYears(existing, add []int) []int {
	seen := make(map[int]bool, len(existing)+len(add))
	for _, y := range existing {
		seen[y] = true
	}
	for _, y := range add {
		seen[y] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// writeJSON marshals v with stable key ordering and writes it atomically
// enough for a batch run (truncate-then-write).
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
