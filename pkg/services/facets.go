package services

import (
	"sort"
	"strings"

	"github.com/gsocguide/backend/pkg/models"
)

// Slugify normalizes a free-form label to its canonical slug: lowercase, runs
// of non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens stripped.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// facetCounter counts distinct values case-insensitively while keeping the
// first-seen original casing as the display label. First-seen-wins keeps
// repeated runs deterministic.
type facetCounter struct {
	labels map[string]string
	counts map[string]int
}

func newFacetCounter() *facetCounter {
	return &facetCounter{
		labels: make(map[string]string),
		counts: make(map[string]int),
	}
}

// Add counts one occurrence of value under its lowercase key.
func (f *facetCounter) Add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	key := strings.ToLower(value)
	if _, seen := f.labels[key]; !seen {
		f.labels[key] = value
	}
	f.counts[key]++
}

// AddDistinct counts each distinct (case-insensitive) value in values once.
// Duplicates within a single organization's free-form list collapse here.
func (f *facetCounter) AddDistinct(values []string) {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		f.Add(v)
	}
}

// FacetValue is one distinct label with the number of organizations
// exhibiting it.
type FacetValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Values returns all counted values sorted by descending count, then name
// ascending.
func (f *facetCounter) Values() []FacetValue {
	values := make([]FacetValue, 0, len(f.counts))
	for key, count := range f.counts {
		values = append(values, FacetValue{Name: f.labels[key], Count: count})
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].Count != values[j].Count {
			return values[i].Count > values[j].Count
		}
		return values[i].Name < values[j].Name
	})
	return values
}

// Technologies aggregates distinct technology labels across organizations
// with per-organization dedup, sorted by usage count then name.
func Technologies(orgs []*models.Organization) []models.Technology {
	counter := newFacetCounter()
	for _, org := range orgs {
		counter.AddDistinct(org.Technologies)
	}

	values := counter.Values()
	techs := make([]models.Technology, len(values))
	for i, v := range values {
		techs[i] = models.Technology{
			Slug:  Slugify(v.Name),
			Name:  v.Name,
			Count: v.Count,
		}
	}
	return techs
}
