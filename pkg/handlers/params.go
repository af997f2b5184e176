package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gsocguide/backend/pkg/repositories"
)

// ParsePage reads page and limit query parameters. Missing or malformed
// values fall back to zero; the listing services clamp from there.
func ParsePage(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
}

// parseCommaList splits a comma-separated query parameter into trimmed,
// non-empty values.
func parseCommaList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}

// parseYearList parses a comma-separated year list. Tokens that fail to
// parse as integers are dropped silently; malformed input narrows the
// result, it never errors.
func parseYearList(raw string) []int {
	var years []int
	for _, token := range parseCommaList(raw) {
		if year, err := strconv.Atoi(token); err == nil {
			years = append(years, year)
		}
	}
	return years
}

// ParseOrganizationFilters reads the full organization filter set from query
// parameters. Unknown filter values match zero records rather than erroring.
func ParseOrganizationFilters(r *http.Request) repositories.OrganizationFilters {
	q := r.URL.Query()
	return repositories.OrganizationFilters{
		Years:         parseYearList(q.Get("years")),
		Categories:    parseCommaList(q.Get("categories")),
		Techs:         parseCommaList(q.Get("techs")),
		Topics:        parseCommaList(q.Get("topics")),
		FirstTimeOnly: q.Get("firstTimeOnly") == "true",
		Search:        strings.TrimSpace(q.Get("q")),
	}
}

// ParseProjectFilters reads the project filter set from query parameters.
// A malformed year contributes no constraint.
func ParseProjectFilters(r *http.Request) repositories.ProjectFilters {
	q := r.URL.Query()
	year, _ := strconv.Atoi(q.Get("year"))
	return repositories.ProjectFilters{
		Year:    year,
		OrgSlug: strings.TrimSpace(q.Get("org")),
		Search:  strings.TrimSpace(q.Get("q")),
	}
}
