package models

import "time"

// Category values for organizations. Free-form imports are folded into one of
// these before insert; anything unrecognized lands in CategoryOther.
const (
	CategoryWebDevelopment   = "Web Development"
	CategorySecurity         = "Security"
	CategoryDataScience      = "Data Science"
	CategoryLanguages        = "Programming Languages"
	CategoryScienceMedicine  = "Science and Medicine"
	CategoryCloudInfra       = "Cloud and Infrastructure"
	CategoryMedia            = "Media"
	CategoryOperatingSystems = "Operating Systems"
	CategoryEndUserApps      = "End User Applications"
	CategoryAI               = "Artificial Intelligence"
	CategoryOther            = "Other"
)

// Organization is a mentoring organization participating in one or more
// program years.
type Organization struct {
	ID           int64    `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	URL          string   `json:"url,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Technologies []string `json:"technologies"`
	Topics       []string `json:"topics"`

	// ActiveYears holds every year the organization participated.
	// FirstYear and LastYear are the stored min/max of ActiveYears.
	ActiveYears []int `json:"active_years"`
	FirstYear   int   `json:"first_year"`
	LastYear    int   `json:"last_year"`

	IsCurrentlyActive bool `json:"is_currently_active"`
	TotalProjects     int  `json:"total_projects"`

	ProjectsByYear map[int]int `json:"projects_by_year"`
	StudentsByYear map[int]int `json:"students_by_year"`

	// FirstTime records whether FirstYear equaled the target year of the most
	// recent recomputation run. It is only meaningful together with
	// FirstTimeComputedYear; both are nil until the job has run once.
	FirstTime             *bool `json:"first_time"`
	FirstTimeComputedYear *int  `json:"first_time_computed_year,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrganizationSummary is the minimal shape used by list endpoints and the
// snapshot index document.
type OrganizationSummary struct {
	ID                int64    `json:"id"`
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	Technologies      []string `json:"technologies"`
	Topics            []string `json:"topics"`
	ActiveYears       []int    `json:"active_years"`
	IsCurrentlyActive bool     `json:"is_currently_active"`
	TotalProjects     int      `json:"total_projects"`
	ImageURL          string   `json:"image_url,omitempty"`
}

// Summary projects the full record down to its listing shape.
func (o *Organization) Summary() OrganizationSummary {
	return OrganizationSummary{
		ID:                o.ID,
		Slug:              o.Slug,
		Name:              o.Name,
		Category:          o.Category,
		Technologies:      o.Technologies,
		Topics:            o.Topics,
		ActiveYears:       o.ActiveYears,
		IsCurrentlyActive: o.IsCurrentlyActive,
		TotalProjects:     o.TotalProjects,
		ImageURL:          o.ImageURL,
	}
}
