package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a single mentored project. OrgSlug and OrgName are denormalized
// copies taken at import time; there is no join back to organizations at read
// time.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Abstract    string    `json:"abstract"`
	OrgSlug     string    `json:"org_slug"`
	OrgName     string    `json:"org_name"`
	Year        int       `json:"year"`
	Contributor string    `json:"contributor"`
	Mentors     []string  `json:"mentors"`
	ProjectURL  string    `json:"project_url,omitempty"`
	CodeURL     string    `json:"code_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
