// seed-demo-data inserts a small set of demo organizations for local
// development. Existing rows with the same slug are overwritten.
//
// Usage: go run ./scripts/seed-demo-data
//
// Database connection: uses the standard PG* environment variables.
//
// Flags:
//
//	-dry-run   Show what would be inserted without writing (default: false)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
)

type demoOrg struct {
	Slug           string
	Name           string
	Category       string
	Description    string
	URL            string
	Technologies   []string
	Topics         []string
	ActiveYears    []int
	FirstYear      int
	LastYear       int
	Active         bool
	TotalProjects  int
	ProjectsByYear map[int]int
	StudentsByYear map[int]int
}

var demoOrgs = []demoOrg{
	{
		Slug: "mozilla", Name: "Mozilla", Category: "Security",
		Description:  "Builds the Firefox browser and an open web platform.",
		URL:          "https://www.mozilla.org",
		Technologies: []string{"Rust", "JavaScript", "C++"},
		Topics:       []string{"Web Browser", "Privacy"},
		ActiveYears:  []int{2023, 2024, 2025}, FirstYear: 2023, LastYear: 2025,
		Active: true, TotalProjects: 42,
		ProjectsByYear: map[int]int{2023: 12, 2024: 14, 2025: 16},
		StudentsByYear: map[int]int{2023: 11, 2024: 13, 2025: 15},
	},
	{
		Slug: "zulip", Name: "Zulip", Category: "Web Development",
		Description:  "Open-source team chat with threaded conversations.",
		URL:          "https://zulip.com",
		Technologies: []string{"Python", "TypeScript"},
		Topics:       []string{"Chat", "Collaboration"},
		ActiveYears:  []int{2016, 2024, 2025}, FirstYear: 2016, LastYear: 2025,
		Active: true, TotalProjects: 85,
		ProjectsByYear: map[int]int{2016: 20, 2024: 30, 2025: 35},
		StudentsByYear: map[int]int{2016: 18, 2024: 28, 2025: 33},
	},
	{
		Slug: "new-lab", Name: "New Lab", Category: "Data Science",
		Description:  "A first-time organization working on reproducible pipelines.",
		Technologies: []string{"Python", "Julia"},
		Topics:       []string{"Machine Learning"},
		ActiveYears:  []int{2025}, FirstYear: 2025, LastYear: 2025,
		Active: true, TotalProjects: 3,
		ProjectsByYear: map[int]int{2025: 3},
		StudentsByYear: map[int]int{2025: 3},
	},
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Show what would be inserted without writing")
	flag.Parse()

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	for _, org := range demoOrgs {
		if *dryRun {
			fmt.Printf("would upsert organization %q (%d projects)\n", org.Slug, org.TotalProjects)
			continue
		}
		if err := upsertOrg(ctx, conn, org); err != nil {
			fmt.Fprintf(os.Stderr, "upsert %s: %v\n", org.Slug, err)
			os.Exit(1)
		}
		fmt.Printf("upserted organization %q\n", org.Slug)
	}
}

func upsertOrg(ctx context.Context, conn *pgx.Conn, org demoOrg) error {
	projectsJSON, err := json.Marshal(org.ProjectsByYear)
	if err != nil {
		return err
	}
	studentsJSON, err := json.Marshal(org.StudentsByYear)
	if err != nil {
		return err
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO organizations (
			slug, name, category, description, url, technologies, topics,
			active_years, first_year, last_year, is_currently_active,
			total_projects, projects_by_year, students_by_year
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			technologies = EXCLUDED.technologies,
			topics = EXCLUDED.topics,
			active_years = EXCLUDED.active_years,
			first_year = EXCLUDED.first_year,
			last_year = EXCLUDED.last_year,
			is_currently_active = EXCLUDED.is_currently_active,
			total_projects = EXCLUDED.total_projects,
			projects_by_year = EXCLUDED.projects_by_year,
			students_by_year = EXCLUDED.students_by_year,
			updated_at = now()`,
		org.Slug, org.Name, org.Category, org.Description, org.URL,
		org.Technologies, org.Topics, org.ActiveYears, org.FirstYear,
		org.LastYear, org.Active, org.TotalProjects, projectsJSON, studentsJSON)
	return err
}
