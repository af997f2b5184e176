package models

// Topic is derived wholesale from organization topic lists on every snapshot
// run; its identity is the normalized slug and it has no storage of its own.
type Topic struct {
	Slug              string                `json:"slug"`
	Name              string                `json:"name"`
	OrganizationCount int                   `json:"organization_count"`
	ProjectCount      int                   `json:"project_count"`
	Years             []int                 `json:"years"`
	YearlyStats       map[int]TopicYearStat `json:"yearly_stats"`
	Organizations     []OrganizationSummary `json:"organizations,omitempty"`
}

// TopicYearStat carries per-year counts for organizations exhibiting a topic.
type TopicYearStat struct {
	Organizations int `json:"organizations"`
	Projects      int `json:"projects"`
}

// Technology is derived from organization technology lists; the count is the
// number of distinct organizations using it.
type Technology struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}
