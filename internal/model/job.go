package model

import "time"

// JobPosting is the canonical stored form of a job fetched from the
// external search API. JobID comes from the source and is globally unique;
// the store enforces that with a unique index, and the ingestion pipeline
// never updates or deletes postings once created.
type JobPosting struct {
	ID                  string    `json:"id,omitempty"`
	JobID               string    `json:"job_id"`
	EmployerName        string    `json:"employer_name,omitempty"`
	EmployerWebsite     string    `json:"employer_website,omitempty"`
	EmploymentType      string    `json:"employment_type,omitempty"`
	Title               string    `json:"title,omitempty"`
	ApplyLink           string    `json:"apply_link,omitempty"`
	Description         string    `json:"description,omitempty"`
	PostedHumanReadable string    `json:"posted_human_readable,omitempty"`
	// PostedAtUTC is kept as the source's ISO-8601 string; lexicographic
	// order matches chronological order, which the listing sort relies on.
	PostedAtUTC         string    `json:"posted_at_utc,omitempty"`
	Location            string    `json:"location,omitempty"`
	Qualifications      []string  `json:"qualifications"`
	Responsibilities    []string  `json:"responsibilities"`
	CreatedOn           time.Time `json:"created_on,omitempty"`
	UpdatedOn           time.Time `json:"updated_on,omitempty"`
}

// JobFilter holds the listing filters. All matches are case-insensitive
// substring matches except EmploymentType, which is exact.
type JobFilter struct {
	Title          string
	Location       string
	EmploymentType string
}

// IngestRequest describes one ingestion run against the external source.
type IngestRequest struct {
	Query     string `json:"query"`
	Location  string `json:"location"`
	PageCount int    `json:"pages"`
}

// IngestResult reports the outcome of one ingestion run. Inserted +
// Duplicates + Errors always equals Total.
type IngestResult struct {
	Inserted     int `json:"inserted"`
	Duplicates   int `json:"duplicates"`
	Total        int `json:"total"`
	APICallsUsed int `json:"apiCallsUsed"`
	NewJobsFound int `json:"newJobsFound"`
	Errors       int `json:"errors"`
}

// SavedJob is a bookmark relating a user to a job posting by its source id.
type SavedJob struct {
	ID        string    `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	JobID     string    `json:"job_id"`
	CreatedOn time.Time `json:"created_on,omitempty"`
}
