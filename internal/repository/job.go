package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/model"
)

// JobRepository handles job posting data access
type JobRepository struct {
	db database.Database
}

// NewJobRepository creates a new job repository
func NewJobRepository(db database.Database) *JobRepository {
	return &JobRepository{db: db}
}

// Create inserts a single job posting. The unique index on job_id makes the
// store the final arbiter against double-insertion; a violation surfaces as
// database.ErrDuplicate.
func (r *JobRepository) Create(ctx context.Context, job *model.JobPosting) error {
	query := `
		CREATE job CONTENT {
			job_id: $job_id,
			employer_name: $employer_name,
			employer_website: $employer_website,
			employment_type: $employment_type,
			title: $title,
			apply_link: $apply_link,
			description: $description,
			posted_human_readable: $posted_human_readable,
			posted_at_utc: $posted_at_utc,
			location: $location,
			qualifications: $qualifications,
			responsibilities: $responsibilities,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"job_id":                job.JobID,
		"employer_name":         job.EmployerName,
		"employer_website":      job.EmployerWebsite,
		"employment_type":       job.EmploymentType,
		"title":                 job.Title,
		"apply_link":            job.ApplyLink,
		"description":           job.Description,
		"posted_human_readable": job.PostedHumanReadable,
		"posted_at_utc":         job.PostedAtUTC,
		"location":              job.Location,
		"qualifications":        job.Qualifications,
		"responsibilities":      job.Responsibilities,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) || isUniqueConstraintError(err) {
			return fmt.Errorf("%w: job_id already exists", database.ErrDuplicate)
		}
		return err
	}

	created, err := extractCreatedRecord(result)
	if err != nil {
		return err
	}

	job.ID = created.ID
	job.CreatedOn = created.CreatedOn
	job.UpdatedOn = created.UpdatedOn
	return nil
}

// FilterExistingIDs returns which of the given source job IDs are already
// stored, using a single batched query regardless of batch size.
func (r *JobRepository) FilterExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(ids) == 0 {
		return existing, nil
	}

	query := `SELECT job_id FROM job WHERE job_id IN $ids`
	vars := map[string]interface{}{"ids": ids}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return existing, nil
	}

	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if jobID := getString(data, "job_id"); jobID != "" {
				existing[jobID] = struct{}{}
			}
		}
	}
	return existing, nil
}

// List retrieves job postings matching the filter, newest first by the
// source's posting timestamp.
func (r *JobRepository) List(ctx context.Context, filter model.JobFilter) ([]*model.JobPosting, error) {
	query := `SELECT * FROM job`
	vars := map[string]interface{}{}

	var conditions []string
	if filter.Title != "" {
		conditions = append(conditions, `string::lowercase(title) CONTAINS string::lowercase($title)`)
		vars["title"] = filter.Title
	}
	if filter.Location != "" {
		conditions = append(conditions, `string::lowercase(location) CONTAINS string::lowercase($location)`)
		vars["location"] = filter.Location
	}
	if filter.EmploymentType != "" {
		conditions = append(conditions, `employment_type = $employment_type`)
		vars["employment_type"] = filter.EmploymentType
	}
	for i, cond := range conditions {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY posted_at_utc DESC`

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseJobResults(result)
}

// ListByJobIDs retrieves the postings for the given source job IDs.
func (r *JobRepository) ListByJobIDs(ctx context.Context, ids []string) ([]*model.JobPosting, error) {
	if len(ids) == 0 {
		return []*model.JobPosting{}, nil
	}

	query := `SELECT * FROM job WHERE job_id IN $ids ORDER BY posted_at_utc DESC`
	vars := map[string]interface{}{"ids": ids}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseJobResults(result)
}

// Count returns the total number of stored postings.
func (r *JobRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT count() AS count FROM job GROUP ALL`

	result, err := r.db.QueryOne(ctx, query, nil)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return extractCount(result), nil
}

func parseJobResults(result []interface{}) ([]*model.JobPosting, error) {
	rows, ok := extractQueryResults(result)
	if !ok {
		return []*model.JobPosting{}, nil
	}

	jobs := make([]*model.JobPosting, 0, len(rows))
	for _, row := range rows {
		job, err := parseJobResult(row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func parseJobResult(result interface{}) (*model.JobPosting, error) {
	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	if id, ok := data["id"]; ok {
		data["id"] = convertSurrealID(id)
	}
	normalizeTimestamps(data, "created_on", "updated_on")

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var job model.JobPosting
	if err := json.Unmarshal(jsonBytes, &job); err != nil {
		return nil, err
	}

	// Listings always carry these as arrays, even when the source had none
	if job.Qualifications == nil {
		job.Qualifications = []string{}
	}
	if job.Responsibilities == nil {
		job.Responsibilities = []string{}
	}

	return &job, nil
}
