package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/openboard/api/internal/database"
)

// SavedJobRepository handles saved job bookmark data access
type SavedJobRepository struct {
	db database.Database
}

// NewSavedJobRepository creates a new saved job repository
func NewSavedJobRepository(db database.Database) *SavedJobRepository {
	return &SavedJobRepository{db: db}
}

// Save bookmarks a posting for a user. The unique index on (user, job_id)
// surfaces repeats as database.ErrDuplicate.
func (r *SavedJobRepository) Save(ctx context.Context, userID, jobID string) error {
	query := `
		CREATE saved_job CONTENT {
			user: type::record($user),
			job_id: $job_id,
			created_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"user":   userID,
		"job_id": jobID,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if errors.Is(err, database.ErrDuplicate) || isUniqueConstraintError(err) {
			return fmt.Errorf("%w: job already saved", database.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Remove deletes a user's bookmark for a posting.
func (r *SavedJobRepository) Remove(ctx context.Context, userID, jobID string) error {
	query := `DELETE saved_job WHERE user = type::record($user) AND job_id = $job_id`
	vars := map[string]interface{}{
		"user":   userID,
		"job_id": jobID,
	}

	return r.db.Execute(ctx, query, vars)
}

// ListJobIDs returns the source job IDs a user has bookmarked, newest first.
func (r *SavedJobRepository) ListJobIDs(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT job_id FROM saved_job WHERE user = type::record($user) ORDER BY created_on DESC`
	vars := map[string]interface{}{"user": userID}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	rows, ok := extractQueryResults(result)
	if !ok {
		return []string{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			if jobID := getString(data, "job_id"); jobID != "" {
				ids = append(ids, jobID)
			}
		}
	}
	return ids, nil
}

// Exists reports whether a user has bookmarked the posting.
func (r *SavedJobRepository) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	query := `SELECT count() AS count FROM saved_job WHERE user = type::record($user) AND job_id = $job_id GROUP ALL`
	vars := map[string]interface{}{
		"user":   userID,
		"job_id": jobID,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return extractCount(result) > 0, nil
}
