package service

import (
	"context"
	"errors"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/model"
)

// SavedJobRepository defines the interface for bookmark storage
type SavedJobRepository interface {
	Save(ctx context.Context, userID, jobID string) error
	Remove(ctx context.Context, userID, jobID string) error
	ListJobIDs(ctx context.Context, userID string) ([]string, error)
	Exists(ctx context.Context, userID, jobID string) (bool, error)
}

// JobService handles job listing and bookmarking
type JobService struct {
	jobRepo   JobRepository
	savedRepo SavedJobRepository
}

// JobServiceConfig holds configuration for the job service
type JobServiceConfig struct {
	JobRepo   JobRepository
	SavedRepo SavedJobRepository
}

// NewJobService creates a new job service
func NewJobService(cfg JobServiceConfig) *JobService {
	return &JobService{
		jobRepo:   cfg.JobRepo,
		savedRepo: cfg.SavedRepo,
	}
}

// List retrieves postings matching the filter, newest first.
func (s *JobService) List(ctx context.Context, filter model.JobFilter) ([]*model.JobPosting, error) {
	return s.jobRepo.List(ctx, filter)
}

// Count returns the number of stored postings.
func (s *JobService) Count(ctx context.Context) (int, error) {
	return s.jobRepo.Count(ctx)
}

// SaveJob bookmarks a posting for a user. Saving a posting that does not
// exist fails with ErrJobNotFound; saving twice fails with ErrJobAlreadySaved.
func (s *JobService) SaveJob(ctx context.Context, userID, jobID string) error {
	existing, err := s.jobRepo.FilterExistingIDs(ctx, []string{jobID})
	if err != nil {
		return err
	}
	if _, ok := existing[jobID]; !ok {
		return ErrJobNotFound
	}

	if err := s.savedRepo.Save(ctx, userID, jobID); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return ErrJobAlreadySaved
		}
		return err
	}
	return nil
}

// RemoveSavedJob deletes a user's bookmark.
func (s *JobService) RemoveSavedJob(ctx context.Context, userID, jobID string) error {
	saved, err := s.savedRepo.Exists(ctx, userID, jobID)
	if err != nil {
		return err
	}
	if !saved {
		return ErrJobNotSaved
	}

	return s.savedRepo.Remove(ctx, userID, jobID)
}

// ListSavedJobs returns the postings a user has bookmarked, newest first by
// posting date.
func (s *JobService) ListSavedJobs(ctx context.Context, userID string) ([]*model.JobPosting, error) {
	ids, err := s.savedRepo.ListJobIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.jobRepo.ListByJobIDs(ctx, ids)
}
