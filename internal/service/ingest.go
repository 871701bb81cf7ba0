package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/jsearch"
	"github.com/openboard/api/internal/model"
)

const (
	defaultQuery     = "software developer"
	defaultLocation  = "United States"
	defaultPageCount = 2
	maxPageCount     = 20

	// Only fresh postings are ingested; the sweep keeps the backlog current.
	ingestDatePosted = "today"
)

// SearchClient defines the interface for the external job source
type SearchClient interface {
	Search(ctx context.Context, query, location string, page int, datePosted string) (*jsearch.SearchPage, error)
}

// JobRepository defines the interface for job posting storage
type JobRepository interface {
	Create(ctx context.Context, job *model.JobPosting) error
	FilterExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)
	List(ctx context.Context, filter model.JobFilter) ([]*model.JobPosting, error)
	ListByJobIDs(ctx context.Context, ids []string) ([]*model.JobPosting, error)
	Count(ctx context.Context) (int, error)
}

// IngestService orchestrates fetching, normalization, deduplication, and
// storage of job postings.
type IngestService struct {
	client  SearchClient
	jobRepo JobRepository
	guard   IngestGuard
	limiter *rate.Limiter
	logger  *slog.Logger
}

// IngestServiceConfig holds configuration for the ingest service
type IngestServiceConfig struct {
	Client  SearchClient
	JobRepo JobRepository
	Guard   IngestGuard
	Pace    time.Duration // minimum spacing between external API calls
	Logger  *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(cfg IngestServiceConfig) *IngestService {
	pace := cfg.Pace
	if pace <= 0 {
		pace = time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		client:  cfg.Client,
		jobRepo: cfg.JobRepo,
		guard:   cfg.Guard,
		limiter: rate.NewLimiter(rate.Every(pace), 1),
		logger:  logger,
	}
}

// Ingest runs one ingestion: fetch the requested number of pages, normalize,
// deduplicate against the store, and insert what is new. Page fetching stops
// early when the source reports no more results. A source failure mid-run
// keeps the pages already fetched; only an unreachable store aborts the run.
func (s *IngestService) Ingest(ctx context.Context, req model.IngestRequest) (*model.IngestResult, error) {
	query, location, pages := applyDefaults(req)
	if pages < 1 || pages > maxPageCount {
		return nil, ErrInvalidPageCount
	}

	key := GuardKey(query, location)
	acquired, err := s.guard.TryAcquire(ctx, key)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrIngestInProgress
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("failed to release ingest guard", "key", key, "error", err)
		}
	}()

	result := &model.IngestResult{}

	// Upstream pages are 1-based
	var raw []jsearch.RawJob
	for page := 1; page <= pages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		searchPage, err := s.client.Search(ctx, query, location, page, ingestDatePosted)
		result.APICallsUsed++
		if err != nil {
			// Keep what was already fetched; the counts tell the story
			s.logger.Warn("job source request failed",
				"query", query, "location", location, "page", page, "error", err)
			break
		}

		raw = append(raw, searchPage.Jobs...)
		if !searchPage.HasMore {
			break
		}
	}

	if err := s.reconcileAndStore(ctx, raw, location, result); err != nil {
		return nil, err
	}

	s.logger.Info("ingestion finished",
		"query", query, "location", location,
		"inserted", result.Inserted, "duplicates", result.Duplicates,
		"errors", result.Errors, "total", result.Total,
		"api_calls", result.APICallsUsed)

	return result, nil
}

// reconcileAndStore normalizes raw records, partitions them against the
// store, and inserts the new ones. The unique index remains the final
// arbiter: in-batch duplicates both reach insert and the second surfaces
// as database.ErrDuplicate.
func (s *IngestService) reconcileAndStore(ctx context.Context, raw []jsearch.RawJob, fallbackLocation string, result *model.IngestResult) error {
	result.Total = len(raw)

	candidates := make([]*model.JobPosting, 0, len(raw))
	for _, r := range raw {
		job, err := NormalizeJob(r, fallbackLocation)
		if err != nil {
			result.Errors++
			s.logger.Warn("skipping malformed job record", "error", err)
			continue
		}
		candidates = append(candidates, job)
	}
	if len(candidates) == 0 {
		return nil
	}

	ids := make([]string, 0, len(candidates))
	for _, job := range candidates {
		ids = append(ids, job.JobID)
	}

	existing, err := s.jobRepo.FilterExistingIDs(ctx, ids)
	if err != nil {
		return err
	}

	toInsert := make([]*model.JobPosting, 0, len(candidates))
	for _, job := range candidates {
		if _, ok := existing[job.JobID]; ok {
			result.Duplicates++
			continue
		}
		toInsert = append(toInsert, job)
	}
	// Counted before the store arbitrates in-batch repeats
	result.NewJobsFound = len(toInsert)

	for _, job := range toInsert {
		if err := s.jobRepo.Create(ctx, job); err != nil {
			switch {
			case errors.Is(err, database.ErrDuplicate):
				result.Duplicates++
			case errors.Is(err, database.ErrConnection):
				return err
			default:
				result.Errors++
				s.logger.Warn("failed to insert job", "job_id", job.JobID, "error", err)
			}
			continue
		}
		result.Inserted++
	}

	return nil
}

// NormalizeJob maps a raw source record into the stored posting shape.
// Location falls back through city, state, country, and finally the
// location the search was made with. A record without a job_id is rejected.
func NormalizeJob(raw jsearch.RawJob, fallbackLocation string) (*model.JobPosting, error) {
	if strings.TrimSpace(raw.JobID) == "" {
		return nil, ErrMissingJobID
	}

	location := firstNonEmpty(raw.City, raw.State, raw.Country, fallbackLocation)

	qualifications := raw.RequiredSkills
	if qualifications == nil {
		qualifications = []string{}
	}
	responsibilities := raw.Responsibilities
	if responsibilities == nil {
		responsibilities = []string{}
	}

	return &model.JobPosting{
		JobID:               raw.JobID,
		EmployerName:        raw.EmployerName,
		EmployerWebsite:     raw.EmployerWebsite,
		EmploymentType:      raw.EmploymentType,
		Title:               raw.Title,
		ApplyLink:           raw.ApplyLink,
		Description:         raw.Description,
		PostedHumanReadable: raw.PostedHumanReadable,
		PostedAtUTC:         raw.PostedAtUTC,
		Location:            location,
		Qualifications:      qualifications,
		Responsibilities:    responsibilities,
	}, nil
}

func applyDefaults(req model.IngestRequest) (query, location string, pages int) {
	query = strings.TrimSpace(req.Query)
	if query == "" {
		query = defaultQuery
	}
	location = strings.TrimSpace(req.Location)
	if location == "" {
		location = defaultLocation
	}
	pages = req.PageCount
	if pages == 0 {
		pages = defaultPageCount
	}
	return query, location, pages
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
