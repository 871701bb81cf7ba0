package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/model"
	"github.com/openboard/api/internal/service"
)

// JobHandler handles job listing and ingestion endpoints
type JobHandler struct {
	jobService    *service.JobService
	ingestService *service.IngestService
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService, ingestService *service.IngestService) *JobHandler {
	return &JobHandler{
		jobService:    jobService,
		ingestService: ingestService,
	}
}

// List handles GET /api/jobs
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.JobFilter{
		Title:          r.URL.Query().Get("title"),
		Location:       r.URL.Query().Get("location"),
		EmploymentType: r.URL.Query().Get("employmentType"),
	}

	jobs, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list jobs", "error", err)
		WriteError(w, model.NewInternalError("failed to list jobs"))
		return
	}

	WriteData(w, http.StatusOK, jobs, nil)
}

// Count handles GET /api/jobs/count
func (h *JobHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.jobService.Count(r.Context())
	if err != nil {
		slog.Error("failed to count jobs", "error", err)
		WriteError(w, model.NewInternalError("failed to count jobs"))
		return
	}

	WriteData(w, http.StatusOK, map[string]int{"count": count}, nil)
}

// FetchResponse is the ingestion endpoint response body
type FetchResponse struct {
	Message      string `json:"message"`
	Inserted     int    `json:"inserted"`
	Duplicates   int    `json:"duplicates"`
	Total        int    `json:"total"`
	APICallsUsed int    `json:"apiCallsUsed"`
	NewJobsFound int    `json:"newJobsFound"`
}

// Fetch handles POST /api/jobs/fetch. An empty body is allowed; the
// ingestion then runs with its defaults.
func (h *JobHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	var req model.IngestRequest
	if r.ContentLength != 0 {
		if err := DecodeJSON(r, &req); err != nil {
			WriteError(w, model.NewBadRequestError("invalid request body"))
			return
		}
	}

	result, err := h.ingestService.Ingest(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIngestInProgress):
			WriteError(w, model.NewConflictError("an ingestion for this query and location is already running"))
		case errors.Is(err, service.ErrInvalidPageCount):
			WriteError(w, model.NewValidationError([]model.FieldError{
				{Field: "pages", Message: "pages must be between 1 and 20"},
			}))
		case errors.Is(err, database.ErrConnection):
			WriteError(w, model.NewInternalError("job store unavailable"))
		default:
			slog.Error("ingestion failed", "error", err)
			WriteError(w, model.NewInternalError("ingestion failed"))
		}
		return
	}

	WriteJSON(w, http.StatusOK, FetchResponse{
		Message:      "Jobs fetched and stored successfully",
		Inserted:     result.Inserted,
		Duplicates:   result.Duplicates,
		Total:        result.Total,
		APICallsUsed: result.APICallsUsed,
		NewJobsFound: result.NewJobsFound,
	})
}
