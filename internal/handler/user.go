package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/openboard/api/internal/middleware"
	"github.com/openboard/api/internal/model"
	"github.com/openboard/api/internal/service"
)

// UserHandler handles per-user endpoints
type UserHandler struct {
	jobService *service.JobService
}

// NewUserHandler creates a new user handler
func NewUserHandler(jobService *service.JobService) *UserHandler {
	return &UserHandler{
		jobService: jobService,
	}
}

// ListSavedJobs handles GET /api/users/saved-jobs
func (h *UserHandler) ListSavedJobs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	jobs, err := h.jobService.ListSavedJobs(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list saved jobs", "user_id", userID, "error", err)
		WriteError(w, model.NewInternalError("failed to list saved jobs"))
		return
	}

	WriteData(w, http.StatusOK, jobs, nil)
}

// SaveJob handles POST /api/users/saved-jobs/{jobID}
func (h *UserHandler) SaveJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	jobID := r.PathValue("jobID")
	if jobID == "" {
		WriteError(w, model.NewBadRequestError("job id is required"))
		return
	}

	if err := h.jobService.SaveJob(r.Context(), userID, jobID); err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			WriteError(w, model.NewNotFoundError("job"))
		case errors.Is(err, service.ErrJobAlreadySaved):
			WriteError(w, model.NewConflictError("job already saved"))
		default:
			slog.Error("failed to save job", "user_id", userID, "job_id", jobID, "error", err)
			WriteError(w, model.NewInternalError("failed to save job"))
		}
		return
	}

	WriteData(w, http.StatusCreated, map[string]string{"job_id": jobID}, nil)
}

// RemoveSavedJob handles DELETE /api/users/saved-jobs/{jobID}
func (h *UserHandler) RemoveSavedJob(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		WriteError(w, model.NewUnauthorizedError("authentication required"))
		return
	}

	jobID := r.PathValue("jobID")
	if jobID == "" {
		WriteError(w, model.NewBadRequestError("job id is required"))
		return
	}

	if err := h.jobService.RemoveSavedJob(r.Context(), userID, jobID); err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotSaved):
			WriteError(w, model.NewNotFoundError("saved job"))
		default:
			slog.Error("failed to remove saved job", "user_id", userID, "job_id", jobID, "error", err)
			WriteError(w, model.NewInternalError("failed to remove saved job"))
		}
		return
	}

	WriteNoContent(w)
}
