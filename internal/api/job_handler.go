package api

import (
	"context"
	"net/http"

	"github.com/phrazzld/recipe-api/internal/api/shared"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// JobSubmitter accepts new embedding jobs.
type JobSubmitter interface {
	Submit(ctx context.Context, filter domain.Filter) (domain.JobID, error)
}

// JobReader looks up stored jobs.
type JobReader interface {
	GetStatus(ctx context.Context, id domain.JobID) (domain.JobStatus, error)
	GetJob(ctx context.Context, id domain.JobID) (*domain.Job, error)
}

// JobHandler handles job submission and progress requests
type JobHandler struct {
	submitter JobSubmitter
	reader    JobReader
}

// NewJobHandler creates a new JobHandler
func NewJobHandler(submitter JobSubmitter, reader JobReader) *JobHandler {
	return &JobHandler{
		submitter: submitter,
		reader:    reader,
	}
}

// Embed handles POST /embed. It responds with the new job's ID as plain
// text as soon as the job is accepted.
func (h *JobHandler) Embed(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req EmbedRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if shared.IsBodyTooLarge(err) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	id, err := h.submitter.Submit(r.Context(), req.Filter())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("job accepted",
		"job_id", id,
		"tag", req.Filter().TagOrNone(),
		"algorithm", req.Algorithm)

	shared.RespondWithText(w, r, http.StatusOK, id.String())
}

// GetStatus handles GET /status/{id}.
func (h *JobHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathJobID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, GetSafeErrorMessage(err))
		return
	}

	status, err := h.reader.GetStatus(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statusToResponse(status))
}

// GetJob handles GET /jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := getPathJobID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusNotFound, GetSafeErrorMessage(err))
		return
	}

	j, err := h.reader.GetJob(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(j))
}
