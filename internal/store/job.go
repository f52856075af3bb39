package store

import (
	"context"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
)

// JobStore is the single source of truth for job records. Every write is an
// independent, immediately visible single-row commit; no transaction spans
// the lifetime of a job.
type JobStore interface {
	// CreateJob inserts a job in StageSelecting and returns its assigned ID.
	CreateJob(ctx context.Context, filter domain.Filter) (domain.JobID, error)

	// SetStatus moves a job to stage. The write only succeeds when the stored
	// stage may legally transition to stage; otherwise ErrInvalidTransition
	// is returned. detail is recorded as the job's error message and is only
	// meaningful for StageFailed.
	SetStatus(ctx context.Context, id domain.JobID, stage domain.Stage, detail string) error

	// GetStatus returns the current status of a job, or ErrJobNotFound.
	GetStatus(ctx context.Context, id domain.JobID) (domain.JobStatus, error)

	// GetJob returns the full job record, or ErrJobNotFound.
	GetJob(ctx context.Context, id domain.JobID) (*domain.Job, error)

	// ListStalledJobs returns non-terminal jobs whose status has not changed
	// for longer than olderThan, oldest first.
	ListStalledJobs(ctx context.Context, olderThan time.Duration) ([]*domain.Job, error)
}
