package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/store"
)

const (
	createJobQuery = `
		INSERT INTO jobs (status, tag, ingredients, algorithm)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	// setStatusQuery performs a compare-and-set: the update only applies when
	// the stored status is one of the allowed predecessors. The current status
	// is returned so a miss can be told apart from an unknown ID.
	setStatusQuery = `
		WITH current AS (
			SELECT status FROM jobs WHERE id = $1
		), updated AS (
			UPDATE jobs
			SET status = $2, error_message = NULLIF($3, ''), updated_at = NOW()
			WHERE id = $1 AND status = ANY($4)
			RETURNING id
		)
		SELECT (SELECT status FROM current), EXISTS (SELECT 1 FROM updated)
	`

	getStatusQuery = `
		SELECT status, error_message, updated_at
		FROM jobs
		WHERE id = $1
	`

	getJobQuery = `
		SELECT id, status, tag, ingredients, algorithm, error_message, created_at, updated_at
		FROM jobs
		WHERE id = $1
	`

	listStalledJobsQuery = `
		SELECT id, status, tag, ingredients, algorithm, error_message, created_at, updated_at
		FROM jobs
		WHERE status = ANY($1) AND updated_at < $2
		ORDER BY updated_at ASC
	`
)

// PostgresJobStore implements the store.JobStore interface using PostgreSQL.
type PostgresJobStore struct {
	db store.DBTX
}

// NewPostgresJobStore creates a new PostgresJobStore.
// It accepts a pool, connection or transaction managed by the caller.
func NewPostgresJobStore(db store.DBTX) *PostgresJobStore {
	return &PostgresJobStore{
		db: db,
	}
}

// Ensure PostgresJobStore implements store.JobStore interface
var _ store.JobStore = (*PostgresJobStore)(nil)

// CreateJob inserts a new job in the Selecting stage.
func (s *PostgresJobStore) CreateJob(ctx context.Context, filter domain.Filter) (domain.JobID, error) {
	log := logger.FromContext(ctx)

	ingredients := filter.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	var id int64
	err := s.db.QueryRow(ctx, createJobQuery,
		string(domain.StageSelecting),
		filter.Tag,
		ingredients,
		filter.Algorithm,
	).Scan(&id)
	if err != nil {
		log.Error("failed to create job",
			"tag", filter.TagOrNone(),
			"algorithm", filter.Algorithm,
			"error", err)
		return 0, store.NewStoreError("job", "create", "failed to insert job", MapError(err))
	}

	log.Debug("job created", "job_id", id)
	return domain.JobID(id), nil
}

// SetStatus moves a job to stage if its current stage allows it.
func (s *PostgresJobStore) SetStatus(ctx context.Context, id domain.JobID, stage domain.Stage, detail string) error {
	log := logger.FromContext(ctx)

	predecessors := domain.AllowedPredecessors(stage)
	if len(predecessors) == 0 {
		return store.NewStoreError("job", "set_status",
			fmt.Sprintf("stage %q cannot be assigned", stage), store.ErrInvalidTransition)
	}
	allowed := make([]string, len(predecessors))
	for i, p := range predecessors {
		allowed[i] = string(p)
	}

	var current *string
	var updated bool
	err := s.db.QueryRow(ctx, setStatusQuery, int64(id), string(stage), detail, allowed).Scan(&current, &updated)
	if err != nil {
		log.Error("failed to update job status",
			"job_id", id,
			"status", stage,
			"error", err)
		return store.NewStoreError("job", "set_status", "failed to update job status", MapError(err))
	}

	if current == nil {
		return store.ErrJobNotFound
	}
	if !updated {
		log.Warn("rejected job status transition",
			"job_id", id,
			"from", *current,
			"to", stage)
		return store.NewStoreError("job", "set_status",
			fmt.Sprintf("%s -> %s", *current, stage), store.ErrInvalidTransition)
	}

	return nil
}

// GetStatus returns the current stage of a job.
func (s *PostgresJobStore) GetStatus(ctx context.Context, id domain.JobID) (domain.JobStatus, error) {
	var status string
	var errorMessage *string
	var updatedAt time.Time

	err := s.db.QueryRow(ctx, getStatusQuery, int64(id)).Scan(&status, &errorMessage, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.JobStatus{}, store.ErrJobNotFound
		}
		logger.FromContext(ctx).Error("failed to get job status",
			"job_id", id,
			"error", err)
		return domain.JobStatus{}, store.NewStoreError("job", "get_status", "failed to query job status", MapError(err))
	}

	stage, err := domain.ParseStage(status)
	if err != nil {
		return domain.JobStatus{}, store.NewStoreError("job", "get_status", "stored status is invalid", err)
	}

	return domain.JobStatus{
		Stage:     stage,
		Error:     deref(errorMessage),
		UpdatedAt: updatedAt,
	}, nil
}

// GetJob returns the full job record.
func (s *PostgresJobStore) GetJob(ctx context.Context, id domain.JobID) (*domain.Job, error) {
	job, err := scanJob(s.db.QueryRow(ctx, getJobQuery, int64(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		logger.FromContext(ctx).Error("failed to get job",
			"job_id", id,
			"error", err)
		return nil, store.NewStoreError("job", "get", "failed to query job", MapError(err))
	}
	return job, nil
}

// ListStalledJobs returns non-terminal jobs not updated within olderThan.
func (s *PostgresJobStore) ListStalledJobs(ctx context.Context, olderThan time.Duration) ([]*domain.Job, error) {
	log := logger.FromContext(ctx)

	var active []string
	for _, stage := range domain.Stages() {
		if !stage.IsTerminal() {
			active = append(active, string(stage))
		}
	}
	cutoff := time.Now().UTC().Add(-olderThan)

	rows, err := s.db.Query(ctx, listStalledJobsQuery, active, cutoff)
	if err != nil {
		log.Error("failed to query stalled jobs", "error", err)
		return nil, store.NewStoreError("job", "list_stalled", "failed to query stalled jobs", MapError(err))
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			log.Error("failed to scan job row", "error", err)
			return nil, store.NewStoreError("job", "list_stalled", "failed to scan job row", MapError(err))
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating job rows", "error", err)
		return nil, store.NewStoreError("job", "list_stalled", "error iterating job rows", MapError(err))
	}

	return jobs, nil
}

// scanJob reads a row produced by getJobQuery or listStalledJobsQuery.
func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		id           int64
		status       string
		tag          *string
		ingredients  []string
		algorithm    string
		errorMessage *string
		createdAt    time.Time
		updatedAt    time.Time
	)
	if err := row.Scan(&id, &status, &tag, &ingredients, &algorithm, &errorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	stage, err := domain.ParseStage(status)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []string{}
	}

	return &domain.Job{
		ID:     domain.JobID(id),
		Status: stage,
		Filter: domain.Filter{
			Tag:         tag,
			Ingredients: ingredients,
			Algorithm:   algorithm,
		},
		Error:     deref(errorMessage),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
