package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/store"
)

// JobStore is a map-backed store.JobStore guarded by a read-write mutex.
// IDs are assigned from a counter starting at 1.
type JobStore struct {
	mu     sync.RWMutex
	jobs   map[domain.JobID]*domain.Job
	lastID domain.JobID
	now    func() time.Time
}

// NewJobStore creates an empty in-memory job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[domain.JobID]*domain.Job),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

var _ store.JobStore = (*JobStore)(nil)

// CreateJob stores a new job in the Selecting stage.
func (s *JobStore) CreateJob(ctx context.Context, filter domain.Filter) (domain.JobID, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	now := s.now()
	s.jobs[s.lastID] = &domain.Job{
		ID:        s.lastID,
		Status:    domain.StageSelecting,
		Filter:    filter.Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.lastID, nil
}

// SetStatus moves a job to stage when the transition is allowed.
func (s *JobStore) SetStatus(ctx context.Context, id domain.JobID, stage domain.Stage, detail string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return store.ErrJobNotFound
	}
	if !job.Status.CanTransitionTo(stage) {
		return store.NewStoreError("job", "set_status",
			fmt.Sprintf("%s -> %s", job.Status, stage), store.ErrInvalidTransition)
	}

	job.Status = stage
	job.Error = detail
	job.UpdatedAt = s.now()
	return nil
}

// GetStatus returns the current status of a job.
func (s *JobStore) GetStatus(ctx context.Context, id domain.JobID) (domain.JobStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.JobStatus{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return domain.JobStatus{}, store.ErrJobNotFound
	}
	return job.StatusOf(), nil
}

// GetJob returns a copy of the stored job.
func (s *JobStore) GetJob(ctx context.Context, id domain.JobID) (*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return copyJob(job), nil
}

// ListStalledJobs returns non-terminal jobs not updated within olderThan, oldest first.
func (s *JobStore) ListStalledJobs(ctx context.Context, olderThan time.Duration) ([]*domain.Job, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-olderThan)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Job
	for _, job := range s.jobs {
		if !job.Status.IsTerminal() && job.UpdatedAt.Before(cutoff) {
			out = append(out, copyJob(job))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

func copyJob(job *domain.Job) *domain.Job {
	c := *job
	c.Filter = job.Filter.Clone()
	return &c
}
