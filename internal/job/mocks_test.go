package job

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/events"
	"github.com/phrazzld/recipe-api/internal/store"
)

// MockEngine implements AnalysisEngine with overridable functions.
type MockEngine struct {
	PullRecipesFn       func(ctx context.Context, tag *string) ([]domain.Recipe, error)
	BuildCoOccurrenceFn func(ctx context.Context, recipes []domain.Recipe, ingredients []string) (*domain.CoOccurrence, error)
}

// PullRecipes implements AnalysisEngine.
func (m *MockEngine) PullRecipes(ctx context.Context, tag *string) ([]domain.Recipe, error) {
	if m.PullRecipesFn != nil {
		return m.PullRecipesFn(ctx, tag)
	}
	return []domain.Recipe{{ID: "r1", Name: "Shortbread", Ingredients: []string{"sugar", "flour", "butter"}}}, nil
}

// BuildCoOccurrence implements AnalysisEngine.
func (m *MockEngine) BuildCoOccurrence(
	ctx context.Context,
	recipes []domain.Recipe,
	ingredients []string,
) (*domain.CoOccurrence, error) {
	if m.BuildCoOccurrenceFn != nil {
		return m.BuildCoOccurrenceFn(ctx, recipes, ingredients)
	}
	return &domain.CoOccurrence{Ingredients: ingredients}, nil
}

// MockJobStore implements store.JobStore. Unset functions delegate to Base.
type MockJobStore struct {
	Base store.JobStore

	CreateJobFn       func(ctx context.Context, filter domain.Filter) (domain.JobID, error)
	SetStatusFn       func(ctx context.Context, id domain.JobID, stage domain.Stage, detail string) error
	ListStalledJobsFn func(ctx context.Context, olderThan time.Duration) ([]*domain.Job, error)
}

func (m *MockJobStore) CreateJob(ctx context.Context, filter domain.Filter) (domain.JobID, error) {
	if m.CreateJobFn != nil {
		return m.CreateJobFn(ctx, filter)
	}
	return m.Base.CreateJob(ctx, filter)
}

func (m *MockJobStore) SetStatus(ctx context.Context, id domain.JobID, stage domain.Stage, detail string) error {
	if m.SetStatusFn != nil {
		return m.SetStatusFn(ctx, id, stage, detail)
	}
	return m.Base.SetStatus(ctx, id, stage, detail)
}

func (m *MockJobStore) GetStatus(ctx context.Context, id domain.JobID) (domain.JobStatus, error) {
	return m.Base.GetStatus(ctx, id)
}

func (m *MockJobStore) GetJob(ctx context.Context, id domain.JobID) (*domain.Job, error) {
	return m.Base.GetJob(ctx, id)
}

func (m *MockJobStore) ListStalledJobs(ctx context.Context, olderThan time.Duration) ([]*domain.Job, error) {
	if m.ListStalledJobsFn != nil {
		return m.ListStalledJobsFn(ctx, olderThan)
	}
	return m.Base.ListStalledJobs(ctx, olderThan)
}

// eventRecorder collects stage changes per job.
type eventRecorder struct {
	mu     sync.Mutex
	stages map[domain.JobID][]domain.Stage
	events []*events.StageChangedEvent
}

func newEventRecorder() *eventRecorder {
	return &eventRecorder{stages: make(map[domain.JobID][]domain.Stage)}
}

func (r *eventRecorder) HandleEvent(ctx context.Context, event *events.StageChangedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[event.JobID] = append(r.stages[event.JobID], event.To)
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) stagesOf(id domain.JobID) []domain.Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Stage(nil), r.stages[id]...)
}

func (r *eventRecorder) last(id domain.JobID) *events.StageChangedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].JobID == id {
			return r.events[i]
		}
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
