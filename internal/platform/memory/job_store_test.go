package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFilter() domain.Filter {
	tag := "dessert"
	return domain.Filter{Tag: &tag, Ingredients: []string{"sugar", "flour"}, Algorithm: "cooccurrence"}
}

func TestJobStore_CreateAssignsSequentialIDs(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	first, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)
	second, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)

	assert.Equal(t, domain.JobID(1), first)
	assert.Equal(t, domain.JobID(2), second)

	status, err := s.GetStatus(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, domain.StageSelecting, status.Stage)
}

func TestJobStore_ConcurrentCreateDistinctIDs(t *testing.T) {
	s := NewJobStore()
	const n = 50

	ids := make(chan domain.JobID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.CreateJob(context.Background(), testFilter())
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.JobID]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestJobStore_SetStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []domain.Stage
		next    domain.Stage
		wantErr error
	}{
		{name: "forward", path: nil, next: domain.StageBuildingMatrix},
		{name: "skip", path: nil, next: domain.StageEmbeddingRelation, wantErr: store.ErrInvalidTransition},
		{name: "revert", path: []domain.Stage{domain.StageBuildingMatrix}, next: domain.StageSelecting, wantErr: store.ErrInvalidTransition},
		{name: "repeat", path: []domain.Stage{domain.StageBuildingMatrix}, next: domain.StageBuildingMatrix, wantErr: store.ErrInvalidTransition},
		{name: "fail mid pipeline", path: []domain.Stage{domain.StageBuildingMatrix}, next: domain.StageFailed},
		{
			name:    "leave complete",
			path:    []domain.Stage{domain.StageBuildingMatrix, domain.StageEmbeddingRelation, domain.StageComplete},
			next:    domain.StageFailed,
			wantErr: store.ErrInvalidTransition,
		},
		{name: "leave failed", path: []domain.Stage{domain.StageFailed}, next: domain.StageBuildingMatrix, wantErr: store.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewJobStore()
			ctx := context.Background()
			id, err := s.CreateJob(ctx, testFilter())
			require.NoError(t, err)
			for _, stage := range tt.path {
				require.NoError(t, s.SetStatus(ctx, id, stage, ""))
			}

			err = s.SetStatus(ctx, id, tt.next, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			status, err := s.GetStatus(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.next, status.Stage)
		})
	}
}

func TestJobStore_FailedKeepsDetail(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()
	id, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, id, domain.StageFailed, "engine down"))

	status, err := s.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StageFailed, status.Stage)
	assert.Equal(t, "engine down", status.Error)
}

func TestJobStore_NotFound(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	_, err := s.GetStatus(ctx, 42)
	assert.ErrorIs(t, err, store.ErrJobNotFound)

	_, err = s.GetJob(ctx, 42)
	assert.ErrorIs(t, err, store.ErrJobNotFound)

	err = s.SetStatus(ctx, 42, domain.StageBuildingMatrix, "")
	assert.ErrorIs(t, err, store.ErrJobNotFound)
}

func TestJobStore_GetJobReturnsCopy(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	filter := testFilter()
	id, err := s.CreateJob(ctx, filter)
	require.NoError(t, err)

	filter.Ingredients[0] = "salt"

	job, err := s.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sugar", job.Filter.Ingredients[0])

	job.Filter.Ingredients[0] = "pepper"
	job.Status = domain.StageComplete

	again, err := s.GetJob(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "sugar", again.Filter.Ingredients[0])
	assert.Equal(t, domain.StageSelecting, again.Status)
}

func TestJobStore_ListStalledJobs(t *testing.T) {
	s := NewJobStore()
	ctx := context.Background()

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	stalled, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)
	finished, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)
	require.NoError(t, s.SetStatus(ctx, finished, domain.StageFailed, "x"))

	clock = clock.Add(time.Hour)
	fresh, err := s.CreateJob(ctx, testFilter())
	require.NoError(t, err)

	jobs, err := s.ListStalledJobs(ctx, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, stalled, jobs[0].ID)
	assert.NotEqual(t, fresh, jobs[0].ID)
}

func TestJobStore_CanceledContext(t *testing.T) {
	s := NewJobStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.CreateJob(ctx, testFilter())
	assert.ErrorIs(t, err, context.Canceled)
}
