package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *StageChangedEvent
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *StageChangedEvent) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestNewStageChangedEvent(t *testing.T) {
	event := NewStageChangedEvent(3, domain.StageBuildingMatrix, domain.StageFailed, "engine down")

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, domain.JobID(3), event.JobID)
	assert.Equal(t, domain.StageBuildingMatrix, event.From)
	assert.Equal(t, domain.StageFailed, event.To)
	assert.Equal(t, "engine down", event.Detail)
	assert.False(t, event.OccurredAt.IsZero())

	other := NewStageChangedEvent(3, domain.StageBuildingMatrix, domain.StageFailed, "engine down")
	assert.NotEqual(t, event.ID, other.ID)
}

func TestStageChangedEvent_JSON(t *testing.T) {
	event := NewStageChangedEvent(1, domain.StageSelecting, domain.StageBuildingMatrix, "")

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Equal(t, "Selecting", fields["from"])
	assert.Equal(t, "BuildingMatrix", fields["to"])
	assert.EqualValues(t, 1, fields["job_id"])
	assert.NotContains(t, fields, "detail")
}

func TestHandlerFunc(t *testing.T) {
	var got *StageChangedEvent
	h := HandlerFunc(func(ctx context.Context, event *StageChangedEvent) error {
		got = event
		return nil
	})

	event := NewStageChangedEvent(1, domain.StageSelecting, domain.StageBuildingMatrix, "")
	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Same(t, event, got)
}
