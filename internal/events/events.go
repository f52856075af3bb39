package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
)

// StageChangedEvent records that a job's status moved from one stage to another.
type StageChangedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	JobID domain.JobID `json:"job_id"`
	From  domain.Stage `json:"from"`
	To    domain.Stage `json:"to"`

	// Detail carries the failure reason when To is StageFailed
	Detail string `json:"detail,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewStageChangedEvent creates an event for a committed transition.
func NewStageChangedEvent(jobID domain.JobID, from, to domain.Stage, detail string) *StageChangedEvent {
	return &StageChangedEvent{
		ID:         uuid.New(),
		JobID:      jobID,
		From:       from,
		To:         to,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *StageChangedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *StageChangedEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *StageChangedEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *StageChangedEvent) error {
	return f(ctx, event)
}
