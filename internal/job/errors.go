package job

import "errors"

// Common errors returned by the Dispatcher
var (
	// ErrQueueFull is returned by Submit when every queue slot is taken.
	// No job is created in that case.
	ErrQueueFull = errors.New("job queue is full")

	// ErrDispatcherStopped is returned by Submit once Stop has been called.
	ErrDispatcherStopped = errors.New("job dispatcher is stopped")

	// ErrDispatcherNotStarted is returned by Submit before Start has been called.
	ErrDispatcherNotStarted = errors.New("job dispatcher is not started")

	// ErrAlreadyStarted is returned when Start is called more than once.
	ErrAlreadyStarted = errors.New("job dispatcher already started")

	// ErrPipelinePanic wraps a panic recovered while running a job.
	ErrPipelinePanic = errors.New("job pipeline panicked")
)
