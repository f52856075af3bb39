package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/events"
	"github.com/phrazzld/recipe-api/internal/store"
)

// Dispatcher accepts embedding jobs and runs them on a bounded worker pool.
type Dispatcher struct {
	store   store.JobStore
	engine  AnalysisEngine
	emitter events.EventEmitter
	config  DispatcherConfig
	logger  *slog.Logger
	queue   *jobQueue

	// ctx is the root of every pipeline context; cancel aborts in-flight jobs.
	ctx    context.Context
	cancel context.CancelFunc

	// monitorCancel stops the stalled job monitor only.
	monitorCtx    context.Context
	monitorCancel context.CancelFunc

	// mu guards started and stopped. Submit holds the read lock for its whole
	// duration so Stop cannot close the queue under an in-flight submission.
	mu      sync.RWMutex
	started bool
	stopped bool

	// held tracks jobs queued or running in this dispatcher. The stalled job
	// monitor never fails them.
	heldMu sync.Mutex
	held   map[domain.JobID]struct{}

	wg sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithEventEmitter sets the emitter that receives a StageChangedEvent after
// every committed status write.
func WithEventEmitter(emitter events.EventEmitter) Option {
	return func(d *Dispatcher) {
		d.emitter = emitter
	}
}

// NewDispatcher creates a Dispatcher. Call Start to launch the workers.
func NewDispatcher(
	jobStore store.JobStore,
	engine AnalysisEngine,
	cfg DispatcherConfig,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	monitorCtx, monitorCancel := context.WithCancel(ctx)

	d := &Dispatcher{
		store:         jobStore,
		engine:        engine,
		config:        cfg,
		logger:        logger.With("component", "job_dispatcher"),
		queue:         newJobQueue(cfg.QueueSize),
		ctx:           ctx,
		cancel:        cancel,
		monitorCtx:    monitorCtx,
		monitorCancel: monitorCancel,
		held:          make(map[domain.JobID]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start fails jobs left stalled by a previous run, then starts the workers
// and the stalled job monitor.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return ErrAlreadyStarted
	}
	if d.stopped {
		return ErrDispatcherStopped
	}
	d.started = true

	if n, err := d.failStalledJobs(ctx); err != nil {
		d.logger.Warn("initial stalled job sweep failed", "error", err)
	} else if n > 0 {
		d.logger.Info("failed jobs left over from a previous run", "count", n)
	}

	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.wg.Add(1)
	go d.stalledJobMonitor()

	d.logger.Info("job dispatcher started",
		"worker_count", d.config.WorkerCount,
		"queue_size", d.config.QueueSize,
		"job_timeout", d.config.JobTimeout)
	return nil
}

// Submit records a new job in the Selecting stage and queues it. It returns
// as soon as the job exists and is queued, without waiting for any work.
//
// When the queue is full it returns ErrQueueFull and creates nothing. When
// the job store fails the error is returned and nothing is queued. Submit
// before Start returns ErrDispatcherNotStarted.
func (d *Dispatcher) Submit(ctx context.Context, filter domain.Filter) (domain.JobID, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return 0, ErrDispatcherStopped
	}
	if !d.started {
		return 0, ErrDispatcherNotStarted
	}

	if !d.queue.tryReserve() {
		d.logger.WarnContext(ctx, "rejecting job, queue is full",
			"queue_cap", d.queue.capacity())
		return 0, fmt.Errorf("%w: capacity %d reached", ErrQueueFull, d.queue.capacity())
	}

	id, err := d.store.CreateJob(ctx, filter)
	if err != nil {
		d.queue.release()
		return 0, fmt.Errorf("failed to create job: %w", err)
	}
	d.hold(id)
	d.emit(ctx, events.NewStageChangedEvent(id, "", domain.StageSelecting, ""))

	d.queue.push(queuedJob{id: id, filter: filter.Clone()})
	d.logger.DebugContext(ctx, "job queued",
		"job_id", id,
		"queue_len", d.queue.pending(),
		"queue_cap", d.queue.capacity())

	return id, nil
}

// Stop rejects new submissions and lets the workers drain the queue. If ctx
// expires first, in-flight pipelines are cancelled and recorded as failed
// before Stop returns ctx's error.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return nil
	}
	d.stopped = true
	d.queue.close()
	d.mu.Unlock()

	d.monitorCancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		d.logger.Info("job dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.logger.Warn("shutdown deadline reached, cancelling running jobs",
			"pending", d.queue.pending())
		d.cancel()
		<-done
		return fmt.Errorf("job dispatcher stop: %w", ctx.Err())
	}
}

// worker processes jobs from the queue until it is closed
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting worker", "worker_id", id)

	for qj := range d.queue.channel() {
		d.queue.release()
		d.process(qj, id)
	}

	d.logger.Debug("job queue closed, stopping worker", "worker_id", id)
}

// stalledJobMonitor periodically fails jobs that have made no progress for
// longer than StalledJobAge.
func (d *Dispatcher) stalledJobMonitor() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.StalledCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.monitorCtx.Done():
			return

		case <-ticker.C:
			if _, err := d.failStalledJobs(d.monitorCtx); err != nil && d.monitorCtx.Err() == nil {
				d.logger.Error("failed to check for stalled jobs", "error", err)
			}
		}
	}
}

// failStalledJobs marks every stalled job as failed and returns how many it marked.
func (d *Dispatcher) failStalledJobs(ctx context.Context) (int, error) {
	stalled, err := d.store.ListStalledJobs(ctx, d.config.StalledJobAge)
	if err != nil {
		return 0, err
	}
	if len(stalled) == 0 {
		return 0, nil
	}

	d.logger.Info("found stalled jobs", "count", len(stalled))

	failed := 0
	for _, j := range stalled {
		if d.isHeld(j.ID) {
			// queued or running here; queue wait does not count as a stall
			continue
		}
		detail := fmt.Sprintf("stalled: no progress since %s", j.UpdatedAt.UTC().Format(time.RFC3339))
		if err := d.store.SetStatus(ctx, j.ID, domain.StageFailed, detail); err != nil {
			if errors.Is(err, store.ErrInvalidTransition) {
				// finished between listing and writing
				continue
			}
			d.logger.Error("failed to mark stalled job as failed",
				"job_id", j.ID,
				"stage", j.Status,
				"error", err)
			continue
		}
		failed++
		d.emit(ctx, events.NewStageChangedEvent(j.ID, j.Status, domain.StageFailed, detail))
	}
	return failed, nil
}

func (d *Dispatcher) hold(id domain.JobID) {
	d.heldMu.Lock()
	d.held[id] = struct{}{}
	d.heldMu.Unlock()
}

func (d *Dispatcher) unhold(id domain.JobID) {
	d.heldMu.Lock()
	delete(d.held, id)
	d.heldMu.Unlock()
}

func (d *Dispatcher) isHeld(id domain.JobID) bool {
	d.heldMu.Lock()
	defer d.heldMu.Unlock()
	_, ok := d.held[id]
	return ok
}

func (d *Dispatcher) emit(ctx context.Context, event *events.StageChangedEvent) {
	if d.emitter == nil {
		return
	}
	if err := d.emitter.EmitEvent(ctx, event); err != nil {
		d.logger.WarnContext(ctx, "stage change event handler failed",
			"job_id", event.JobID,
			"to", event.To,
			"error", err)
	}
}
