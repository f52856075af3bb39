package job

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/events"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
)

// failureWriteTimeout bounds the status write that records a failed job.
const failureWriteTimeout = 10 * time.Second

// process runs one job to a terminal stage. A job that was failed or picked
// up elsewhere while it waited in the queue is dropped without calling the
// engine.
func (d *Dispatcher) process(qj queuedJob, workerID int) {
	defer d.unhold(qj.id)

	log := d.logger.With(
		"job_id", qj.id,
		"worker_id", workerID,
	)

	ctx, cancel := context.WithTimeout(d.ctx, d.config.JobTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	if status, err := d.store.GetStatus(ctx, qj.id); err != nil {
		log.Warn("could not re-read job status before running", "error", err)
	} else if status.Stage.IsTerminal() || domain.StageSelecting.Before(status.Stage) {
		log.Warn("dropping job that is no longer waiting to run", "stage", status.Stage)
		return
	}

	log.Info("processing job",
		"tag", qj.filter.TagOrNone(),
		"algorithm", qj.filter.Algorithm,
		"ingredient_count", len(qj.filter.Ingredients))

	started := time.Now()
	current := domain.StageSelecting
	if err := d.runPipeline(ctx, qj, &current, log); err != nil {
		d.fail(ctx, qj.id, current, err, log)
		return
	}

	log.Info("job completed", "duration", time.Since(started))
}

// runPipeline performs the stages in order, updating current after each
// committed status write. A panic is turned into ErrPipelinePanic.
func (d *Dispatcher) runPipeline(ctx context.Context, qj queuedJob, current *domain.Stage, log *slog.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPipelinePanic, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	recipes, err := d.engine.PullRecipes(ctx, qj.filter.Tag)
	if err != nil {
		return fmt.Errorf("pull recipes: %w", err)
	}
	log.Debug("pulled recipes", "stage", *current, "recipe_count", len(recipes))

	if err := d.advance(ctx, qj.id, current, domain.StageBuildingMatrix); err != nil {
		return err
	}

	matrix, err := d.engine.BuildCoOccurrence(ctx, recipes, qj.filter.Ingredients)
	if err != nil {
		return fmt.Errorf("build co-occurrence matrix: %w", err)
	}
	log.Info("built co-occurrence matrix", "stage", *current, "size", matrix.Size())

	if err := d.advance(ctx, qj.id, current, domain.StageEmbeddingRelation); err != nil {
		return err
	}

	return d.advance(ctx, qj.id, current, domain.StageComplete)
}

// advance records next as the job's stage once ctx is still live.
func (d *Dispatcher) advance(ctx context.Context, id domain.JobID, current *domain.Stage, next domain.Stage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.store.SetStatus(ctx, id, next, ""); err != nil {
		return fmt.Errorf("set status %s: %w", next, err)
	}

	from := *current
	*current = next
	d.emit(ctx, events.NewStageChangedEvent(id, from, next, ""))
	return nil
}

// fail records cause as the job's failure. The write is detached from ctx
// so a cancelled or expired job can still be marked. If the write fails the
// job keeps its last committed stage.
func (d *Dispatcher) fail(ctx context.Context, id domain.JobID, current domain.Stage, cause error, log *slog.Logger) {
	detail := cause.Error()

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()

	if err := d.store.SetStatus(writeCtx, id, domain.StageFailed, detail); err != nil {
		log.Error("failed to record job failure",
			"stage", current,
			"cause", cause,
			"error", err)
		return
	}

	log.Error("job failed", "stage", current, "error", cause)
	d.emit(writeCtx, events.NewStageChangedEvent(id, current, domain.StageFailed, detail))
}
