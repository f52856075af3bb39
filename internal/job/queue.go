package job

import (
	"github.com/phrazzld/recipe-api/internal/domain"
)

// queuedJob is an accepted job waiting for a worker.
type queuedJob struct {
	id     domain.JobID
	filter domain.Filter
}

// jobQueue is a buffered queue with explicit slot reservation. A slot is
// taken before the job is created and given back when a worker dequeues it,
// so push never blocks.
type jobQueue struct {
	jobs  chan queuedJob
	slots chan struct{}
}

func newJobQueue(size int) *jobQueue {
	return &jobQueue{
		jobs:  make(chan queuedJob, size),
		slots: make(chan struct{}, size),
	}
}

// tryReserve takes a slot without blocking. It reports false when the queue is full.
func (q *jobQueue) tryReserve() bool {
	select {
	case q.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// release gives back a slot taken by tryReserve.
func (q *jobQueue) release() {
	<-q.slots
}

// push adds a job for which a slot is already reserved.
func (q *jobQueue) push(j queuedJob) {
	q.jobs <- j
}

// close stops the queue; workers drain what is left.
func (q *jobQueue) close() {
	close(q.jobs)
}

func (q *jobQueue) channel() <-chan queuedJob {
	return q.jobs
}

func (q *jobQueue) capacity() int {
	return cap(q.slots)
}

// pending returns the number of reserved slots.
func (q *jobQueue) pending() int {
	return len(q.slots)
}
