package job

import (
	"context"
	"sync"
	"time"

	"document-ingest/internal/domain"
)

// Runner executes one processing attempt for a record.
type Runner interface {
	Perform(ctx context.Context, recordID string, attempt int) error
}

type task struct {
	recordID string
	attempt  int
}

// WorkerPool is an in-process scheduler: a bounded queue of record IDs
// consumed by a fixed set of workers. Backoff delays are timer-based
// re-enqueues, never busy waits. Each record's runs are independent units of
// work; the processor's status guard covers queue redelivery.
type WorkerPool struct {
	runner  Runner
	workers int
	queue   chan task
	logger  domain.Logger

	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

// NewWorkerPool creates a worker pool with the given concurrency and queue
// capacity. SetRunner must be called before Start.
func NewWorkerPool(workers int, queueSize int, logger domain.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	return &WorkerPool{
		workers: workers,
		queue:   make(chan task, queueSize),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// SetRunner binds the processor the workers execute. Split from the
// constructor because the processor itself schedules retries through the
// pool.
func (p *WorkerPool) SetRunner(runner Runner) {
	p.runner = runner
}

// Start launches the workers.
func (p *WorkerPool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Info("worker pool started", "workers", p.workers)
}

// Stop shuts the pool down. In-flight runs finish; queued and timer-pending
// tasks are dropped.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		p.logger.Info("worker pool stopped")
	})
}

// Enqueue schedules a first processing attempt for the record.
func (p *WorkerPool) Enqueue(recordID string) {
	p.submit(task{recordID: recordID, attempt: 1})
}

// EnqueueAfter schedules a re-attempt for the record after the given delay.
func (p *WorkerPool) EnqueueAfter(recordID string, attempt int, delay time.Duration) {
	time.AfterFunc(delay, func() {
		p.submit(task{recordID: recordID, attempt: attempt})
	})
}

func (p *WorkerPool) submit(t task) {
	select {
	case <-p.done:
		p.logger.Warn("scheduler stopped, dropping task", "document_id", t.recordID)
	case p.queue <- t:
	}
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case t := <-p.queue:
			if err := p.runner.Perform(context.Background(), t.recordID, t.attempt); err != nil {
				p.logger.Error("processing attempt failed", err,
					"worker_id", id, "document_id", t.recordID, "attempt", t.attempt)
			}
		}
	}
}
