package async

import (
	"context"
	"sync"
	"time"

	"log/slog"
)

// Handler processes one intake document end to end (validate, write the
// verdict wherever it goes). Errors are logged, never retried here.
type Handler func(ctx context.Context, job Job) error

// ValidationQueue fans intake jobs out to a fixed worker pool with a
// per-document timeout. Enqueue blocks when the buffer is full so a burst of
// intake files applies backpressure to the watcher instead of growing
// unbounded.
type ValidationQueue struct {
	handle  Handler
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ValidationQueue)

func WithWorkers(n int) Option {
	return func(q *ValidationQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ValidationQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *ValidationQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewValidationQueue(handle Handler, logger *slog.Logger, opts ...Option) *ValidationQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ValidationQueue{
		handle:  handle,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ValidationQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.handle(ctx, job)
					cancel()

					if err != nil {
						q.logger.Error("validation failed", "worker_id", workerID, "path", job.Path, "error", err)
					} else {
						q.logger.Info("validated document", "worker_id", workerID, "path", job.Path,
							"wait_ms", time.Since(job.EnqueuedAt).Milliseconds())
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ValidationQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued document", "path", job.Path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

// Shutdown drains in-flight jobs, bounded by ctx.
func (q *ValidationQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
