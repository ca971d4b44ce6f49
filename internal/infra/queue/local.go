package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/http/middleware"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

var (
	ErrQueueFull   = errors.New("lead queue is full")
	ErrQueueClosed = errors.New("lead queue is closed")
)

// LocalQueue is the in-process side channel used when no broker is
// configured. Jobs are lost on crash; failures are logged and counted.
type LocalQueue struct {
	jobs   chan entity.Submission
	handle Handler

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalQueue(size int, handle Handler) *LocalQueue {
	if size <= 0 {
		size = 100
	}
	return &LocalQueue{jobs: make(chan entity.Submission, size), handle: handle}
}

// Enqueue never blocks: a full buffer is an error for the caller to log.
func (q *LocalQueue) Enqueue(_ context.Context, sub entity.Submission) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- sub:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start runs workers goroutines. ctx is handed to each job; cancelling it does
// not stop the workers, Close does.
func (q *LocalQueue) Start(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	log := logger.Named("lead-queue")

	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for sub := range q.jobs {
				if err := q.handle(context.WithoutCancel(ctx), sub); err != nil {
					log.Error().Err(err).Str("submission_id", sub.ID).Str("email", sub.Email).Msg("lead store write failed")
					middleware.RecordIntegrationError("lead_store")
				}
			}
		}()
	}
}

// Close stops intake and waits for queued jobs to drain.
func (q *LocalQueue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
}
