package eventbus

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("eventbus: worker queue is full")

// Pool runs deferred listener work on a fixed set of goroutines behind a
// bounded queue. When the queue is full Submit fails fast instead of
// blocking the dispatching goroutine.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	logger *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewPool(workers, queueDepth int, logger *zap.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}

	p := &Pool{
		tasks:  make(chan func(), queueDepth),
		logger: logger.Named("eventbus.pool"),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.logger.Info("worker pool started",
		zap.Int("workers", workers),
		zap.Int("queue_depth", queueDepth),
	)

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

func (p *Pool) Submit(task func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrQueueFull
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting work and waits up to grace for queued tasks to
// drain. Tasks still queued after the grace period are abandoned; this is an
// accepted loss at shutdown, not silent: the count is logged.
func (p *Pool) Shutdown(grace time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool drained")
	case <-time.After(grace):
		p.logger.Warn("worker pool shutdown grace expired, abandoning queued tasks",
			zap.Int("abandoned", len(p.tasks)),
		)
	}
}
