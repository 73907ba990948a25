// Package worker provides goroutine pool management.
//
// Naked goroutines are forbidden outside cmd/server; all concurrency goes
// through a Pool with context propagation.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"schema-warden.io/warden/internal/pkg/logger"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("worker pool is closed")

// DefaultPoolSize is used when no size is configured.
const DefaultPoolSize = 50

// Task is a context-aware task function. Tasks receive the submitter's
// context and must check ctx.Done() at blocking points. Once submitted, a
// task is always invoked, even if the context expired while it was queued,
// so callers waiting on task completion never hang.
type Task func(ctx context.Context)

// Pool wraps ants.Pool with context-aware submission. The service runs one
// pool, for the per-subgraph rule evaluations.
type Pool struct {
	pool *ants.Pool
	name string
}

// NewPool creates a named worker pool. A non-positive size falls back to
// DefaultPoolSize.
func NewPool(name string, size int) (*Pool, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}

	panicHandler := func(p interface{}) {
		logger.Error("Worker panic recovered",
			zap.String("pool", name),
			zap.Any("panic", p),
			zap.Stack("stack"),
		)
	}

	antsPool, err := ants.NewPool(size,
		ants.WithPanicHandler(panicHandler),
		ants.WithNonblocking(false),
		ants.WithExpiryDuration(10*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Pool{pool: antsPool, name: name}, nil
}

// Submit submits a context-aware task. If the context is already cancelled
// the task is not submitted and ctx.Err() is returned; once submitted the
// task always runs (see Task).
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	return p.pool.Submit(func() {
		task(ctx)
	})
}

// Shutdown gracefully shuts down the pool, waiting for running tasks.
func (p *Pool) Shutdown() {
	const shutdownTimeout = 30 * time.Second
	if err := p.pool.ReleaseTimeout(shutdownTimeout); err != nil {
		logger.Warn("Worker pool shutdown timeout",
			zap.String("pool", p.name),
			zap.Error(err),
		)
	}
}

// Metrics returns pool metrics for the readiness endpoint.
func (p *Pool) Metrics() map[string]int {
	return map[string]int{
		"running": p.pool.Running(),
		"free":    p.pool.Free(),
		"cap":     p.pool.Cap(),
	}
}
