// Package parallel runs independent searches concurrently. Each search is
// itself single-threaded; the pool only bounds how many run at once and
// propagates the first failure to the others through the shared context.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrPoolShutdown is returned when trying to run tasks on a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

// WorkerPool bounds the number of tasks running at once.
type WorkerPool struct {
	maxWorkers int
	shutdown   atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	return &WorkerPool{maxWorkers: maxWorkers}
}

// MaxWorkers returns the concurrency bound.
func (wp *WorkerPool) MaxWorkers() int {
	return wp.maxWorkers
}

// Run executes tasks with at most MaxWorkers running at once and waits for
// all of them. The first task error cancels the context passed to the
// others and is returned.
func (wp *WorkerPool) Run(ctx context.Context, tasks ...Task) error {
	if wp.shutdown.Load() {
		return ErrPoolShutdown
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.maxWorkers)
	for _, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return task(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Shutdown stops the pool from accepting further runs. Runs already in
// progress complete normally.
func (wp *WorkerPool) Shutdown() {
	wp.shutdown.Store(true)
}
