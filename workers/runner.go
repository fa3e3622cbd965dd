// Package workers runs the site's background effects: outbound webmention
// fan-out, syndication, image derivation and operator mail. The queue is in
// memory; tasks survive the response returning to the client but not a
// process restart, and are never retried.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/group"
	"github.com/tfnch/barker/metrics"
)

const (
	queueSize   = 256
	workerCount = 4
	taskTimeout = 60 * time.Second
)

type task struct {
	name string
	fn   func(context.Context) error
}

// A Runner owns the task queue and the worker pool draining it.
type Runner struct {
	tasks   chan task
	logger  *slog.Logger
	timeout time.Duration
}

// NewRunner returns a Runner with the default queue and pool sizes.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		tasks:   make(chan task, queueSize),
		logger:  logger,
		timeout: taskTimeout,
	}
}

// Submit enqueues fn without blocking the caller. If the queue is full the
// task is shed and logged; there is no backpressure to the request path.
func (r *Runner) Submit(name string, fn func(context.Context) error) {
	select {
	case r.tasks <- task{name: name, fn: fn}:
		metrics.TasksQueued.Inc()
	default:
		r.logger.Warn("task queue full, dropping task", "task", name)
		metrics.TasksDropped.Inc()
	}
}

// Run drains the queue with a fixed pool of workers until the context is
// canceled.
func (r *Runner) Run(ctx context.Context) error {
	g := group.New(ctx)
	for i := 0; i < workerCount; i++ {
		g.Add(r.work)
	}
	return g.Wait()
}

func (r *Runner) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-r.tasks:
			metrics.TasksQueued.Dec()
			r.execute(ctx, t)
		}
	}
}

// execute runs one task with a deadline, converting panics into errors so a
// misbehaving task cannot take down its worker.
func (r *Runner) execute(ctx context.Context, t task) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("panic: %v", v)
			}
		}()
		return t.fn(ctx)
	}()

	if err != nil {
		r.logger.Error("task failed", "task", t.name, "duration", time.Since(start), "error", err)
		return
	}
	r.logger.Debug("task done", "task", t.name, "duration", time.Since(start))
}
