package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/ratelimiter"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/tasks"
)

// Limits bounds the execution of a single task.
type Limits struct {
	// Soft is the deadline of the context handed to the task handler.
	Soft time.Duration
	// Hard is how long the worker waits for the handler before recording
	// ErrTimeLimitExceeded and moving on.
	Hard time.Duration
}

// Worker is a single goroutine that continuously pulls items from the task
// queue, applies per-task rate limiting, runs the registered handler, and
// records the outcome.
//
// Acknowledgement is late: the stored status only leaves "started" once the
// handler has returned, so a crash mid-task leaves the record for the
// requeue worker to pick up on the next boot.
type Worker struct {
	id       int
	q        *queue.TaskQueue
	repo     repository.TaskRepository
	registry *tasks.Registry
	limiter  *ratelimiter.TaskLimiters
	limits   Limits
	logger   *zap.Logger
	hooks    MetricHooks
}

// NewWorker constructs a worker. Nil hooks are replaced by no-ops.
func NewWorker(
	id int,
	q *queue.TaskQueue,
	repo repository.TaskRepository,
	registry *tasks.Registry,
	limiter *ratelimiter.TaskLimiters,
	limits Limits,
	logger *zap.Logger,
	hooks MetricHooks,
) *Worker {
	return &Worker{
		id: id, q: q, repo: repo, registry: registry,
		limiter: limiter, limits: limits, logger: logger,
		hooks: hooks.withDefaults(),
	}
}

// Run blocks until ctx is cancelled, processing one queue item per iteration.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", zap.Int("id", w.id))
	for {
		item, ok := w.q.Dequeue(ctx)
		if !ok {
			w.logger.Info("worker stopping", zap.Int("id", w.id))
			return
		}
		w.hooks.OnDepth(w.q.Depth())
		w.process(ctx, item)
	}
}

func (w *Worker) process(ctx context.Context, item queue.Item) {
	log := w.logger.With(
		zap.String("task_id", item.TaskID),
		zap.String("task", item.Name),
	)

	t, err := w.repo.GetByID(ctx, item.TaskID)
	if err != nil {
		log.Error("failed to fetch task", zap.Error(err))
		return
	}

	// A duplicate delivery of an already finished task; skip silently.
	if t.Status.IsTerminal() {
		log.Debug("task already finished")
		return
	}

	// Block here until the per-task rate limiter grants a token.
	if err := w.limiter.Wait(ctx, t.Name); err != nil {
		// ctx cancelled while waiting: worker is shutting down.
		return
	}

	start := time.Now()
	if err := w.repo.MarkStarted(ctx, t.ID, start.UTC()); err != nil {
		log.Error("failed to mark as started", zap.Error(err))
		return
	}

	result, err := w.execute(ctx, t)
	elapsed := time.Since(start)

	if ctx.Err() != nil && err != nil {
		// Shutdown while the task was running: leave it started, unacknowledged.
		log.Warn("task interrupted by shutdown", zap.Duration("elapsed", elapsed))
		return
	}

	finished := time.Now().UTC()
	if err != nil {
		log.Warn("task failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		if err := w.repo.MarkFailure(ctx, t.ID, err.Error(), finished); err != nil {
			log.Error("failed to mark as failed", zap.Error(err))
		}
		w.hooks.OnFailure(t.Name, elapsed)
		return
	}

	if err := w.repo.MarkSuccess(ctx, t.ID, result, finished); err != nil {
		log.Error("failed to mark as succeeded", zap.Error(err))
		return
	}
	w.hooks.OnSuccess(t.Name, elapsed)
	log.Info("task succeeded", zap.ByteString("result", result), zap.Duration("elapsed", elapsed))
}

type outcome struct {
	result json.RawMessage
	err    error
}

// execute runs the handler in its own goroutine under the soft deadline and
// waits at most the hard limit for it. A handler that ignores its context
// past the hard limit is abandoned; its eventual result is dropped.
func (w *Worker) execute(ctx context.Context, t *domain.Task) (json.RawMessage, error) {
	handler, err := w.registry.Lookup(t.Name)
	if err != nil {
		return nil, err
	}

	softCtx := ctx
	if w.limits.Soft > 0 {
		var cancel context.CancelFunc
		softCtx, cancel = context.WithTimeout(ctx, w.limits.Soft)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("task panicked: %v", r)}
			}
		}()
		res, err := handler(softCtx, t.Args)
		done <- outcome{result: res, err: err}
	}()

	var hard <-chan time.Time
	if w.limits.Hard > 0 {
		timer := time.NewTimer(w.limits.Hard)
		defer timer.Stop()
		hard = timer.C
	}

	select {
	case o := <-done:
		return o.result, o.err
	case <-hard:
		return nil, domain.ErrTimeLimitExceeded
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
