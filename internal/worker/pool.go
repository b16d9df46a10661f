package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/config"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/ratelimiter"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/tasks"
)

// MetricHooks carries the metric callback functions injected by main.
// Using a struct keeps the pool constructor signature clean.
type MetricHooks struct {
	OnSuccess func(task string, elapsed time.Duration)
	OnFailure func(task string, elapsed time.Duration)
	OnDepth   func(depth int)
}

func (h MetricHooks) withDefaults() MetricHooks {
	if h.OnSuccess == nil {
		h.OnSuccess = func(string, time.Duration) {}
	}
	if h.OnFailure == nil {
		h.OnFailure = func(string, time.Duration) {}
	}
	if h.OnDepth == nil {
		h.OnDepth = func(int) {}
	}
	return h
}

// Pool manages the lifecycle of all workers.
// All workers share the same queue; each holds at most one task at a time.
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup
}

// NewPool creates cfg.WorkerConcurrency identical workers.
func NewPool(
	cfg *config.Server,
	q *queue.TaskQueue,
	repo repository.TaskRepository,
	registry *tasks.Registry,
	limiter *ratelimiter.TaskLimiters,
	logger *zap.Logger,
	hooks MetricHooks,
) *Pool {
	limits := Limits{Soft: cfg.TaskSoftTimeLimit, Hard: cfg.TaskTimeLimit}
	workers := make([]*Worker, cfg.WorkerConcurrency)

	for i := range workers {
		workers[i] = NewWorker(
			i, q, repo, registry, limiter, limits,
			logger.With(zap.Int("worker_id", i)),
			hooks,
		)
	}

	return &Pool{workers: workers}
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return len(p.workers) }

// Start launches all workers as goroutines.
// The provided ctx is forwarded to every worker; cancelling it
// triggers a graceful shutdown of the entire pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() {
	p.wg.Wait()
}
