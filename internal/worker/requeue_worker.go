package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/repository"
)

// requeueBatch caps how many pending tasks a single poll moves to the queue.
const requeueBatch = 500

// Requeuer puts a persisted pending task back on the queue.
// Satisfied by *service.TaskService.
type Requeuer interface {
	Requeue(ctx context.Context, t *domain.Task) error
}

// RequeueWorker recovers tasks the in-memory queue lost.
//
// On start it resets everything the previous process left queued or started
// to pending, then it polls for pending tasks and re-queues them. The
// statuses are persisted, so nothing in flight is lost across restarts.
type RequeueWorker struct {
	repo     repository.TaskRepository
	svc      Requeuer
	interval time.Duration
	logger   *zap.Logger
}

func NewRequeueWorker(
	repo repository.TaskRepository,
	svc Requeuer,
	interval time.Duration,
	logger *zap.Logger,
) *RequeueWorker {
	return &RequeueWorker{repo: repo, svc: svc, interval: interval, logger: logger}
}

// Recover resets in-flight tasks and re-queues what fits. Call it before
// the HTTP server accepts traffic.
func (rw *RequeueWorker) Recover(ctx context.Context) error {
	n, err := rw.repo.ResetInFlight(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		rw.logger.Info("reset unacknowledged tasks", zap.Int("count", n))
	}
	rw.poll(ctx)
	return nil
}

// Run ticks every interval and re-queues pending tasks.
// Stops cleanly when ctx is cancelled.
func (rw *RequeueWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	rw.logger.Info("requeue worker started", zap.Duration("interval", rw.interval))

	for {
		select {
		case <-ctx.Done():
			rw.logger.Info("requeue worker stopping")
			return
		case <-ticker.C:
			rw.poll(ctx)
		}
	}
}

func (rw *RequeueWorker) poll(ctx context.Context) {
	pending, err := rw.repo.FindPending(ctx, requeueBatch)
	if err != nil {
		rw.logger.Error("requeue poll error", zap.Error(err))
		return
	}

	queued := 0
	for _, t := range pending {
		if err := rw.svc.Requeue(ctx, t); err != nil {
			rw.logger.Warn("could not re-queue task",
				zap.String("task_id", t.ID), zap.Error(err))
			if errors.Is(err, domain.ErrQueueFull) {
				// The rest waits for the next tick.
				break
			}
			continue
		}
		queued++
	}

	if queued > 0 {
		rw.logger.Info("re-queued pending tasks", zap.Int("count", queued))
	}
}
