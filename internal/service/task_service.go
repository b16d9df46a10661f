package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/tasks"
)

// TaskService coordinates the registry, repository and queue.
// HTTP handlers and workers depend on this service, not on each other.
type TaskService struct {
	registry   *tasks.Registry
	repo       repository.TaskRepository
	q          *queue.TaskQueue
	logger     *zap.Logger
	onEnqueued func(task string)
}

// NewTaskService builds the service. onEnqueued is optional (nil = no-op).
func NewTaskService(
	registry *tasks.Registry,
	repo repository.TaskRepository,
	q *queue.TaskQueue,
	logger *zap.Logger,
	onEnqueued func(task string),
) *TaskService {
	if onEnqueued == nil {
		onEnqueued = func(string) {}
	}
	return &TaskService{registry: registry, repo: repo, q: q, logger: logger, onEnqueued: onEnqueued}
}

// Stats is the snapshot served by the JSON metrics endpoint.
type Stats struct {
	QueueDepth    int                       `json:"queue_depth"`
	QueueCapacity int                       `json:"queue_capacity"`
	Tasks         map[domain.TaskStatus]int `json:"tasks"`
}

// Add queues the add task for x and y.
func (s *TaskService) Add(ctx context.Context, x, y int) (*domain.Task, error) {
	return s.Submit(ctx, domain.TaskNameAdd, domain.AddArgs{X: x, Y: y})
}

// Submit persists a new task record and places it on the queue.
//
// When the queue is full the record is marked failed straight away and
// ErrQueueFull is returned, so a rejected submission never runs later.
func (s *TaskService) Submit(ctx context.Context, name string, args any) (*domain.Task, error) {
	if _, err := s.registry.Lookup(name); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgs, err)
	}

	// The record is stored as queued before it reaches the queue so a fast
	// worker never sees its started status overwritten.
	t := &domain.Task{
		ID:        uuid.New().String(),
		Name:      name,
		Args:      raw,
		Status:    domain.StatusQueued,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("persist task: %w", err)
	}

	if err := s.enqueue(t); err != nil {
		if markErr := s.repo.MarkFailure(ctx, t.ID, err.Error(), time.Now().UTC()); markErr != nil {
			s.logger.Error("failed to mark rejected task", zap.String("task_id", t.ID), zap.Error(markErr))
		}
		return nil, err
	}

	return t, nil
}

func (s *TaskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *TaskService) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	return &Stats{
		QueueDepth:    s.q.Depth(),
		QueueCapacity: s.q.Capacity(),
		Tasks:         counts,
	}, nil
}

// Requeue places an already persisted pending task back on the queue.
// Used by the requeue worker. On ErrQueueFull the task stays pending and
// is picked up by a later pass.
func (s *TaskService) Requeue(ctx context.Context, t *domain.Task) error {
	if err := s.repo.UpdateStatus(ctx, t.ID, domain.StatusQueued); err != nil {
		return fmt.Errorf("mark queued: %w", err)
	}
	if err := s.enqueue(t); err != nil {
		if revertErr := s.repo.UpdateStatus(ctx, t.ID, domain.StatusPending); revertErr != nil {
			s.logger.Error("failed to revert task to pending", zap.String("task_id", t.ID), zap.Error(revertErr))
		}
		return err
	}
	t.Status = domain.StatusQueued
	return nil
}

func (s *TaskService) enqueue(t *domain.Task) error {
	if err := s.q.Enqueue(queue.Item{TaskID: t.ID, Name: t.Name}); err != nil {
		s.logger.Warn("queue full: task not queued",
			zap.String("task_id", t.ID), zap.Error(err))
		return err
	}
	s.onEnqueued(t.Name)
	return nil
}
