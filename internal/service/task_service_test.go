package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/service"
	"github.com/ricirt/taskboard/internal/tasks"
)

func newService(queueSize int) (*service.TaskService, *repository.MockTaskRepository, *queue.TaskQueue) {
	repo := repository.NewMockTaskRepository()
	q := queue.New(queueSize)
	svc := service.NewTaskService(tasks.Default(), repo, q, zap.NewNop(), nil)
	return svc, repo, q
}

func TestTaskService_Add(t *testing.T) {
	svc, repo, q := newService(10)
	ctx := context.Background()

	task, err := svc.Add(ctx, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID == "" {
		t.Fatal("expected a non-empty ID")
	}
	if task.Status != domain.StatusQueued {
		t.Fatalf("expected status=queued, got %s", task.Status)
	}
	if q.Depth() != 1 {
		t.Fatalf("expected 1 queued item, got %d", q.Depth())
	}

	stored, err := repo.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected stored task: %v", err)
	}
	var args domain.AddArgs
	if err := json.Unmarshal(stored.Args, &args); err != nil {
		t.Fatal(err)
	}
	if args.X != 1 || args.Y != 2 {
		t.Fatalf("unexpected stored args %+v", args)
	}
}

func TestTaskService_Submit_UnknownTask(t *testing.T) {
	svc, _, _ := newService(10)
	_, err := svc.Submit(context.Background(), "mul", nil)
	if !errors.Is(err, domain.ErrUnknownTask) {
		t.Fatalf("expected ErrUnknownTask, got %v", err)
	}
}

func TestTaskService_Submit_QueueFullMarksFailure(t *testing.T) {
	svc, repo, _ := newService(1)
	ctx := context.Background()

	if _, err := svc.Add(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Add(ctx, 2, 2)
	if !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	counts, _ := repo.CountByStatus(ctx)
	if counts[domain.StatusFailure] != 1 || counts[domain.StatusQueued] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
}

func TestTaskService_Submit_PersistError(t *testing.T) {
	svc, repo, q := newService(10)
	repo.CreateErr = errors.New("db down")

	if _, err := svc.Add(context.Background(), 1, 2); err == nil {
		t.Fatal("expected error")
	}
	if q.Depth() != 0 {
		t.Fatal("nothing should be queued when persisting fails")
	}
}

func TestTaskService_GetByID(t *testing.T) {
	svc, _, _ := newService(10)
	ctx := context.Background()

	task, _ := svc.Add(ctx, 1, 2)

	got, err := svc.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != task.ID {
		t.Fatalf("expected id=%s, got %s", task.ID, got.ID)
	}
}

func TestTaskService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := newService(10)

	for _, id := range []string{"does-not-exist", "6b1b7e4e-7c4b-4f8e-9a55-1d7b2f0e6a11"} {
		if _, err := svc.GetByID(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("id %q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestTaskService_Requeue(t *testing.T) {
	svc, repo, q := newService(1)
	ctx := context.Background()

	task := &domain.Task{ID: "t1", Name: domain.TaskNameAdd, Status: domain.StatusPending}
	_ = repo.Create(ctx, task)

	if err := svc.Requeue(ctx, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := repo.GetByID(ctx, "t1")
	if got.Status != domain.StatusQueued {
		t.Fatalf("expected queued, got %s", got.Status)
	}

	// Queue is now full: a second pending task stays pending.
	other := &domain.Task{ID: "t2", Name: domain.TaskNameAdd, Status: domain.StatusPending}
	_ = repo.Create(ctx, other)
	if err := svc.Requeue(ctx, other); !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	got, _ = repo.GetByID(ctx, "t2")
	if got.Status != domain.StatusPending {
		t.Fatalf("expected pending after rejected requeue, got %s", got.Status)
	}
	if q.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", q.Depth())
	}
}

func TestTaskService_Stats(t *testing.T) {
	svc, _, _ := newService(5)
	ctx := context.Background()

	_, _ = svc.Add(ctx, 1, 2)
	_, _ = svc.Add(ctx, 3, 4)

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.QueueDepth != 2 || stats.QueueCapacity != 5 {
		t.Fatalf("unexpected queue stats %+v", stats)
	}
	if stats.Tasks[domain.StatusQueued] != 2 {
		t.Fatalf("expected 2 queued tasks, got %v", stats.Tasks)
	}
}
