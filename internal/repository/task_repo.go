package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ricirt/taskboard/internal/domain"
)

// TaskRepository defines all persistence operations for task records.
// The pgx implementation is in pg_task_repo.go.
// Tests use a hand-written mock (mock_task_repo.go).
type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	MarkStarted(ctx context.Context, id string, startedAt time.Time) error
	MarkSuccess(ctx context.Context, id string, result json.RawMessage, finishedAt time.Time) error
	MarkFailure(ctx context.Context, id string, errMsg string, finishedAt time.Time) error

	// ResetInFlight moves every task left queued or started back to pending.
	// Called once at boot: the in-memory queue of the previous process is
	// gone and a started task was never acknowledged. Started tasks have
	// their retry counter bumped.
	ResetInFlight(ctx context.Context) (int, error)
	FindPending(ctx context.Context, limit int) ([]*domain.Task, error)
	CountByStatus(ctx context.Context) (map[domain.TaskStatus]int, error)
}
