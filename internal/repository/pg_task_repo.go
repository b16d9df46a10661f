package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ricirt/taskboard/internal/domain"
)

const taskColumns = `id, name, args, status, result, error_message, retries,
		created_at, started_at, finished_at`

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPgTaskRepository returns a TaskRepository backed by PostgreSQL.
func NewPgTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgTaskRepository{pool: pool}
}

func (r *pgTaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO task_results (id, name, args, status, retries, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.Name, []byte(t.Args), t.Status, t.Retries, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *pgTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM task_results WHERE id = $1`, id)

	t, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return t, err
}

func (r *pgTaskRepository) UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE task_results SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *pgTaskRepository) MarkStarted(ctx context.Context, id string, startedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE task_results
		SET status = 'started', started_at = $1
		WHERE id = $2`, startedAt, id)
	return err
}

func (r *pgTaskRepository) MarkSuccess(ctx context.Context, id string, result json.RawMessage, finishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE task_results
		SET status = 'success', result = $1, error_message = NULL, finished_at = $2
		WHERE id = $3`, []byte(result), finishedAt, id)
	return err
}

func (r *pgTaskRepository) MarkFailure(ctx context.Context, id, errMsg string, finishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE task_results
		SET status = 'failure', error_message = $1, finished_at = $2
		WHERE id = $3`, errMsg, finishedAt, id)
	return err
}

func (r *pgTaskRepository) ResetInFlight(ctx context.Context) (int, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE task_results
		SET status     = 'pending',
		    retries    = retries + CASE WHEN status = 'started' THEN 1 ELSE 0 END,
		    started_at = NULL
		WHERE status IN ('queued', 'started')`)
	if err != nil {
		return 0, fmt.Errorf("reset in-flight tasks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *pgTaskRepository) FindPending(ctx context.Context, limit int) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM task_results
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("find pending tasks: %w", err)
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *pgTaskRepository) CountByStatus(ctx context.Context) (map[domain.TaskStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM task_results GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TaskStatus]int)
	for rows.Next() {
		var (
			status domain.TaskStatus
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// ---- helpers ----

// scanTask reads a single task row from any pgx row type.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t            domain.Task
		args, result []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &args, &t.Status, &result, &t.Error, &t.Retries,
		&t.CreatedAt, &t.StartedAt, &t.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Args = args
	if result != nil {
		t.Result = result
	}
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var result []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}
