package domain

import (
	"encoding/json"
	"time"
)

// TaskStatus tracks the lifecycle of a queued task.
type TaskStatus string

const (
	StatusPending TaskStatus = "pending"
	StatusQueued  TaskStatus = "queued"
	StatusStarted TaskStatus = "started"
	StatusSuccess TaskStatus = "success"
	StatusFailure TaskStatus = "failure"
)

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// TaskNameAdd is the only task the demo backend ships with.
const TaskNameAdd = "add"

// Task is the persisted record of one unit of background work.
type Task struct {
	ID         string          `json:"task_id"`
	Name       string          `json:"name"`
	Args       json.RawMessage `json:"args"`
	Status     TaskStatus      `json:"status"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      *string         `json:"error,omitempty"`
	Retries    int             `json:"retries"`
	CreatedAt  time.Time       `json:"created_at"`
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
}

// AddArgs are the arguments of the add task.
type AddArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// AddResponse is what GET /api/common/add/ answers on success.
type AddResponse struct {
	TaskID string `json:"task_id"`
	Queued bool   `json:"queued"`
}
