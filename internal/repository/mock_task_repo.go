package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/ricirt/taskboard/internal/domain"
)

// MockTaskRepository is a hand-written, in-memory implementation of
// TaskRepository used in unit tests. No mock-generation library needed.
type MockTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task

	// Optional error overrides, set in tests to simulate failure paths.
	CreateErr  error
	GetByIDErr error
}

func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{tasks: make(map[string]*domain.Task)}
}

func (m *MockTaskRepository) Create(_ context.Context, t *domain.Task) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *t
	m.tasks[t.ID] = &clone
	return nil
}

func (m *MockTaskRepository) GetByID(_ context.Context, id string) (*domain.Task, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (m *MockTaskRepository) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = status
	}
	return nil
}

func (m *MockTaskRepository) MarkStarted(_ context.Context, id string, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = domain.StatusStarted
		t.StartedAt = &startedAt
	}
	return nil
}

func (m *MockTaskRepository) MarkSuccess(_ context.Context, id string, result json.RawMessage, finishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = domain.StatusSuccess
		t.Result = result
		t.Error = nil
		t.FinishedAt = &finishedAt
	}
	return nil
}

func (m *MockTaskRepository) MarkFailure(_ context.Context, id, errMsg string, finishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		t.Status = domain.StatusFailure
		t.Error = &errMsg
		t.FinishedAt = &finishedAt
	}
	return nil
}

func (m *MockTaskRepository) ResetInFlight(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		switch t.Status {
		case domain.StatusStarted:
			t.Retries++
		case domain.StatusQueued:
		default:
			continue
		}
		t.Status = domain.StatusPending
		t.StartedAt = nil
		n++
	}
	return n, nil
}

func (m *MockTaskRepository) FindPending(_ context.Context, limit int) ([]*domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Task
	for _, t := range m.tasks {
		if t.Status == domain.StatusPending {
			clone := *t
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockTaskRepository) CountByStatus(_ context.Context) (map[domain.TaskStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[domain.TaskStatus]int)
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	return counts, nil
}
