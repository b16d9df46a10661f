package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/api"
	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/service"
	"github.com/ricirt/taskboard/internal/tasks"
)

type fixture struct {
	h    http.Handler
	repo *repository.MockTaskRepository
	q    *queue.TaskQueue
}

func newFixture(queueSize int) *fixture {
	repo := repository.NewMockTaskRepository()
	q := queue.New(queueSize)
	svc := service.NewTaskService(tasks.Default(), repo, q, zap.NewNop(), nil)
	return &fixture{
		h:    api.NewRouter(svc, prometheus.NewRegistry(), zap.NewNop()),
		repo: repo,
		q:    q,
	}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	f := newFixture(10)

	for _, path := range []string{"/api/health/", "/api/health"} {
		rec := f.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String(), path)
		assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  domain.AddArgs
	}{
		{"explicit", "?x=4&y=5", domain.AddArgs{X: 4, Y: 5}},
		{"defaults", "", domain.AddArgs{X: 1, Y: 2}},
		{"only x", "?x=10", domain.AddArgs{X: 10, Y: 2}},
		{"negative", "?x=-3&y=3", domain.AddArgs{X: -3, Y: 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(10)

			rec := f.get("/api/common/add/" + tc.query)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp domain.AddResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.True(t, resp.Queued)
			require.NotEmpty(t, resp.TaskID)

			stored, err := f.repo.GetByID(context.Background(), resp.TaskID)
			require.NoError(t, err)
			var args domain.AddArgs
			require.NoError(t, json.Unmarshal(stored.Args, &args))
			assert.Equal(t, tc.want, args)
			assert.Equal(t, 1, f.q.Depth())
		})
	}
}

func TestAdd_InvalidParam(t *testing.T) {
	f := newFixture(10)

	for _, query := range []string{"?x=a", "?x=1&y=2.5", "?y="} {
		rec := f.get("/api/common/add/" + query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["error"], query)
	}
	assert.Equal(t, 0, f.q.Depth())
}

func TestAdd_QueueFull(t *testing.T) {
	f := newFixture(1)

	require.Equal(t, http.StatusOK, f.get("/api/common/add/").Code)
	rec := f.get("/api/common/add/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetTask(t *testing.T) {
	f := newFixture(10)

	var resp domain.AddResponse
	require.NoError(t, json.Unmarshal(f.get("/api/common/add/?x=1&y=2").Body.Bytes(), &resp))

	rec := f.get("/api/common/tasks/" + resp.TaskID + "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var task domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, resp.TaskID, task.ID)
	assert.Equal(t, domain.TaskNameAdd, task.Name)
	assert.Equal(t, domain.StatusQueued, task.Status)
}

func TestGetTask_NotFound(t *testing.T) {
	f := newFixture(10)
	rec := f.get("/api/common/tasks/not-a-uuid/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoints(t *testing.T) {
	f := newFixture(10)
	f.get("/api/common/add/")

	rec := f.get("/api/metrics/")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats service.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.QueueDepth)
	assert.Equal(t, 1, stats.Tasks[domain.StatusQueued])

	assert.Equal(t, http.StatusOK, f.get("/metrics").Code)
}
