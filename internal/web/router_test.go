package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/apiclient"
	"github.com/ricirt/taskboard/internal/dashboard"
	"github.com/ricirt/taskboard/internal/web"
)

type stubAPI struct {
	taskID string
	addErr error
}

func (s *stubAPI) Health(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"status":"ok"}`), nil
}

func (s *stubAPI) Add(context.Context, int, int) (*apiclient.AddResponse, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &apiclient.AddResponse{TaskID: s.taskID}, nil
}

func newRouter(t *testing.T, api *stubAPI) (http.Handler, *dashboard.Dashboard) {
	t.Helper()
	d := dashboard.New(api, 1, 2, zap.NewNop(), dashboard.Hooks{})
	t.Cleanup(d.Close)
	return web.NewRouter(d, 1, 2, prometheus.NewRegistry(), zap.NewNop()), d
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestIndex_BeforeActivation(t *testing.T) {
	h, _ := newRouter(t, &stubAPI{})

	resp, body := get(t, h, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Health: loading...")
	assert.Contains(t, body, "Trigger add(1,2)")
	assert.NotContains(t, body, "Task queued:")
}

func TestIndex_AfterHealthCheck(t *testing.T) {
	h, d := newRouter(t, &stubAPI{})
	<-d.Activate()

	_, body := get(t, h, "/")
	// html/template escapes the quotes of the JSON text.
	assert.Contains(t, body, "Health: {&#34;status&#34;:&#34;ok&#34;}")
}

func TestTrigger_RedirectsAndShowsTaskID(t *testing.T) {
	h, _ := newRouter(t, &stubAPI{taskID: "abc123"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trigger", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	_, body := get(t, h, "/")
	assert.Contains(t, body, "Task queued: abc123")
}

func TestTrigger_FailureShownOnPage(t *testing.T) {
	h, _ := newRouter(t, &stubAPI{addErr: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trigger", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	_, body := get(t, h, "/")
	assert.Contains(t, body, "Trigger failed:")
	assert.NotContains(t, body, "Task queued:")
}

func TestState(t *testing.T) {
	h, d := newRouter(t, &stubAPI{taskID: "abc123"})
	_, err := d.Trigger(context.Background())
	require.NoError(t, err)

	resp, body := get(t, h, "/state")
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var view dashboard.View
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	assert.Equal(t, dashboard.View{Health: "loading...", TaskID: "abc123"}, view)
}

func TestHealthzAndMetrics(t *testing.T) {
	h, _ := newRouter(t, &stubAPI{})

	resp, body := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, _ = get(t, h, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
