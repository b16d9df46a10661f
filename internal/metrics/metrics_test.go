package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ricirt/taskboard/internal/metrics"
)

func TestWorkerHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	onSuccess, onFailure := m.WorkerHooks()
	onSuccess("add", 10*time.Millisecond)
	onSuccess("add", 20*time.Millisecond)
	onFailure("add", time.Second)

	if got := testutil.ToFloat64(m.TasksSucceeded.WithLabelValues("add")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.TasksFailed.WithLabelValues("add")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestQueueDepthAndEnqueued(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.OnEnqueued("add")
	m.ObserveQueueDepth(7)

	if got := testutil.ToFloat64(m.TasksEnqueued.WithLabelValues("add")); got != 1 {
		t.Fatalf("expected 1 enqueued, got %v", got)
	}
	if got := testutil.ToFloat64(m.QueueDepth); got != 7 {
		t.Fatalf("expected depth 7, got %v", got)
	}
}

func TestDashboardCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	d := metrics.NewDashboard(reg)

	d.ObserveHealth("ok")
	d.ObserveTrigger("error")
	d.ObserveTrigger("error")

	if got := testutil.ToFloat64(d.HealthChecks.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 ok health check, got %v", got)
	}
	if got := testutil.ToFloat64(d.Triggers.WithLabelValues("error")); got != 2 {
		t.Fatalf("expected 2 failed triggers, got %v", got)
	}
}
