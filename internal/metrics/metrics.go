package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all Prometheus instruments used by the backend.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	TasksEnqueued  *prometheus.CounterVec
	TasksSucceeded *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TaskDuration   *prometheus.HistogramVec
	QueueDepth     prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TasksEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasks_enqueued_total",
			Help: "Total number of tasks accepted onto the queue.",
		}, []string{"task"}),

		TasksSucceeded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasks_succeeded_total",
			Help: "Total number of tasks that finished successfully.",
		}, []string{"task"}),

		TasksFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tasks_failed_total",
			Help: "Total number of tasks that finished with an error or hit the time limit.",
		}, []string{"task"}),

		TaskDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "task_execution_seconds",
			Help:    "Execution time from worker pickup to result.",
			Buckets: prometheus.DefBuckets,
		}, []string{"task"}),

		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "task_queue_depth",
			Help: "Current number of tasks waiting in the queue.",
		}),
	}

	reg.MustRegister(
		m.TasksEnqueued,
		m.TasksSucceeded,
		m.TasksFailed,
		m.TaskDuration,
		m.QueueDepth,
	)

	return m
}

// WorkerHooks returns the metric callback functions expected by worker.MetricHooks.
// Centralises the prometheus observation calls so worker.go stays import-free.
func (m *Metrics) WorkerHooks() (
	onSuccess func(task string, elapsed time.Duration),
	onFailure func(task string, elapsed time.Duration),
) {
	onSuccess = func(task string, elapsed time.Duration) {
		m.TasksSucceeded.WithLabelValues(task).Inc()
		m.TaskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	}
	onFailure = func(task string, elapsed time.Duration) {
		m.TasksFailed.WithLabelValues(task).Inc()
		m.TaskDuration.WithLabelValues(task).Observe(elapsed.Seconds())
	}
	return
}

// OnEnqueued is handed to the task service.
func (m *Metrics) OnEnqueued(task string) {
	m.TasksEnqueued.WithLabelValues(task).Inc()
}

// ObserveQueueDepth refreshes the queue depth gauge.
func (m *Metrics) ObserveQueueDepth(depth int) {
	m.QueueDepth.Set(float64(depth))
}

// Dashboard groups the instruments of the dashboard process.
type Dashboard struct {
	HealthChecks *prometheus.CounterVec
	Triggers     *prometheus.CounterVec
}

// NewDashboard registers the dashboard instruments with reg.
func NewDashboard(reg prometheus.Registerer) *Dashboard {
	d := &Dashboard{
		HealthChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_health_checks_total",
			Help: "Health checks issued by the dashboard, by outcome.",
		}, []string{"outcome"}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_triggers_total",
			Help: "Task triggers issued by the dashboard, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(d.HealthChecks, d.Triggers)
	return d
}

// ObserveHealth counts one health check outcome ("ok" or "error").
func (d *Dashboard) ObserveHealth(outcome string) {
	d.HealthChecks.WithLabelValues(outcome).Inc()
}

// ObserveTrigger counts one trigger outcome ("queued", "missing_id" or "error").
func (d *Dashboard) ObserveTrigger(outcome string) {
	d.Triggers.WithLabelValues(outcome).Inc()
}
