package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/api/handler"
	apimw "github.com/ricirt/taskboard/internal/api/middleware"
	"github.com/ricirt/taskboard/internal/service"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
//
// Paths carry a trailing slash; the slash-less form is registered as well
// so clients that drop it are not redirected.
func NewRouter(
	svc *service.TaskService,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)         // recover panics, return 500
	r.Use(chimw.RealIP)            // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)     // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))
	r.Use(apimw.CORS)

	// --- handler instances ---
	th := handler.NewTaskHandler(svc, logger)
	mh := handler.NewMetricsHandler(svc)
	hh := handler.NewHealthHandler()

	// --- routes ---
	// Raw Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		get(r, "/health", hh.Health)
		get(r, "/metrics", mh.GetMetrics)

		r.Route("/common", func(r chi.Router) {
			get(r, "/add", th.Add)
			get(r, "/tasks/{id}", th.GetTask)
		})
	})

	return r
}

func get(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Get(pattern, h)
	r.Get(pattern+"/", h)
}
