package handler

import (
	"net/http"

	"github.com/ricirt/taskboard/internal/service"
)

// MetricsHandler serves a human-readable JSON snapshot of the queue and the
// stored task statuses. Raw Prometheus metrics are served at /metrics.
type MetricsHandler struct {
	svc *service.TaskService
}

func NewMetricsHandler(svc *service.TaskService) *MetricsHandler {
	return &MetricsHandler{svc: svc}
}

// GetMetrics handles GET /api/metrics/
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
