package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/ricirt/taskboard/internal/api/middleware"
	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/service"
)

// Defaults for the add endpoint when x or y is absent from the query.
const (
	DefaultX = 1
	DefaultY = 2
)

// TaskHandler handles the task endpoints under /api/common/.
type TaskHandler struct {
	svc    *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

// Add handles GET /api/common/add/?x=<int>&y=<int>
//
// Missing parameters fall back to DefaultX and DefaultY; a parameter that is
// present but not an integer answers 400.
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, err := intParam(q, "x", DefaultX)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	y, err := intParam(q, "y", DefaultY)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := h.svc.Add(r.Context(), x, y)
	if err != nil {
		h.logger.Warn("queue add task failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, domain.AddResponse{TaskID: t.ID, Queued: true})
}

// GetTask handles GET /api/common/tasks/{id}/
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func intParam(q url.Values, key string, defaultVal int) (int, error) {
	vs, ok := q[key]
	if !ok || len(vs) == 0 {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(vs[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid integer for %s: %q", key, vs[0])
	}
	return n, nil
}
