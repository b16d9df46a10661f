package web

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/ricirt/taskboard/internal/api/middleware"
	"github.com/ricirt/taskboard/internal/dashboard"
)

//go:embed templates/index.html
var templates embed.FS

var indexTmpl = template.Must(template.ParseFS(templates, "templates/index.html"))

// Title is the page heading.
const Title = "Go + PostgreSQL task queue"

type pageData struct {
	Title string
	View  dashboard.View
	X, Y  int
}

// PageHandler renders the dashboard and handles the trigger button.
type PageHandler struct {
	d      *dashboard.Dashboard
	x, y   int
	logger *zap.Logger
}

func NewPageHandler(d *dashboard.Dashboard, x, y int, logger *zap.Logger) *PageHandler {
	return &PageHandler{d: d, x: x, y: y, logger: logger}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTmpl.Execute(w, pageData{Title: Title, View: h.d.View(), X: h.x, Y: h.y})
	if err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

// Trigger handles POST /trigger and redirects back to the page, which then
// shows the new task id or the trigger error.
func (h *PageHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if _, err := h.d.Trigger(r.Context()); err != nil {
		h.logger.Warn("trigger from page failed",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// State handles GET /state
func (h *PageHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.d.View())
}
