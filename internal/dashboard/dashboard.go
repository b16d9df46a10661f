// Package dashboard holds the view state of the task dashboard and the two
// flows that mutate it: the one-shot health check and the task trigger.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/apiclient"
)

const (
	// InitialHealth is shown until the health check resolves.
	InitialHealth = "loading..."
	// MissingTaskID replaces a task id the backend did not send.
	MissingTaskID = "error"
)

// ErrClosed is returned by Trigger once Close has been called.
var ErrClosed = errors.New("dashboard is closed")

// API is the part of the backend the dashboard calls.
// Satisfied by *apiclient.Client.
type API interface {
	Health(ctx context.Context) (json.RawMessage, error)
	Add(ctx context.Context, x, y int) (*apiclient.AddResponse, error)
}

// View is a snapshot of the dashboard state.
type View struct {
	Health string `json:"health"`
	TaskID string `json:"task_id"`
	// TriggerError is set when the last trigger failed before a body could
	// be parsed as JSON; TaskID keeps its previous value in that case.
	TriggerError string `json:"trigger_error,omitempty"`
}

// Hooks receive one outcome label per resolved request. Both are optional.
type Hooks struct {
	OnHealth  func(outcome string)
	OnTrigger func(outcome string)
}

// Dashboard owns the view state. All methods are safe for concurrent use.
type Dashboard struct {
	api    API
	x, y   int
	logger *zap.Logger
	hooks  Hooks

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	activateOnce sync.Once
	healthDone   chan struct{}

	mu     sync.Mutex
	view   View
	closed bool
	// issued is the sequence number handed to the latest trigger,
	// applied the one whose result the view currently shows.
	issued  uint64
	applied uint64
}

// New builds a dashboard whose trigger queues add(x, y).
func New(api API, x, y int, logger *zap.Logger, hooks Hooks) *Dashboard {
	if hooks.OnHealth == nil {
		hooks.OnHealth = func(string) {}
	}
	if hooks.OnTrigger == nil {
		hooks.OnTrigger = func(string) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dashboard{
		api:        api,
		x:          x,
		y:          y,
		logger:     logger,
		hooks:      hooks,
		ctx:        ctx,
		cancel:     cancel,
		healthDone: make(chan struct{}),
		view:       View{Health: InitialHealth},
	}
}

// View returns a copy of the current state.
func (d *Dashboard) View() View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.view
}

// Close cancels the in-flight health check and waits for it to return.
// Results that resolve after Close are discarded. Close is idempotent.
func (d *Dashboard) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
}
