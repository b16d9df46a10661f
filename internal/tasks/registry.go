package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ricirt/taskboard/internal/domain"
)

// Handler executes one task. args is the JSON stored with the task record;
// the returned JSON is stored as its result.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)

// Registry maps task names to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Default returns a registry with every built-in task registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(domain.TaskNameAdd, Add)
	return r
}

// Register binds name to h, replacing any previous handler.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Lookup returns the handler for name or ErrUnknownTask.
func (r *Registry) Lookup(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTask, name)
	}
	return h, nil
}

// Names returns the registered task names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
