package ratelimiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// TaskLimiters holds one token bucket limiter per task name, created lazily
// the first time a name is seen. Burst equals the rate so no capacity is
// saved up beyond the configured per-second maximum.
type TaskLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// New creates a TaskLimiters with ratePerSec tokens per second per task name.
// A non-positive ratePerSec disables limiting.
func New(ratePerSec int) *TaskLimiters {
	limit := rate.Limit(ratePerSec)
	if ratePerSec <= 0 {
		limit = rate.Inf
	}
	return &TaskLimiters{
		limit:    limit,
		burst:    max(ratePerSec, 1),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the task's limiter grants a token.
// Called by each worker immediately before executing a task.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (tl *TaskLimiters) Wait(ctx context.Context, name string) error {
	return tl.limiter(name).Wait(ctx)
}

func (tl *TaskLimiters) limiter(name string) *rate.Limiter {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	l, ok := tl.limiters[name]
	if !ok {
		l = rate.NewLimiter(tl.limit, tl.burst)
		tl.limiters[name] = l
	}
	return l
}
