package domain

import "errors"

// Sentinel errors used throughout the application.
// Handlers translate these to HTTP status codes via a single mapError function.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnknownTask       = errors.New("unknown task name")
	ErrInvalidArgs       = errors.New("invalid task arguments")
	ErrQueueFull         = errors.New("queue is at capacity, try again later")
	ErrTimeLimitExceeded = errors.New("time limit exceeded")
)
