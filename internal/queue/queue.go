package queue

import (
	"context"

	"github.com/ricirt/taskboard/internal/domain"
)

// DefaultSize is used when New is given a non-positive capacity.
const DefaultSize = 1000

// TaskQueue is a bounded FIFO buffer between the HTTP layer and the workers.
// A single buffered channel keeps ordering and lets every worker block on
// the same receive without spinning.
type TaskQueue struct {
	items chan Item
}

func New(size int) *TaskQueue {
	if size <= 0 {
		size = DefaultSize
	}
	return &TaskQueue{items: make(chan Item, size)}
}

// Enqueue places an item at the tail of the queue.
// It is non-blocking: if the buffer is full, ErrQueueFull is returned
// immediately rather than blocking the caller (the HTTP handler).
func (q *TaskQueue) Enqueue(item Item) error {
	select {
	case q.items <- item:
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Dequeue blocks until an item is available or ctx is cancelled.
// Returns (Item{}, false) when ctx is cancelled (graceful shutdown signal).
func (q *TaskQueue) Dequeue(ctx context.Context) (Item, bool) {
	select {
	case item := <-q.items:
		return item, true
	case <-ctx.Done():
		return Item{}, false
	}
}

// Depth returns the number of items waiting.
func (q *TaskQueue) Depth() int {
	return len(q.items)
}

// Capacity returns the maximum number of items the queue holds.
func (q *TaskQueue) Capacity() int {
	return cap(q.items)
}
