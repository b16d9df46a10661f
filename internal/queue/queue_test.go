package queue_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ricirt/taskboard/internal/domain"
	"github.com/ricirt/taskboard/internal/queue"
)

func item(id string) queue.Item {
	return queue.Item{TaskID: id, Name: domain.TaskNameAdd}
}

func TestTaskQueue_BasicEnqueueDequeue(t *testing.T) {
	q := queue.New(10)
	ctx := context.Background()

	if err := q.Enqueue(item("1")); err != nil {
		t.Fatal(err)
	}

	got, ok := q.Dequeue(ctx)
	if !ok {
		t.Fatal("expected item, got nothing")
	}
	if got.TaskID != "1" {
		t.Fatalf("expected id=1, got %s", got.TaskID)
	}
}

func TestTaskQueue_FIFO(t *testing.T) {
	q := queue.New(10)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_ = q.Enqueue(item(id))
	}
	for _, want := range []string{"a", "b", "c"} {
		got, _ := q.Dequeue(ctx)
		if got.TaskID != want {
			t.Fatalf("expected %q, got %q", want, got.TaskID)
		}
	}
}

// TestTaskQueue_ContextCancellation verifies Dequeue returns (_, false)
// when the context is cancelled while blocking.
func TestTaskQueue_ContextCancellation(t *testing.T) {
	q := queue.New(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue(ctx)
		done <- ok
	}()

	cancel()

	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected ok=false after context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not return after context cancellation")
	}
}

func TestTaskQueue_ErrQueueFull(t *testing.T) {
	q := queue.New(2)

	_ = q.Enqueue(item("1"))
	_ = q.Enqueue(item("2"))

	if err := q.Enqueue(item("3")); !errors.Is(err, domain.ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if q.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", q.Depth())
	}
}

func TestTaskQueue_DefaultSize(t *testing.T) {
	if got := queue.New(0).Capacity(); got != queue.DefaultSize {
		t.Fatalf("expected capacity %d, got %d", queue.DefaultSize, got)
	}
}

// TestTaskQueue_ConcurrentEnqueueDequeue verifies there are no races
// when multiple goroutines enqueue and dequeue simultaneously.
func TestTaskQueue_ConcurrentEnqueueDequeue(t *testing.T) {
	const producers = 5
	const itemsPerProducer = 100
	const total = producers * itemsPerProducer

	q := queue.New(total)
	received := make(chan struct{}, total)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var consumerDone sync.WaitGroup
	consumerDone.Add(1)
	go func() {
		defer consumerDone.Done()
		for {
			_, ok := q.Dequeue(ctx)
			if !ok {
				return
			}
			received <- struct{}{}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < itemsPerProducer; j++ {
				_ = q.Enqueue(item("id"))
			}
		}()
	}
	wg.Wait()

	for i := 0; i < total; i++ {
		select {
		case <-received:
		case <-ctx.Done():
			t.Fatalf("timeout: only received %d/%d items", i, total)
		}
	}
	cancel()
	consumerDone.Wait()
}
