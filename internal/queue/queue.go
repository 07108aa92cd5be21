// Package queue provides the bounded blocking FIFO that serializes concurrent
// harvest producers into the single sink writer.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// Item is one queue entry: either a record batch or the shutdown sentinel.
type Item struct {
	Batch    harvest.Batch
	Sentinel bool
}

// Queue is a bounded in-memory FIFO with context-aware operations. Enqueue
// blocks when full; Dequeue blocks when empty.
type Queue struct {
	ch      chan Item
	closeMu sync.Mutex
	closed  bool
}

// New constructs a queue with the provided capacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		ch: make(chan Item, capacity),
	}
}

// Enqueue pushes a batch or returns if the context ends first.
func (q *Queue) Enqueue(ctx context.Context, batch harvest.Batch) error {
	return q.push(ctx, Item{Batch: batch})
}

// EnqueueSentinel pushes the distinguished end-of-run value. The writer stops
// when it dequeues it.
func (q *Queue) EnqueueSentinel(ctx context.Context) error {
	return q.push(ctx, Item{Sentinel: true})
}

func (q *Queue) push(ctx context.Context, item Item) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- item:
		return nil
	}
}

// Dequeue pops the next item, respecting context cancellation.
func (q *Queue) Dequeue(ctx context.Context) (Item, error) {
	select {
	case <-ctx.Done():
		return Item{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case item, ok := <-q.ch:
		if !ok {
			return Item{}, errors.New("queue closed")
		}
		return item, nil
	}
}

// Close closes the underlying channel for shutdown. Safe to call twice.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
