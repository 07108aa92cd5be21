package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

func TestQueueFIFOOrder(t *testing.T) {
	t.Parallel()

	q := New(4)
	ctx := context.Background()
	for _, title := range []string{"first", "second", "third"} {
		batch := harvest.Batch{Ads: []*harvest.Ad{harvest.NewStub(title, "link")}}
		require.NoError(t, q.Enqueue(ctx, batch))
	}

	for _, want := range []string{"first", "second", "third"} {
		item, err := q.Dequeue(ctx)
		require.NoError(t, err)
		require.False(t, item.Sentinel)
		require.Equal(t, want, item.Batch.Ads[0].Title)
	}
}

func TestQueueSentinel(t *testing.T) {
	t.Parallel()

	q := New(2)
	ctx := context.Background()
	require.NoError(t, q.EnqueueSentinel(ctx))

	item, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.True(t, item.Sentinel)
	require.Empty(t, item.Batch.Ads)
}

func TestQueueEnqueueBlocksUntilDequeue(t *testing.T) {
	t.Parallel()

	q := New(1)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, harvest.Batch{}))

	unblocked := make(chan error, 1)
	go func() {
		unblocked <- q.Enqueue(ctx, harvest.Batch{Header: true})
	}()

	select {
	case <-unblocked:
		t.Fatal("enqueue must block while the queue is full")
	case <-time.After(50 * time.Millisecond):
	}

	_, err := q.Dequeue(ctx)
	require.NoError(t, err)
	require.NoError(t, <-unblocked)
}

func TestQueueEnqueueCanceled(t *testing.T) {
	t.Parallel()

	q := New(1)
	require.NoError(t, q.Enqueue(context.Background(), harvest.Batch{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, harvest.Batch{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "enqueue canceled")
}

func TestQueueDequeueCanceled(t *testing.T) {
	t.Parallel()

	q := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Dequeue(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dequeue canceled")
}

func TestQueueCloseTwice(t *testing.T) {
	t.Parallel()

	q := New(1)
	q.Close()
	q.Close()

	_, err := q.Dequeue(context.Background())
	require.EqualError(t, err, "queue closed")
}
