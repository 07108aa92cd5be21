package sink

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
	"github.com/prathibha999-pd/realvalueAI/internal/queue"
)

// recordingSink captures Append calls and fails on demand.
type recordingSink struct {
	mu        sync.Mutex
	preloaded bool
	failNext  bool
	calls     []appendCall
}

type appendCall struct {
	rows       int
	withHeader bool
}

func (s *recordingSink) HeaderWritten() bool { return s.preloaded }

func (s *recordingSink) Append(_ context.Context, ads []*harvest.Ad, withHeader bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return 0, errors.New("disk full")
	}
	s.calls = append(s.calls, appendCall{rows: len(ads), withHeader: withHeader})
	return len(ads), nil
}

func batchOf(n int, header bool) harvest.Batch {
	ads := make([]*harvest.Ad, n)
	for i := range ads {
		ads[i] = harvest.NewStub("ad", "link")
	}
	return harvest.Batch{Ads: ads, Header: header}
}

func TestWriterDrainsUntilSentinel(t *testing.T) {
	t.Parallel()

	q := queue.New(8)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, batchOf(2, true)))
	require.NoError(t, q.Enqueue(ctx, batchOf(3, false)))
	require.NoError(t, q.EnqueueSentinel(ctx))

	s := &recordingSink{}
	w := NewWriter(q, s, zap.NewNop())
	total := w.Run(ctx)

	require.Equal(t, 5, total)
	require.Len(t, s.calls, 2)
	require.True(t, s.calls[0].withHeader)
	require.False(t, s.calls[1].withHeader)
}

func TestWriterSuppressesHeaderWhenSinkPreloaded(t *testing.T) {
	t.Parallel()

	q := queue.New(4)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, batchOf(1, true)))
	require.NoError(t, q.EnqueueSentinel(ctx))

	s := &recordingSink{preloaded: true}
	w := NewWriter(q, s, zap.NewNop())
	w.Run(ctx)

	require.Len(t, s.calls, 1)
	require.False(t, s.calls[0].withHeader)
}

func TestWriterDropsFailedBatchAndContinues(t *testing.T) {
	t.Parallel()

	q := queue.New(8)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, batchOf(4, true)))
	require.NoError(t, q.Enqueue(ctx, batchOf(2, false)))
	require.NoError(t, q.EnqueueSentinel(ctx))

	s := &recordingSink{failNext: true}
	w := NewWriter(q, s, zap.NewNop())
	total := w.Run(ctx)

	// The header batch failed, so the flag stays unset and the header hint
	// is not re-raised for the later batch (it never carried one).
	require.Equal(t, 2, total)
	require.Len(t, s.calls, 1)
	require.Equal(t, 2, s.calls[0].rows)
}

func TestWriterHeaderRetriedAfterFailedHeaderBatch(t *testing.T) {
	t.Parallel()

	q := queue.New(8)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, batchOf(1, true)))
	require.NoError(t, q.Enqueue(ctx, batchOf(1, true)))
	require.NoError(t, q.EnqueueSentinel(ctx))

	s := &recordingSink{failNext: true}
	w := NewWriter(q, s, zap.NewNop())
	w.Run(ctx)

	// The flag flips only on a successful hinted write, so a second hinted
	// batch still gets the header.
	require.Len(t, s.calls, 1)
	require.True(t, s.calls[0].withHeader)
}

func TestWriterStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	q := queue.New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &recordingSink{}
	w := NewWriter(q, s, zap.NewNop())
	require.Equal(t, 0, w.Run(ctx))
}
