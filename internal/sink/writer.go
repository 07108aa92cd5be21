package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
	"github.com/prathibha999-pd/realvalueAI/internal/queue"
)

// Writer is the single dedicated consumer of the persistence queue. It alone
// touches the sink and the header-written flag, so neither needs a lock.
type Writer struct {
	queue         *queue.Queue
	sink          Sink
	headerWritten bool
	logger        *zap.Logger
}

// NewWriter builds the consumer. The header flag starts true when the sink
// already carries one from a previous run.
func NewWriter(q *queue.Queue, s Sink, logger *zap.Logger) *Writer {
	return &Writer{
		queue:         q,
		sink:          s,
		headerWritten: s.HeaderWritten(),
		logger:        logger,
	}
}

// Run drains the queue until it dequeues the shutdown sentinel, then returns
// the cumulative row count. A failed batch write is logged and dropped, not
// retried.
func (w *Writer) Run(ctx context.Context) int {
	total := 0
	for {
		item, err := w.queue.Dequeue(ctx)
		if err != nil {
			w.logger.Warn("writer stopping before sentinel", zap.Error(err))
			return total
		}
		if item.Sentinel {
			w.logger.Info("writer finished", zap.Int("rows_written", total))
			return total
		}

		withHeader := !w.headerWritten && item.Batch.Header
		rows, err := w.sink.Append(ctx, item.Batch.Ads, withHeader)
		if err != nil {
			batchesDropped.Inc()
			w.logger.Error("dropping batch",
				zap.Int("ads", len(item.Batch.Ads)),
				zap.Error(fmt.Errorf("%w: %w", harvest.ErrPersistence, err)),
			)
			continue
		}
		if withHeader {
			w.headerWritten = true
		}
		rowsWritten.Add(float64(rows))
		total += rows
		w.logger.Info("appended batch", zap.Int("rows", rows), zap.Bool("header", withHeader))
	}
}
