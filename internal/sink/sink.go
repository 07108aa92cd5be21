// Package sink persists harvested record batches into the run's single
// append-only output, owned exclusively by the Writer.
package sink

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// Sink appends batches of records. Implementations are not required to be
// goroutine-safe: the Writer is their only caller.
type Sink interface {
	// Append writes the batch as one contiguous block, preceded by the header
	// row when withHeader is set. It returns the number of rows written.
	Append(ctx context.Context, ads []*harvest.Ad, withHeader bool) (int, error)
	// HeaderWritten reports whether the sink already carries a header from a
	// previous run (or never needs one).
	HeaderWritten() bool
}

var (
	rowsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_rows_written_total",
		Help: "The total number of record rows appended to the sink.",
	})
	batchesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "harvester_batches_dropped_total",
		Help: "The total number of batches dropped after a failed sink write.",
	})
)
