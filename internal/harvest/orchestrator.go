package harvest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config carries the startup-only knobs for a harvest run.
type Config struct {
	Sources       []Source
	Statuses      []string
	MaxPages      int
	LaneWorkers   int
	ListWorkers   int
	DetailWorkers int
	PageDelay     DelayRange
	DetailDelay   DelayRange
}

// Summary is the aggregate result of a completed run.
type Summary struct {
	RunID       string
	Lanes       int
	TotalAds    int
	RowsWritten int
	SinkPath    string
}

// Orchestrator drives a full run: it builds the lane matrix, distributes lanes
// round-robin across a fixed-size top-level pool, coordinates the two scrape
// phases, and shuts the writer down with the queue sentinel.
type Orchestrator struct {
	cfg       Config
	harvester *ListHarvester
	enricher  *DetailEnricher
	queue     BatchQueue
	writer    Writer
	sinkPath  string
	logger    *zap.Logger
}

// NewOrchestrator wires a run. The fetcher factory is handed to both phases so
// every worker constructs and owns exactly one client.
func NewOrchestrator(
	cfg Config,
	fetchers FetcherFactory,
	queue BatchQueue,
	writer Writer,
	sinkPath string,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.LaneWorkers <= 0 {
		cfg.LaneWorkers = 1
	}
	return &Orchestrator{
		cfg:       cfg,
		harvester: NewListHarvester(fetchers, cfg.MaxPages, cfg.ListWorkers, cfg.PageDelay, logger),
		enricher:  NewDetailEnricher(fetchers, cfg.DetailWorkers, cfg.DetailDelay, logger),
		queue:     queue,
		writer:    writer,
		sinkPath:  sinkPath,
		logger:    logger,
	}
}

// Run executes the harvest to completion and reports aggregate counts. It
// always completes; partial failures surface only as under-counts in the
// summary and warnings in the log.
func (o *Orchestrator) Run(ctx context.Context) Summary {
	runID := uuid.NewString()
	logger := o.logger.With(zap.String("run_id", runID))
	lanes := o.buildLanes()
	logger.Info("starting harvest run",
		zap.Int("lanes", len(lanes)),
		zap.Int("lane_workers", o.cfg.LaneWorkers),
		zap.Int("detail_workers", o.cfg.DetailWorkers),
	)

	writerDone := make(chan int, 1)
	go func() {
		writerDone <- o.writer.Run(ctx)
	}()
	o.enricher.Start(ctx)

	var total atomic.Int64
	var wg sync.WaitGroup
	for _, slice := range distribute(lanes, o.cfg.LaneWorkers) {
		wg.Add(1)
		go func(slice []*Lane) {
			defer wg.Done()
			for _, lane := range slice {
				total.Add(int64(o.runLane(ctx, lane, logger)))
			}
		}(slice)
	}
	wg.Wait()
	o.enricher.Stop()

	if err := o.queue.EnqueueSentinel(ctx); err != nil {
		logger.Error("failed to enqueue shutdown sentinel", zap.Error(err))
	}
	rows := <-writerDone

	summary := Summary{
		RunID:       runID,
		Lanes:       len(lanes),
		TotalAds:    int(total.Load()),
		RowsWritten: rows,
		SinkPath:    o.sinkPath,
	}
	logger.Info("harvest run complete",
		zap.Int("total_ads", summary.TotalAds),
		zap.Int("rows_written", summary.RowsWritten),
		zap.String("sink", summary.SinkPath),
	)
	return summary
}

// buildLanes produces the cartesian product of sources and statuses. Exactly
// one lane carries the header hint for the run's shared sink.
func (o *Orchestrator) buildLanes() []*Lane {
	lanes := make([]*Lane, 0, len(o.cfg.Sources)*len(o.cfg.Statuses))
	for _, source := range o.cfg.Sources {
		for _, status := range o.cfg.Statuses {
			lanes = append(lanes, &Lane{
				Source: source,
				Status: status,
				Header: len(lanes) == 0,
			})
		}
	}
	return lanes
}

func (o *Orchestrator) runLane(ctx context.Context, lane *Lane, logger *zap.Logger) int {
	stubs := o.harvester.HarvestLane(ctx, lane)
	if len(stubs) == 0 {
		return 0
	}
	ads := o.enricher.Enrich(ctx, lane.Source, stubs)
	batch := Batch{Ads: ads, Header: lane.Header}
	if err := o.queue.Enqueue(ctx, batch); err != nil {
		logger.Error("failed to enqueue batch",
			zap.String("source", lane.Source.Name()),
			zap.String("status", lane.Status),
			zap.Int("ads", len(ads)),
			zap.Error(err),
		)
		return 0
	}
	return len(ads)
}

// distribute splits lanes across n workers round-robin so every worker makes
// progress on interleaved lanes rather than lane-by-lane.
func distribute(lanes []*Lane, n int) [][]*Lane {
	if n > len(lanes) {
		n = len(lanes)
	}
	if n <= 0 {
		return nil
	}
	slices := make([][]*Lane, n)
	for i, lane := range lanes {
		slices[i%n] = append(slices[i%n], lane)
	}
	return slices
}
