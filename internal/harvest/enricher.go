package harvest

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type enrichTask struct {
	ad     *Ad
	source Source
	done   chan<- *Ad
}

// DetailEnricher executes phase 2: a bounded pool of workers fetches each
// stub's detail page and merges the extracted fields in place. A stub is never
// dropped; on any failure it passes through with its placeholders intact.
type DetailEnricher struct {
	fetchers FetcherFactory
	jitter   DelayRange
	workers  int
	tasks    chan enrichTask
	wg       sync.WaitGroup
	logger   *zap.Logger

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewDetailEnricher builds the phase-2 pool. The pool is sized larger than the
// list pool in practice, since detail fetches are independent point lookups.
func NewDetailEnricher(fetchers FetcherFactory, workers int, jitter DelayRange, logger *zap.Logger) *DetailEnricher {
	if workers <= 0 {
		workers = 1
	}
	return &DetailEnricher{
		fetchers: fetchers,
		jitter:   jitter,
		workers:  workers,
		tasks:    make(chan enrichTask),
		logger:   logger,
	}
}

// Start launches the worker pool. Each worker lazily creates and exclusively
// owns one fetcher for its lifetime.
func (e *DetailEnricher) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		for i := 0; i < e.workers; i++ {
			e.wg.Add(1)
			go e.work(ctx)
		}
	})
}

// Stop closes the task stream and waits for all workers to drain.
func (e *DetailEnricher) Stop() {
	e.stopOnce.Do(func() {
		close(e.tasks)
	})
	e.wg.Wait()
}

// Enrich submits every stub to the pool and collects results in completion
// order. It returns exactly len(stubs) records.
func (e *DetailEnricher) Enrich(ctx context.Context, source Source, stubs []*Ad) []*Ad {
	if len(stubs) == 0 {
		return nil
	}
	done := make(chan *Ad, len(stubs))
	submitted := 0
	for _, stub := range stubs {
		select {
		case e.tasks <- enrichTask{ad: stub, source: source, done: done}:
			submitted++
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}

	out := make([]*Ad, 0, len(stubs))
	for i := 0; i < submitted; i++ {
		out = append(out, <-done)
	}
	// Stubs that never made it into the pool still survive phase 2.
	if submitted < len(stubs) {
		out = append(out, stubs[submitted:]...)
	}
	return out
}

func (e *DetailEnricher) work(ctx context.Context) {
	defer e.wg.Done()
	var fetcher Fetcher
	for task := range e.tasks {
		if fetcher == nil {
			fetcher = e.fetchers()
		}
		e.jitter.Wait(ctx)
		e.enrichOne(ctx, fetcher, task)
		task.done <- task.ad
	}
}

func (e *DetailEnricher) enrichOne(ctx context.Context, fetcher Fetcher, task enrichTask) {
	ad := task.ad
	body, err := fetcher.Fetch(ctx, ad.Link)
	if err != nil {
		enrichFailures.Inc()
		e.logger.Warn("detail fetch failed, keeping stub",
			zap.String("url", ad.Link),
			zap.Error(err),
		)
		return
	}

	fields, err := task.source.ParseDetail(body)
	if err != nil {
		enrichFailures.Inc()
		if errors.Is(err, ErrParse) {
			e.logger.Debug("detail page had no extractable fields", zap.String("url", ad.Link))
		} else {
			e.logger.Error("detail extractor failed", zap.String("url", ad.Link), zap.Error(err))
		}
		return
	}

	ad.Merge(fields)
	adsEnriched.Inc()
	e.logger.Debug("enriched ad", zap.String("url", ad.Link))
}
