package harvest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ListHarvester executes phase 1: it scans a lane's listing pages in strictly
// increasing order and turns them into stamped stubs. The lane halts
// permanently on the first failed fetch or empty page; the cursor never moves
// backwards and a halted lane is never resumed.
type ListHarvester struct {
	fetchers FetcherFactory
	maxPages int
	delay    DelayRange
	// listSlots bounds concurrent listing-page fetches across all lanes,
	// independently of the detail pool.
	listSlots chan struct{}
	logger    *zap.Logger
}

// NewListHarvester builds the phase-1 scanner. listWorkers bounds how many
// listing pages are in flight at once across every lane.
func NewListHarvester(
	fetchers FetcherFactory,
	maxPages int,
	listWorkers int,
	delay DelayRange,
	logger *zap.Logger,
) *ListHarvester {
	if maxPages <= 0 {
		maxPages = 20
	}
	if listWorkers <= 0 {
		listWorkers = 1
	}
	return &ListHarvester{
		fetchers:  fetchers,
		maxPages:  maxPages,
		delay:     delay,
		listSlots: make(chan struct{}, listWorkers),
		logger:    logger,
	}
}

// HarvestLane scans the lane and returns every stub it produced. The caller
// owns the lane for the duration of the call.
func (h *ListHarvester) HarvestLane(ctx context.Context, lane *Lane) []*Ad {
	var (
		fetcher Fetcher
		ads     []*Ad
	)
	source := lane.Source.Name()

	for page := 1; page <= h.maxPages; page++ {
		if ctx.Err() != nil {
			break
		}
		lane.advance(page)
		url := lane.Source.ListingURL(lane.Status, page)
		h.logger.Info("fetching listing page",
			zap.String("source", source),
			zap.String("status", lane.Status),
			zap.Int("page", page),
			zap.String("url", url),
		)

		if fetcher == nil {
			fetcher = h.fetchers()
		}
		body, err := h.fetchListing(ctx, fetcher, url)
		if err != nil {
			h.logger.Warn("lane halted on fetch failure",
				zap.String("source", source),
				zap.String("status", lane.Status),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}

		stubs, err := lane.Source.ParseListing(body)
		if err != nil && !errors.Is(err, ErrParse) {
			h.logger.Error("listing extractor failed",
				zap.String("source", source),
				zap.Int("page", page),
				zap.Error(err),
			)
			break
		}
		if len(stubs) == 0 {
			h.logger.Info("lane halted on empty page",
				zap.String("source", source),
				zap.String("status", lane.Status),
				zap.Int("page", page),
			)
			break
		}

		Stamp(stubs, source, lane.Status, time.Now())
		adsListed.Add(float64(len(stubs)))
		ads = append(ads, stubs...)

		if page < h.maxPages {
			h.delay.Wait(ctx)
		}
	}

	h.logger.Info("lane finished",
		zap.String("source", source),
		zap.String("status", lane.Status),
		zap.Int("pages", lane.Page()),
		zap.Int("ads", len(ads)),
	)
	return ads
}

func (h *ListHarvester) fetchListing(ctx context.Context, fetcher Fetcher, url string) ([]byte, error) {
	select {
	case h.listSlots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-h.listSlots }()
	return fetcher.Fetch(ctx, url)
}
