package harvest

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// documentMarker must appear in a response body for it to count as a page.
// Anything else (interstitials, JSON error blobs, truncated bodies) is a soft
// failure retried within the same budget.
var documentMarker = []byte("<html")

// userAgents is the fixed pool rotated across attempts.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36 Edg/118.0.2088.76",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/119.0",
}

// Fetcher retrieves a document body or reports a failure after exhausting its
// retry budget. Callers treat failure as "no data", never as fatal.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// FetcherFactory builds one Fetcher per worker. Each worker owns its fetcher
// exclusively; the underlying client is never shared across goroutines.
type FetcherFactory func() Fetcher

// FetchConfig controls retry and timeout behavior for page fetches.
type FetchConfig struct {
	MaxAttempts int
	BackoffBase time.Duration
	Timeout     time.Duration
}

func (c FetchConfig) withDefaults() FetchConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 5 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

// PageFetcher implements Fetcher on a Colly collector with a pooled transport.
// The collector is cloned per attempt so the visited-URL cache never blocks a
// retry of the same URL.
type PageFetcher struct {
	cfg    FetchConfig
	policy RetryPolicy
	logger *zap.Logger
	base   *colly.Collector
}

// NewPageFetcher builds a fetcher with its own persistent connection pool.
func NewPageFetcher(cfg FetchConfig, logger *zap.Logger) *PageFetcher {
	cfg = cfg.withDefaults()
	base := colly.NewCollector(colly.Async(false))
	base.IgnoreRobotsTxt = true
	base.WithTransport(newHTTPTransport())
	base.SetRequestTimeout(cfg.Timeout)
	return &PageFetcher{
		cfg:    cfg,
		policy: NewLinearRetryPolicy(cfg.BackoffBase),
		logger: logger,
		base:   base,
	}
}

// Fetch retrieves rawURL, retrying with linear backoff until the budget is
// exhausted. The returned error wraps ErrNetwork on exhaustion.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetch canceled: %w", err)
		}
		fetchAttempts.Inc()

		body, err := f.attempt(rawURL)
		switch {
		case err != nil:
			f.logger.Warn("fetch attempt failed",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		case !bytes.Contains(bytes.ToLower(body), documentMarker):
			f.logger.Warn("non-document response",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Int("bytes", len(body)),
			)
		default:
			f.logger.Debug("fetched", zap.String("url", rawURL), zap.Int("bytes", len(body)))
			return body, nil
		}

		if attempt < f.cfg.MaxAttempts {
			delay := f.policy.Backoff(attempt)
			fetchRetries.Inc()
			f.logger.Info("retrying fetch",
				zap.String("url", rawURL),
				zap.Duration("in", delay),
			)
			pause(ctx, delay)
		}
	}

	fetchFailures.Inc()
	f.logger.Error("all fetch attempts failed",
		zap.String("url", rawURL),
		zap.Int("attempts", f.cfg.MaxAttempts),
	)
	return nil, fmt.Errorf("fetch %s after %d attempts: %w", rawURL, f.cfg.MaxAttempts, ErrNetwork)
}

func (f *PageFetcher) attempt(rawURL string) ([]byte, error) {
	collector := f.base.Clone()
	collector.UserAgent = userAgents[rand.N(len(userAgents))]

	var (
		body     []byte
		fetchErr error
	)
	collector.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		r.Headers.Set("Connection", "keep-alive")
	})
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	if err := collector.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	if fetchErr != nil {
		return nil, fmt.Errorf("response: %w", fetchErr)
	}
	return body, nil
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}
}
