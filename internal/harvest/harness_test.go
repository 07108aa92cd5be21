package harvest

import (
	"context"
	"fmt"
	"sync"
)

// fakeFetcher serves canned bodies keyed by URL and records every request.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	errs      map[string]error
	requests  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string][]byte),
		errs:      make(map[string]error),
	}
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if body, ok := f.responses[rawURL]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("fetch %s: %w", rawURL, ErrNetwork)
}

func (f *fakeFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

// fakeSource implements Source with pluggable parse functions.
type fakeSource struct {
	name    string
	listing func(body []byte) ([]*Ad, error)
	detail  func(body []byte) (Fields, error)
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) ListingURL(status string, page int) string {
	return fmt.Sprintf("https://%s.test/%s?page=%d", s.name, status, page)
}

func (s *fakeSource) ParseListing(body []byte) ([]*Ad, error) {
	return s.listing(body)
}

func (s *fakeSource) ParseDetail(body []byte) (Fields, error) {
	if s.detail == nil {
		return nil, ErrParse
	}
	return s.detail(body)
}
