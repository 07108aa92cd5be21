// Package harvest implements the concurrent listing-harvest pipeline: resilient
// page fetching, the two-phase list/detail scrape, and run orchestration.
package harvest

import (
	"context"
	"time"
)

// Placeholder is the literal token used for fields with no known value.
const Placeholder = "N/A"

// Columns is the sink schema, in write order.
var Columns = []string{
	"Title",
	"Sqft",
	"Property Type",
	"Link",
	"Location",
	"Address",
	"Image URL",
	"Price",
	"Status",
	"Source",
	"Scrape Date",
}

// Ad is a single listing record. Phase 1 produces it as a stub with
// placeholders in the detail fields; phase 2 mutates it in place. Its Link is
// its identity, though uniqueness is not enforced across runs.
type Ad struct {
	Title        string
	Link         string
	Sqft         string
	PropertyType string
	Location     string
	Address      string
	ImageURL     string
	Price        string
	Status       string
	Source       string
	ScrapeDate   string
}

// NewStub builds a phase-1 record with placeholders in every detail field.
func NewStub(title, link string) *Ad {
	return &Ad{
		Title:        title,
		Link:         link,
		Sqft:         Placeholder,
		PropertyType: Placeholder,
		Location:     Placeholder,
		Address:      Placeholder,
		ImageURL:     Placeholder,
		Price:        Placeholder,
		Status:       Placeholder,
		Source:       Placeholder,
		ScrapeDate:   Placeholder,
	}
}

// Fields is the mapping returned by a detail extractor. Keys match the column
// names of the fields a detail page can contribute.
type Fields map[string]string

// Merge folds detail values into the record. A placeholder or empty detail
// value never replaces an existing value; anything else always wins.
func (a *Ad) Merge(f Fields) {
	for key, value := range f {
		if value == "" || value == Placeholder {
			continue
		}
		switch key {
		case "Title":
			a.Title = value
		case "Sqft":
			a.Sqft = value
		case "Property Type":
			a.PropertyType = value
		case "Location":
			a.Location = value
		case "Address":
			a.Address = value
		case "Image URL":
			a.ImageURL = value
		case "Price":
			a.Price = value
		}
	}
}

// Row renders the record in sink column order.
func (a *Ad) Row() []string {
	return []string{
		a.Title,
		a.Sqft,
		a.PropertyType,
		a.Link,
		a.Location,
		a.Address,
		a.ImageURL,
		a.Price,
		a.Status,
		a.Source,
		a.ScrapeDate,
	}
}

// Source is the pluggable per-site extractor capability. Implementations are
// pure parsers plus URL construction; they never fetch.
type Source interface {
	// Name is the label stamped into each record's Source column.
	Name() string
	// ListingURL builds the listing page URL for a status lane and 1-based page.
	ListingURL(status string, page int) string
	// ParseListing extracts phase-1 stubs from a listing page document.
	ParseListing(body []byte) ([]*Ad, error)
	// ParseDetail extracts detail fields from an item page document.
	ParseDetail(body []byte) (Fields, error)
}

// Lane is one (source, status) scanning unit with its own page cursor. A lane
// is owned exclusively by the worker currently executing it.
type Lane struct {
	Source Source
	Status string
	// Header marks the lane whose batch may carry the sink header row.
	Header bool

	page int
}

// Page reports the lane's current page cursor.
func (l *Lane) Page() int { return l.page }

func (l *Lane) advance(page int) { l.page = page }

// Batch is the unit of persistence: an ordered group of records plus the
// header-carrier hint.
type Batch struct {
	Ads    []*Ad
	Header bool
}

// BatchQueue is the handoff between lane producers and the single sink writer.
type BatchQueue interface {
	Enqueue(ctx context.Context, batch Batch) error
	EnqueueSentinel(ctx context.Context) error
}

// Writer drains the persistence queue until it sees the shutdown sentinel.
// Run returns the cumulative number of rows written.
type Writer interface {
	Run(ctx context.Context) int
}

// Stamp applies the lane identity to freshly parsed stubs.
func Stamp(ads []*Ad, source, status string, now time.Time) {
	date := now.Format("2006-01-02")
	for _, ad := range ads {
		ad.Source = source
		ad.Status = status
		ad.ScrapeDate = date
	}
}
