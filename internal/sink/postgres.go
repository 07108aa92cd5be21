package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// DB is the subset of pgxpool.Pool the sink needs; pgxmock satisfies it too.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

const createListingsTable = `
	CREATE TABLE IF NOT EXISTS listings (
		id            BIGSERIAL PRIMARY KEY,
		title         TEXT NOT NULL,
		sqft          TEXT NOT NULL,
		property_type TEXT NOT NULL,
		link          TEXT NOT NULL,
		location      TEXT NOT NULL,
		address       TEXT NOT NULL,
		image_url     TEXT NOT NULL,
		price         TEXT NOT NULL,
		status        TEXT NOT NULL,
		source        TEXT NOT NULL,
		scrape_date   DATE NOT NULL,
		created_at    TIMESTAMPTZ DEFAULT NOW()
	);
`

const insertListing = `
	INSERT INTO listings
		(title, sqft, property_type, link, location, address, image_url, price, status, source, scrape_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

// PostgresSink appends record batches to the listings table, one transaction
// per batch so a batch lands contiguously or not at all.
type PostgresSink struct {
	db     DB
	logger *zap.Logger
}

// NewPostgresSink connects a pool and ensures the listings schema exists.
func NewPostgresSink(ctx context.Context, dsn string, logger *zap.Logger) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	s := NewPostgresSinkWithDB(pool, logger)
	if _, err := s.db.Exec(ctx, createListingsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure listings table: %w", err)
	}
	return s, nil
}

// NewPostgresSinkWithDB builds a sink over an existing connection handle.
func NewPostgresSinkWithDB(db DB, logger *zap.Logger) *PostgresSink {
	return &PostgresSink{db: db, logger: logger}
}

// Close releases the underlying pool.
func (s *PostgresSink) Close() { s.db.Close() }

// HeaderWritten always reports true: a relational sink has no header row.
func (s *PostgresSink) HeaderWritten() bool { return true }

// Append inserts the batch inside one transaction.
func (s *PostgresSink) Append(ctx context.Context, ads []*harvest.Ad, _ bool) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, ad := range ads {
		if _, err := tx.Exec(ctx, insertListing,
			ad.Title,
			ad.Sqft,
			ad.PropertyType,
			ad.Link,
			ad.Location,
			ad.Address,
			ad.ImageURL,
			ad.Price,
			ad.Status,
			ad.Source,
			ad.ScrapeDate,
		); err != nil {
			return 0, fmt.Errorf("insert listing %s: %w", ad.Link, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit batch: %w", err)
	}
	return len(ads), nil
}
