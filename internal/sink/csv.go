package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
)

// CSVSink appends record batches to a delimited file with the fixed 11-column
// schema consumed by the downstream training job.
type CSVSink struct {
	path         string
	headerOnDisk bool
	logger       *zap.Logger
}

// NewCSVSink prepares the sink file's directory and detects whether a header
// already exists from a previous run (file present and non-empty).
func NewCSVSink(path string, logger *zap.Logger) (*CSVSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create sink dir: %w", err)
	}
	headerOnDisk := false
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		headerOnDisk = true
		logger.Info("sink file pre-exists, suppressing header", zap.String("path", path))
	}
	return &CSVSink{
		path:         path,
		headerOnDisk: headerOnDisk,
		logger:       logger,
	}, nil
}

// Path returns the sink file location.
func (s *CSVSink) Path() string { return s.path }

// HeaderWritten reports whether the file already carried data at startup.
func (s *CSVSink) HeaderWritten() bool { return s.headerOnDisk }

// Append writes the batch as one contiguous block. The file is opened in
// append mode per call; the single-writer invariant keeps blocks contiguous.
func (s *CSVSink) Append(ctx context.Context, ads []*harvest.Ad, withHeader bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("append canceled: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return 0, fmt.Errorf("open sink %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if withHeader {
		if err := w.Write(harvest.Columns); err != nil {
			return 0, fmt.Errorf("write header: %w", err)
		}
	}
	for _, ad := range ads {
		if err := w.Write(ad.Row()); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("flush sink: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("close sink: %w", err)
	}
	return len(ads), nil
}
