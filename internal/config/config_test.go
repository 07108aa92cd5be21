package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, []string{"ikman", "lankaweb"}, cfg.Harvest.Sources)
	require.Equal(t, []string{"Rent", "Sale"}, cfg.Harvest.Statuses)
	require.Equal(t, 20, cfg.Harvest.MaxPages)
	require.Equal(t, 5, cfg.Harvest.LaneWorkers)
	require.Equal(t, 20, cfg.Harvest.ListWorkers)
	require.Equal(t, 40, cfg.Harvest.DetailWorkers)
	require.Equal(t, 5, cfg.Fetch.MaxAttempts)
	require.Equal(t, "csv", cfg.Sink.Kind)
	require.Equal(t, "data", cfg.Sink.Dir)
	require.Equal(t, 64, cfg.Sink.QueueDepth)
	require.True(t, cfg.Logging.Development)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
harvest:
  sources: [ikman]
  statuses: [Rent]
  max_pages: 3
fetch:
  max_attempts: 2
  backoff_base_seconds: 1
sink:
  kind: postgres
  dsn: postgres://harvester@localhost/listings
logging:
  development: false
  file: /var/log/harvester.log
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o640))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"ikman"}, cfg.Harvest.Sources)
	require.Equal(t, 3, cfg.Harvest.MaxPages)
	require.Equal(t, 2, cfg.Fetch.MaxAttempts)
	require.Equal(t, "postgres", cfg.Sink.Kind)
	require.Equal(t, "postgres://harvester@localhost/listings", cfg.Sink.DSN)
	require.False(t, cfg.Logging.Development)
	require.Equal(t, "/var/log/harvester.log", cfg.Logging.File)

	// Untouched keys keep their defaults.
	require.Equal(t, 40, cfg.Harvest.DetailWorkers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no sources", func(c *Config) { c.Harvest.Sources = nil }, "harvest.sources"},
		{"no statuses", func(c *Config) { c.Harvest.Statuses = nil }, "harvest.statuses"},
		{"zero pages", func(c *Config) { c.Harvest.MaxPages = 0 }, "harvest.max_pages"},
		{"zero workers", func(c *Config) { c.Harvest.DetailWorkers = 0 }, "worker pool"},
		{"inverted page delay", func(c *Config) { c.Harvest.PageDelayMinMs = 2000 }, "page_delay_max_ms"},
		{"zero attempts", func(c *Config) { c.Fetch.MaxAttempts = 0 }, "fetch.max_attempts"},
		{"zero timeout", func(c *Config) { c.Fetch.TimeoutSeconds = 0 }, "fetch.timeout_seconds"},
		{"csv without dir", func(c *Config) { c.Sink.Dir = "" }, "sink.dir"},
		{"postgres without dsn", func(c *Config) { c.Sink.Kind = "postgres" }, "sink.dsn"},
		{"unknown sink", func(c *Config) { c.Sink.Kind = "sqlite" }, "sink.kind"},
		{"zero queue depth", func(c *Config) { c.Sink.QueueDepth = 0 }, "sink.queue_depth"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 30*time.Second, cfg.FetchTimeout())
	require.Equal(t, 5*time.Second, cfg.BackoffBase())

	min, max := cfg.PageDelay()
	require.Equal(t, time.Duration(0), min)
	require.Equal(t, time.Second, max)

	min, max = cfg.DetailDelay()
	require.Equal(t, time.Duration(0), min)
	require.Equal(t, time.Second, max)
}
