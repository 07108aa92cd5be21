// Package config loads and validates harvester configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every startup knob. Nothing here is runtime-mutable.
type Config struct {
	Harvest HarvestConfig `mapstructure:"harvest"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Sink    SinkConfig    `mapstructure:"sink"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HarvestConfig governs the lane matrix and the three worker pools.
type HarvestConfig struct {
	Sources          []string `mapstructure:"sources"`
	Statuses         []string `mapstructure:"statuses"`
	MaxPages         int      `mapstructure:"max_pages"`
	LaneWorkers      int      `mapstructure:"lane_workers"`
	ListWorkers      int      `mapstructure:"list_workers"`
	DetailWorkers    int      `mapstructure:"detail_workers"`
	PageDelayMinMs   int      `mapstructure:"page_delay_min_ms"`
	PageDelayMaxMs   int      `mapstructure:"page_delay_max_ms"`
	DetailDelayMinMs int      `mapstructure:"detail_delay_min_ms"`
	DetailDelayMaxMs int      `mapstructure:"detail_delay_max_ms"`
}

// FetchConfig configures retry and timeout behavior for every HTTP fetch.
type FetchConfig struct {
	MaxAttempts        int `mapstructure:"max_attempts"`
	BackoffBaseSeconds int `mapstructure:"backoff_base_seconds"`
	TimeoutSeconds     int `mapstructure:"timeout_seconds"`
}

// SinkConfig selects and configures the persistence sink.
type SinkConfig struct {
	Kind       string `mapstructure:"kind"`
	Dir        string `mapstructure:"dir"`
	DSN        string `mapstructure:"dsn"`
	QueueDepth int    `mapstructure:"queue_depth"`
}

// LoggingConfig controls the zap console core and the optional rotating file.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REALVALUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("harvest.sources", []string{"ikman", "lankaweb"})
	v.SetDefault("harvest.statuses", []string{"Rent", "Sale"})
	v.SetDefault("harvest.max_pages", 20)
	v.SetDefault("harvest.lane_workers", 5)
	v.SetDefault("harvest.list_workers", 20)
	v.SetDefault("harvest.detail_workers", 40)
	v.SetDefault("harvest.page_delay_min_ms", 0)
	v.SetDefault("harvest.page_delay_max_ms", 1000)
	v.SetDefault("harvest.detail_delay_min_ms", 0)
	v.SetDefault("harvest.detail_delay_max_ms", 1000)
	v.SetDefault("fetch.max_attempts", 5)
	v.SetDefault("fetch.backoff_base_seconds", 5)
	v.SetDefault("fetch.timeout_seconds", 30)
	v.SetDefault("sink.kind", "csv")
	v.SetDefault("sink.dir", "data")
	v.SetDefault("sink.queue_depth", 64)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size_mb", 50)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Harvest.Sources) == 0 {
		return fmt.Errorf("harvest.sources must include at least one source")
	}
	if len(c.Harvest.Statuses) == 0 {
		return fmt.Errorf("harvest.statuses must include at least one status")
	}
	if c.Harvest.MaxPages <= 0 {
		return fmt.Errorf("harvest.max_pages must be > 0")
	}
	if c.Harvest.LaneWorkers <= 0 || c.Harvest.ListWorkers <= 0 || c.Harvest.DetailWorkers <= 0 {
		return fmt.Errorf("harvest worker pool sizes must be > 0")
	}
	if c.Harvest.PageDelayMaxMs < c.Harvest.PageDelayMinMs {
		return fmt.Errorf("harvest.page_delay_max_ms must be >= harvest.page_delay_min_ms")
	}
	if c.Harvest.DetailDelayMaxMs < c.Harvest.DetailDelayMinMs {
		return fmt.Errorf("harvest.detail_delay_max_ms must be >= harvest.detail_delay_min_ms")
	}
	if c.Fetch.MaxAttempts <= 0 {
		return fmt.Errorf("fetch.max_attempts must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	switch c.Sink.Kind {
	case "csv":
		if c.Sink.Dir == "" {
			return fmt.Errorf("sink.dir must be set for the csv sink")
		}
	case "postgres":
		if c.Sink.DSN == "" {
			return fmt.Errorf("sink.dsn must be set for the postgres sink")
		}
	default:
		return fmt.Errorf("sink.kind must be csv or postgres")
	}
	if c.Sink.QueueDepth <= 0 {
		return fmt.Errorf("sink.queue_depth must be > 0")
	}
	return nil
}

// FetchTimeout converts the fetch timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// BackoffBase converts the backoff base into a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.Fetch.BackoffBaseSeconds) * time.Second
}

// PageDelay returns the politeness window between listing pages.
func (c Config) PageDelay() (time.Duration, time.Duration) {
	return time.Duration(c.Harvest.PageDelayMinMs) * time.Millisecond,
		time.Duration(c.Harvest.PageDelayMaxMs) * time.Millisecond
}

// DetailDelay returns the jitter window before each detail fetch.
func (c Config) DetailDelay() (time.Duration, time.Duration) {
	return time.Duration(c.Harvest.DetailDelayMinMs) * time.Millisecond,
		time.Duration(c.Harvest.DetailDelayMaxMs) * time.Millisecond
}
