package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/config"
	"github.com/prathibha999-pd/realvalueAI/internal/extract"
	"github.com/prathibha999-pd/realvalueAI/internal/harvest"
	"github.com/prathibha999-pd/realvalueAI/internal/queue"
	"github.com/prathibha999-pd/realvalueAI/internal/sink"
)

// newHarvestCmd creates the 'harvest' subcommand, which drives one full
// scrape run to completion.
func newHarvestCmd(cfg *config.Config, logger **zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "harvest",
		Short: "Runs one full listing harvest",
		Long: `Scans every configured (source, status) lane, enriches listings
with detail-page fields, and appends the results to the configured sink. The
run always completes; partial failures degrade into placeholder fields and
under-counts reported in the logs.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarvest(cmd, *cfg, *logger)
		},
	}
}

func runHarvest(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) error {
	ctx := cmd.Context()

	sources, err := extract.Build(cfg.Harvest.Sources)
	if err != nil {
		return fmt.Errorf("build sources: %w", err)
	}

	target, sinkPath, err := buildSink(cmd, cfg, logger)
	if err != nil {
		return err
	}

	batchQueue := queue.New(cfg.Sink.QueueDepth)
	writer := sink.NewWriter(batchQueue, target, logger)

	fetchCfg := harvest.FetchConfig{
		MaxAttempts: cfg.Fetch.MaxAttempts,
		BackoffBase: cfg.BackoffBase(),
		Timeout:     cfg.FetchTimeout(),
	}
	fetchers := func() harvest.Fetcher {
		return harvest.NewPageFetcher(fetchCfg, logger)
	}

	pageMin, pageMax := cfg.PageDelay()
	detailMin, detailMax := cfg.DetailDelay()
	orch := harvest.NewOrchestrator(
		harvest.Config{
			Sources:       sources,
			Statuses:      cfg.Harvest.Statuses,
			MaxPages:      cfg.Harvest.MaxPages,
			LaneWorkers:   cfg.Harvest.LaneWorkers,
			ListWorkers:   cfg.Harvest.ListWorkers,
			DetailWorkers: cfg.Harvest.DetailWorkers,
			PageDelay:     harvest.DelayRange{Min: pageMin, Max: pageMax},
			DetailDelay:   harvest.DelayRange{Min: detailMin, Max: detailMax},
		},
		fetchers,
		batchQueue,
		writer,
		sinkPath,
		logger,
	)

	summary := orch.Run(ctx)
	if summary.TotalAds == 0 {
		logger.Warn("no ads harvested, nothing to save")
	}
	return nil
}

func buildSink(cmd *cobra.Command, cfg config.Config, logger *zap.Logger) (sink.Sink, string, error) {
	switch cfg.Sink.Kind {
	case "postgres":
		pg, err := sink.NewPostgresSink(cmd.Context(), cfg.Sink.DSN, logger)
		if err != nil {
			return nil, "", fmt.Errorf("init postgres sink: %w", err)
		}
		cobra.OnFinalize(pg.Close)
		return pg, "postgres:listings", nil
	default:
		path := filepath.Join(cfg.Sink.Dir, fmt.Sprintf("property_data_%s.csv", time.Now().Format("2006-01-02")))
		csv, err := sink.NewCSVSink(path, logger)
		if err != nil {
			return nil, "", fmt.Errorf("init csv sink: %w", err)
		}
		return csv, path, nil
	}
}
