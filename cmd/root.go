// Package cmd defines and implements the CLI commands for the harvester
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prathibha999-pd/realvalueAI/internal/config"
	"github.com/prathibha999-pd/realvalueAI/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command. Configuration and the
// logger are loaded in PersistentPreRunE so every subcommand sees them.
func newRootCmd() *cobra.Command {
	var (
		cfg    config.Config
		logger *zap.Logger
	)

	cmd := &cobra.Command{
		Use:   "realvalue",
		Short: "Concurrent property-listing harvester for the RealValue pipeline.",
		Long: `realvalue harvests commercial property listings from multiple
listing sites under bounded concurrency and appends them to the tabular sink
consumed by the RealValue training and insight jobs.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg = loaded
			logger = logging.New(cfg.Logging)
			return nil
		},

		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is built-in defaults + REALVALUE_* env)")

	cmd.AddCommand(newHarvestCmd(&cfg, &logger))

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
