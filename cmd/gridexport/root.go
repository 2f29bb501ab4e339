package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "gridexport",
	Short: "Serve and export data grids",
	Long: `Gridexport renders configured data grids as HTML pages and exports them
as downloadable documents (Xls, Xlsx, Ods, Csv, Html and PDF).

Grids read their records from a SQLite database. An export is triggered by
the export link of a grid page, or from the command line with "export".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code derived from the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// loadConfig loads the configuration file named by --config, applies the
// --log-level override and installs the configured logger.
func loadConfig() (*config.Config, *logging.Logger, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := config.GetConfig()

	if logLevel != "" {
		if _, err := logging.ParseLevel(logLevel); err != nil {
			return nil, nil, cli.NewConfigError("log-level", err.Error())
		}
		cfg.Telemetry.Logging.Level = logLevel
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.SetDefault()
	return cfg, logger, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    os.Stderr,
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	return logger, nil
}
