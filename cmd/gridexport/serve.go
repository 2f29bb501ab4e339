package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/export/janitor"
	"mercator-hq/gridexport/pkg/server"
	"mercator-hq/gridexport/pkg/store"
	"mercator-hq/gridexport/pkg/telemetry/health"
	"mercator-hq/gridexport/pkg/telemetry/metrics"
	"mercator-hq/gridexport/pkg/telemetry/tracing"
)

var serveFlags struct {
	listenAddress string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the grid server",
	Long: `Start the HTTP server for the configured grids.

Grid pages are served at /grids/{id}. The export link of a page downloads the
grid as a document in the grid's export format.

Examples:
  # Start with a config file
  gridexport serve --config configs/gridexport.yaml

  # Override listen address and reload grids on config changes
  gridexport serve -c gridexport.yaml --listen 0.0.0.0:8080 --watch

  # Validate config and storage without starting the server
  gridexport serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload grids when the config file changes")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and storage without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.watch {
		cfg.Reload.Watch = true
	}

	st, err := store.Open(cfg.Storage.StoreConfig())
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	defer st.Close()

	registry := server.NewRegistry()
	if err := registry.Load(cfg); err != nil {
		return cli.NewConfigError("grids", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration valid (%d grids)\n", registry.Count())
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	tracer, err := tracing.New(cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(cfg.Telemetry.Metrics, promRegistry)

	sweeper := janitor.NewSweeper(cfg.Export.JanitorConfig(), collector)
	scheduler := janitor.NewScheduler(sweeper)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewConfigError("export.janitor.schedule", err.Error())
	}
	defer scheduler.Stop()

	checker := health.New(0)
	checker.RegisterCheck("storage", health.PingCheck(st))
	checker.RegisterCheck("tempdir", health.TempDirCheck(cfg.Export.TempDir))
	checker.RegisterCheck("grids", health.GridsCheck(registry.Count))

	reload := func() error {
		next, err := config.ReloadConfig(cfgFile)
		if err != nil {
			return err
		}
		if err := logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
			return err
		}
		return registry.Load(next)
	}
	if cfg.Reload.Watch && cfgFile != "" {
		if err := startWatcher(ctx, cfg, reload); err != nil {
			return cli.NewCommandError("serve", err)
		}
	}
	go reloadOnSignal(ctx, reload)

	srv := server.NewServer(cfg.Server, server.Dependencies{
		Registry:    registry,
		Store:       st,
		Exporter:    export.NewExporter(nil, collector),
		Metrics:     collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Health:      checker,
		Version:     versionInfo(),
	})

	slog.Info("gridexport starting",
		"version", Version,
		"config", cfgFile,
		"grids", registry.IDs(),
		"storage", cfg.Storage.Path,
		"tracing", tracer.Enabled(),
	)

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("serve", err)
	}
	return nil
}

func startWatcher(ctx context.Context, cfg *config.Config, reload func() error) error {
	watcher, err := config.NewWatcher(cfgFile, cfg.Reload.Debounce)
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Stop()
		if err := watcher.Watch(ctx, reload); err != nil {
			slog.Error("config watcher stopped", "error", err)
		}
	}()
	return nil
}

// reloadOnSignal reloads the configuration on SIGHUP until ctx is done.
func reloadOnSignal(ctx context.Context, reload func() error) {
	sigChan, stop := cli.ReloadSignal()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigChan:
			if cfgFile == "" {
				slog.Warn("SIGHUP received but no config file to reload")
				continue
			}
			if err := reload(); err != nil {
				slog.Error("config reload failed", "error", err)
				continue
			}
			slog.Info("config reloaded", "path", cfgFile, "trigger", "sighup")
		}
	}
}
