// Package metrics provides Prometheus metrics collection for gridexport.
//
// # Metrics Categories
//
//   - Export Metrics: exports by format and outcome, duration, rows, bytes
//     and discarded output scopes
//   - Janitor Metrics: stale temporary files removed by the sweeper
//   - HTTP Metrics: grid page requests by route and status code
//
// # Usage
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	exporter := export.NewExporter(nil, collector)
//	sweeper := janitor.NewSweeper(janitorCfg, collector)
//	router.Handle("/metrics", collector.Handler())
//
// Collector satisfies export.MetricsRecorder and janitor.Recorder. All metrics
// are registered on the injected registry so tests can use a fresh one.
package metrics
