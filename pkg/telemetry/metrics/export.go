package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks grid exports.
//
// Metrics:
//   - gridexport_exports_total: exports by format and status
//   - gridexport_export_duration_seconds: end to end export duration
//   - gridexport_export_rows: rows per successful export, footer included
//   - gridexport_export_bytes: streamed document size
//   - gridexport_output_scopes_discarded_total: output scopes discarded before streaming
//   - gridexport_output_suppression_aborted_total: suppressions stopped by the iteration bound
type ExportMetrics struct {
	exportsTotal      *prometheus.CounterVec
	exportDuration    *prometheus.HistogramVec
	exportRows        *prometheus.HistogramVec
	exportBytes       *prometheus.HistogramVec
	scopesDiscarded   prometheus.Counter
	suppressionAborts prometheus.Counter
}

// NewExportMetrics creates and registers export metrics.
func NewExportMetrics(namespace string, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		exportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "exports_total",
				Help:      "Total number of grid exports by format and status",
			},
			[]string{"format", "status"},
		),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_duration_seconds",
				Help:      "Duration of grid exports in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"format"},
		),
		exportRows: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_rows",
				Help:      "Number of rows in exported documents",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8), // 10 to ~160K
			},
			[]string{"format"},
		),
		exportBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "export_bytes",
				Help:      "Size of exported documents in bytes",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 9), // 1KB to 64MB
			},
			[]string{"format"},
		),
		scopesDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "output_scopes_discarded_total",
				Help:      "Output buffer scopes discarded before streaming an export",
			},
		),
		suppressionAborts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "output_suppression_aborted_total",
				Help:      "Output suppressions stopped by the iteration bound",
			},
		),
	}

	registry.MustRegister(
		em.exportsTotal,
		em.exportDuration,
		em.exportRows,
		em.exportBytes,
		em.scopesDiscarded,
		em.suppressionAborts,
	)
	return em
}

// RecordExport records one export attempt. Size histograms only observe
// successful exports.
func (em *ExportMetrics) RecordExport(format, status string, duration time.Duration, rows int, bytes int64) {
	em.exportsTotal.WithLabelValues(format, status).Inc()
	em.exportDuration.WithLabelValues(format).Observe(duration.Seconds())
	if status != "success" {
		return
	}
	em.exportRows.WithLabelValues(format).Observe(float64(rows))
	em.exportBytes.WithLabelValues(format).Observe(float64(bytes))
}

// RecordSuppression records discarded scopes and aborted suppressions.
func (em *ExportMetrics) RecordSuppression(discarded int, aborted bool) {
	if discarded > 0 {
		em.scopesDiscarded.Add(float64(discarded))
	}
	if aborted {
		em.suppressionAborts.Inc()
	}
}

// JanitorMetrics tracks temporary file cleanup.
type JanitorMetrics struct {
	sweepsTotal prometheus.Counter
	filesSwept  prometheus.Counter
}

// NewJanitorMetrics creates and registers janitor metrics.
func NewJanitorMetrics(namespace string, registry *prometheus.Registry) *JanitorMetrics {
	jm := &JanitorMetrics{
		sweepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "janitor_sweeps_total",
			Help:      "Total number of temporary file sweeps",
		}),
		filesSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tempfiles_swept_total",
			Help:      "Stale export temporary files removed",
		}),
	}
	registry.MustRegister(jm.sweepsTotal, jm.filesSwept)
	return jm
}

// RecordSweep records a completed sweep.
func (jm *JanitorMetrics) RecordSweep(removed int) {
	jm.sweepsTotal.Inc()
	if removed > 0 {
		jm.filesSwept.Add(float64(removed))
	}
}

// HTTPMetrics tracks requests served by the grid server.
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers HTTP metrics.
func NewHTTPMetrics(namespace string, registry *prometheus.Registry) *HTTPMetrics {
	hm := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route, grid and status code",
			},
			[]string{"route", "grid", "code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
	registry.MustRegister(hm.requestsTotal, hm.requestDuration)
	return hm
}

// RecordRequest records a served request.
func (hm *HTTPMetrics) RecordRequest(route, grid string, code int, duration time.Duration) {
	hm.requestsTotal.WithLabelValues(route, grid, strconv.Itoa(code)).Inc()
	hm.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
