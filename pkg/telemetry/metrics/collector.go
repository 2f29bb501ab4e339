package metrics

import (
	"sync"
	"time"

	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/export/janitor"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns every gridexport metric and the registry they live on.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	exportMetrics  *ExportMetrics
	janitorMetrics *JanitorMetrics
	httpMetrics    *HTTPMetrics

	// Cardinality tracking for user controlled labels
	cardinalityLimiter *CardinalityLimiter
}

var (
	_ export.MetricsRecorder = (*Collector)(nil)
	_ janitor.Recorder       = (*Collector)(nil)
)

// NewCollector creates a collector registering its metrics on registry. A nil
// registry gets a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		enabled:            cfg.IsEnabled(),
		registry:           registry,
		exportMetrics:      NewExportMetrics(namespace, registry),
		janitorMetrics:     NewJanitorMetrics(namespace, registry),
		httpMetrics:        NewHTTPMetrics(namespace, registry),
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Enabled reports whether recording is active.
func (c *Collector) Enabled() bool {
	return c.enabled
}

// RecordExport records one export attempt.
func (c *Collector) RecordExport(format, status string, duration time.Duration, rows int, bytes int64) {
	if !c.enabled {
		return
	}
	if format == "" {
		format = "unknown"
	}
	c.exportMetrics.RecordExport(format, status, duration, rows, bytes)
}

// RecordSuppression records the outcome of output suppression before an
// export is streamed.
func (c *Collector) RecordSuppression(discarded int, aborted bool) {
	if !c.enabled {
		return
	}
	c.exportMetrics.RecordSuppression(discarded, aborted)
}

// RecordSweep records the number of temporary files a janitor sweep removed.
func (c *Collector) RecordSweep(removed int) {
	if !c.enabled {
		return
	}
	c.janitorMetrics.RecordSweep(removed)
}

// RecordHTTPRequest records a served HTTP request. Grid IDs beyond the
// cardinality limit are folded into "other".
func (c *Collector) RecordHTTPRequest(route, grid string, code int, duration time.Duration) {
	if !c.enabled {
		return
	}
	if grid != "" && !c.cardinalityLimiter.Allow(grid) {
		grid = "other"
	}
	c.httpMetrics.RecordRequest(route, grid, code, duration)
}

// CardinalityLimiter caps the number of distinct values a label may take.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or still fits under the
// limit.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[value]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}
	cl.current[value] = struct{}{}
	return true
}

// Size returns the number of tracked values.
func (cl *CardinalityLimiter) Size() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
