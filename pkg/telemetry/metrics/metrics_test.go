package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/gridexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func boolPtr(b bool) *bool { return &b }

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{Enabled: boolPtr(true), Namespace: "test"}
}

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("expected collector to be enabled")
	}

	fresh := NewCollector(config.MetricsConfig{}, nil)
	if fresh.Registry() == nil {
		t.Error("expected a registry to be created")
	}
}

func TestCollector_RecordExport(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		name   string
		format string
		status string
		rows   int
		bytes  int64
	}{
		{"csv success", "Csv", "success", 5, 120},
		{"xlsx success", "Xlsx", "success", 100, 8192},
		{"empty grid", "Xls", "empty", 0, 0},
		{"unsupported", "", "unsupported_format", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector.RecordExport(tt.format, tt.status, 20*time.Millisecond, tt.rows, tt.bytes)
		})
	}

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("Csv", "success")); got != 1 {
		t.Errorf("csv success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(em.exportsTotal.WithLabelValues("unknown", "unsupported_format")); got != 1 {
		t.Errorf("unknown format = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(em.exportsTotal); got != 4 {
		t.Errorf("exports_total series = %d, want 4", got)
	}
	// only successes reach the size histograms
	if got := testutil.CollectAndCount(em.exportRows); got != 2 {
		t.Errorf("export_rows series = %d, want 2", got)
	}
}

func TestCollector_RecordSuppression(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordSuppression(3, false)
	collector.RecordSuppression(0, false)
	collector.RecordSuppression(100, true)

	em := collector.exportMetrics
	if got := testutil.ToFloat64(em.scopesDiscarded); got != 103 {
		t.Errorf("scopes discarded = %v, want 103", got)
	}
	if got := testutil.ToFloat64(em.suppressionAborts); got != 1 {
		t.Errorf("aborts = %v, want 1", got)
	}
}

func TestCollector_RecordSweep(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordSweep(2)
	collector.RecordSweep(0)

	jm := collector.janitorMetrics
	if got := testutil.ToFloat64(jm.sweepsTotal); got != 2 {
		t.Errorf("sweeps = %v, want 2", got)
	}
	if got := testutil.ToFloat64(jm.filesSwept); got != 2 {
		t.Errorf("files swept = %v, want 2", got)
	}
}

func TestCollector_RecordHTTPRequest(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(1)

	collector.RecordHTTPRequest("/grids/{gridID}", "users", 200, time.Millisecond)
	collector.RecordHTTPRequest("/grids/{gridID}", "orders", 404, time.Millisecond)

	hm := collector.httpMetrics
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("/grids/{gridID}", "users", "200")); got != 1 {
		t.Errorf("users = %v, want 1", got)
	}
	if got := testutil.ToFloat64(hm.requestsTotal.WithLabelValues("/grids/{gridID}", "other", "404")); got != 1 {
		t.Errorf("other = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = boolPtr(false)
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordExport("Csv", "success", time.Second, 1, 1)
	collector.RecordSuppression(1, true)
	collector.RecordSweep(1)
	collector.RecordHTTPRequest("/health", "", 200, time.Millisecond)

	if got := testutil.CollectAndCount(collector.exportMetrics.exportsTotal); got != 0 {
		t.Errorf("exports_total series = %d, want 0", got)
	}
	if got := testutil.ToFloat64(collector.janitorMetrics.sweepsTotal); got != 0 {
		t.Errorf("sweeps = %v, want 0", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	limiter := NewCardinalityLimiter(2)

	for _, v := range []string{"a", "b", "a"} {
		if !limiter.Allow(v) {
			t.Errorf("Allow(%q) = false, want true", v)
		}
	}
	if limiter.Allow("c") {
		t.Error("Allow(c) = true past the limit")
	}
	if limiter.Size() != 2 {
		t.Errorf("Size() = %d, want 2", limiter.Size())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordExport("Csv", "success", time.Millisecond, 3, 42)

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`test_exports_total{format="Csv",status="success"} 1`,
		"test_export_duration_seconds",
		"test_tempfiles_swept_total",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}
