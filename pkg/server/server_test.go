package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/store"
	"mercator-hq/gridexport/pkg/telemetry/health"
	"mercator-hq/gridexport/pkg/telemetry/metrics"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Grids = []config.GridConfig{
		{
			ID:      "users",
			Title:   "Users",
			Table:   "users",
			Key:     "id",
			OrderBy: []string{"id"},
			Columns: []grid.ColumnSpec{
				{Type: grid.ColumnSerial},
				{Attribute: "name"},
				{Attribute: "email"},
			},
			ExportColumns: []grid.ColumnSpec{
				{Attribute: "name"},
				{Attribute: "email"},
			},
			Export: config.GridExportConfig{
				FileName: "users.csv",
				MimeType: "text/csv",
			},
		},
		{
			ID:      "empty",
			Table:   "empty_things",
			Columns: []grid.ColumnSpec{{Attribute: "name"}},
		},
	}
	return cfg
}

type testEnv struct {
	handler   http.Handler
	registry  *Registry
	collector *metrics.Collector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := store.Open(store.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	if _, err := st.Seed(ctx, 3); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	if _, err := st.DB().ExecContext(ctx, "CREATE TABLE empty_things (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.Export.TempDir = t.TempDir()

	registry := NewRegistry()
	if err := registry.Load(cfg); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, prometheus.NewRegistry())
	checker := health.New(time.Second)
	checker.RegisterCheck("storage", health.PingCheck(st))
	checker.RegisterCheck("grids", health.GridsCheck(registry.Count))

	srv := NewServer(cfg.Server, Dependencies{
		Registry: registry,
		Store:    st,
		Exporter: export.NewExporter(nil, collector),
		Metrics:  collector,
		Health:   checker,
		Version:  health.VersionInfo{Version: "test"},
	})
	return &testEnv{handler: srv.Handler(), registry: registry, collector: collector}
}

func (e *testEnv) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGridPage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/grids/users")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<h1>Users</h1>",
		`<div id="users" class="grid-view">`,
		"Ada Lovelace",
		"Linus Lovelace",
		"export-container=users&amp;export-grid=1",
		"</html>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if rec.Header().Get("Content-Disposition") != "" {
		t.Error("page must not be sent as a download")
	}
}

func TestGridExport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/grids/users?export-grid=1&export-container=users")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, "attachment") || !strings.Contains(cd, "users.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	want := "Name,Email\n" +
		"Ada Lovelace,ada.lovelace.1@example.com\n" +
		"Grace Lovelace,grace.lovelace.2@example.com\n" +
		"Linus Lovelace,linus.lovelace.3@example.com\n" +
		",\n"
	if got := rec.Body.String(); got != want {
		t.Errorf("body =\n%q\nwant\n%q", got, want)
	}

	metricsRec := env.get(t, "/metrics")
	if !strings.Contains(metricsRec.Body.String(), `gridexport_exports_total{format="Csv",status="success"} 1`) {
		t.Errorf("export not recorded:\n%s", metricsRec.Body.String())
	}
}

func TestGridExport_OtherContainer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/grids/users?export-grid=1&export-container=orders")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "<h1>Users</h1>") {
		t.Errorf("expected the page, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestGridExport_NothingToExport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.get(t, "/grids/empty?export-grid=1&export-container=empty")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Nothing to export" || body["request_id"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestRoutes(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		target   string
		wantCode int
		contains string
	}{
		{"/grids/missing", http.StatusNotFound, "grid not found"},
		{"/grids", http.StatusOK, `"grids":["empty","users"]`},
		{"/health", http.StatusOK, `"status":"ok"`},
		{"/ready", http.StatusOK, `"status":"ready"`},
		{"/version", http.StatusOK, `"version":"test"`},
		{"/nowhere", http.StatusNotFound, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := env.get(t, tt.target)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestRegistry_Load(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Load(testConfig()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	bad := testConfig()
	bad.Grids = append(bad.Grids, config.GridConfig{ID: "broken", Table: "x; DROP", Columns: []grid.ColumnSpec{{Attribute: "a"}}})
	bad.Grids[0].Title = "Changed"
	if err := registry.Load(bad); err == nil {
		t.Fatal("expected error for invalid table name")
	}

	entry, ok := registry.Get("users")
	if !ok || entry.Definition.Title != "Users" {
		t.Error("failed reload must keep the previous grids")
	}
	if registry.Count() != 2 {
		t.Errorf("Count() = %d, want 2", registry.Count())
	}

	reload := testConfig()
	reload.Grids = reload.Grids[:1]
	reload.Export.CSVDelimiter = ";"
	if err := registry.Load(reload); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if registry.Count() != 1 {
		t.Errorf("Count() = %d, want 1", registry.Count())
	}
	if registry.ExportOptions().Writer.CSVDelimiter != ';' {
		t.Error("export options were not reloaded")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	env := newTestEnv(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := NewServer(config.ServerConfig{ShutdownTimeout: time.Second}, Dependencies{Registry: env.registry})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
