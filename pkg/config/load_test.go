package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: "10s"

storage:
  path: "./test.db"
  wal_mode: false

export:
  temp_dir: "/tmp/exports"
  csv_delimiter: ";"
  janitor:
    schedule: "0 * * * *"
    max_age: "2h"

grids:
  - id: users
    title: Users
    table: users
    key: id
    order_by: ["-created_at"]
    columns:
      - type: serial
      - attribute: name
      - attribute: balance
        format: decimal
    export_columns:
      - attribute: name
      - attribute: email
    export:
      file_name: users.xlsx
      link:
        label: "Download"
        encode: false

telemetry:
  logging:
    level: debug
    format: text
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridexport.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("write timeout default not applied: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.WAL() {
		t.Error("wal_mode: false not honoured")
	}
	if cfg.Export.Janitor.MaxAge != 2*time.Hour {
		t.Errorf("janitor max age = %v", cfg.Export.Janitor.MaxAge)
	}

	g, ok := cfg.Grid("users")
	if !ok {
		t.Fatal("grid users not found")
	}
	if g.PageSize != DefaultGridPageSize {
		t.Errorf("page size = %d", g.PageSize)
	}
	if len(g.Columns) != 3 || g.Columns[2].Format != "decimal" {
		t.Errorf("columns = %+v", g.Columns)
	}
	if !g.Export.IsEnabled() {
		t.Error("export should default to enabled")
	}
	if g.Export.Link.ShouldEncode() || g.Export.Link.Label != "Download" {
		t.Errorf("link = %+v", g.Export.Link)
	}
	if cfg.FileName(g) != "users.xlsx" {
		t.Errorf("FileName() = %q", cfg.FileName(g))
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "server: [unterminated")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
storage:
  driver: postgres
grids:
  - id: users
    table: "users; drop"
    columns: []
`))

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := make(map[string]bool)
	for _, fe := range verr.Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"storage.driver", "grids[0].table", "grids[0].columns"} {
		if !fields[want] {
			t.Errorf("missing error for %s in %v", want, verr)
		}
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, sampleConfig)

	t.Setenv("GRIDEXPORT_SERVER_LISTEN_ADDRESS", "127.0.0.1:7000")
	t.Setenv("GRIDEXPORT_STORAGE_DRIVER", "sqlite3")
	t.Setenv("GRIDEXPORT_STORAGE_WAL_MODE", "true")
	t.Setenv("GRIDEXPORT_EXPORT_MAX_CLEANUP_ITERATIONS", "5")
	t.Setenv("GRIDEXPORT_EXPORT_JANITOR_MAX_AGE", "30m")
	t.Setenv("GRIDEXPORT_TELEMETRY_METRICS_ENABLED", "false")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7000" {
		t.Errorf("listen address = %q", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Driver != "sqlite3" || !cfg.Storage.WAL() {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Export.MaxCleanupIterations != 5 || cfg.Export.Janitor.MaxAge != 30*time.Minute {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Telemetry.Metrics.IsEnabled() {
		t.Error("metrics should be disabled")
	}
}

func TestLoadConfigWithEnvOverrides_Malformed(t *testing.T) {
	t.Setenv("GRIDEXPORT_SERVER_READ_TIMEOUT", "soon")
	t.Setenv("GRIDEXPORT_RELOAD_WATCH", "maybe")

	_, err := LoadConfigWithEnvOverrides("")
	if err == nil {
		t.Fatal("expected error for malformed overrides")
	}
	for _, want := range []string{"GRIDEXPORT_SERVER_READ_TIMEOUT", "GRIDEXPORT_RELOAD_WATCH"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadConfigWithEnvOverrides_NoFile(t *testing.T) {
	t.Setenv("GRIDEXPORT_STORAGE_PATH", ":memory:")

	cfg, err := LoadConfigWithEnvOverrides("")
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}
	if cfg.Storage.Path != ":memory:" || len(cfg.Grids) != 0 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestReloadConfig(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() failed: %v", err)
	}
	t.Cleanup(func() { SetConfig(nil) })

	before := GetConfig()
	if err := os.WriteFile(path, []byte("storage:\n  driver: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReloadConfig(path); err == nil {
		t.Fatal("expected reload error")
	}
	if GetConfig() != before {
		t.Error("failed reload replaced the configuration")
	}

	if err := os.WriteFile(path, []byte("server:\n  listen_address: \":1\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := ReloadConfig(path)
	if err != nil {
		t.Fatalf("ReloadConfig() failed: %v", err)
	}
	if GetConfig() != cfg || cfg.Server.ListenAddress != ":1" {
		t.Error("reload did not replace the configuration")
	}
}
