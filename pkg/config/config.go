package config

import (
	"time"

	"mercator-hq/gridexport/pkg/grid"
)

// Config is the root configuration structure for gridexport.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `yaml:"server"`

	// Storage selects the SQLite database grid records are read from.
	Storage StorageConfig `yaml:"storage"`

	// Export contains process-wide export settings.
	Export ExportConfig `yaml:"export"`

	// Grids lists the grids served at /grids/{id}.
	Grids []GridConfig `yaml:"grids"`

	// Reload controls watching the configuration file for changes.
	Reload ReloadWatchConfig `yaml:"reload"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout bounds writing a response, including export downloads.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	// Driver is "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/gridexport.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the connection pool limit.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode *bool `yaml:"wal_mode"`

	// BusyTimeout is how long to wait for database locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// ExportConfig contains settings shared by every grid export.
type ExportConfig struct {
	// TempDir is where serialized documents are staged before streaming.
	// Empty uses the system temporary directory.
	TempDir string `yaml:"temp_dir"`

	// DefaultFileName is used by grids without a file name.
	// Default: "exported.xls"
	DefaultFileName string `yaml:"default_file_name"`

	// MaxCleanupIterations bounds output scope suppression.
	// Default: 100
	MaxCleanupIterations int `yaml:"max_cleanup_iterations"`

	// CSVDelimiter is the CSV field separator.
	// Default: ","
	CSVDelimiter string `yaml:"csv_delimiter"`

	// PDFOptimize runs generated PDFs through an optimization pass.
	// Default: false
	PDFOptimize bool `yaml:"pdf_optimize"`

	// Janitor removes temporary files left behind by interrupted exports.
	Janitor JanitorConfig `yaml:"janitor"`
}

// JanitorConfig configures the temporary file sweeper.
type JanitorConfig struct {
	// Schedule is a cron expression. Empty disables the janitor.
	// Default: "*/30 * * * *"
	Schedule string `yaml:"schedule"`

	// MaxAge is the age after which temporary files are removed.
	// Default: 1h
	MaxAge time.Duration `yaml:"max_age"`
}

// GridConfig describes one grid.
type GridConfig struct {
	// ID identifies the grid in URLs and in the export trigger.
	ID string `yaml:"id"`

	// Title is shown on the page and stored in exported documents.
	Title string `yaml:"title"`

	// Table is the table or view records are read from.
	Table string `yaml:"table"`

	// Key is the record key column. Empty uses record positions.
	Key string `yaml:"key"`

	// OrderBy lists sort columns; prefix with "-" for descending.
	OrderBy []string `yaml:"order_by"`

	// PageSize is the number of records per page.
	// Default: 20
	PageSize int `yaml:"page_size"`

	// Layout arranges {summary}, {items}, {export} and {pager}.
	Layout string `yaml:"layout"`

	// EmptyCell is shown on screen for empty values.
	// Default: "&nbsp;"
	EmptyCell string `yaml:"empty_cell"`

	// ShowFooter renders the footer row on screen. Exports always include it.
	ShowFooter bool `yaml:"show_footer"`

	// Columns are the display columns.
	Columns []grid.ColumnSpec `yaml:"columns"`

	// ExportColumns replace Columns in exports when set.
	ExportColumns []grid.ColumnSpec `yaml:"export_columns"`

	// Export configures the export of this grid.
	Export GridExportConfig `yaml:"export"`
}

// GridExportConfig configures one grid's export.
type GridExportConfig struct {
	// Enabled allows the grid to be exported.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// FileName is the download name; its extension selects the format
	// unless Format is set.
	// Default: export.default_file_name
	FileName string `yaml:"file_name"`

	// Format names the writer explicitly: Xls, Xlsx, Ods, Csv, Html,
	// Tcpdf, Dompdf or Mpdf.
	Format string `yaml:"format"`

	// MimeType is the response Content-Type.
	// Default: application/octet-stream
	MimeType string `yaml:"mime_type"`

	// Inline asks browsers to display the document instead of saving it.
	Inline bool `yaml:"inline"`

	// Link configures the export link.
	Link LinkConfig `yaml:"link"`
}

// LinkConfig configures the export link.
type LinkConfig struct {
	// Label is the link text.
	// Default: "Export"
	Label string `yaml:"label"`

	// Encode escapes Label.
	// Default: true
	Encode *bool `yaml:"encode"`

	// Attributes replace the default link attributes
	// (class "btn btn-default", target "_blank").
	Attributes map[string]string `yaml:"attributes"`
}

// ReloadWatchConfig controls configuration file watching.
type ReloadWatchConfig struct {
	// Watch reloads grid definitions when the file changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is the quiet period before a reload.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample when Sampler is "ratio".
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS for the collector connection.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export to the collector.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service name in traces.
	// Default: "gridexport"
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "gridexport"
	Namespace string `yaml:"namespace"`
}

// Grid returns the grid configuration with the given id.
func (c *Config) Grid(id string) (*GridConfig, bool) {
	for i := range c.Grids {
		if c.Grids[i].ID == id {
			return &c.Grids[i], true
		}
	}
	return nil, false
}

// FileName returns the download name of grid g.
func (c *Config) FileName(g *GridConfig) string {
	if g.Export.FileName != "" {
		return g.Export.FileName
	}
	return c.Export.DefaultFileName
}

// WAL reports whether write-ahead logging is enabled.
func (s StorageConfig) WAL() bool {
	return s.WALMode == nil || *s.WALMode
}

// IsEnabled reports whether the grid may be exported.
func (g GridExportConfig) IsEnabled() bool {
	return g.Enabled == nil || *g.Enabled
}

// ShouldEncode reports whether the link label is escaped.
func (l LinkConfig) ShouldEncode() bool {
	return l.Encode == nil || *l.Encode
}

// IsEnabled reports whether metrics are served.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}
