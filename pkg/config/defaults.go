package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Storage defaults
	DefaultStorageDriver       = "sqlite"
	DefaultStoragePath         = "data/gridexport.db"
	DefaultStorageMaxOpenConns = 4
	DefaultStorageBusyTimeout  = 5 * time.Second

	// Export defaults
	DefaultExportFileName             = "exported.xls"
	DefaultExportMaxCleanupIterations = 100
	DefaultExportCSVDelimiter         = ","
	DefaultJanitorSchedule            = "*/30 * * * *"
	DefaultJanitorMaxAge              = time.Hour

	// Grid defaults
	DefaultGridPageSize = 20

	// Reload defaults
	DefaultReloadDebounce = 250 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "gridexport"
	DefaultTracingSampler   = "ratio"
	DefaultTracingRatio     = 0.1
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingService   = "gridexport"
)

// ApplyDefaults fills every unset field of cfg with its default value.
// Fields that are already set are left unchanged.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Storage defaults
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.MaxOpenConns == 0 {
		cfg.Storage.MaxOpenConns = DefaultStorageMaxOpenConns
	}
	if cfg.Storage.BusyTimeout == 0 {
		cfg.Storage.BusyTimeout = DefaultStorageBusyTimeout
	}

	// Export defaults
	if cfg.Export.DefaultFileName == "" {
		cfg.Export.DefaultFileName = DefaultExportFileName
	}
	if cfg.Export.MaxCleanupIterations == 0 {
		cfg.Export.MaxCleanupIterations = DefaultExportMaxCleanupIterations
	}
	if cfg.Export.CSVDelimiter == "" {
		cfg.Export.CSVDelimiter = DefaultExportCSVDelimiter
	}
	if cfg.Export.Janitor.Schedule == "" {
		cfg.Export.Janitor.Schedule = DefaultJanitorSchedule
	}
	if cfg.Export.Janitor.MaxAge == 0 {
		cfg.Export.Janitor.MaxAge = DefaultJanitorMaxAge
	}

	// Grid defaults
	for i := range cfg.Grids {
		g := &cfg.Grids[i]
		if g.PageSize == 0 {
			g.PageSize = DefaultGridPageSize
		}
	}

	// Reload defaults
	if cfg.Reload.Debounce == 0 {
		cfg.Reload.Debounce = DefaultReloadDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.Sampler == DefaultTracingSampler && cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
}

// Default returns a configuration with every default applied and no grids.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
