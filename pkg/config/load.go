package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDEXPORT_"

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads configuration from a YAML file at path. It applies
// default values and validates the result. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies GRIDEXPORT_* environment overrides, which take precedence over
// the file. An empty path starts from the defaults.
//
// The loading sequence is:
//  1. Load YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies GRIDEXPORT_SECTION_FIELD variables. Malformed
// values are reported instead of being ignored.
func applyEnvOverrides(cfg *Config) error {
	var errs []FieldError

	str := func(name string, dst *string) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			*dst = val
		}
	}
	dur := func(name string, dst *time.Duration) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: "invalid duration " + strconv.Quote(val)})
				return
			}
			*dst = d
		}
	}
	integer := func(name string, dst *int) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: "invalid integer " + strconv.Quote(val)})
				return
			}
			*dst = i
		}
	}
	boolean := func(name string, dst *bool) {
		if val := os.Getenv(EnvPrefix + name); val != "" {
			b, err := strconv.ParseBool(val)
			if err != nil {
				errs = append(errs, FieldError{Field: EnvPrefix + name, Message: "invalid boolean " + strconv.Quote(val)})
				return
			}
			*dst = b
		}
	}
	boolPtr := func(name string, dst **bool) {
		var b bool
		if os.Getenv(EnvPrefix+name) == "" {
			return
		}
		n := len(errs)
		boolean(name, &b)
		if len(errs) == n {
			*dst = &b
		}
	}

	// Server overrides
	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	dur("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	dur("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	dur("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	dur("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Storage overrides
	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("STORAGE_PATH", &cfg.Storage.Path)
	integer("STORAGE_MAX_OPEN_CONNS", &cfg.Storage.MaxOpenConns)
	boolPtr("STORAGE_WAL_MODE", &cfg.Storage.WALMode)
	dur("STORAGE_BUSY_TIMEOUT", &cfg.Storage.BusyTimeout)

	// Export overrides
	str("EXPORT_TEMP_DIR", &cfg.Export.TempDir)
	str("EXPORT_DEFAULT_FILE_NAME", &cfg.Export.DefaultFileName)
	integer("EXPORT_MAX_CLEANUP_ITERATIONS", &cfg.Export.MaxCleanupIterations)
	str("EXPORT_CSV_DELIMITER", &cfg.Export.CSVDelimiter)
	boolean("EXPORT_PDF_OPTIMIZE", &cfg.Export.PDFOptimize)
	str("EXPORT_JANITOR_SCHEDULE", &cfg.Export.Janitor.Schedule)
	dur("EXPORT_JANITOR_MAX_AGE", &cfg.Export.Janitor.MaxAge)

	// Reload overrides
	boolean("RELOAD_WATCH", &cfg.Reload.Watch)

	// Telemetry overrides
	str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	boolPtr("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}
