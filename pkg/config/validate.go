package config

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/robfig/cron/v3"

	"mercator-hq/gridexport/pkg/export/writer"
	"mercator-hq/gridexport/pkg/grid"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// listing every failed rule, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateGrids(cfg.Grids)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if cfg.Reload.Debounce < 0 {
		errs = append(errs, FieldError{Field: "reload.debounce", Message: "debounce must be non-negative"})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	if cfg.Driver != "sqlite" && cfg.Driver != "sqlite3" {
		errs = append(errs, FieldError{
			Field:   "storage.driver",
			Message: fmt.Sprintf("driver must be \"sqlite\" or \"sqlite3\", got %q", cfg.Driver),
		})
	}
	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "storage.path",
			Message: "database path is required",
		})
	}
	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "storage.busy_timeout",
			Message: "busy timeout must be positive",
		})
	}
	return errs
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxCleanupIterations <= 0 {
		errs = append(errs, FieldError{
			Field:   "export.max_cleanup_iterations",
			Message: "max cleanup iterations must be positive",
		})
	}
	if utf8.RuneCountInString(cfg.CSVDelimiter) != 1 || cfg.CSVDelimiter == "\"" || cfg.CSVDelimiter == "\n" || cfg.CSVDelimiter == "\r" {
		errs = append(errs, FieldError{
			Field:   "export.csv_delimiter",
			Message: fmt.Sprintf("delimiter must be a single character other than quote or newline, got %q", cfg.CSVDelimiter),
		})
	}
	if cfg.Janitor.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Janitor.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "export.janitor.schedule",
				Message: fmt.Sprintf("invalid cron schedule: %v", err),
			})
		}
	}
	if cfg.Janitor.MaxAge < 0 {
		errs = append(errs, FieldError{
			Field:   "export.janitor.max_age",
			Message: "max age must be positive",
		})
	}
	return errs
}

var (
	gridIDPattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

func validateGrids(grids []GridConfig) []FieldError {
	var errs []FieldError
	formats := writer.DefaultRegistry()
	seen := make(map[string]bool, len(grids))

	for i, g := range grids {
		prefix := fmt.Sprintf("grids[%d]", i)

		switch {
		case g.ID == "":
			errs = append(errs, FieldError{Field: prefix + ".id", Message: "grid id is required"})
		case !gridIDPattern.MatchString(g.ID):
			errs = append(errs, FieldError{Field: prefix + ".id", Message: fmt.Sprintf("grid id %q may only contain letters, digits, '-' and '_'", g.ID)})
		case seen[g.ID]:
			errs = append(errs, FieldError{Field: prefix + ".id", Message: fmt.Sprintf("duplicate grid id %q", g.ID)})
		}
		seen[g.ID] = true

		if !identifierPattern.MatchString(g.Table) {
			errs = append(errs, FieldError{Field: prefix + ".table", Message: fmt.Sprintf("invalid table name %q", g.Table)})
		}
		if g.Key != "" && !identifierPattern.MatchString(g.Key) {
			errs = append(errs, FieldError{Field: prefix + ".key", Message: fmt.Sprintf("invalid column name %q", g.Key)})
		}
		for j, o := range g.OrderBy {
			if !identifierPattern.MatchString(strings.TrimPrefix(o, "-")) {
				errs = append(errs, FieldError{Field: fmt.Sprintf("%s.order_by[%d]", prefix, j), Message: fmt.Sprintf("invalid column name %q", o)})
			}
		}
		if g.PageSize < 0 {
			errs = append(errs, FieldError{Field: prefix + ".page_size", Message: "page size must be positive"})
		}

		if len(g.Columns) == 0 {
			errs = append(errs, FieldError{Field: prefix + ".columns", Message: "at least one column is required"})
		} else if _, err := grid.BuildColumns(g.Columns, "", 0); err != nil {
			errs = append(errs, FieldError{Field: prefix + ".columns", Message: err.Error()})
		}
		if _, err := grid.BuildColumns(g.ExportColumns, "", 0); err != nil {
			errs = append(errs, FieldError{Field: prefix + ".export_columns", Message: err.Error()})
		}

		if g.Export.Format != "" && !formats.Has(writer.Format(g.Export.Format)) {
			errs = append(errs, FieldError{
				Field:   prefix + ".export.format",
				Message: fmt.Sprintf("unknown format %q (known: %v)", g.Export.Format, formats.Formats()),
			})
		}
	}
	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("level must be one of debug, info, warn, error; got %q", cfg.Logging.Level),
		})
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("format must be json or text; got %q", cfg.Logging.Format),
		})
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with '/'",
		})
	}

	tr := cfg.Tracing
	switch tr.Sampler {
	case "always", "never":
	case "ratio":
		if tr.SampleRatio < 0 || tr.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: fmt.Sprintf("sample ratio must be between 0.0 and 1.0, got %g", tr.SampleRatio),
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("sampler must be always, never or ratio; got %q", tr.Sampler),
		})
	}
	if tr.Enabled && tr.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "endpoint is required when tracing is enabled",
		})
	}
	return errs
}
