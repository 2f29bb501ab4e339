package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys. HTTP keys follow the OpenTelemetry semantic conventions;
// the rest use the "gridexport." namespace.
const (
	AttrHTTPMethod = "http.method"
	AttrHTTPTarget = "http.target"
	AttrHTTPRoute  = "http.route"

	AttrGridID     = "gridexport.grid.id"
	AttrExporting  = "gridexport.exporting"
	AttrFormat     = "gridexport.export.format"
	AttrFileName   = "gridexport.export.file_name"
	AttrRows       = "gridexport.export.rows"
	AttrBytes      = "gridexport.export.bytes"
	AttrSuppressed = "gridexport.output.scopes_discarded"
)

// SetGridAttributes tags span with the grid being served.
func SetGridAttributes(span trace.Span, gridID string, exporting bool) {
	span.SetAttributes(
		attribute.String(AttrGridID, gridID),
		attribute.Bool(AttrExporting, exporting),
	)
}

// SetExportAttributes tags span with the outcome of an export.
func SetExportAttributes(span trace.Span, format, fileName string, rows int, bytes int64) {
	span.SetAttributes(
		attribute.String(AttrFormat, format),
		attribute.String(AttrFileName, fileName),
		attribute.Int(AttrRows, rows),
		attribute.Int64(AttrBytes, bytes),
	)
}
