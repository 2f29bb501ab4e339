package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"mercator-hq/gridexport/pkg/export/sheet"
	"mercator-hq/gridexport/pkg/export/writer"
)

// DefaultFileName is the download name used when none is configured.
const DefaultFileName = "exported.xls"

// Export status labels reported to MetricsRecorder.
const (
	StatusSuccess     = "success"
	StatusEmpty       = "empty"
	StatusUnsupported = "unsupported_format"
	StatusError       = "error"
)

// MetricsRecorder receives export telemetry. A nil recorder disables it.
type MetricsRecorder interface {
	RecordExport(format, status string, duration time.Duration, rows int, bytes int64)
	RecordSuppression(discarded int, aborted bool)
}

// Options configures one export.
type Options struct {
	// FileName is the name the document is delivered under.
	// Default: "exported.xls"
	FileName string

	// Format selects the writer explicitly. Empty derives it from FileName.
	Format writer.Format

	// Title is stored as document metadata by writers that support it.
	Title string

	// Send controls MIME type and disposition of the response.
	Send SendOptions

	// TempDir is where the transient file is created. Empty uses os.TempDir.
	TempDir string

	// MaxCleanupIterations bounds output scope suppression.
	// Default: 100
	MaxCleanupIterations int

	// Writer is passed to the writer backend.
	Writer writer.Options
}

func (o Options) fileName() string {
	if o.FileName == "" {
		return DefaultFileName
	}
	return o.FileName
}

// Request is everything one export operation needs. A Request must not be
// reused across exports.
type Request struct {
	Columns   []Column
	Records   RecordSet
	Sink      OutputSink
	Responder Responder
	Options   Options
}

// Result describes a completed export.
type Result struct {
	Format      writer.Format
	FileName    string
	Rows        int
	Bytes       int64
	Suppression SuppressionReport

	// Sent is true once the response has been finalized. Callers must not
	// render anything else after that.
	Sent bool
}

// Exporter runs the export pipeline.
type Exporter struct {
	registry *writer.Registry
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// NewExporter creates an Exporter using backends from registry. A nil
// registry uses writer.DefaultRegistry.
func NewExporter(registry *writer.Registry, metrics MetricsRecorder) *Exporter {
	if registry == nil {
		registry = writer.DefaultRegistry()
	}
	return &Exporter{
		registry: registry,
		metrics:  metrics,
		logger:   slog.Default().With("component", "export"),
	}
}

// Registry returns the writer registry used for format resolution.
func (e *Exporter) Registry() *writer.Registry {
	return e.registry
}

// Export materializes, serializes and streams the request's grid. On success
// the returned Result has Sent set. Writer backend errors are returned
// unmodified; nothing is streamed when any step fails.
func (e *Exporter) Export(ctx context.Context, req *Request) (*Result, error) {
	start := time.Now()
	opts := req.Options
	fileName := opts.fileName()

	result := &Result{FileName: fileName, Format: opts.Format}
	err := e.run(ctx, req, result)

	status := StatusSuccess
	var emptyErr *NothingToExportError
	var formatErr *UnsupportedFormatError
	switch {
	case err == nil:
	case errors.As(err, &emptyErr):
		status = StatusEmpty
	case errors.As(err, &formatErr):
		status = StatusUnsupported
	default:
		status = StatusError
	}

	if e.metrics != nil {
		e.metrics.RecordExport(string(result.Format), status, time.Since(start), result.Rows, result.Bytes)
	}

	if err != nil {
		e.logger.WarnContext(ctx, "export failed",
			"file_name", fileName,
			"format", result.Format,
			"status", status,
			"error", err,
		)
		return nil, err
	}

	e.logger.InfoContext(ctx, "export sent",
		"file_name", fileName,
		"format", result.Format,
		"rows", result.Rows,
		"bytes", result.Bytes,
		"scopes_discarded", result.Suppression.Discarded,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (e *Exporter) run(ctx context.Context, req *Request, result *Result) error {
	opts := req.Options

	records := 0
	if req.Records != nil {
		records = req.Records.Count()
	}
	if records <= 0 || len(req.Columns) == 0 {
		return NewNothingToExportError(records, len(req.Columns))
	}
	if req.Responder == nil {
		return fmt.Errorf("export: no responder")
	}

	table := NewMaterializer(req.Columns, req.Records).Materialize()
	SanitizeTable(table)
	result.Rows = table.Len()

	doc := sheet.New()
	doc.SetTitle(opts.Title)
	doc.ActiveSheet().FromRows(table.Rows())

	format, err := ResolveFormat(e.registry, opts.Format, result.FileName)
	if err != nil {
		return err
	}
	result.Format = format

	result.Suppression = SuppressOutput(req.Sink, opts.MaxCleanupIterations)
	if e.metrics != nil && req.Sink != nil {
		e.metrics.RecordSuppression(result.Suppression.Discarded, result.Suppression.Aborted)
	}
	if result.Suppression.Aborted {
		e.logger.DebugContext(ctx, "output suppression stopped early",
			"discarded", result.Suppression.Discarded,
			"level", req.Sink.Level(),
		)
	}

	f, err := createTempFile(opts.TempDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := releaseTempFile(f); err != nil {
			e.logger.WarnContext(ctx, "failed to remove temporary export file",
				"path", f.Name(),
				"error", err,
			)
		}
	}()

	if err := e.serialize(doc, format, opts.Writer, f); err != nil {
		return err
	}

	size, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	result.Bytes = size

	if err := req.Responder.SendStream(result.FileName, size, f, opts.Send); err != nil {
		return err
	}
	result.Sent = true
	return nil
}

// serialize writes doc with a fresh backend and always closes the backend.
func (e *Exporter) serialize(doc *sheet.Document, format writer.Format, opts writer.Options, w io.Writer) error {
	wr, err := e.registry.New(format, opts)
	if err != nil {
		return NewUnsupportedFormatError(string(format), "")
	}

	writeErr := wr.Write(doc, w)
	closeErr := wr.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}
