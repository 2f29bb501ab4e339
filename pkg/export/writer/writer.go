package writer

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// Format is the tag identifying a writer backend. Tags are spelled the way
// ResolveFormat derives them from file extensions: first letter upper case,
// rest lower case.
type Format string

const (
	// FormatXLS is the legacy Excel format (SpreadsheetML 2003).
	FormatXLS Format = "Xls"
	// FormatXLSX is the Office Open XML workbook format.
	FormatXLSX Format = "Xlsx"
	// FormatODS is the OpenDocument spreadsheet format.
	FormatODS Format = "Ods"
	// FormatCSV is comma separated text.
	FormatCSV Format = "Csv"
	// FormatHTML is a standalone HTML table document.
	FormatHTML Format = "Html"
	// FormatTCPDF renders a portrait A4 PDF.
	FormatTCPDF Format = "Tcpdf"
	// FormatDOMPDF renders a landscape Letter PDF.
	FormatDOMPDF Format = "Dompdf"
	// FormatMPDF renders a landscape A4 PDF.
	FormatMPDF Format = "Mpdf"
)

// Writer serializes a Document into one concrete format.
//
// A Writer is used for exactly one document. Close must be called once the
// writer is no longer needed, whether or not Write succeeded.
type Writer interface {
	// Write serializes doc into w.
	Write(doc *sheet.Document, w io.Writer) error

	// Close releases resources held by the backend.
	Close() error
}

// Options tunes backend behaviour.
type Options struct {
	// CSVDelimiter overrides the CSV field separator. Zero means ','.
	CSVDelimiter rune

	// PDFOptimize runs generated PDFs through pdfcpu's optimizer.
	PDFOptimize bool
}

// Factory creates a fresh Writer.
type Factory func(opts Options) Writer

// Registry maps format tags to writer factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Format]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[Format]Factory),
	}
}

// DefaultRegistry creates a registry with every built-in backend.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatCSV, NewCSVWriter)
	r.Register(FormatXLS, NewXLSWriter)
	r.Register(FormatXLSX, NewXLSXWriter)
	r.Register(FormatODS, NewODSWriter)
	r.Register(FormatHTML, NewHTMLWriter)
	r.Register(FormatTCPDF, NewTCPDFWriter)
	r.Register(FormatDOMPDF, NewDOMPDFWriter)
	r.Register(FormatMPDF, NewMPDFWriter)
	return r
}

// Register adds or replaces the factory for a format.
func (r *Registry) Register(format Format, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[format] = factory
}

// Has reports whether a backend is registered for format.
func (r *Registry) Has(format Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[format]
	return ok
}

// New creates a writer for format.
func (r *Registry) New(format Format, opts Options) (Writer, error) {
	r.mu.RLock()
	factory, ok := r.factories[format]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no writer registered for format %q", format)
	}
	return factory(opts), nil
}

// Formats returns the registered format tags in sorted order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	formats := make([]Format, 0, len(r.factories))
	for f := range r.factories {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ContentType returns the MIME type conventionally used for format.
// Unknown formats map to application/octet-stream.
func ContentType(format Format) string {
	switch format {
	case FormatXLS:
		return "application/vnd.ms-excel"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatODS:
		return "application/vnd.oasis.opendocument.spreadsheet"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatTCPDF, FormatDOMPDF, FormatMPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// nopCloser is embedded by backends that hold no resources.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }
