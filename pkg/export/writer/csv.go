package writer

import (
	"encoding/csv"
	"io"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// CSVWriter writes the active sheet as comma separated values.
type CSVWriter struct {
	nopCloser

	// Delimiter is the field separator.
	Delimiter rune
}

// NewCSVWriter creates a CSV backend.
func NewCSVWriter(opts Options) Writer {
	delim := opts.CSVDelimiter
	if delim == 0 {
		delim = ','
	}
	return &CSVWriter{Delimiter: delim}
}

// Write writes every row of the active sheet, padding short rows so that all
// records have the sheet's width.
func (c *CSVWriter) Write(doc *sheet.Document, w io.Writer) error {
	s := doc.ActiveSheet()
	width := s.Width()

	cw := csv.NewWriter(w)
	cw.Comma = c.Delimiter

	for _, row := range s.Rows() {
		record := row
		if len(record) < width {
			record = make([]string, width)
			copy(record, row)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
