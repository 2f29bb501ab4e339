// Package sheet holds the in-memory workbook handed to writer backends.
//
// A Document always has exactly one active Sheet. It is built for a single
// export operation and dropped once a writer has serialized it; nothing in
// this package is safe to share between concurrent exports.
package sheet

import "fmt"

// DefaultSheetName is the title given to the active sheet of a new Document.
const DefaultSheetName = "Worksheet"

// Document is a single-sheet workbook.
type Document struct {
	title  string
	active *Sheet
}

// New creates an empty Document with one active sheet.
func New() *Document {
	return &Document{
		active: &Sheet{name: DefaultSheetName},
	}
}

// Title returns the document title used by writers that support metadata.
func (d *Document) Title() string {
	return d.title
}

// SetTitle sets the document title.
func (d *Document) SetTitle(title string) {
	d.title = title
}

// ActiveSheet returns the document's only sheet.
func (d *Document) ActiveSheet() *Sheet {
	return d.active
}

// Sheet is a rectangular block of text cells.
type Sheet struct {
	name string
	rows [][]string
}

// Name returns the sheet name.
func (s *Sheet) Name() string {
	return s.name
}

// SetName renames the sheet.
func (s *Sheet) SetName(name string) {
	if name != "" {
		s.name = name
	}
}

// FromRows replaces the sheet contents with a copy of rows, in row-major order.
func (s *Sheet) FromRows(rows [][]string) {
	s.rows = make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		copy(cells, row)
		s.rows[i] = cells
	}
}

// Rows returns the sheet contents. Callers must not modify the result.
func (s *Sheet) Rows() [][]string {
	return s.rows
}

// RowCount returns the number of rows on the sheet.
func (s *Sheet) RowCount() int {
	return len(s.rows)
}

// Width returns the widest row length on the sheet.
func (s *Sheet) Width() int {
	width := 0
	for _, row := range s.rows {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// ColumnName converts a zero-based column position to its spreadsheet
// letter form: 0 -> "A", 25 -> "Z", 26 -> "AA".
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	name := ""
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}
	return name
}

// CellName returns the "A1" style reference for a zero-based column and a
// one-based row.
func CellName(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row)
}
