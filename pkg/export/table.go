package export

import "mercator-hq/gridexport/pkg/export/sheet"

const (
	// RowBase is the index of the first row of a Table.
	RowBase = 1

	// ColumnBase is the index of the first cell of every row.
	ColumnBase = 0
)

// Table is the in-memory grid an export is built from. Rows are addressed
// from RowBase upwards in insertion order and cells from ColumnBase
// left to right.
type Table struct {
	rows [][]string
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// AppendRow adds cells as the next row and returns its row index.
func (t *Table) AppendRow(cells []string) int {
	t.rows = append(t.rows, cells)
	return RowBase + len(t.rows) - 1
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the cells of the row at index, or nil when out of range.
func (t *Table) Row(index int) []string {
	i := index - RowBase
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return t.rows[i]
}

// Cell returns the value at (row, col).
func (t *Table) Cell(row, col int) (string, bool) {
	cells := t.Row(row)
	c := col - ColumnBase
	if c < 0 || c >= len(cells) {
		return "", false
	}
	return cells[c], true
}

// Ref returns the spreadsheet reference ("A1") of (row, col).
func (t *Table) Ref(row, col int) string {
	return sheet.CellName(col-ColumnBase, row-RowBase+1)
}

// Rows returns all rows in order.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Transform replaces every cell with fn applied to it, row by row.
func (t *Table) Transform(fn func(row, col int, value string) string) {
	for i, cells := range t.rows {
		for j, v := range cells {
			cells[j] = fn(RowBase+i, ColumnBase+j, v)
		}
	}
}
