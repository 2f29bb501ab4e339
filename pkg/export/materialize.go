package export

// Materializer drives column rendering over a record set to build a Table.
type Materializer struct {
	Columns []Column
	Records RecordSet
}

// NewMaterializer creates a Materializer.
func NewMaterializer(columns []Column, records RecordSet) *Materializer {
	return &Materializer{Columns: columns, Records: records}
}

// Materialize builds a new table holding the header row, one row per record
// and the footer row.
func (m *Materializer) Materialize() *Table {
	t := NewTable()
	m.RenderHeader(t)
	m.RenderBody(t)
	m.RenderFooter(t)
	return t
}

// RenderHeader appends the header row and returns its index.
func (m *Materializer) RenderHeader(t *Table) int {
	cells := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		cells[i] = col.RenderHeaderCell()
	}
	return t.AppendRow(cells)
}

// RenderBody appends one row per record, in the order the record set
// returns them.
func (m *Materializer) RenderBody(t *Table) {
	if m.Records == nil {
		return
	}

	records := m.Records.Records()
	keys := m.Records.Keys()
	for index, record := range records {
		var key any
		if index < len(keys) {
			key = keys[index]
		}
		m.renderRow(t, record, key, index)
	}
}

// RenderFooter appends the footer row and returns its index.
func (m *Materializer) RenderFooter(t *Table) int {
	cells := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		cells[i] = col.RenderFooterCell()
	}
	return t.AppendRow(cells)
}

func (m *Materializer) renderRow(t *Table, record any, key any, index int) int {
	cells := make([]string, len(m.Columns))
	for i, col := range m.Columns {
		cells[i] = col.RenderDataCell(record, key, index)
	}
	return t.AppendRow(cells)
}
