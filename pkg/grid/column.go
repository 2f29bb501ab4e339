package grid

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"mercator-hq/gridexport/pkg/export"
)

// DefaultEmptyCell is rendered for empty cells on screen.
const DefaultEmptyCell = "&nbsp;"

// Record is implemented by records that expose named attributes.
type Record interface {
	Get(attribute string) (any, bool)
}

// Value looks attribute up in record. Records may implement Record or be a
// map keyed by attribute.
func Value(record any, attribute string) (any, bool) {
	switch r := record.(type) {
	case Record:
		return r.Get(attribute)
	case map[string]any:
		v, ok := r[attribute]
		return v, ok
	case map[string]string:
		v, ok := r[attribute]
		return v, ok
	default:
		return nil, false
	}
}

// Cell formats.
const (
	FormatText     = "text"
	FormatRaw      = "raw"
	FormatNText    = "ntext"
	FormatInteger  = "integer"
	FormatDecimal  = "decimal"
	FormatBoolean  = "boolean"
	FormatDate     = "date"
	FormatDateTime = "datetime"
)

var knownFormats = map[string]bool{
	FormatText: true, FormatRaw: true, FormatNText: true, FormatInteger: true,
	FormatDecimal: true, FormatBoolean: true, FormatDate: true, FormatDateTime: true,
}

// IsKnownFormat reports whether f names a cell format.
func IsKnownFormat(f string) bool {
	return f == "" || knownFormats[f]
}

// FormatValue renders v as HTML using the named cell format. Nil values
// render as "".
func FormatValue(v any, format string) string {
	if v == nil {
		return ""
	}
	switch format {
	case FormatRaw:
		return toString(v)
	case FormatNText:
		return strings.ReplaceAll(html.EscapeString(toString(v)), "\n", "<br>")
	case FormatInteger:
		if n, ok := toInt(v); ok {
			return message.NewPrinter(language.English).Sprintf("%d", n)
		}
	case FormatDecimal:
		if f, ok := toFloat(v); ok {
			return message.NewPrinter(language.English).Sprintf("%.2f", f)
		}
	case FormatBoolean:
		if b, ok := toBool(v); ok {
			if b {
				return "Yes"
			}
			return "No"
		}
	case FormatDate:
		if t, ok := toTime(v); ok {
			return t.Format(time.DateOnly)
		}
	case FormatDateTime:
		if t, ok := toTime(v); ok {
			return t.Format(time.DateTime)
		}
	}
	return html.EscapeString(toString(v))
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	case int:
		return x != 0, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	return false, false
}

var timeLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(x)); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Humanize turns an attribute name such as "created_at" into a header label
// ("Created At").
func Humanize(attribute string) string {
	words := strings.FieldsFunc(attribute, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// DataColumn renders one record attribute.
type DataColumn struct {
	Attribute string
	Label     string // Header text; derived from Attribute when empty
	Footer    string // Raw footer markup
	Format    string // Cell format; FormatText when empty
	EmptyCell string // Rendered in place of empty values
}

var _ export.Column = (*DataColumn)(nil)

// HeaderLabel returns the escaped header text.
func (c *DataColumn) HeaderLabel() string {
	if c.Label != "" {
		return html.EscapeString(c.Label)
	}
	return html.EscapeString(Humanize(c.Attribute))
}

// RenderHeaderCell implements export.Column.
func (c *DataColumn) RenderHeaderCell() string {
	return "<th>" + c.HeaderLabel() + "</th>"
}

// RenderDataCell implements export.Column.
func (c *DataColumn) RenderDataCell(record any, _ any, _ int) string {
	v, _ := Value(record, c.Attribute)
	text := FormatValue(v, c.Format)
	if text == "" {
		text = c.EmptyCell
	}
	return "<td>" + text + "</td>"
}

// RenderFooterCell implements export.Column.
func (c *DataColumn) RenderFooterCell() string {
	text := c.Footer
	if text == "" {
		text = c.EmptyCell
	}
	return "<td>" + text + "</td>"
}

// SerialColumn numbers rows starting at Offset+1.
type SerialColumn struct {
	Label     string
	Offset    int
	EmptyCell string
}

var _ export.Column = (*SerialColumn)(nil)

// RenderHeaderCell implements export.Column.
func (c *SerialColumn) RenderHeaderCell() string {
	label := c.Label
	if label == "" {
		label = "#"
	}
	return "<th>" + html.EscapeString(label) + "</th>"
}

// RenderDataCell implements export.Column.
func (c *SerialColumn) RenderDataCell(_ any, _ any, index int) string {
	return "<td>" + strconv.Itoa(c.Offset+index+1) + "</td>"
}

// RenderFooterCell implements export.Column.
func (c *SerialColumn) RenderFooterCell() string {
	return "<td>" + c.EmptyCell + "</td>"
}

// Column types accepted in ColumnSpec.Type.
const (
	ColumnData   = "data"
	ColumnSerial = "serial"
)

// ColumnSpec is the configuration form of a column.
type ColumnSpec struct {
	Type      string `yaml:"type"`
	Attribute string `yaml:"attribute"`
	Label     string `yaml:"label"`
	Footer    string `yaml:"footer"`
	Format    string `yaml:"format"`
}

// BuildColumns creates columns from specs. offset is the position of the
// first record, used by serial columns.
func BuildColumns(specs []ColumnSpec, emptyCell string, offset int) ([]export.Column, error) {
	cols := make([]export.Column, 0, len(specs))
	for i, spec := range specs {
		switch spec.Type {
		case "", ColumnData:
			if spec.Attribute == "" {
				return nil, fmt.Errorf("column %d: attribute is required", i)
			}
			if !IsKnownFormat(spec.Format) {
				return nil, fmt.Errorf("column %d: unknown format %q", i, spec.Format)
			}
			cols = append(cols, &DataColumn{
				Attribute: spec.Attribute,
				Label:     spec.Label,
				Footer:    spec.Footer,
				Format:    spec.Format,
				EmptyCell: emptyCell,
			})
		case ColumnSerial:
			cols = append(cols, &SerialColumn{
				Label:     spec.Label,
				Offset:    offset,
				EmptyCell: emptyCell,
			})
		default:
			return nil, fmt.Errorf("column %d: unknown type %q", i, spec.Type)
		}
	}
	return cols, nil
}
