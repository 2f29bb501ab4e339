package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is aligned plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
	// FormatCSV is CSV output.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or csv)", s)
	}
}

// Table is tabular command output.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Records returns the rows as header keyed maps.
func (t *Table) Records() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]string, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				rec[h] = row[j]
			}
		}
		out[i] = rec
	}
	return out
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter formats tables as aligned columns and anything else with %v.
type TextFormatter struct{}

// FormatTo writes data to w in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	t, ok := data.(*Table)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(t.Headers, "\t")))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// JSONFormatter formats output as JSON. Tables become arrays of objects.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to w in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	if t, ok := data.(*Table); ok {
		data = t.Records()
	}
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// CSVFormatter formats tables as CSV.
type CSVFormatter struct{}

// FormatTo writes data to w in CSV format. Only tables are supported.
func (f *CSVFormatter) FormatTo(w io.Writer, data any) error {
	t, ok := data.(*Table)
	if !ok {
		return fmt.Errorf("csv output needs tabular data, got %T", data)
	}

	csvWriter := csv.NewWriter(w)
	if len(t.Headers) > 0 {
		if err := csvWriter.Write(t.Headers); err != nil {
			return err
		}
	}
	if err := csvWriter.WriteAll(t.Rows); err != nil {
		return err
	}
	return csvWriter.Error()
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TextFormatter{}
	}
}
