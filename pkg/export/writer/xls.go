package writer

import (
	"encoding/xml"
	"io"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// XLSWriter writes the legacy Excel format as SpreadsheetML 2003, which every
// Excel release since 2002 opens as an .xls workbook.
type XLSWriter struct {
	nopCloser
}

// NewXLSWriter creates an XLS backend.
func NewXLSWriter(_ Options) Writer {
	return &XLSWriter{}
}

type xlsWorkbook struct {
	XMLName    xml.Name       `xml:"Workbook"`
	Xmlns      string         `xml:"xmlns,attr"`
	XmlnsSS    string         `xml:"xmlns:ss,attr"`
	XmlnsO     string         `xml:"xmlns:o,attr"`
	Properties *xlsProperties `xml:"o:DocumentProperties,omitempty"`
	Worksheet  xlsWorksheet   `xml:"Worksheet"`
}

type xlsProperties struct {
	Title string `xml:"o:Title"`
}

type xlsWorksheet struct {
	Name  string   `xml:"ss:Name,attr"`
	Table xlsTable `xml:"Table"`
}

type xlsTable struct {
	Rows []xlsRow `xml:"Row"`
}

type xlsRow struct {
	Cells []xlsCell `xml:"Cell"`
}

type xlsCell struct {
	Data xlsData `xml:"Data"`
}

type xlsData struct {
	Type  string `xml:"ss:Type,attr"`
	Value string `xml:",chardata"`
}

// Write encodes the active sheet as a single-worksheet SpreadsheetML document.
func (x *XLSWriter) Write(doc *sheet.Document, w io.Writer) error {
	s := doc.ActiveSheet()

	wb := xlsWorkbook{
		Xmlns:   "urn:schemas-microsoft-com:office:spreadsheet",
		XmlnsSS: "urn:schemas-microsoft-com:office:spreadsheet",
		XmlnsO:  "urn:schemas-microsoft-com:office:office",
		Worksheet: xlsWorksheet{
			Name:  s.Name(),
			Table: xlsTable{Rows: make([]xlsRow, 0, s.RowCount())},
		},
	}
	if title := doc.Title(); title != "" {
		wb.Properties = &xlsProperties{Title: title}
	}

	for _, row := range s.Rows() {
		r := xlsRow{Cells: make([]xlsCell, len(row))}
		for i, v := range row {
			r.Cells[i] = xlsCell{Data: xlsData{Type: "String", Value: v}}
		}
		wb.Worksheet.Table.Rows = append(wb.Worksheet.Table.Rows, r)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `<?mso-application progid="Excel.Sheet"?>`+"\n"); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(wb); err != nil {
		return err
	}
	return enc.Flush()
}
