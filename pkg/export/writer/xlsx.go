package writer

import (
	"io"

	"github.com/xuri/excelize/v2"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// XLSXWriter writes an Office Open XML workbook using excelize.
type XLSXWriter struct {
	file *excelize.File
}

// NewXLSXWriter creates an XLSX backend.
func NewXLSXWriter(_ Options) Writer {
	return &XLSXWriter{}
}

// Write fills the first worksheet row by row and writes the workbook to w.
func (x *XLSXWriter) Write(doc *sheet.Document, w io.Writer) error {
	x.file = excelize.NewFile()

	s := doc.ActiveSheet()
	name := s.Name()
	if err := x.file.SetSheetName("Sheet1", name); err != nil {
		return err
	}

	for i, row := range s.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := x.file.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}

	if title := doc.Title(); title != "" {
		if err := x.file.SetDocProps(&excelize.DocProperties{Title: title}); err != nil {
			return err
		}
	}

	return x.file.Write(w)
}

// Close releases the excelize file.
func (x *XLSXWriter) Close() error {
	if x.file == nil {
		return nil
	}
	err := x.file.Close()
	x.file = nil
	return err
}
