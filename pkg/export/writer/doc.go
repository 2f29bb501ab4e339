// Package writer provides the document-writer backends used by the export
// pipeline.
//
// # Formats
//
// Backends are looked up by Format tag:
//
//   - Xls: SpreadsheetML 2003 XML, opened by Excel as a legacy workbook
//   - Xlsx: Office Open XML workbook (excelize)
//   - Ods: OpenDocument spreadsheet (zip + content.xml)
//   - Csv: comma separated values
//   - Html: standalone HTML table document
//   - Tcpdf, Dompdf, Mpdf: PDF renderings with different page presets (fpdf)
//
// # Usage
//
//	registry := writer.DefaultRegistry()
//	w, err := registry.New(writer.FormatXLSX, writer.Options{})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(doc, f); err != nil {
//	    return err
//	}
//
// Cell values are written verbatim. The export pipeline hands writers text
// that is already stripped of markup and HTML-escaped.
package writer
