package writer

import (
	"archive/zip"
	"encoding/xml"
	"io"

	"mercator-hq/gridexport/pkg/export/sheet"
)

const odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"

// ODSWriter writes an OpenDocument spreadsheet package.
type ODSWriter struct {
	nopCloser
}

// NewODSWriter creates an ODS backend.
func NewODSWriter(_ Options) Writer {
	return &ODSWriter{}
}

type odsManifest struct {
	XMLName   xml.Name       `xml:"manifest:manifest"`
	Xmlns     string         `xml:"xmlns:manifest,attr"`
	Version   string         `xml:"manifest:version,attr"`
	FileEntry []odsFileEntry `xml:"manifest:file-entry"`
}

type odsFileEntry struct {
	FullPath  string `xml:"manifest:full-path,attr"`
	MediaType string `xml:"manifest:media-type,attr"`
}

type odsContent struct {
	XMLName     xml.Name `xml:"office:document-content"`
	XmlnsOffice string   `xml:"xmlns:office,attr"`
	XmlnsTable  string   `xml:"xmlns:table,attr"`
	XmlnsText   string   `xml:"xmlns:text,attr"`
	Version     string   `xml:"office:version,attr"`
	Body        odsBody  `xml:"office:body"`
}

type odsBody struct {
	Spreadsheet odsSpreadsheet `xml:"office:spreadsheet"`
}

type odsSpreadsheet struct {
	Table odsTable `xml:"table:table"`
}

type odsTable struct {
	Name string   `xml:"table:name,attr"`
	Rows []odsRow `xml:"table:table-row"`
}

type odsRow struct {
	Cells []odsCell `xml:"table:table-cell"`
}

type odsCell struct {
	ValueType string `xml:"office:value-type,attr"`
	Text      string `xml:"text:p"`
}

// Write builds the zip package. The mimetype entry is stored uncompressed
// and first, as the OpenDocument packaging rules require.
func (o *ODSWriter) Write(doc *sheet.Document, w io.Writer) error {
	zw := zip.NewWriter(w)

	mt, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mt, odsMimeType); err != nil {
		return err
	}

	manifest := odsManifest{
		Xmlns:   "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0",
		Version: "1.2",
		FileEntry: []odsFileEntry{
			{FullPath: "/", MediaType: odsMimeType},
			{FullPath: "content.xml", MediaType: "text/xml"},
		},
	}
	if err := writeZipXML(zw, "META-INF/manifest.xml", manifest); err != nil {
		return err
	}

	s := doc.ActiveSheet()
	table := odsTable{Name: s.Name(), Rows: make([]odsRow, 0, s.RowCount())}
	for _, row := range s.Rows() {
		r := odsRow{Cells: make([]odsCell, len(row))}
		for i, v := range row {
			r.Cells[i] = odsCell{ValueType: "string", Text: v}
		}
		table.Rows = append(table.Rows, r)
	}

	content := odsContent{
		XmlnsOffice: "urn:oasis:names:tc:opendocument:xmlns:office:1.0",
		XmlnsTable:  "urn:oasis:names:tc:opendocument:xmlns:table:1.0",
		XmlnsText:   "urn:oasis:names:tc:opendocument:xmlns:text:1.0",
		Version:     "1.2",
		Body:        odsBody{Spreadsheet: odsSpreadsheet{Table: table}},
	}
	if err := writeZipXML(zw, "content.xml", content); err != nil {
		return err
	}

	return zw.Close()
}

func writeZipXML(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(f).Encode(v)
}
