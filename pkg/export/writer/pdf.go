package writer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// pdfPreset is the page setup of one PDF backend.
type pdfPreset struct {
	orientation string
	size        string
	font        string
	fontSize    float64
	lineHeight  float64
}

var (
	tcpdfPreset  = pdfPreset{orientation: "P", size: "A4", font: "Helvetica", fontSize: 9, lineHeight: 6}
	dompdfPreset = pdfPreset{orientation: "L", size: "Letter", font: "Helvetica", fontSize: 8, lineHeight: 5}
	mpdfPreset   = pdfPreset{orientation: "L", size: "A4", font: "Times", fontSize: 9, lineHeight: 6}
)

// PDFWriter renders the active sheet as a bordered table, repeating the
// first row as a header on every page.
type PDFWriter struct {
	nopCloser

	preset   pdfPreset
	optimize bool
}

// NewTCPDFWriter creates the portrait A4 PDF backend.
func NewTCPDFWriter(opts Options) Writer {
	return &PDFWriter{preset: tcpdfPreset, optimize: opts.PDFOptimize}
}

// NewDOMPDFWriter creates the landscape Letter PDF backend.
func NewDOMPDFWriter(opts Options) Writer {
	return &PDFWriter{preset: dompdfPreset, optimize: opts.PDFOptimize}
}

// NewMPDFWriter creates the landscape A4 PDF backend.
func NewMPDFWriter(opts Options) Writer {
	return &PDFWriter{preset: mpdfPreset, optimize: opts.PDFOptimize}
}

// Write renders the document. With optimization enabled the PDF is built in
// memory first and rewritten by pdfcpu.
func (p *PDFWriter) Write(doc *sheet.Document, w io.Writer) error {
	if !p.optimize {
		return p.render(doc, w)
	}

	var buf bytes.Buffer
	if err := p.render(doc, &buf); err != nil {
		return err
	}
	if err := api.Optimize(bytes.NewReader(buf.Bytes()), w, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdf optimize: %w", err)
	}
	return nil
}

func (p *PDFWriter) render(doc *sheet.Document, w io.Writer) error {
	s := doc.ActiveSheet()

	pdf := fpdf.New(p.preset.orientation, "mm", p.preset.size, "")
	pdf.SetTitle(documentTitle(doc), true)
	pdf.SetCreator("gridexport", true)
	pdf.SetAutoPageBreak(false, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	left, top, right, bottom := pdf.GetMargins()

	width := s.Width()
	if width == 0 {
		width = 1
	}
	colW := (pageW - left - right) / float64(width)
	lh := p.preset.lineHeight

	writeRow := func(row []string, style string) {
		pdf.SetFont(p.preset.font, style, p.preset.fontSize)
		for i := 0; i < width; i++ {
			text := ""
			if i < len(row) {
				text = fitText(pdf, tr(row[i]), colW-2)
			}
			pdf.CellFormat(colW, lh, text, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(lh)
	}

	rows := s.Rows()
	pdf.AddPage()
	for i, row := range rows {
		if i > 0 && pdf.GetY()+lh > pageH-bottom {
			pdf.AddPage()
			pdf.SetY(top)
			writeRow(rows[0], "B")
		}
		style := ""
		if i == 0 {
			style = "B"
		}
		writeRow(row, style)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

// fitText trims text until it fits into width.
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	for text != "" && pdf.GetStringWidth(text) > width {
		text = text[:len(text)-1]
	}
	return text
}
