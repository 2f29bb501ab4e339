package writer

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mercator-hq/gridexport/pkg/export/sheet"
)

// HTMLWriter writes a standalone HTML document containing one table.
type HTMLWriter struct {
	nopCloser
}

// NewHTMLWriter creates an HTML backend.
func NewHTMLWriter(_ Options) Writer {
	return &HTMLWriter{}
}

// Write renders the active sheet as an HTML table. Cell values are inserted
// as raw text because the pipeline has already escaped them.
func (h *HTMLWriter) Write(doc *sheet.Document, w io.Writer) error {
	s := doc.ActiveSheet()

	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	page := element(atom.Html)
	root.AppendChild(page)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: documentTitle(doc)})
	head.AppendChild(title)
	page.AppendChild(head)

	body := element(atom.Body)
	table := element(atom.Table, html.Attribute{Key: "class", Val: s.Name()})
	tbody := element(atom.Tbody)
	for _, row := range s.Rows() {
		tr := element(atom.Tr)
		for _, v := range row {
			td := element(atom.Td)
			td.AppendChild(&html.Node{Type: html.RawNode, Data: v})
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	body.AppendChild(table)
	page.AppendChild(body)

	return html.Render(w, root)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func documentTitle(doc *sheet.Document) string {
	if t := doc.Title(); t != "" {
		return t
	}
	return doc.ActiveSheet().Name()
}
