package grid

import (
	"bytes"
	"errors"
	"html/template"
	"net/url"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mercator-hq/gridexport/pkg/export"
)

// DefaultLinkLabel is the export link text.
const DefaultLinkLabel = "Export"

// LinkOptions configures the export link.
type LinkOptions struct {
	// Label is the link text. Default: "Export"
	Label string

	// Encode escapes Label. When false Label is inserted as markup.
	Encode bool

	// Attributes are set on the anchor. nil uses DefaultLinkAttributes.
	// href is always generated and data-pjax is always "0".
	Attributes map[string]string
}

// DefaultLinkAttributes returns the attributes used when none are
// configured.
func DefaultLinkAttributes() map[string]string {
	return map[string]string{
		"class":  "btn btn-default",
		"target": "_blank",
	}
}

// DefaultLinkOptions returns link options with every default applied.
func DefaultLinkOptions() LinkOptions {
	return LinkOptions{
		Label:      DefaultLinkLabel,
		Encode:     true,
		Attributes: DefaultLinkAttributes(),
	}
}

// ExportURL returns current with the export trigger for grid id set. Other
// query parameters are kept.
func ExportURL(current *url.URL, id string) *url.URL {
	u := &url.URL{}
	if current != nil {
		*u = *current
	}
	q := u.Query()
	q.Set(export.ParamFlag, "1")
	q.Set(export.ParamContainer, id)
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u
}

// RenderExportLink renders an anchor that reloads the current page with the
// export trigger for grid id. Partial page updates are disabled on the link
// so the download is a full navigation.
func RenderExportLink(current *url.URL, id string, opts LinkOptions) (template.HTML, error) {
	if id == "" {
		return "", errors.New("grid id is required for the export link")
	}

	attrs := opts.Attributes
	if attrs == nil {
		attrs = DefaultLinkAttributes()
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		if k == "href" || k == "data-pjax" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	a := &html.Node{Type: html.ElementNode, DataAtom: atom.A, Data: "a"}
	a.Attr = append(a.Attr, html.Attribute{Key: "href", Val: ExportURL(current, id).String()})
	for _, k := range keys {
		a.Attr = append(a.Attr, html.Attribute{Key: k, Val: attrs[k]})
	}
	a.Attr = append(a.Attr, html.Attribute{Key: "data-pjax", Val: "0"})

	label := opts.Label
	if label == "" {
		label = DefaultLinkLabel
	}
	if opts.Encode {
		a.AppendChild(&html.Node{Type: html.TextNode, Data: label})
	} else {
		a.AppendChild(&html.Node{Type: html.RawNode, Data: label})
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, a); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
