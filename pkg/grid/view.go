package grid

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/export/writer"
)

// DefaultLayout arranges the grid sections.
const DefaultLayout = "{summary}\n{items}\n{export}\n{pager}"

// ParamPage is the 1-based page query parameter.
const ParamPage = "page"

// ExportSettings configures the export behaviour of a grid.
type ExportSettings struct {
	Enabled  bool
	FileName string        // Default: export.DefaultFileName
	Format   writer.Format // Empty derives the format from FileName
	MimeType string        // Default: export.DefaultMimeType
	Inline   bool
	Link     LinkOptions
}

// Definition describes a grid. It is shared between requests and must not
// be modified after it is registered.
type Definition struct {
	ID    string
	Title string

	Columns []ColumnSpec

	// ExportColumns replace Columns while exporting. Empty keeps Columns.
	ExportColumns []ColumnSpec

	Layout     string // Default: DefaultLayout
	PageSize   int    // Default: DefaultPageSize
	EmptyCell  string // Default: DefaultEmptyCell
	ShowFooter bool

	Export ExportSettings
}

// Validate checks that columns can be built.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return errors.New("grid id is required")
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("grid %q: at least one column is required", d.ID)
	}
	if _, err := BuildColumns(d.Columns, "", 0); err != nil {
		return fmt.Errorf("grid %q: %w", d.ID, err)
	}
	if _, err := BuildColumns(d.ExportColumns, "", 0); err != nil {
		return fmt.Errorf("grid %q export columns: %w", d.ID, err)
	}
	return nil
}

// Output is where a view renders. The export path suppresses its buffered
// scopes before streaming.
type Output interface {
	io.Writer
	export.OutputSink
}

// ExportEnv carries the process-wide export settings a view needs.
type ExportEnv struct {
	Exporter *export.Exporter

	// Base supplies TempDir, MaxCleanupIterations and Writer options.
	Base export.Options
}

// View is one request's rendering of a Definition.
type View struct {
	def       *Definition
	provider  DataProvider
	current   *url.URL
	exporting bool
	page      int
	logger    *slog.Logger
}

// NewView creates a view for the request r. The export trigger is evaluated
// here, before any column or pagination decision.
func NewView(def *Definition, provider DataProvider, r *http.Request) *View {
	v := &View{
		def:      def,
		provider: provider,
		current:  &url.URL{},
		logger:   slog.Default().With("component", "grid", "grid_id", def.ID),
	}
	if r != nil {
		v.current = r.URL
		v.exporting = export.TriggerFromRequest(r, def.Export.Enabled, def.ID)
		if p, err := strconv.Atoi(r.URL.Query().Get(ParamPage)); err == nil && p > 1 {
			v.page = p - 1
		}
	}
	return v
}

// Exporting reports whether this request triggered an export of the grid.
func (v *View) Exporting() bool {
	return v.exporting
}

func (v *View) emptyCell() string {
	if v.exporting {
		return ""
	}
	if v.def.EmptyCell == "" {
		return DefaultEmptyCell
	}
	return v.def.EmptyCell
}

func (v *View) columnSpecs() []ColumnSpec {
	if v.exporting && len(v.def.ExportColumns) > 0 {
		return v.def.ExportColumns
	}
	return v.def.Columns
}

func (v *View) pageSize() int {
	if v.def.PageSize <= 0 {
		return DefaultPageSize
	}
	return v.def.PageSize
}

// Run renders the grid to out, or exports it through env when the export
// trigger is set. A non-nil Result means the response has been sent and
// nothing else may be written.
func (v *View) Run(ctx context.Context, out Output, env ExportEnv, responder export.Responder) (*export.Result, error) {
	if v.exporting {
		v.provider.SetPagination(nil)
	} else {
		v.provider.SetPagination(&Pagination{Page: v.page, PageSize: v.pageSize()})
	}
	if err := v.provider.Prepare(ctx); err != nil {
		return nil, fmt.Errorf("failed to load grid records: %w", err)
	}

	columns, err := BuildColumns(v.columnSpecs(), v.emptyCell(), v.provider.Pagination().Offset())
	if err != nil {
		return nil, err
	}

	if v.exporting {
		return v.export(ctx, out, env, responder, columns)
	}
	return nil, v.render(out, columns)
}

func (v *View) export(ctx context.Context, out Output, env ExportEnv, responder export.Responder, columns []export.Column) (*export.Result, error) {
	if env.Exporter == nil {
		return nil, errors.New("export requested but no exporter is configured")
	}

	settings := v.def.Export
	opts := env.Base
	opts.FileName = settings.FileName
	opts.Format = settings.Format
	opts.Title = v.def.Title
	opts.Send = export.SendOptions{MimeType: settings.MimeType, Inline: settings.Inline}

	v.logger.DebugContext(ctx, "exporting grid", "records", v.provider.Count(), "columns", len(columns))

	return env.Exporter.Export(ctx, &export.Request{
		Columns:   columns,
		Records:   v.provider,
		Sink:      out,
		Responder: responder,
		Options:   opts,
	})
}

var layoutToken = regexp.MustCompile(`\{(\w+)\}`)

func (v *View) render(w io.Writer, columns []export.Column) error {
	layout := v.def.Layout
	if layout == "" {
		layout = DefaultLayout
	}

	var firstErr error
	content := layoutToken.ReplaceAllStringFunc(layout, func(token string) string {
		section, err := v.renderSection(token[1:len(token)-1], columns)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if section == "" && err == nil && !v.knownSection(token) {
			return token
		}
		return section
	})
	if firstErr != nil {
		return firstErr
	}

	_, err := fmt.Fprintf(w, "<div id=\"%s\" class=\"grid-view\">\n%s\n</div>\n", html.EscapeString(v.def.ID), content)
	return err
}

func (v *View) knownSection(token string) bool {
	switch token {
	case "{summary}", "{items}", "{export}", "{pager}":
		return true
	}
	return false
}

func (v *View) renderSection(name string, columns []export.Column) (string, error) {
	switch name {
	case "summary":
		return v.renderSummary(), nil
	case "items":
		return v.renderItems(columns), nil
	case "export":
		if !v.def.Export.Enabled {
			return "", nil
		}
		link, err := RenderExportLink(v.current, v.def.ID, v.def.Export.Link)
		return string(link), err
	case "pager":
		return v.renderPager(), nil
	}
	return "", nil
}

func (v *View) renderSummary() string {
	total := v.provider.TotalCount()
	count := v.provider.Count()
	if count == 0 {
		return ""
	}
	begin := v.provider.Pagination().Offset() + 1
	return fmt.Sprintf(`<div class="summary">Showing <b>%d-%d</b> of <b>%d</b> items.</div>`,
		begin, begin+count-1, total)
}

func (v *View) renderItems(columns []export.Column) string {
	m := export.NewMaterializer(columns, v.provider)
	t := export.NewTable()
	header := m.RenderHeader(t)
	m.RenderBody(t)
	footer := -1
	if v.def.ShowFooter {
		footer = m.RenderFooter(t)
	}

	var b strings.Builder
	b.WriteString(`<table class="table table-striped table-bordered">`)
	b.WriteString("\n<thead>\n<tr>")
	b.WriteString(strings.Join(t.Row(header), ""))
	b.WriteString("</tr>\n</thead>\n")

	if footer > 0 {
		b.WriteString("<tfoot>\n<tr>")
		b.WriteString(strings.Join(t.Row(footer), ""))
		b.WriteString("</tr>\n</tfoot>\n")
	}

	b.WriteString("<tbody>\n")
	if v.provider.Count() == 0 {
		fmt.Fprintf(&b, `<tr><td colspan="%d"><div class="empty">No results found.</div></td></tr>`+"\n", len(columns))
	}
	for i := header + 1; i < header+1+v.provider.Count(); i++ {
		b.WriteString("<tr>")
		b.WriteString(strings.Join(t.Row(i), ""))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")
	return b.String()
}

func (v *View) renderPager() string {
	p := v.provider.Pagination()
	pages := p.PageCount(v.provider.TotalCount())
	if pages <= 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<ul class="pagination">`)
	for i := 0; i < pages; i++ {
		u := *v.current
		q := u.Query()
		q.Set(ParamPage, strconv.Itoa(i+1))
		u.RawQuery = q.Encode()

		class := ""
		if i == p.Page {
			class = ` class="active"`
		}
		fmt.Fprintf(&b, `<li%s><a href="%s">%d</a></li>`, class, html.EscapeString(u.String()), i+1)
	}
	b.WriteString("</ul>")
	return b.String()
}
