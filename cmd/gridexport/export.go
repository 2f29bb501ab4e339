package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/export/writer"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/store"
)

var exportFlags struct {
	format   string
	fileName string
	output   string
	summary  string
}

var exportCmd = &cobra.Command{
	Use:   "export <grid-id>",
	Short: "Export a grid to a file",
	Long: `Export a configured grid without starting the server.

The grid goes through the same pipeline as a download from its page: export
columns, sanitization and the writer selected by the grid's format or file
name extension.

Examples:
  # Export with the grid's own file name into the current directory
  gridexport export users

  # Pick the format and output path
  gridexport export users --format Xlsx --output /tmp/users.xlsx

  # Stream CSV to stdout
  gridexport export users --format Csv --output -`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFlags.format, "format", "f", "", "writer format (Xls, Xlsx, Ods, Csv, Html, Tcpdf, Dompdf, Mpdf)")
	exportCmd.Flags().StringVar(&exportFlags.fileName, "file-name", "", "override the grid's file name")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", `output path, "-" for stdout (default: the file name)`)
	exportCmd.Flags().StringVar(&exportFlags.summary, "summary", "text", "summary format on stderr: text, json, csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	summaryFormat, err := cli.ParseOutputFormat(exportFlags.summary)
	if err != nil {
		return cli.NewConfigError("summary", err.Error())
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	id := args[0]
	g, ok := cfg.Grid(id)
	if !ok {
		return cli.NewConfigError("grid", fmt.Sprintf("grid %q is not configured", id))
	}
	def := cfg.Definition(g)
	if !def.Export.Enabled {
		return cli.NewConfigError("grid", fmt.Sprintf("grid %q has export disabled", id))
	}
	if exportFlags.fileName != "" {
		def.Export.FileName = exportFlags.fileName
	}
	if exportFlags.format != "" {
		def.Export.Format = writer.Format(exportFlags.format)
	}

	st, err := store.Open(cfg.Storage.StoreConfig())
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	defer st.Close()

	provider, err := st.NewQueryProvider(g.Source())
	if err != nil {
		return cli.NewConfigError("grid", err.Error())
	}

	ctx := cmd.Context()
	target := grid.ExportURL(&url.URL{Path: "/grids/" + id}, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	responder := &fileResponder{path: exportFlags.output, stdout: cmd.OutOrStdout()}
	if responder.path == "" {
		responder.path = def.Export.FileName
	}

	out := export.NewBufferStack()
	out.Push()
	view := grid.NewView(def, provider, req)
	result, err := view.Run(ctx, out, grid.ExportEnv{
		Exporter: export.NewExporter(nil, nil),
		Base:     cfg.Export.ExportOptions(),
	}, responder)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	return cli.NewFormatter(summaryFormat).FormatTo(cmd.ErrOrStderr(), exportSummary(id, responder.written(), result))
}

func exportSummary(id, path string, result *export.Result) *cli.Table {
	return &cli.Table{
		Headers: []string{"grid", "format", "rows", "bytes", "output"},
		Rows: [][]string{{
			id,
			string(result.Format),
			strconv.Itoa(result.Rows),
			strconv.FormatInt(result.Bytes, 10),
			path,
		}},
	}
}

// fileResponder writes the exported document to a file, created only once
// the document is complete, or to stdout for "-".
type fileResponder struct {
	path   string
	stdout io.Writer
	dest   string
}

func (f *fileResponder) SendStream(name string, size int64, body io.Reader, opts export.SendOptions) error {
	if f.path == "-" {
		f.dest = "-"
		return (&export.WriterResponder{W: f.stdout}).SendStream(name, size, body, opts)
	}

	path := filepath.Clean(f.path)
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	sendErr := (&export.WriterResponder{W: file}).SendStream(name, size, body, opts)
	closeErr := file.Close()
	if err := errors.Join(sendErr, closeErr); err != nil {
		_ = os.Remove(path)
		return err
	}
	f.dest = path
	return nil
}

func (f *fileResponder) written() string {
	return f.dest
}

var _ export.Responder = (*fileResponder)(nil)
