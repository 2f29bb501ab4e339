package config

import (
	"maps"
	"unicode/utf8"

	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/export/janitor"
	"mercator-hq/gridexport/pkg/export/writer"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/store"
)

// StoreConfig converts the storage section for store.Open.
func (s StorageConfig) StoreConfig() store.Config {
	return store.Config{
		Driver:       s.Driver,
		Path:         s.Path,
		MaxOpenConns: s.MaxOpenConns,
		WALMode:      s.WAL(),
		BusyTimeout:  s.BusyTimeout,
	}
}

// JanitorConfig converts the janitor section for janitor.NewSweeper.
func (e ExportConfig) JanitorConfig() janitor.Config {
	return janitor.Config{
		Dir:      e.TempDir,
		MaxAge:   e.Janitor.MaxAge,
		Schedule: e.Janitor.Schedule,
	}
}

// ExportOptions returns the process-wide part of export.Options. Grid
// specific fields are filled in by the grid view.
func (e ExportConfig) ExportOptions() export.Options {
	var delimiter rune
	if e.CSVDelimiter != "" {
		delimiter, _ = utf8.DecodeRuneInString(e.CSVDelimiter)
	}
	return export.Options{
		TempDir:              e.TempDir,
		MaxCleanupIterations: e.MaxCleanupIterations,
		Writer: writer.Options{
			CSVDelimiter: delimiter,
			PDFOptimize:  e.PDFOptimize,
		},
	}
}

// Source returns where the grid's records are read from.
func (g *GridConfig) Source() store.Source {
	return store.Source{
		Table:   g.Table,
		Key:     g.Key,
		OrderBy: g.OrderBy,
	}
}

// Definition builds the grid definition of g. The result shares no mutable
// state with the configuration.
func (c *Config) Definition(g *GridConfig) *grid.Definition {
	link := grid.DefaultLinkOptions()
	if g.Export.Link.Label != "" {
		link.Label = g.Export.Link.Label
	}
	link.Encode = g.Export.Link.ShouldEncode()
	if g.Export.Link.Attributes != nil {
		link.Attributes = maps.Clone(g.Export.Link.Attributes)
	}

	return &grid.Definition{
		ID:            g.ID,
		Title:         g.Title,
		Columns:       append([]grid.ColumnSpec(nil), g.Columns...),
		ExportColumns: append([]grid.ColumnSpec(nil), g.ExportColumns...),
		Layout:        g.Layout,
		PageSize:      g.PageSize,
		EmptyCell:     g.EmptyCell,
		ShowFooter:    g.ShowFooter,
		Export: grid.ExportSettings{
			Enabled:  g.Export.IsEnabled(),
			FileName: c.FileName(g),
			Format:   writer.Format(g.Export.Format),
			MimeType: g.Export.MimeType,
			Inline:   g.Export.Inline,
			Link:     link,
		},
	}
}
