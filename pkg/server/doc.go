// Package server serves configured grids over HTTP.
//
// GET /grids/{gridID} renders a grid page. When the request carries the
// export trigger for that grid the page is not rendered; the grid is
// exported and streamed as a file download instead. The server also exposes
// /health, /ready, /version and, when enabled, the Prometheus metrics
// endpoint.
//
// # Page rendering
//
// Each request renders into an export.BufferStack. The page shell opens the
// outer scope and the grid renders into a nested one, so an export can drop
// everything already produced before it streams the document. When nothing
// was exported the stack is flushed to the client as text/html.
//
// # Grid registry
//
// Grid definitions are held by a Registry built from the configuration.
// Reload swaps all definitions at once; requests already running keep the
// definitions they started with.
//
// # Basic Usage
//
//	registry := server.NewRegistry()
//	if err := registry.Load(cfg); err != nil {
//	    return err
//	}
//	srv := server.NewServer(cfg.Server, server.Dependencies{
//	    Registry: registry,
//	    Store:    st,
//	    Exporter: export.NewExporter(nil, collector),
//	    Metrics:  collector,
//	    Health:   checker,
//	})
//	return srv.Start(ctx)
package server
