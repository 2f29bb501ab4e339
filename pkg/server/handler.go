package server

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"

	"mercator-hq/gridexport/pkg/export"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/server/middleware"
	"mercator-hq/gridexport/pkg/store"
	"mercator-hq/gridexport/pkg/telemetry/tracing"
)

var (
	pageHeader = template.Must(template.New("header").Parse(
		"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>{{.}}</title>\n</head>\n<body>\n<h1>{{.}}</h1>\n"))
	pageFooter = "</body>\n</html>\n"
)

// GridHandler renders and exports registered grids.
type GridHandler struct {
	registry *Registry
	store    *store.Store
	exporter *export.Exporter
	logger   *slog.Logger
}

// NewGridHandler creates a handler for the grids of registry, reading
// records from st.
func NewGridHandler(registry *Registry, st *store.Store, exporter *export.Exporter) *GridHandler {
	return &GridHandler{
		registry: registry,
		store:    st,
		exporter: exporter,
		logger:   slog.Default().With("component", "grid_handler"),
	}
}

// ServeHTTP implements http.Handler.
func (h *GridHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, middleware.GridIDParam)

	entry, ok := h.registry.Get(id)
	if !ok {
		middleware.WriteError(w, r, http.StatusNotFound, "grid not found")
		return
	}

	provider, err := h.store.NewQueryProvider(entry.Source)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create data provider", "grid_id", id, "error", err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "failed to load grid")
		return
	}

	view := grid.NewView(entry.Definition, provider, r)
	out := export.NewBufferStack()

	// page scope
	out.Push()
	if err := pageHeader.Execute(out, pageTitle(entry.Definition)); err != nil {
		h.logger.ErrorContext(ctx, "failed to render page", "grid_id", id, "error", err)
		middleware.WriteError(w, r, http.StatusInternalServerError, "failed to render page")
		return
	}

	// grid scope
	out.Push()
	ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
	env := grid.ExportEnv{Exporter: h.exporter, Base: h.registry.ExportOptions()}

	runCtx, span := tracing.StartSpan(ctx, "grid.run")
	tracing.SetGridAttributes(span, id, view.Exporting())
	result, err := view.Run(runCtx, out, env, export.NewHTTPResponder(ww))
	if result != nil && result.Sent {
		tracing.SetExportAttributes(span, string(result.Format), result.FileName, result.Rows, result.Bytes)
		span.SetAttributes(attribute.Int(tracing.AttrSuppressed, result.Suppression.Discarded))
	}
	tracing.SetStatus(span, err)
	span.End()
	if err != nil {
		h.handleError(ww, r, id, view.Exporting(), err)
		return
	}
	if result != nil && result.Sent {
		return
	}

	if _, err := out.Pop(); err != nil {
		h.logger.ErrorContext(ctx, "failed to close grid scope", "grid_id", id, "error", err)
	}
	_, _ = out.Write([]byte(pageFooter))

	ww.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := out.FlushTo(ww); err != nil {
		h.logger.WarnContext(ctx, "failed to write page", "grid_id", id, "error", err)
	}
}

// handleError maps view errors to responses. Once an export has started
// streaming the status line is gone and the error can only be logged.
func (h *GridHandler) handleError(ww chimw.WrapResponseWriter, r *http.Request, id string, exporting bool, err error) {
	ctx := r.Context()
	if ww.Status() != 0 {
		h.logger.ErrorContext(ctx, "export stream interrupted", "grid_id", id, "error", err)
		return
	}

	var emptyErr *export.NothingToExportError
	var formatErr *export.UnsupportedFormatError
	switch {
	case errors.As(err, &emptyErr):
		middleware.WriteError(ww, r, http.StatusUnprocessableEntity, emptyErr.Error())
	case errors.As(err, &formatErr):
		h.logger.ErrorContext(ctx, "grid export misconfigured", "grid_id", id, "error", err)
		middleware.WriteError(ww, r, http.StatusInternalServerError, formatErr.Error())
	default:
		h.logger.ErrorContext(ctx, "grid request failed",
			"grid_id", id,
			"exporting", exporting,
			"error", err,
		)
		middleware.WriteError(ww, r, http.StatusInternalServerError, "failed to render grid")
	}
}

func pageTitle(def *grid.Definition) string {
	if def.Title != "" {
		return def.Title
	}
	return def.ID
}

// IndexHandler lists the registered grid IDs as JSON.
func (h *GridHandler) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"grids": h.registry.IDs()})
	}
}
