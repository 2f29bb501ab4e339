package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"mercator-hq/gridexport/pkg/telemetry/logging"
)

// GridIDParam is the route parameter naming the requested grid.
const GridIDParam = "gridID"

// Recorder receives one observation per served request.
type Recorder interface {
	RecordHTTPRequest(route, grid string, code int, duration time.Duration)
}

// Logging logs every request with its status code and latency and reports
// it to recorder, which may be nil. Requests for a grid get the grid ID in
// their context so handler logs carry it too.
//
// Log format (JSON):
//
//	{
//	  "level": "INFO",
//	  "msg": "request completed",
//	  "method": "GET",
//	  "path": "/grids/users",
//	  "route": "/grids/{gridID}",
//	  "status": 200,
//	  "bytes": 5120,
//	  "latency_ms": 12,
//	  "request_id": "8b6f..."
//	}
func Logging(recorder Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			latency := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			route, gridID := routeOf(r)
			ctx := r.Context()
			if gridID != "" {
				ctx = logging.WithGridID(ctx, gridID)
			}

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelError
			} else if status >= 400 {
				level = slog.LevelWarn
			}

			slog.Log(ctx, level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", status,
				"bytes", ww.BytesWritten(),
				"latency_ms", latency.Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)

			if recorder != nil {
				recorder.RecordHTTPRequest(route, gridID, status, latency)
			}
		})
	}
}

// routeOf returns the matched route pattern, or "unmatched", and the grid ID
// route parameter.
func routeOf(r *http.Request) (string, string) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched", ""
	}
	route := rctx.RoutePattern()
	if route == "" {
		route = "unmatched"
	}
	return route, rctx.URLParam(GridIDParam)
}
