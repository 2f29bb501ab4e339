package logging

import (
	"context"
	"log/slog"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// GridIDKey is the context key for the grid being rendered.
	GridIDKey contextKey = "grid_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithGridID adds a grid ID to the context.
func WithGridID(ctx context.Context, gridID string) context.Context {
	return context.WithValue(ctx, GridIDKey, gridID)
}

// GetGridID retrieves the grid ID from the context.
func GetGridID(ctx context.Context) string {
	if gridID, ok := ctx.Value(GridIDKey).(string); ok {
		return gridID
	}
	return ""
}

// extractContextFields returns the context fields of ctx as attributes.
func extractContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, slog.String(string(RequestIDKey), requestID))
	}
	if gridID := GetGridID(ctx); gridID != "" {
		fields = append(fields, slog.String(string(GridIDKey), gridID))
	}
	return fields
}

// contextHandler adds context fields to every record.
type contextHandler struct {
	next slog.Handler
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if fields := extractContextFields(ctx); len(fields) > 0 {
		r = r.Clone()
		r.AddAttrs(fields...)
	}
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name)}
}
