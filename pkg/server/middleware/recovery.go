package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/gridexport/pkg/telemetry/logging"
)

// ErrorResponse is the JSON body of error responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// Recovery recovers from panics in HTTP handlers and answers 500 Internal
// Server Error. The panic is logged with its stack trace; clients only get a
// generic message. http.ErrAbortHandler is re-raised.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.ErrorContext(r.Context(), "panic in handler",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			WriteError(w, r, http.StatusInternalServerError, "An internal error occurred. Please try again later.")
		}()

		next.ServeHTTP(w, r)
	})
}

// WriteError writes a JSON error response carrying the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:     message,
		RequestID: logging.GetRequestID(r.Context()),
	})
}
