package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"mercator-hq/gridexport/pkg/telemetry/logging"
)

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.GetRequestID(r.Context())
	}))

	t.Run("generates request ID when not provided", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		if len(id) != 36 {
			t.Errorf("request ID %q is not a UUID", id)
		}
		if seen != id {
			t.Errorf("context ID = %q, header = %q", seen, id)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "custom-request-id-12345")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != "custom-request-id-12345" {
			t.Errorf("request ID = %q", got)
		}
	})

	t.Run("replaces invalid request ID", func(t *testing.T) {
		for _, bad := range []string{"has space", strings.Repeat("x", maxRequestIDLength+1), "tab\t"} {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, bad)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get(RequestIDHeader); got == bad {
				t.Errorf("invalid request ID %q was kept", bad)
			}
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		w1, w2 := httptest.NewRecorder(), httptest.NewRecorder()
		handler.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/", nil))
		handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
		if w1.Header().Get(RequestIDHeader) == w2.Header().Get(RequestIDHeader) {
			t.Error("request IDs should be unique")
		}
	})
}

type observation struct {
	route string
	grid  string
	code  int
}

type fakeRecorder struct {
	mu  sync.Mutex
	obs []observation
}

func (f *fakeRecorder) RecordHTTPRequest(route, grid string, code int, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.obs = append(f.obs, observation{route, grid, code})
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.SetDefault()
	return &buf
}

func TestLogging(t *testing.T) {
	buf := captureLogs(t)
	recorder := &fakeRecorder{}

	r := chi.NewRouter()
	r.Use(RequestID, Logging(recorder))
	r.Get("/grids/{gridID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/grids/users", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	want := []observation{
		{"/grids/{gridID}", "users", http.StatusTeapot},
		{"unmatched", "", http.StatusNotFound},
	}
	if len(recorder.obs) != len(want) {
		t.Fatalf("observations = %+v", recorder.obs)
	}
	for i := range want {
		if recorder.obs[i] != want[i] {
			t.Errorf("observation %d = %+v, want %+v", i, recorder.obs[i], want[i])
		}
	}

	line, _, _ := strings.Cut(buf.String(), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("invalid log line %q: %v", line, err)
	}
	if entry["level"] != "WARN" || entry["request_id"] != "req-42" || entry["grid_id"] != "users" {
		t.Errorf("log entry = %v", entry)
	}
}

func TestRecovery(t *testing.T) {
	buf := captureLogs(t)

	handler := RequestID(Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	req := httptest.NewRequest(http.MethodGet, "/grids/users", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code = %d", w.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.RequestID != "req-7" || strings.Contains(body.Error, "boom") {
		t.Errorf("body = %+v", body)
	}
	if !strings.Contains(buf.String(), "panic in handler") {
		t.Error("panic was not logged")
	}
}

func TestRecovery_AbortHandler(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
