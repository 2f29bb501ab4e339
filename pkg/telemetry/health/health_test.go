package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{"default timeout", 0, 5 * time.Second},
		{"custom timeout", 10 * time.Second, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Error("expected no checks")
			}
		})
	}
}

func TestRegisterAndUnregister(t *testing.T) {
	checker := New(time.Second)
	noop := func(context.Context) error { return nil }

	checker.RegisterCheck("tempdir", noop)
	checker.RegisterCheck("storage", noop)
	if got := checker.ListChecks(); !reflect.DeepEqual(got, []string{"storage", "tempdir"}) {
		t.Errorf("ListChecks() = %v", got)
	}

	checker.UnregisterCheck("storage")
	if got := checker.ListChecks(); !reflect.DeepEqual(got, []string{"tempdir"}) {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestCheckReadiness(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]CheckFunc
		want   string
	}{
		{"no checks", nil, "ready"},
		{
			"all ok",
			map[string]CheckFunc{
				"storage": func(context.Context) error { return nil },
				"grids":   func(context.Context) error { return nil },
			},
			"ready",
		},
		{
			"one failing",
			map[string]CheckFunc{
				"storage": func(context.Context) error { return errors.New("database is locked") },
				"grids":   func(context.Context) error { return nil },
			},
			"degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			status := checker.CheckReadiness(context.Background())
			if status.Status != tt.want {
				t.Errorf("Status = %q, want %q", status.Status, tt.want)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestCheckReadiness_Timeout(t *testing.T) {
	checker := New(20 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return nil
	})

	status := checker.CheckReadiness(context.Background())
	result := status.Checks["slow"]
	if result.Status != "unhealthy" || result.Message != ErrCheckTimeout.Error() {
		t.Errorf("result = %+v", result)
	}
}

func TestEndpoints(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("storage", func(context.Context) error { return errors.New("down") })

	router := chi.NewRouter()
	checker.Mount(router, VersionInfo{Version: "1.2.3", Commit: "abc"})

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantKey  string
		wantVal  string
	}{
		{http.MethodGet, "/health", http.StatusOK, "status", "ok"},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable, "status", "degraded"},
		{http.MethodGet, "/version", http.StatusOK, "version", "1.2.3"},
		{http.MethodPost, "/health", http.StatusMethodNotAllowed, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantKey == "" {
				return
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if body[tt.wantKey] != tt.wantVal {
				t.Errorf("%s = %v, want %q", tt.wantKey, body[tt.wantKey], tt.wantVal)
			}
		})
	}
}

func TestHeadHasNoBody(t *testing.T) {
	router := chi.NewRouter()
	New(0).Mount(router, VersionInfo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("code = %d, body = %q", rec.Code, rec.Body.String())
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestDomainChecks(t *testing.T) {
	ctx := context.Background()

	if err := PingCheck(fakePinger{})(ctx); err != nil {
		t.Errorf("PingCheck() = %v", err)
	}
	if err := PingCheck(fakePinger{err: errors.New("closed")})(ctx); err == nil {
		t.Error("PingCheck() expected error")
	}

	if err := TempDirCheck(t.TempDir())(ctx); err != nil {
		t.Errorf("TempDirCheck() = %v", err)
	}
	if err := TempDirCheck(filepath.Join(t.TempDir(), "missing"))(ctx); err == nil {
		t.Error("TempDirCheck() expected error for missing dir")
	}

	if err := GridsCheck(func() int { return 2 })(ctx); err != nil {
		t.Errorf("GridsCheck() = %v", err)
	}
	if err := GridsCheck(func() int { return 0 })(ctx); err == nil {
		t.Error("GridsCheck() expected error")
	}
}
