package health

import (
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
)

// VersionInfo contains build and version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "1.0.0")
	Version string `json:"version"`

	// Commit is the git commit hash
	Commit string `json:"commit"`

	// BuildTime is when the binary was built
	BuildTime string `json:"build_time"`

	// GoVersion is the Go version used to build
	GoVersion string `json:"go_version"`
}

// LivenessHandler returns an HTTP handler for the liveness probe endpoint.
//
// Example response:
//
//	{
//	    "status": "ok",
//	    "timestamp": "2026-10-16T10:30:00Z"
//	}
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler returns an HTTP handler for the readiness probe endpoint.
// It answers 503 Service Unavailable when any check is unhealthy.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "storage": {"status": "ok", "duration_ms": 0.4},
//	        "tempdir": {"status": "unhealthy", "message": "open /tmp/x: permission denied", "duration_ms": 0.1}
//	    },
//	    "timestamp": "2026-10-16T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.CheckReadiness(r.Context())

		code := http.StatusOK
		if status.Status == "degraded" || status.Status == "unhealthy" {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, r, code, status)
	}
}

// VersionHandler returns an HTTP handler for the version information endpoint.
func VersionHandler(info VersionInfo) http.HandlerFunc {
	if info.GoVersion == "" {
		info.GoVersion = runtime.Version()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, info)
	}
}

// Mount registers /health, /ready and /version on r for GET and HEAD.
func (c *Checker) Mount(r chi.Router, info VersionInfo) {
	routes := map[string]http.HandlerFunc{
		"/health":  c.LivenessHandler(),
		"/ready":   c.ReadinessHandler(),
		"/version": VersionHandler(info),
	}
	for path, h := range routes {
		r.Get(path, h)
		r.Head(path, h)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(v)
	}
}
