// Package middleware provides the HTTP middleware chain of the grid server:
// request IDs, structured request logging with metrics, and panic recovery.
//
// Order matters. Recovery is outermost so that panics in the other
// middleware are caught; RequestID runs before Logging so every log line
// carries the request ID:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Recovery, middleware.RequestID, middleware.Logging(collector))
package middleware
