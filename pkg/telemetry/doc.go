// Package telemetry groups the observability packages of gridexport:
// structured logging (logging), Prometheus metrics (metrics) and health
// endpoints (health).
package telemetry
