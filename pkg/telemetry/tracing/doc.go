// Package tracing provides OpenTelemetry tracing for gridexport.
//
// Spans are exported over OTLP gRPC when telemetry.tracing.enabled is set.
// Otherwise every span is a noop. Incoming requests continue traces
// propagated with the W3C traceparent header:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    sampler: ratio
//	    sample_ratio: 0.1
//	    endpoint: otel-collector:4317
//	    insecure: true
package tracing
