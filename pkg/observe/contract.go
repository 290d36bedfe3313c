// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import "context"

// Fields carries structured attributes on a log call.
//
// Recognized keys (FieldCorrelationID, FieldTraceID, FieldSpanID,
// FieldUserID, FieldAggregateID) are promoted to top-level entry fields;
// everything else lands under the entry's metadata object.
type Fields map[string]any

// Recognized field keys. These names are part of the emitted line format
// and must not change without coordinating with downstream log processors.
const (
	FieldCorrelationID = "correlationId"
	FieldTraceID       = "traceId"
	FieldSpanID        = "spanId"
	FieldUserID        = "userId"
	FieldAggregateID   = "aggregateId"
)

// PlatformObservability is the facade every adapter implements.
//
// Description:
//
//	Exposes the three telemetry facets plus lifecycle control. Both the
//	OpenTelemetry adapter and the edge adapter satisfy this interface with
//	identical method signatures, so instrumented code runs unchanged against
//	either.
//
// Thread Safety: all facets are safe for concurrent use.
type PlatformObservability interface {
	// Log returns the structured logger facet.
	Log() Logger

	// Metrics returns the metrics facet.
	Metrics() Metrics

	// Tracing returns the tracing facet.
	Tracing() Tracing

	// Shutdown flushes buffered telemetry and releases exporter resources.
	// Call once at process exit. Safe to call more than once.
	Shutdown(ctx context.Context) error
}

// Logger emits one structured JSON record per call.
//
// Description:
//
//	Every method is fire-and-forget and never panics. Trace and correlation
//	identifiers present in ctx (or supplied via recognized field keys) are
//	merged into the emitted entry.
//
// Thread Safety: safe for concurrent use.
type Logger interface {
	// Debug logs at debug level. Suppressed outside development
	// environments unless explicitly enabled.
	Debug(ctx context.Context, msg string, fields Fields)

	// Info logs at info level.
	Info(ctx context.Context, msg string, fields Fields)

	// Warn logs at warn level on the error stream.
	Warn(ctx context.Context, msg string, fields Fields)

	// Error logs at error level on the error stream. When err is non-nil its
	// name, message, and stack are captured into the entry's error field.
	Error(ctx context.Context, msg string, err error, fields Fields)
}

// Counter records monotonic accumulation samples.
type Counter interface {
	// Inc records an increment of value for the named counter.
	Inc(ctx context.Context, name string, value float64, tags map[string]string)
}

// Histogram records distribution samples.
type Histogram interface {
	// Observe records one value into the named distribution.
	Observe(ctx context.Context, name string, value float64, tags map[string]string)
}

// Gauge records last-writer-wins point values.
type Gauge interface {
	// Set records the current value of the named gauge.
	Set(ctx context.Context, name string, value float64, tags map[string]string)
}

// Metrics groups the three aggregation kinds.
//
// Description:
//
//	All recording methods are fire-and-forget: they never return errors and
//	never panic. Standard dimensional tags (service, environment, version)
//	are merged into every sample's tag set; caller-supplied tags win on
//	conflicting keys.
//
// Thread Safety: safe for concurrent use.
type Metrics interface {
	Counter() Counter
	Histogram() Histogram
	Gauge() Gauge
}

// Tracing manages span lifecycles and trace-context creation.
//
// Thread Safety: safe for concurrent use.
type Tracing interface {
	// StartSpan creates a span. When parent is non-nil the child shares the
	// parent's trace ID and records the parent's span ID, preserving the
	// causal tree even without a trace backend. The returned context carries
	// the new span so nested calls and log enrichment pick it up.
	//
	// The caller must call End() on the returned span on every exit path;
	// see WithSpan for a wrapper that guarantees this.
	StartSpan(ctx context.Context, name string, parent *SpanContext) (context.Context, Span)

	// CreateTrace generates a fresh trace ID paired with the supplied
	// correlation ID, or a generated one when correlationID is empty.
	// Typically called once per inbound request; the caller threads the
	// result through downstream calls.
	CreateTrace(correlationID string) TraceContext
}

// Span is one timed, named unit of work.
//
// Description:
//
//	A span's identity (trace ID + span ID) is assigned at creation and never
//	changes; attribute mutation does not affect identity. End terminates the
//	span exactly once: the second and subsequent calls are no-ops and never
//	re-emit the completion record.
//
// Thread Safety: safe for concurrent use.
type Span interface {
	// SpanContext returns the span's immutable identity.
	SpanContext() SpanContext

	// SetAttribute sets a single attribute. Values outside
	// string/bool/numeric are coerced to their string form.
	SetAttribute(key string, value any)

	// SetAttributes sets multiple attributes.
	SetAttributes(attrs map[string]any)

	// End terminates the span and records its duration. Idempotent.
	End()
}

// SpanContext is the immutable identity of a span.
type SpanContext struct {
	// TraceID is the hex-encoded 16-byte trace identifier.
	TraceID string

	// SpanID is the hex-encoded 8-byte span identifier.
	SpanID string

	// TraceFlags carries sampling flags (W3C trace-flags byte).
	TraceFlags byte
}

// Valid reports whether both identifiers are present.
func (sc SpanContext) Valid() bool {
	return sc.TraceID != "" && sc.SpanID != ""
}

// TraceContext groups related operations when full distributed tracing is
// unavailable. It has no span semantics of its own.
type TraceContext struct {
	// TraceID is the trace identifier shared by spans of this operation.
	TraceID string

	// CorrelationID groups log lines of this operation.
	CorrelationID string
}
