// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/lumenworks/platform/pkg/observe"
)

// Tracing manages SDK spans behind the contract interface.
//
// Thread Safety: safe for concurrent use.
type Tracing struct {
	tracer oteltrace.Tracer
}

var _ observe.Tracing = (*Tracing)(nil)

func newTracing(tracer oteltrace.Tracer) *Tracing {
	return &Tracing{tracer: tracer}
}

// StartSpan creates an SDK span.
//
// Description:
//
//	An explicit parent is installed as a remote span context before
//	starting, so the child joins the parent's trace exactly as it would
//	across a process boundary; without one, the SDK's ambient parent in
//	ctx applies. A malformed parent (unparseable hex identifiers) is
//	ignored rather than rejected: tracing degrades, the call path does not.
func (t *Tracing) StartSpan(ctx context.Context, name string, parent *observe.SpanContext) (context.Context, observe.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parent != nil && parent.Valid() {
		if psc, ok := toOTelSpanContext(*parent); ok {
			ctx = oteltrace.ContextWithRemoteSpanContext(ctx, psc)
		}
	}

	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &Span{span: span}
}

// CreateTrace obtains an SDK-assigned trace ID via a throwaway root span
// and pairs it with the supplied or a generated correlation ID.
func (t *Tracing) CreateTrace(correlationID string) observe.TraceContext {
	if correlationID == "" {
		correlationID = observe.GenerateCorrelationID()
	}

	_, span := t.tracer.Start(context.Background(), "trace.create")
	traceID := span.SpanContext().TraceID().String()
	span.End()

	return observe.TraceContext{
		TraceID:       traceID,
		CorrelationID: correlationID,
	}
}

// Span adapts an SDK span to the contract interface.
//
// The SDK already ignores mutation after End; the once-guard here
// additionally ensures the completion is never exported twice even if the
// underlying implementation changes that behavior.
//
// Thread Safety: safe for concurrent use.
type Span struct {
	span    oteltrace.Span
	endOnce sync.Once
}

var _ observe.Span = (*Span)(nil)

// SpanContext returns the span's immutable identity.
func (s *Span) SpanContext() observe.SpanContext {
	sc := s.span.SpanContext()
	return observe.SpanContext{
		TraceID:    sc.TraceID().String(),
		SpanID:     sc.SpanID().String(),
		TraceFlags: byte(sc.TraceFlags()),
	}
}

// SetAttribute sets one attribute.
func (s *Span) SetAttribute(key string, value any) {
	s.span.SetAttributes(toAttribute(key, value))
}

// SetAttributes sets multiple attributes.
func (s *Span) SetAttributes(attrs map[string]any) {
	kvs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kvs = append(kvs, toAttribute(k, v))
	}
	s.span.SetAttributes(kvs...)
}

// End terminates the span. Idempotent.
func (s *Span) End() {
	s.endOnce.Do(func() { s.span.End() })
}

// toOTelSpanContext parses contract identifiers into an SDK span context.
func toOTelSpanContext(sc observe.SpanContext) (oteltrace.SpanContext, bool) {
	traceID, err := oteltrace.TraceIDFromHex(sc.TraceID)
	if err != nil {
		return oteltrace.SpanContext{}, false
	}
	spanID, err := oteltrace.SpanIDFromHex(sc.SpanID)
	if err != nil {
		return oteltrace.SpanContext{}, false
	}
	return oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: oteltrace.TraceFlags(sc.TraceFlags),
		Remote:     true,
	}), true
}

// toAttribute converts a contract attribute to an SDK attribute.
func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case float32:
		return attribute.Float64(key, float64(v))
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
