// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lumenworks/platform/pkg/observe"
)

// Tracing manages log-record spans.
//
// Description:
//
//	Spans carry real W3C-shaped identifiers and preserve parent/child
//	causality, but completion is emitted as a structured span record on the
//	standard output stream instead of being exported to a trace backend.
//	Downstream log correlation can therefore still group parent and child
//	operations.
//
// Thread Safety: safe for concurrent use.
type Tracing struct {
	cfg observe.TelemetryConfig
	out *observe.LineWriter
}

var _ observe.Tracing = (*Tracing)(nil)

func newTracing(cfg observe.TelemetryConfig, out *observe.LineWriter) *Tracing {
	return &Tracing{cfg: cfg, out: out}
}

// StartSpan creates a span.
//
// Description:
//
//	Parent resolution order: the explicit parent argument, then any span
//	context already stored in ctx. A child shares the parent's trace ID and
//	records the parent's span ID; a root span gets a fresh trace ID. The
//	returned context carries the new span's identity for nested calls and
//	log enrichment.
//
// Inputs:
//
//	ctx - Parent context. Must not be awaited on; span creation is synchronous.
//	name - Span name.
//	parent - Optional explicit parent identity. May be nil (root span).
//
// Outputs:
//
//	context.Context - ctx with the new span identity attached.
//	observe.Span - The started span. Caller must End() it on all exit paths.
func (t *Tracing) StartSpan(ctx context.Context, name string, parent *observe.SpanContext) (context.Context, observe.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if parent == nil {
		if sc, ok := observe.SpanContextFromContext(ctx); ok {
			parent = &sc
		}
	}

	sc := observe.SpanContext{
		TraceID:    observe.NewTraceID(),
		SpanID:     observe.NewSpanID(),
		TraceFlags: 1,
	}
	parentSpanID := ""
	if parent != nil && parent.Valid() {
		sc.TraceID = parent.TraceID
		parentSpanID = parent.SpanID
	}

	span := &Span{
		name:         name,
		sc:           sc,
		parentSpanID: parentSpanID,
		start:        time.Now(),
		attrs:        make(map[string]any),
		out:          t.out,
	}
	return observe.ContextWithSpanContext(ctx, sc), span
}

// CreateTrace generates a fresh trace ID paired with the supplied or a
// generated correlation ID.
func (t *Tracing) CreateTrace(correlationID string) observe.TraceContext {
	if correlationID == "" {
		correlationID = observe.GenerateCorrelationID()
	}
	return observe.TraceContext{
		TraceID:       observe.NewTraceID(),
		CorrelationID: correlationID,
	}
}

// Span is one log-record span.
//
// Lifecycle: created by StartSpan, mutated via SetAttribute(s), terminated
// exactly once by End. Attribute mutation never changes identity, and
// mutation after End cannot alter the already-emitted completion record.
//
// Thread Safety: safe for concurrent use.
type Span struct {
	name         string
	sc           observe.SpanContext
	parentSpanID string
	start        time.Time

	mu    sync.Mutex
	attrs map[string]any

	endOnce sync.Once
	out     *observe.LineWriter
}

var _ observe.Span = (*Span)(nil)

// SpanContext returns the span's immutable identity.
func (s *Span) SpanContext() observe.SpanContext { return s.sc }

// SetAttribute sets one attribute. Values outside string/bool/numeric are
// coerced to their string form so the completion record always serializes.
func (s *Span) SetAttribute(key string, value any) {
	s.mu.Lock()
	s.attrs[key] = coerceAttr(value)
	s.mu.Unlock()
}

// SetAttributes sets multiple attributes.
func (s *Span) SetAttributes(attrs map[string]any) {
	s.mu.Lock()
	for k, v := range attrs {
		s.attrs[k] = coerceAttr(v)
	}
	s.mu.Unlock()
}

// End terminates the span and emits its completion record. The second and
// subsequent calls are no-ops.
func (s *Span) End() {
	s.endOnce.Do(func() {
		end := time.Now()

		// Snapshot so later SetAttribute calls cannot touch the record.
		s.mu.Lock()
		attrs := make(map[string]any, len(s.attrs))
		for k, v := range s.attrs {
			attrs[k] = v
		}
		s.mu.Unlock()

		_ = s.out.Write(observe.SpanRecord{
			Type:      "span",
			Timestamp: observe.Timestamp(end),
			Span: observe.SpanData{
				Name:         s.name,
				TraceID:      s.sc.TraceID,
				SpanID:       s.sc.SpanID,
				ParentSpanID: s.parentSpanID,
				Duration:     float64(end.Sub(s.start)) / float64(time.Millisecond),
				Attributes:   attrs,
			},
		})
	})
}

// coerceAttr restricts attribute values to JSON-safe scalar kinds.
func coerceAttr(v any) any {
	switch v.(type) {
	case nil, string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	default:
		return fmt.Sprint(v)
	}
}
