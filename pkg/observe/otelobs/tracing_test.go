// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"context"
	"strings"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
)

func TestTracing_ChildInheritsTraceID(t *testing.T) {
	obs, _, _ := newTestObs(t)

	ctx, parent := obs.Tracing().StartSpan(context.Background(), "parent", nil)
	defer parent.End()
	_, child := obs.Tracing().StartSpan(ctx, "child", nil)
	defer child.End()

	if child.SpanContext().TraceID != parent.SpanContext().TraceID {
		t.Errorf("child traceId = %q, parent traceId = %q",
			child.SpanContext().TraceID, parent.SpanContext().TraceID)
	}
	if child.SpanContext().SpanID == parent.SpanContext().SpanID {
		t.Error("child reused parent span ID")
	}
}

func TestTracing_ExplicitParentWins(t *testing.T) {
	obs, _, _ := newTestObs(t)

	parent := &observe.SpanContext{
		TraceID:    strings.Repeat("ab", 16),
		SpanID:     strings.Repeat("cd", 8),
		TraceFlags: 1,
	}
	_, span := obs.Tracing().StartSpan(context.Background(), "remote-child", parent)
	defer span.End()

	if span.SpanContext().TraceID != parent.TraceID {
		t.Errorf("traceId = %q, want %q", span.SpanContext().TraceID, parent.TraceID)
	}
}

func TestTracing_MalformedParentIgnored(t *testing.T) {
	obs, _, _ := newTestObs(t)

	parent := &observe.SpanContext{TraceID: "nope", SpanID: "nope"}
	_, span := obs.Tracing().StartSpan(context.Background(), "orphan", parent)
	defer span.End()

	sc := span.SpanContext()
	if !sc.Valid() {
		t.Errorf("span context %+v, want a fresh valid identity", sc)
	}
	if sc.TraceID == parent.TraceID {
		t.Error("malformed parent trace ID leaked into the span")
	}
}

func TestTracing_SpanIdentityStableAfterEnd(t *testing.T) {
	obs, _, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "op", nil)
	before := span.SpanContext()
	span.SetAttribute("attempt", 1)
	span.End()
	span.End()
	span.SetAttribute("late", true)

	if span.SpanContext() != before {
		t.Errorf("span context changed: %+v -> %+v", before, span.SpanContext())
	}
}

func TestTracing_CreateTrace(t *testing.T) {
	obs, _, _ := newTestObs(t)

	tc := obs.Tracing().CreateTrace("corr-7")
	if tc.CorrelationID != "corr-7" {
		t.Errorf("correlationId = %q, want corr-7", tc.CorrelationID)
	}
	if len(tc.TraceID) != 32 {
		t.Errorf("traceId = %q, want 32 hex chars", tc.TraceID)
	}

	generated := obs.Tracing().CreateTrace("")
	if generated.CorrelationID == "" {
		t.Error("CreateTrace(\"\") did not generate a correlation ID")
	}
	if generated.TraceID == tc.TraceID {
		t.Error("trace IDs collided across CreateTrace calls")
	}
}
