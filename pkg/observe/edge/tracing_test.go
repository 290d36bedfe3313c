// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"context"
	"testing"
)

// spanLines filters emitted lines down to span records.
func spanLines(t *testing.T, lines []map[string]any) []map[string]any {
	t.Helper()
	var spans []map[string]any
	for _, line := range lines {
		if line["type"] == "span" {
			spans = append(spans, line)
		}
	}
	return spans
}

func TestTracing_RootSpanRecord(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "op", nil)
	span.SetAttribute("rows", 12)
	span.End()

	spans := spanLines(t, parseLines(t, stdout))
	if len(spans) != 1 {
		t.Fatalf("got %d span records, want 1", len(spans))
	}
	payload := spans[0]["span"].(map[string]any)

	if payload["name"] != "op" {
		t.Errorf("name = %v", payload["name"])
	}
	if _, hasParent := payload["parentSpanId"]; hasParent {
		t.Errorf("root span has parentSpanId: %v", payload["parentSpanId"])
	}
	if payload["duration"].(float64) < 0 {
		t.Errorf("duration = %v, want >= 0", payload["duration"])
	}
	attrs := payload["attributes"].(map[string]any)
	if attrs["rows"] != float64(12) {
		t.Errorf("attributes = %v", attrs)
	}
	sc := span.SpanContext()
	if payload["traceId"] != sc.TraceID || payload["spanId"] != sc.SpanID {
		t.Errorf("record identity %v/%v, want %s/%s", payload["traceId"], payload["spanId"], sc.TraceID, sc.SpanID)
	}
}

func TestTracing_ChildRecordsParent(t *testing.T) {
	obs, stdout, _ := newTestObs(t)
	tr := obs.Tracing()

	_, parent := tr.StartSpan(context.Background(), "parent", nil)
	psc := parent.SpanContext()
	_, child := tr.StartSpan(context.Background(), "child", &psc)
	child.End()
	parent.End()

	spans := spanLines(t, parseLines(t, stdout))
	if len(spans) != 2 {
		t.Fatalf("got %d span records, want 2", len(spans))
	}
	childPayload := spans[0]["span"].(map[string]any)
	if childPayload["traceId"] != psc.TraceID {
		t.Errorf("child traceId = %v, want %s", childPayload["traceId"], psc.TraceID)
	}
	if childPayload["parentSpanId"] != psc.SpanID {
		t.Errorf("parentSpanId = %v, want %s", childPayload["parentSpanId"], psc.SpanID)
	}
}

func TestTracing_DoubleEndEmitsOnce(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "once", nil)
	span.End()
	span.End()

	if got := len(spanLines(t, parseLines(t, stdout))); got != 1 {
		t.Errorf("got %d span records after double End, want 1", got)
	}
}

func TestTracing_AttributesAfterEndDoNotChangeRecord(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "sealed", nil)
	span.SetAttribute("kept", "yes")
	span.End()
	span.SetAttribute("late", "must not appear")

	spans := spanLines(t, parseLines(t, stdout))
	attrs := spans[0]["span"].(map[string]any)["attributes"].(map[string]any)
	if attrs["kept"] != "yes" {
		t.Errorf("attributes = %v", attrs)
	}
	if _, ok := attrs["late"]; ok {
		t.Error("attribute set after End leaked into the emitted record")
	}
}

func TestTracing_CreateTrace(t *testing.T) {
	obs, _, _ := newTestObs(t)
	tr := obs.Tracing()

	tc := tr.CreateTrace("given")
	if tc.CorrelationID != "given" || tc.TraceID == "" {
		t.Errorf("trace context = %+v", tc)
	}
	if tr.CreateTrace("").CorrelationID == "" {
		t.Error("correlation ID not generated")
	}
}

func TestTracing_NonScalarAttributeCoerced(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "coerce", nil)
	span.SetAttribute("obj", struct{ A int }{1})
	span.End()

	spans := spanLines(t, parseLines(t, stdout))
	attrs := spans[0]["span"].(map[string]any)["attributes"].(map[string]any)
	if _, isString := attrs["obj"].(string); !isString {
		t.Errorf("non-scalar attribute not coerced to string: %T", attrs["obj"])
	}
}
