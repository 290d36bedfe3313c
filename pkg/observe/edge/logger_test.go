// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
)

func testConfig() observe.TelemetryConfig {
	return observe.TelemetryConfig{
		ServiceName: "gateway",
		Version:     "1.0.0",
		Environment: "test",
		Platform:    observe.PlatformEdge,
	}
}

// newTestObs builds an edge adapter with captured streams.
func newTestObs(t *testing.T, opts ...Option) (*Observability, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	obs, err := New(testConfig(), append([]Option{WithStdout(&stdout), WithStderr(&stderr)}, opts...)...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return obs, &stdout, &stderr
}

// parseLines decodes every JSON line in buf.
func parseLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(line), &parsed); err != nil {
			t.Fatalf("line %q is not valid JSON: %v", line, err)
		}
		out = append(out, parsed)
	}
	return out
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(observe.TelemetryConfig{ServiceName: "gateway"})
	if !errors.Is(err, observe.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLogger_StreamRouting(t *testing.T) {
	obs, stdout, stderr := newTestObs(t)
	ctx := context.Background()

	obs.Log().Info(ctx, "to stdout", nil)
	obs.Log().Warn(ctx, "to stderr", nil)
	obs.Log().Error(ctx, "also stderr", nil, nil)

	out := parseLines(t, stdout)
	errLines := parseLines(t, stderr)

	if len(out) != 1 || out[0]["level"] != "info" {
		t.Errorf("stdout lines = %v, want single info entry", out)
	}
	if len(errLines) != 2 {
		t.Fatalf("stderr lines = %d, want 2", len(errLines))
	}
	if errLines[0]["level"] != "warn" || errLines[1]["level"] != "error" {
		t.Errorf("stderr levels = %v, %v", errLines[0]["level"], errLines[1]["level"])
	}
}

func TestLogger_EntryShape(t *testing.T) {
	obs, _, stderr := newTestObs(t)

	obs.Log().Error(context.Background(), "Payment failed", errors.New("timeout"), observe.Fields{"userId": "u1"})

	lines := parseLines(t, stderr)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	entry := lines[0]
	if entry["level"] != "error" || entry["service"] != "gateway" || entry["message"] != "Payment failed" {
		t.Errorf("entry = %v", entry)
	}
	if entry["userId"] != "u1" {
		t.Errorf("userId = %v, want u1", entry["userId"])
	}
	errObj, ok := entry["error"].(map[string]any)
	if !ok {
		t.Fatalf("error field = %v", entry["error"])
	}
	if errObj["message"] != "timeout" {
		t.Errorf("error.message = %v, want timeout", errObj["message"])
	}
	if entry["timestamp"] == nil {
		t.Error("timestamp missing")
	}
}

func TestLogger_DebugGatedByEnvironment(t *testing.T) {
	obs, stdout, _ := newTestObs(t)
	obs.Log().Debug(context.Background(), "hidden", nil)
	if stdout.Len() != 0 {
		t.Errorf("debug emitted in non-development environment: %s", stdout.String())
	}

	cfg := testConfig()
	cfg.Environment = "development"
	var devOut bytes.Buffer
	devObs, err := New(cfg, WithStdout(&devOut), WithStderr(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	devObs.Log().Debug(context.Background(), "visible", nil)
	if devOut.Len() == 0 {
		t.Error("debug suppressed in development environment")
	}
}

func TestLogger_ContextEnrichment(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	ctx := observe.ContextWithCorrelationID(context.Background(), "corr-7")
	ctx, span := obs.Tracing().StartSpan(ctx, "op", nil)
	defer span.End()

	obs.Log().Info(ctx, "inside span", nil)

	lines := parseLines(t, stdout)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	entry := lines[0]
	sc := span.SpanContext()
	if entry["traceId"] != sc.TraceID || entry["spanId"] != sc.SpanID {
		t.Errorf("entry trace identity %v/%v, want %s/%s", entry["traceId"], entry["spanId"], sc.TraceID, sc.SpanID)
	}
	if entry["correlationId"] != "corr-7" {
		t.Errorf("correlationId = %v, want corr-7", entry["correlationId"])
	}
}

func TestLogger_CallerFieldsWinOverContext(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	ctx, span := obs.Tracing().StartSpan(context.Background(), "op", nil)
	defer span.End()

	obs.Log().Info(ctx, "override", observe.Fields{"traceId": "explicit-trace"})

	lines := parseLines(t, stdout)
	if lines[0]["traceId"] != "explicit-trace" {
		t.Errorf("traceId = %v, want caller override", lines[0]["traceId"])
	}
}

func TestLogger_ExportQueueReceivesEntries(t *testing.T) {
	exporter := observe.NewBufferedExporter()
	obs, _, _ := newTestObs(t, WithExporter(exporter))

	obs.Log().Info(context.Background(), "exported", nil)
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	entries := exporter.Entries()
	if len(entries) != 1 || entries[0].Message != "exported" {
		t.Errorf("exported entries = %v", entries)
	}
}
