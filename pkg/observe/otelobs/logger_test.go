// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
)

func parseLines(t *testing.T, buf *bytes.Buffer) []observe.LogEntry {
	t.Helper()
	var entries []observe.LogEntry
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry observe.LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_StreamRouting(t *testing.T) {
	obs, stdout, stderr := newTestObs(t)
	ctx := context.Background()

	obs.Log().Info(ctx, "ready", nil)
	obs.Log().Warn(ctx, "slow response", nil)
	obs.Log().Error(ctx, "request failed", errors.New("boom"), nil)

	out := parseLines(t, stdout)
	if len(out) != 1 || out[0].Level != observe.LevelInfo {
		t.Errorf("stdout entries = %+v, want single info entry", out)
	}
	errOut := parseLines(t, stderr)
	if len(errOut) != 2 {
		t.Fatalf("stderr entries = %d, want 2", len(errOut))
	}
	if errOut[0].Level != observe.LevelWarn || errOut[1].Level != observe.LevelError {
		t.Errorf("stderr levels = %q, %q", errOut[0].Level, errOut[1].Level)
	}
	if errOut[1].Error == nil || errOut[1].Error.Message != "boom" {
		t.Errorf("error info = %+v, want message %q", errOut[1].Error, "boom")
	}
}

func TestLogger_EnrichedFromActiveSpan(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	ctx, span := obs.Tracing().StartSpan(context.Background(), "handle", nil)
	defer span.End()

	obs.Log().Info(ctx, "in flight", nil)

	entries := parseLines(t, stdout)
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	sc := span.SpanContext()
	if entries[0].TraceID != sc.TraceID {
		t.Errorf("traceId = %q, want %q", entries[0].TraceID, sc.TraceID)
	}
	if entries[0].SpanID != sc.SpanID {
		t.Errorf("spanId = %q, want %q", entries[0].SpanID, sc.SpanID)
	}
}

func TestLogger_CorrelationFromContext(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	ctx := observe.ContextWithCorrelationID(context.Background(), "corr-42")
	obs.Log().Info(ctx, "tracked", nil)

	entries := parseLines(t, stdout)
	if len(entries) != 1 || entries[0].CorrelationID != "corr-42" {
		t.Errorf("correlationId = %+v, want corr-42", entries)
	}
}

func TestLogger_DebugGatedByEnvironment(t *testing.T) {
	obs, stdout, _ := newTestObs(t)

	obs.Log().Debug(context.Background(), "noise", nil)
	if stdout.Len() != 0 {
		t.Errorf("debug emitted in test environment: %q", stdout.String())
	}
}
