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
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
)

func testConfig() observe.TelemetryConfig {
	return observe.TelemetryConfig{
		ServiceName: "gateway",
		Version:     "1.0.0",
		Environment: "test",
		Platform:    observe.PlatformNode,
	}
}

// testOptions keeps everything local: no network export, captured streams.
func testOptions(stdout, stderr io.Writer) Options {
	return Options{
		TraceExporter:  "none",
		MetricExporter: "none",
		Stdout:         stdout,
		Stderr:         stderr,
	}
}

func newTestObs(t *testing.T) (*Observability, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	obs, err := New(context.Background(), testConfig(), testOptions(&stdout, &stderr))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })
	return obs, &stdout, &stderr
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.TraceExporter != "otlp" {
		t.Errorf("TraceExporter = %q, want %q", opts.TraceExporter, "otlp")
	}
	if opts.MetricExporter != "prometheus" {
		t.Errorf("MetricExporter = %q, want %q", opts.MetricExporter, "prometheus")
	}
	if opts.OTLPEndpoint != "localhost:4317" {
		t.Errorf("OTLPEndpoint = %q, want %q", opts.OTLPEndpoint, "localhost:4317")
	}
}

func TestNew_NilContext(t *testing.T) {
	_, err := New(nil, testConfig(), testOptions(nil, nil)) //nolint:staticcheck
	if !errors.Is(err, observe.ErrNilContext) {
		t.Errorf("New(nil) error = %v, want ErrNilContext", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), observe.TelemetryConfig{}, testOptions(nil, nil))
	if !errors.Is(err, observe.ErrInvalidConfig) {
		t.Errorf("New() error = %v, want ErrInvalidConfig", err)
	}
}

func TestNew_UnknownExporter(t *testing.T) {
	opts := testOptions(nil, nil)
	opts.TraceExporter = "carrier-pigeon"
	_, err := New(context.Background(), testConfig(), opts)
	if !errors.Is(err, observe.ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

func TestNew_PrometheusHandler(t *testing.T) {
	opts := testOptions(nil, nil)
	opts.MetricExporter = "prometheus"
	obs, err := New(context.Background(), testConfig(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer obs.Shutdown(context.Background())

	handler := obs.MetricsHandler()
	if handler == nil {
		t.Fatal("MetricsHandler() is nil with prometheus exporter")
	}

	obs.Metrics().Counter().Inc(context.Background(), "scrape.test", 1, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("scrape status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "scrape_test") {
		t.Errorf("scrape output missing recorded counter:\n%s", rec.Body.String())
	}

	// A second instance must not collide on exporter registration.
	obs2, err := New(context.Background(), testConfig(), opts)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	_ = obs2.Shutdown(context.Background())
}

func TestNew_NoneExportersStillProduceRealSpanIdentity(t *testing.T) {
	obs, _, _ := newTestObs(t)

	_, span := obs.Tracing().StartSpan(context.Background(), "op", nil)
	defer span.End()

	sc := span.SpanContext()
	if len(sc.TraceID) != 32 || sc.TraceID == strings.Repeat("0", 32) {
		t.Errorf("trace ID = %q, want a real identity", sc.TraceID)
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	var stdout, stderr bytes.Buffer
	obs, err := New(context.Background(), testConfig(), testOptions(&stdout, &stderr))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
}
