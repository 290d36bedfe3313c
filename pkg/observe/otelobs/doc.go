// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package otelobs implements the observability contract on the full
// OpenTelemetry SDK for long-lived server processes.
//
// # Backends
//
// Traces export over OTLP/gRPC by default (Jaeger speaks OTLP natively
// since 1.35); metrics default to a Prometheus scrape endpoint. Both are
// switchable to stdout for development or "none" to disable export while
// keeping real span identities, via Options or the standard environment
// variables:
//
//   - OTEL_TRACES_EXPORTER: otlp, stdout, or none (default: otlp)
//   - OTEL_METRICS_EXPORTER: prometheus, stdout, or none (default: prometheus)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP receiver (default: localhost:4317)
//
// # No globals
//
// Providers are instance-local: New does not touch otel.SetTracerProvider,
// so tests and multi-tenant processes never leak state through the global
// registry. Callers that need SDK-native instrumentation (otelgin and
// friends) obtain the provider from TracerProvider().
//
// # Log correlation
//
// The logger emits the same JSON line shapes as the edge adapter and
// injects trace_id/span_id from the active SDK span in the call context,
// so log lines group with exported traces in Grafana/Loki without any
// caller effort.
package otelobs
