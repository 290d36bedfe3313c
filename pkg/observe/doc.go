// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observe defines the platform-neutral observability contract for
// Lumenworks services: structured logging, dimensional metrics, and span
// tracing behind a single facade that is implemented once per runtime class.
//
// # Two adapters, one contract
//
// Long-lived server processes use the full OpenTelemetry adapter
// (pkg/observe/otelobs), which exports to OTLP/Prometheus backends through
// the SDK's batching pipeline. Constrained runtimes without an exporter
// pipeline use the edge adapter (pkg/observe/edge), which substitutes
// correlation-ID tracing and emits every record as a JSON line for an
// external log processor to reconstruct. Calling code is written once
// against PlatformObservability and never branches on the adapter.
//
// The adapter choice is made at assembly time by picking a constructor
// (otelobs.New vs edge.New); there is no runtime switch inside the library,
// because the two implementations have disjoint dependency graphs.
//
// # Fail-safe guarantee
//
// No method reachable from Logger, Metrics, or Tracing ever panics into
// application code or returns an error to it. Exporter and backend failures
// are logged by this layer and swallowed. The single exception is
// construction: a misconfigured TelemetryConfig fails fast with an error
// before the process serves traffic.
//
// # Emitted line formats
//
// Both adapters share the wire shapes consumed by downstream log processors:
//
//	{"timestamp":..., "level":"info", "service":..., "message":..., ...}
//	{"type":"metric", "timestamp":..., "metric":{"name":..., "value":..., "type":..., "tags":{...}}}
//	{"type":"span", "timestamp":..., "span":{"name":..., "traceId":..., "spanId":..., "duration":..., "attributes":{...}}}
//
// Error and warn entries go to the error stream, everything else to the
// standard output stream, so platform log routers can split by severity
// without parsing bodies.
//
// # Usage
//
//	obs, err := edge.New(observe.TelemetryConfig{
//	    ServiceName: "gateway",
//	    Version:     "1.4.0",
//	    Environment: "production",
//	    Platform:    observe.PlatformEdge,
//	})
//	if err != nil {
//	    return fmt.Errorf("init observability: %w", err)
//	}
//	defer obs.Shutdown(context.Background())
//
//	ctx, span := obs.Tracing().StartSpan(ctx, "workflow.load", nil)
//	defer span.End()
//	obs.Log().Info(ctx, "workflow loaded", observe.Fields{"aggregateId": id})
//	obs.Metrics().Counter().Inc(ctx, "workflow.loads", 1, nil)
package observe
