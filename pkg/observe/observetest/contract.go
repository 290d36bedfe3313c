// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observetest holds the shared contract suite for observability
// adapters.
//
// Interface parity between the OpenTelemetry adapter and the edge adapter
// is enforced here, not in adapter-specific tests: every adapter's test
// package calls Run against its own constructor, so a behavioral divergence
// fails both sides identically.
package observetest

import (
	"context"
	"errors"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
)

// Factory constructs a fresh adapter instance for one subtest.
type Factory func(t *testing.T) observe.PlatformObservability

// Run executes the contract suite against the adapter built by factory.
//
// Every property asserted here must hold for all adapters; anything
// adapter-specific (emitted line shapes, retained sample maps, SDK export)
// belongs in that adapter's own tests.
func Run(t *testing.T, factory Factory) {
	t.Run("FacetsNonNil", func(t *testing.T) {
		obs := factory(t)
		if obs.Log() == nil || obs.Metrics() == nil || obs.Tracing() == nil {
			t.Fatal("facade returned a nil facet")
		}
	})

	t.Run("LoggerRoundTripNeverPanics", func(t *testing.T) {
		obs := factory(t)
		ctx := context.Background()
		log := obs.Log()

		log.Debug(ctx, "debug message", observe.Fields{"k": "v"})
		log.Info(ctx, "info message", nil)
		log.Warn(ctx, "warn message", observe.Fields{})
		log.Error(ctx, "error message", errors.New("boom"), observe.Fields{"userId": "u1"})
		log.Error(ctx, "error without cause", nil, nil)
	})

	t.Run("LoggerToleratesMalformedInput", func(t *testing.T) {
		obs := factory(t)
		ctx := context.Background()

		circular := map[string]any{}
		circular["self"] = circular

		obs.Log().Info(ctx, "circular metadata", observe.Fields{"payload": circular})
		obs.Log().Info(ctx, "", nil)
		obs.Log().Error(ctx, "typed nil-ish context values", errors.New("x"), observe.Fields{
			"userId":      nil,
			"aggregateId": 1234,
		})
	})

	t.Run("MetricsNeverPanic", func(t *testing.T) {
		obs := factory(t)
		ctx := context.Background()
		m := obs.Metrics()

		m.Counter().Inc(ctx, "contract.requests", 1, map[string]string{"method": "GET"})
		m.Counter().Inc(ctx, "contract.requests", 1, nil)
		m.Histogram().Observe(ctx, "contract.duration", 0.25, map[string]string{"path": "/"})
		m.Gauge().Set(ctx, "contract.active", 3, nil)

		// Degenerate inputs.
		m.Counter().Inc(ctx, "", -1, map[string]string{"": ""})
		m.Histogram().Observe(ctx, "contract.duration", -5, nil)
	})

	t.Run("SpanIdentityStableAcrossAttributeMutation", func(t *testing.T) {
		obs := factory(t)
		_, span := obs.Tracing().StartSpan(context.Background(), "contract.op", nil)
		defer span.End()

		before := span.SpanContext()
		if before.TraceID == "" || before.SpanID == "" {
			t.Fatalf("span context incomplete: %+v", before)
		}

		span.SetAttribute("a", 1)
		span.SetAttributes(map[string]any{"b": "two", "c": true})
		span.SetAttribute("weird", struct{ X int }{7})

		after := span.SpanContext()
		if before.TraceID != after.TraceID || before.SpanID != after.SpanID {
			t.Errorf("identity changed: %+v -> %+v", before, after)
		}
	})

	t.Run("ChildInheritsTraceID", func(t *testing.T) {
		obs := factory(t)
		tr := obs.Tracing()

		_, parent := tr.StartSpan(context.Background(), "contract.parent", nil)
		psc := parent.SpanContext()

		_, child := tr.StartSpan(context.Background(), "contract.child", &psc)
		csc := child.SpanContext()

		if csc.TraceID != psc.TraceID {
			t.Errorf("child traceId = %s, want parent's %s", csc.TraceID, psc.TraceID)
		}
		if csc.SpanID == psc.SpanID {
			t.Error("child reused parent span ID")
		}

		child.End()
		parent.End()
	})

	t.Run("ContextCarriesActiveSpan", func(t *testing.T) {
		obs := factory(t)
		tr := obs.Tracing()

		ctx, parent := tr.StartSpan(context.Background(), "contract.outer", nil)
		_, child := tr.StartSpan(ctx, "contract.inner", nil)

		if child.SpanContext().TraceID != parent.SpanContext().TraceID {
			t.Error("span started from a span-carrying context did not join the trace")
		}

		child.End()
		parent.End()
	})

	t.Run("EndIsIdempotent", func(t *testing.T) {
		obs := factory(t)
		_, span := obs.Tracing().StartSpan(context.Background(), "contract.once", nil)

		span.End()
		span.End()
		span.SetAttribute("after", "end")
		span.End()
	})

	t.Run("CreateTrace", func(t *testing.T) {
		obs := factory(t)
		tr := obs.Tracing()

		tc := tr.CreateTrace("corr-42")
		if tc.CorrelationID != "corr-42" {
			t.Errorf("CorrelationID = %q, want supplied value", tc.CorrelationID)
		}
		if tc.TraceID == "" {
			t.Error("TraceID is empty")
		}

		generated := tr.CreateTrace("")
		if generated.CorrelationID == "" {
			t.Error("empty correlation ID was not generated")
		}

		seen := make(map[string]bool, 100)
		for i := 0; i < 100; i++ {
			id := tr.CreateTrace("").TraceID
			if seen[id] {
				t.Fatalf("duplicate trace ID: %s", id)
			}
			seen[id] = true
		}
	})

	t.Run("WithSpanEndsOnErrorPath", func(t *testing.T) {
		obs := factory(t)
		sentinel := errors.New("downstream failed")

		err := observe.WithSpan(context.Background(), obs.Tracing(), "contract.wrapped", func(ctx context.Context) error {
			return sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Errorf("WithSpan error = %v, want sentinel", err)
		}
	})

	t.Run("ShutdownIdempotent", func(t *testing.T) {
		obs := factory(t)
		if err := obs.Shutdown(context.Background()); err != nil {
			t.Errorf("Shutdown() error = %v", err)
		}
		if err := obs.Shutdown(context.Background()); err != nil {
			t.Errorf("second Shutdown() error = %v", err)
		}
	})
}
