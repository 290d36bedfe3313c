// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import "context"

// WithSpan runs fn inside a span, ending it exactly once on every exit path.
//
// Description:
//
//	A span started and never ended leaks a dangling trace into logs and
//	metrics. This wrapper guarantees End() runs whether fn returns normally,
//	returns an error, or panics (the panic propagates after the span ends).
//	On error the span is tagged with error and error.message attributes.
//
// Inputs:
//
//	ctx - Parent context; may carry an active span or correlation ID.
//	tr - The tracing facet to start the span on.
//	name - Span name, typically "component.Operation".
//	fn - The work to trace. Receives the span-carrying context.
//
// Outputs:
//
//	error - fn's error, unchanged.
//
// Example:
//
//	err := observe.WithSpan(ctx, obs.Tracing(), "workflow.Publish", func(ctx context.Context) error {
//	    return store.Publish(ctx, wf)
//	})
//
// Thread Safety: safe for concurrent use.
func WithSpan(ctx context.Context, tr Tracing, name string, fn func(context.Context) error) error {
	ctx, span := tr.StartSpan(ctx, name, nil)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.SetAttribute("error", true)
		span.SetAttribute("error.message", err.Error())
	}
	return err
}
