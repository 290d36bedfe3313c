// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import "context"

type ctxKey int

const (
	correlationIDKey ctxKey = iota
	spanContextKey
)

// ContextWithCorrelationID attaches a correlation ID to the context.
//
// Typically called once per inbound request so every log entry on the
// request path carries the same grouping identifier.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID, or "" if none.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ContextWithSpanContext attaches a span identity to the context.
//
// The edge adapter uses this as its substitute for the SDK's ambient
// active-span concept: StartSpan stores the new identity here and the
// logger reads it back for entry enrichment.
func ContextWithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if !sc.Valid() {
		return ctx
	}
	return context.WithValue(ctx, spanContextKey, sc)
}

// SpanContextFromContext returns the stored span identity, if any.
func SpanContextFromContext(ctx context.Context) (SpanContext, bool) {
	if ctx == nil {
		return SpanContext{}, false
	}
	sc, ok := ctx.Value(spanContextKey).(SpanContext)
	return sc, ok && sc.Valid()
}
