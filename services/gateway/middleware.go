// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/platform/pkg/observe"
)

// ====== HTTP Headers ======

const (
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderTraceID       = "X-Trace-ID"
	HeaderSpanID        = "X-Span-ID"
)

// CorrelationMiddleware attaches a correlation ID to every request.
//
// Description:
//
//	Honors an incoming X-Correlation-ID header so a caller's identity
//	survives the hop; generates one otherwise. The ID is stored on the
//	request context for the logger to pick up and echoed back in the
//	response header so clients can quote it in support requests.
//
// Thread Safety: Safe for concurrent use.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(HeaderCorrelationID)
		if correlationID == "" {
			correlationID = observe.GenerateCorrelationID()
		}

		ctx := observe.ContextWithCorrelationID(c.Request.Context(), correlationID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderCorrelationID, correlationID)

		c.Next()
	}
}

// TelemetryMiddleware wraps each request in a span and records HTTP metrics.
//
// Description:
//
//	Starts a span named "METHOD /route". When the caller supplies
//	X-Trace-ID and X-Span-ID headers, the span joins that trace as a
//	remote child; otherwise it roots a new one. Request count and
//	duration are recorded against the route template (not the raw path,
//	which would explode metric cardinality on parameterized routes).
//	5xx responses are logged at error level, 4xx at warn.
//
// Thread Safety: Safe for concurrent use.
func TelemetryMiddleware(obs observe.PlatformObservability) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		spanName := c.Request.Method + " " + route

		var parent *observe.SpanContext
		if traceID := c.GetHeader(HeaderTraceID); traceID != "" {
			parent = &observe.SpanContext{
				TraceID:    traceID,
				SpanID:     c.GetHeader(HeaderSpanID),
				TraceFlags: 1,
			}
		}

		ctx, span := obs.Tracing().StartSpan(c.Request.Context(), spanName, parent)
		defer span.End()

		span.SetAttributes(map[string]any{
			"http.method": c.Request.Method,
			"http.route":  route,
			"http.target": c.Request.URL.Path,
		})

		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		status := c.Writer.Status()
		span.SetAttribute("http.status_code", status)

		tags := map[string]string{
			"method": c.Request.Method,
			"route":  route,
			"status": fmt.Sprintf("%d", status),
		}
		obs.Metrics().Counter().Inc(ctx, "http.requests", 1, tags)
		obs.Metrics().Histogram().Observe(ctx, "http.request.duration", float64(elapsed.Milliseconds()), tags)

		fields := observe.Fields{
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"durationMs": elapsed.Milliseconds(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			var failure error
			if len(c.Errors) > 0 {
				failure = c.Errors.Last()
			}
			obs.Log().Error(ctx, "request failed", failure, fields)
		case status >= http.StatusBadRequest:
			obs.Log().Warn(ctx, "request rejected", fields)
		default:
			obs.Log().Info(ctx, "request handled", fields)
		}
	}
}
