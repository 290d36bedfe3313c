// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"context"

	"github.com/lumenworks/platform/pkg/observe"
)

// Logger emits one JSON line per call.
//
// Description:
//
//	Error and warn entries route to the error stream, debug and info to the
//	standard output stream, so platform log routers can split by severity
//	without parsing bodies. There is no ambient active-span concept in this
//	adapter: trace identity comes from the span context stored in ctx by
//	Tracing.StartSpan, from the correlation ID stored by
//	observe.ContextWithCorrelationID, or from caller-supplied recognized
//	field keys (caller fields win).
//
// Thread Safety: safe for concurrent use.
type Logger struct {
	cfg    observe.TelemetryConfig
	out    *observe.LineWriter
	errOut *observe.LineWriter
	queue  *observe.ExportQueue
	debug  bool
}

var _ observe.Logger = (*Logger)(nil)

func newLogger(cfg observe.TelemetryConfig, out, errOut *observe.LineWriter, queue *observe.ExportQueue) *Logger {
	return &Logger{
		cfg:    cfg,
		out:    out,
		errOut: errOut,
		queue:  queue,
		debug:  cfg.DebugEnabled(),
	}
}

// Debug logs at debug level. Dropped unless debug logging is enabled for
// the configured environment.
func (l *Logger) Debug(ctx context.Context, msg string, fields observe.Fields) {
	if !l.debug {
		return
	}
	l.emit(ctx, observe.LevelDebug, msg, nil, fields)
}

// Info logs at info level.
func (l *Logger) Info(ctx context.Context, msg string, fields observe.Fields) {
	l.emit(ctx, observe.LevelInfo, msg, nil, fields)
}

// Warn logs at warn level on the error stream.
func (l *Logger) Warn(ctx context.Context, msg string, fields observe.Fields) {
	l.emit(ctx, observe.LevelWarn, msg, nil, fields)
}

// Error logs at error level on the error stream, capturing err when present.
func (l *Logger) Error(ctx context.Context, msg string, err error, fields observe.Fields) {
	l.emit(ctx, observe.LevelError, msg, err, fields)
}

// emit builds, enriches, and writes one entry. Never panics into the caller.
func (l *Logger) emit(ctx context.Context, level, msg string, err error, fields observe.Fields) {
	defer func() {
		// Telemetry must never take the request down with it.
		_ = recover()
	}()

	entry := observe.BuildLogEntry(l.cfg.ServiceName, level, msg, err, fields)

	// Context enrichment; explicit caller fields take precedence.
	if entry.TraceID == "" || entry.SpanID == "" {
		if sc, ok := observe.SpanContextFromContext(ctx); ok {
			if entry.TraceID == "" {
				entry.TraceID = sc.TraceID
			}
			if entry.SpanID == "" {
				entry.SpanID = sc.SpanID
			}
		}
	}
	if entry.CorrelationID == "" {
		entry.CorrelationID = observe.CorrelationIDFromContext(ctx)
	}

	switch level {
	case observe.LevelError, observe.LevelWarn:
		l.errOut.WriteEntry(entry)
	default:
		l.out.WriteEntry(entry)
	}

	if l.queue != nil {
		l.queue.Enqueue(entry)
	}
}
