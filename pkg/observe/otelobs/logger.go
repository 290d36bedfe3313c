// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"context"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/lumenworks/platform/pkg/observe"
)

// Logger emits one JSON line per call, enriched from the active SDK span.
//
// Description:
//
//	Same line shapes and stream routing as the edge adapter. The difference
//	is enrichment: this adapter has an ambient active-span concept, so
//	trace_id/span_id come from the OpenTelemetry span recorded in ctx.
//	Caller-supplied recognized field keys still win over ambient values.
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

// Debug logs at debug level when enabled for the environment.
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

func (l *Logger) emit(ctx context.Context, level, msg string, err error, fields observe.Fields) {
	defer func() {
		_ = recover()
	}()

	entry := observe.BuildLogEntry(l.cfg.ServiceName, level, msg, err, fields)

	if ctx != nil && (entry.TraceID == "" || entry.SpanID == "") {
		if sc := oteltrace.SpanContextFromContext(ctx); sc.IsValid() {
			if entry.TraceID == "" {
				entry.TraceID = sc.TraceID().String()
			}
			if entry.SpanID == "" {
				entry.SpanID = sc.SpanID().String()
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
