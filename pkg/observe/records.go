// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"
)

// Log levels as they appear in emitted entries.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ErrorInfo captures an error into a log entry.
type ErrorInfo struct {
	// Name is the error's concrete type.
	Name string `json:"name"`

	// Message is the error text.
	Message string `json:"message"`

	// Stack is the stack at the point the error was logged.
	Stack string `json:"stack,omitempty"`
}

// LogEntry is one emitted log line.
//
// Constructed per log call, serialized immediately, and discarded; entries
// have no retained identity. Field names are the wire contract shared with
// downstream log processors.
type LogEntry struct {
	Timestamp     string         `json:"timestamp"`
	Level         string         `json:"level"`
	Service       string         `json:"service"`
	Message       string         `json:"message"`
	CorrelationID string         `json:"correlationId,omitempty"`
	TraceID       string         `json:"traceId,omitempty"`
	SpanID        string         `json:"spanId,omitempty"`
	UserID        string         `json:"userId,omitempty"`
	AggregateID   string         `json:"aggregateId,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Error         *ErrorInfo     `json:"error,omitempty"`
}

// MetricSample is one recorded point: name, value, aggregation kind, tags.
type MetricSample struct {
	Name  string            `json:"name"`
	Value float64           `json:"value"`
	Type  string            `json:"type"`
	Tags  map[string]string `json:"tags"`
}

// Metric aggregation kinds.
const (
	MetricCounter   = "counter"
	MetricHistogram = "histogram"
	MetricGauge     = "gauge"
)

// MetricRecord is one emitted metric line (type tag "metric").
type MetricRecord struct {
	Type      string       `json:"type"`
	Timestamp string       `json:"timestamp"`
	Metric    MetricSample `json:"metric"`
}

// SpanData is the payload of an emitted span completion record.
type SpanData struct {
	Name         string         `json:"name"`
	TraceID      string         `json:"traceId"`
	SpanID       string         `json:"spanId"`
	ParentSpanID string         `json:"parentSpanId,omitempty"`
	Duration     float64        `json:"duration"`
	Attributes   map[string]any `json:"attributes"`
}

// SpanRecord is one emitted span line (type tag "span"). Duration is in
// milliseconds.
type SpanRecord struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Span      SpanData `json:"span"`
}

// Timestamp formats t for emitted records (ISO-8601, UTC).
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// BuildLogEntry assembles a LogEntry from a log call.
//
// Description:
//
//	Recognized keys in fields are promoted to top-level entry fields with
//	string coercion; remaining keys stay under metadata. A non-nil err is
//	captured as name/message/stack. Never panics, including for errors
//	whose Error method panics.
//
// Inputs:
//
//	service - Service name stamped on the entry.
//	level - One of LevelDebug, LevelInfo, LevelWarn, LevelError.
//	msg - The log message.
//	err - Optional error to capture. May be nil.
//	fields - Optional structured attributes. May be nil.
func BuildLogEntry(service, level, msg string, err error, fields Fields) LogEntry {
	entry := LogEntry{
		Timestamp: Timestamp(time.Now()),
		Level:     level,
		Service:   service,
		Message:   msg,
	}

	var metadata map[string]any
	for k, v := range fields {
		switch k {
		case FieldCorrelationID:
			entry.CorrelationID = coerceString(v)
		case FieldTraceID:
			entry.TraceID = coerceString(v)
		case FieldSpanID:
			entry.SpanID = coerceString(v)
		case FieldUserID:
			entry.UserID = coerceString(v)
		case FieldAggregateID:
			entry.AggregateID = coerceString(v)
		default:
			if metadata == nil {
				metadata = make(map[string]any, len(fields))
			}
			metadata[k] = v
		}
	}
	entry.Metadata = metadata

	if err != nil {
		entry.Error = newErrorInfo(err)
	}
	return entry
}

// newErrorInfo extracts name/message/stack from an error, tolerating
// malformed implementations.
func newErrorInfo(err error) (info *ErrorInfo) {
	info = &ErrorInfo{
		Name:  fmt.Sprintf("%T", err),
		Stack: string(debug.Stack()),
	}
	defer func() {
		if recover() != nil {
			info.Message = "unprintable error"
		}
	}()
	info.Message = err.Error()
	return info
}

// coerceString renders any promoted field value as a string.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// LineWriter serializes records as one JSON object per line.
//
// Description:
//
//	Writes are synchronous and serialized by an internal mutex, so entries
//	emitted from one goroutine preserve call order in the output stream.
//	Write errors on the underlying writer are swallowed: telemetry emission
//	must never become an application failure.
//
// Thread Safety: safe for concurrent use.
type LineWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLineWriter wraps w. The writer is not closed by LineWriter.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{w: w}
}

// Write marshals v and writes it as a single line.
//
// Outputs:
//
//	error - Non-nil only when v cannot be marshaled (for example circular
//	        metadata). Callers degrade the record and retry; underlying
//	        I/O errors are never surfaced.
func (lw *LineWriter) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = lw.w.Write(append(data, '\n'))
	return nil
}

// WriteEntry writes a log entry, degrading the metadata object when it
// cannot be serialized so the entry itself is never lost.
func (lw *LineWriter) WriteEntry(entry LogEntry) {
	if err := lw.Write(entry); err != nil {
		entry.Metadata = map[string]any{"encodeError": err.Error()}
		_ = lw.Write(entry)
	}
}
