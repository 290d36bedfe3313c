// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// LogExporter forwards log entries to an external system.
//
// Description:
//
//	The extension seam for centralized logging (object storage, Loki,
//	Datadog, an OTLP log collector). Implementations should buffer
//	internally and batch uploads; export failures are retried by the queue
//	and then dropped, never surfaced to instrumented code.
//
// Implementation requirements:
//
//  1. Export must be quick; it runs on the queue's drain goroutine.
//  2. Flush must send all buffered entries before returning. It is called
//     during graceful shutdown.
//  3. Close releases resources and is called after Flush.
type LogExporter interface {
	// Export sends one entry. Called from the queue's drain goroutine with
	// a bounded per-attempt context.
	Export(ctx context.Context, entry LogEntry) error

	// Flush sends all buffered entries.
	Flush(ctx context.Context) error

	// Close releases resources held by the exporter.
	Close() error
}

// queue tuning. Entries beyond the buffer are dropped rather than blocking
// the caller's log path.
const (
	defaultQueueBuffer   = 1024
	exportAttemptTimeout = time.Second
	exportMaxRetries     = 3
)

// ExportQueue drains log entries to a LogExporter in the background.
//
// Description:
//
//	Enqueue never blocks: when the buffer is full the entry is dropped.
//	Each entry is exported with exponential backoff up to a bounded retry
//	count, then abandoned. Flush drains everything enqueued so far and
//	flushes the exporter; Close drains, flushes, and releases the exporter.
//
// Thread Safety: safe for concurrent use.
type ExportQueue struct {
	exporter LogExporter
	items    chan queueItem

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}

	mu     sync.Mutex
	closed bool
}

type queueItem struct {
	entry LogEntry
	flush chan error
}

// NewExportQueue starts a queue draining into exporter.
//
// Inputs:
//
//	exporter - Destination for entries. Must not be nil.
//	buffer - Channel capacity; <= 0 selects the default.
func NewExportQueue(exporter LogExporter, buffer int) *ExportQueue {
	if buffer <= 0 {
		buffer = defaultQueueBuffer
	}
	q := &ExportQueue{
		exporter: exporter,
		items:    make(chan queueItem, buffer),
		done:     make(chan struct{}),
	}
	go q.drain()
	return q
}

// Enqueue submits an entry for export. Never blocks; drops on overflow or
// after Close.
func (q *ExportQueue) Enqueue(entry LogEntry) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	select {
	case q.items <- queueItem{entry: entry}:
	default:
		// Full buffer: dropping telemetry beats blocking the request path.
	}
	q.mu.Unlock()
}

// Flush waits until all entries enqueued before the call are exported, then
// flushes the exporter.
func (q *ExportQueue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	reply := make(chan error, 1)
	select {
	case q.items <- queueItem{flush: reply}:
		q.mu.Unlock()
	default:
		q.mu.Unlock()
		return fmt.Errorf("flush: queue buffer full")
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains remaining entries, flushes, and closes the exporter.
// Safe to call more than once.
func (q *ExportQueue) Close() error {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		q.closed = true
		close(q.items)
		q.mu.Unlock()

		<-q.done

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := q.exporter.Flush(ctx); err != nil {
			q.closeErr = fmt.Errorf("flush exporter: %w", err)
		}
		if err := q.exporter.Close(); err != nil && q.closeErr == nil {
			q.closeErr = fmt.Errorf("close exporter: %w", err)
		}
	})
	return q.closeErr
}

// drain is the queue's single consumer goroutine.
func (q *ExportQueue) drain() {
	defer close(q.done)
	for item := range q.items {
		if item.flush != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			item.flush <- q.exporter.Flush(ctx)
			cancel()
			continue
		}
		q.export(item.entry)
	}
}

// export attempts one entry with bounded retry, then abandons it.
func (q *ExportQueue) export(entry LogEntry) {
	attempt := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), exportAttemptTimeout)
		defer cancel()
		return q.exporter.Export(ctx, entry)
	}
	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), exportMaxRetries)
	_ = backoff.Retry(attempt, policy)
}

// =============================================================================
// Built-in Exporters
// =============================================================================

// NopExporter discards all entries. The default when no export is configured.
type NopExporter struct{}

// Export discards the entry.
func (NopExporter) Export(context.Context, LogEntry) error { return nil }

// Flush is a no-op.
func (NopExporter) Flush(context.Context) error { return nil }

// Close is a no-op.
func (NopExporter) Close() error { return nil }

var _ LogExporter = NopExporter{}

// BufferedExporter collects entries in memory.
//
// Useful in tests to verify export output:
//
//	exporter := observe.NewBufferedExporter()
//	obs, _ := edge.New(cfg, edge.WithExporter(exporter))
//	obs.Log().Info(ctx, "hello", nil)
//	obs.Shutdown(context.Background())
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter creates an empty BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{entries: make([]LogEntry, 0, 64)}
}

// Export appends the entry to the buffer.
func (e *BufferedExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op; entries are already in memory.
func (e *BufferedExporter) Flush(context.Context) error { return nil }

// Close is a no-op.
func (e *BufferedExporter) Close() error { return nil }

// Entries returns a copy of all collected entries.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LogEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

var _ LogExporter = (*BufferedExporter)(nil)

// WriterExporter writes entries to an io.Writer as JSON lines.
type WriterExporter struct {
	lw *LineWriter
}

// NewWriterExporter creates a WriterExporter over w.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{lw: NewLineWriter(w)}
}

// Export writes the entry as one JSON line.
func (e *WriterExporter) Export(_ context.Context, entry LogEntry) error {
	return e.lw.Write(entry)
}

// Flush is a no-op; writes are immediate.
func (e *WriterExporter) Flush(context.Context) error { return nil }

// Close is a no-op; the writer is not owned.
func (e *WriterExporter) Close() error { return nil }

var _ LogExporter = (*WriterExporter)(nil)
