// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"context"
	"io"
	"os"

	"github.com/lumenworks/platform/pkg/observe"
)

// Observability is the edge implementation of the observability contract.
//
// Thread Safety: safe for concurrent use after construction.
type Observability struct {
	cfg     observe.TelemetryConfig
	logger  *Logger
	metrics *Metrics
	tracing *Tracing
	queue   *observe.ExportQueue
}

var _ observe.PlatformObservability = (*Observability)(nil)

// Option customizes construction.
type Option func(*options)

type options struct {
	stdout   io.Writer
	stderr   io.Writer
	exporter observe.LogExporter
	buffer   int
}

// WithStdout redirects the standard output stream. Intended for tests.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr redirects the error stream. Intended for tests.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithExporter additionally forwards log entries to exporter through the
// background export queue.
func WithExporter(exporter observe.LogExporter) Option {
	return func(o *options) { o.exporter = exporter }
}

// WithExportBuffer sets the export queue capacity.
func WithExportBuffer(n int) Option {
	return func(o *options) { o.buffer = n }
}

// New constructs an edge Observability from config.
//
// Description:
//
//	Pure factory: validates the config, wires the three facets around the
//	output streams, and starts the export queue when an exporter is
//	configured. This is the only call in this package that can fail.
//
// Inputs:
//
//	cfg - Service identity and environment. Validated here.
//	opts - Optional stream/exporter overrides.
//
// Outputs:
//
//	*Observability - Ready-to-use instance.
//	error - Non-nil only for invalid configuration.
//
// Example:
//
//	obs, err := edge.New(cfg)
//	if err != nil {
//	    return fmt.Errorf("init observability: %w", err)
//	}
//	defer obs.Shutdown(context.Background())
func New(cfg observe.TelemetryConfig, opts ...Option) (*Observability, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	out := observe.NewLineWriter(o.stdout)
	errOut := observe.NewLineWriter(o.stderr)

	obs := &Observability{cfg: cfg}
	if o.exporter != nil {
		obs.queue = observe.NewExportQueue(o.exporter, o.buffer)
	}
	obs.logger = newLogger(cfg, out, errOut, obs.queue)
	obs.metrics = newMetrics(cfg, out)
	obs.tracing = newTracing(cfg, out)
	return obs, nil
}

// Log returns the logger facet.
func (o *Observability) Log() observe.Logger { return o.logger }

// Metrics returns the metrics facet.
func (o *Observability) Metrics() observe.Metrics { return o.metrics }

// Tracing returns the tracing facet.
func (o *Observability) Tracing() observe.Tracing { return o.tracing }

// EdgeMetrics returns the concrete metrics facet for last-sample inspection.
func (o *Observability) EdgeMetrics() *Metrics { return o.metrics }

// Shutdown drains and closes the export queue. Console emission needs no
// teardown. Safe to call more than once.
func (o *Observability) Shutdown(_ context.Context) error {
	if o.queue == nil {
		return nil
	}
	return o.queue.Close()
}
