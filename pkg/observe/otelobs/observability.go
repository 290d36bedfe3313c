// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/lumenworks/platform/pkg/observe"
)

// Options controls exporter selection and wiring.
//
// Zero-value fields fall back to DefaultOptions values, so
// Options{TraceExporter: "none"} is enough for a test setup.
type Options struct {
	// TraceExporter selects the trace exporter: "otlp", "stdout", or "none".
	// "none" keeps a real TracerProvider (spans get genuine identities)
	// without exporting anywhere.
	TraceExporter string `json:"trace_exporter"`

	// MetricExporter selects the metric exporter: "prometheus", "stdout",
	// or "none".
	MetricExporter string `json:"metric_exporter"`

	// OTLPEndpoint is the OTLP receiver endpoint for traces.
	OTLPEndpoint string `json:"otlp_endpoint"`

	// OTLPInsecure disables TLS for OTLP connections.
	OTLPInsecure bool `json:"otlp_insecure"`

	// Stdout and Stderr override the logger's output streams. Intended for
	// tests; defaults are os.Stdout / os.Stderr.
	Stdout io.Writer `json:"-"`
	Stderr io.Writer `json:"-"`

	// Exporter optionally forwards log entries through the background
	// export queue. ExportBuffer sets the queue capacity.
	Exporter     observe.LogExporter `json:"-"`
	ExportBuffer int                 `json:"-"`
}

// DefaultOptions returns exporter selections from the standard OTel
// environment variables with development-friendly fallbacks.
func DefaultOptions() Options {
	return Options{
		TraceExporter:  getEnvOr("OTEL_TRACES_EXPORTER", "otlp"),
		MetricExporter: getEnvOr("OTEL_METRICS_EXPORTER", "prometheus"),
		OTLPEndpoint:   getEnvOr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure:   true,
	}
}

// Observability is the full-SDK implementation of the observability
// contract.
//
// Thread Safety: safe for concurrent use after construction.
type Observability struct {
	cfg observe.TelemetryConfig

	tp          *sdktrace.TracerProvider
	mp          *sdkmetric.MeterProvider
	promHandler http.Handler

	logger  *Logger
	metrics *Metrics
	tracing *Tracing
	queue   *observe.ExportQueue

	shutdownOnce sync.Once
	shutdownErr  error
}

var _ observe.PlatformObservability = (*Observability)(nil)

// New constructs a full-SDK Observability.
//
// Description:
//
//	Validates the config, builds instance-local TracerProvider and
//	MeterProvider with the selected exporters, and wires the three facets.
//	Construction is the only point of failure; after New returns, no facade
//	call ever raises into application code.
//
// Inputs:
//
//	ctx - Used for exporter connection setup. Must not be nil.
//	cfg - Service identity. Validated here; SamplingRate selects the
//	      trace sampler (ratio-based below 1.0, always-on otherwise).
//	opts - Exporter selection. Zero-value fields take DefaultOptions values.
//
// Outputs:
//
//	*Observability - Ready-to-use instance. Call Shutdown at process exit
//	                 to drain the SDK's batching pipelines.
//	error - Non-nil for nil context, invalid config, or exporter setup
//	        failure.
//
// Example:
//
//	obs, err := otelobs.New(ctx, cfg, otelobs.DefaultOptions())
//	if err != nil {
//	    return fmt.Errorf("init observability: %w", err)
//	}
//	defer obs.Shutdown(context.Background())
func New(ctx context.Context, cfg observe.TelemetryConfig, opts Options) (*Observability, error) {
	if ctx == nil {
		return nil, observe.ErrNilContext
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	applyDefaults(&opts)

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
		attribute.String("deployment.environment", cfg.Environment),
	)

	obs := &Observability{cfg: cfg}

	tp, err := initTracerProvider(ctx, cfg, opts, res)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	obs.tp = tp

	mp, promHandler, err := initMeterProvider(opts, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	obs.mp = mp
	obs.promHandler = promHandler

	if opts.Exporter != nil {
		obs.queue = observe.NewExportQueue(opts.Exporter, opts.ExportBuffer)
	}

	out := observe.NewLineWriter(opts.Stdout)
	errOut := observe.NewLineWriter(opts.Stderr)
	obs.logger = newLogger(cfg, out, errOut, obs.queue)
	obs.metrics = newMetrics(cfg, mp.Meter(instrumentationName), obs.logger)
	obs.tracing = newTracing(tp.Tracer(instrumentationName))
	return obs, nil
}

const instrumentationName = "github.com/lumenworks/platform/pkg/observe/otelobs"

// Log returns the logger facet.
func (o *Observability) Log() observe.Logger { return o.logger }

// Metrics returns the metrics facet.
func (o *Observability) Metrics() observe.Metrics { return o.metrics }

// Tracing returns the tracing facet.
func (o *Observability) Tracing() observe.Tracing { return o.tracing }

// TracerProvider exposes the instance-local provider for SDK-native
// instrumentation layers (otelgin, otelgrpc).
func (o *Observability) TracerProvider() oteltrace.TracerProvider { return o.tp }

// MetricsHandler returns the Prometheus scrape handler, or nil when a
// different metric exporter is selected.
func (o *Observability) MetricsHandler() http.Handler { return o.promHandler }

// Shutdown flushes the SDK batching pipelines and closes the log export
// queue. Safe to call more than once.
func (o *Observability) Shutdown(ctx context.Context) error {
	o.shutdownOnce.Do(func() {
		var errs []error
		if err := o.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracer provider: %w", err))
		}
		if err := o.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown meter provider: %w", err))
		}
		if o.queue != nil {
			if err := o.queue.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			o.shutdownErr = fmt.Errorf("shutdown errors: %v", errs)
		}
	})
	return o.shutdownErr
}

func applyDefaults(opts *Options) {
	defaults := DefaultOptions()
	if opts.TraceExporter == "" {
		opts.TraceExporter = defaults.TraceExporter
	}
	if opts.MetricExporter == "" {
		opts.MetricExporter = defaults.MetricExporter
	}
	if opts.OTLPEndpoint == "" {
		opts.OTLPEndpoint = defaults.OTLPEndpoint
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
}

// initTracerProvider builds the TracerProvider for the selected exporter.
func initTracerProvider(ctx context.Context, cfg observe.TelemetryConfig, opts Options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	sampler := sdktrace.AlwaysSample()
	if rate := cfg.EffectiveSamplingRate(); rate < 1.0 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch opts.TraceExporter {
	case "otlp", "jaeger":
		// Jaeger accepts OTLP natively (recommended since Jaeger 1.35).
		grpcOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(opts.OTLPEndpoint),
		}
		if opts.OTLPInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, grpcOpts...)

	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())

	case "none":
		// Real span identities, no export.
		return sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithSampler(sampler),
		), nil

	default:
		return nil, fmt.Errorf("%w: %s", observe.ErrUnknownExporter, opts.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

// initMeterProvider builds the MeterProvider for the selected exporter.
// The prometheus path uses a dedicated registry so repeated construction
// (tests, multi-instance processes) cannot collide on the default one.
func initMeterProvider(opts Options, res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler, error) {
	switch opts.MetricExporter {
	case "prometheus":
		registry := prometheus.NewRegistry()
		exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
		if err != nil {
			return nil, nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(exporter),
		)
		return mp, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), nil

	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithPrettyPrint())
		if err != nil {
			return nil, nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(
			sdkmetric.WithResource(res),
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		)
		return mp, nil, nil

	case "none":
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil, nil

	default:
		return nil, nil, fmt.Errorf("%w: %s", observe.ErrUnknownExporter, opts.MetricExporter)
	}
}

// getEnvOr returns the environment variable value or the fallback.
func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
