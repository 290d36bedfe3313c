// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package otelobs

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lumenworks/platform/pkg/observe"
)

// Metrics records samples into the SDK aggregation pipeline.
//
// Description:
//
//	Instruments are created lazily by metric name on first use and cached.
//	Standard service/environment/version tags are merged under caller tags
//	as attributes. Instrument creation failure (for example an invalid
//	metric name) is logged by this layer and the sample dropped; nothing
//	propagates to the caller.
//
// Thread Safety: safe for concurrent use.
type Metrics struct {
	cfg    observe.TelemetryConfig
	meter  metric.Meter
	logger *Logger

	mu         sync.Mutex
	counters   map[string]metric.Float64Counter
	histograms map[string]metric.Float64Histogram
	gauges     map[string]metric.Float64Gauge

	counter   counterFacet
	histogram histogramFacet
	gauge     gaugeFacet
}

var _ observe.Metrics = (*Metrics)(nil)

func newMetrics(cfg observe.TelemetryConfig, meter metric.Meter, logger *Logger) *Metrics {
	m := &Metrics{
		cfg:        cfg,
		meter:      meter,
		logger:     logger,
		counters:   make(map[string]metric.Float64Counter),
		histograms: make(map[string]metric.Float64Histogram),
		gauges:     make(map[string]metric.Float64Gauge),
	}
	m.counter = counterFacet{m}
	m.histogram = histogramFacet{m}
	m.gauge = gaugeFacet{m}
	return m
}

// Counter returns the counter facet.
func (m *Metrics) Counter() observe.Counter { return m.counter }

// Histogram returns the histogram facet.
func (m *Metrics) Histogram() observe.Histogram { return m.histogram }

// Gauge returns the gauge facet.
func (m *Metrics) Gauge() observe.Gauge { return m.gauge }

// attrs converts merged tags into an attribute option.
func (m *Metrics) attrs(tags map[string]string) metric.MeasurementOption {
	merged := observe.MergeTags(m.cfg.StandardTags(), tags)
	kvs := make([]attribute.KeyValue, 0, len(merged))
	for k, v := range merged {
		kvs = append(kvs, attribute.String(k, v))
	}
	return metric.WithAttributes(kvs...)
}

// dropSample logs an instrument failure without surfacing it.
func (m *Metrics) dropSample(ctx context.Context, name string, err error) {
	m.logger.Error(ctx, "metric sample dropped", err, observe.Fields{"metric": name})
}

type counterFacet struct{ m *Metrics }

// Inc records a counter increment through the SDK pipeline.
func (f counterFacet) Inc(ctx context.Context, name string, value float64, tags map[string]string) {
	defer func() { _ = recover() }()
	m := f.m

	m.mu.Lock()
	inst, ok := m.counters[name]
	if !ok {
		var err error
		inst, err = m.meter.Float64Counter(name)
		if err != nil {
			m.mu.Unlock()
			m.dropSample(ctx, name, err)
			return
		}
		m.counters[name] = inst
	}
	m.mu.Unlock()

	inst.Add(safeCtx(ctx), value, m.attrs(tags))
}

type histogramFacet struct{ m *Metrics }

// Observe records a distribution sample through the SDK pipeline.
func (f histogramFacet) Observe(ctx context.Context, name string, value float64, tags map[string]string) {
	defer func() { _ = recover() }()
	m := f.m

	m.mu.Lock()
	inst, ok := m.histograms[name]
	if !ok {
		var err error
		inst, err = m.meter.Float64Histogram(name)
		if err != nil {
			m.mu.Unlock()
			m.dropSample(ctx, name, err)
			return
		}
		m.histograms[name] = inst
	}
	m.mu.Unlock()

	inst.Record(safeCtx(ctx), value, m.attrs(tags))
}

type gaugeFacet struct{ m *Metrics }

// Set records a gauge value through the SDK pipeline.
func (f gaugeFacet) Set(ctx context.Context, name string, value float64, tags map[string]string) {
	defer func() { _ = recover() }()
	m := f.m

	m.mu.Lock()
	inst, ok := m.gauges[name]
	if !ok {
		var err error
		inst, err = m.meter.Float64Gauge(name)
		if err != nil {
			m.mu.Unlock()
			m.dropSample(ctx, name, err)
			return
		}
		m.gauges[name] = inst
	}
	m.mu.Unlock()

	inst.Record(safeCtx(ctx), value, m.attrs(tags))
}

// safeCtx shields the SDK from nil contexts.
func safeCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
