// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"context"
	"sync"
	"time"

	"github.com/lumenworks/platform/pkg/observe"
)

// Metrics records point samples without an aggregation backend.
//
// Description:
//
//	Every sample does two things: it is emitted as a structured metric line
//	(so an external log processor can reconstruct aggregates), and it
//	overwrites the retained latest sample for its metric name (so code on
//	this host can inspect current values synchronously). The retained map
//	holds last samples, not aggregates: a counter reads back as its most
//	recent increment. Standard service/environment/version tags are merged
//	under caller tags; caller values win on conflict.
//
// Thread Safety: safe for concurrent use.
type Metrics struct {
	cfg observe.TelemetryConfig
	out *observe.LineWriter

	mu   sync.Mutex
	last map[string]observe.MetricSample

	counter   counterFacet
	histogram histogramFacet
	gauge     gaugeFacet
}

var _ observe.Metrics = (*Metrics)(nil)

func newMetrics(cfg observe.TelemetryConfig, out *observe.LineWriter) *Metrics {
	m := &Metrics{
		cfg:  cfg,
		out:  out,
		last: make(map[string]observe.MetricSample),
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

// LastSample returns the most recent sample recorded under name.
func (m *Metrics) LastSample(name string) (observe.MetricSample, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sample, ok := m.last[name]
	return sample, ok
}

// Snapshot returns a copy of the latest sample per metric name.
func (m *Metrics) Snapshot() map[string]observe.MetricSample {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]observe.MetricSample, len(m.last))
	for k, v := range m.last {
		out[k] = v
	}
	return out
}

// record retains and emits one sample. Fire-and-forget; never panics.
func (m *Metrics) record(kind, name string, value float64, tags map[string]string) {
	defer func() {
		_ = recover()
	}()

	sample := observe.MetricSample{
		Name:  name,
		Value: value,
		Type:  kind,
		Tags:  observe.MergeTags(m.cfg.StandardTags(), tags),
	}

	m.mu.Lock()
	m.last[name] = sample
	m.mu.Unlock()

	_ = m.out.Write(observe.MetricRecord{
		Type:      "metric",
		Timestamp: observe.Timestamp(time.Now()),
		Metric:    sample,
	})
}

type counterFacet struct{ m *Metrics }

// Inc records a counter increment.
func (f counterFacet) Inc(_ context.Context, name string, value float64, tags map[string]string) {
	f.m.record(observe.MetricCounter, name, value, tags)
}

type histogramFacet struct{ m *Metrics }

// Observe records a distribution sample.
func (f histogramFacet) Observe(_ context.Context, name string, value float64, tags map[string]string) {
	f.m.record(observe.MetricHistogram, name, value, tags)
}

type gaugeFacet struct{ m *Metrics }

// Set records a gauge value.
func (f gaugeFacet) Set(_ context.Context, name string, value float64, tags map[string]string) {
	f.m.record(observe.MetricGauge, name, value, tags)
}
