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
	"testing"
)

func TestMetrics_RecordAllKinds(t *testing.T) {
	obs, _, stderr := newTestObs(t)
	ctx := context.Background()

	obs.Metrics().Counter().Inc(ctx, "requests.total", 1, map[string]string{"route": "/health"})
	obs.Metrics().Histogram().Observe(ctx, "request.duration", 12.5, nil)
	obs.Metrics().Gauge().Set(ctx, "queue.depth", 3, nil)

	if stderr.Len() != 0 {
		t.Errorf("unexpected error output: %q", stderr.String())
	}
}

func TestMetrics_InstrumentReuse(t *testing.T) {
	obs, _, stderr := newTestObs(t)
	ctx := context.Background()

	// Repeated use of one name must reuse the registered instrument, not
	// re-register it.
	for i := 0; i < 10; i++ {
		obs.Metrics().Counter().Inc(ctx, "retries.total", 1, nil)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected error output: %q", stderr.String())
	}
}

func TestMetrics_DegenerateInputsNeverPanic(t *testing.T) {
	obs, _, _ := newTestObs(t)

	obs.Metrics().Counter().Inc(nil, "", 1, nil) //nolint:staticcheck
	obs.Metrics().Counter().Inc(context.Background(), "ok.name", -1, map[string]string{"": ""})
	obs.Metrics().Histogram().Observe(context.Background(), "", -5, nil)
	obs.Metrics().Gauge().Set(context.Background(), "", 0, nil)
}

func TestMetrics_ConcurrentRecording(t *testing.T) {
	obs, _, _ := newTestObs(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				obs.Metrics().Counter().Inc(context.Background(), "concurrent.total", 1, nil)
				obs.Metrics().Gauge().Set(context.Background(), "concurrent.gauge", float64(j), nil)
			}
		}()
	}
	wg.Wait()
}
