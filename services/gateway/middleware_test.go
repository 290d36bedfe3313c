// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationMiddleware_HonorsIncomingHeader(t *testing.T) {
	router, stdout, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/health", "",
		map[string]string{HeaderCorrelationID: "corr-from-upstream"})

	assert.Equal(t, "corr-from-upstream", rec.Header().Get(HeaderCorrelationID))
	assert.Contains(t, stdout.String(), `"correlationId":"corr-from-upstream"`)
}

func TestCorrelationMiddleware_GeneratesWhenAbsent(t *testing.T) {
	router, _, _ := newTestRouter(t)

	first := doJSON(t, router, http.MethodGet, "/v1/health", "", nil)
	second := doJSON(t, router, http.MethodGet, "/v1/health", "", nil)

	require.NotEmpty(t, first.Header().Get(HeaderCorrelationID))
	assert.NotEqual(t, first.Header().Get(HeaderCorrelationID),
		second.Header().Get(HeaderCorrelationID))
}

func TestTelemetryMiddleware_JoinsCallerTrace(t *testing.T) {
	router, stdout, _ := newTestRouter(t)

	traceID := strings.Repeat("ab", 16)
	rec := doJSON(t, router, http.MethodGet, "/v1/health", "", map[string]string{
		HeaderTraceID: traceID,
		HeaderSpanID:  strings.Repeat("cd", 8),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(stdout.String()), "\n") {
		var parsed map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &parsed))
		if parsed["type"] != "span" {
			continue
		}
		span := parsed["span"].(map[string]any)
		assert.Equal(t, traceID, span["traceId"])
		found = true
	}
	assert.True(t, found, "no span line emitted for the request")
}

func TestTelemetryMiddleware_RecordsRequestMetrics(t *testing.T) {
	router, stdout, _ := newTestRouter(t)

	doJSON(t, router, http.MethodGet, "/v1/health", "", nil)

	out := stdout.String()
	assert.Contains(t, out, `"name":"http.requests"`)
	assert.Contains(t, out, `"name":"http.request.duration"`)
	assert.Contains(t, out, `"route":"/v1/health"`)
}

func TestTelemetryMiddleware_WarnsOnClientError(t *testing.T) {
	router, _, stderr := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/workflows/missing", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, stderr.String(), "request rejected")
}
