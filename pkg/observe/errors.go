// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import "errors"

// Sentinel errors for observability construction.
//
// Construction is the only place this layer is allowed to fail: a broken
// setup must surface at boot, never mid-request.
var (
	// ErrInvalidConfig indicates TelemetryConfig failed validation.
	ErrInvalidConfig = errors.New("invalid telemetry configuration")

	// ErrNilContext is returned when a nil context is passed to a constructor.
	ErrNilContext = errors.New("context must not be nil")

	// ErrUnknownExporter indicates an unrecognized exporter selection.
	ErrUnknownExporter = errors.New("unknown exporter type")

	// ErrQueueClosed is returned when enqueueing on a closed export queue.
	ErrQueueClosed = errors.New("export queue is closed")
)
