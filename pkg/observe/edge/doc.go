// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package edge implements the observability contract for constrained
// runtimes that cannot host an exporter pipeline (V8 isolates, Cloudflare
// Workers, minimal containers).
//
// Every "export" here is a synchronous JSON line on stdout or stderr;
// nothing batches, nothing talks to the network. Distributed tracing is
// substituted by correlation-ID tracing: spans carry real W3C-shaped
// trace/span identifiers and preserve parent/child causality, but span
// completion is emitted as a structured log record for an external log
// processor instead of going to a trace backend.
//
// Metrics have no aggregation backend either. Each sample is emitted as a
// structured metric line AND retained as the latest sample per metric name
// in an in-memory map for synchronous local inspection. The map holds the
// last sample, not an aggregate; counters therefore read as their most
// recent increment, and reconstruction of totals is the log processor's
// job. The map is mutex-protected because Go hosts are genuinely
// multi-threaded, unlike the cooperative isolates this mode models.
package edge
