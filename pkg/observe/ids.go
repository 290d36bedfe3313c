// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateCorrelationID produces a reasonably-unique correlation string.
//
// Description:
//
//	Timestamp prefix plus a random UUID suffix. Collisions are tolerated
//	(this is correlation, not cryptographic identity) but are overwhelmingly
//	unlikely within a process session. The timestamp prefix keeps IDs
//	roughly sortable in log output.
//
// Example:
//
//	1767112943021-5f2b0c0a-9d3e-4f11-8a20-7b6f2f1c9e44
func GenerateCorrelationID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

// NewTraceID returns a hex-encoded 16-byte trace identifier.
func NewTraceID() string {
	return randomHex(16)
}

// NewSpanID returns a hex-encoded 8-byte span identifier.
func NewSpanID() string {
	return randomHex(8)
}

// randomHex returns n random bytes hex-encoded. Falls back to UUID-derived
// bytes if the system randomness source fails; ID generation must not panic.
func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		id := uuid.New()
		copy(buf, id[:])
	}
	return hex.EncodeToString(buf)
}
