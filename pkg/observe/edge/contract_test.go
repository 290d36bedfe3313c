// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package edge

import (
	"bytes"
	"testing"

	"github.com/lumenworks/platform/pkg/observe"
	"github.com/lumenworks/platform/pkg/observe/observetest"
)

func TestEdgeAdapter_Contract(t *testing.T) {
	observetest.Run(t, func(t *testing.T) observe.PlatformObservability {
		obs, err := New(testConfig(), WithStdout(&bytes.Buffer{}), WithStderr(&bytes.Buffer{}))
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		return obs
	})
}
