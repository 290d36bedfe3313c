// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import "errors"

// ====== Sentinel Errors ======

var (
	// ErrWorkflowNotFound indicates a lookup for an unknown workflow ID.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowFinished indicates a state transition on a workflow that
	// already reached a terminal state.
	ErrWorkflowFinished = errors.New("workflow already finished")

	// ErrEmptyWorkflowName indicates a start request without a name.
	ErrEmptyWorkflowName = errors.New("workflow name is empty")
)
