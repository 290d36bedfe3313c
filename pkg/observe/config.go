// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observe

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Platform identifies the runtime class a service is deployed to.
type Platform string

const (
	// PlatformNode is a long-lived server process with full SDK support.
	PlatformNode Platform = "node"

	// PlatformCloudflare is a Cloudflare Workers isolate.
	PlatformCloudflare Platform = "cloudflare"

	// PlatformEdge is any other V8-isolate-class runtime without SDK support.
	PlatformEdge Platform = "edge"
)

// TelemetryConfig identifies a service instance to the telemetry pipeline.
//
// Created once at process (or request) start and never mutated. Both
// adapters accept the same shape.
//
// Example:
//
//	cfg := observe.TelemetryConfig{
//	    ServiceName: "gateway",
//	    Version:     "1.4.0",
//	    Environment: "production",
//	    Platform:    observe.PlatformNode,
//	}
type TelemetryConfig struct {
	// ServiceName identifies this service in every emitted record.
	ServiceName string `json:"service_name" yaml:"service_name" validate:"required"`

	// Version is the deployed service version.
	Version string `json:"version" yaml:"version" validate:"required"`

	// Environment is the deployment environment (development, staging,
	// production). Gates debug-level logging.
	Environment string `json:"environment" yaml:"environment" validate:"required"`

	// Platform selects the runtime class. Informational to the adapters;
	// the adapter itself is chosen by constructor at assembly time.
	Platform Platform `json:"platform" yaml:"platform" validate:"required,oneof=node cloudflare edge"`

	// SamplingRate is the trace sampling ratio in [0, 1]. Zero means unset
	// and is treated as 1.0 (sample everything).
	SamplingRate float64 `json:"sampling_rate,omitempty" yaml:"sampling_rate,omitempty" validate:"gte=0,lte=1"`
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration.
//
// Outputs:
//
//	error - Wraps ErrInvalidConfig with the failing field when invalid.
func (c TelemetryConfig) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// StandardTags returns the dimensional tags applied to every metric sample.
func (c TelemetryConfig) StandardTags() map[string]string {
	return map[string]string{
		"service":     c.ServiceName,
		"environment": c.Environment,
		"version":     c.Version,
	}
}

// DebugEnabled reports whether debug-level logging should be emitted.
//
// Debug is on in development environments, and can be forced anywhere by
// setting APP_DEBUG to a non-empty value.
func (c TelemetryConfig) DebugEnabled() bool {
	if os.Getenv("APP_DEBUG") != "" {
		return true
	}
	return c.Environment == "development"
}

// EffectiveSamplingRate resolves the zero value to 1.0.
func (c TelemetryConfig) EffectiveSamplingRate() float64 {
	if c.SamplingRate <= 0 {
		return 1.0
	}
	return c.SamplingRate
}

// MergeTags merges caller tags over standard tags.
//
// Caller values win on conflicting keys (last-assignment-wins). Neither
// input map is mutated.
func MergeTags(standard, caller map[string]string) map[string]string {
	merged := make(map[string]string, len(standard)+len(caller))
	for k, v := range standard {
		merged[k] = v
	}
	for k, v := range caller {
		merged[k] = v
	}
	return merged
}
