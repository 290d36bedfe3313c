// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/lumenworks/platform/pkg/observe"
)

// ====== Configuration ======

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string        `yaml:"host" validate:"required"`
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Config is the gateway's full configuration.
//
// Description:
//
//	Loaded from a YAML file with environment-variable overrides applied on
//	top, so a container deployment can tune a checked-in base file without
//	editing it. Validation runs once at load time; a bad config stops the
//	process before any request is served.
type Config struct {
	Server    ServerConfig            `yaml:"server"`
	Telemetry observe.TelemetryConfig `yaml:"telemetry"`
}

// DefaultConfig returns a config suitable for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: observe.TelemetryConfig{
			ServiceName: "gateway",
			Version:     "0.1.0",
			Environment: "development",
			Platform:    observe.PlatformNode,
		},
	}
}

// LoadConfig reads the YAML config at path and applies env overrides.
//
// Inputs:
//
//	path - Config file location. Empty means defaults plus env only.
//
// Outputs:
//
//	Config - The validated configuration.
//	error - Wraps observe.ErrInvalidConfig on validation failure.
//
// Example:
//
//	cfg, err := gateway.LoadConfig("config/gateway.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func LoadConfig(path string) (Config, error) {
	// Best effort: a missing .env file is the normal production case.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides layers process environment values over the file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GATEWAY_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("GATEWAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("APP_SERVICE_NAME"); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		cfg.Telemetry.Version = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Telemetry.Environment = v
	}
	if v := os.Getenv("APP_PLATFORM"); v != "" {
		cfg.Telemetry.Platform = observe.Platform(v)
	}
	if v := os.Getenv("APP_SAMPLING_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Telemetry.SamplingRate = rate
		}
	}
}

func validateConfig(cfg Config) error {
	if err := validator.New().Struct(cfg.Server); err != nil {
		return fmt.Errorf("%w: server: %s", observe.ErrInvalidConfig, err.Error())
	}
	return cfg.Telemetry.Validate()
}

// Addr returns the listen address in host:port form.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
