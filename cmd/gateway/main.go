// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command gateway starts the Lumenworks platform gateway.
//
// The gateway serves the workflow API instrumented through the platform
// observability contract. The telemetry platform in the config selects the
// adapter: "node" boots the OpenTelemetry SDK with OTLP/Prometheus export,
// "edge" and "cloudflare" use the dependency-light JSON-line adapter.
//
// Usage:
//
//	go run ./cmd/gateway serve
//	go run ./cmd/gateway serve --config config/gateway.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/health
//
//	# Start a workflow
//	curl -X POST http://localhost:8080/v1/workflows \
//	  -H "Content-Type: application/json" \
//	  -d '{"name": "order.fulfillment"}'
//
//	# Prometheus scrape (node platform only)
//	curl http://localhost:8080/metrics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lumenworks/platform/pkg/observe"
	"github.com/lumenworks/platform/pkg/observe/edge"
	"github.com/lumenworks/platform/pkg/observe/otelobs"
	"github.com/lumenworks/platform/services/gateway"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "gateway",
		Short: "Lumenworks platform gateway",
		Long:  `The gateway serves the workflow API with platform-selected observability.`,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the gateway HTTP server",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "Path to the gateway YAML config")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := gateway.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	obs, err := newObservability(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "observability shutdown: %v\n", err)
		}
	}()

	server := gateway.NewServer(cfg, obs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})

	return g.Wait()
}

// newObservability selects the adapter for the configured platform.
func newObservability(ctx context.Context, cfg observe.TelemetryConfig) (observe.PlatformObservability, error) {
	switch cfg.Platform {
	case observe.PlatformNode:
		return otelobs.New(ctx, cfg, otelobs.DefaultOptions())
	case observe.PlatformEdge, observe.PlatformCloudflare:
		return edge.New(cfg)
	default:
		return nil, fmt.Errorf("%w: unsupported platform %q", observe.ErrInvalidConfig, cfg.Platform)
	}
}
