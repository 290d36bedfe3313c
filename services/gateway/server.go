// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/lumenworks/platform/pkg/observe"
)

// metricsHandlerSource is implemented by adapters that expose a scrape
// endpoint handler (the SDK adapter with the prometheus exporter).
type metricsHandlerSource interface {
	MetricsHandler() http.Handler
}

// tracerProviderSource is implemented by adapters backed by an SDK tracer
// provider, enabling framework-level instrumentation.
type tracerProviderSource interface {
	TracerProvider() oteltrace.TracerProvider
}

// NewRouter assembles the gateway's Gin engine.
//
// Description:
//
//	Middleware order matters: correlation first so every later span and
//	log line can pick the ID up, then telemetry. When the adapter exposes
//	an SDK tracer provider, otelgin is mounted ahead of both so framework
//	spans parent the contract spans. Adapters without SDK internals (the
//	edge adapter) get the same routes with the contract middleware only.
//	A /metrics scrape endpoint is mounted when the adapter provides one.
//
// Inputs:
//
//	cfg - Validated gateway configuration.
//	obs - Either adapter; SDK extras are discovered by interface.
//
// Outputs:
//
//	*gin.Engine - Ready to serve.
func NewRouter(cfg Config, obs observe.PlatformObservability) *gin.Engine {
	if !cfg.Telemetry.DebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if src, ok := obs.(tracerProviderSource); ok {
		router.Use(otelgin.Middleware(
			cfg.Telemetry.ServiceName,
			otelgin.WithTracerProvider(src.TracerProvider()),
		))
	}
	router.Use(CorrelationMiddleware())
	router.Use(TelemetryMiddleware(obs))

	if src, ok := obs.(metricsHandlerSource); ok {
		if handler := src.MetricsHandler(); handler != nil {
			router.GET("/metrics", gin.WrapH(handler))
		}
	}

	v1 := router.Group("/v1")
	RegisterRoutes(v1, NewHandlers(cfg, obs, NewWorkflowStore(obs)))

	return router
}

// Server wraps the HTTP listener lifecycle.
type Server struct {
	cfg  Config
	obs  observe.PlatformObservability
	http *http.Server
}

// NewServer creates a server around the assembled router.
func NewServer(cfg Config, obs observe.PlatformObservability) *Server {
	return &Server{
		cfg: cfg,
		obs: obs,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      NewRouter(cfg, obs),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	s.obs.Log().Info(ctx, "gateway listening", observe.Fields{"addr": s.cfg.Addr()})

	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()
	}
	s.obs.Log().Info(ctx, "gateway shutting down", nil)
	return s.http.Shutdown(ctx)
}
