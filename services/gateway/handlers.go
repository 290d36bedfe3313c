// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenworks/platform/pkg/observe"
)

// ====== Handlers ======

// Handlers serves the gateway's HTTP endpoints.
type Handlers struct {
	cfg   Config
	obs   observe.PlatformObservability
	store *WorkflowStore
}

// NewHandlers creates handlers backed by the given store.
func NewHandlers(cfg Config, obs observe.PlatformObservability, store *WorkflowStore) *Handlers {
	return &Handlers{cfg: cfg, obs: obs, store: store}
}

// HandleHealth reports liveness.
//
// GET /v1/health
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleVersion reports the running service identity.
//
// GET /v1/version
func (h *Handlers) HandleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     h.cfg.Telemetry.ServiceName,
		"version":     h.cfg.Telemetry.Version,
		"environment": h.cfg.Telemetry.Environment,
		"platform":    string(h.cfg.Telemetry.Platform),
	})
}

// startWorkflowRequest is the body for POST /v1/workflows.
type startWorkflowRequest struct {
	Name     string         `json:"name" binding:"required"`
	Metadata map[string]any `json:"metadata"`
}

// HandleStartWorkflow creates a workflow.
//
// POST /v1/workflows
func (h *Handlers) HandleStartWorkflow(c *gin.Context) {
	var req startWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	wf, err := h.store.Start(c.Request.Context(), req.Name, req.Metadata)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, wf)
}

// HandleGetWorkflow fetches one workflow by ID.
//
// GET /v1/workflows/:id
func (h *Handlers) HandleGetWorkflow(c *gin.Context) {
	wf, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, wf)
}

// HandleListWorkflows lists all tracked workflows.
//
// GET /v1/workflows
func (h *Handlers) HandleListWorkflows(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"workflows": h.store.List()})
}

// finishWorkflowRequest is the body for POST /v1/workflows/:id/finish.
type finishWorkflowRequest struct {
	State  string `json:"state" binding:"required,oneof=completed failed"`
	Reason string `json:"reason"`
}

// HandleFinishWorkflow moves a workflow to a terminal state.
//
// POST /v1/workflows/:id/finish
func (h *Handlers) HandleFinishWorkflow(c *gin.Context) {
	var req finishWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var failure error
	if req.State == string(WorkflowFailed) && req.Reason != "" {
		failure = errors.New(req.Reason)
	}

	err := h.store.Finish(c.Request.Context(), c.Param("id"), WorkflowState(req.State), failure)
	switch {
	case errors.Is(err, ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrWorkflowFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
