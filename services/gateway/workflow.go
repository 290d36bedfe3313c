// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenworks/platform/pkg/observe"
)

// ====== Workflow Types ======

// WorkflowState is the lifecycle state of a workflow.
type WorkflowState string

const (
	WorkflowRunning   WorkflowState = "running"
	WorkflowCompleted WorkflowState = "completed"
	WorkflowFailed    WorkflowState = "failed"
)

// Workflow is one tracked unit of work moving through the gateway.
type Workflow struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	State         WorkflowState  `json:"state"`
	CorrelationID string         `json:"correlationId"`
	TraceID       string         `json:"traceId"`
	StartedAt     time.Time      `json:"startedAt"`
	FinishedAt    *time.Time     `json:"finishedAt,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// WorkflowStore tracks in-flight workflows in memory.
//
// Description:
//
//	Every lifecycle transition is instrumented: a span covers the
//	transition, a counter records it, and the workflow carries the
//	correlation and trace identity it was started under, so its whole
//	history can be pulled from logs by one ID.
//
// Thread Safety: safe for concurrent use.
type WorkflowStore struct {
	obs observe.PlatformObservability

	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewWorkflowStore creates an empty store instrumented with obs.
func NewWorkflowStore(obs observe.PlatformObservability) *WorkflowStore {
	return &WorkflowStore{
		obs:       obs,
		workflows: make(map[string]*Workflow),
	}
}

// Start registers a new workflow in the running state.
//
// Inputs:
//
//	ctx - Carries the request's correlation ID and active span, if any.
//	name - Human-readable workflow name. Must be non-empty.
//	metadata - Optional caller-supplied context stored with the workflow.
//
// Outputs:
//
//	*Workflow - The created workflow with its assigned identity.
//	error - ErrEmptyWorkflowName when name is blank.
func (s *WorkflowStore) Start(ctx context.Context, name string, metadata map[string]any) (*Workflow, error) {
	if name == "" {
		return nil, ErrEmptyWorkflowName
	}

	ctx, span := s.obs.Tracing().StartSpan(ctx, "workflow.start", nil)
	defer span.End()

	correlationID := observe.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = observe.GenerateCorrelationID()
	}

	wf := &Workflow{
		ID:            uuid.NewString(),
		Name:          name,
		State:         WorkflowRunning,
		CorrelationID: correlationID,
		TraceID:       span.SpanContext().TraceID,
		StartedAt:     time.Now().UTC(),
		Metadata:      metadata,
	}

	s.mu.Lock()
	s.workflows[wf.ID] = wf
	s.mu.Unlock()

	span.SetAttributes(map[string]any{
		"workflow.id":   wf.ID,
		"workflow.name": wf.Name,
	})
	s.obs.Log().Info(ctx, "workflow started", observe.Fields{
		observe.FieldCorrelationID: correlationID,
		observe.FieldAggregateID:   wf.ID,
		"workflowName":             name,
	})
	s.obs.Metrics().Counter().Inc(ctx, "workflow.started", 1, map[string]string{"name": name})
	s.updateRunningGauge(ctx)

	return wf, nil
}

// Get returns a copy of the workflow with the given ID.
func (s *WorkflowStore) Get(id string) (Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.workflows[id]
	if !ok {
		return Workflow{}, ErrWorkflowNotFound
	}
	return *wf, nil
}

// List returns copies of all tracked workflows.
func (s *WorkflowStore) List() []Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Workflow, 0, len(s.workflows))
	for _, wf := range s.workflows {
		out = append(out, *wf)
	}
	return out
}

// Finish moves a running workflow to a terminal state.
//
// Outputs:
//
//	error - ErrWorkflowNotFound for an unknown ID, ErrWorkflowFinished
//	when the workflow already reached a terminal state.
func (s *WorkflowStore) Finish(ctx context.Context, id string, state WorkflowState, failure error) error {
	ctx, span := s.obs.Tracing().StartSpan(ctx, "workflow.finish", nil)
	defer span.End()

	s.mu.Lock()
	wf, ok := s.workflows[id]
	if !ok {
		s.mu.Unlock()
		span.SetAttribute("error", true)
		return ErrWorkflowNotFound
	}
	if wf.State != WorkflowRunning {
		s.mu.Unlock()
		span.SetAttribute("error", true)
		return ErrWorkflowFinished
	}
	now := time.Now().UTC()
	wf.State = state
	wf.FinishedAt = &now
	duration := now.Sub(wf.StartedAt)
	correlationID := wf.CorrelationID
	name := wf.Name
	s.mu.Unlock()

	span.SetAttributes(map[string]any{
		"workflow.id":    id,
		"workflow.state": string(state),
	})

	fields := observe.Fields{
		observe.FieldCorrelationID: correlationID,
		observe.FieldAggregateID:   id,
		"workflowName":             name,
		"durationMs":               duration.Milliseconds(),
	}
	if state == WorkflowFailed {
		s.obs.Log().Error(ctx, "workflow failed", failure, fields)
	} else {
		s.obs.Log().Info(ctx, "workflow completed", fields)
	}

	tags := map[string]string{"name": name, "state": string(state)}
	s.obs.Metrics().Counter().Inc(ctx, "workflow.finished", 1, tags)
	s.obs.Metrics().Histogram().Observe(ctx, "workflow.duration", float64(duration.Milliseconds()), tags)

	s.updateRunningGauge(ctx)
	return nil
}

func (s *WorkflowStore) updateRunningGauge(ctx context.Context) {
	s.mu.RLock()
	running := 0
	for _, wf := range s.workflows {
		if wf.State == WorkflowRunning {
			running++
		}
	}
	s.mu.RUnlock()

	s.obs.Metrics().Gauge().Set(ctx, "workflow.running", float64(running), nil)
}
