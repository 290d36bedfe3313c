// Copyright (C) 2026 Lumenworks Engineering (platform@lumenworks.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gateway

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all gateway routes with the router group.
//
// Description:
//
//	Registers all /v1/* endpoints with the given Gin router group. The
//	router group should already have any required middleware applied.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET  /v1/health - Liveness check
//	GET  /v1/version - Service identity
//	POST /v1/workflows - Start a workflow
//	GET  /v1/workflows - List workflows
//	GET  /v1/workflows/:id - Get a workflow
//	POST /v1/workflows/:id/finish - Finish a workflow
//
// Example:
//
//	handlers := gateway.NewHandlers(cfg, obs, store)
//	v1 := router.Group("/v1")
//	gateway.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.GET("/health", handlers.HandleHealth)
	rg.GET("/version", handlers.HandleVersion)

	workflows := rg.Group("/workflows")
	{
		workflows.POST("", handlers.HandleStartWorkflow)
		workflows.GET("", handlers.HandleListWorkflows)
		workflows.GET("/:id", handlers.HandleGetWorkflow)
		workflows.POST("/:id/finish", handlers.HandleFinishWorkflow)
	}
}
