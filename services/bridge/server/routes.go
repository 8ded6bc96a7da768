// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package server

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/telemetry"
)

// RegisterRoutes registers all bridge routes with the router group.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	GET  /v1/health - Liveness
//	GET  /v1/algorithms - Operation catalogue
//	POST /v1/algorithms/:op - Run any operation
//	POST /v1/traversal/:op - Run a traversal operation
//	POST /v1/path/:op - Run a shortest path operation
//	POST /v1/centrality/:op - Run a centrality operation
//	POST /v1/community/:op - Run a community operation
//	POST /v1/similarity/:op - Run a similarity operation
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	rg.GET("/health", handlers.HandleHealth)
	rg.GET("/algorithms", handlers.HandleAlgorithms)
	rg.POST("/algorithms/:op", handlers.HandleRun)

	for _, family := range []gateway.Family{
		gateway.FamilyTraversal,
		gateway.FamilyPath,
		gateway.FamilyCentrality,
		gateway.FamilyCommunity,
		gateway.FamilySimilarity,
	} {
		rg.POST("/"+string(family)+"/:op", handlers.familyHandler(family))
	}
}

// NewRouter builds the complete engine: recovery, tracing and access
// logging middleware, the /v1 routes and /metrics.
func NewRouter(handlers *Handlers, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.Middleware("novabridge", nil))
	router.Use(accessLog(logger))

	RegisterRoutes(router.Group("/v1"), handlers)
	router.GET("/metrics", gin.WrapH(telemetry.MetricsHandler()))
	return router
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelDebug
		if c.Writer.Status() >= 500 {
			level = slog.LevelWarn
		}
		logger.Log(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", c.Writer.Header().Get("X-Request-ID")),
		)
	}
}
