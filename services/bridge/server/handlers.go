// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package server exposes the gateway over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/telemetry"
)

// Runner is the part of *gateway.Gateway the handlers use.
type Runner interface {
	Run(ctx context.Context, req gateway.Request) (*gateway.Result, error)
	Traversal(ctx context.Context, req gateway.Request) (*gateway.Result, error)
	ShortestPath(ctx context.Context, req gateway.Request) (*gateway.Result, error)
	Centrality(ctx context.Context, req gateway.Request) (*gateway.Result, error)
	Community(ctx context.Context, req gateway.Request) (*gateway.Result, error)
	Similarity(ctx context.Context, req gateway.Request) (*gateway.Result, error)
}

var _ Runner = (*gateway.Gateway)(nil)

// Handlers holds the HTTP handlers.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Handlers struct {
	runner Runner
	source string
	logger *slog.Logger
}

// NewHandlers creates handlers over runner. sourceKind is reported by the
// health endpoint.
func NewHandlers(runner Runner, sourceKind string, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{runner: runner, source: sourceKind, logger: logger}
}

// HandleHealth handles GET /v1/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ServiceVersion,
		Source:  h.source,
	})
}

// HandleAlgorithms handles GET /v1/algorithms.
func (h *Handlers) HandleAlgorithms(c *gin.Context) {
	c.JSON(http.StatusOK, AlgorithmsResponse{Algorithms: gateway.Catalogue()})
}

// HandleRun handles POST /v1/algorithms/:op.
//
// Description:
//
//	Runs any catalogued operation. The body carries the arguments; it may
//	be empty for operations that take none.
//
// Response:
//
//	200 - gateway.Result
//	4xx/5xx - ErrorResponse, see statusFor.
func (h *Handlers) HandleRun(c *gin.Context) {
	h.run(c, "run", h.runner.Run)
}

// familyHandler returns a handler for POST /v1/<family>/:op that rejects
// operations from other families.
func (h *Handlers) familyHandler(family gateway.Family) gin.HandlerFunc {
	var fn func(context.Context, gateway.Request) (*gateway.Result, error)
	switch family {
	case gateway.FamilyTraversal:
		fn = h.runner.Traversal
	case gateway.FamilyPath:
		fn = h.runner.ShortestPath
	case gateway.FamilyCentrality:
		fn = h.runner.Centrality
	case gateway.FamilyCommunity:
		fn = h.runner.Community
	case gateway.FamilySimilarity:
		fn = h.runner.Similarity
	default:
		panic(fmt.Sprintf("server: unknown family %q", family))
	}
	return func(c *gin.Context) {
		h.run(c, string(family), fn)
	}
}

func (h *Handlers) run(c *gin.Context, handler string, fn func(context.Context, gateway.Request) (*gateway.Result, error)) {
	requestID := getOrCreateRequestID(c)
	op := engine.Operation(c.Param("op"))
	logger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("handler", handler),
		slog.String("op", string(op)),
	)
	if traceID := telemetry.TraceID(c.Request.Context()); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}

	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Warn("invalid request body", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:     "invalid request body",
				Code:      CodeInvalidRequest,
				Details:   err.Error(),
				RequestID: requestID,
			})
			return
		}
	}
	if req.Op != "" && req.Op != op {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     fmt.Sprintf("body op %q does not match path op %q", req.Op, op),
			Code:      CodeInvalidRequest,
			RequestID: requestID,
		})
		return
	}
	req.Op = op
	req.RequestID = requestID

	res, err := fn(c.Request.Context(), req)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.Error("algorithm failed", slog.Int("status", status), slog.String("error", err.Error()))
		} else {
			logger.Info("algorithm rejected", slog.Int("status", status), slog.String("error", err.Error()))
		}
		resp := ErrorResponse{Error: err.Error(), Code: code, RequestID: requestID}
		var ee *gateway.EngineError
		if errors.As(err, &ee) {
			resp.Details = ee.Message
		}
		c.JSON(status, resp)
		return
	}

	logger.Debug("algorithm served",
		slog.Bool("trivial", res.Trivial),
		slog.Int("notices", len(res.Notices)),
	)
	c.JSON(http.StatusOK, res)
}

// statusFor maps a gateway error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	var ee *gateway.EngineError
	switch {
	case errors.Is(err, gateway.ErrInvalidRequest):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, gateway.ErrUnknownOperation):
		return http.StatusNotFound, CodeUnknownOperation
	case errors.Is(err, gateway.ErrWrongFamily):
		return http.StatusNotFound, CodeWrongFamily
	case errors.Is(err, gateway.ErrDirectedGraphRequired):
		return http.StatusUnprocessableEntity, CodeDirectedRequired
	case errors.Is(err, graph.ErrInconsistentGraph):
		return http.StatusConflict, CodeInconsistentGraph
	case errors.Is(err, graph.ErrVertexRange):
		return http.StatusRequestEntityTooLarge, CodeGraphTooLarge
	case errors.Is(err, gateway.ErrSnapshot):
		return http.StatusServiceUnavailable, CodeSourceUnavailable
	case errors.Is(err, engine.ErrInvocationTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeEngineTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, CodeRequestCancelled
	case errors.As(err, &ee) && ee.Code != 0:
		return http.StatusUnprocessableEntity, CodeEngineError
	case errors.As(err, &ee):
		return http.StatusInternalServerError, CodeEngineFailure
	default:
		return http.StatusInternalServerError, CodeInternalServerError
	}
}

// getOrCreateRequestID returns the X-Request-ID header, generating one
// when absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" || len(requestID) > 128 {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
