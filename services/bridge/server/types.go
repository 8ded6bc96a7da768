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
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.1.0"

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUnknownOperation    = "UNKNOWN_OPERATION"
	CodeWrongFamily         = "WRONG_FAMILY"
	CodeDirectedRequired    = "DIRECTED_GRAPH_REQUIRED"
	CodeInconsistentGraph   = "INCONSISTENT_GRAPH"
	CodeGraphTooLarge       = "GRAPH_TOO_LARGE"
	CodeSourceUnavailable   = "SOURCE_UNAVAILABLE"
	CodeEngineError         = "ENGINE_ERROR"
	CodeEngineFailure       = "ENGINE_FAILURE"
	CodeEngineTimeout       = "ENGINE_TIMEOUT"
	CodeRequestCancelled    = "REQUEST_CANCELLED"
	CodeInternalServerError = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is a stable machine-readable error code.
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`

	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by GET /v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`

	// Source names the configured snapshot source kind.
	Source string `json:"source,omitempty"`
}

// AlgorithmsResponse is returned by GET /v1/algorithms.
type AlgorithmsResponse struct {
	Algorithms []gateway.Spec `json:"algorithms"`
}

// RunRequest is the body of an algorithm call. The operation comes from
// the path; an Op in the body must match it or be empty.
type RunRequest = gateway.Request
