// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"errors"
	"fmt"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
)

// Sentinel errors for gateway operations.
var (
	// ErrDirectedGraphRequired is returned when a directed-only operation
	// is requested on an undirected graph. It is raised before marshalling.
	ErrDirectedGraphRequired = errors.New("operation requires a directed graph")

	// ErrInvalidRequest is returned when request arguments are missing or
	// out of range.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownOperation is returned for an operation not in the catalogue.
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrWrongFamily is returned when a family entry point is given an
	// operation from another family.
	ErrWrongFamily = errors.New("operation belongs to another family")

	// ErrSnapshot wraps failures of the snapshot source.
	ErrSnapshot = errors.New("fetch snapshot")

	// ErrEngine matches every *EngineError via errors.Is.
	ErrEngine = errors.New("engine error")
)

// EngineError is an engine failure, reformatted for the caller.
type EngineError struct {
	Op engine.Operation

	// Code is the native failure code; zero when the failure did not come
	// from the engine's own error channel (load failure, panic).
	Code int

	// Message is the engine's description of Code, or the cause's text.
	Message string

	Err error
}

func (e *EngineError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s failed (engine code %d): %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// Is reports ErrEngine.
func (e *EngineError) Is(target error) bool {
	return target == ErrEngine
}
