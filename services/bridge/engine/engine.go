// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine defines the contract with the native algorithm engine
// and owns its single graph slot.
//
// The engine holds at most one loaded graph. Slot serializes callers so
// that one call's load, invocation and unload never interleave with
// another's.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// Engine is the native algorithm engine.
//
// Implementations need not be safe for concurrent use; Slot guarantees
// that at most one method runs at a time.
type Engine interface {
	// Load installs g as the current graph, replacing nothing: callers
	// unload first.
	Load(ctx context.Context, g *graph.EngineGraph) error

	// Unload discards the current graph. Unloading with no graph loaded
	// is not an error.
	Unload(ctx context.Context) error

	// Run executes one algorithm against the loaded graph. Algorithm
	// failures are returned as *NativeError.
	Run(ctx context.Context, call Call) (*RawResult, error)

	// Describe renders a native failure code as text.
	Describe(code int) string
}

// Call is one algorithm invocation, arguments already in engine ids.
type Call struct {
	Op     Operation
	Source int32
	Target int32
	Nodes  []int32

	K          int
	Steps      int
	SampleSize int
	Bins       int
	Damping    float64
	Resolution float64

	// Seed makes randomized algorithms reproducible. Zero picks a seed.
	Seed uint64
}

// RawResult is the engine's output, in engine ids.
type RawResult struct {
	Mode overlay.Mode

	// ColorMap and SizeMap are keyed "u" or "u-v" in engine ids.
	ColorMap map[string]float64
	SizeMap  map[string]float64

	// Data is a payload instantiated at int32.
	Data result.Payload
}

// Sentinel errors for engine invocation.
var (
	// ErrInvocationTimeout is returned when the invocation outlives its
	// deadline. The slot stays held until the engine returns.
	ErrInvocationTimeout = errors.New("engine invocation timed out")

	// ErrEnginePanic is returned when the engine panics.
	ErrEnginePanic = errors.New("engine panicked")

	// ErrNoGraph is returned by engines asked to run with nothing loaded.
	ErrNoGraph = errors.New("no graph loaded")
)

// NativeError is a numeric failure reported by the engine itself.
type NativeError struct {
	Op   Operation
	Code int
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("engine failure in %s: code %d", e.Op, e.Code)
}
