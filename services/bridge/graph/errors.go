// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph marshals a database graph snapshot into the contiguous
// integer arrays consumed by the native algorithm engine.
//
// A Snapshot carries string-identified nodes and edges with arbitrary
// attributes. Marshal walks it once, assigning engine ids in first-seen
// order, and returns the EngineGraph together with the Mapping needed to
// translate engine results back into database identifiers.
//
// # Identifier Space
//
// Engine ids are int32, contiguous from 0. The mapping is a bijection
// over every id that appears as an edge endpoint or in the explicit node
// list; isolated nodes are covered by a second pass over the node list.
//
// # Thread Safety
//
// Marshal is a pure function of its input and may be called concurrently.
// The returned values are not mutated afterwards and may be shared.
package graph

import "errors"

// Sentinel errors for marshalling.
var (
	// ErrVertexRange is returned when the graph needs an engine id at or
	// beyond the signed 32-bit limit. No partial output is produced.
	ErrVertexRange = errors.New("vertex id exceeds engine range")

	// ErrInconsistentGraph is returned when a node id is declared twice,
	// or when the number of ids assigned after both passes differs from
	// the declared node count, which happens when an edge references a
	// node missing from the node list.
	ErrInconsistentGraph = errors.New("graph is inconsistent")

	// ErrNilSnapshot is returned when Marshal receives a nil snapshot.
	ErrNilSnapshot = errors.New("snapshot must not be nil")
)
