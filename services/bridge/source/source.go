// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package source defines the database collaborator: something that can
// produce the current graph snapshot.
//
// Implementations live in the subpackages: filesource (YAML/JSON files),
// neo4jsource, pgsource and badgersource.
package source

import (
	"context"
	"errors"
	"sync"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// ErrSourceUnavailable is returned when the backing store cannot be read.
var ErrSourceUnavailable = errors.New("snapshot source unavailable")

// Source produces database snapshots.
//
// Snapshot returns a graph the caller may read but must not modify; each
// call may return a different snapshot as the database changes.
type Source interface {
	Snapshot(ctx context.Context) (*graph.Snapshot, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) (*graph.Snapshot, error)

// Snapshot calls f.
func (f Func) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	return f(ctx)
}

// Static serves a fixed snapshot that can be swapped atomically.
type Static struct {
	mu   sync.RWMutex
	snap *graph.Snapshot
}

// NewStatic wraps snap.
func NewStatic(snap *graph.Snapshot) *Static {
	return &Static{snap: snap}
}

// Snapshot returns the current snapshot.
func (s *Static) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrSourceUnavailable
	}
	return s.snap, nil
}

// Set replaces the snapshot.
func (s *Static) Set(snap *graph.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
