// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package source

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// Shared wraps a Source so that concurrent callers share one fetch, and
// optionally reuse a fetched snapshot for MaxAge.
//
// Description:
//
//	Database sources read the whole graph per call. When several
//	algorithm requests arrive together only one read runs; the others
//	wait for it. The shared read is detached from any one caller's
//	cancellation, and each caller still stops waiting when its own
//	context is done. Errors are never cached.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Shared struct {
	src    Source
	maxAge time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu        sync.Mutex
	snap      *graph.Snapshot
	fetchedAt time.Time
}

// NewShared wraps src. A zero maxAge only coalesces concurrent fetches.
func NewShared(src Source, maxAge time.Duration) *Shared {
	return &Shared{src: src, maxAge: maxAge, now: time.Now}
}

// Snapshot returns a fresh-enough snapshot, fetching at most once at a
// time.
func (s *Shared) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap := s.fresh(); snap != nil {
		return snap, nil
	}

	ch := s.flight.DoChan("snapshot", func() (interface{}, error) {
		snap, err := s.src.Snapshot(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.maxAge > 0 {
			s.mu.Lock()
			s.snap, s.fetchedAt = snap, s.now()
			s.mu.Unlock()
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*graph.Snapshot), nil
	}
}

// Invalidate drops the reused snapshot.
func (s *Shared) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.mu.Unlock()
}

func (s *Shared) fresh() *graph.Snapshot {
	if s.maxAge <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && s.now().Sub(s.fetchedAt) < s.maxAge {
		return s.snap
	}
	return nil
}
