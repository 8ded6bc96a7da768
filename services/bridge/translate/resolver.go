// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package translate rewrites engine results into database identifiers.
//
// Translation never fails because of an id: an engine id with no
// database counterpart is rendered as its decimal string and reported
// once through the Resolver's logger. Structural errors (an unknown
// payload variant) are the only failures.
//
// # Thread Safety
//
// A Resolver belongs to one call and is not safe for concurrent use.
package translate

import (
	"errors"
	"log/slog"
	"sort"
	"strconv"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

var (
	// ErrUnknownPayload is returned for a payload variant the translator
	// has no case for.
	ErrUnknownPayload = errors.New("unknown payload variant")

	// ErrSchemaMismatch is returned when the source and destination
	// instantiations of a variant do not line up field for field.
	ErrSchemaMismatch = errors.New("payload schema mismatch")
)

// Resolver maps engine ids to database ids for one call and remembers
// which database ids the result referenced.
type Resolver struct {
	mapping  *graph.Mapping
	logger   *slog.Logger
	unmapped map[int32]struct{}
	seen     map[string]struct{}
	order    []string
}

// NewResolver returns a Resolver over mapping. A nil logger uses
// slog.Default.
func NewResolver(mapping *graph.Mapping, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		mapping:  mapping,
		logger:   logger,
		unmapped: make(map[int32]struct{}),
		seen:     make(map[string]struct{}),
	}
}

// ID translates one engine id.
func (r *Resolver) ID(id int32) string {
	db, ok := r.mapping.Reverse(id)
	if !ok {
		db = strconv.FormatInt(int64(id), 10)
		if _, warned := r.unmapped[id]; !warned {
			r.unmapped[id] = struct{}{}
			r.logger.Warn("engine id has no database id, using its numeric form",
				slog.Int("engine_id", int(id)),
				slog.Int("mapped_ids", r.mapping.Len()),
			)
		}
	}
	if _, dup := r.seen[db]; !dup {
		r.seen[db] = struct{}{}
		r.order = append(r.order, db)
	}
	return db
}

// IDs translates a slice of engine ids. A nil input stays nil.
func (r *Resolver) IDs(ids []int32) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = r.ID(id)
	}
	return out
}

// Unmapped returns the engine ids that fell back to their numeric form,
// in ascending order.
func (r *Resolver) Unmapped() []int32 {
	out := make([]int32, 0, len(r.unmapped))
	for id := range r.unmapped {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Referenced returns every database id produced so far, in first-use
// order.
func (r *Resolver) Referenced() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
