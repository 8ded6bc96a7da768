// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Marshalled is the output of Marshal.
type Marshalled struct {
	// Graph is the engine input.
	Graph *EngineGraph

	// Mapping translates engine ids back to database ids.
	Mapping *Mapping

	// Nodes indexes the snapshot's explicit nodes by database id. It is
	// used to label results.
	Nodes map[string]*Node

	// NonNumericWeights counts edges whose weight attribute was present
	// but not a finite number.
	NonNumericWeights int
}

// MarshalOption configures Marshal.
type MarshalOption func(*marshalConfig)

type marshalConfig struct {
	maxVertices int64
	logger      *slog.Logger
}

// WithMaxVertices lowers the engine id ceiling below MaxVertexID.
// Values outside (0, MaxVertexID] are ignored.
func WithMaxVertices(n int64) MarshalOption {
	return func(c *marshalConfig) {
		if n > 0 && n <= MaxVertexID {
			c.maxVertices = n
		}
	}
}

// WithLogger sets the logger used for weight warnings.
func WithLogger(logger *slog.Logger) MarshalOption {
	return func(c *marshalConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Marshal converts snap into engine arrays.
//
// Description:
//
//	Edges are scanned in order. Each endpoint is given an engine id the
//	first time it is seen, and Src[i]/Dst[i] are written positionally.
//	A second pass over snap.Nodes assigns ids to nodes without edges.
//	The graph is marshalled as directed or undirected according to the
//	directed argument, which may differ from snap.Directed when the
//	caller downgrades a directed graph.
//
// Inputs:
//
//	ctx - Used for tracing only; Marshal does not block.
//	snap - The database snapshot. Must not be nil.
//	directed - Directedness of the produced EngineGraph.
//
// Outputs:
//
//	*Marshalled - Engine graph, id mapping and node index.
//	error - ErrVertexRange, ErrInconsistentGraph or ErrNilSnapshot,
//	  wrapped with detail. No partial output is returned.
func Marshal(ctx context.Context, snap *Snapshot, directed bool, opts ...MarshalOption) (*Marshalled, error) {
	cfg := marshalConfig{
		maxVertices: MaxVertexID,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if snap == nil {
		return nil, ErrNilSnapshot
	}

	start := time.Now()
	ctx, span := startMarshalSpan(ctx, len(snap.Nodes), len(snap.Edges), directed)
	defer span.End()

	out, err := marshal(snap, directed, cfg)
	recordMarshalMetrics(ctx, time.Since(start), len(snap.Nodes), len(snap.Edges), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("graph.vertex_count", int(out.Graph.VertexCount)),
		attribute.Bool("graph.weighted", out.Graph.Weighted()),
		attribute.Int("graph.non_numeric_weights", out.NonNumericWeights),
	)
	return out, nil
}

func marshal(snap *Snapshot, directed bool, cfg marshalConfig) (*Marshalled, error) {
	declared := len(snap.Nodes)
	if int64(declared) > cfg.maxVertices {
		return nil, fmt.Errorf("%w: %d declared nodes, limit %d", ErrVertexRange, declared, cfg.maxVertices)
	}

	mapping := newMapping(declared)
	assign := func(id string) (int32, error) {
		if v, ok := mapping.forward[id]; ok {
			return v, nil
		}
		next := int64(len(mapping.reverse))
		if next >= cfg.maxVertices {
			return 0, fmt.Errorf("%w: id %q would receive %d, limit %d", ErrVertexRange, id, next, cfg.maxVertices)
		}
		v := int32(next)
		mapping.forward[id] = v
		mapping.reverse = append(mapping.reverse, id)
		return v, nil
	}

	g := &EngineGraph{
		Src:      make([]int32, len(snap.Edges)),
		Dst:      make([]int32, len(snap.Edges)),
		Directed: directed,
	}

	nonNumeric := 0
	for i := range snap.Edges {
		e := &snap.Edges[i]

		src, err := assign(e.Source)
		if err != nil {
			return nil, err
		}
		dst, err := assign(e.Target)
		if err != nil {
			return nil, err
		}
		g.Src[i] = src
		g.Dst[i] = dst

		w, present, numeric := edgeWeight(e)
		switch {
		case numeric:
			if g.Weight == nil {
				g.Weight = make([]float64, len(snap.Edges))
			}
			g.Weight[i] = w
		case present:
			nonNumeric++
			cfg.logger.Warn("non-numeric edge weight treated as 0",
				slog.Int("edge_index", i),
				slog.String("source", e.Source),
				slog.String("target", e.Target),
			)
		}
	}

	nodes := make(map[string]*Node, declared)
	for i := range snap.Nodes {
		n := &snap.Nodes[i]
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("%w: node %q declared twice", ErrInconsistentGraph, n.ID)
		}
		nodes[n.ID] = n
		if _, err := assign(n.ID); err != nil {
			return nil, err
		}
	}

	if assigned := len(mapping.reverse); assigned != declared {
		return nil, fmt.Errorf("%w: %d ids assigned, %d nodes declared", ErrInconsistentGraph, assigned, declared)
	}

	g.VertexCount = uint32(len(mapping.reverse))
	return &Marshalled{
		Graph:             g,
		Mapping:           mapping,
		Nodes:             nodes,
		NonNumericWeights: nonNumeric,
	}, nil
}
