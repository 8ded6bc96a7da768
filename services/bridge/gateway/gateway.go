// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway is the entry point for algorithm calls.
//
// A call takes database ids in and gives database ids back. In between
// the gateway fetches a snapshot, applies the operation's directedness
// policy, marshals the graph into engine arrays, drives the engine slot
// and translates the engine's output.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/translate"
)

// Result is one algorithm call's output in database ids.
type Result struct {
	Op   engine.Operation `json:"op" yaml:"op"`
	Kind result.Kind      `json:"kind" yaml:"kind"`
	Mode overlay.Mode     `json:"mode" yaml:"mode"`

	Overlay overlay.Overlay `json:"overlay" yaml:"overlay"`
	Data    result.Payload  `json:"data" yaml:"data"`

	// Labels maps every id in Data to a display label.
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`

	Notices []Notice `json:"notices,omitempty" yaml:"notices,omitempty"`

	// Trivial is set when an argument id was not in the graph and the
	// engine was not called.
	Trivial bool `json:"trivial,omitempty" yaml:"trivial,omitempty"`

	RequestID string `json:"request_id" yaml:"request_id"`
}

// Options configures a Gateway.
type Options struct {
	Logger *slog.Logger

	// MaxVertices lowers the engine id ceiling. Zero keeps
	// graph.MaxVertexID.
	MaxVertices int64
}

// Gateway runs algorithms against snapshots from one source.
//
// Thread Safety:
//
//	Safe for concurrent use. Calls marshal concurrently and queue for the
//	engine slot.
type Gateway struct {
	source      source.Source
	slot        *engine.Slot
	logger      *slog.Logger
	maxVertices int64
}

// New returns a Gateway reading from src and invoking through slot.
func New(src source.Source, slot *engine.Slot, opts Options) *Gateway {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		source:      src,
		slot:        slot,
		logger:      logger,
		maxVertices: opts.MaxVertices,
	}
}

// Traversal runs a traversal-family operation.
func (g *Gateway) Traversal(ctx context.Context, req Request) (*Result, error) {
	return g.runFamily(ctx, FamilyTraversal, req)
}

// ShortestPath runs a path-family operation.
func (g *Gateway) ShortestPath(ctx context.Context, req Request) (*Result, error) {
	return g.runFamily(ctx, FamilyPath, req)
}

// Centrality runs a centrality-family operation.
func (g *Gateway) Centrality(ctx context.Context, req Request) (*Result, error) {
	return g.runFamily(ctx, FamilyCentrality, req)
}

// Community runs a community-family operation.
func (g *Gateway) Community(ctx context.Context, req Request) (*Result, error) {
	return g.runFamily(ctx, FamilyCommunity, req)
}

// Similarity runs a similarity-family operation.
func (g *Gateway) Similarity(ctx context.Context, req Request) (*Result, error) {
	return g.runFamily(ctx, FamilySimilarity, req)
}

func (g *Gateway) runFamily(ctx context.Context, family Family, req Request) (*Result, error) {
	spec, ok := Lookup(req.Op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op)
	}
	if spec.Family != family {
		return nil, fmt.Errorf("%w: %s is a %s operation, not %s", ErrWrongFamily, req.Op, spec.Family, family)
	}
	return g.Run(ctx, req)
}

// Run executes any catalogued operation.
//
// Description:
//
//	Validates req, fetches a snapshot, marshals it under the operation's
//	directedness policy and translates the argument ids. If an argument
//	id is not in the graph the operation's trivial result is returned
//	without calling the engine. Otherwise the engine runs in the slot and
//	its output is translated back to database ids.
//
// Outputs:
//
//	*Result - The translated result with labels and notices.
//	error - ErrUnknownOperation, ErrInvalidRequest,
//	  ErrDirectedGraphRequired, ErrSnapshot, graph.ErrInconsistentGraph,
//	  graph.ErrVertexRange, *EngineError, engine.ErrInvocationTimeout or
//	  the context's error.
func (g *Gateway) Run(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() {
		gatewayRequests.WithLabelValues(string(req.Op), outcome(res, err)).Inc()
		gatewayDuration.WithLabelValues(string(req.Op)).Observe(time.Since(start).Seconds())
	}()

	spec, ok := Lookup(req.Op)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, req.Op)
	}
	if err := req.Validate(spec); err != nil {
		return nil, err
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	logger := g.logger.With(
		slog.String("request_id", req.RequestID),
		slog.String("op", string(req.Op)),
	)

	snap, err := g.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, source.ErrSourceUnavailable)
	}

	var notices []Notice
	directed := snap.Directed
	switch spec.Policy {
	case PolicyDirected:
		if !snap.Directed {
			return nil, fmt.Errorf("%w: %s", ErrDirectedGraphRequired, req.Op)
		}
	case PolicyUndirected:
		if snap.Directed {
			directed = false
			notices = append(notices, Notice{
				Kind:    NoticeDowngradedToUndirected,
				Message: fmt.Sprintf("%s only supports undirected graphs; edge directions were ignored", req.Op),
			})
			logger.Info("directed graph downgraded to undirected")
		}
	}

	opts := []graph.MarshalOption{graph.WithLogger(logger)}
	if g.maxVertices > 0 {
		opts = append(opts, graph.WithMaxVertices(g.maxVertices))
	}
	m, err := graph.Marshal(ctx, snap, directed, opts...)
	if err != nil {
		return nil, err
	}
	if m.NonNumericWeights > 0 {
		notices = append(notices, Notice{
			Kind:    NoticeNonNumericWeights,
			Message: "some edge weights were not numbers and were treated as 0",
			Count:   m.NonNumericWeights,
		})
	}
	gatewayGraphVertices.Observe(float64(m.Graph.VertexCount))

	call, missing := forward(&req, spec, m.Mapping)
	if len(missing) > 0 {
		logger.Info("argument ids not in graph, returning trivial result",
			slog.Any("missing", missing),
		)
		res = g.trivialResult(&req, spec, m, notices)
		recordNotices(res.Notices)
		return res, nil
	}
	if req.Op == engine.OpMissingEdgePrediction {
		samples, bins := missingEdgeDefaults(int(m.Graph.VertexCount), m.Graph.EdgeCount())
		if call.SampleSize == 0 {
			call.SampleSize = samples
		}
		if call.Bins == 0 {
			call.Bins = bins
		}
	}

	raw, err := g.slot.Invoke(ctx, m.Graph, call)
	if err != nil {
		return nil, g.engineError(req.Op, err)
	}

	r := translate.NewResolver(m.Mapping, logger)
	data, err := translate.Payload(raw.Data, r)
	if err != nil {
		return nil, fmt.Errorf("translate %s result: %w", req.Op, err)
	}
	ov := translate.Overlay(raw.ColorMap, raw.SizeMap, r)

	if unmapped := r.Unmapped(); len(unmapped) > 0 {
		notices = append(notices, Notice{
			Kind:    NoticeUnmappedEngineIDs,
			Message: "the engine returned ids outside the graph; they are shown in numeric form",
			Count:   len(unmapped),
		})
	}

	res = &Result{
		Op:        req.Op,
		Kind:      data.Kind(),
		Mode:      raw.Mode,
		Overlay:   ov,
		Data:      data,
		Labels:    translate.Labels(r.Referenced(), m.Nodes),
		Notices:   notices,
		RequestID: req.RequestID,
	}
	recordNotices(notices)
	logger.Debug("algorithm completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("vertices", int(m.Graph.VertexCount)),
		slog.Int("edges", m.Graph.EdgeCount()),
	)
	return res, nil
}

// forward translates the request's ids into an engine call. Ids the
// mapping does not know are returned in missing.
func forward(req *Request, spec Spec, mapping *graph.Mapping) (call engine.Call, missing []string) {
	call = engine.Call{
		Op:         req.Op,
		K:          req.K,
		Steps:      req.Steps,
		SampleSize: req.SampleSize,
		Bins:       req.Bins,
		Damping:    req.Damping,
		Resolution: req.Resolution,
		Seed:       req.Seed,
	}
	if call.Damping == 0 {
		call.Damping = DefaultDamping
	}
	if call.Resolution == 0 {
		call.Resolution = DefaultResolution
	}

	lookup := func(id string) int32 {
		v, ok := mapping.Forward(id)
		if !ok {
			missing = append(missing, id)
		}
		return v
	}
	if spec.Needs(ArgSource) {
		call.Source = lookup(req.Source)
	}
	if spec.Needs(ArgTarget) {
		call.Target = lookup(req.Target)
	}
	if spec.Needs(ArgNodes) {
		call.Nodes = make([]int32, len(req.Nodes))
		for i, id := range req.Nodes {
			call.Nodes[i] = lookup(id)
		}
	}
	return call, missing
}

func (g *Gateway) trivialResult(req *Request, spec Spec, m *graph.Marshalled, notices []Notice) *Result {
	data := trivial(req)
	ids := req.ids(spec)
	return &Result{
		Op:        req.Op,
		Kind:      data.Kind(),
		Mode:      overlay.ModeUnresolved,
		Overlay:   trivialOverlay(ids),
		Data:      data,
		Labels:    translate.Labels(ids, m.Nodes),
		Notices:   notices,
		Trivial:   true,
		RequestID: req.RequestID,
	}
}

// engineError reshapes a slot failure for the caller.
func (g *Gateway) engineError(op engine.Operation, err error) error {
	var native *engine.NativeError
	switch {
	case errors.As(err, &native):
		return &EngineError{Op: op, Code: native.Code, Message: g.slot.Describe(native.Code), Err: err}
	case errors.Is(err, engine.ErrInvocationTimeout),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return &EngineError{Op: op, Message: err.Error(), Err: err}
	}
}
