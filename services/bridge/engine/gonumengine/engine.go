// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gonumengine is an in-process engine.Engine backed by gonum.
//
// It exists so the bridge can run end to end without the native engine:
// the CLI and HTTP adapter use it by default, and its overlays follow
// the same conventions (modes, "u" and "u-v" keys, value scaling) as the
// native engine's.
package gonumengine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	bridgegraph "github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// Failure codes reported through engine.NativeError.
const (
	CodeUnsupported     = 1
	CodeNoGraph         = 2
	CodeInvalidVertex   = 3
	CodeNegativeCycle   = 4
	CodeNotDAG          = 5
	CodeNegativeWeight  = 6
	CodeNotEulerian     = 7
	CodeInvalidArgument = 8
	CodeDirectedGraph   = 9

	CodeNoEulerianCircuit = 10
)

var messages = map[int]string{
	CodeUnsupported:     "This algorithm is not available in the reference engine",
	CodeNoGraph:         "No graph is loaded",
	CodeInvalidVertex:   "Vertex id is out of range for the loaded graph",
	CodeNegativeCycle:   "The graph contains a negative-weight cycle reachable from the source",
	CodeNotDAG:          "This graph is not a Directed Acyclic Graph (DAG) and cannot be topologically sorted",
	CodeNegativeWeight:  "Dijkstra's algorithm requires non-negative edge weights",
	CodeNotEulerian:     "The graph has no Eulerian path or circuit",
	CodeInvalidArgument: "Invalid algorithm argument",
	CodeDirectedGraph:   "This algorithm only works on undirected graphs",

	CodeNoEulerianCircuit: "The graph has an Eulerian path but no Eulerian circuit",
}

// Options configures an Engine.
type Options struct {
	Logger *slog.Logger

	// PageRankTolerance is the convergence bound for PageRank. Zero uses 1e-6.
	PageRankTolerance float64
}

// Engine runs algorithms over gonum graphs.
//
// Not safe for concurrent use; drive it through engine.Slot.
type Engine struct {
	g      *loadedGraph
	logger *slog.Logger
	tol    float64
}

var _ engine.Engine = (*Engine)(nil)

// New creates an empty engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tol := opts.PageRankTolerance
	if tol <= 0 {
		tol = 1e-6
	}
	return &Engine{logger: logger, tol: tol}
}

// Load builds the gonum representation of g.
func (e *Engine) Load(ctx context.Context, g *bridgegraph.EngineGraph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lg, err := build(g)
	if err != nil {
		return err
	}
	e.g = lg
	e.logger.Debug("graph loaded",
		slog.Int("vertices", lg.n),
		slog.Int("edges", len(lg.src)),
		slog.Bool("directed", lg.directed),
		slog.Bool("weighted", lg.weighted),
	)
	return nil
}

// Unload drops the loaded graph.
func (e *Engine) Unload(context.Context) error {
	e.g = nil
	return nil
}

// Describe renders a failure code.
func (e *Engine) Describe(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return fmt.Sprintf("Unknown engine failure (code %d)", code)
}

type runner func(e *Engine, call engine.Call) (*engine.RawResult, error)

var runners = map[engine.Operation]runner{
	engine.OpBFS:                 (*Engine).bfs,
	engine.OpDFS:                 (*Engine).dfs,
	engine.OpRandomWalk:          (*Engine).randomWalk,
	engine.OpVerticesAreAdjacent: (*Engine).adjacent,
	engine.OpStronglyConnected:   (*Engine).strongComponents,
	engine.OpWeaklyConnected:     (*Engine).weakComponents,
	engine.OpTopologicalSort:     (*Engine).topologicalSort,

	engine.OpDijkstraAToB:        (*Engine).dijkstraAToB,
	engine.OpDijkstraAToAll:      (*Engine).dijkstraAToAll,
	engine.OpBellmanFordAToB:     (*Engine).bellmanFordAToB,
	engine.OpBellmanFordAToAll:   (*Engine).bellmanFordAToAll,
	engine.OpYenKShortestPaths:   (*Engine).yen,
	engine.OpMinimumSpanningTree: (*Engine).minimumSpanningTree,
	engine.OpGraphDiameter:       (*Engine).diameter,
	engine.OpEulerianPath:        (*Engine).eulerianPath,
	engine.OpEulerianCircuit:     (*Engine).eulerianCircuit,

	engine.OpBetweenness:      (*Engine).betweenness,
	engine.OpCloseness:        (*Engine).closeness,
	engine.OpDegree:           (*Engine).degree,
	engine.OpEigenvector:      (*Engine).eigenvector,
	engine.OpStrength:         (*Engine).strength,
	engine.OpHarmonic:         (*Engine).harmonic,
	engine.OpPageRank:         (*Engine).pageRank,
	engine.OpDirectedPageRank: (*Engine).pageRank,

	engine.OpLouvain:          (*Engine).louvain,
	engine.OpLeiden:           (*Engine).leiden,
	engine.OpFastGreedy:       (*Engine).fastGreedy,
	engine.OpLabelPropagation: (*Engine).labelPropagation,
	engine.OpLocalClustering:  (*Engine).localClustering,
	engine.OpKCore:            (*Engine).kCore,
	engine.OpTriangleCount:    (*Engine).triangles,

	engine.OpJaccardSimilarity:     (*Engine).jaccard,
	engine.OpMissingEdgePrediction: (*Engine).missingEdges,
}

// Supports reports whether op is implemented.
func Supports(op engine.Operation) bool {
	_, ok := runners[op]
	return ok
}

// Run executes call against the loaded graph.
func (e *Engine) Run(ctx context.Context, call engine.Call) (*engine.RawResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.g == nil {
		return nil, e.fail(call.Op, CodeNoGraph)
	}
	run, ok := runners[call.Op]
	if !ok {
		return nil, e.fail(call.Op, CodeUnsupported)
	}
	return run(e, call)
}

func (e *Engine) fail(op engine.Operation, code int) error {
	return &engine.NativeError{Op: op, Code: code}
}

// vertex validates an engine id from a call.
func (e *Engine) vertex(op engine.Operation, v int32) error {
	if v < 0 || int(v) >= e.g.n {
		return e.fail(op, CodeInvalidVertex)
	}
	return nil
}
