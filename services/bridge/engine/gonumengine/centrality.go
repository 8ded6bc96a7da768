// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gonumengine

import (
	"math"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// DefaultDamping is used when a PageRank call carries no damping factor.
const DefaultDamping = 0.85

const (
	eigenIterations = 1000
	eigenTolerance  = 1e-10
)

func round(f float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(f*p) / p
}

// centrality packages per-vertex scores as a size-scaled result.
func (e *Engine) centrality(measure string, scores []float64, places int) *engine.RawResult {
	data := &result.Centrality[int32]{Measure: measure}
	for u, s := range scores {
		data.Scores = append(data.Scores, result.NodeScore[int32]{Node: int32(u), Score: round(finite(s), places)})
	}
	return &engine.RawResult{Mode: overlay.ModeSizeScalar, SizeMap: sizeMap(data.Scores), Data: data}
}

// view is the graph that centralities run over: directed input keeps its
// direction, undirected input uses the undirected simple graph.
func (e *Engine) view() graph.Graph {
	if e.g.directed {
		return e.g.dg
	}
	return e.g.ug
}

func (e *Engine) dense(m map[int64]float64) []float64 {
	out := make([]float64, e.g.n)
	for id, v := range m {
		out[id] = v
	}
	return out
}

func (e *Engine) betweenness(call engine.Call) (*engine.RawResult, error) {
	var scores map[int64]float64
	switch {
	case !e.g.weighted:
		scores = network.Betweenness(e.view())
	case e.g.negative:
		return nil, e.fail(call.Op, CodeNegativeWeight)
	default:
		g := e.view().(graph.Weighted)
		scores = network.BetweennessWeighted(g, path.DijkstraAllPaths(g))
	}
	return e.centrality("betweenness", e.dense(scores), 2), nil
}

// closeness is normalised over the vertices each vertex can reach.
func (e *Engine) closeness(call engine.Call) (*engine.RawResult, error) {
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	all := path.DijkstraAllPaths(e.g.dg)
	scores := make([]float64, e.g.n)
	for u := 0; u < e.g.n; u++ {
		reached, sum := 0, 0.0
		for v := 0; v < e.g.n; v++ {
			if u == v {
				continue
			}
			if d := all.Weight(int64(u), int64(v)); !math.IsInf(d, 1) {
				reached++
				sum += d
			}
		}
		if reached > 0 && sum > 0 {
			scores[u] = float64(reached) / sum
		}
	}
	return e.centrality("closeness", scores, 4), nil
}

// harmonic is normalised by n-1.
func (e *Engine) harmonic(call engine.Call) (*engine.RawResult, error) {
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	scores := e.dense(network.Harmonic(e.g.dg, path.DijkstraAllPaths(e.g.dg)))
	if e.g.n > 1 {
		for i := range scores {
			scores[i] /= float64(e.g.n - 1)
		}
	}
	return e.centrality("harmonic", scores, 4), nil
}

// degree counts outgoing raw edges, parallel edges included and loops not.
func (e *Engine) degree(engine.Call) (*engine.RawResult, error) {
	scores := make([]float64, e.g.n)
	for i := range e.g.src {
		u, v := e.g.src[i], e.g.dst[i]
		if u == v {
			continue
		}
		scores[u]++
		if !e.g.directed {
			scores[v]++
		}
	}
	return e.centrality("degree", scores, 2), nil
}

// strength is degree with edge weights, loops excluded.
func (e *Engine) strength(engine.Call) (*engine.RawResult, error) {
	scores := make([]float64, e.g.n)
	for i := range e.g.src {
		u, v := e.g.src[i], e.g.dst[i]
		if u == v {
			continue
		}
		w := e.g.weight(i)
		scores[u] += w
		if !e.g.directed {
			scores[v] += w
		}
	}
	return e.centrality("strength", scores, 2), nil
}

// eigenvector runs a shifted power iteration, scaled so the largest score
// is 1. For directed graphs a vertex inherits from its predecessors.
func (e *Engine) eigenvector(engine.Call) (*engine.RawResult, error) {
	n := e.g.n
	x := make([]float64, n)
	for i := range x {
		x[i] = 1
	}

	lambda := 0.0
	if len(e.g.src) > 0 {
		next := make([]float64, n)
		for iter := 0; iter < eigenIterations; iter++ {
			copy(next, x)
			for i := range e.g.src {
				u, v := e.g.src[i], e.g.dst[i]
				w := e.g.weight(i)
				next[v] += w * x[u]
				if !e.g.directed && u != v {
					next[u] += w * x[v]
				}
			}
			high := 0.0
			for _, f := range next {
				high = max(high, math.Abs(f))
			}
			if high == 0 {
				clear(x)
				break
			}
			delta := 0.0
			for i := range next {
				next[i] /= high
				delta = max(delta, math.Abs(next[i]-x[i]))
			}
			x, next = next, x
			lambda = high - 1
			if delta < eigenTolerance {
				break
			}
		}
	}

	res := e.centrality("eigenvector", x, 4)
	res.Data.(*result.Centrality[int32]).Eigenvalue = result.Float(round(lambda, 2))
	return res, nil
}

func (e *Engine) pageRank(call engine.Call) (*engine.RawResult, error) {
	damping := call.Damping
	if damping == 0 {
		damping = DefaultDamping
	}
	if damping <= 0 || damping >= 1 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}

	if e.g.weighted && e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	// dg is a graph.WeightedDirected, so PageRank follows edge weights
	// when the graph carries them; unweighted edges all weigh 1.
	scores := network.PageRank(e.g.dg, damping, e.tol)

	res := e.centrality("pagerank", e.dense(scores), 4)
	res.Data.(*result.Centrality[int32]).Damping = result.Float(round(damping, 2))
	return res, nil
}
