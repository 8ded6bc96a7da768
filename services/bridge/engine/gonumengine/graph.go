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
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	bridgegraph "github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// loadedGraph is the engine-side view of one EngineGraph.
//
// The raw edge list keeps self-loops and parallel edges. The gonum views
// are simple graphs: self-loops are dropped and parallel edges collapse to
// the lightest one.
type loadedGraph struct {
	n        int
	directed bool
	weighted bool
	negative bool

	src []int32
	dst []int32
	w   []float64

	// dg follows edge direction; undirected input is stored both ways.
	dg *simple.WeightedDirectedGraph
	// ug ignores direction.
	ug *simple.WeightedUndirectedGraph

	// out and nbr are sorted successor and neighbour lists of dg and ug.
	out [][]int32
	nbr [][]int32
}

func build(g *bridgegraph.EngineGraph) (*loadedGraph, error) {
	if len(g.Src) != len(g.Dst) {
		return nil, fmt.Errorf("%w: %d sources, %d targets", bridgegraph.ErrInconsistentGraph, len(g.Src), len(g.Dst))
	}
	if g.Weight != nil && len(g.Weight) != len(g.Src) {
		return nil, fmt.Errorf("%w: %d weights for %d edges", bridgegraph.ErrInconsistentGraph, len(g.Weight), len(g.Src))
	}

	lg := &loadedGraph{
		n:        int(g.VertexCount),
		directed: g.Directed,
		weighted: g.Weighted(),
		src:      g.Src,
		dst:      g.Dst,
		w:        g.Weight,
		dg:       simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		ug:       simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
	}

	for i := 0; i < lg.n; i++ {
		lg.dg.AddNode(simple.Node(i))
		lg.ug.AddNode(simple.Node(i))
	}

	for i := range g.Src {
		u, v := g.Src[i], g.Dst[i]
		if u < 0 || v < 0 || int(u) >= lg.n || int(v) >= lg.n {
			return nil, fmt.Errorf("%w: edge %d joins %d and %d in a graph of %d vertices",
				bridgegraph.ErrInconsistentGraph, i, u, v, lg.n)
		}
		w := lg.weight(i)
		if w < 0 {
			lg.negative = true
		}
		if u == v {
			continue
		}
		setLighter(lg.dg, u, v, w)
		if !lg.directed {
			setLighter(lg.dg, v, u, w)
		}
		if cur, ok := lg.ug.Weight(int64(u), int64(v)); !ok || w < cur {
			lg.ug.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
		}
	}

	lg.out = make([][]int32, lg.n)
	lg.nbr = make([][]int32, lg.n)
	for i := 0; i < lg.n; i++ {
		lg.out[i] = sortedIDs(lg.dg.From(int64(i)))
		lg.nbr[i] = sortedIDs(lg.ug.From(int64(i)))
	}
	return lg, nil
}

func setLighter(g *simple.WeightedDirectedGraph, u, v int32, w float64) {
	if cur, ok := g.Weight(int64(u), int64(v)); ok && cur <= w {
		return
	}
	g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
}

func sortedIDs(it graph.Nodes) []int32 {
	var ids []int32
	for it.Next() {
		ids = append(ids, int32(it.Node().ID()))
	}
	slices.Sort(ids)
	return ids
}

// weight of raw edge i; 1 when the graph is unweighted.
func (lg *loadedGraph) weight(i int) float64 {
	if lg.w == nil {
		return 1
	}
	return lg.w[i]
}

// edgeWeight is the weight of the simple edge u->v, if present.
func (lg *loadedGraph) edgeWeight(u, v int32) (float64, bool) {
	if u == v {
		return 0, false
	}
	return lg.dg.Weight(int64(u), int64(v))
}

// incident lists raw edge indices leaving u, following direction when the
// graph is directed.
func (lg *loadedGraph) incident(u int32) []int {
	var out []int
	for i := range lg.src {
		if lg.src[i] == u || (!lg.directed && lg.dst[i] == u) {
			out = append(out, i)
		}
	}
	return out
}

// other returns the endpoint of raw edge i that is not u.
func (lg *loadedGraph) other(i int, u int32) int32 {
	if lg.src[i] == u {
		return lg.dst[i]
	}
	return lg.src[i]
}

func nodes(ids []graph.Node) []int32 {
	out := make([]int32, len(ids))
	for i, n := range ids {
		out[i] = int32(n.ID())
	}
	return out
}
