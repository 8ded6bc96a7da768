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
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// =============================================================================
// Shortest paths
// =============================================================================

// shortestFrom runs Dijkstra or Bellman-Ford from src.
func (e *Engine) shortestFrom(op engine.Operation, src int32, bellmanFord bool) (path.Shortest, error) {
	if !bellmanFord {
		if e.g.negative {
			return path.Shortest{}, e.fail(op, CodeNegativeWeight)
		}
		return path.DijkstraFrom(simple.Node(src), e.g.dg), nil
	}
	sp, ok := path.BellmanFordFrom(simple.Node(src), e.g.dg)
	if !ok {
		return path.Shortest{}, e.fail(op, CodeNegativeCycle)
	}
	return sp, nil
}

// steps turns a vertex sequence into weighted steps.
func (e *Engine) steps(seq []int32) ([]result.PathStep[int32], float64) {
	var out []result.PathStep[int32]
	total := 0.0
	for i := 1; i < len(seq); i++ {
		step := result.PathStep[int32]{From: seq[i-1], To: seq[i]}
		w, _ := e.g.edgeWeight(seq[i-1], seq[i])
		total += w
		if e.g.weighted {
			step.Weight = result.Float(w)
		}
		out = append(out, step)
	}
	return out, total
}

func (e *Engine) pathToTarget(call engine.Call, bellmanFord bool) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}
	if err := e.vertex(call.Op, call.Target); err != nil {
		return nil, err
	}
	sp, err := e.shortestFrom(call.Op, call.Source, bellmanFord)
	if err != nil {
		return nil, err
	}

	data := &result.PathToTarget[int32]{Source: call.Source, Target: call.Target, Weighted: e.g.weighted}
	seq, _ := sp.To(int64(call.Target))
	colors := colorMap{}
	if len(seq) > 0 {
		data.Found = true
		var total float64
		data.Path, total = e.steps(nodes(seq))
		if e.g.weighted {
			data.TotalWeight = result.Float(total)
		}
		colors.path(data.Path)
	}
	colors.node(call.Source, 1)
	colors.node(call.Target, 1)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

func (e *Engine) pathsFromSource(call engine.Call, bellmanFord bool) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}
	sp, err := e.shortestFrom(call.Op, call.Source, bellmanFord)
	if err != nil {
		return nil, err
	}

	data := &result.PathsFromSource[int32]{Source: call.Source, Weighted: e.g.weighted}
	colors := colorMap{}
	counts := make(map[int32]int)
	for t := 0; t < e.g.n; t++ {
		target := int32(t)
		if target == call.Source {
			continue
		}
		seq, _ := sp.To(int64(target))
		if len(seq) == 0 {
			continue
		}
		ids := nodes(seq)
		tp := result.TargetPath[int32]{Target: target, Path: ids}
		steps, total := e.steps(ids)
		if e.g.weighted {
			tp.Weight = result.Float(total)
		}
		for _, s := range steps {
			colors.link(s.From, s.To, 1)
		}
		for _, u := range ids {
			if u != call.Source {
				counts[u]++
			}
		}
		data.Paths = append(data.Paths, tp)
	}

	colors.scaledInts(counts)
	colors.node(call.Source, 1)
	return &engine.RawResult{Mode: overlay.ModeColorShadeError, ColorMap: colors, Data: data}, nil
}

func (e *Engine) dijkstraAToB(call engine.Call) (*engine.RawResult, error) {
	return e.pathToTarget(call, false)
}

func (e *Engine) dijkstraAToAll(call engine.Call) (*engine.RawResult, error) {
	return e.pathsFromSource(call, false)
}

func (e *Engine) bellmanFordAToB(call engine.Call) (*engine.RawResult, error) {
	return e.pathToTarget(call, true)
}

func (e *Engine) bellmanFordAToAll(call engine.Call) (*engine.RawResult, error) {
	return e.pathsFromSource(call, true)
}

func (e *Engine) yen(call engine.Call) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}
	if err := e.vertex(call.Op, call.Target); err != nil {
		return nil, err
	}
	if call.K < 1 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}

	data := &result.KShortestPaths[int32]{Source: call.Source, Target: call.Target, K: call.K, Weighted: e.g.weighted}
	colors := colorMap{}
	found := path.YenKShortestPaths(e.g.dg, call.K, math.Inf(1), simple.Node(call.Source), simple.Node(call.Target))
	for i, seq := range found {
		ids := nodes(seq)
		rp := result.RankedPath[int32]{Num: i + 1, Path: ids}
		steps, total := e.steps(ids)
		if e.g.weighted {
			rp.Weight = result.Float(total)
		}
		colors.path(steps)
		for _, u := range ids {
			colors.node(u, 0.5)
		}
		data.Paths = append(data.Paths, rp)
	}
	colors.node(call.Source, 1)
	colors.node(call.Target, 1)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

// =============================================================================
// Spanning tree and diameter
// =============================================================================

func (e *Engine) minimumSpanningTree(engine.Call) (*engine.RawResult, error) {
	forest := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	total := path.Kruskal(forest, e.g.ug)

	var edges []graph.WeightedEdge
	it := forest.WeightedEdges()
	for it.Next() {
		edges = append(edges, it.WeightedEdge())
	}
	pairs := make([][2]int32, len(edges))
	for i, we := range edges {
		pairs[i] = e.g.oriented(int32(we.From().ID()), int32(we.To().ID()))
	}
	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Or(cmp.Compare(pairs[a][0], pairs[b][0]), cmp.Compare(pairs[a][1], pairs[b][1]))
	})

	data := &result.SpanningTree[int32]{Weighted: e.g.weighted, MaxEdges: len(e.g.src)}
	colors := colorMap{}
	for n, i := range order {
		from, to := pairs[i][0], pairs[i][1]
		te := result.TreeEdge[int32]{Num: n + 1, From: from, To: to}
		if e.g.weighted {
			te.Weight = result.Float(edges[i].Weight())
		}
		colors.node(from, 0.5)
		colors.node(to, 0.5)
		colors.link(from, to, 1)
		data.Edges = append(data.Edges, te)
	}
	if e.g.weighted {
		data.TotalWeight = result.Float(total)
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeError, ColorMap: colors, Data: data}, nil
}

// oriented returns u, v in the direction of a raw edge joining them.
func (lg *loadedGraph) oriented(u, v int32) [2]int32 {
	for i := range lg.src {
		if lg.src[i] == u && lg.dst[i] == v {
			return [2]int32{u, v}
		}
		if lg.src[i] == v && lg.dst[i] == u {
			return [2]int32{v, u}
		}
	}
	return [2]int32{u, v}
}

// diameter finds the longest finite shortest path; ties go to the
// lowest source, then the lowest target.
func (e *Engine) diameter(call engine.Call) (*engine.RawResult, error) {
	if e.g.n == 0 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}

	all := path.DijkstraAllPaths(e.g.dg)
	best, src, tar := 0.0, int32(0), int32(0)
	for u := 0; u < e.g.n; u++ {
		for v := 0; v < e.g.n; v++ {
			if u == v {
				continue
			}
			w := all.Weight(int64(u), int64(v))
			if math.IsInf(w, 1) || w <= best {
				continue
			}
			best, src, tar = w, int32(u), int32(v)
		}
	}

	data := &result.Diameter[int32]{Source: src, Target: tar, Weighted: e.g.weighted, Diameter: best}
	colors := colorMap{}
	if src != tar {
		seq, _, _ := all.Between(int64(src), int64(tar))
		data.Path, _ = e.steps(nodes(seq))
		colors.path(data.Path)
	}
	colors.node(src, 1)
	colors.node(tar, 1)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

// =============================================================================
// Eulerian walks
// =============================================================================

func (e *Engine) eulerianPath(call engine.Call) (*engine.RawResult, error) {
	start, circuit, ok := e.eulerianStart()
	if !ok {
		return nil, e.fail(call.Op, CodeNotEulerian)
	}
	walk := e.hierholzer(start)
	walk.Circuit = circuit

	colors := colorMap{}
	for _, s := range walk.Path {
		colors.link(s.From, s.To, 1)
	}
	colors.node(walk.Start, 1)
	colors.node(walk.End, 1)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: walk}, nil
}

func (e *Engine) eulerianCircuit(call engine.Call) (*engine.RawResult, error) {
	start, circuit, ok := e.eulerianStart()
	if !ok {
		return nil, e.fail(call.Op, CodeNotEulerian)
	}
	if !circuit {
		return nil, e.fail(call.Op, CodeNoEulerianCircuit)
	}
	walk := e.hierholzer(start)
	walk.Circuit = true

	colors := colorMap{}
	for _, s := range walk.Path {
		colors.link(s.From, s.To, 1)
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: walk}, nil
}

// eulerianStart checks the degree conditions and connectivity of the raw
// multigraph and picks where the walk begins.
func (e *Engine) eulerianStart() (start int32, circuit bool, ok bool) {
	lg := e.g
	if lg.n == 0 {
		return 0, false, false
	}

	in := make([]int, lg.n)
	out := make([]int, lg.n)
	uf := newUnionFind(lg.n)
	for i := range lg.src {
		out[lg.src[i]]++
		in[lg.dst[i]]++
		uf.union(lg.src[i], lg.dst[i])
	}

	root := int32(-1)
	for u := 0; u < lg.n; u++ {
		if in[u]+out[u] == 0 {
			continue
		}
		r := uf.find(int32(u))
		if root == -1 {
			root, start = r, int32(u)
		} else if r != root {
			return 0, false, false
		}
	}
	if root == -1 {
		return 0, true, true
	}

	if lg.directed {
		var begin, end int
		first := start
		for u := 0; u < lg.n; u++ {
			switch d := out[u] - in[u]; {
			case d == 0:
			case d == 1:
				begin++
				start = int32(u)
			case d == -1:
				end++
			default:
				return 0, false, false
			}
		}
		switch {
		case begin == 0 && end == 0:
			return first, true, true
		case begin == 1 && end == 1:
			return start, false, true
		}
		return 0, false, false
	}

	odd := []int32{}
	for u := 0; u < lg.n; u++ {
		if (in[u]+out[u])%2 == 1 {
			odd = append(odd, int32(u))
		}
	}
	switch len(odd) {
	case 0:
		return start, true, true
	case 2:
		return odd[0], false, true
	}
	return 0, false, false
}

// hierholzer walks every raw edge once from start.
func (e *Engine) hierholzer(start int32) *result.EulerianWalk[int32] {
	lg := e.g
	adj := make([][]int, lg.n)
	for i := range lg.src {
		adj[lg.src[i]] = append(adj[lg.src[i]], i)
		if !lg.directed && lg.src[i] != lg.dst[i] {
			adj[lg.dst[i]] = append(adj[lg.dst[i]], i)
		}
	}

	used := make([]bool, len(lg.src))
	next := make([]int, lg.n)
	stack := []int32{start}
	var seq []int32
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		for next[u] < len(adj[u]) && used[adj[u][next[u]]] {
			next[u]++
		}
		if next[u] == len(adj[u]) {
			seq = append(seq, u)
			stack = stack[:len(stack)-1]
			continue
		}
		i := adj[u][next[u]]
		used[i] = true
		stack = append(stack, lg.other(i, u))
	}
	slices.Reverse(seq)

	walk := &result.EulerianWalk[int32]{Start: start, End: start}
	if len(seq) > 0 {
		walk.Start, walk.End = seq[0], seq[len(seq)-1]
	}
	for i := 1; i < len(seq); i++ {
		walk.Path = append(walk.Path, result.PathStep[int32]{From: seq[i-1], To: seq[i]})
	}
	return walk
}

type unionFind []int32

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = int32(i)
	}
	return uf
}

func (uf unionFind) find(u int32) int32 {
	for uf[u] != u {
		uf[u] = uf[uf[u]]
		u = uf[u]
	}
	return u
}

func (uf unionFind) union(u, v int32) {
	uf[uf.find(u)] = uf.find(v)
}
