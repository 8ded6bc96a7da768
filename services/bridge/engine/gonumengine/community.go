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
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

const labelPropagationRounds = 100

// partition orders members by id and communities by their smallest member,
// colouring each vertex with its community index.
func partition(groups [][]int32) ([][]int32, colorMap) {
	out := make([][]int32, 0, len(groups))
	for _, g := range groups {
		if len(g) == 0 {
			continue
		}
		g = slices.Clone(g)
		slices.Sort(g)
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b []int32) int { return int(a[0]) - int(b[0]) })

	colors := colorMap{}
	for i, g := range out {
		for _, u := range g {
			colors.node(u, float64(i))
		}
	}
	return out, colors
}

func (e *Engine) louvain(call engine.Call) (*engine.RawResult, error) {
	if e.g.directed {
		return nil, e.fail(call.Op, CodeDirectedGraph)
	}
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	resolution := call.Resolution
	if resolution <= 0 {
		resolution = 1
	}

	reduced := community.Modularize(e.g.ug, resolution, nil)
	found := reduced.Communities()

	groups := make([][]int32, len(found))
	for i, c := range found {
		groups[i] = nodes(c)
	}
	parts, colors := partition(groups)
	q := community.Q(e.g.ug, found, resolution)

	return &engine.RawResult{
		Mode:     overlay.ModeRainbow,
		ColorMap: colors,
		Data: &result.Communities[int32]{
			Modularity:  result.Float(round(q, 2)),
			Communities: parts,
		},
	}, nil
}

// leiden runs the Louvain modularization and then splits every community
// into its connected parts, so no reported community is internally
// disconnected. Quality is the modularity at the requested resolution;
// Modularity is the standard (resolution 1) score.
func (e *Engine) leiden(call engine.Call) (*engine.RawResult, error) {
	if e.g.directed {
		return nil, e.fail(call.Op, CodeDirectedGraph)
	}
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	resolution := call.Resolution
	if resolution <= 0 {
		resolution = 1
	}

	reduced := community.Modularize(e.g.ug, resolution, nil)
	var groups [][]int32
	for _, c := range reduced.Communities() {
		groups = append(groups, e.connectedParts(nodes(c))...)
	}
	parts, colors := partition(groups)

	return &engine.RawResult{
		Mode:     overlay.ModeRainbow,
		ColorMap: colors,
		Data: &result.Communities[int32]{
			Modularity:  e.modularity(parts, 1),
			Quality:     e.modularity(parts, resolution),
			Communities: parts,
		},
	}, nil
}

// connectedParts splits members into the pieces connected inside the
// member set.
func (e *Engine) connectedParts(members []int32) [][]int32 {
	in := make(map[int32]bool, len(members))
	for _, u := range members {
		in[u] = true
	}
	seen := make(map[int32]bool, len(members))
	var parts [][]int32
	for _, root := range members {
		if seen[root] {
			continue
		}
		seen[root] = true
		part := []int32{root}
		for i := 0; i < len(part); i++ {
			for _, v := range e.g.nbr[part[i]] {
				if in[v] && !seen[v] {
					seen[v] = true
					part = append(part, v)
				}
			}
		}
		parts = append(parts, part)
	}
	return parts
}

// modularity scores a partition of the undirected view, rounded to two
// places. It is nil when the graph has no edges.
func (e *Engine) modularity(parts [][]int32, resolution float64) *float64 {
	linked := false
	for _, nbr := range e.g.nbr {
		if len(nbr) > 0 {
			linked = true
			break
		}
	}
	if !linked {
		return nil
	}
	groups := make([][]graph.Node, len(parts))
	for i, p := range parts {
		groups[i] = make([]graph.Node, len(p))
		for j, u := range p {
			groups[i][j] = simple.Node(u)
		}
	}
	q := community.Q(e.g.ug, groups, resolution)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	return result.Float(round(q, 2))
}

// fastGreedy starts from singletons and repeatedly merges the two linked
// communities with the largest modularity gain until no merge gains.
// Equal gains merge the pair with the smallest community ids.
func (e *Engine) fastGreedy(call engine.Call) (*engine.RawResult, error) {
	if e.g.directed {
		return nil, e.fail(call.Op, CodeDirectedGraph)
	}
	if e.g.negative {
		return nil, e.fail(call.Op, CodeNegativeWeight)
	}
	const eps = 1e-12
	n := e.g.n

	// between[c][d] is the edge weight joining communities c and d.
	between := make([]map[int32]float64, n)
	strength := make([]float64, n)
	total := 0.0 // twice the edge weight
	for u := 0; u < n; u++ {
		between[u] = make(map[int32]float64, len(e.g.nbr[u]))
		for _, v := range e.g.nbr[u] {
			w, _ := e.g.ug.Weight(int64(u), int64(v))
			between[u][v] = w
			strength[u] += w
		}
		total += strength[u]
	}

	members := make([][]int32, n)
	alive := make([]bool, n)
	for u := range members {
		members[u] = []int32{int32(u)}
		alive[u] = true
	}

	for total > 0 {
		best, bc, bd := 0.0, int32(-1), int32(-1)
		for c := int32(0); int(c) < n; c++ {
			if !alive[c] {
				continue
			}
			for d, w := range between[c] {
				if d <= c {
					continue
				}
				gain := 2 * (w/total - strength[c]*strength[d]/(total*total))
				if gain <= eps {
					continue
				}
				if bc < 0 || gain > best+eps || (math.Abs(gain-best) <= eps && c == bc && d < bd) {
					best, bc, bd = gain, c, d
				}
			}
		}
		if bc < 0 {
			break
		}

		for x, w := range between[bd] {
			delete(between[x], bd)
			if x == bc {
				continue
			}
			between[bc][x] += w
			between[x][bc] += w
		}
		between[bd] = nil
		strength[bc] += strength[bd]
		members[bc] = append(members[bc], members[bd]...)
		alive[bd] = false
	}

	groups := make([][]int32, 0, n)
	for c, m := range members {
		if alive[c] {
			groups = append(groups, m)
		}
	}
	parts, colors := partition(groups)

	return &engine.RawResult{
		Mode:     overlay.ModeRainbow,
		ColorMap: colors,
		Data: &result.Communities[int32]{
			Modularity:  e.modularity(parts, 1),
			Communities: parts,
		},
	}, nil
}

// labelPropagation sweeps vertices in id order, each adopting the label
// with the heaviest neighbour weight; ties keep the smallest label.
func (e *Engine) labelPropagation(engine.Call) (*engine.RawResult, error) {
	label := make([]int32, e.g.n)
	for i := range label {
		label[i] = int32(i)
	}

	for pass := 0; pass < labelPropagationRounds; pass++ {
		changed := false
		for u := 0; u < e.g.n; u++ {
			nbr := e.g.nbr[u]
			if len(nbr) == 0 {
				continue
			}
			votes := make(map[int32]float64, len(nbr))
			for _, v := range nbr {
				w, _ := e.g.ug.Weight(int64(u), int64(v))
				votes[label[v]] += w
			}
			best, bestVote := label[u], votes[label[u]]
			for l, vote := range votes {
				if vote > bestVote || (vote == bestVote && l < best) {
					best, bestVote = l, vote
				}
			}
			if best != label[u] {
				label[u] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	byLabel := make(map[int32][]int32)
	for u, l := range label {
		byLabel[l] = append(byLabel[l], int32(u))
	}
	groups := make([][]int32, 0, len(byLabel))
	for _, g := range byLabel {
		groups = append(groups, g)
	}
	parts, colors := partition(groups)

	return &engine.RawResult{
		Mode:     overlay.ModeRainbow,
		ColorMap: colors,
		Data:     &result.Communities[int32]{Communities: parts},
	}, nil
}

// localClustering is the undirected transitivity of each vertex; vertices
// of degree below two score zero. The global coefficient averages the
// non-zero scores.
func (e *Engine) localClustering(engine.Call) (*engine.RawResult, error) {
	data := &result.Clustering[int32]{}
	values := make(map[int32]float64, e.g.n)
	sum, nonZero := 0.0, 0
	for u := 0; u < e.g.n; u++ {
		nbr := e.g.nbr[u]
		k := len(nbr)
		c := 0.0
		if k >= 2 {
			links := 0
			for i := 0; i < k; i++ {
				for j := i + 1; j < k; j++ {
					if e.g.ug.HasEdgeBetween(int64(nbr[i]), int64(nbr[j])) {
						links++
					}
				}
			}
			c = float64(2*links) / float64(k*(k-1))
		}
		c = round(c, 4)
		if c != 0 {
			sum += c
			nonZero++
		}
		values[int32(u)] = c
		data.Coefficients = append(data.Coefficients, result.NodeScore[int32]{Node: int32(u), Score: c})
	}
	if nonZero > 0 {
		data.GlobalCoefficient = round(sum/float64(nonZero), 4)
	}

	colors := colorMap{}
	colors.scaledFloats(values)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

// kCore peels vertices by out-degree (all neighbours when undirected) and
// keeps those whose coreness reaches call.K.
func (e *Engine) kCore(call engine.Call) (*engine.RawResult, error) {
	if call.K < 0 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}
	core := e.coreness()

	data := &result.KCore[int32]{K: call.K}
	keep := make(map[int32]bool)
	for u, c := range core {
		data.MaxCoreness = max(data.MaxCoreness, c)
		if c >= call.K {
			keep[int32(u)] = true
			data.Cores = append(data.Cores, int32(u))
		}
	}

	colors := colorMap{}
	for i := range e.g.src {
		u, v := e.g.src[i], e.g.dst[i]
		if u == v || !keep[u] || !keep[v] {
			continue
		}
		colors.link(u, v, 1)
		colors.node(u, 0.5)
		colors.node(v, 0.5)
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

func (e *Engine) coreness() []int {
	n := e.g.n
	adj := e.g.nbr
	if e.g.directed {
		adj = e.g.out
	}
	// pred[v] lists vertices whose degree drops when v is removed.
	pred := make([][]int32, n)
	for u := 0; u < n; u++ {
		for _, v := range adj[u] {
			pred[v] = append(pred[v], int32(u))
		}
	}

	deg := make([]int, n)
	for u := range deg {
		deg[u] = len(adj[u])
	}
	core := make([]int, n)
	removed := make([]bool, n)
	k := 0
	for done := 0; done < n; done++ {
		best := -1
		for u := 0; u < n; u++ {
			if !removed[u] && (best == -1 || deg[u] < deg[best]) {
				best = u
			}
		}
		k = max(k, deg[best])
		core[best] = k
		removed[best] = true
		for _, p := range pred[best] {
			if !removed[p] {
				deg[p]--
			}
		}
	}
	return core
}

// triangles lists each 3-clique of the undirected view once, vertices in
// ascending order.
func (e *Engine) triangles(engine.Call) (*engine.RawResult, error) {
	data := &result.Triangles[int32]{}
	colors := colorMap{}
	for u := 0; u < e.g.n; u++ {
		for _, v := range e.g.nbr[u] {
			if int(v) <= u {
				continue
			}
			for _, w := range e.g.nbr[v] {
				if w <= v || !e.g.ug.HasEdgeBetween(int64(u), int64(w)) {
					continue
				}
				a := int32(u)
				data.Triangles = append(data.Triangles, result.Triangle[int32]{
					ID: len(data.Triangles) + 1, Node1: a, Node2: v, Node3: w,
				})
				for _, x := range []int32{a, v, w} {
					colors.node(x, 0.5)
				}
				for _, pair := range [][2]int32{{a, v}, {v, w}, {a, w}} {
					o := e.g.oriented(pair[0], pair[1])
					colors.link(o[0], o[1], 1)
				}
			}
		}
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}
