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
	"errors"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// =============================================================================
// Searches
// =============================================================================

func (e *Engine) bfs(call engine.Call) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}

	var layers [][]int32
	var bf traverse.BreadthFirst
	bf.Walk(e.g.dg, simple.Node(call.Source), func(n graph.Node, d int) bool {
		for len(layers) <= d {
			layers = append(layers, nil)
		}
		layers[d] = append(layers[d], int32(n.ID()))
		return false
	})

	data := &result.Traversal[int32]{Source: call.Source}
	counts := make(map[int32]int)
	remaining := e.g.n
	for i, layer := range layers {
		slices.Sort(layer)
		for _, u := range layer {
			counts[u] = remaining
		}
		remaining -= len(layer)
		data.NodesFound += len(layer)
		data.Layers = append(data.Layers, result.Layer[int32]{Index: i, Nodes: layer})
	}

	colors := colorMap{}
	colors.scaledInts(counts)
	return &engine.RawResult{Mode: overlay.ModeColorShadeError, ColorMap: colors, Data: data}, nil
}

// dfs groups the discovery order into segments, each closed by the next
// vertex to finish.
func (e *Engine) dfs(call engine.Call) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}

	pre, post := e.depthFirstOrders(call.Source)

	data := &result.DepthFirst[int32]{Source: call.Source}
	visited := make(map[int32]bool, len(pre))
	index := make(map[int32]int, len(pre))
	next := 0
	for _, closing := range post {
		if visited[closing] {
			continue
		}
		var tree []int32
		for next < len(pre) {
			u := pre[next]
			next++
			if visited[u] {
				continue
			}
			visited[u] = true
			index[u] = len(data.Subtrees)
			tree = append(tree, u)
			if u == closing {
				break
			}
		}
		if len(tree) > 0 {
			data.Subtrees = append(data.Subtrees, result.Subtree[int32]{Num: len(data.Subtrees) + 1, Tree: tree})
		}
	}
	data.NodesFound = len(visited)

	counts := make(map[int32]int, len(index))
	for u, i := range index {
		counts[u] = len(data.Subtrees) - i + 1
	}
	colors := colorMap{}
	colors.scaledInts(counts)
	return &engine.RawResult{Mode: overlay.ModeColorShadeError, ColorMap: colors, Data: data}, nil
}

// depthFirstOrders returns the discovery and finish orders of a search
// from src, visiting successors in ascending id order.
func (e *Engine) depthFirstOrders(src int32) (pre, post []int32) {
	type frame struct {
		u    int32
		next int
	}
	seen := map[int32]bool{src: true}
	pre = append(pre, src)
	stack := []frame{{u: src}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := e.g.out[top.u]
		if top.next == len(succ) {
			post = append(post, top.u)
			stack = stack[:len(stack)-1]
			continue
		}
		v := succ[top.next]
		top.next++
		if seen[v] {
			continue
		}
		seen[v] = true
		pre = append(pre, v)
		stack = append(stack, frame{u: v})
	}
	return pre, post
}

func (e *Engine) randomWalk(call engine.Call) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}
	if call.Steps < 0 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}

	seed := call.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))

	data := &result.RandomWalk[int32]{
		Source:           call.Source,
		Steps:            call.Steps,
		Weighted:         e.g.weighted,
		MaxFrequencyNode: call.Source,
		MaxFrequency:     1,
	}
	colors := colorMap{}
	counts := map[int32]int{call.Source: 1}

	u := call.Source
	for step := 1; step <= call.Steps; step++ {
		edges := e.g.incident(u)
		if len(edges) == 0 {
			break
		}
		i := edges[rng.IntN(len(edges))]
		v := e.g.other(i, u)

		ws := result.WalkStep[int32]{Step: step, From: u, To: v}
		if e.g.weighted {
			ws.Weight = result.Float(e.g.weight(i))
		}
		data.Path = append(data.Path, ws)
		colors.link(u, v, 1)

		counts[v]++
		if counts[v] > data.MaxFrequency {
			data.MaxFrequency = counts[v]
			data.MaxFrequencyNode = v
		}
		u = v
	}

	colors.scaledInts(counts)
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

func (e *Engine) adjacent(call engine.Call) (*engine.RawResult, error) {
	if err := e.vertex(call.Op, call.Source); err != nil {
		return nil, err
	}
	if err := e.vertex(call.Op, call.Target); err != nil {
		return nil, err
	}

	data := &result.Adjacency[int32]{Source: call.Source, Target: call.Target}
	colors := colorMap{}
	colors.node(call.Source, 1)
	colors.node(call.Target, 1)

	for _, i := range e.g.incident(call.Source) {
		if e.g.other(i, call.Source) != call.Target {
			continue
		}
		data.Adjacent = true
		if e.g.weighted {
			data.Weight = result.Float(e.g.weight(i))
		}
		colors.link(call.Source, call.Target, 1)
		break
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

// =============================================================================
// Structure
// =============================================================================

func (e *Engine) strongComponents(engine.Call) (*engine.RawResult, error) {
	return e.components(true, topo.TarjanSCC(e.g.dg)), nil
}

func (e *Engine) weakComponents(engine.Call) (*engine.RawResult, error) {
	return e.components(false, topo.ConnectedComponents(e.g.ug)), nil
}

// components orders each component by id and the components by their
// smallest member, then colours every vertex by component index.
func (e *Engine) components(strong bool, found [][]graph.Node) *engine.RawResult {
	parts := make([][]int32, 0, len(found))
	for _, c := range found {
		ids := nodes(c)
		slices.Sort(ids)
		parts = append(parts, ids)
	}
	slices.SortFunc(parts, func(a, b []int32) int { return int(a[0]) - int(b[0]) })

	colors := colorMap{}
	for i, part := range parts {
		for _, u := range part {
			colors.node(u, float64(i))
		}
	}
	return &engine.RawResult{
		Mode:     overlay.ModeRainbow,
		ColorMap: colors,
		Data:     &result.Components[int32]{Strong: strong, Components: parts},
	}
}

func (e *Engine) topologicalSort(call engine.Call) (*engine.RawResult, error) {
	sorted, err := topo.SortStabilized(e.g.dg, func(ns []graph.Node) {
		slices.SortFunc(ns, func(a, b graph.Node) int { return int(a.ID() - b.ID()) })
	})
	if err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) {
			return nil, e.fail(call.Op, CodeNotDAG)
		}
		return nil, err
	}
	if e.hasSelfLoop() {
		return nil, e.fail(call.Op, CodeNotDAG)
	}

	order := nodes(sorted)
	counts := make(map[int32]int, len(order))
	for i, u := range order {
		counts[u] = len(order) - i
	}
	colors := colorMap{}
	colors.scaledInts(counts)
	return &engine.RawResult{
		Mode:     overlay.ModeColorShadeDefault,
		ColorMap: colors,
		Data:     &result.Ordering[int32]{Order: order},
	}, nil
}

func (e *Engine) hasSelfLoop() bool {
	for i := range e.g.src {
		if e.g.src[i] == e.g.dst[i] {
			return true
		}
	}
	return false
}
