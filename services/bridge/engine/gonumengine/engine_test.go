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
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	bridgegraph "github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// edges builds an EngineGraph from (u, v) pairs.
func edges(n uint32, directed bool, pairs ...[2]int32) *bridgegraph.EngineGraph {
	g := &bridgegraph.EngineGraph{VertexCount: n, Directed: directed}
	for _, p := range pairs {
		g.Src = append(g.Src, p[0])
		g.Dst = append(g.Dst, p[1])
	}
	return g
}

func weighted(g *bridgegraph.EngineGraph, w ...float64) *bridgegraph.EngineGraph {
	g.Weight = w
	return g
}

func loaded(t *testing.T, g *bridgegraph.EngineGraph) *Engine {
	t.Helper()
	e := New(Options{})
	require.NoError(t, e.Load(context.Background(), g))
	return e
}

func run(t *testing.T, e *Engine, call engine.Call) *engine.RawResult {
	t.Helper()
	res, err := e.Run(context.Background(), call)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func failCode(t *testing.T, err error) int {
	t.Helper()
	var native *engine.NativeError
	require.ErrorAs(t, err, &native)
	return native.Code
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestEngine_RunWithoutGraph(t *testing.T) {
	e := New(Options{})
	_, err := e.Run(context.Background(), engine.Call{Op: engine.OpBFS})
	assert.Equal(t, CodeNoGraph, failCode(t, err))

	e = loaded(t, edges(1, false))
	require.NoError(t, e.Unload(context.Background()))
	_, err = e.Run(context.Background(), engine.Call{Op: engine.OpBFS})
	assert.Equal(t, CodeNoGraph, failCode(t, err))
}

func TestEngine_LoadRejectsInconsistentGraph(t *testing.T) {
	e := New(Options{})
	err := e.Load(context.Background(), edges(2, true, [2]int32{0, 5}))
	assert.ErrorIs(t, err, bridgegraph.ErrInconsistentGraph)

	err = e.Load(context.Background(), weighted(edges(2, true, [2]int32{0, 1}), 1, 2))
	assert.ErrorIs(t, err, bridgegraph.ErrInconsistentGraph)
}

func TestEngine_Unsupported(t *testing.T) {
	e := loaded(t, edges(2, false, [2]int32{0, 1}))
	_, err := e.Run(context.Background(), engine.Call{Op: engine.Operation("spectral_clustering")})
	assert.Equal(t, CodeUnsupported, failCode(t, err))
	assert.False(t, Supports(engine.Operation("spectral_clustering")))

	for _, op := range engine.Operations {
		assert.True(t, Supports(op), op)
	}
}

func TestEngine_Describe(t *testing.T) {
	e := New(Options{})
	assert.Contains(t, e.Describe(CodeNotDAG), "Directed Acyclic Graph")
	assert.Equal(t, "Unknown engine failure (code 99)", e.Describe(99))
}

func TestEngine_InvalidVertex(t *testing.T) {
	e := loaded(t, edges(2, true, [2]int32{0, 1}))
	_, err := e.Run(context.Background(), engine.Call{Op: engine.OpBFS, Source: 2})
	assert.Equal(t, CodeInvalidVertex, failCode(t, err))
}

func TestEngine_ThroughSlot(t *testing.T) {
	slot := engine.NewSlot(New(Options{}), engine.SlotOptions{})
	res, err := slot.Invoke(context.Background(), edges(3, true, [2]int32{0, 1}, [2]int32{1, 2}),
		engine.Call{Op: engine.OpBFS, Source: 0})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Data.(*result.Traversal[int32]).NodesFound)
}

// =============================================================================
// Traversal
// =============================================================================

func TestBFS_Chain(t *testing.T) {
	e := loaded(t, edges(3, true, [2]int32{0, 1}, [2]int32{1, 2}))
	res := run(t, e, engine.Call{Op: engine.OpBFS, Source: 0})

	assert.Equal(t, overlay.ModeColorShadeError, res.Mode)
	assert.Equal(t, &result.Traversal[int32]{
		Source:     0,
		NodesFound: 3,
		Layers: []result.Layer[int32]{
			{Index: 0, Nodes: []int32{0}},
			{Index: 1, Nodes: []int32{1}},
			{Index: 2, Nodes: []int32{2}},
		},
	}, res.Data)
	assert.Equal(t, 1.0, res.ColorMap["0"])
	assert.InDelta(t, 2.0/3, res.ColorMap["1"], 1e-9)
	assert.InDelta(t, 1.0/3, res.ColorMap["2"], 1e-9)
}

func TestBFS_FollowsDirection(t *testing.T) {
	e := loaded(t, edges(3, true, [2]int32{1, 0}, [2]int32{1, 2}))
	res := run(t, e, engine.Call{Op: engine.OpBFS, Source: 0})
	assert.Equal(t, 1, res.Data.(*result.Traversal[int32]).NodesFound)
}

func TestDFS_Segments(t *testing.T) {
	e := loaded(t, edges(4, true, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{1, 3}))
	res := run(t, e, engine.Call{Op: engine.OpDFS, Source: 0})

	data := res.Data.(*result.DepthFirst[int32])
	assert.Equal(t, 4, data.NodesFound)
	assert.Equal(t, []result.Subtree[int32]{
		{Num: 1, Tree: []int32{0, 1, 3}},
		{Num: 2, Tree: []int32{2}},
	}, data.Subtrees)
	assert.Equal(t, 1.0, res.ColorMap["0"])
	assert.InDelta(t, 2.0/3, res.ColorMap["2"], 1e-9)
}

func TestRandomWalk(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		e := loaded(t, edges(3, true, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0}))
		res := run(t, e, engine.Call{Op: engine.OpRandomWalk, Source: 0, Steps: 3, Seed: 7})

		walk := res.Data.(*result.RandomWalk[int32])
		require.Len(t, walk.Path, 3)
		assert.Equal(t, result.WalkStep[int32]{Step: 3, From: 2, To: 0}, walk.Path[2])
		assert.Equal(t, int32(0), walk.MaxFrequencyNode)
		assert.Equal(t, 2, walk.MaxFrequency)
		assert.Equal(t, 1.0, res.ColorMap["2-0"])
	})

	t.Run("stuck", func(t *testing.T) {
		e := loaded(t, edges(2, true, [2]int32{0, 1}))
		res := run(t, e, engine.Call{Op: engine.OpRandomWalk, Source: 0, Steps: 5, Seed: 1})
		assert.Len(t, res.Data.(*result.RandomWalk[int32]).Path, 1)
	})
}

func TestAdjacency(t *testing.T) {
	e := loaded(t, weighted(edges(3, true, [2]int32{0, 1}), 4))

	res := run(t, e, engine.Call{Op: engine.OpVerticesAreAdjacent, Source: 0, Target: 1})
	adj := res.Data.(*result.Adjacency[int32])
	assert.True(t, adj.Adjacent)
	assert.Equal(t, 4.0, *adj.Weight)
	assert.Equal(t, 1.0, res.ColorMap["0-1"])

	res = run(t, e, engine.Call{Op: engine.OpVerticesAreAdjacent, Source: 1, Target: 0})
	assert.False(t, res.Data.(*result.Adjacency[int32]).Adjacent)
	assert.NotContains(t, res.ColorMap, "1-0")
}

func TestComponents(t *testing.T) {
	e := loaded(t, edges(5, false, [2]int32{1, 0}, [2]int32{2, 3}))
	res := run(t, e, engine.Call{Op: engine.OpWeaklyConnected})

	assert.Equal(t, overlay.ModeRainbow, res.Mode)
	assert.Equal(t, [][]int32{{0, 1}, {2, 3}, {4}}, res.Data.(*result.Components[int32]).Components)
	assert.Equal(t, 2.0, res.ColorMap["4"])

	e = loaded(t, edges(3, true, [2]int32{0, 1}, [2]int32{1, 0}, [2]int32{1, 2}))
	res = run(t, e, engine.Call{Op: engine.OpStronglyConnected})
	comps := res.Data.(*result.Components[int32])
	assert.True(t, comps.Strong)
	assert.Equal(t, [][]int32{{0, 1}, {2}}, comps.Components)
}

func TestTopologicalSort(t *testing.T) {
	dag := edges(4, true, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{1, 3}, [2]int32{2, 3})
	res := run(t, loaded(t, dag), engine.Call{Op: engine.OpTopologicalSort})

	order := res.Data.(*result.Ordering[int32]).Order
	require.Len(t, order, 4)
	for i := range dag.Src {
		assert.Less(t, slices.Index(order, dag.Src[i]), slices.Index(order, dag.Dst[i]))
	}
	assert.Equal(t, 1.0, res.ColorMap["0"])

	cyclic := loaded(t, edges(2, true, [2]int32{0, 1}, [2]int32{1, 0}))
	_, err := cyclic.Run(context.Background(), engine.Call{Op: engine.OpTopologicalSort})
	assert.Equal(t, CodeNotDAG, failCode(t, err))
}

// =============================================================================
// Paths
// =============================================================================

func TestShortestPath_AToB(t *testing.T) {
	g := weighted(edges(3, true, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{0, 2}), 1, 1, 5)

	for _, op := range []engine.Operation{engine.OpDijkstraAToB, engine.OpBellmanFordAToB} {
		t.Run(string(op), func(t *testing.T) {
			res := run(t, loaded(t, g), engine.Call{Op: op, Source: 0, Target: 2})

			p := res.Data.(*result.PathToTarget[int32])
			assert.True(t, p.Found)
			assert.True(t, p.Weighted)
			require.Len(t, p.Path, 2)
			assert.Equal(t, int32(1), p.Path[0].To)
			assert.Equal(t, 2.0, *p.TotalWeight)
			assert.Equal(t, map[string]float64{"0": 1, "1": 0.5, "2": 1, "0-1": 1, "1-2": 1}, res.ColorMap)
			assert.Equal(t, overlay.ModeColorShadeDefault, res.Mode)
		})
	}
}

func TestShortestPath_Unreachable(t *testing.T) {
	res := run(t, loaded(t, edges(3, true, [2]int32{0, 1})), engine.Call{Op: engine.OpDijkstraAToB, Source: 0, Target: 2})
	p := res.Data.(*result.PathToTarget[int32])
	assert.False(t, p.Found)
	assert.Empty(t, p.Path)
	assert.Nil(t, p.TotalWeight)
}

func TestShortestPath_AToAll(t *testing.T) {
	e := loaded(t, edges(4, true, [2]int32{0, 1}, [2]int32{1, 2}))
	res := run(t, e, engine.Call{Op: engine.OpDijkstraAToAll, Source: 0})

	data := res.Data.(*result.PathsFromSource[int32])
	assert.Equal(t, []result.TargetPath[int32]{
		{Target: 1, Path: []int32{0, 1}},
		{Target: 2, Path: []int32{0, 1, 2}},
	}, data.Paths)
	assert.Equal(t, overlay.ModeColorShadeError, res.Mode)
	assert.Equal(t, 1.0, res.ColorMap["0"])
	assert.Equal(t, 1.0, res.ColorMap["1"])
	assert.Equal(t, 0.5, res.ColorMap["2"])
}

func TestShortestPath_NegativeWeights(t *testing.T) {
	g := weighted(edges(2, true, [2]int32{0, 1}, [2]int32{1, 0}), 1, -3)
	e := loaded(t, g)

	_, err := e.Run(context.Background(), engine.Call{Op: engine.OpDijkstraAToB, Source: 0, Target: 1})
	assert.Equal(t, CodeNegativeWeight, failCode(t, err))

	_, err = e.Run(context.Background(), engine.Call{Op: engine.OpBellmanFordAToAll, Source: 0})
	assert.Equal(t, CodeNegativeCycle, failCode(t, err))
}

func TestYen(t *testing.T) {
	g := edges(4, false, [2]int32{0, 1}, [2]int32{1, 3}, [2]int32{0, 2}, [2]int32{2, 3})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpYenKShortestPaths, Source: 0, Target: 3, K: 3})

	data := res.Data.(*result.KShortestPaths[int32])
	require.Len(t, data.Paths, 2)
	for i, p := range data.Paths {
		assert.Equal(t, i+1, p.Num)
		assert.Equal(t, int32(0), p.Path[0])
		assert.Equal(t, int32(3), p.Path[len(p.Path)-1])
	}

	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpYenKShortestPaths, Source: 0, Target: 3})
	assert.Equal(t, CodeInvalidArgument, failCode(t, err))
}

func TestMinimumSpanningTree(t *testing.T) {
	g := weighted(edges(4, false,
		[2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 3}, [2]int32{3, 0}, [2]int32{0, 2},
	), 1, 2, 1, 3, 5)
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpMinimumSpanningTree})

	tree := res.Data.(*result.SpanningTree[int32])
	assert.Equal(t, 5, tree.MaxEdges)
	assert.Equal(t, 4.0, *tree.TotalWeight)
	require.Len(t, tree.Edges, 3)
	assert.Equal(t, result.TreeEdge[int32]{Num: 1, From: 0, To: 1, Weight: result.Float(1)}, tree.Edges[0])
	assert.Equal(t, result.TreeEdge[int32]{Num: 2, From: 1, To: 2, Weight: result.Float(2)}, tree.Edges[1])
	assert.Equal(t, result.TreeEdge[int32]{Num: 3, From: 2, To: 3, Weight: result.Float(1)}, tree.Edges[2])
	assert.Equal(t, overlay.ModeColorShadeError, res.Mode)
	assert.NotContains(t, res.ColorMap, "0-2")
}

func TestDiameter(t *testing.T) {
	g := edges(4, false, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 3})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpGraphDiameter})

	d := res.Data.(*result.Diameter[int32])
	assert.Equal(t, 3.0, d.Diameter)
	assert.Equal(t, int32(0), d.Source)
	assert.Equal(t, int32(3), d.Target)
	assert.Len(t, d.Path, 3)
	assert.Equal(t, 1.0, res.ColorMap["3"])
}

func TestEulerian(t *testing.T) {
	triangle := edges(3, false, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0})
	res := run(t, loaded(t, triangle), engine.Call{Op: engine.OpEulerianCircuit})
	walk := res.Data.(*result.EulerianWalk[int32])
	assert.True(t, walk.Circuit)
	assert.Equal(t, []result.PathStep[int32]{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}}, walk.Path)

	line := edges(3, false, [2]int32{0, 1}, [2]int32{1, 2})
	res = run(t, loaded(t, line), engine.Call{Op: engine.OpEulerianPath})
	walk = res.Data.(*result.EulerianWalk[int32])
	assert.False(t, walk.Circuit)
	assert.Equal(t, int32(0), walk.Start)
	assert.Equal(t, int32(2), walk.End)
	assert.Len(t, walk.Path, 2)

	_, err := loaded(t, line).Run(context.Background(), engine.Call{Op: engine.OpEulerianCircuit})
	assert.Equal(t, CodeNoEulerianCircuit, failCode(t, err))

	star := edges(4, false, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{0, 3})
	_, err = loaded(t, star).Run(context.Background(), engine.Call{Op: engine.OpEulerianPath})
	assert.Equal(t, CodeNotEulerian, failCode(t, err))
}

// =============================================================================
// Centrality
// =============================================================================

func scores(t *testing.T, res *engine.RawResult) []float64 {
	t.Helper()
	c := res.Data.(*result.Centrality[int32])
	out := make([]float64, len(c.Scores))
	for i, s := range c.Scores {
		require.Equal(t, int32(i), s.Node)
		out[i] = s.Score
	}
	return out
}

func TestDegree(t *testing.T) {
	g := edges(4, false, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{0, 3}, [2]int32{1, 1})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpDegree})

	assert.Equal(t, []float64{3, 1, 1, 1}, scores(t, res))
	assert.Equal(t, overlay.ModeSizeScalar, res.Mode)
	assert.Equal(t, 30.0, res.SizeMap["0"])
	assert.InDelta(t, 5+25.0/3, res.SizeMap["1"], 1e-9)
}

func TestStrength(t *testing.T) {
	g := weighted(edges(3, true, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{1, 2}), 2, 3, 4)
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpStrength})
	assert.Equal(t, []float64{5, 4, 0}, scores(t, res))
}

func TestClosenessAndBetweenness(t *testing.T) {
	path3 := edges(3, false, [2]int32{0, 1}, [2]int32{1, 2})

	res := run(t, loaded(t, path3), engine.Call{Op: engine.OpCloseness})
	assert.Equal(t, []float64{0.6667, 1, 0.6667}, scores(t, res))

	res = run(t, loaded(t, path3), engine.Call{Op: engine.OpBetweenness})
	b := scores(t, res)
	assert.Zero(t, b[0])
	assert.Greater(t, b[1], 0.0)
	assert.Equal(t, 30.0, res.SizeMap["1"])
}

func TestHarmonic(t *testing.T) {
	g := edges(3, false, [2]int32{0, 1}, [2]int32{1, 2})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpHarmonic})
	assert.Equal(t, []float64{0.75, 1, 0.75}, scores(t, res))
}

func TestPageRank(t *testing.T) {
	g := edges(3, false, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpPageRank})

	c := res.Data.(*result.Centrality[int32])
	assert.Equal(t, 0.85, *c.Damping)
	for _, s := range c.Scores {
		assert.InDelta(t, 1.0/3, s.Score, 1e-3)
	}

	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpPageRank, Damping: 1.5})
	assert.Equal(t, CodeInvalidArgument, failCode(t, err))
}

func TestPageRank_FollowsEdgeWeights(t *testing.T) {
	// 0 sends three times as much weight to 2 as to 1.
	pairs := [][2]int32{{0, 1}, {0, 2}, {1, 0}, {2, 0}}

	plain := run(t, loaded(t, edges(3, true, pairs...)), engine.Call{Op: engine.OpPageRank})
	s := scores(t, plain)
	assert.InDelta(t, s[1], s[2], 1e-9)

	heavy := run(t, loaded(t, weighted(edges(3, true, pairs...), 1, 3, 1, 1)), engine.Call{Op: engine.OpPageRank})
	s = scores(t, heavy)
	assert.Greater(t, s[2], s[1])

	negative := weighted(edges(3, true, pairs...), 1, -3, 1, 1)
	_, err := loaded(t, negative).Run(context.Background(), engine.Call{Op: engine.OpPageRank})
	assert.Equal(t, CodeNegativeWeight, failCode(t, err))
}

func TestEigenvector(t *testing.T) {
	star := edges(4, false, [2]int32{0, 1}, [2]int32{0, 2}, [2]int32{0, 3})
	res := run(t, loaded(t, star), engine.Call{Op: engine.OpEigenvector})

	c := res.Data.(*result.Centrality[int32])
	assert.Equal(t, 1.0, c.Scores[0].Score)
	assert.InDelta(t, 0.5774, c.Scores[1].Score, 1e-3)
	assert.InDelta(t, 1.73, *c.Eigenvalue, 0.01)
}

// =============================================================================
// Community
// =============================================================================

func TestLouvain(t *testing.T) {
	g := edges(6, false,
		[2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0},
		[2]int32{3, 4}, [2]int32{4, 5}, [2]int32{5, 3},
		[2]int32{2, 3},
	)
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpLouvain})

	data := res.Data.(*result.Communities[int32])
	assert.Equal(t, [][]int32{{0, 1, 2}, {3, 4, 5}}, data.Communities)
	assert.Greater(t, *data.Modularity, 0.3)
	assert.Equal(t, overlay.ModeRainbow, res.Mode)
	assert.Equal(t, 1.0, res.ColorMap["5"])

	g.Directed = true
	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpLouvain})
	assert.Equal(t, CodeDirectedGraph, failCode(t, err))
}

// twoTriangles joins triangles 0-1-2 and 3-4-5 by the edge 2-3.
func twoTriangles() *bridgegraph.EngineGraph {
	return edges(6, false,
		[2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0},
		[2]int32{3, 4}, [2]int32{4, 5}, [2]int32{5, 3},
		[2]int32{2, 3},
	)
}

func TestFastGreedy(t *testing.T) {
	res := run(t, loaded(t, twoTriangles()), engine.Call{Op: engine.OpFastGreedy})

	data := res.Data.(*result.Communities[int32])
	assert.Equal(t, [][]int32{{0, 1, 2}, {3, 4, 5}}, data.Communities)
	require.NotNil(t, data.Modularity)
	assert.Equal(t, 0.36, *data.Modularity)
	assert.Equal(t, overlay.ModeRainbow, res.Mode)
	assert.Equal(t, 1.0, res.ColorMap["4"])

	g := twoTriangles()
	g.Directed = true
	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpFastGreedy})
	assert.Equal(t, CodeDirectedGraph, failCode(t, err))
}

func TestFastGreedy_NoEdges(t *testing.T) {
	res := run(t, loaded(t, edges(3, false)), engine.Call{Op: engine.OpFastGreedy})

	data := res.Data.(*result.Communities[int32])
	assert.Equal(t, [][]int32{{0}, {1}, {2}}, data.Communities)
	assert.Nil(t, data.Modularity)
}

func TestLeiden(t *testing.T) {
	res := run(t, loaded(t, twoTriangles()), engine.Call{Op: engine.OpLeiden, Resolution: 1})

	data := res.Data.(*result.Communities[int32])
	assert.Equal(t, [][]int32{{0, 1, 2}, {3, 4, 5}}, data.Communities)
	require.NotNil(t, data.Modularity)
	require.NotNil(t, data.Quality)
	assert.Equal(t, *data.Modularity, *data.Quality)

	g := twoTriangles()
	g.Directed = true
	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpLeiden})
	assert.Equal(t, CodeDirectedGraph, failCode(t, err))
}

func TestConnectedParts(t *testing.T) {
	e := loaded(t, edges(5, false, [2]int32{0, 1}, [2]int32{3, 4}, [2]int32{1, 2}))

	assert.Equal(t, [][]int32{{0, 1}, {3, 4}}, e.connectedParts([]int32{0, 1, 3, 4}))
	assert.Equal(t, [][]int32{{0, 1, 2}}, e.connectedParts([]int32{0, 1, 2}))
	assert.Equal(t, [][]int32{{0}, {2}}, e.connectedParts([]int32{0, 2}))
}

func TestLabelPropagation(t *testing.T) {
	g := edges(5, false, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{3, 4})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpLabelPropagation})
	assert.Equal(t, [][]int32{{0, 1, 2}, {3, 4}}, res.Data.(*result.Communities[int32]).Communities)
}

// triangleWithTail is a triangle 0-1-2 with 3 hanging off 0.
func triangleWithTail() *bridgegraph.EngineGraph {
	return edges(4, false, [2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 0}, [2]int32{0, 3})
}

func TestLocalClustering(t *testing.T) {
	res := run(t, loaded(t, triangleWithTail()), engine.Call{Op: engine.OpLocalClustering})

	data := res.Data.(*result.Clustering[int32])
	assert.Equal(t, []result.NodeScore[int32]{
		{Node: 0, Score: 0.3333}, {Node: 1, Score: 1}, {Node: 2, Score: 1}, {Node: 3, Score: 0},
	}, data.Coefficients)
	assert.Equal(t, 0.7778, data.GlobalCoefficient)
	assert.Equal(t, 1.0, res.ColorMap["1"])
	assert.Equal(t, 0.0, res.ColorMap["3"])
}

func TestKCore(t *testing.T) {
	res := run(t, loaded(t, triangleWithTail()), engine.Call{Op: engine.OpKCore, K: 2})

	data := res.Data.(*result.KCore[int32])
	assert.Equal(t, []int32{0, 1, 2}, data.Cores)
	assert.Equal(t, 2, data.MaxCoreness)
	assert.Equal(t, 1.0, res.ColorMap["2-0"])
	assert.NotContains(t, res.ColorMap, "0-3")
}

func TestTriangles(t *testing.T) {
	res := run(t, loaded(t, triangleWithTail()), engine.Call{Op: engine.OpTriangleCount})

	assert.Equal(t, []result.Triangle[int32]{{ID: 1, Node1: 0, Node2: 1, Node3: 2}},
		res.Data.(*result.Triangles[int32]).Triangles)
	assert.Equal(t, 1.0, res.ColorMap["2-0"])
	assert.Equal(t, 0.5, res.ColorMap["1"])
}

// =============================================================================
// Similarity
// =============================================================================

func TestJaccard(t *testing.T) {
	g := edges(4, false, [2]int32{0, 2}, [2]int32{1, 2}, [2]int32{0, 3})
	res := run(t, loaded(t, g), engine.Call{Op: engine.OpJaccardSimilarity, Nodes: []int32{0, 1}})

	data := res.Data.(*result.Similarity[int32])
	assert.Equal(t, [][]float64{{1, 0.5}, {0.5, 1}}, data.Matrix)
	assert.Equal(t, &result.SimilarPair[int32]{Node1: 0, Node2: 1, Similarity: 0.5}, data.MaxSimilarity)
	assert.Equal(t, map[string]float64{"0": 1, "1": 1}, res.ColorMap)

	_, err := loaded(t, g).Run(context.Background(), engine.Call{Op: engine.OpJaccardSimilarity})
	assert.Equal(t, CodeInvalidArgument, failCode(t, err))
}

// squareWithTail is the cycle 0-1-2-3 with 4 hanging off 0.
func squareWithTail() *bridgegraph.EngineGraph {
	return edges(5, false,
		[2]int32{0, 1}, [2]int32{1, 2}, [2]int32{2, 3}, [2]int32{3, 0},
		[2]int32{0, 4},
	)
}

func TestMissingEdgePrediction(t *testing.T) {
	res := run(t, loaded(t, squareWithTail()), engine.Call{
		Op: engine.OpMissingEdgePrediction, SampleSize: 500, Bins: 10, Seed: 1,
	})

	data := res.Data.(*result.LinkPrediction[int32])
	assert.Equal(t, 500, data.SampleSize)
	assert.Equal(t, 10, data.Bins)
	assert.Equal(t, []result.PredictedEdge[int32]{
		{From: 1, To: 3, Probability: 1},
		{From: 0, To: 2, Probability: 0.6},
		{From: 1, To: 4, Probability: 0.5},
		{From: 3, To: 4, Probability: 0.5},
	}, data.Edges)
	assert.Equal(t, overlay.ModeColorShadeDefault, res.Mode)
	assert.Equal(t, 0.5, res.ColorMap["4"])
	assert.Equal(t, 0.0, res.ColorMap[overlay.RawEdgeKey(1, 3)])
}

func TestMissingEdgePrediction_SampleLimit(t *testing.T) {
	call := engine.Call{Op: engine.OpMissingEdgePrediction, SampleSize: 1, Bins: 10, Seed: 9}
	first := run(t, loaded(t, squareWithTail()), call)
	second := run(t, loaded(t, squareWithTail()), call)

	got := first.Data.(*result.LinkPrediction[int32]).Edges
	assert.LessOrEqual(t, len(got), 1)
	assert.Equal(t, got, second.Data.(*result.LinkPrediction[int32]).Edges, "same seed, same sample")
}

func TestMissingEdgePrediction_InvalidArguments(t *testing.T) {
	e := loaded(t, squareWithTail())
	for _, call := range []engine.Call{
		{Op: engine.OpMissingEdgePrediction, Bins: 10},
		{Op: engine.OpMissingEdgePrediction, SampleSize: 10},
	} {
		_, err := e.Run(context.Background(), call)
		assert.Equal(t, CodeInvalidArgument, failCode(t, err))
	}
}
