// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

func newTestResolver(t *testing.T, ids ...string) (*Resolver, *bytes.Buffer) {
	t.Helper()
	m, err := graph.NewMapping(ids)
	require.NoError(t, err)
	var buf bytes.Buffer
	return NewResolver(m, slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestPayload_BreadthFirstLayers(t *testing.T) {
	r, _ := newTestResolver(t, "A", "B", "C")

	raw := &result.Traversal[int32]{
		Source:     0,
		NodesFound: 3,
		Layers: []result.Layer[int32]{
			{Index: 0, Nodes: []int32{0}},
			{Index: 1, Nodes: []int32{1}},
			{Index: 2, Nodes: []int32{2}},
		},
	}

	got, err := Payload(raw, r)
	require.NoError(t, err)

	want := &result.Traversal[string]{
		Source:     "A",
		NodesFound: 3,
		Layers: []result.Layer[string]{
			{Index: 0, Nodes: []string{"A"}},
			{Index: 1, Nodes: []string{"B"}},
			{Index: 2, Nodes: []string{"C"}},
		},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, []string{"A", "B", "C"}, r.Referenced())
	assert.Empty(t, r.Unmapped())
}

func TestPayload_NonIDFieldsCopied(t *testing.T) {
	r, _ := newTestResolver(t, "x", "y")

	raw := &result.PathToTarget[int32]{
		Source:      0,
		Target:      1,
		Weighted:    true,
		Found:       true,
		Path:        []result.PathStep[int32]{{From: 0, To: 1, Weight: result.Float(2.5)}},
		TotalWeight: result.Float(2.5),
	}

	got, err := Payload(raw, r)
	require.NoError(t, err)

	p, ok := got.(*result.PathToTarget[string])
	require.True(t, ok)
	assert.True(t, p.Weighted)
	assert.True(t, p.Found)
	require.Len(t, p.Path, 1)
	assert.Equal(t, "x", p.Path[0].From)
	assert.Equal(t, "y", p.Path[0].To)
	require.NotNil(t, p.Path[0].Weight)
	assert.Equal(t, 2.5, *p.Path[0].Weight)
	assert.Equal(t, 2.5, *p.TotalWeight)
}

func TestPayload_AllVariants(t *testing.T) {
	tests := []struct {
		name  string
		in    result.Payload
		check func(t *testing.T, out result.Payload)
	}{
		{"depth first", &result.DepthFirst[int32]{Source: 1, Subtrees: []result.Subtree[int32]{{Num: 1, Tree: []int32{1, 0}}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, []string{"b", "a"}, out.(*result.DepthFirst[string]).Subtrees[0].Tree)
			}},
		{"random walk", &result.RandomWalk[int32]{Source: 0, Steps: 1, MaxFrequencyNode: 2, MaxFrequency: 1, Path: []result.WalkStep[int32]{{Step: 1, From: 0, To: 2}}},
			func(t *testing.T, out result.Payload) {
				w := out.(*result.RandomWalk[string])
				assert.Equal(t, "c", w.MaxFrequencyNode)
				assert.Equal(t, "c", w.Path[0].To)
			}},
		{"adjacency", &result.Adjacency[int32]{Source: 0, Target: 1, Adjacent: true},
			func(t *testing.T, out result.Payload) {
				a := out.(*result.Adjacency[string])
				assert.Equal(t, "a", a.Source)
				assert.True(t, a.Adjacent)
			}},
		{"components", &result.Components[int32]{Strong: true, Components: [][]int32{{0, 1}, {2}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, out.(*result.Components[string]).Components)
			}},
		{"ordering", &result.Ordering[int32]{Order: []int32{2, 1, 0}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, []string{"c", "b", "a"}, out.(*result.Ordering[string]).Order)
			}},
		{"paths from source", &result.PathsFromSource[int32]{Source: 0, Paths: []result.TargetPath[int32]{{Target: 2, Path: []int32{0, 1, 2}}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, []string{"a", "b", "c"}, out.(*result.PathsFromSource[string]).Paths[0].Path)
			}},
		{"k shortest", &result.KShortestPaths[int32]{Source: 0, Target: 2, K: 2, Paths: []result.RankedPath[int32]{{Num: 1, Path: []int32{0, 2}}}},
			func(t *testing.T, out result.Payload) {
				k := out.(*result.KShortestPaths[string])
				assert.Equal(t, 2, k.K)
				assert.Equal(t, []string{"a", "c"}, k.Paths[0].Path)
			}},
		{"spanning tree", &result.SpanningTree[int32]{MaxEdges: 2, Edges: []result.TreeEdge[int32]{{Num: 1, From: 0, To: 1}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, "b", out.(*result.SpanningTree[string]).Edges[0].To)
			}},
		{"diameter", &result.Diameter[int32]{Source: 0, Target: 2, Diameter: 2, Path: []result.PathStep[int32]{{From: 0, To: 1}, {From: 1, To: 2}}},
			func(t *testing.T, out result.Payload) {
				d := out.(*result.Diameter[string])
				assert.Equal(t, "c", d.Target)
				assert.Equal(t, 2.0, d.Diameter)
			}},
		{"eulerian", &result.EulerianWalk[int32]{Start: 0, End: 0, Circuit: true, Path: []result.PathStep[int32]{{From: 0, To: 1}, {From: 1, To: 0}}},
			func(t *testing.T, out result.Payload) {
				w := out.(*result.EulerianWalk[string])
				assert.Equal(t, "a", w.Start)
				assert.Equal(t, []result.PathStep[string]{{From: "a", To: "b"}, {From: "b", To: "a"}}, w.Path)
			}},
		{"centrality", &result.Centrality[int32]{Measure: "pagerank", Damping: result.Float(0.85), Scores: []result.NodeScore[int32]{{Node: 1, Score: 0.5}}},
			func(t *testing.T, out result.Payload) {
				c := out.(*result.Centrality[string])
				assert.Equal(t, "pagerank", c.Measure)
				assert.Equal(t, 0.85, *c.Damping)
				assert.Equal(t, result.NodeScore[string]{Node: "b", Score: 0.5}, c.Scores[0])
			}},
		{"communities", &result.Communities[int32]{Modularity: result.Float(0.3), Communities: [][]int32{{0}, {1, 2}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, [][]string{{"a"}, {"b", "c"}}, out.(*result.Communities[string]).Communities)
			}},
		{"k core", &result.KCore[int32]{K: 2, MaxCoreness: 2, Cores: []int32{0, 1}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, []string{"a", "b"}, out.(*result.KCore[string]).Cores)
			}},
		{"triangles", &result.Triangles[int32]{Triangles: []result.Triangle[int32]{{ID: 1, Node1: 0, Node2: 1, Node3: 2}}},
			func(t *testing.T, out result.Payload) {
				tri := out.(*result.Triangles[string]).Triangles[0]
				assert.Equal(t, []string{"a", "b", "c"}, []string{tri.Node1, tri.Node2, tri.Node3})
				assert.Equal(t, 1, tri.ID)
			}},
		{"clustering", &result.Clustering[int32]{GlobalCoefficient: 0.5, Coefficients: []result.NodeScore[int32]{{Node: 2, Score: 1}}},
			func(t *testing.T, out result.Payload) {
				assert.Equal(t, "c", out.(*result.Clustering[string]).Coefficients[0].Node)
			}},
		{"similarity", &result.Similarity[int32]{Nodes: []int32{0, 1}, Matrix: [][]float64{{1, 0.5}, {0.5, 1}}, MaxSimilarity: &result.SimilarPair[int32]{Node1: 0, Node2: 1, Similarity: 0.5}},
			func(t *testing.T, out result.Payload) {
				s := out.(*result.Similarity[string])
				assert.Equal(t, []string{"a", "b"}, s.Nodes)
				assert.Equal(t, [][]float64{{1, 0.5}, {0.5, 1}}, s.Matrix)
				assert.Equal(t, &result.SimilarPair[string]{Node1: "a", Node2: "b", Similarity: 0.5}, s.MaxSimilarity)
			}},
		{"link prediction", &result.LinkPrediction[int32]{SampleSize: 10, Bins: 5, Edges: []result.PredictedEdge[int32]{{From: 0, To: 2, Probability: 0.9}}},
			func(t *testing.T, out result.Payload) {
				e := out.(*result.LinkPrediction[string]).Edges[0]
				assert.Equal(t, "a", e.From)
				assert.Equal(t, 0.9, e.Probability)
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(t, "a", "b", "c")
			out, err := Payload(tt.in, r)
			require.NoError(t, err)
			require.NotNil(t, out)
			assert.Equal(t, tt.in.Kind(), out.Kind())
			tt.check(t, out)
		})
	}
}

func TestPayload_AlreadyTranslated(t *testing.T) {
	r, _ := newTestResolver(t)
	in := &result.Adjacency[string]{Source: "Y", Target: "Z"}

	out, err := Payload(in, r)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestPayload_Nil(t *testing.T) {
	r, _ := newTestResolver(t)
	out, err := Payload(nil, r)
	require.NoError(t, err)
	assert.Nil(t, out)
}

type embeddedVariant struct {
	*result.Ordering[int32]
}

func TestPayload_UnknownVariant(t *testing.T) {
	r, _ := newTestResolver(t)
	_, err := Payload(embeddedVariant{&result.Ordering[int32]{}}, r)
	assert.ErrorIs(t, err, ErrUnknownPayload)
}

func TestRekey_SchemaMismatch(t *testing.T) {
	r, _ := newTestResolver(t, "a")

	type src struct {
		Node  int32
		Extra int
	}
	type dst struct {
		Node string
	}

	_, err := Rekey[dst](&src{Node: 0}, r)
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}

func TestResolver_UnmappedFallback(t *testing.T) {
	r, logs := newTestResolver(t, "A", "B")

	assert.Equal(t, "A", r.ID(0))
	assert.Equal(t, "9", r.ID(9))
	assert.Equal(t, "9", r.ID(9))
	assert.Equal(t, "-1", r.ID(-1))

	assert.Equal(t, []int32{-1, 9}, r.Unmapped())
	assert.Equal(t, 1, strings.Count(logs.String(), "engine_id=9"))
	assert.Equal(t, []string{"A", "9", "-1"}, r.Referenced())
}

func TestOverlay_CompositeKeys(t *testing.T) {
	r, _ := newTestResolver(t, "4:a-b", "4:c")

	o := Overlay(
		map[string]float64{"0-1": 1, "1": 0.5},
		map[string]float64{"0": 3},
		r,
	)

	assert.Equal(t, map[overlay.Key]float64{
		overlay.EdgeKey("4:a-b", "4:c"): 1,
		overlay.NodeKey("4:c"):          0.5,
	}, o.Colors)
	assert.Equal(t, map[overlay.Key]float64{overlay.NodeKey("4:a-b"): 3}, o.Sizes)
}

func TestOverlay_NilMaps(t *testing.T) {
	r, _ := newTestResolver(t)
	o := Overlay(nil, nil, r)
	assert.NotNil(t, o.Colors)
	assert.Empty(t, o.Colors)
	assert.Nil(t, o.Sizes)
}

func TestOverlay_MalformedKeysKept(t *testing.T) {
	r, logs := newTestResolver(t, "A")

	o := Overlay(map[string]float64{"x-y": 1, "0-": 2, "+0": 3}, nil, r)

	assert.Equal(t, 1.0, o.Colors[overlay.NodeKey("x-y")])
	assert.Equal(t, 2.0, o.Colors[overlay.NodeKey("0-")])
	assert.Equal(t, 3.0, o.Colors[overlay.NodeKey("+0")])
	assert.Equal(t, 3, strings.Count(logs.String(), "malformed overlay key"))
}

func TestRawKey(t *testing.T) {
	r, _ := newTestResolver(t, "A", "B")

	k, ok := RawKey("0-1", r)
	assert.True(t, ok)
	assert.Equal(t, overlay.EdgeKey("A", "B"), k)

	k, ok = RawKey(overlay.RawEdgeKey(1, 0), r)
	assert.True(t, ok)
	assert.Equal(t, overlay.EdgeKey("B", "A"), k)

	k, ok = RawKey(overlay.RawNodeKey(1), r)
	assert.True(t, ok)
	assert.Equal(t, overlay.NodeKey("B"), k)
}

func TestLabels(t *testing.T) {
	nodes := map[string]*graph.Node{
		"0:0": {ID: "0:0", PrimaryKeyValue: "alice", TableName: "Person"},
	}

	got := Labels([]string{"0:0", "0:9"}, nodes)
	assert.Equal(t, map[string]string{"0:0": "alice (Person)", "0:9": "0:9"}, got)
}
