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
	"math/rand/v2"
	"slices"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// jaccard compares out-neighbourhoods (neighbourhoods when undirected),
// rounded to two places.
func (e *Engine) jaccard(call engine.Call) (*engine.RawResult, error) {
	if len(call.Nodes) == 0 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}
	for _, u := range call.Nodes {
		if err := e.vertex(call.Op, u); err != nil {
			return nil, err
		}
	}

	adj := e.g.nbr
	if e.g.directed {
		adj = e.g.out
	}
	sets := make([]map[int32]bool, len(call.Nodes))
	for i, u := range call.Nodes {
		sets[i] = make(map[int32]bool, len(adj[u]))
		for _, v := range adj[u] {
			sets[i][v] = true
		}
	}

	data := &result.Similarity[int32]{Nodes: call.Nodes, Matrix: make([][]float64, len(call.Nodes))}
	best := -1.0
	for i := range call.Nodes {
		row := make([]float64, len(call.Nodes))
		for j := range call.Nodes {
			if i == j {
				row[j] = 1
				continue
			}
			row[j] = round(jaccardIndex(sets[i], sets[j]), 2)
			if row[j] > best {
				best = row[j]
				data.MaxSimilarity = &result.SimilarPair[int32]{
					Node1: call.Nodes[i], Node2: call.Nodes[j], Similarity: row[j],
				}
			}
		}
		data.Matrix[i] = row
	}

	colors := colorMap{}
	for _, u := range call.Nodes {
		colors.node(u, 1)
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}

func jaccardIndex(a, b map[int32]bool) float64 {
	inter := 0
	for u := range a {
		if b[u] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// predictionThreshold is the lowest probability reported as a missing edge.
const predictionThreshold = 0.5

// missingEdges scores unlinked vertex pairs that share a neighbour by the
// Jaccard overlap of their neighbourhoods, ignoring direction. At most
// call.SampleSize candidate pairs are scored (drawn with call.Seed when
// there are more), scores snap down to one of call.Bins levels, and pairs
// at or above predictionThreshold are returned, most probable first.
func (e *Engine) missingEdges(call engine.Call) (*engine.RawResult, error) {
	if call.SampleSize <= 0 || call.Bins <= 0 {
		return nil, e.fail(call.Op, CodeInvalidArgument)
	}

	sets := make([]map[int32]bool, e.g.n)
	for u, nbr := range e.g.nbr {
		sets[u] = make(map[int32]bool, len(nbr))
		for _, v := range nbr {
			sets[u][v] = true
		}
	}

	var candidates [][2]int32
	for u := int32(0); int(u) < e.g.n; u++ {
		seen := map[int32]bool{}
		for _, w := range e.g.nbr[u] {
			for _, v := range e.g.nbr[w] {
				if v <= u || seen[v] || sets[u][v] {
					continue
				}
				seen[v] = true
				candidates = append(candidates, [2]int32{u, v})
			}
		}
	}
	if len(candidates) > call.SampleSize {
		seed := call.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, seed>>1|1))
		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		candidates = candidates[:call.SampleSize]
	}

	bins := float64(call.Bins)
	data := &result.LinkPrediction[int32]{
		SampleSize: call.SampleSize,
		Bins:       call.Bins,
		Edges:      []result.PredictedEdge[int32]{},
	}
	for _, c := range candidates {
		p := math.Floor(jaccardIndex(sets[c[0]], sets[c[1]])*bins) / bins
		if p < predictionThreshold {
			continue
		}
		data.Edges = append(data.Edges, result.PredictedEdge[int32]{From: c[0], To: c[1], Probability: round(p, 3)})
	}
	slices.SortFunc(data.Edges, func(a, b result.PredictedEdge[int32]) int {
		if c := cmp.Compare(b.Probability, a.Probability); c != 0 {
			return c
		}
		if c := cmp.Compare(a.From, b.From); c != 0 {
			return c
		}
		return cmp.Compare(a.To, b.To)
	})

	colors := colorMap{}
	for _, p := range data.Edges {
		colors.node(p.From, 0.5)
		colors.node(p.To, 0.5)
		colors.link(p.From, p.To, 0)
	}
	return &engine.RawResult{Mode: overlay.ModeColorShadeDefault, ColorMap: colors, Data: data}, nil
}
