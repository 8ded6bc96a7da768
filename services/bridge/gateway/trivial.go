// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// trivial builds the canonical result of an operation whose arguments
// name a node the graph does not contain. The engine is not called.
//
// Only operations that take node arguments can get here; anything else
// returns nil.
func trivial(req *Request) result.Payload {
	switch req.Op {
	case engine.OpBFS:
		return &result.Traversal[string]{
			Source:     req.Source,
			NodesFound: 1,
			Layers:     []result.Layer[string]{{Index: 0, Nodes: []string{req.Source}}},
		}

	case engine.OpDFS:
		return &result.DepthFirst[string]{
			Source:     req.Source,
			NodesFound: 1,
			Subtrees:   []result.Subtree[string]{{Num: 1, Tree: []string{req.Source}}},
		}

	case engine.OpRandomWalk:
		return &result.RandomWalk[string]{
			Source:           req.Source,
			Steps:            req.Steps,
			MaxFrequencyNode: req.Source,
			MaxFrequency:     1,
			Path:             []result.WalkStep[string]{},
		}

	case engine.OpVerticesAreAdjacent:
		return &result.Adjacency[string]{Source: req.Source, Target: req.Target}

	case engine.OpDijkstraAToB, engine.OpBellmanFordAToB:
		return &result.PathToTarget[string]{
			Source: req.Source,
			Target: req.Target,
			Path:   []result.PathStep[string]{},
		}

	case engine.OpDijkstraAToAll, engine.OpBellmanFordAToAll:
		return &result.PathsFromSource[string]{
			Source: req.Source,
			Paths:  []result.TargetPath[string]{},
		}

	case engine.OpYenKShortestPaths:
		return &result.KShortestPaths[string]{
			Source: req.Source,
			Target: req.Target,
			K:      req.K,
			Paths:  []result.RankedPath[string]{},
		}

	case engine.OpJaccardSimilarity:
		return trivialSimilarity(req.Nodes)
	}
	return nil
}

func trivialSimilarity(nodes []string) *result.Similarity[string] {
	ids := append([]string(nil), nodes...)
	matrix := make([][]float64, len(ids))
	for i := range matrix {
		matrix[i] = make([]float64, len(ids))
		matrix[i][i] = 1
	}
	out := &result.Similarity[string]{Nodes: ids, Matrix: matrix}
	if len(ids) >= 2 {
		out.MaxSimilarity = &result.SimilarPair[string]{Node1: ids[0], Node2: ids[1]}
	}
	return out
}

// trivialOverlay colours every referenced id at full intensity.
func trivialOverlay(ids []string) overlay.Overlay {
	o := overlay.New()
	o.Highlight(ids...)
	return o
}
