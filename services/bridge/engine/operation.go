// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

// Operation names an engine algorithm.
type Operation string

// Traversal operations.
const (
	OpBFS                 Operation = "bfs"
	OpDFS                 Operation = "dfs"
	OpRandomWalk          Operation = "random_walk"
	OpVerticesAreAdjacent Operation = "vertices_are_adjacent"
	OpStronglyConnected   Operation = "strongly_connected_components"
	OpWeaklyConnected     Operation = "weakly_connected_components"
	OpTopologicalSort     Operation = "topological_sort"
)

// Path operations.
const (
	OpDijkstraAToB        Operation = "dijkstra_a_to_b"
	OpDijkstraAToAll      Operation = "dijkstra_a_to_all"
	OpBellmanFordAToB     Operation = "bellman_ford_a_to_b"
	OpBellmanFordAToAll   Operation = "bellman_ford_a_to_all"
	OpYenKShortestPaths   Operation = "yen_k_shortest_paths"
	OpMinimumSpanningTree Operation = "minimum_spanning_tree"
	OpGraphDiameter       Operation = "graph_diameter"
	OpEulerianPath        Operation = "eulerian_path"
	OpEulerianCircuit     Operation = "eulerian_circuit"
)

// Centrality operations.
const (
	OpBetweenness      Operation = "betweenness_centrality"
	OpCloseness        Operation = "closeness_centrality"
	OpDegree           Operation = "degree_centrality"
	OpEigenvector      Operation = "eigenvector_centrality"
	OpStrength         Operation = "strength_centrality"
	OpHarmonic         Operation = "harmonic_centrality"
	OpPageRank         Operation = "pagerank"
	OpDirectedPageRank Operation = "directed_pagerank"
)

// Community operations.
const (
	OpLouvain          Operation = "louvain"
	OpLeiden           Operation = "leiden"
	OpFastGreedy       Operation = "fast_greedy"
	OpLabelPropagation Operation = "label_propagation"
	OpLocalClustering  Operation = "local_clustering_coefficient"
	OpKCore            Operation = "k_core"
	OpTriangleCount    Operation = "triangle_count"
)

// Similarity operations.
const (
	OpJaccardSimilarity     Operation = "jaccard_similarity"
	OpMissingEdgePrediction Operation = "missing_edge_prediction"
)

// Operations lists every operation in catalogue order.
var Operations = []Operation{
	OpBFS, OpDFS, OpRandomWalk, OpVerticesAreAdjacent,
	OpStronglyConnected, OpWeaklyConnected, OpTopologicalSort,

	OpDijkstraAToB, OpDijkstraAToAll, OpBellmanFordAToB, OpBellmanFordAToAll,
	OpYenKShortestPaths, OpMinimumSpanningTree, OpGraphDiameter,
	OpEulerianPath, OpEulerianCircuit,

	OpBetweenness, OpCloseness, OpDegree, OpEigenvector, OpStrength,
	OpHarmonic, OpPageRank, OpDirectedPageRank,

	OpLouvain, OpLeiden, OpFastGreedy, OpLabelPropagation,
	OpLocalClustering, OpKCore, OpTriangleCount,

	OpJaccardSimilarity, OpMissingEdgePrediction,
}
