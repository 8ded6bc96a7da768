// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package result defines the algorithm payload variants.
//
// Every variant is generic over its identifier type. The engine produces
// variants instantiated at int32 (engine ids); the translator rewrites
// them into the same variant instantiated at string (database ids). The
// type parameter marks exactly which fields are identifiers, so the
// declaration of a variant doubles as its translation schema: every
// field of type T, []T or [][]T, at any nesting depth, is an id and
// everything else is copied verbatim.
//
// Payload is sealed: only pointers to the variants below implement it.
package result

// ID is the identifier type a payload is expressed in.
type ID interface {
	int32 | string
}

// Kind names a payload variant on the wire.
type Kind string

const (
	KindTraversal       Kind = "traversal"
	KindDepthFirst      Kind = "depth_first"
	KindPathToTarget    Kind = "path_to_target"
	KindPathsFromSource Kind = "paths_from_source"
	KindKShortestPaths  Kind = "k_shortest_paths"
	KindSpanningTree    Kind = "spanning_tree"
	KindRandomWalk      Kind = "random_walk"
	KindCentrality      Kind = "centrality"
	KindCommunities     Kind = "communities"
	KindComponents      Kind = "components"
	KindKCore           Kind = "k_core"
	KindTriangles       Kind = "triangles"
	KindClustering      Kind = "clustering"
	KindAdjacency       Kind = "adjacency"
	KindSimilarity      Kind = "similarity"
	KindLinkPrediction  Kind = "link_prediction"
	KindOrdering        Kind = "ordering"
	KindDiameter        Kind = "diameter"
	KindEulerianWalk    Kind = "eulerian_walk"
)

// Payload is the algorithm-specific part of a result.
type Payload interface {
	Kind() Kind
	sealed()
}

// Float returns a pointer to f, for optional numeric fields.
func Float(f float64) *float64 {
	return &f
}

// =============================================================================
// Traversal
// =============================================================================

// Layer is one BFS frontier.
type Layer[T ID] struct {
	Index int `json:"index" yaml:"index"`
	Nodes []T `json:"nodes" yaml:"nodes"`
}

// Traversal is a breadth-first search from Source, grouped by depth.
type Traversal[T ID] struct {
	Source     T          `json:"source" yaml:"source"`
	NodesFound int        `json:"nodes_found" yaml:"nodes_found"`
	Layers     []Layer[T] `json:"layers" yaml:"layers"`
}

// Subtree is one depth-first tree, nodes in discovery order.
type Subtree[T ID] struct {
	Num  int `json:"num" yaml:"num"`
	Tree []T `json:"tree" yaml:"tree"`
}

// DepthFirst is a depth-first search from Source.
type DepthFirst[T ID] struct {
	Source     T            `json:"source" yaml:"source"`
	NodesFound int          `json:"nodes_found" yaml:"nodes_found"`
	Subtrees   []Subtree[T] `json:"subtrees" yaml:"subtrees"`
}

// WalkStep is one move of a random walk.
type WalkStep[T ID] struct {
	Step   int      `json:"step" yaml:"step"`
	From   T        `json:"from" yaml:"from"`
	To     T        `json:"to" yaml:"to"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// RandomWalk is a walk of up to Steps moves from Source.
type RandomWalk[T ID] struct {
	Source           T             `json:"source" yaml:"source"`
	Steps            int           `json:"steps" yaml:"steps"`
	Weighted         bool          `json:"weighted" yaml:"weighted"`
	MaxFrequencyNode T             `json:"max_frequency_node" yaml:"max_frequency_node"`
	MaxFrequency     int           `json:"max_frequency" yaml:"max_frequency"`
	Path             []WalkStep[T] `json:"path" yaml:"path"`
}

// Adjacency reports whether an edge joins Source to Target.
type Adjacency[T ID] struct {
	Source   T        `json:"source" yaml:"source"`
	Target   T        `json:"target" yaml:"target"`
	Adjacent bool     `json:"adjacent" yaml:"adjacent"`
	Weight   *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Components is a partition into strongly or weakly connected components.
type Components[T ID] struct {
	Strong     bool  `json:"strong" yaml:"strong"`
	Components [][]T `json:"components" yaml:"components"`
}

// Ordering is a topological order.
type Ordering[T ID] struct {
	Order []T `json:"order" yaml:"order"`
}

// =============================================================================
// Paths
// =============================================================================

// PathStep is one edge of a path.
type PathStep[T ID] struct {
	From   T        `json:"from" yaml:"from"`
	To     T        `json:"to" yaml:"to"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// PathToTarget is a single shortest path. Path is empty when Target is
// unreachable.
type PathToTarget[T ID] struct {
	Source      T             `json:"source" yaml:"source"`
	Target      T             `json:"target" yaml:"target"`
	Weighted    bool          `json:"weighted" yaml:"weighted"`
	Found       bool          `json:"found" yaml:"found"`
	Path        []PathStep[T] `json:"path" yaml:"path"`
	TotalWeight *float64      `json:"total_weight,omitempty" yaml:"total_weight,omitempty"`
}

// TargetPath is the shortest path to one target.
type TargetPath[T ID] struct {
	Target T        `json:"target" yaml:"target"`
	Path   []T      `json:"path" yaml:"path"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// PathsFromSource holds shortest paths to every reachable node.
type PathsFromSource[T ID] struct {
	Source   T               `json:"source" yaml:"source"`
	Weighted bool            `json:"weighted" yaml:"weighted"`
	Paths    []TargetPath[T] `json:"paths" yaml:"paths"`
}

// RankedPath is the Num-th shortest path.
type RankedPath[T ID] struct {
	Num    int      `json:"num" yaml:"num"`
	Path   []T      `json:"path" yaml:"path"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// KShortestPaths holds up to K loopless paths, shortest first.
type KShortestPaths[T ID] struct {
	Source   T               `json:"source" yaml:"source"`
	Target   T               `json:"target" yaml:"target"`
	K        int             `json:"k" yaml:"k"`
	Weighted bool            `json:"weighted" yaml:"weighted"`
	Paths    []RankedPath[T] `json:"paths" yaml:"paths"`
}

// TreeEdge is one edge of a spanning forest.
type TreeEdge[T ID] struct {
	Num    int      `json:"num" yaml:"num"`
	From   T        `json:"from" yaml:"from"`
	To     T        `json:"to" yaml:"to"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// SpanningTree is a minimum spanning forest.
type SpanningTree[T ID] struct {
	Weighted    bool          `json:"weighted" yaml:"weighted"`
	MaxEdges    int           `json:"max_edges" yaml:"max_edges"`
	TotalWeight *float64      `json:"total_weight,omitempty" yaml:"total_weight,omitempty"`
	Edges       []TreeEdge[T] `json:"edges" yaml:"edges"`
}

// Diameter is the longest shortest path in the graph.
type Diameter[T ID] struct {
	Source   T             `json:"source" yaml:"source"`
	Target   T             `json:"target" yaml:"target"`
	Weighted bool          `json:"weighted" yaml:"weighted"`
	Diameter float64       `json:"diameter" yaml:"diameter"`
	Path     []PathStep[T] `json:"path" yaml:"path"`
}

// EulerianWalk is an Eulerian path or circuit, one step per edge.
type EulerianWalk[T ID] struct {
	Circuit bool          `json:"circuit" yaml:"circuit"`
	Start   T             `json:"start" yaml:"start"`
	End     T             `json:"end" yaml:"end"`
	Path    []PathStep[T] `json:"path" yaml:"path"`
}

// =============================================================================
// Centrality
// =============================================================================

// NodeScore pairs a node with a numeric value.
type NodeScore[T ID] struct {
	Node  T       `json:"node" yaml:"node"`
	Score float64 `json:"score" yaml:"score"`
}

// Centrality holds one score per node.
type Centrality[T ID] struct {
	Measure    string         `json:"measure" yaml:"measure"`
	Damping    *float64       `json:"damping,omitempty" yaml:"damping,omitempty"`
	Eigenvalue *float64       `json:"eigenvalue,omitempty" yaml:"eigenvalue,omitempty"`
	Scores     []NodeScore[T] `json:"scores" yaml:"scores"`
}

// =============================================================================
// Community
// =============================================================================

// Communities is a partition found by community detection.
type Communities[T ID] struct {
	Modularity  *float64 `json:"modularity,omitempty" yaml:"modularity,omitempty"`
	Quality     *float64 `json:"quality,omitempty" yaml:"quality,omitempty"`
	Communities [][]T    `json:"communities" yaml:"communities"`
}

// KCore lists the nodes with coreness of at least K.
type KCore[T ID] struct {
	K           int `json:"k" yaml:"k"`
	MaxCoreness int `json:"max_coreness" yaml:"max_coreness"`
	Cores       []T `json:"cores" yaml:"cores"`
}

// Triangle is one 3-clique.
type Triangle[T ID] struct {
	ID    int `json:"id" yaml:"id"`
	Node1 T   `json:"node1" yaml:"node1"`
	Node2 T   `json:"node2" yaml:"node2"`
	Node3 T   `json:"node3" yaml:"node3"`
}

// Triangles lists every triangle.
type Triangles[T ID] struct {
	Triangles []Triangle[T] `json:"triangles" yaml:"triangles"`
}

// Clustering holds local clustering coefficients.
type Clustering[T ID] struct {
	GlobalCoefficient float64        `json:"global_coefficient" yaml:"global_coefficient"`
	Coefficients      []NodeScore[T] `json:"coefficients" yaml:"coefficients"`
}

// =============================================================================
// Similarity
// =============================================================================

// SimilarPair is the most similar distinct pair.
type SimilarPair[T ID] struct {
	Node1      T       `json:"node1" yaml:"node1"`
	Node2      T       `json:"node2" yaml:"node2"`
	Similarity float64 `json:"similarity" yaml:"similarity"`
}

// Similarity is a pairwise similarity matrix over Nodes, in order.
type Similarity[T ID] struct {
	Nodes         []T             `json:"nodes" yaml:"nodes"`
	Matrix        [][]float64     `json:"matrix" yaml:"matrix"`
	MaxSimilarity *SimilarPair[T] `json:"max_similarity,omitempty" yaml:"max_similarity,omitempty"`
}

// PredictedEdge is a candidate missing edge.
type PredictedEdge[T ID] struct {
	From        T       `json:"from" yaml:"from"`
	To          T       `json:"to" yaml:"to"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// LinkPrediction lists predicted missing edges, most probable first.
type LinkPrediction[T ID] struct {
	SampleSize int                `json:"sample_size" yaml:"sample_size"`
	Bins       int                `json:"bins" yaml:"bins"`
	Edges      []PredictedEdge[T] `json:"edges" yaml:"edges"`
}

func (*Traversal[T]) Kind() Kind       { return KindTraversal }
func (*DepthFirst[T]) Kind() Kind      { return KindDepthFirst }
func (*RandomWalk[T]) Kind() Kind      { return KindRandomWalk }
func (*Adjacency[T]) Kind() Kind       { return KindAdjacency }
func (*Components[T]) Kind() Kind      { return KindComponents }
func (*Ordering[T]) Kind() Kind        { return KindOrdering }
func (*PathToTarget[T]) Kind() Kind    { return KindPathToTarget }
func (*PathsFromSource[T]) Kind() Kind { return KindPathsFromSource }
func (*KShortestPaths[T]) Kind() Kind  { return KindKShortestPaths }
func (*SpanningTree[T]) Kind() Kind    { return KindSpanningTree }
func (*Diameter[T]) Kind() Kind        { return KindDiameter }
func (*EulerianWalk[T]) Kind() Kind    { return KindEulerianWalk }
func (*Centrality[T]) Kind() Kind      { return KindCentrality }
func (*Communities[T]) Kind() Kind     { return KindCommunities }
func (*KCore[T]) Kind() Kind           { return KindKCore }
func (*Triangles[T]) Kind() Kind       { return KindTriangles }
func (*Clustering[T]) Kind() Kind      { return KindClustering }
func (*Similarity[T]) Kind() Kind      { return KindSimilarity }
func (*LinkPrediction[T]) Kind() Kind  { return KindLinkPrediction }

func (*Traversal[T]) sealed()       {}
func (*DepthFirst[T]) sealed()      {}
func (*RandomWalk[T]) sealed()      {}
func (*Adjacency[T]) sealed()       {}
func (*Components[T]) sealed()      {}
func (*Ordering[T]) sealed()        {}
func (*PathToTarget[T]) sealed()    {}
func (*PathsFromSource[T]) sealed() {}
func (*KShortestPaths[T]) sealed()  {}
func (*SpanningTree[T]) sealed()    {}
func (*Diameter[T]) sealed()        {}
func (*EulerianWalk[T]) sealed()    {}
func (*Centrality[T]) sealed()      {}
func (*Communities[T]) sealed()     {}
func (*KCore[T]) sealed()           {}
func (*Triangles[T]) sealed()       {}
func (*Clustering[T]) sealed()      {}
func (*Similarity[T]) sealed()      {}
func (*LinkPrediction[T]) sealed()  {}
