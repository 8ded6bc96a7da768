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
)

// Family groups operations by gateway entry point.
type Family string

const (
	FamilyTraversal  Family = "traversal"
	FamilyPath       Family = "path"
	FamilyCentrality Family = "centrality"
	FamilyCommunity  Family = "community"
	FamilySimilarity Family = "similarity"
)

// Policy is an operation's directedness requirement.
type Policy string

const (
	// PolicyAny runs with the snapshot's directedness.
	PolicyAny Policy = "any"

	// PolicyUndirected marshals a directed snapshot as undirected and
	// attaches a downgrade notice.
	PolicyUndirected Policy = "undirected"

	// PolicyDirected rejects an undirected snapshot.
	PolicyDirected Policy = "directed"
)

// Arg names a request argument.
type Arg string

const (
	ArgSource     Arg = "source"
	ArgTarget     Arg = "target"
	ArgNodes      Arg = "nodes"
	ArgK          Arg = "k"
	ArgSteps      Arg = "steps"
	ArgDamping    Arg = "damping"
	ArgResolution Arg = "resolution"
	ArgSampleSize Arg = "sample_size"
	ArgBins       Arg = "bins"
)

// Spec describes one operation.
type Spec struct {
	Op     engine.Operation `json:"op" yaml:"op"`
	Family Family           `json:"family" yaml:"family"`
	Policy Policy           `json:"policy" yaml:"policy"`

	// Required arguments must be supplied; Optional ones have defaults.
	Required []Arg `json:"required,omitempty" yaml:"required,omitempty"`
	Optional []Arg `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// Needs reports whether a is a required argument.
func (s Spec) Needs(a Arg) bool {
	for _, r := range s.Required {
		if r == a {
			return true
		}
	}
	return false
}

var (
	sourceOnly   = []Arg{ArgSource}
	sourceTarget = []Arg{ArgSource, ArgTarget}
)

var specs = map[engine.Operation]Spec{
	engine.OpBFS:                 {Family: FamilyTraversal, Policy: PolicyAny, Required: sourceOnly},
	engine.OpDFS:                 {Family: FamilyTraversal, Policy: PolicyAny, Required: sourceOnly},
	engine.OpRandomWalk:          {Family: FamilyTraversal, Policy: PolicyAny, Required: []Arg{ArgSource, ArgSteps}},
	engine.OpVerticesAreAdjacent: {Family: FamilyTraversal, Policy: PolicyAny, Required: sourceTarget},
	engine.OpStronglyConnected:   {Family: FamilyTraversal, Policy: PolicyDirected},
	engine.OpWeaklyConnected:     {Family: FamilyTraversal, Policy: PolicyAny},
	engine.OpTopologicalSort:     {Family: FamilyTraversal, Policy: PolicyDirected},

	engine.OpDijkstraAToB:        {Family: FamilyPath, Policy: PolicyAny, Required: sourceTarget},
	engine.OpDijkstraAToAll:      {Family: FamilyPath, Policy: PolicyAny, Required: sourceOnly},
	engine.OpBellmanFordAToB:     {Family: FamilyPath, Policy: PolicyAny, Required: sourceTarget},
	engine.OpBellmanFordAToAll:   {Family: FamilyPath, Policy: PolicyAny, Required: sourceOnly},
	engine.OpYenKShortestPaths:   {Family: FamilyPath, Policy: PolicyAny, Required: []Arg{ArgSource, ArgTarget, ArgK}},
	engine.OpMinimumSpanningTree: {Family: FamilyPath, Policy: PolicyUndirected},
	engine.OpGraphDiameter:       {Family: FamilyPath, Policy: PolicyAny},
	engine.OpEulerianPath:        {Family: FamilyPath, Policy: PolicyAny},
	engine.OpEulerianCircuit:     {Family: FamilyPath, Policy: PolicyAny},

	engine.OpBetweenness:      {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpCloseness:        {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpDegree:           {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpEigenvector:      {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpStrength:         {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpHarmonic:         {Family: FamilyCentrality, Policy: PolicyAny},
	engine.OpPageRank:         {Family: FamilyCentrality, Policy: PolicyAny, Optional: []Arg{ArgDamping}},
	engine.OpDirectedPageRank: {Family: FamilyCentrality, Policy: PolicyDirected, Optional: []Arg{ArgDamping}},

	engine.OpLouvain:          {Family: FamilyCommunity, Policy: PolicyUndirected, Optional: []Arg{ArgResolution}},
	engine.OpLeiden:           {Family: FamilyCommunity, Policy: PolicyUndirected, Optional: []Arg{ArgResolution}},
	engine.OpFastGreedy:       {Family: FamilyCommunity, Policy: PolicyUndirected},
	engine.OpLabelPropagation: {Family: FamilyCommunity, Policy: PolicyUndirected},
	engine.OpLocalClustering:  {Family: FamilyCommunity, Policy: PolicyUndirected},
	engine.OpKCore:            {Family: FamilyCommunity, Policy: PolicyAny, Required: []Arg{ArgK}},
	engine.OpTriangleCount:    {Family: FamilyCommunity, Policy: PolicyUndirected},

	engine.OpJaccardSimilarity:     {Family: FamilySimilarity, Policy: PolicyAny, Required: []Arg{ArgNodes}},
	engine.OpMissingEdgePrediction: {Family: FamilySimilarity, Policy: PolicyAny, Optional: []Arg{ArgSampleSize, ArgBins}},
}

func init() {
	for op, s := range specs {
		s.Op = op
		specs[op] = s
	}
}

// Lookup returns the spec for op.
func Lookup(op engine.Operation) (Spec, bool) {
	s, ok := specs[op]
	return s, ok
}

// Catalogue lists every operation's spec in catalogue order.
func Catalogue() []Spec {
	out := make([]Spec, 0, len(engine.Operations))
	for _, op := range engine.Operations {
		out = append(out, specs[op])
	}
	return out
}
