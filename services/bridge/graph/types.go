// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"fmt"
	"math"
)

// MaxVertexID is the first engine id that may never be assigned. Engine
// ids live in [0, MaxVertexID).
const MaxVertexID = math.MaxInt32

// Node is a database node as seen by the bridge.
type Node struct {
	// ID is the database identifier. Unique within a Snapshot.
	ID string `json:"id" yaml:"id"`

	// PrimaryKey names the primary key property of the node's table.
	PrimaryKey string `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`

	// PrimaryKeyValue is the node's primary key value, used for labels.
	PrimaryKeyValue any `json:"primary_key_value,omitempty" yaml:"primary_key_value,omitempty"`

	// TableName is the node table (label) the node belongs to.
	TableName string `json:"table,omitempty" yaml:"table,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Label renders the node the way results present it to users:
// "<primary key value> (<table>)". Missing parts fall back to the id.
func (n *Node) Label() string {
	value := n.PrimaryKeyValue
	if value == nil {
		value = n.ID
	}
	if n.TableName == "" {
		return fmt.Sprint(value)
	}
	return fmt.Sprintf("%v (%s)", value, n.TableName)
}

// Edge is a database relationship between two node ids.
type Edge struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Weight, when set, takes precedence over any "weight" attribute.
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`

	// Table is the relationship table (type). Informational only.
	Table string `json:"table,omitempty" yaml:"table,omitempty"`

	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Snapshot is an immutable view of the database graph for one call.
type Snapshot struct {
	Directed   bool     `json:"directed" yaml:"directed"`
	Nodes      []Node   `json:"nodes" yaml:"nodes"`
	Edges      []Edge   `json:"edges" yaml:"edges"`
	NodeTables []string `json:"node_tables,omitempty" yaml:"node_tables,omitempty"`
	EdgeTables []string `json:"edge_tables,omitempty" yaml:"edge_tables,omitempty"`
}

// EngineGraph is the marshalled form handed to the engine.
//
// Src and Dst are parallel: edge i runs from Src[i] to Dst[i]. Weight is
// nil when no edge carried a numeric weight; otherwise it has one entry
// per edge and unweighted edges contribute 0.
type EngineGraph struct {
	VertexCount uint32
	Src         []int32
	Dst         []int32
	Directed    bool
	Weight      []float64
}

// EdgeCount returns the number of marshalled edges.
func (g *EngineGraph) EdgeCount() int {
	return len(g.Src)
}

// Weighted reports whether a weight array is present.
func (g *EngineGraph) Weighted() bool {
	return g.Weight != nil
}

// Mapping is the bijection between database ids and engine ids for one
// call. It is rebuilt on every Marshal.
type Mapping struct {
	forward map[string]int32
	reverse []string
}

func newMapping(capacity int) *Mapping {
	return &Mapping{
		forward: make(map[string]int32, capacity),
		reverse: make([]string, 0, capacity),
	}
}

// NewMapping builds a Mapping from database ids listed in engine id
// order. Duplicate ids return ErrInconsistentGraph.
func NewMapping(ids []string) (*Mapping, error) {
	m := newMapping(len(ids))
	for _, id := range ids {
		if _, dup := m.forward[id]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInconsistentGraph, id)
		}
		m.forward[id] = int32(len(m.reverse))
		m.reverse = append(m.reverse, id)
	}
	return m, nil
}

// Forward returns the engine id for a database id.
func (m *Mapping) Forward(id string) (int32, bool) {
	v, ok := m.forward[id]
	return v, ok
}

// Reverse returns the database id for an engine id.
func (m *Mapping) Reverse(id int32) (string, bool) {
	if id < 0 || int(id) >= len(m.reverse) {
		return "", false
	}
	return m.reverse[id], true
}

// Len returns the number of mapped ids.
func (m *Mapping) Len() int {
	return len(m.reverse)
}

// IDs returns database ids in engine id order. The slice is a copy.
func (m *Mapping) IDs() []string {
	out := make([]string, len(m.reverse))
	copy(out, m.reverse)
	return out
}
