// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pgsource

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
)

// =============================================================================
// Test Helpers
// =============================================================================

type fakeRows struct {
	data   [][]any
	i      int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.i-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		v := row[i]
		switch d := d.(type) {
		case *string:
			*d = v.(string)
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := v.(string)
				*d = &s
			}
		case **float64:
			if v == nil {
				*d = nil
			} else {
				f := v.(float64)
				*d = &f
			}
		case *map[string]any:
			if v == nil {
				*d = nil
			} else {
				*d = v.(map[string]any)
			}
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows map[string]*fakeRows
	err  error
}

func (q *fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	if r, ok := q.rows[sql]; ok {
		return r, nil
	}
	return &fakeRows{}, nil
}

// =============================================================================
// Tests
// =============================================================================

func TestSnapshot(t *testing.T) {
	nodeRows := &fakeRows{data: [][]any{
		{"p1", "Person", "name", "alice", map[string]any{"age": float64(30)}},
		{"p2", "Person", "name", "bob", nil},
		{"c1", nil, nil, nil, nil},
	}}
	edgeRows := &fakeRows{data: [][]any{
		{"p1", "p2", 2.0, "Knows", nil},
		{"p2", "c1", nil, nil, map[string]any{"weight": "n/a"}},
	}}
	q := &fakeQuerier{rows: map[string]*fakeRows{
		DefaultNodeQuery: nodeRows,
		DefaultEdgeQuery: edgeRows,
	}}

	snap, err := New(Config{Directed: true}, q, nil).Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, nodeRows.closed)
	assert.True(t, edgeRows.closed)

	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, "alice (Person)", snap.Nodes[0].Label())
	assert.Equal(t, "c1", snap.Nodes[2].Label())
	assert.Equal(t, []string{"Person"}, snap.NodeTables)
	assert.Equal(t, []string{"Knows"}, snap.EdgeTables)

	require.Len(t, snap.Edges, 2)
	require.NotNil(t, snap.Edges[0].Weight)
	assert.Nil(t, snap.Edges[1].Weight)

	m, err := graph.Marshal(context.Background(), snap, snap.Directed)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0}, m.Graph.Weight)
	assert.Equal(t, 1, m.NonNumericWeights)
}

func TestSnapshot_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("relation \"graph_nodes\" does not exist")}
	_, err := New(Config{}, q, nil).Snapshot(context.Background())
	assert.ErrorIs(t, err, source.ErrSourceUnavailable)
}

func TestNew_CustomQueries(t *testing.T) {
	s := New(Config{NodeQuery: "SELECT 1", EdgeQuery: "SELECT 2"}, &fakeQuerier{}, nil)
	assert.Equal(t, "SELECT 1", s.cfg.NodeQuery)
	assert.Equal(t, "SELECT 2", s.cfg.EdgeQuery)

	s = New(Config{}, &fakeQuerier{}, nil)
	assert.Equal(t, DefaultNodeQuery, s.cfg.NodeQuery)
	s.Close()
}
