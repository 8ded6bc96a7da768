// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package neo4jsource reads graph snapshots from Neo4j.
//
// Node ids are element ids, which contain ':' and '-' characters; the
// overlay key encoding keeps them intact.
package neo4jsource

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
)

// Default queries return every node and every relationship.
const (
	DefaultNodeQuery = "MATCH (n) RETURN n"
	DefaultEdgeQuery = "MATCH ()-[r]->() RETURN r"
)

// Config configures a Source.
type Config struct {
	URI      string `yaml:"uri" validate:"required"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	// NodeQuery and EdgeQuery may return nodes, relationships or paths in
	// any column. Empty uses the defaults.
	NodeQuery string `yaml:"node_query"`
	EdgeQuery string `yaml:"edge_query"`

	// PrimaryKeys maps a node label to its primary key property. Labels
	// not listed use DefaultPrimaryKey.
	PrimaryKeys       map[string]string `yaml:"primary_keys"`
	DefaultPrimaryKey string            `yaml:"default_primary_key"`

	Directed bool `yaml:"directed"`
}

// Runner executes one Cypher query and buffers the result.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// DriverRunner runs queries through a driver.
type DriverRunner struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// Run executes query with ExecuteQuery.
func (r *DriverRunner) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	res, err := neo4j.ExecuteQuery(ctx, r.Driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(r.Database),
		neo4j.ExecuteQueryWithReadersRouting(),
	)
	if err != nil {
		return nil, fmt.Errorf("execute neo4j query: %w", err)
	}
	return res, nil
}

// Source builds snapshots from Cypher query results.
type Source struct {
	cfg    Config
	runner Runner
	close  func(context.Context) error
	logger *slog.Logger
}

// Open connects to Neo4j and verifies connectivity.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Source, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: neo4j at %s: %w", source.ErrSourceUnavailable, cfg.URI, err)
	}
	s := New(cfg, &DriverRunner{Driver: driver, Database: cfg.Database}, logger)
	s.close = driver.Close
	return s, nil
}

// New returns a Source over an existing runner.
func New(cfg Config, runner Runner, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NodeQuery == "" {
		cfg.NodeQuery = DefaultNodeQuery
	}
	if cfg.EdgeQuery == "" {
		cfg.EdgeQuery = DefaultEdgeQuery
	}
	return &Source{cfg: cfg, runner: runner, logger: logger}
}

// Close releases the driver, if Open created one.
func (s *Source) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Snapshot runs the node and edge queries and assembles a snapshot.
//
// Nodes and relationships are de-duplicated by element id. Endpoints of
// returned relationships that the node query did not return are left
// for the marshaller to report as an inconsistent graph.
func (s *Source) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	b := newBuilder(s.cfg)

	for _, q := range []string{s.cfg.NodeQuery, s.cfg.EdgeQuery} {
		res, err := s.runner.Run(ctx, q, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
		}
		for _, rec := range res.Records {
			for _, v := range rec.Values {
				b.add(v)
			}
		}
	}

	snap := b.snapshot()
	s.logger.Debug("neo4j snapshot loaded",
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
	)
	return snap, nil
}

type builder struct {
	cfg        Config
	snap       *graph.Snapshot
	seenNodes  map[string]bool
	seenEdges  map[string]bool
	nodeTables map[string]bool
	edgeTables map[string]bool
}

func newBuilder(cfg Config) *builder {
	return &builder{
		cfg:        cfg,
		snap:       &graph.Snapshot{Directed: cfg.Directed},
		seenNodes:  make(map[string]bool),
		seenEdges:  make(map[string]bool),
		nodeTables: make(map[string]bool),
		edgeTables: make(map[string]bool),
	}
}

func (b *builder) add(value any) {
	switch v := value.(type) {
	case neo4j.Node:
		b.addNode(v)
	case neo4j.Relationship:
		b.addEdge(v)
	case neo4j.Path:
		for _, n := range v.Nodes {
			b.addNode(n)
		}
		for _, r := range v.Relationships {
			b.addEdge(r)
		}
	case []any:
		for _, item := range v {
			b.add(item)
		}
	}
}

func (b *builder) addNode(n neo4j.Node) {
	if b.seenNodes[n.ElementId] {
		return
	}
	b.seenNodes[n.ElementId] = true

	node := graph.Node{ID: n.ElementId, Attributes: n.Props}
	if len(n.Labels) > 0 {
		node.TableName = n.Labels[0]
		b.nodeTables[node.TableName] = true
	}
	pk := b.cfg.PrimaryKeys[node.TableName]
	if pk == "" {
		pk = b.cfg.DefaultPrimaryKey
	}
	if pk != "" {
		node.PrimaryKey = pk
		node.PrimaryKeyValue = n.Props[pk]
	}
	b.snap.Nodes = append(b.snap.Nodes, node)
}

func (b *builder) addEdge(r neo4j.Relationship) {
	if b.seenEdges[r.ElementId] {
		return
	}
	b.seenEdges[r.ElementId] = true
	b.edgeTables[r.Type] = true
	b.snap.Edges = append(b.snap.Edges, graph.Edge{
		Source:     r.StartElementId,
		Target:     r.EndElementId,
		Table:      r.Type,
		Attributes: r.Props,
	})
}

func (b *builder) snapshot() *graph.Snapshot {
	b.snap.NodeTables = sortedKeys(b.nodeTables)
	b.snap.EdgeTables = sortedKeys(b.edgeTables)
	return b.snap
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
