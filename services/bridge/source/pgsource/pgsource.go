// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pgsource reads graph snapshots from PostgreSQL tables.
package pgsource

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
)

// Default queries read the graph_nodes and graph_edges tables.
//
// A node query returns (id text, table text, primary_key text,
// primary_key_value text, attributes jsonb); an edge query returns
// (source text, target text, weight double precision, table text,
// attributes jsonb). Every column but the ids may be NULL.
const (
	DefaultNodeQuery = `SELECT id, table_name, primary_key, primary_key_value, attributes FROM graph_nodes ORDER BY id`
	DefaultEdgeQuery = `SELECT source_id, target_id, weight, table_name, attributes FROM graph_edges ORDER BY source_id, target_id`
)

// Config configures a Source.
type Config struct {
	DSN       string `yaml:"dsn" validate:"required"`
	NodeQuery string `yaml:"node_query"`
	EdgeQuery string `yaml:"edge_query"`
	Directed  bool   `yaml:"directed"`
}

// Querier is the subset of a pool or connection Source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source builds snapshots from two SQL queries.
type Source struct {
	cfg    Config
	db     Querier
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// Open creates a connection pool and pings the server.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Source, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: postgres: %w", source.ErrSourceUnavailable, err)
	}
	s := New(cfg, pool, logger)
	s.pool = pool
	return s, nil
}

// New returns a Source over an existing querier.
func New(cfg Config, db Querier, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NodeQuery == "" {
		cfg.NodeQuery = DefaultNodeQuery
	}
	if cfg.EdgeQuery == "" {
		cfg.EdgeQuery = DefaultEdgeQuery
	}
	return &Source{cfg: cfg, db: db, logger: logger}
}

// Close closes the pool, if Open created one.
func (s *Source) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Snapshot runs both queries.
func (s *Source) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	nodes, err := query(ctx, s.db, s.cfg.NodeQuery, scanNode)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	edges, err := query(ctx, s.db, s.cfg.EdgeQuery, scanEdge)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}

	snap := &graph.Snapshot{
		Directed:   s.cfg.Directed,
		Nodes:      nodes,
		Edges:      edges,
		NodeTables: tables(nodes, func(n graph.Node) string { return n.TableName }),
		EdgeTables: tables(edges, func(e graph.Edge) string { return e.Table }),
	}
	s.logger.Debug("postgres snapshot loaded",
		slog.Int("nodes", len(nodes)),
		slog.Int("edges", len(edges)),
	)
	return snap, nil
}

func query[T any](ctx context.Context, db Querier, sql string, scan pgx.RowToFunc[T]) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
	}
	return pgx.CollectRows(rows, scan)
}

func scanNode(row pgx.CollectableRow) (graph.Node, error) {
	var (
		n                  graph.Node
		table, pk, pkValue *string
		attributes         map[string]any
	)
	if err := row.Scan(&n.ID, &table, &pk, &pkValue, &attributes); err != nil {
		return graph.Node{}, err
	}
	n.TableName = deref(table)
	n.PrimaryKey = deref(pk)
	if pkValue != nil {
		n.PrimaryKeyValue = *pkValue
	}
	n.Attributes = attributes
	return n, nil
}

func scanEdge(row pgx.CollectableRow) (graph.Edge, error) {
	var (
		e          graph.Edge
		table      *string
		attributes map[string]any
	)
	if err := row.Scan(&e.Source, &e.Target, &e.Weight, &table, &attributes); err != nil {
		return graph.Edge{}, err
	}
	e.Table = deref(table)
	e.Attributes = attributes
	return e, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func tables[T any](items []T, name func(T) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		if n := name(it); n != "" && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
