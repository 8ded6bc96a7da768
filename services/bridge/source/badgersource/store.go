// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badgersource

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
)

// Key layout
//
//	current                      -> generation (uint64, big endian)
//	g/<gen>/meta                 -> JSON meta
//	g/<gen>/node/<index>         -> JSON graph.Node
//	g/<gen>/edge/<index>         -> JSON graph.Edge
//
// Generation and index are 8-byte big-endian so iteration order is
// insertion order. A save writes a new generation, flips current in one
// transaction and then drops the old generation, so readers always see
// a complete snapshot.
var currentKey = []byte("current")

type meta struct {
	Directed   bool     `json:"directed"`
	NodeTables []string `json:"node_tables,omitempty"`
	EdgeTables []string `json:"edge_tables,omitempty"`
	Nodes      int      `json:"nodes"`
	Edges      int      `json:"edges"`
}

// Store persists snapshots and serves the latest one.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Store struct {
	db     *db
	logger *slog.Logger

	// saveMu serializes writers; readers never take it.
	saveMu sync.Mutex
}

// Open opens the store described by cfg.
func Open(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: d, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func genPrefix(gen uint64) []byte {
	b := make([]byte, 0, 11)
	b = append(b, 'g', '/')
	b = binary.BigEndian.AppendUint64(b, gen)
	return append(b, '/')
}

func itemKey(gen uint64, kind string, index int) []byte {
	b := append(genPrefix(gen), kind...)
	b = append(b, '/')
	return binary.BigEndian.AppendUint64(b, uint64(index))
}

func metaKey(gen uint64) []byte {
	return append(genPrefix(gen), "meta"...)
}

func current(txn *badger.Txn) (uint64, bool, error) {
	item, err := txn.Get(currentKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	var gen uint64
	err = item.Value(func(v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("corrupt generation pointer of %d bytes", len(v))
		}
		gen = binary.BigEndian.Uint64(v)
		return nil
	})
	return gen, true, err
}

// Save replaces the stored snapshot with snap.
func (s *Store) Save(ctx context.Context, snap *graph.Snapshot) error {
	if snap == nil {
		return graph.ErrNilSnapshot
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	var prev uint64
	var hadPrev bool
	if err := s.db.withReadTxn(ctx, func(txn *badger.Txn) error {
		var err error
		prev, hadPrev, err = current(txn)
		return err
	}); err != nil {
		return fmt.Errorf("read generation: %w", err)
	}
	gen := prev + 1

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i := range snap.Nodes {
		v, err := json.Marshal(&snap.Nodes[i])
		if err != nil {
			return fmt.Errorf("encode node %d: %w", i, err)
		}
		if err := wb.Set(itemKey(gen, "node", i), v); err != nil {
			return fmt.Errorf("write node %d: %w", i, err)
		}
	}
	for i := range snap.Edges {
		v, err := json.Marshal(&snap.Edges[i])
		if err != nil {
			return fmt.Errorf("encode edge %d: %w", i, err)
		}
		if err := wb.Set(itemKey(gen, "edge", i), v); err != nil {
			return fmt.Errorf("write edge %d: %w", i, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}

	m, err := json.Marshal(meta{
		Directed:   snap.Directed,
		NodeTables: snap.NodeTables,
		EdgeTables: snap.EdgeTables,
		Nodes:      len(snap.Nodes),
		Edges:      len(snap.Edges),
	})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	err = s.db.withTxn(ctx, func(txn *badger.Txn) error {
		if err := txn.Set(metaKey(gen), m); err != nil {
			return err
		}
		return txn.Set(currentKey, binary.BigEndian.AppendUint64(nil, gen))
	})
	if err != nil {
		_ = s.db.DropPrefix(genPrefix(gen))
		return fmt.Errorf("commit snapshot: %w", err)
	}

	if hadPrev {
		if err := s.db.DropPrefix(genPrefix(prev)); err != nil {
			s.logger.Warn("failed to drop previous snapshot generation",
				slog.Uint64("generation", prev),
				slog.String("error", err.Error()),
			)
		}
	}
	s.logger.Info("snapshot saved",
		slog.Uint64("generation", gen),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
	)
	return nil
}

// Snapshot returns the latest saved snapshot.
//
// Outputs:
//
//	error - source.ErrSourceUnavailable when nothing has been saved.
func (s *Store) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	var snap *graph.Snapshot
	err := s.db.withReadTxn(ctx, func(txn *badger.Txn) error {
		gen, ok, err := current(txn)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no snapshot saved", source.ErrSourceUnavailable)
		}

		var m meta
		item, err := txn.Get(metaKey(gen))
		if err != nil {
			return fmt.Errorf("read meta: %w", err)
		}
		if err := item.Value(func(v []byte) error { return json.Unmarshal(v, &m) }); err != nil {
			return fmt.Errorf("decode meta: %w", err)
		}

		snap = &graph.Snapshot{
			Directed:   m.Directed,
			NodeTables: m.NodeTables,
			EdgeTables: m.EdgeTables,
			Nodes:      make([]graph.Node, 0, m.Nodes),
			Edges:      make([]graph.Edge, 0, m.Edges),
		}
		if err := scan(txn, gen, "node", func(v []byte) error {
			var n graph.Node
			if err := json.Unmarshal(v, &n); err != nil {
				return err
			}
			snap.Nodes = append(snap.Nodes, n)
			return nil
		}); err != nil {
			return fmt.Errorf("read nodes: %w", err)
		}
		if err := scan(txn, gen, "edge", func(v []byte) error {
			var e graph.Edge
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			snap.Edges = append(snap.Edges, e)
			return nil
		}); err != nil {
			return fmt.Errorf("read edges: %w", err)
		}

		if len(snap.Nodes) != m.Nodes || len(snap.Edges) != m.Edges {
			return fmt.Errorf("snapshot generation %d incomplete: %d/%d nodes, %d/%d edges",
				gen, len(snap.Nodes), m.Nodes, len(snap.Edges), m.Edges)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func scan(txn *badger.Txn, gen uint64, kind string, fn func(v []byte) error) error {
	prefix := append(genPrefix(gen), kind...)
	prefix = append(prefix, '/')

	it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, PrefetchSize: 100, Prefix: prefix})
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
