// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package filesource reads graph snapshots from YAML or JSON files.
//
// The file is re-read on every Snapshot call so edits show up without a
// restart, unless Watch is running, in which case the decoded snapshot is
// kept until the file changes. JSON files are parsed by the YAML decoder,
// which accepts JSON.
package filesource

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
)

// ErrEmptyNodeID is returned for a node or edge endpoint with an empty id.
var ErrEmptyNodeID = errors.New("empty node id")

// Source serves the snapshot stored in one file.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Source struct {
	path   string
	logger *slog.Logger

	mu       sync.Mutex
	watching bool
	cached   *graph.Snapshot

	// gen counts invalidations so a load that raced a file change does
	// not repopulate the cache with stale contents.
	gen uint64
}

// New returns a Source reading path. A nil logger uses slog.Default.
func New(path string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{path: path, logger: logger}
}

// Snapshot reads and decodes the file.
func (s *Source) Snapshot(ctx context.Context) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.cached != nil {
		snap := s.cached
		s.mu.Unlock()
		return snap, nil
	}
	gen := s.gen
	s.mu.Unlock()

	snap, err := Load(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", source.ErrSourceUnavailable, err)
		}
		return nil, err
	}
	s.logger.Debug("snapshot loaded",
		slog.String("path", s.path),
		slog.Int("nodes", len(snap.Nodes)),
		slog.Int("edges", len(snap.Edges)),
	)

	s.mu.Lock()
	if s.watching && s.gen == gen {
		s.cached = snap
	}
	s.mu.Unlock()
	return snap, nil
}

// Load reads a snapshot file.
func Load(path string) (*graph.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", path, err)
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Decode parses a YAML or JSON snapshot.
func Decode(r io.Reader) (*graph.Snapshot, error) {
	var snap graph.Snapshot
	if err := yaml.NewDecoder(r).Decode(&snap); err != nil {
		if errors.Is(err, io.EOF) {
			return &snap, nil
		}
		return nil, err
	}
	if err := check(&snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func check(snap *graph.Snapshot) error {
	for i, n := range snap.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d", ErrEmptyNodeID, i)
		}
	}
	for i, e := range snap.Edges {
		if e.Source == "" || e.Target == "" {
			return fmt.Errorf("%w: edge %d", ErrEmptyNodeID, i)
		}
	}
	return nil
}

// Save writes snap to path, as JSON when path ends in ".json" and YAML
// otherwise.
func Save(path string, snap *graph.Snapshot) error {
	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(path), ".json") {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot directory: %w", err)
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
