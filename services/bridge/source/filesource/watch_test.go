// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package filesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_CachesUntilFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonSnapshot), 0644))

	src := New(path, nil)
	ctx := context.Background()
	stop, err := src.Watch(ctx)
	require.NoError(t, err)
	defer stop()

	first, err := src.Snapshot(ctx)
	require.NoError(t, err)
	second, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "watched source should serve the cached snapshot")

	updated := `{"directed": true, "nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}], "edges": []}`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	require.Eventually(t, func() bool {
		snap, err := src.Snapshot(ctx)
		return err == nil && len(snap.Nodes) == 3
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatch_Twice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonSnapshot), 0644))

	src := New(path, nil)
	stop, err := src.Watch(context.Background())
	require.NoError(t, err)
	defer stop()

	_, err = src.Watch(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyWatching)
}

func TestWatch_StopRestoresFreshReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonSnapshot), 0644))

	src := New(path, nil)
	ctx := context.Background()
	stop, err := src.Watch(ctx)
	require.NoError(t, err)

	first, err := src.Snapshot(ctx)
	require.NoError(t, err)
	stop()
	stop()

	again, err := src.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, again)

	// Watching can start again after a stop.
	stop, err = src.Watch(ctx)
	require.NoError(t, err)
	stop()
}

func TestWatch_ContextCancelStops(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonSnapshot), 0644))

	src := New(path, nil)
	ctx, cancel := context.WithCancel(context.Background())
	_, err := src.Watch(ctx)
	require.NoError(t, err)
	cancel()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return !src.watching
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	src := New(filepath.Join(t.TempDir(), "absent", "graph.yaml"), nil)
	_, err := src.Watch(context.Background())
	assert.Error(t, err)

	// A failed Watch leaves the source usable.
	_, err = src.Watch(context.Background())
	assert.NotErrorIs(t, err, ErrAlreadyWatching)
}
