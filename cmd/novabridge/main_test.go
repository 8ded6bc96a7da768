// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/filesource"
)

const testGraph = `
directed: true
nodes:
  - {id: A, primary_key: name, primary_key_value: alice, table: Person}
  - {id: B, primary_key: name, primary_key_value: bob, table: Person}
  - {id: C, primary_key: name, primary_key_value: carol, table: Person}
edges:
  - {source: A, target: B}
  - {source: B, target: C}
`

// writeWorkspace writes a graph file and a config pointing at it.
func writeWorkspace(t *testing.T) (configFile, graphFile, dir string) {
	t.Helper()
	dir = t.TempDir()
	graphFile = filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(graphFile, []byte(testGraph), 0644))

	configFile = filepath.Join(dir, "novabridge.yaml")
	cfgYAML := "source:\n" +
		"  kind: file\n" +
		"  file: " + graphFile + "\n" +
		"  badger:\n" +
		"    path: " + filepath.Join(dir, "store") + "\n" +
		"telemetry:\n" +
		"  trace_exporter: none\n" +
		"  metric_exporter: none\n"
	require.NoError(t, os.WriteFile(configFile, []byte(cfgYAML), 0644))
	return configFile, graphFile, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAlgorithmsCommand(t *testing.T) {
	configFile, _, _ := writeWorkspace(t)

	out, err := execute(t, "algorithms", "--config", configFile, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "OPERATION")
	assert.Contains(t, out, "dijkstra_a_to_b")
	assert.Contains(t, out, "source,target")
}

func TestRunCommand_JSON(t *testing.T) {
	configFile, _, _ := writeWorkspace(t)

	out, err := execute(t, "run", "bfs", "--source", "A", "--output", "json",
		"--config", configFile, "--log-level", "error")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "bfs", res["op"])
	labels := res["labels"].(map[string]any)
	assert.Equal(t, "carol (Person)", labels["C"])
}

func TestRunCommand_BadOutput(t *testing.T) {
	configFile, _, _ := writeWorkspace(t)

	_, err := execute(t, "run", "bfs", "--source", "A", "--output", "xml",
		"--config", configFile, "--log-level", "error")
	assert.Error(t, err)
	runOutput = "auto"
}

func TestOutputFormat(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		flag    string
		want    string
		wantErr bool
	}{
		{"yaml", "yaml", false},
		{"json", "json", false},
		{"auto", "json", false},
		{"", "json", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := outputFormat(tt.flag, &buf)
		if tt.wantErr {
			assert.Error(t, err, tt.flag)
			continue
		}
		require.NoError(t, err, tt.flag)
		assert.Equal(t, tt.want, got, tt.flag)
	}
}

func TestPrintCatalogue_Piped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printCatalogue(&buf, gateway.Catalogue()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(gateway.Catalogue())+1, len(lines))
	assert.True(t, strings.HasPrefix(lines[0], "OPERATION"))
}

func TestSnapshotImportThenRunFromBadger(t *testing.T) {
	configFile, graphFile, dir := writeWorkspace(t)

	out, err := execute(t, "snapshot", "import", graphFile, "--config", configFile, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "imported 3 nodes and 2 edges")

	exported := filepath.Join(dir, "out.json")
	_, err = execute(t, "snapshot", "export", exported,
		"--config", configFile, "--source-kind", "badger", "--log-level", "error")
	require.NoError(t, err)

	snap, err := filesource.Load(exported)
	require.NoError(t, err)
	assert.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Edges, 2)
	sourceKind = ""
}

func TestArgList(t *testing.T) {
	assert.Equal(t, "-", argList(nil))
	assert.Equal(t, "source,k", argList([]gateway.Arg{gateway.ArgSource, gateway.ArgK}))
}

func TestWriteResult_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, "yaml", &gateway.Result{Op: "bfs", RequestID: "r1"}))
	assert.True(t, strings.Contains(buf.String(), "op: bfs"))
	assert.True(t, strings.Contains(buf.String(), "request_id: r1"))
}
