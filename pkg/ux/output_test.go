// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsTerminal_NonTerminals(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Error("buffer reported as terminal")
	}

	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTerminal(f) {
		t.Error("regular file reported as terminal")
	}
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if p.Styled() {
		t.Fatal("printer over a buffer should not style")
	}

	p.Success("done")
	p.Warning("careful")
	p.Error("broken")

	want := "OK: done\nWARN: careful\nERROR: broken\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestWriteTable_Plain(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"OP", "FAMILY"}, [][]string{
		{"bfs", "traversal"},
		{"pagerank", "centrality"},
	})
	if err != nil {
		t.Fatalf("WriteTable() error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	// Columns are aligned: the second column starts at the same offset.
	if strings.Index(lines[1], "traversal") != strings.Index(lines[2], "centrality") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestRenderTable_ContainsCells(t *testing.T) {
	out := RenderTable([]string{"OP"}, [][]string{{"bfs"}, {"dfs"}})
	for _, want := range []string{"OP", "bfs", "dfs"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestIcon_Render(t *testing.T) {
	if got := IconArrow.Render(); got != string(IconArrow) {
		t.Errorf("IconArrow.Render() = %q", got)
	}
	if !strings.Contains(IconSuccess.Render(), string(IconSuccess)) {
		t.Error("styled icon lost its glyph")
	}
}
