// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translate

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
)

// Overlay translates the engine's colour and size maps.
//
// Engine keys are "u" for a node or "u-v" for an edge, in engine ids.
// Each half is translated on its own, so database ids containing '-'
// survive intact in the structured overlay.Key. A key that is not of
// that shape is kept verbatim as a node key and logged.
func Overlay(colors, sizes map[string]float64, r *Resolver) overlay.Overlay {
	out := overlay.Overlay{Colors: rekeyOverlayMap(colors, r)}
	if out.Colors == nil {
		out.Colors = make(map[overlay.Key]float64)
	}
	if sizes != nil {
		out.Sizes = rekeyOverlayMap(sizes, r)
	}
	return out
}

func rekeyOverlayMap(in map[string]float64, r *Resolver) map[overlay.Key]float64 {
	if in == nil {
		return nil
	}
	out := make(map[overlay.Key]float64, len(in))
	for raw, v := range in {
		k, ok := RawKey(raw, r)
		if !ok {
			r.logger.Warn("malformed overlay key kept verbatim", slog.String("key", raw))
		}
		out[k] = v
	}
	return out
}

// RawKey parses an engine overlay key and translates it.
func RawKey(raw string, r *Resolver) (overlay.Key, bool) {
	from, to, isEdge := strings.Cut(raw, "-")
	u, ok := parseEngineID(from)
	if !ok {
		return overlay.NodeKey(raw), false
	}
	if !isEdge {
		return overlay.NodeKey(r.ID(u)), true
	}
	v, ok := parseEngineID(to)
	if !ok {
		return overlay.NodeKey(raw), false
	}
	return overlay.EdgeKey(r.ID(u), r.ID(v)), true
}

func parseEngineID(s string) (int32, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// Labels renders a display label for each database id, using the node
// index produced by graph.Marshal. Ids without a node fall back to the
// id itself.
func Labels(ids []string, nodes map[string]*graph.Node) map[string]string {
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if n, ok := nodes[id]; ok {
			out[id] = n.Label()
			continue
		}
		out[id] = id
	}
	return out
}
