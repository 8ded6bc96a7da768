// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gonumengine

import (
	"math"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/overlay"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// colorMap accumulates an engine-keyed overlay.
type colorMap map[string]float64

func (c colorMap) node(u int32, v float64) {
	c[overlay.RawNodeKey(u)] = v
}

func (c colorMap) link(u, v int32, val float64) {
	c[overlay.RawEdgeKey(u, v)] = val
}

// path colours the nodes of a step list at 0.5 and its links at 1.
func (c colorMap) path(steps []result.PathStep[int32]) {
	for _, s := range steps {
		c.node(s.From, 0.5)
		c.node(s.To, 0.5)
		c.link(s.From, s.To, 1)
	}
}

// scaledInts writes counts scaled by the largest count.
func (c colorMap) scaledInts(counts map[int32]int) {
	high := 0
	for _, n := range counts {
		high = max(high, n)
	}
	if high == 0 {
		return
	}
	for u, n := range counts {
		c.node(u, float64(n)/float64(high))
	}
}

// scaledFloats writes values scaled by the largest value.
func (c colorMap) scaledFloats(values map[int32]float64) {
	high := 0.0
	for _, v := range values {
		if !math.IsNaN(v) {
			high = max(high, v)
		}
	}
	for u, v := range values {
		switch {
		case math.IsNaN(v) || high == 0:
			c.node(u, 0)
		default:
			c.node(u, v/high)
		}
	}
}

// sizeMap scales centrality scores into node radii between 5 and 30.
func sizeMap(scores []result.NodeScore[int32]) map[string]float64 {
	high := 0.0
	for _, s := range scores {
		high = max(high, s.Score)
	}
	out := make(map[string]float64, len(scores))
	for _, s := range scores {
		size := 5.0
		if high > 0 {
			size += 25 * s.Score / high
		}
		out[overlay.RawNodeKey(s.Node)] = size
	}
	return out
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
