// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
)

// weightKey is the attribute name recognised as an edge weight,
// compared case-insensitively.
const weightKey = "weight"

// edgeWeight extracts the weight of e.
//
// present reports whether a weight was supplied at all; numeric reports
// whether it was a finite number. A nil attribute value counts as absent.
func edgeWeight(e *Edge) (w float64, present, numeric bool) {
	if e.Weight != nil {
		return finite(*e.Weight)
	}

	v, ok := lookupWeight(e.Attributes)
	if !ok || v == nil {
		return 0, false, false
	}

	f, ok := toFloat(v)
	if !ok {
		return 0, true, false
	}
	return finite(f)
}

func finite(f float64) (float64, bool, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, false
	}
	return f, true, true
}

// lookupWeight finds the weight attribute. An exact "weight" key wins;
// otherwise the lexically first case-insensitive match is used so the
// choice does not depend on map iteration order.
func lookupWeight(attrs map[string]any) (any, bool) {
	if len(attrs) == 0 {
		return nil, false
	}
	if v, ok := attrs[weightKey]; ok {
		return v, true
	}

	var keys []string
	for k := range attrs {
		if strings.EqualFold(k, weightKey) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	return attrs[keys[0]], true
}

// toFloat accepts Go numeric kinds and json.Number. Strings, even
// numeric-looking ones, are not weights.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
