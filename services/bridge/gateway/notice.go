// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

// NoticeKind classifies a non-fatal condition attached to a Result.
type NoticeKind string

const (
	// NoticeDowngradedToUndirected: a directed graph was treated as
	// undirected because the operation only supports undirected graphs.
	NoticeDowngradedToUndirected NoticeKind = "downgraded_to_undirected"

	// NoticeUnmappedEngineIDs: the engine returned ids outside the
	// mapping; they appear in their numeric form.
	NoticeUnmappedEngineIDs NoticeKind = "unmapped_engine_ids"

	// NoticeNonNumericWeights: some weight attributes were not numbers and
	// were treated as 0.
	NoticeNonNumericWeights NoticeKind = "non_numeric_weights"
)

// Notice is a non-fatal condition the caller should know about.
type Notice struct {
	Kind    NoticeKind `json:"kind" yaml:"kind"`
	Message string     `json:"message" yaml:"message"`

	// Count is the number of affected items, when meaningful.
	Count int `json:"count,omitempty" yaml:"count,omitempty"`
}
