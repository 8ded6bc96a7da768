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
	"fmt"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/result"
)

// Payload translates an engine payload into database ids.
//
// Every variant in package result has a case here. A payload that is
// already in database ids is returned unchanged, which lets trivial
// results built by the gateway flow through the same path. A nil payload
// translates to nil.
func Payload(p result.Payload, r *Resolver) (result.Payload, error) {
	switch v := p.(type) {
	case nil:
		return nil, nil

	case *result.Traversal[int32]:
		return wrap(Rekey[result.Traversal[string]](v, r))
	case *result.DepthFirst[int32]:
		return wrap(Rekey[result.DepthFirst[string]](v, r))
	case *result.RandomWalk[int32]:
		return wrap(Rekey[result.RandomWalk[string]](v, r))
	case *result.Adjacency[int32]:
		return wrap(Rekey[result.Adjacency[string]](v, r))
	case *result.Components[int32]:
		return wrap(Rekey[result.Components[string]](v, r))
	case *result.Ordering[int32]:
		return wrap(Rekey[result.Ordering[string]](v, r))
	case *result.PathToTarget[int32]:
		return wrap(Rekey[result.PathToTarget[string]](v, r))
	case *result.PathsFromSource[int32]:
		return wrap(Rekey[result.PathsFromSource[string]](v, r))
	case *result.KShortestPaths[int32]:
		return wrap(Rekey[result.KShortestPaths[string]](v, r))
	case *result.SpanningTree[int32]:
		return wrap(Rekey[result.SpanningTree[string]](v, r))
	case *result.Diameter[int32]:
		return wrap(Rekey[result.Diameter[string]](v, r))
	case *result.EulerianWalk[int32]:
		return wrap(Rekey[result.EulerianWalk[string]](v, r))
	case *result.Centrality[int32]:
		return wrap(Rekey[result.Centrality[string]](v, r))
	case *result.Communities[int32]:
		return wrap(Rekey[result.Communities[string]](v, r))
	case *result.KCore[int32]:
		return wrap(Rekey[result.KCore[string]](v, r))
	case *result.Triangles[int32]:
		return wrap(Rekey[result.Triangles[string]](v, r))
	case *result.Clustering[int32]:
		return wrap(Rekey[result.Clustering[string]](v, r))
	case *result.Similarity[int32]:
		return wrap(Rekey[result.Similarity[string]](v, r))
	case *result.LinkPrediction[int32]:
		return wrap(Rekey[result.LinkPrediction[string]](v, r))

	case *result.Traversal[string], *result.DepthFirst[string], *result.RandomWalk[string],
		*result.Adjacency[string], *result.Components[string], *result.Ordering[string],
		*result.PathToTarget[string], *result.PathsFromSource[string], *result.KShortestPaths[string],
		*result.SpanningTree[string], *result.Diameter[string], *result.EulerianWalk[string],
		*result.Centrality[string], *result.Communities[string], *result.KCore[string],
		*result.Triangles[string], *result.Clustering[string], *result.Similarity[string],
		*result.LinkPrediction[string]:
		return p, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownPayload, p)
}

// wrap adapts a typed Rekey result to the Payload interface without
// turning a nil pointer into a non-nil interface.
func wrap[D any, PD interface {
	*D
	result.Payload
}](dst *D, err error) (result.Payload, error) {
	if err != nil {
		return nil, err
	}
	if dst == nil {
		return nil, nil
	}
	return PD(dst), nil
}
