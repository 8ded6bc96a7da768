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

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// =============================================================================
// Prometheus Metrics for the Algorithm Gateway
// =============================================================================

var (
	// gatewayRequests counts gateway calls.
	// Labels: op, outcome (ok, trivial, invalid, directedness, graph, engine, timeout, source, error)
	gatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "novabridge",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "Total algorithm requests by outcome",
	}, []string{"op", "outcome"})

	// gatewayDuration measures end-to-end call latency including queueing
	// for the engine slot.
	// Labels: op
	gatewayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "novabridge",
		Subsystem: "gateway",
		Name:      "duration_seconds",
		Help:      "Algorithm request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
	}, []string{"op"})

	// gatewayNotices counts notices attached to results.
	// Labels: kind
	gatewayNotices = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "novabridge",
		Subsystem: "gateway",
		Name:      "notices_total",
		Help:      "Total non-fatal notices attached to results",
	}, []string{"kind"})

	// gatewayGraphVertices tracks the size of marshalled graphs.
	gatewayGraphVertices = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "novabridge",
		Subsystem: "gateway",
		Name:      "graph_vertices",
		Help:      "Vertex count of graphs handed to the engine",
		Buckets:   prometheus.ExponentialBuckets(1, 10, 8),
	})
)

// outcome classifies err for the requests counter.
func outcome(res *Result, err error) string {
	switch {
	case err == nil && res != nil && res.Trivial:
		return "trivial"
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnknownOperation), errors.Is(err, ErrWrongFamily):
		return "invalid"
	case errors.Is(err, ErrDirectedGraphRequired):
		return "directedness"
	case errors.Is(err, graph.ErrInconsistentGraph), errors.Is(err, graph.ErrVertexRange):
		return "graph"
	case errors.Is(err, engine.ErrInvocationTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrEngine):
		return "engine"
	case errors.Is(err, ErrSnapshot):
		return "source"
	default:
		return "error"
	}
}

func recordNotices(notices []Notice) {
	for _, n := range notices {
		gatewayNotices.WithLabelValues(string(n.Kind)).Inc()
	}
}
