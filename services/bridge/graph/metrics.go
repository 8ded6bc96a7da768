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
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("novagraph.bridge.graph")
	meter  = otel.Meter("novagraph.bridge.graph")
)

var (
	marshalLatency metric.Float64Histogram
	marshalTotal   metric.Int64Counter
	nodesMarshaled metric.Int64Histogram
	edgesMarshaled metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		marshalLatency, err = meter.Float64Histogram(
			"bridge_marshal_duration_seconds",
			metric.WithDescription("Duration of graph marshal operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		marshalTotal, err = meter.Int64Counter(
			"bridge_marshal_total",
			metric.WithDescription("Total number of graph marshal operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesMarshaled, err = meter.Int64Histogram(
			"bridge_marshal_nodes",
			metric.WithDescription("Number of declared nodes per marshal"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesMarshaled, err = meter.Int64Histogram(
			"bridge_marshal_edges",
			metric.WithDescription("Number of edges per marshal"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordMarshalMetrics(ctx context.Context, duration time.Duration, nodeCount, edgeCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	marshalLatency.Record(ctx, duration.Seconds(), attrs)
	marshalTotal.Add(ctx, 1, attrs)

	if success {
		nodesMarshaled.Record(ctx, int64(nodeCount))
		edgesMarshaled.Record(ctx, int64(edgeCount))
	}
}

func startMarshalSpan(ctx context.Context, nodeCount, edgeCount int, directed bool) (context.Context, trace.Span) {
	return tracer.Start(ctx, "graph.Marshal",
		trace.WithAttributes(
			attribute.Int("graph.node_count", nodeCount),
			attribute.Int("graph.edge_count", edgeCount),
			attribute.Bool("graph.directed", directed),
		),
	)
}
