// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

var (
	tracer = otel.Tracer("novagraph.bridge.engine")
	meter  = otel.Meter("novagraph.bridge.engine")
)

var (
	invokeLatency metric.Float64Histogram
	queueWait     metric.Float64Histogram
	invokeTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		invokeLatency, err = meter.Float64Histogram(
			"bridge_engine_invoke_duration_seconds",
			metric.WithDescription("Duration of engine invocations including queueing"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		queueWait, err = meter.Float64Histogram(
			"bridge_engine_queue_wait_seconds",
			metric.WithDescription("Time spent waiting for the engine slot"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		invokeTotal, err = meter.Int64Counter(
			"bridge_engine_invoke_total",
			metric.WithDescription("Total number of engine invocations"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

func recordInvokeMetrics(ctx context.Context, op Operation, total, wait time.Duration, err error) {
	if initMetrics() != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("op", string(op)),
		attribute.Bool("success", err == nil),
	)
	invokeLatency.Record(ctx, total.Seconds(), attrs)
	queueWait.Record(ctx, wait.Seconds(), metric.WithAttributes(attribute.String("op", string(op))))
	invokeTotal.Add(ctx, 1, attrs)
}

func startInvokeSpan(ctx context.Context, op Operation, g *graph.EngineGraph, wait time.Duration) (context.Context, trace.Span) {
	return tracer.Start(ctx, "engine.Invoke",
		trace.WithAttributes(
			attribute.String("engine.op", string(op)),
			attribute.Int("engine.vertex_count", int(g.VertexCount)),
			attribute.Int("engine.edge_count", g.EdgeCount()),
			attribute.Bool("engine.directed", g.Directed),
			attribute.Int64("engine.queue_wait_ms", wait.Milliseconds()),
		),
	)
}
