// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
)

// Middleware returns gin tracing middleware for service. Scrapes of
// /metrics are not traced.
//
// A nil tp uses the global tracer provider installed by Init.
func Middleware(service string, tp trace.TracerProvider) gin.HandlerFunc {
	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/metrics"
		}),
	}
	if tp != nil {
		opts = append(opts, otelgin.WithTracerProvider(tp))
	}
	return otelgin.Middleware(service, opts...)
}

// TraceID returns the active trace id, or "" when there is no span.
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
