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
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/graph"
)

// DefaultTimeout bounds one invocation when SlotOptions.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// SlotOptions configures a Slot.
type SlotOptions struct {
	// Timeout bounds load + run + unload. Zero uses DefaultTimeout;
	// negative disables the bound.
	Timeout time.Duration

	Logger *slog.Logger
}

// Slot owns an Engine and its single graph slot.
//
// Description:
//
//	Callers queue FIFO for the slot. The holder discards any stale graph,
//	loads its own, runs one algorithm and unloads again. The engine is
//	driven from a worker goroutine so that a caller whose deadline passes
//	gets control back immediately; the slot itself is released only when
//	the engine returns, so the next caller never observes a half-finished
//	invocation.
//
// Thread Safety:
//
//	Safe for concurrent use.
type Slot struct {
	engine  Engine
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *slog.Logger

	// loaded is only touched by the slot holder.
	loaded bool
}

// NewSlot wraps eng.
func NewSlot(eng Engine, opts SlotOptions) *Slot {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Slot{
		engine:  eng,
		sem:     semaphore.NewWeighted(1),
		timeout: timeout,
		logger:  logger,
	}
}

// Engine returns the wrapped engine.
func (s *Slot) Engine() Engine {
	return s.engine
}

// Describe forwards to the engine's failure formatter.
func (s *Slot) Describe(code int) string {
	return s.engine.Describe(code)
}

type outcome struct {
	res *RawResult
	err error
}

// Invoke loads g, runs call and unloads.
//
// Outputs:
//
//	*RawResult - The engine's output in engine ids.
//	error - ctx.Err() if the caller gave up while queued,
//	  ErrInvocationTimeout on deadline, a wrapped load error,
//	  *NativeError from the engine, or ErrEnginePanic.
func (s *Slot) Invoke(ctx context.Context, g *graph.EngineGraph, call Call) (*RawResult, error) {
	queued := time.Now()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	wait := time.Since(queued)

	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if s.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
	}
	defer cancel()

	runCtx, span := startInvokeSpan(runCtx, call.Op, g, wait)
	defer span.End()

	done := make(chan outcome, 1)
	go func() {
		defer s.sem.Release(1)
		res, err := s.cycle(runCtx, g, call)
		done <- outcome{res: res, err: err}
	}()

	if out, ok := await(done, runCtx.Done()); ok {
		recordInvokeMetrics(runCtx, call.Op, time.Since(queued), wait, out.err)
		if out.err != nil {
			span.RecordError(out.err)
		}
		return out.res, out.err
	}

	err := runCtx.Err()
	if ctx.Err() == nil || errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", ErrInvocationTimeout, time.Since(queued).Round(time.Millisecond), err)
	}
	s.logger.Warn("engine invocation abandoned, slot held until the engine returns",
		slog.String("op", string(call.Op)),
		slog.String("error", err.Error()),
	)
	recordInvokeMetrics(context.WithoutCancel(runCtx), call.Op, time.Since(queued), wait, err)
	span.RecordError(err)
	return nil, err
}

// await waits for the engine outcome or for expired to close. An outcome
// that is ready by the time expired fires still wins.
func await(done <-chan outcome, expired <-chan struct{}) (outcome, bool) {
	select {
	case out := <-done:
		return out, true
	case <-expired:
		select {
		case out := <-done:
			return out, true
		default:
			return outcome{}, false
		}
	}
}

// cycle runs unload-stale, load, run, unload. It must only be called by
// the slot holder.
func (s *Slot) cycle(ctx context.Context, g *graph.EngineGraph, call Call) (res *RawResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("engine panic", slog.String("op", string(call.Op)), slog.Any("panic", r))
			res, err = nil, fmt.Errorf("%w: %v", ErrEnginePanic, r)
			if s.loaded {
				s.unload(context.WithoutCancel(ctx))
			}
		}
	}()

	if s.loaded {
		s.unload(ctx)
	}

	if err := s.engine.Load(ctx, g); err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	s.loaded = true
	defer s.unload(context.WithoutCancel(ctx))

	return s.engine.Run(ctx, call)
}

func (s *Slot) unload(ctx context.Context) {
	if err := s.engine.Unload(ctx); err != nil {
		// Left marked as loaded; the next holder retries before loading.
		s.logger.Warn("engine unload failed", slog.String("error", err.Error()))
		return
	}
	s.loaded = false
}
