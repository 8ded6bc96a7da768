// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/config"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine/gonumengine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/badgersource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/filesource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/neo4jsource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/pgsource"
)

// openSource opens the configured snapshot source. The returned close
// function is never nil.
func openSource(ctx context.Context, cfg config.SourceConfig, logger *slog.Logger) (source.Source, func(), error) {
	noop := func() {}
	switch cfg.Kind {
	case config.SourceFile:
		src := filesource.New(cfg.File, logger)
		if !cfg.Watch {
			return src, noop, nil
		}
		stop, err := src.Watch(ctx)
		if err != nil {
			return nil, noop, err
		}
		return src, stop, nil

	case config.SourceNeo4j:
		src, err := neo4jsource.Open(ctx, cfg.Neo4j, logger)
		if err != nil {
			return nil, noop, err
		}
		return source.NewShared(src, cfg.CacheTTL), func() {
			if err := src.Close(context.Background()); err != nil {
				logger.Warn("close neo4j driver", slog.String("error", err.Error()))
			}
		}, nil

	case config.SourcePostgres:
		src, err := pgsource.Open(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, noop, err
		}
		return source.NewShared(src, cfg.CacheTTL), src.Close, nil

	case config.SourceBadger:
		store, err := openStore(cfg.Badger, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, closeStore(store, logger), nil

	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

func openStore(cfg badgersource.Config, logger *slog.Logger) (*badgersource.Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.With(slog.String("component", "badger"))
	}
	return badgersource.Open(cfg, logger)
}

func closeStore(store *badgersource.Store, logger *slog.Logger) func() {
	return func() {
		if err := store.Close(); err != nil {
			logger.Warn("close snapshot store", slog.String("error", err.Error()))
		}
	}
}

// newGateway builds the reference engine, its slot and the gateway.
func newGateway(cfg config.EngineConfig, src source.Source, logger *slog.Logger) *gateway.Gateway {
	eng := gonumengine.New(gonumengine.Options{
		Logger:            logger,
		PageRankTolerance: cfg.PageRankTolerance,
	})
	slot := engine.NewSlot(eng, engine.SlotOptions{
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
	return gateway.New(src, slot, gateway.Options{
		Logger:      logger,
		MaxVertices: cfg.MaxVertices,
	})
}
