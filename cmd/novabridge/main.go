// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command novabridge runs graph algorithms over a database snapshot.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/unswdb/NovaGraph-v2-sub000/pkg/logging"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/config"
)

// =============================================================================
// GLOBAL STATE
// =============================================================================

var (
	configPath string
	logLevel   string
	jsonLogs   bool
	sourceKind string

	cfg    config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "novabridge",
	Short: "Run graph algorithms over a database snapshot",
	Long: `novabridge marshals a graph database snapshot into the algorithm
engine, runs one algorithm and translates the result back to database ids.

Subcommands:
  algorithms  - List the available operations
  run         - Run one operation and print the result
  serve       - Serve the HTTP API
  snapshot    - Import or export snapshots

Examples:
  novabridge algorithms
  novabridge run bfs --source person:1
  novabridge serve --addr :12230
  novabridge snapshot import graph.yaml`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logger != nil {
			_ = logger.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "novabridge.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "log as JSON")
	rootCmd.PersistentFlags().StringVar(&sourceKind, "source-kind", "", "snapshot source (file, neo4j, postgres, badger)")
}

// setup loads configuration and logging. Flags override the file and the
// environment.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Log.JSON = jsonLogs
	}
	if cmd.Flags().Changed("source-kind") {
		cfg.Source.Kind = sourceKind
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Log.Dir,
		Service: "novabridge",
		JSON:    cfg.Log.JSON,
	})
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
