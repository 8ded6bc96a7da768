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
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/unswdb/NovaGraph-v2-sub000/pkg/ux"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/gateway"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/telemetry"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	runOutput     string
	runSource     string
	runTarget     string
	runNodes      []string
	runK          int
	runSteps      int
	runDamping    float64
	runResolution float64
	runSampleSize int
	runBins       int
	runSeed       uint64
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the available operations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printCatalogue(cmd.OutOrStdout(), gateway.Catalogue())
	},
}

var runCmd = &cobra.Command{
	Use:   "run OPERATION",
	Short: "Run one operation and print the result",
	Long: `Run one operation against the configured snapshot source and print the
result in database ids.

Examples:
  novabridge run bfs --source person:1
  novabridge run dijkstra_a_to_b --source a --target b --output json
  novabridge run jaccard_similarity --nodes a,b,c
  novabridge run pagerank --damping 0.9`,
	Args: cobra.ExactArgs(1),
	RunE: runAlgorithm,
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runOutput, "output", "o", "auto", "output format (auto, yaml, json); auto is yaml on a terminal and json otherwise")
	f.StringVar(&runSource, "source", "", "source vertex id")
	f.StringVar(&runTarget, "target", "", "target vertex id")
	f.StringSliceVar(&runNodes, "nodes", nil, "vertex ids (comma separated)")
	f.IntVar(&runK, "k", 0, "k for k-shortest paths and k-core")
	f.IntVar(&runSteps, "steps", 0, "random walk steps")
	f.Float64Var(&runDamping, "damping", 0, "PageRank damping factor")
	f.Float64Var(&runResolution, "resolution", 0, "community resolution")
	f.IntVar(&runSampleSize, "sample-size", 0, "link prediction sample size")
	f.IntVar(&runBins, "bins", 0, "link prediction bins")
	f.Uint64Var(&runSeed, "seed", 0, "seed for randomized operations")

	rootCmd.AddCommand(algorithmsCmd)
	rootCmd.AddCommand(runCmd)
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(runOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(context.Background()) }()

	log := logger.Slog()
	src, closeSrc, err := openSource(ctx, cfg.Source, log)
	if err != nil {
		return err
	}
	defer closeSrc()

	gw := newGateway(cfg.Engine, src, log)
	res, err := gw.Run(ctx, gateway.Request{
		Op:         engine.Operation(args[0]),
		Source:     runSource,
		Target:     runTarget,
		Nodes:      runNodes,
		K:          runK,
		Steps:      runSteps,
		Damping:    runDamping,
		Resolution: runResolution,
		SampleSize: runSampleSize,
		Bins:       runBins,
		Seed:       runSeed,
	})
	if err != nil {
		return err
	}

	notes := ux.NewPrinter(cmd.ErrOrStderr())
	for _, n := range res.Notices {
		notes.Warning(n.Message)
	}
	return writeResult(cmd.OutOrStdout(), format, res)
}

// outputFormat resolves "auto" against the destination.
func outputFormat(flag string, w io.Writer) (string, error) {
	switch flag {
	case "yaml", "json":
		return flag, nil
	case "auto", "":
		if ux.IsTerminal(w) {
			return "yaml", nil
		}
		return "json", nil
	default:
		return "", fmt.Errorf("unknown output format %q", flag)
	}
}

func writeResult(w io.Writer, format string, res *gateway.Result) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	}
}

func printCatalogue(w io.Writer, specs []gateway.Spec) error {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{
			string(s.Op), string(s.Family), string(s.Policy), argList(s.Required), argList(s.Optional),
		})
	}
	return ux.WriteTable(w, []string{"OPERATION", "FAMILY", "GRAPH", "REQUIRED", "OPTIONAL"}, rows)
}

func argList(as []gateway.Arg) string {
	if len(as) == 0 {
		return "-"
	}
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = string(a)
	}
	return strings.Join(parts, ",")
}
