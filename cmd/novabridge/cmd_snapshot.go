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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/unswdb/NovaGraph-v2-sub000/pkg/ux"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/filesource"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Import or export snapshots",
	Long: `Move snapshots between files, the configured source and the embedded
snapshot store.

Subcommands:
  import  - Load a YAML/JSON snapshot file into the badger store
  export  - Write the configured source's current snapshot to a file`,
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Load a snapshot file into the badger store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Slog()
		snap, err := filesource.Load(args[0])
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Source.Badger, log)
		if err != nil {
			return err
		}
		defer closeStore(store, log)()

		if err := store.Save(cmd.Context(), snap); err != nil {
			return err
		}
		ux.NewPrinter(cmd.OutOrStdout()).Success(fmt.Sprintf("imported %d nodes and %d edges into %s",
			len(snap.Nodes), len(snap.Edges), cfg.Source.Badger.Path))
		return nil
	},
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write the configured source's snapshot to a file",
	Long: `Write the configured source's current snapshot to FILE. Files ending in
.json are written as JSON, anything else as YAML.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Slog()
		src, closeSrc, err := openSource(cmd.Context(), cfg.Source, log)
		if err != nil {
			return err
		}
		defer closeSrc()

		snap, err := src.Snapshot(cmd.Context())
		if err != nil {
			return err
		}
		if err := filesource.Save(args[0], snap); err != nil {
			return err
		}
		log.Info("snapshot exported",
			slog.String("path", args[0]),
			slog.String("source", cfg.Source.Kind),
			slog.Int("nodes", len(snap.Nodes)),
			slog.Int("edges", len(snap.Edges)),
		)
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotImportCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	rootCmd.AddCommand(snapshotCmd)
}
