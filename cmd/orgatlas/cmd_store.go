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
	"os"
	"time"

	"github.com/AleutianAI/OrgAtlas/pkg/ux"
	"github.com/AleutianAI/OrgAtlas/services/insight/loader"
	"github.com/spf13/cobra"
)

// openRecordStore opens the persistent record store from the --db flag
// or the config file.
func openRecordStore() (*loader.Store, error) {
	path := resolveStorePath()
	if path == "" {
		return nil, fmt.Errorf("no store configured: pass --db or set store.path in %s", configPath)
	}
	return loader.OpenStore(loader.StoreConfig{
		Path:   path,
		Logger: slog.Default(),
	})
}

// storeImportResult is the JSON payload for 'store import'.
type storeImportResult struct {
	File     string `json:"file"`
	Imported int    `json:"imported"`
}

// runStoreImport imports JSONL snapshot records into the record store.
func runStoreImport(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	cfg := outputConfig()

	store, err := openRecordStore()
	if err != nil {
		OutputError(cfg.JSON, "Failed to open record store", err)
		os.Exit(CLIExitError)
	}
	defer store.Close()

	imported, err := store.Import(ctx, args[0], storeBatchSize)

	result := storeImportResult{File: args[0], Imported: imported}
	os.Exit(RunOutput(cfg, "store import", start, result, false, err, func() {
		ux.Success(fmt.Sprintf("Imported %d records from %s", imported, args[0]))
	}))
}

// runStoreStats builds a snapshot from the store and shows its shape.
func runStoreStats(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	cfg := outputConfig()

	store, err := openRecordStore()
	if err != nil {
		OutputError(cfg.JSON, "Failed to open record store", err)
		os.Exit(CLIExitError)
	}
	defer store.Close()

	opts := loader.Options{
		StrictEndpoints: strictEndpoints || config.Data.Strict,
		SkipUnknown:     skipUnknown || config.Data.SkipUnknown,
	}
	snap, stats, err := store.Snapshot(ctx, opts)
	if err != nil {
		os.Exit(OutputResult(cfg, "store stats", start, nil, false, err))
	}

	snapStats := snap.Stats()
	os.Exit(RunOutput(cfg, "store stats", start, snapStats, false, nil, func() {
		ux.Title("Record store snapshot")
		ux.KeyValue("Nodes", fmt.Sprintf("%d", snapStats.NodeCount))
		ux.KeyValue("Edges", fmt.Sprintf("%d", snapStats.EdgeCount))
		ux.Summary(stats.Nodes+stats.Edges, stats.Skipped, stats.Nodes+stats.Edges+stats.Skipped)
	}))
}

// runStoreClear deletes all records from the store. Requires --force.
func runStoreClear(cmd *cobra.Command, args []string) {
	cfg := outputConfig()

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		OutputError(cfg.JSON, "Refusing to clear the store", fmt.Errorf("pass --force to confirm"))
		os.Exit(CLIExitError)
	}

	start := time.Now()
	store, err := openRecordStore()
	if err != nil {
		OutputError(cfg.JSON, "Failed to open record store", err)
		os.Exit(CLIExitError)
	}
	defer store.Close()

	err = store.Clear()
	os.Exit(RunOutput(cfg, "store clear", start, nil, false, err, func() {
		ux.Success("Record store cleared")
	}))
}
