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
	"os"
	"time"

	"github.com/AleutianAI/OrgAtlas/services/insight"
	"github.com/spf13/cobra"
)

// runPath executes a shortest-path query.
//
// A missing path is a finding, not an error: the command exits with
// CLIExitFindings so scripts can distinguish "no path" from failures.
func runPath(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	cfg := outputConfig()

	svc, err := loadService(ctx)
	if err != nil {
		OutputError(cfg.JSON, "Failed to load snapshot", err)
		os.Exit(CLIExitError)
	}
	defer svc.Close()

	resp, err := svc.Path(ctx, insight.PathRequest{
		FromID:    args[0],
		ToID:      args[1],
		RelTypes:  pathRelTypes,
		Direction: pathDirection,
		MaxDepth:  pathMaxDepth,
	})

	notFound := err == nil && !resp.Path.Found
	os.Exit(RunOutput(cfg, "path", start, resp, notFound, err, func() {
		renderPath(resp)
	}))
}

// runDistance executes an org-distance query.
func runDistance(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	cfg := outputConfig()

	svc, err := loadService(ctx)
	if err != nil {
		OutputError(cfg.JSON, "Failed to load snapshot", err)
		os.Exit(CLIExitError)
	}
	defer svc.Close()

	resp, err := svc.Distance(ctx, insight.DistanceRequest{
		FromID: args[0],
		ToID:   args[1],
	})

	disconnected := err == nil && resp.Distance < 0
	os.Exit(RunOutput(cfg, "distance", start, resp, disconnected, err, func() {
		renderDistance(resp)
	}))
}
