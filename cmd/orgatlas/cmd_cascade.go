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

// runCascade executes the departure cascade analysis.
func runCascade(cmd *cobra.Command, args []string) {
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

	resp, err := svc.Cascade(ctx, insight.CascadeRequest{
		NodeID:   args[0],
		MaxDepth: cascadeDepth,
		MaxItems: cascadeMaxItems,
		MaxNodes: cascadeMaxNodes,
	})

	os.Exit(RunOutput(cfg, "cascade", start, resp, false, err, func() {
		renderCascade(resp)
	}))
}
