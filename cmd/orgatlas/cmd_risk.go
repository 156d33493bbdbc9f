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

	"github.com/spf13/cobra"
)

// runFlightRisk ranks employees by departure impact.
func runFlightRisk(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	start := time.Now()
	cfg := outputConfig()

	svc, err := loadService(ctx)
	if err != nil {
		OutputError(cfg.JSON, "Failed to load snapshot", err)
		os.Exit(CLIExitError)
	}
	defer svc.Close()

	resp, err := svc.FlightRisk(ctx, riskTop)

	os.Exit(RunOutput(cfg, "flight-risk", start, resp, false, err, func() {
		renderFlightRisk(resp)
	}))
}
