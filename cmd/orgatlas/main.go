// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command orgatlas is the OrgAtlas command line interface.
//
// It answers organizational questions against a property-graph
// snapshot of the workforce: departure cascades, centrality rankings,
// community detection, reporting paths, and flight-risk screens. The
// same analyses are available over HTTP via 'orgatlas serve'.
//
// Usage:
//
//	orgatlas cascade emp-1042 --data snapshot.jsonl
//	orgatlas centrality betweenness --top 10 --data snapshot.jsonl
//	orgatlas serve --data snapshot.jsonl --port 8080
package main

import (
	"log"
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
