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
	"github.com/AleutianAI/OrgAtlas/pkg/ux"
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	// Snapshot / catalog flags (shared by every analysis command)
	configPath      string
	dataPath        string
	catalogPath     string
	strictEndpoints bool
	skipUnknown     bool

	// Output flags
	jsonOutput       bool
	compactOutput    bool
	quietOutput      bool
	personalityLevel string // UX personality level (full/standard/minimal/machine)

	// Serve flags
	servePort      int
	serveDebug     bool
	serveWatch     bool
	serveRateLimit float64
	serveRateBurst int
	serveLogDir    string
	serveLogLevel  string
	serveNoTelem   bool

	// Cascade flags
	cascadeDepth    int
	cascadeMaxItems int
	cascadeMaxNodes int

	// Centrality flags
	centralityTop        int
	centralityNodeTypes  []string
	centralityRelTypes   []string
	centralityDirected   bool
	centralityMaxSources int

	// Communities flags
	communitiesResolution float64
	communitiesMinSize    int
	communitiesNodeTypes  []string
	communitiesRelTypes   []string

	// Path flags
	pathRelTypes  []string
	pathDirection string
	pathMaxDepth  int

	// Flight-risk flags
	riskTop int

	// Store flags
	storeDBPath    string
	storeBatchSize int

	rootCmd = &cobra.Command{
		Use:   "orgatlas",
		Short: "A cli to analyze organizational graph snapshots",
		Long: `OrgAtlas analyzes a property-graph snapshot of your organization:
				who depends on whom, what breaks when someone leaves, where the
				informal power sits, and how teams actually cluster.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Initialize UX personality from flag or environment
			if personalityLevel != "" {
				ux.SetPersonalityLevel(ux.ParsePersonalityLevel(personalityLevel))
			} else {
				ux.InitPersonality()
			}
			loadConfigFile(configPath)
		},
	}

	// --- Server ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the Insight HTTP API server",
		Run:   runServe, // Defined in cmd_serve.go
	}

	// --- Analysis ---
	cascadeCmd = &cobra.Command{
		Use:   "cascade NODE_ID",
		Short: "Analyze the departure impact cascade for an employee",
		Long: `Simulate the departure of an employee and report the blast radius:
				direct and indirect reports, orphaned reviews, skills lost to the
				org, and goals put at risk, rolled up into a weighted impact score.

Examples:
  orgatlas cascade emp-1042
  orgatlas cascade emp-1042 --max-depth 3 --json`,
		Args: cobra.ExactArgs(1),
		Run:  runCascade, // Defined in cmd_cascade.go
	}

	centralityCmd = &cobra.Command{
		Use:   "centrality METRIC",
		Short: "Rank nodes by a centrality metric",
		Long: `Rank nodes by degree, betweenness, or pagerank centrality.

Betweenness highlights brokers who sit between groups; pagerank
highlights nodes that accumulate influence through their neighbors.

Examples:
  orgatlas centrality degree --top 10
  orgatlas centrality betweenness --node-types Employee --rel-types REPORTS_TO
  orgatlas centrality pagerank --directed --json`,
		Args: cobra.ExactArgs(1),
		Run:  runCentrality, // Defined in cmd_centrality.go
	}

	communitiesCmd = &cobra.Command{
		Use:   "communities",
		Short: "Detect communities in the organizational graph",
		Long: `Partition the graph into communities of densely connected nodes.

The detected communities often differ from the formal org chart; the
gap between the two is where cross-team dependencies hide.

Examples:
  orgatlas communities
  orgatlas communities --resolution 1.2 --min-size 3
  orgatlas communities --rel-types REPORTS_TO,REVIEWED_BY --json`,
		Run: runCommunities, // Defined in cmd_communities.go
	}

	pathCmd = &cobra.Command{
		Use:   "path FROM TO",
		Short: "Find the shortest path between two nodes",
		Long: `Find the shortest relationship path between two nodes.

Examples:
  orgatlas path emp-1042 emp-7
  orgatlas path emp-1042 emp-7 --rel-types REPORTS_TO --direction outgoing`,
		Args: cobra.ExactArgs(2),
		Run:  runPath, // Defined in cmd_path.go
	}

	distanceCmd = &cobra.Command{
		Use:   "distance A B",
		Short: "Compute the org distance between two employees",
		Long: `Compute the number of reporting-line hops separating two employees,
				ignoring edge direction. -1 means no connection exists.`,
		Args: cobra.ExactArgs(2),
		Run:  runDistance, // Defined in cmd_path.go
	}

	riskCmd = &cobra.Command{
		Use:     "flight-risk",
		Aliases: []string{"risk"},
		Short:   "List employees whose departure would hurt the most",
		Run:     runFlightRisk, // Defined in cmd_risk.go
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show snapshot statistics and span-of-control summary",
		Run:   runStats, // Defined in cmd_stats.go
	}

	// --- Store ---
	storeCmd = &cobra.Command{
		Use:   "store",
		Short: "Manage the persistent snapshot record store",
	}
	storeImportCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Import JSONL snapshot records into the record store",
		Args:  cobra.ExactArgs(1),
		Run:   runStoreImport, // Defined in cmd_store.go
	}
	storeStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Build a snapshot from the record store and show its statistics",
		Run:   runStoreStats, // Defined in cmd_store.go
	}
	storeClearCmd = &cobra.Command{
		Use:   "clear",
		Short: "DANGER: Delete all records from the record store",
		Run:   runStoreClear, // Defined in cmd_store.go
	}
)

// init runs when the Go program starts
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "orgatlas.yaml",
		"Path to the optional YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"Path to the JSONL snapshot file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "",
		"Path to a YAML cascade catalog (built-in catalog if unset)")
	rootCmd.PersistentFlags().BoolVar(&strictEndpoints, "strict", false,
		"Reject edges whose endpoints don't match the relationship schema")
	rootCmd.PersistentFlags().BoolVar(&skipUnknown, "skip-unknown", false,
		"Skip records with unknown entity or relationship types")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON for scripting")
	rootCmd.PersistentFlags().BoolVar(&compactOutput, "compact", false,
		"JSON output without indentation")
	rootCmd.PersistentFlags().BoolVar(&quietOutput, "quiet", false,
		"No output, exit code only")
	rootCmd.PersistentFlags().StringVar(&personalityLevel, "personality", "",
		"Output style: full (default), standard, minimal, or machine (scripting)")

	// Server
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug mode (verbose request logging)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the snapshot when the data file changes")
	serveCmd.Flags().Float64Var(&serveRateLimit, "rate-limit", 0, "Requests per second across all clients (0 = unlimited)")
	serveCmd.Flags().IntVar(&serveRateBurst, "rate-burst", 10, "Burst size for the rate limiter")
	serveCmd.Flags().StringVar(&serveLogDir, "log-dir", "", "Directory for JSON log files (stderr only if unset)")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Minimum log level: debug, info, warn, error")
	serveCmd.Flags().BoolVar(&serveNoTelem, "no-telemetry", false, "Disable OpenTelemetry traces and metrics")

	// Analysis commands
	rootCmd.AddCommand(cascadeCmd)
	cascadeCmd.Flags().IntVar(&cascadeDepth, "max-depth", 0,
		"Maximum cascade depth (0 = unlimited)")
	cascadeCmd.Flags().IntVar(&cascadeMaxItems, "max-items", 0,
		"Maximum items listed per category (0 = default)")
	cascadeCmd.Flags().IntVar(&cascadeMaxNodes, "max-nodes", 0,
		"Maximum nodes the indirect-report walk may visit (0 = default)")

	rootCmd.AddCommand(centralityCmd)
	centralityCmd.Flags().IntVar(&centralityTop, "top", 10, "Number of ranked nodes to return")
	centralityCmd.Flags().StringSliceVar(&centralityNodeTypes, "node-types", nil,
		"Restrict analysis to these entity types")
	centralityCmd.Flags().StringSliceVar(&centralityRelTypes, "rel-types", nil,
		"Restrict analysis to these relationship types")
	centralityCmd.Flags().BoolVar(&centralityDirected, "directed", false,
		"Respect edge direction (betweenness and pagerank)")
	centralityCmd.Flags().IntVar(&centralityMaxSources, "max-sources", 0,
		"Sample this many betweenness sources (0 = exact)")

	rootCmd.AddCommand(communitiesCmd)
	communitiesCmd.Flags().Float64Var(&communitiesResolution, "resolution", 0,
		"Louvain resolution parameter (0 = default 1.0)")
	communitiesCmd.Flags().IntVar(&communitiesMinSize, "min-size", 0,
		"Omit communities smaller than this from the listing")
	communitiesCmd.Flags().StringSliceVar(&communitiesNodeTypes, "node-types", nil,
		"Restrict detection to these entity types")
	communitiesCmd.Flags().StringSliceVar(&communitiesRelTypes, "rel-types", nil,
		"Restrict detection to these relationship types")

	rootCmd.AddCommand(pathCmd)
	pathCmd.Flags().StringSliceVar(&pathRelTypes, "rel-types", nil,
		"Restrict traversal to these relationship types")
	pathCmd.Flags().StringVar(&pathDirection, "direction", "both",
		"Traversal direction: outgoing, incoming, or both")
	pathCmd.Flags().IntVar(&pathMaxDepth, "max-depth", 0,
		"Maximum path length (0 = unlimited)")

	rootCmd.AddCommand(distanceCmd)

	rootCmd.AddCommand(riskCmd)
	riskCmd.Flags().IntVar(&riskTop, "top", 10, "Number of entries to return")

	rootCmd.AddCommand(statsCmd)

	// Store commands
	rootCmd.AddCommand(storeCmd)
	storeCmd.PersistentFlags().StringVar(&storeDBPath, "db", "",
		"Directory for the record store database files")
	storeCmd.AddCommand(storeImportCmd)
	storeImportCmd.Flags().IntVar(&storeBatchSize, "batch-size", 0,
		"Records per write batch (0 = default)")
	storeCmd.AddCommand(storeStatsCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeClearCmd.Flags().Bool("force", false, "Required to confirm the deletion of all records.")
}
