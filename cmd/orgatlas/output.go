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
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/OrgAtlas/pkg/ux"
	"github.com/AleutianAI/OrgAtlas/services/insight"
	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Operation completed with findings (e.g. no path found)
	CLIExitError    = 2 // Operation failed
)

// OutputConfig controls output behavior.
type OutputConfig struct {
	JSON    bool // Output as JSON
	Compact bool // No indentation
	Quiet   bool // No output, exit code only
}

// outputConfig assembles the active output configuration from the
// global flags.
func outputConfig() OutputConfig {
	return OutputConfig{
		JSON:    jsonOutput,
		Compact: compactOutput,
		Quiet:   quietOutput,
	}
}

// CommandResult wraps command output with metadata.
type CommandResult struct {
	APIVersion string      `json:"api_version"`
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// OutputJSON writes structured data as JSON to stdout.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes an error in the appropriate format.
//
// # Inputs
//
//   - jsonMode: If true, output as JSON to stdout.
//   - msg: Human-readable error message.
//   - err: The underlying error.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
		result := CommandResult{
			APIVersion: "1.0",
			Timestamp:  time.Now(),
			Success:    false,
			Error:      fmt.Sprintf("%s: %v", msg, err),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	}
}

// OutputResult handles all output scenarios with proper formatting.
//
// # Inputs
//
//   - cfg: Output configuration.
//   - cmd: Command name for metadata.
//   - start: Start time for duration calculation.
//   - data: The data to output.
//   - hasFindings: Whether the operation produced findings (for exit code).
//   - err: Any error that occurred.
//
// # Outputs
//
//   - int: The exit code to use.
func OutputResult(cfg OutputConfig, cmd string, start time.Time, data interface{}, hasFindings bool, err error) int {
	if cfg.Quiet {
		if err != nil {
			return CLIExitError
		}
		if hasFindings {
			return CLIExitFindings
		}
		return CLIExitSuccess
	}

	if err != nil {
		OutputError(cfg.JSON, "Command failed", err)
		return CLIExitError
	}

	if cfg.JSON {
		result := CommandResult{
			APIVersion: "1.0",
			Command:    cmd,
			Timestamp:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
			Success:    true,
			Data:       data,
		}
		if encErr := OutputJSON(result, cfg.Compact); encErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", encErr)
			return CLIExitError
		}
	}

	if hasFindings {
		return CLIExitFindings
	}
	return CLIExitSuccess
}

// RunOutput handles the error/JSON/text tail shared by every query
// command: errors and JSON go through OutputResult, plain text goes
// through the renderer.
func RunOutput(cfg OutputConfig, cmd string, start time.Time, data interface{}, hasFindings bool, err error, render func()) int {
	code := OutputResult(cfg, cmd, start, data, hasFindings, err)
	if err == nil && !cfg.JSON && !cfg.Quiet && render != nil {
		render()
	}
	return code
}

// =============================================================================
// TEXT RENDERERS
// =============================================================================

// renderCascade prints a departure impact report.
func renderCascade(resp *insight.CascadeResponse) {
	ux.Title("Departure cascade")
	fmt.Print(graph.FormatImpactReport(resp.Report))
	ux.Muted(fmt.Sprintf("analyzed in %dms", resp.ElapsedMs))
}

// renderCentrality prints a ranked centrality table.
func renderCentrality(resp *insight.CentralityResponse) {
	ux.Title(fmt.Sprintf("Centrality: %s", resp.Metric))
	ux.KeyValue("Nodes analyzed", fmt.Sprintf("%d", resp.NodeCount))
	if resp.Approximate {
		ux.Warning("betweenness sampled a subset of sources; scores are approximate")
	}
	if resp.Iterations > 0 {
		converged := "converged"
		if !resp.Converged {
			converged = "hit iteration cap"
		}
		ux.KeyValue("Iterations", fmt.Sprintf("%d (%s)", resp.Iterations, converged))
	}
	for _, node := range resp.Ranked {
		fmt.Printf("  %3d. %-24s %.4f\n", node.Rank, node.NodeID, node.Score)
	}
	ux.Muted(fmt.Sprintf("analyzed in %dms", resp.ElapsedMs))
}

// renderCommunities prints the community partition.
func renderCommunities(resp *insight.CommunitiesResponse) {
	ux.Title("Communities")
	ux.KeyValue("Communities", fmt.Sprintf("%d", len(resp.Communities)))
	ux.KeyValue("Modularity", fmt.Sprintf("%.4f", resp.Modularity))
	ux.KeyValue("Passes", fmt.Sprintf("%d", resp.Passes))
	for i, members := range resp.Communities {
		fmt.Printf("  %s %d (%d members)\n", ux.IconNode, i, len(members))
		fmt.Printf("    %s\n", strings.Join(members, ", "))
	}
	ux.Muted(fmt.Sprintf("analyzed in %dms", resp.ElapsedMs))
}

// renderPath prints a shortest-path result.
func renderPath(resp *insight.PathResponse) {
	if !resp.Path.Found {
		ux.Warning("no path found")
		return
	}
	ux.Title(fmt.Sprintf("Shortest path (%d hops)", resp.Path.Length))
	fmt.Printf("  %s\n", strings.Join(resp.Path.NodeIDs, fmt.Sprintf(" %s ", ux.IconArrow)))
	ux.Muted(fmt.Sprintf("analyzed in %dms", resp.ElapsedMs))
}

// renderDistance prints an org-distance result.
func renderDistance(resp *insight.DistanceResponse) {
	if resp.Distance < 0 {
		ux.Warning("no connection between the two employees")
		return
	}
	ux.KeyValue("Org distance", fmt.Sprintf("%d", resp.Distance))
}

// renderFlightRisk prints the flight-risk ranking.
func renderFlightRisk(resp *insight.FlightRiskResponse) {
	ux.Title("Flight risk")
	for i, entry := range resp.Entries {
		fmt.Printf("  %3d. %-24s impact %-6d (%d direct reports)\n",
			i+1, entry.Name, entry.ImpactScore, entry.DirectReports)
	}
	ux.Muted(fmt.Sprintf("analyzed in %dms", resp.ElapsedMs))
}

// renderStats prints snapshot statistics.
func renderStats(resp *insight.StatsResponse) {
	ux.Title("Snapshot")
	ux.KeyValue("Source", resp.Source)
	ux.KeyValue("Loaded at", resp.LoadedAt)
	ux.KeyValue("Nodes", fmt.Sprintf("%d", resp.Stats.NodeCount))
	ux.KeyValue("Edges", fmt.Sprintf("%d", resp.Stats.EdgeCount))
	for _, name := range sortedKeys(resp.Stats.NodesByType) {
		ux.KeyValue("  "+name, fmt.Sprintf("%d", resp.Stats.NodesByType[name]))
	}
	for _, name := range sortedKeys(resp.Stats.EdgesByType) {
		ux.KeyValue("  "+name, fmt.Sprintf("%d", resp.Stats.EdgesByType[name]))
	}
	if span := resp.SpanOfControl; span != nil && span.Managers > 0 {
		ux.Title("Span of control")
		ux.KeyValue("Managers", fmt.Sprintf("%d", span.Managers))
		ux.KeyValue("Min/Mean/Max", fmt.Sprintf("%d / %.1f / %d", span.Min, span.Mean, span.Max))
	}
}

// sortedKeys returns a map's keys in ascending order for stable output.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
