// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package graph

import (
	"fmt"
	"sort"
	"strings"
)

// RankedNode is one entry of a centrality ranking.
type RankedNode struct {
	// NodeID is the ranked node's ID.
	NodeID string `json:"node_id"`

	// Score is the node's centrality score.
	Score float64 `json:"score"`

	// Rank is the 1-based position in the ranking.
	Rank int `json:"rank"`
}

// rankScores orders scores descending, breaking ties by ascending node
// ID so rankings are stable across runs.
func rankScores(scores map[string]float64) []RankedNode {
	ranked := make([]RankedNode, 0, len(scores))
	for id, score := range scores {
		ranked = append(ranked, RankedNode{NodeID: id, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].NodeID < ranked[j].NodeID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Top returns the first n entries of the ranking, or all of them when
// fewer exist.
func (r *CentralityResult) Top(n int) []RankedNode {
	if n <= 0 || n >= len(r.Ranked) {
		return r.Ranked
	}
	return r.Ranked[:n]
}

// FormatImpactReport renders an impact report as a plain-text summary.
//
// Description:
//
//	Produces the human-readable departure summary: the headline
//	counts, then each category with its items. Category order is
//	alphabetical so output is stable.
func FormatImpactReport(report *ImpactReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Departure impact: %s (%s)\n", report.RootName, report.RootID)
	fmt.Fprintf(&b, "  Impact score:     %d\n", report.ImpactScore)
	fmt.Fprintf(&b, "  Direct reports:   %d\n", report.DirectCount)
	if report.Truncated {
		fmt.Fprintf(&b, "  Indirect reports: %d (walk truncated, lower bound)\n", report.IndirectCount)
	} else {
		fmt.Fprintf(&b, "  Indirect reports: %d\n", report.IndirectCount)
	}
	fmt.Fprintf(&b, "  Depth reached:    %d\n", report.MaxDepthReached)

	names := make([]string, 0, len(report.Categories))
	for name := range report.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cat := report.Categories[name]
		fmt.Fprintf(&b, "  %s: %d\n", name, cat.Count)
		for _, item := range cat.Items {
			fmt.Fprintf(&b, "    - %s\n", item)
		}
	}

	return b.String()
}

// FormatCentrality renders the top entries of a centrality ranking as
// a plain-text summary.
func FormatCentrality(result *CentralityResult, top int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Centrality: %s (%d nodes", result.Metric, result.NodeCount)
	if result.Approximate {
		b.WriteString(", approximate")
	}
	if result.Metric == MetricPageRank {
		fmt.Fprintf(&b, ", %d iterations", result.Iterations)
		if !result.Converged {
			b.WriteString(", not converged")
		}
	}
	b.WriteString(")\n")

	for _, entry := range result.Top(top) {
		fmt.Fprintf(&b, "  %3d. %-24s %.6f\n", entry.Rank, entry.NodeID, entry.Score)
	}

	return b.String()
}

// FormatCommunities renders a community partition as a plain-text
// summary.
func FormatCommunities(result *CommunityResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Communities: %d (modularity %.4f, %d passes", len(result.Communities), result.Modularity, result.Passes)
	if !result.Converged {
		b.WriteString(", not converged")
	}
	b.WriteString(")\n")

	for i, members := range result.Communities {
		fmt.Fprintf(&b, "  [%d] %d members: %s\n", i, len(members), strings.Join(members, ", "))
	}

	return b.String()
}

// FormatPath renders a shortest-path result as a plain-text summary.
func FormatPath(result *PathResult) string {
	if !result.Found {
		return "No path found\n"
	}
	return fmt.Sprintf("Path (%d hops): %s\n", result.Length, strings.Join(result.NodeIDs, " -> "))
}
