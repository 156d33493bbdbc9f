// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package insight

import (
	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// CascadeRequest is the request body for POST /v1/insight/cascade.
type CascadeRequest struct {
	// NodeID is the ID of the departing node.
	NodeID string `json:"node_id" binding:"required"`

	// MaxDepth limits how deep the indirect-report walk goes, counted
	// in reporting hops from the departing node. Zero or negative
	// means unbounded.
	MaxDepth int `json:"max_depth,omitempty"`

	// MaxItems caps the number of named items per impact category.
	// Counts are unaffected. Zero means no cap.
	MaxItems int `json:"max_items,omitempty"`

	// MaxNodes caps the number of nodes the indirect-report walk may
	// visit; a capped report is flagged truncated. Zero means the
	// engine default.
	MaxNodes int `json:"max_nodes,omitempty"`
}

// CascadeResponse is the response for POST /v1/insight/cascade.
type CascadeResponse struct {
	// Report is the departure impact report.
	Report *graph.ImpactReport `json:"report"`

	// ElapsedMs is the analysis time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// CentralityRequest is the request body for POST /v1/insight/centrality.
type CentralityRequest struct {
	// Metric is "degree", "betweenness", or "pagerank".
	Metric string `json:"metric" binding:"required"`

	// NodeTypes restricts the computation to the named entity types.
	// Empty means all.
	NodeTypes []string `json:"node_types,omitempty"`

	// RelTypes restricts the computation to the named relationship
	// types. Empty means all.
	RelTypes []string `json:"rel_types,omitempty"`

	// Directed treats edges as directed for degree and betweenness.
	Directed bool `json:"directed,omitempty"`

	// MaxSources caps betweenness source sampling. Zero means exact.
	MaxSources int `json:"max_sources,omitempty"`

	// Top is the number of ranked entries to return. Zero or negative
	// means all.
	Top int `json:"top,omitempty"`
}

// CentralityResponse is the response for POST /v1/insight/centrality.
type CentralityResponse struct {
	// Metric is the measure that was computed.
	Metric string `json:"metric"`

	// NodeCount is the number of nodes in the analyzed subgraph.
	NodeCount int `json:"node_count"`

	// Ranked lists nodes by score descending, truncated to the
	// requested top count.
	Ranked []graph.RankedNode `json:"ranked"`

	// Approximate is true when betweenness sampled a subset of sources.
	Approximate bool `json:"approximate"`

	// Converged is true when pagerank reached its tolerance. Always
	// true for degree and betweenness.
	Converged bool `json:"converged"`

	// Iterations is the pagerank iteration count. Zero otherwise.
	Iterations int `json:"iterations"`

	// ElapsedMs is the analysis time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// CommunitiesRequest is the request body for POST /v1/insight/communities.
type CommunitiesRequest struct {
	// NodeTypes restricts detection to the named entity types. Empty
	// means all.
	NodeTypes []string `json:"node_types,omitempty"`

	// RelTypes restricts detection to the named relationship types.
	// Empty means all.
	RelTypes []string `json:"rel_types,omitempty"`

	// Resolution adjusts community granularity. Zero means the
	// default of 1.0; higher values produce smaller communities.
	Resolution float64 `json:"resolution,omitempty"`

	// MinCommunitySize hides communities smaller than this from the
	// membership listing.
	MinCommunitySize int `json:"min_community_size,omitempty"`
}

// CommunitiesResponse is the response for POST /v1/insight/communities.
type CommunitiesResponse struct {
	// Communities lists member node IDs per community, largest first.
	Communities [][]string `json:"communities"`

	// Assignments maps node ID to community index.
	Assignments map[string]int `json:"assignments"`

	// Modularity is the final partition's modularity score.
	Modularity float64 `json:"modularity"`

	// Passes is the number of contraction passes performed.
	Passes int `json:"passes"`

	// Converged is true when detection stopped by convergence rather
	// than a cap.
	Converged bool `json:"converged"`

	// ElapsedMs is the analysis time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// PathRequest is the request body for POST /v1/insight/path.
type PathRequest struct {
	// FromID is the ID of the start node.
	FromID string `json:"from_id" binding:"required"`

	// ToID is the ID of the end node.
	ToID string `json:"to_id" binding:"required"`

	// RelTypes restricts the search to the named relationship types.
	// Empty means all.
	RelTypes []string `json:"rel_types,omitempty"`

	// Direction is "outgoing", "incoming", or "both". Empty means
	// "both".
	Direction string `json:"direction,omitempty"`

	// MaxDepth bounds the search depth. Zero or negative means
	// unbounded.
	MaxDepth int `json:"max_depth,omitempty"`
}

// PathResponse is the response for POST /v1/insight/path.
type PathResponse struct {
	// Path is the shortest path found, if any.
	Path *graph.PathResult `json:"path"`

	// ElapsedMs is the search time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// DistanceRequest is the request body for POST /v1/insight/distance.
type DistanceRequest struct {
	// FromID is the ID of the first node.
	FromID string `json:"from_id" binding:"required"`

	// ToID is the ID of the second node.
	ToID string `json:"to_id" binding:"required"`
}

// DistanceResponse is the response for POST /v1/insight/distance.
type DistanceResponse struct {
	// Distance is the undirected hop count along the reporting
	// hierarchy, or -1 when the nodes are not connected by it.
	Distance int `json:"distance"`
}

// FlightRiskResponse is the response for GET /v1/insight/flight-risk.
type FlightRiskResponse struct {
	// Entries ranks employees by departure impact, highest first.
	Entries []graph.FlightRiskEntry `json:"entries"`

	// ElapsedMs is the analysis time in milliseconds.
	ElapsedMs int64 `json:"elapsed_ms"`
}

// ReloadRequest is the request body for POST /v1/insight/snapshot/reload.
type ReloadRequest struct {
	// Path overrides the configured data path for this reload. The
	// override becomes the new configured path on success.
	Path string `json:"path,omitempty"`
}

// ReloadResponse is the response for POST /v1/insight/snapshot/reload.
type ReloadResponse struct {
	// Nodes and Edges are the counts loaded into the new snapshot.
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`

	// Skipped is the number of records dropped by unknown-type
	// skipping, when enabled.
	Skipped int `json:"skipped"`

	// LoadTimeMs is the load time in milliseconds.
	LoadTimeMs int64 `json:"load_time_ms"`
}

// StatsResponse is the response for GET /v1/insight/stats.
type StatsResponse struct {
	// Stats summarizes the loaded snapshot.
	Stats graph.SnapshotStats `json:"stats"`

	// SpanOfControl summarizes direct-report counts across managers.
	SpanOfControl *graph.SpanOfControlStats `json:"span_of_control"`

	// Source is the path the snapshot was loaded from.
	Source string `json:"source"`

	// LoadedAt is the snapshot load time in RFC 3339 format.
	LoadedAt string `json:"loaded_at"`
}

// HealthResponse is the response for GET /v1/insight/health.
type HealthResponse struct {
	// Status is "healthy" or "degraded".
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ReadyResponse is the response for GET /v1/insight/ready.
type ReadyResponse struct {
	// Ready is true if a snapshot is loaded and queries can be served.
	Ready bool `json:"ready"`

	// NodeCount is the loaded snapshot's node count, zero when no
	// snapshot is loaded.
	NodeCount int `json:"node_count"`
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// Details provides additional error context (optional).
	Details string `json:"details,omitempty"`
}
