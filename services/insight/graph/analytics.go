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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Analytics is the analysis facade over a frozen snapshot.
//
// Description:
//
//	Bundles a frozen snapshot with the relationship catalog's cascade
//	spec and exposes the analysis operations with tracing and metrics.
//	All methods are read-only and safe for concurrent use.
type Analytics struct {
	snap *Snapshot
	spec CascadeSpec
	log  *slog.Logger
}

// NewAnalytics creates the analytics facade.
//
// Inputs:
//
//	snap - A frozen snapshot. Must not be nil.
//	spec - The cascade spec (hierarchy, category probes, weights).
//
// Outputs:
//
//	*Analytics - The facade.
//	error - Non-nil when snap is nil, not frozen, or the spec is invalid.
func NewAnalytics(snap *Snapshot, spec CascadeSpec) (*Analytics, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}
	if !snap.IsFrozen() {
		return nil, ErrSnapshotNotFrozen
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("cascade spec: %w", err)
	}
	return &Analytics{
		snap: snap,
		spec: spec,
		log:  slog.Default().With("component", "graph.analytics"),
	}, nil
}

// Snapshot returns the underlying frozen snapshot.
func (a *Analytics) Snapshot() *Snapshot {
	return a.snap
}

// Stats returns statistics for the underlying snapshot.
func (a *Analytics) Stats() SnapshotStats {
	return a.snap.Stats()
}

// Cascade analyzes the impact of one node's departure.
//
// See Snapshot.Cascade for semantics. The catalog's cascade spec
// supplies the hierarchy and category probes.
func (a *Analytics) Cascade(ctx context.Context, rootID string, opts CascadeOptions) (*ImpactReport, error) {
	ctx, span := tracer.Start(ctx, "analytics.cascade")
	defer span.End()
	span.SetAttributes(attribute.String("root_id", rootID))

	start := time.Now()
	report, err := a.snap.Cascade(ctx, rootID, a.spec, opts)
	recordAnalysis(ctx, "cascade", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	a.log.DebugContext(ctx, "cascade computed",
		"root_id", rootID,
		"impact_score", report.ImpactScore,
		"direct", report.DirectCount,
		"indirect", report.IndirectCount,
		"duration_ms", time.Since(start).Milliseconds())
	return report, nil
}

// Centrality computes a centrality measure over the snapshot.
//
// See Snapshot.Centrality for semantics.
func (a *Analytics) Centrality(ctx context.Context, opts CentralityOptions) (*CentralityResult, error) {
	ctx, span := tracer.Start(ctx, "analytics.centrality")
	defer span.End()
	span.SetAttributes(attribute.String("metric", string(opts.Metric)))

	start := time.Now()
	result, err := a.snap.Centrality(ctx, opts)
	recordAnalysis(ctx, "centrality."+string(opts.Metric), start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	a.log.DebugContext(ctx, "centrality computed",
		"metric", string(opts.Metric),
		"nodes", result.NodeCount,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// DetectCommunities partitions the snapshot into communities.
//
// See Snapshot.DetectCommunities for semantics.
func (a *Analytics) DetectCommunities(ctx context.Context, opts CommunityOptions) (*CommunityResult, error) {
	ctx, span := tracer.Start(ctx, "analytics.communities")
	defer span.End()

	start := time.Now()
	result, err := a.snap.DetectCommunities(ctx, opts)
	recordAnalysis(ctx, "communities", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	a.log.DebugContext(ctx, "communities detected",
		"communities", len(result.Communities),
		"modularity", result.Modularity,
		"passes", result.Passes,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

// ShortestPath finds a minimum-hop path between two nodes.
//
// See Snapshot.ShortestPath for semantics.
func (a *Analytics) ShortestPath(ctx context.Context, sourceID, targetID string, opts TraverseOptions) (*PathResult, error) {
	ctx, span := tracer.Start(ctx, "analytics.path")
	defer span.End()

	start := time.Now()
	result, err := a.snap.ShortestPath(ctx, sourceID, targetID, opts)
	recordAnalysis(ctx, "path", start, err)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

// OrgDistance computes the undirected hop distance between two nodes
// in the reporting hierarchy.
//
// See Snapshot.OrgDistance for semantics. The catalog's hierarchy
// relationship type is used.
func (a *Analytics) OrgDistance(ctx context.Context, aID, bID string) (int, error) {
	ctx, span := tracer.Start(ctx, "analytics.org_distance")
	defer span.End()

	start := time.Now()
	distance, err := a.snap.OrgDistance(ctx, aID, bID, a.spec.Hierarchy)
	recordAnalysis(ctx, "org_distance", start, err)
	if err != nil {
		span.RecordError(err)
		return -1, err
	}
	return distance, nil
}

// FlightRiskEntry is one employee in the flight-risk ranking.
type FlightRiskEntry struct {
	// NodeID is the employee node's ID.
	NodeID string `json:"node_id"`

	// Name is the employee's display name.
	Name string `json:"name"`

	// ImpactScore is the employee's weighted departure impact.
	ImpactScore int `json:"impact_score"`

	// DirectReports is the employee's direct report count.
	DirectReports int `json:"direct_reports"`
}

// FlightRisk ranks employees by the impact their departure would have.
//
// Description:
//
//	Runs the cascade analysis for every employee node and ranks by
//	impact score descending, node ID ascending on ties. Cascades run
//	in parallel, bounded by GOMAXPROCS; the ranking itself is
//	deterministic.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	top - Number of entries to return. Non-positive means all.
//
// Outputs:
//
//	[]FlightRiskEntry - The ranking, highest impact first.
//	error - ctx.Err() on cancellation, or a cascade failure.
func (a *Analytics) FlightRisk(ctx context.Context, top int) ([]FlightRiskEntry, error) {
	ctx, span := tracer.Start(ctx, "analytics.flight_risk")
	defer span.End()
	start := time.Now()

	employees := a.snap.NodesOfType(NodeTypeEmployee)
	entries := make([]FlightRiskEntry, len(employees))

	// Item lists aren't needed for ranking; keep the per-employee
	// cascade cheap.
	opts := DefaultCascadeOptions()
	opts.MaxItems = 1

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	for i, emp := range employees {
		g.Go(func() error {
			report, err := a.snap.Cascade(gctx, emp.ID, a.spec, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			entries[i] = FlightRiskEntry{
				NodeID:        emp.ID,
				Name:          report.RootName,
				ImpactScore:   report.ImpactScore,
				DirectReports: report.DirectCount,
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		recordAnalysis(ctx, "flight_risk", start, err)
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ImpactScore != entries[j].ImpactScore {
			return entries[i].ImpactScore > entries[j].ImpactScore
		}
		return entries[i].NodeID < entries[j].NodeID
	})

	if top > 0 && top < len(entries) {
		entries = entries[:top]
	}

	recordAnalysis(ctx, "flight_risk", start, nil)
	a.log.DebugContext(ctx, "flight risk ranked",
		"employees", len(employees),
		"duration_ms", time.Since(start).Milliseconds())
	return entries, nil
}

// SpanOfControlStats summarizes direct-report counts across managers.
type SpanOfControlStats struct {
	// Managers is the number of nodes with at least one direct report.
	Managers int `json:"managers"`

	// Min is the smallest direct-report count among managers.
	Min int `json:"min"`

	// Max is the largest direct-report count among managers.
	Max int `json:"max"`

	// Mean is the average direct-report count among managers.
	Mean float64 `json:"mean"`

	// ByManager maps manager node ID to direct-report count.
	ByManager map[string]int `json:"by_manager"`
}

// SpanOfControl computes direct-report statistics across all managers.
//
// Description:
//
//	A manager is any node with at least one incoming hierarchy edge.
//	Parallel hierarchy edges from the same report count once.
func (a *Analytics) SpanOfControl(ctx context.Context) (*SpanOfControlStats, error) {
	_, span := tracer.Start(ctx, "analytics.span_of_control")
	defer span.End()

	stats := &SpanOfControlStats{
		ByManager: make(map[string]int),
	}

	seen := make(map[string]bool)
	for _, edge := range a.snap.EdgesOfType(a.spec.Hierarchy) {
		key := edge.FromID + "\x00" + edge.ToID
		if seen[key] {
			continue
		}
		seen[key] = true
		stats.ByManager[edge.ToID]++
	}

	if len(stats.ByManager) == 0 {
		return stats, nil
	}

	stats.Managers = len(stats.ByManager)
	stats.Min = -1
	total := 0
	for _, count := range stats.ByManager {
		total += count
		if stats.Min < 0 || count < stats.Min {
			stats.Min = count
		}
		if count > stats.Max {
			stats.Max = count
		}
	}
	stats.Mean = float64(total) / float64(stats.Managers)

	return stats, nil
}
