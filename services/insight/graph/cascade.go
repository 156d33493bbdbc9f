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
	"sort"
)

// ProbeStep is one hop of a category probe: follow edges of one
// relationship type in one direction.
type ProbeStep struct {
	// Rel is the relationship type to follow.
	Rel RelType

	// Direction selects the edge orientation to follow.
	Direction Direction
}

// CategorySpec describes one impact category: a short edge walk from
// the departing node to the entities it touches.
//
// A single-step probe captures direct dependencies (interviews the node
// conducts, skills it holds). A two-step probe hops through an
// intermediate entity, e.g. departing reviewer -> review -> reviewee.
type CategorySpec struct {
	// Name identifies the category in reports ("reviewer_for",
	// "interviews", "skills_lost", "goals_at_risk").
	Name string

	// Steps is the edge walk, applied in order. Must have 1 or 2 steps.
	Steps []ProbeStep

	// ExcludeAttr, when non-empty, drops terminal entities whose
	// attribute ExcludeAttr equals ExcludeValue. Used to skip completed
	// goals.
	ExcludeAttr  string
	ExcludeValue string

	// SortByFrequency orders items by how widely held the terminal
	// entity is across the organization (most common first), breaking
	// ties by name. When false, items sort by name alone.
	SortByFrequency bool

	// Weight is the category's contribution per counted entity to the
	// overall impact score.
	Weight int
}

// CascadeSpec configures the departure impact analysis.
type CascadeSpec struct {
	// Hierarchy is the relationship type forming the reporting chain.
	Hierarchy RelType

	// DirectWeight is the impact score contribution per direct report.
	DirectWeight int

	// Categories are the impact probes to run from the departing node.
	Categories []CategorySpec
}

// Validate checks the spec for structural problems.
func (c *CascadeSpec) Validate() error {
	if c.Hierarchy <= RelTypeUnknown || c.Hierarchy >= NumRelTypes {
		return fmt.Errorf("%w: hierarchy %d", ErrInvalidRelType, c.Hierarchy)
	}
	if c.DirectWeight < 0 {
		return fmt.Errorf("invalid direct weight: %d", c.DirectWeight)
	}
	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category[%d]: empty name", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("category[%d]: duplicate name %q", i, cat.Name)
		}
		seen[cat.Name] = true
		if len(cat.Steps) < 1 || len(cat.Steps) > 2 {
			return fmt.Errorf("category %q: must have 1 or 2 steps, got %d", cat.Name, len(cat.Steps))
		}
		for j, step := range cat.Steps {
			if step.Rel <= RelTypeUnknown || step.Rel >= NumRelTypes {
				return fmt.Errorf("%w: category %q step[%d]", ErrInvalidRelType, cat.Name, j)
			}
			if step.Direction != DirectionOutgoing && step.Direction != DirectionIncoming {
				return fmt.Errorf("category %q step[%d]: invalid direction %d", cat.Name, j, step.Direction)
			}
		}
		if cat.Weight < 0 {
			return fmt.Errorf("category %q: invalid weight %d", cat.Name, cat.Weight)
		}
	}
	return nil
}

// CascadeOptions bounds a single cascade run.
type CascadeOptions struct {
	// MaxDepth limits how deep below the departing node the indirect
	// report walk goes, counted in reporting hops from the departing
	// node (direct reports are depth 1). Negative means unbounded.
	// Default: -1
	MaxDepth int

	// MaxItems caps the number of named items reported per category.
	// Counts are not affected. Zero or negative means no cap.
	// Default: 0 (no cap)
	MaxItems int

	// MaxNodes caps the number of nodes the indirect-report walk may
	// visit. Hitting the cap marks the report Truncated. Zero or
	// negative means the default traversal limit.
	// Default: 0 (DefaultTraverseLimit)
	MaxNodes int
}

// DefaultCascadeOptions returns sensible defaults for cascade analysis.
func DefaultCascadeOptions() CascadeOptions {
	return CascadeOptions{
		MaxDepth: -1,
		MaxItems: 0,
	}
}

// CategoryImpact is the result of one category probe.
type CategoryImpact struct {
	// Count is the number of affected entities in this category.
	Count int `json:"count"`

	// Items names the affected entities, ordered per the category's
	// sort rule. May be capped by CascadeOptions.MaxItems.
	Items []string `json:"items"`
}

// ImpactReport describes the organizational fallout of one departure.
type ImpactReport struct {
	// RootID is the departing node's ID.
	RootID string `json:"root_id"`

	// RootName is the departing node's display name.
	RootName string `json:"root_name"`

	// DirectCount is the number of direct reports losing their manager.
	DirectCount int `json:"direct_count"`

	// DirectReports names the direct reports, sorted by name.
	DirectReports []string `json:"direct_reports"`

	// IndirectCount is the number of transitive reports below the
	// direct reports.
	IndirectCount int `json:"indirect_count"`

	// Categories maps category name to its impact.
	Categories map[string]CategoryImpact `json:"categories"`

	// MaxDepthReached is the deepest reporting level below the
	// departing node that the walk reached (direct reports are 1).
	MaxDepthReached int `json:"max_depth_reached"`

	// Truncated is true when the indirect-report walk stopped at its
	// node cap. IndirectCount and MaxDepthReached are then lower
	// bounds, not exact values.
	Truncated bool `json:"truncated"`

	// ImpactScore is the weighted severity score:
	// direct reports times the direct weight, plus each category's
	// count times its weight.
	ImpactScore int `json:"impact_score"`
}

// Cascade analyzes the impact of the given node leaving the organization.
//
// Description:
//
//	Computes the reporting fallout (direct and transitive reports) and
//	runs every category probe in the spec. A node with no relationships
//	yields a well-formed zero report. The snapshot must be frozen.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	rootID - ID of the departing node.
//	spec - Hierarchy, category probes, and score weights.
//	opts - Depth and item bounds.
//
// Outputs:
//
//	*ImpactReport - The full report. Never nil on success.
//	error - ErrSnapshotNotFrozen, ErrNodeNotFound, a spec validation
//	        error, or ctx.Err() on cancellation.
func (s *Snapshot) Cascade(ctx context.Context, rootID string, spec CascadeSpec, opts CascadeOptions) (*ImpactReport, error) {
	if s.state != SnapshotStateReadOnly {
		return nil, ErrSnapshotNotFrozen
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	root, ok := s.nodes[rootID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, rootID)
	}

	report := &ImpactReport{
		RootID:     rootID,
		RootName:   root.Name(),
		Categories: make(map[string]CategoryImpact, len(spec.Categories)),
	}

	// Reporting chain: direct reports are the incoming hierarchy edges.
	directIDs := make([]string, 0)
	directNames := make([]string, 0)
	directSeen := make(map[string]bool)
	for _, edge := range root.Incoming {
		if edge.Type != spec.Hierarchy || directSeen[edge.FromID] {
			continue
		}
		directSeen[edge.FromID] = true
		directIDs = append(directIDs, edge.FromID)
		directNames = append(directNames, s.nodes[edge.FromID].Name())
	}
	sort.Strings(directNames)
	report.DirectCount = len(directIDs)
	report.DirectReports = directNames
	if report.DirectCount > 0 {
		report.MaxDepthReached = 1
	}

	if len(directIDs) > 0 {
		indirect, err := s.indirectReports(ctx, rootID, directIDs, spec.Hierarchy, opts)
		if err != nil {
			return nil, err
		}
		report.IndirectCount = indirect.count
		report.Truncated = indirect.truncated
		if indirect.maxDepth > report.MaxDepthReached {
			report.MaxDepthReached = indirect.maxDepth
		}
	}

	for _, cat := range spec.Categories {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		report.Categories[cat.Name] = s.probeCategory(root, cat, opts.MaxItems)
	}

	report.ImpactScore = report.DirectCount * spec.DirectWeight
	for _, cat := range spec.Categories {
		report.ImpactScore += report.Categories[cat.Name].Count * cat.Weight
	}

	return report, nil
}

// indirectResult carries the transitive report walk outcome.
type indirectResult struct {
	count     int
	maxDepth  int
	truncated bool
}

// indirectReports walks the reporting chain below the direct reports
// with a shared frontier, so an employee reporting into two branches is
// counted once. Depths are in hops from the departing node.
func (s *Snapshot) indirectReports(ctx context.Context, rootID string, directIDs []string, hierarchy RelType, opts CascadeOptions) (indirectResult, error) {
	walkOpts := DefaultTraverseOptions()
	walkOpts.Direction = DirectionIncoming
	walkOpts.RelTypes = []RelType{hierarchy}
	if opts.MaxDepth >= 0 {
		// Direct reports sit at hierarchy depth 1; the walk starts there.
		walkOpts.MaxDepth = opts.MaxDepth - 1
	}
	if opts.MaxNodes > 0 {
		walkOpts.Limit = opts.MaxNodes
	}

	walk, err := s.TraverseMulti(ctx, directIDs, walkOpts)
	if err != nil {
		return indirectResult{}, err
	}

	result := indirectResult{truncated: walk.Truncated}
	for _, visit := range walk.Visited {
		// A cyclic reporting chain can walk back to the departing
		// node; it is not its own indirect report.
		if visit.Node.ID == rootID {
			continue
		}
		result.count++
		if visit.Depth+1 > result.maxDepth {
			result.maxDepth = visit.Depth + 1
		}
	}
	return result, nil
}

// probeCategory runs one category probe from the root node.
func (s *Snapshot) probeCategory(root *Node, cat CategorySpec, maxItems int) CategoryImpact {
	terminals := stepTargets([]*Node{root}, cat.Steps[0], s)
	if len(cat.Steps) == 2 {
		terminals = stepTargets(terminals, cat.Steps[1], s)
	}

	impact := CategoryImpact{Items: make([]string, 0, len(terminals))}
	type item struct {
		name string
		freq int
	}
	items := make([]item, 0, len(terminals))
	lastStep := cat.Steps[len(cat.Steps)-1]
	for _, terminal := range terminals {
		if terminal.ID == root.ID {
			continue
		}
		if cat.ExcludeAttr != "" && terminal.Attrs.GetString(cat.ExcludeAttr) == cat.ExcludeValue {
			continue
		}
		impact.Count++
		items = append(items, item{
			name: terminal.Name(),
			freq: s.terminalFrequency(terminal, lastStep),
		})
	}

	if cat.SortByFrequency {
		sort.Slice(items, func(i, j int) bool {
			if items[i].freq != items[j].freq {
				return items[i].freq > items[j].freq
			}
			return items[i].name < items[j].name
		})
	} else {
		sort.Slice(items, func(i, j int) bool {
			return items[i].name < items[j].name
		})
	}

	for _, it := range items {
		if maxItems > 0 && len(impact.Items) >= maxItems {
			break
		}
		impact.Items = append(impact.Items, it.name)
	}
	return impact
}

// stepTargets follows one probe step from each frontier node, deduping
// targets by ID.
func stepTargets(frontier []*Node, step ProbeStep, s *Snapshot) []*Node {
	seen := make(map[string]bool)
	targets := make([]*Node, 0)
	for _, node := range frontier {
		edges := node.Outgoing
		if step.Direction == DirectionIncoming {
			edges = node.Incoming
		}
		for _, edge := range edges {
			if edge.Type != step.Rel {
				continue
			}
			targetID := edge.ToID
			if step.Direction == DirectionIncoming {
				targetID = edge.FromID
			}
			if seen[targetID] {
				continue
			}
			seen[targetID] = true
			targets = append(targets, s.nodes[targetID])
		}
	}
	return targets
}

// terminalFrequency counts how many entities across the organization
// hold the same relationship to the terminal, e.g. how many employees
// share a lost skill. Measured on the side opposite the probe's final
// hop.
func (s *Snapshot) terminalFrequency(terminal *Node, lastStep ProbeStep) int {
	count := 0
	edges := terminal.Incoming
	if lastStep.Direction == DirectionIncoming {
		edges = terminal.Outgoing
	}
	for _, edge := range edges {
		if edge.Type == lastStep.Rel {
			count++
		}
	}
	return count
}
