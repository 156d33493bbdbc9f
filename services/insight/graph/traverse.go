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
)

// Default traversal configuration values.
const (
	// DefaultTraverseLimit is the default maximum number of visited nodes
	// a traversal may return.
	DefaultTraverseLimit = 100_000

	// contextCheckInterval is how often (in processed nodes) traversals
	// check for context cancellation.
	contextCheckInterval = 100
)

// Direction selects which edges a traversal follows from a node.
type Direction int

const (
	// DirectionOutgoing follows edges where the current node is the source.
	DirectionOutgoing Direction = iota

	// DirectionIncoming follows edges where the current node is the target.
	DirectionIncoming

	// DirectionBoth follows edges in either orientation.
	DirectionBoth
)

// String returns the string representation of the Direction.
func (d Direction) String() string {
	switch d {
	case DirectionOutgoing:
		return "outgoing"
	case DirectionIncoming:
		return "incoming"
	case DirectionBoth:
		return "both"
	default:
		return "unknown"
	}
}

// TraverseOptions configures a breadth-first traversal.
type TraverseOptions struct {
	// Direction selects which edges to follow.
	// Default: DirectionOutgoing
	Direction Direction

	// RelTypes restricts traversal to the given relationship types.
	// Empty means all types.
	RelTypes []RelType

	// MaxDepth limits how many hops from the seeds the traversal walks.
	// Negative means unbounded.
	// Default: -1 (unbounded)
	MaxDepth int

	// Limit caps the number of visited nodes. When the cap is hit the
	// traversal stops and the result is marked Truncated.
	// Default: DefaultTraverseLimit
	Limit int
}

// DefaultTraverseOptions returns sensible defaults for traversal.
func DefaultTraverseOptions() TraverseOptions {
	return TraverseOptions{
		Direction: DirectionOutgoing,
		MaxDepth:  -1,
		Limit:     DefaultTraverseLimit,
	}
}

// Validate checks the options and applies defaults for zero values.
func (o *TraverseOptions) Validate() error {
	if o.Direction < DirectionOutgoing || o.Direction > DirectionBoth {
		return fmt.Errorf("invalid direction: %d", o.Direction)
	}
	if o.Limit == 0 {
		o.Limit = DefaultTraverseLimit
	}
	if o.Limit < 0 {
		return fmt.Errorf("invalid limit: %d", o.Limit)
	}
	for _, rt := range o.RelTypes {
		if rt <= RelTypeUnknown || rt >= NumRelTypes {
			return fmt.Errorf("%w: %d", ErrInvalidRelType, rt)
		}
	}
	return nil
}

// matches reports whether the edge passes the relationship type filter.
func (o *TraverseOptions) matches(relType RelType) bool {
	if len(o.RelTypes) == 0 {
		return true
	}
	for _, rt := range o.RelTypes {
		if rt == relType {
			return true
		}
	}
	return false
}

// Visit is one visited node in a traversal result, with the depth at
// which it was first reached.
type Visit struct {
	// Node is the visited node.
	Node *Node

	// Depth is the number of hops from the nearest seed. Seeds are depth 0.
	Depth int
}

// TraverseResult holds the outcome of a breadth-first traversal.
type TraverseResult struct {
	// Visited lists reached nodes (seeds excluded) in BFS order. Each
	// node appears exactly once, at its minimum depth from any seed.
	Visited []Visit

	// Truncated is true when the traversal stopped because the Limit on
	// visited nodes was reached.
	Truncated bool

	// MaxDepthReached is the deepest level any visited node sits at.
	MaxDepthReached int
}

// queueItem tracks a node and its depth during BFS.
type queueItem struct {
	nodeID string
	depth  int
}

// Traverse performs a breadth-first walk from a single seed node.
//
// Description:
//
//	Walks the graph breadth-first from the seed, following edges that
//	match the direction and relationship type filter. Each reachable
//	node is reported once, at its shortest depth from the seed. Cycles
//	are handled by the visited set; traversal always terminates.
//
// Inputs:
//
//	ctx - Context for cancellation. Checked every contextCheckInterval nodes.
//	seedID - ID of the node to start from.
//	opts - Traversal configuration.
//
// Outputs:
//
//	*TraverseResult - Visited nodes with depths. Never nil on success.
//	error - ErrNodeNotFound if the seed doesn't exist, ctx.Err() on cancellation.
func (s *Snapshot) Traverse(ctx context.Context, seedID string, opts TraverseOptions) (*TraverseResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, ok := s.nodes[seedID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, seedID)
	}
	return s.traverse(ctx, []string{seedID}, opts)
}

// TraverseMulti performs a breadth-first walk from multiple seed nodes
// sharing a single frontier.
//
// Description:
//
//	Like Traverse but with several seeds at depth 0. A node reachable
//	from more than one seed is reported once, at its minimum depth over
//	all seeds. Seeds themselves are never reported as visited.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	seedIDs - IDs of the nodes to start from. All must exist.
//	opts - Traversal configuration.
//
// Outputs:
//
//	*TraverseResult - Visited nodes with depths.
//	error - ErrNodeNotFound if any seed doesn't exist, ctx.Err() on cancellation.
func (s *Snapshot) TraverseMulti(ctx context.Context, seedIDs []string, opts TraverseOptions) (*TraverseResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	for _, id := range seedIDs {
		if _, ok := s.nodes[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
	}
	return s.traverse(ctx, seedIDs, opts)
}

// traverse is the shared BFS core. Seeds must already be validated.
func (s *Snapshot) traverse(ctx context.Context, seedIDs []string, opts TraverseOptions) (*TraverseResult, error) {
	result := &TraverseResult{
		Visited: make([]Visit, 0),
	}

	visited := make(map[string]bool, len(seedIDs))
	queue := make([]queueItem, 0, len(seedIDs))
	for _, id := range seedIDs {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, queueItem{nodeID: id, depth: 0})
		}
	}

	checkCounter := 0
	for len(queue) > 0 {
		checkCounter++
		if checkCounter%contextCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		item := queue[0]
		queue = queue[1:]

		node := s.nodes[item.nodeID]

		// Seeds are depth 0 and excluded from the visit list.
		if item.depth > 0 {
			result.Visited = append(result.Visited, Visit{Node: node, Depth: item.depth})
			if item.depth > result.MaxDepthReached {
				result.MaxDepthReached = item.depth
			}
			if len(result.Visited) >= opts.Limit {
				result.Truncated = true
				return result, nil
			}
		}

		if opts.MaxDepth >= 0 && item.depth >= opts.MaxDepth {
			continue
		}

		for _, neighborID := range s.neighborIDs(node, opts) {
			if !visited[neighborID] {
				visited[neighborID] = true
				queue = append(queue, queueItem{nodeID: neighborID, depth: item.depth + 1})
			}
		}
	}

	return result, nil
}

// neighborIDs returns the IDs adjacent to node under the direction and
// relationship filter. Duplicates from parallel edges are preserved;
// the caller's visited set dedupes them.
func (s *Snapshot) neighborIDs(node *Node, opts TraverseOptions) []string {
	ids := make([]string, 0, len(node.Outgoing)+len(node.Incoming))

	if opts.Direction == DirectionOutgoing || opts.Direction == DirectionBoth {
		for _, edge := range node.Outgoing {
			if opts.matches(edge.Type) {
				ids = append(ids, edge.ToID)
			}
		}
	}
	if opts.Direction == DirectionIncoming || opts.Direction == DirectionBoth {
		for _, edge := range node.Incoming {
			if opts.matches(edge.Type) {
				ids = append(ids, edge.FromID)
			}
		}
	}

	return ids
}

// Neighbors returns the nodes directly adjacent to the given node.
//
// Description:
//
//	One-hop adjacency under the direction and relationship type filter.
//	A neighbor connected by multiple matching edges appears once.
//
// Outputs:
//
//	[]*Node - Adjacent nodes in edge order (deduplicated).
//	error - ErrNodeNotFound if the node doesn't exist.
//
// Complexity: O(degree)
func (s *Snapshot) Neighbors(id string, opts TraverseOptions) ([]*Node, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}

	seen := make(map[string]bool)
	neighbors := make([]*Node, 0)
	for _, neighborID := range s.neighborIDs(node, opts) {
		if !seen[neighborID] {
			seen[neighborID] = true
			neighbors = append(neighbors, s.nodes[neighborID])
		}
	}
	return neighbors, nil
}
