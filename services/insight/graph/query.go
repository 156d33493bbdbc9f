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

// PathResult holds the outcome of a shortest-path query.
type PathResult struct {
	// NodeIDs is the node sequence from source to target, inclusive.
	// Empty when no path exists.
	NodeIDs []string `json:"node_ids"`

	// Length is the number of hops (len(NodeIDs)-1). Zero when source
	// equals target; -1 when no path exists.
	Length int `json:"length"`

	// Found is true when a path exists.
	Found bool `json:"found"`
}

// ShortestPath finds a minimum-hop path between two nodes.
//
// Description:
//
//	Unweighted BFS from source toward target under the direction and
//	relationship type filter in opts. MaxDepth and Limit from opts bound
//	the search; a path cut off by either bound reports as not found.
//	When several shortest paths exist, one of them is returned; which
//	one is unspecified.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	sourceID - ID of the start node.
//	targetID - ID of the end node.
//	opts - Traversal configuration (direction, rel type filter, bounds).
//
// Outputs:
//
//	*PathResult - The path, or Found=false with Length=-1 when none exists.
//	error - ErrNodeNotFound if either endpoint doesn't exist, ctx.Err() on cancellation.
func (s *Snapshot) ShortestPath(ctx context.Context, sourceID, targetID string, opts TraverseOptions) (*PathResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, ok := s.nodes[sourceID]; !ok {
		return nil, fmt.Errorf("%w: source %s", ErrNodeNotFound, sourceID)
	}
	if _, ok := s.nodes[targetID]; !ok {
		return nil, fmt.Errorf("%w: target %s", ErrNodeNotFound, targetID)
	}

	if sourceID == targetID {
		return &PathResult{
			NodeIDs: []string{sourceID},
			Length:  0,
			Found:   true,
		}, nil
	}

	// predecessor doubles as the visited set.
	predecessor := map[string]string{sourceID: ""}
	queue := []queueItem{{nodeID: sourceID, depth: 0}}

	checkCounter := 0
	expanded := 0
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

		expanded++
		if expanded > opts.Limit {
			break
		}

		if opts.MaxDepth >= 0 && item.depth >= opts.MaxDepth {
			continue
		}

		node := s.nodes[item.nodeID]
		for _, neighborID := range s.neighborIDs(node, opts) {
			if _, seen := predecessor[neighborID]; seen {
				continue
			}
			predecessor[neighborID] = item.nodeID

			if neighborID == targetID {
				return buildPath(predecessor, sourceID, targetID), nil
			}

			queue = append(queue, queueItem{nodeID: neighborID, depth: item.depth + 1})
		}
	}

	return &PathResult{
		NodeIDs: []string{},
		Length:  -1,
		Found:   false,
	}, nil
}

// buildPath walks the predecessor chain backwards, then reverses it.
func buildPath(predecessor map[string]string, sourceID, targetID string) *PathResult {
	reversed := []string{targetID}
	for current := predecessor[targetID]; current != ""; current = predecessor[current] {
		reversed = append(reversed, current)
	}

	nodeIDs := make([]string, len(reversed))
	for i, id := range reversed {
		nodeIDs[len(reversed)-1-i] = id
	}

	// The chain must end at the source or the predecessor map is corrupt.
	if nodeIDs[0] != sourceID {
		return &PathResult{NodeIDs: []string{}, Length: -1, Found: false}
	}

	return &PathResult{
		NodeIDs: nodeIDs,
		Length:  len(nodeIDs) - 1,
		Found:   true,
	}
}

// OrgDistance computes the hop distance between two employees in the
// reporting hierarchy.
//
// Description:
//
//	Treats the hierarchy relationship as undirected, so the distance
//	between two peers reporting to the same manager is 2 (up one, down
//	one). Returns -1 when the two nodes sit in disconnected reporting
//	trees.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	aID, bID - IDs of the two nodes.
//	hierarchy - The relationship type that forms the hierarchy
//	            (RelTypeReportsTo for the standard org chart).
//
// Outputs:
//
//	int - Hop count, 0 when aID == bID, -1 when disconnected.
//	error - ErrNodeNotFound if either node doesn't exist, ctx.Err() on cancellation.
func (s *Snapshot) OrgDistance(ctx context.Context, aID, bID string, hierarchy RelType) (int, error) {
	opts := DefaultTraverseOptions()
	opts.Direction = DirectionBoth
	opts.RelTypes = []RelType{hierarchy}

	path, err := s.ShortestPath(ctx, aID, bID, opts)
	if err != nil {
		return -1, err
	}
	return path.Length, nil
}
