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
	"errors"
	"fmt"
	"testing"
)

func TestTraverseDepths(t *testing.T) {
	// chain: a <- b <- c <- d (REPORTS_TO points up the chain)
	s := newTestGraph(t).
		addEmployees("a", "b", "c", "d").
		addEdge("b", "a", RelTypeReportsTo).
		addEdge("c", "b", RelTypeReportsTo).
		addEdge("d", "c", RelTypeReportsTo).
		build()

	opts := DefaultTraverseOptions()
	opts.Direction = DirectionIncoming
	opts.RelTypes = []RelType{RelTypeReportsTo}

	result, err := s.Traverse(context.Background(), "a", opts)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}

	if len(result.Visited) != 3 {
		t.Fatalf("visited %d nodes, want 3", len(result.Visited))
	}
	wantDepths := map[string]int{"b": 1, "c": 2, "d": 3}
	for _, visit := range result.Visited {
		if visit.Depth != wantDepths[visit.Node.ID] {
			t.Errorf("node %s at depth %d, want %d", visit.Node.ID, visit.Depth, wantDepths[visit.Node.ID])
		}
	}
	if result.MaxDepthReached != 3 {
		t.Errorf("MaxDepthReached = %d, want 3", result.MaxDepthReached)
	}
	if result.Truncated {
		t.Error("Truncated = true, want false")
	}
}

func TestTraverseMaxDepth(t *testing.T) {
	s := newTestGraph(t).
		addEmployees("a", "b", "c", "d").
		addEdge("a", "b", RelTypeReportsTo).
		addEdge("b", "c", RelTypeReportsTo).
		addEdge("c", "d", RelTypeReportsTo).
		build()

	opts := DefaultTraverseOptions()
	opts.MaxDepth = 2

	result, err := s.Traverse(context.Background(), "a", opts)
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(result.Visited) != 2 {
		t.Errorf("visited %d nodes with MaxDepth=2, want 2", len(result.Visited))
	}
}

func TestTraverseCycle(t *testing.T) {
	// a -> b -> c -> a
	s := newTestGraph(t).
		addEmployees("a", "b", "c").
		addEdge("a", "b", RelTypeReportsTo).
		addEdge("b", "c", RelTypeReportsTo).
		addEdge("c", "a", RelTypeReportsTo).
		build()

	result, err := s.Traverse(context.Background(), "a", DefaultTraverseOptions())
	if err != nil {
		t.Fatalf("Traverse on cycle: %v", err)
	}
	// The seed is not revisited; only b and c are reported.
	if len(result.Visited) != 2 {
		t.Errorf("visited %d nodes, want 2", len(result.Visited))
	}
}

func TestTraverseShortestDepthWins(t *testing.T) {
	// Two routes to d: a->d directly and a->b->c->d.
	s := newTestGraph(t).
		addEmployees("a", "b", "c", "d").
		addEdge("a", "d", RelTypeHasSkill).
		addEdge("a", "b", RelTypeHasSkill).
		addEdge("b", "c", RelTypeHasSkill).
		addEdge("c", "d", RelTypeHasSkill).
		build()

	result, err := s.Traverse(context.Background(), "a", DefaultTraverseOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, visit := range result.Visited {
		if visit.Node.ID == "d" && visit.Depth != 1 {
			t.Errorf("d reported at depth %d, want 1", visit.Depth)
		}
	}
}

func TestTraverseLimit(t *testing.T) {
	b := newTestGraph(t).addNode("root", NodeTypeEmployee)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("e%d", i)
		b.addNode(id, NodeTypeEmployee).addEdge("root", id, RelTypeReportsTo)
	}
	s := b.build()

	opts := DefaultTraverseOptions()
	opts.Limit = 5

	result, err := s.Traverse(context.Background(), "root", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Visited) != 5 {
		t.Errorf("visited %d nodes, want 5", len(result.Visited))
	}
	if !result.Truncated {
		t.Error("Truncated = false, want true")
	}
}

func TestTraverseMultiSharedFrontier(t *testing.T) {
	// Both m1 and m2 reach shared; it must count once, at min depth.
	s := newTestGraph(t).
		addEmployees("m1", "m2", "shared", "deep").
		addEdge("m1", "shared", RelTypeReportsTo).
		addEdge("m2", "deep", RelTypeReportsTo).
		addEdge("deep", "shared", RelTypeReportsTo).
		build()

	result, err := s.TraverseMulti(context.Background(), []string{"m1", "m2"}, DefaultTraverseOptions())
	if err != nil {
		t.Fatal(err)
	}

	found := map[string]int{}
	for _, visit := range result.Visited {
		if _, dup := found[visit.Node.ID]; dup {
			t.Errorf("node %s visited twice", visit.Node.ID)
		}
		found[visit.Node.ID] = visit.Depth
	}
	if found["shared"] != 1 {
		t.Errorf("shared at depth %d, want 1", found["shared"])
	}
	if found["deep"] != 1 {
		t.Errorf("deep at depth %d, want 1", found["deep"])
	}
}

func TestTraverseErrors(t *testing.T) {
	s := newTestGraph(t).addEmployees("a").build()

	if _, err := s.Traverse(context.Background(), "missing", DefaultTraverseOptions()); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing seed err = %v, want ErrNodeNotFound", err)
	}

	bad := DefaultTraverseOptions()
	bad.RelTypes = []RelType{NumRelTypes}
	if _, err := s.Traverse(context.Background(), "a", bad); !errors.Is(err, ErrInvalidRelType) {
		t.Errorf("bad rel type err = %v, want ErrInvalidRelType", err)
	}
}

func TestTraverseCancellation(t *testing.T) {
	// Large enough that the cancellation check interval is crossed.
	b := newTestGraph(t)
	n := 500
	for i := 0; i < n; i++ {
		b.addNode(fmt.Sprintf("e%d", i), NodeTypeEmployee)
	}
	for i := 1; i < n; i++ {
		b.addEdge(fmt.Sprintf("e%d", i-1), fmt.Sprintf("e%d", i), RelTypeReportsTo)
	}
	s := b.build()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Traverse(ctx, "e0", DefaultTraverseOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNeighbors(t *testing.T) {
	s := newTestGraph(t).
		addEmployees("a", "b", "c").
		addNode("s1", NodeTypeSkill).
		addEdge("a", "b", RelTypeReportsTo).
		addEdge("c", "a", RelTypeReportsTo).
		addEdge("a", "s1", RelTypeHasSkill).
		build()

	opts := DefaultTraverseOptions()
	opts.Direction = DirectionBoth

	neighbors, err := s.Neighbors("a", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 3 {
		t.Errorf("neighbors = %d, want 3", len(neighbors))
	}

	opts.Direction = DirectionOutgoing
	opts.RelTypes = []RelType{RelTypeHasSkill}
	neighbors, err = s.Neighbors("a", opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(neighbors) != 1 || neighbors[0].ID != "s1" {
		t.Errorf("filtered neighbors = %v, want [s1]", neighbors)
	}
}
