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
	"errors"
	"testing"
)

// testGraphBuilder assembles snapshots for tests with less ceremony.
type testGraphBuilder struct {
	t    testing.TB
	snap *Snapshot
}

func newTestGraph(t testing.TB, opts ...SnapshotOption) *testGraphBuilder {
	t.Helper()
	return &testGraphBuilder{t: t, snap: NewSnapshot(opts...)}
}

func (b *testGraphBuilder) addNode(id string, nodeType NodeType) *testGraphBuilder {
	return b.addNodeAttrs(id, nodeType, nil)
}

func (b *testGraphBuilder) addNodeAttrs(id string, nodeType NodeType, attrs Attributes) *testGraphBuilder {
	b.t.Helper()
	if _, err := b.snap.AddNode(id, nodeType, attrs); err != nil {
		b.t.Fatalf("AddNode(%s): %v", id, err)
	}
	return b
}

func (b *testGraphBuilder) addEdge(from, to string, relType RelType) *testGraphBuilder {
	b.t.Helper()
	if err := b.snap.AddEdge(from, to, relType, nil); err != nil {
		b.t.Fatalf("AddEdge(%s -> %s): %v", from, to, err)
	}
	return b
}

// addEmployees adds n employee nodes named e0..e(n-1).
func (b *testGraphBuilder) addEmployees(ids ...string) *testGraphBuilder {
	for _, id := range ids {
		b.addNode(id, NodeTypeEmployee)
	}
	return b
}

func (b *testGraphBuilder) build() *Snapshot {
	b.t.Helper()
	if err := b.snap.Validate(); err != nil {
		b.t.Fatalf("Validate: %v", err)
	}
	b.snap.Freeze()
	return b.snap
}

func TestSnapshotAddNode(t *testing.T) {
	s := NewSnapshot()

	node, err := s.AddNode("e1", NodeTypeEmployee, Attributes{"name": "Ada"})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if node.ID != "e1" || node.Type != NodeTypeEmployee {
		t.Errorf("node = %+v, want id e1 type Employee", node)
	}
	if node.Name() != "Ada" {
		t.Errorf("Name() = %q, want Ada", node.Name())
	}

	if _, err := s.AddNode("e1", NodeTypeEmployee, nil); !errors.Is(err, ErrDuplicateNode) {
		t.Errorf("duplicate AddNode err = %v, want ErrDuplicateNode", err)
	}
	if _, err := s.AddNode("", NodeTypeEmployee, nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("empty id err = %v, want ErrInvalidNode", err)
	}
	if _, err := s.AddNode("e2", NodeTypeUnknown, nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("unknown type err = %v, want ErrInvalidNode", err)
	}
	if _, err := s.AddNode("e2", NumNodeTypes, nil); !errors.Is(err, ErrInvalidNode) {
		t.Errorf("out of range type err = %v, want ErrInvalidNode", err)
	}
}

func TestSnapshotAddEdge(t *testing.T) {
	s := NewSnapshot()
	if _, err := s.AddNode("e1", NodeTypeEmployee, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNode("e2", NodeTypeEmployee, nil); err != nil {
		t.Fatal(err)
	}

	if err := s.AddEdge("e1", "e2", RelTypeReportsTo, nil); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	if err := s.AddEdge("e1", "missing", RelTypeReportsTo, nil); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing target err = %v, want ErrNodeNotFound", err)
	}
	if err := s.AddEdge("missing", "e2", RelTypeReportsTo, nil); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing source err = %v, want ErrNodeNotFound", err)
	}
	if err := s.AddEdge("e1", "e2", RelTypeUnknown, nil); !errors.Is(err, ErrInvalidRelType) {
		t.Errorf("unknown rel err = %v, want ErrInvalidRelType", err)
	}

	// Parallel edges of the same type are allowed.
	if err := s.AddEdge("e1", "e2", RelTypeReportsTo, nil); err != nil {
		t.Errorf("parallel edge err = %v, want nil", err)
	}
	if s.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", s.EdgeCount())
	}

	e1, _ := s.GetNode("e1")
	e2, _ := s.GetNode("e2")
	if len(e1.Outgoing) != 2 || len(e2.Incoming) != 2 {
		t.Errorf("adjacency = %d out / %d in, want 2/2", len(e1.Outgoing), len(e2.Incoming))
	}
}

func TestSnapshotFreeze(t *testing.T) {
	s := NewSnapshot()
	if _, err := s.AddNode("e1", NodeTypeEmployee, nil); err != nil {
		t.Fatal(err)
	}

	s.Freeze()

	if !s.IsFrozen() {
		t.Error("IsFrozen = false after Freeze")
	}
	if s.BuiltAtMilli == 0 {
		t.Error("BuiltAtMilli not set by Freeze")
	}
	if _, err := s.AddNode("e2", NodeTypeEmployee, nil); !errors.Is(err, ErrSnapshotFrozen) {
		t.Errorf("AddNode after freeze err = %v, want ErrSnapshotFrozen", err)
	}
	if err := s.AddEdge("e1", "e1", RelTypeReportsTo, nil); !errors.Is(err, ErrSnapshotFrozen) {
		t.Errorf("AddEdge after freeze err = %v, want ErrSnapshotFrozen", err)
	}
}

func TestSnapshotLimits(t *testing.T) {
	s := NewSnapshot(WithMaxNodes(2), WithMaxEdges(1))
	if _, err := s.AddNode("a", NodeTypeEmployee, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNode("b", NodeTypeEmployee, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddNode("c", NodeTypeEmployee, nil); !errors.Is(err, ErrMaxNodesExceeded) {
		t.Errorf("node limit err = %v, want ErrMaxNodesExceeded", err)
	}

	if err := s.AddEdge("a", "b", RelTypeReportsTo, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.AddEdge("b", "a", RelTypeReportsTo, nil); !errors.Is(err, ErrMaxEdgesExceeded) {
		t.Errorf("edge limit err = %v, want ErrMaxEdgesExceeded", err)
	}
}

func TestSnapshotTypeIndexes(t *testing.T) {
	s := newTestGraph(t).
		addNode("e1", NodeTypeEmployee).
		addNode("e2", NodeTypeEmployee).
		addNode("d1", NodeTypeDepartment).
		addNode("s1", NodeTypeSkill).
		addEdge("e1", "e2", RelTypeReportsTo).
		addEdge("e1", "d1", RelTypeBelongsTo).
		addEdge("e2", "d1", RelTypeBelongsTo).
		addEdge("e1", "s1", RelTypeHasSkill).
		build()

	if got := len(s.NodesOfType(NodeTypeEmployee)); got != 2 {
		t.Errorf("NodesOfType(Employee) = %d, want 2", got)
	}
	if got := s.NodeCountByType(NodeTypeDepartment); got != 1 {
		t.Errorf("NodeCountByType(Department) = %d, want 1", got)
	}
	if got := len(s.EdgesOfType(RelTypeBelongsTo)); got != 2 {
		t.Errorf("EdgesOfType(BELONGS_TO) = %d, want 2", got)
	}
	if got := s.EdgeCountByType(RelTypeReportsTo); got != 1 {
		t.Errorf("EdgeCountByType(REPORTS_TO) = %d, want 1", got)
	}
	if got := len(s.NodesOfType(NodeType(-1))); got != 0 {
		t.Errorf("NodesOfType(-1) = %d, want 0", got)
	}

	// The returned slice is a copy.
	nodes := s.NodesOfType(NodeTypeEmployee)
	nodes[0] = nil
	if s.NodesOfType(NodeTypeEmployee)[0] == nil {
		t.Error("NodesOfType returned internal slice, want defensive copy")
	}
}

func TestSnapshotStats(t *testing.T) {
	s := newTestGraph(t).
		addNode("e1", NodeTypeEmployee).
		addNode("d1", NodeTypeDepartment).
		addEdge("e1", "d1", RelTypeBelongsTo).
		build()

	stats := s.Stats()
	if stats.NodeCount != 2 || stats.EdgeCount != 1 {
		t.Errorf("stats = %d nodes / %d edges, want 2/1", stats.NodeCount, stats.EdgeCount)
	}
	if stats.NodesByType["Employee"] != 1 || stats.NodesByType["Department"] != 1 {
		t.Errorf("NodesByType = %v", stats.NodesByType)
	}
	if stats.EdgesByType["BELONGS_TO"] != 1 {
		t.Errorf("EdgesByType = %v", stats.EdgesByType)
	}
	if stats.State != "readonly" {
		t.Errorf("State = %q, want readonly", stats.State)
	}
}

func TestTypeRoundTrips(t *testing.T) {
	for nt := NodeTypeEmployee; nt < NumNodeTypes; nt++ {
		parsed, ok := NodeTypeFromString(nt.String())
		if !ok || parsed != nt {
			t.Errorf("NodeTypeFromString(%q) = %v, %v", nt.String(), parsed, ok)
		}
	}
	for rt := RelTypeReportsTo; rt < NumRelTypes; rt++ {
		parsed, ok := RelTypeFromString(rt.String())
		if !ok || parsed != rt {
			t.Errorf("RelTypeFromString(%q) = %v, %v", rt.String(), parsed, ok)
		}
	}
	if _, ok := NodeTypeFromString("NotAType"); ok {
		t.Error("NodeTypeFromString accepted unknown name")
	}
	if _, ok := RelTypeFromString("NOT_A_REL"); ok {
		t.Error("RelTypeFromString accepted unknown name")
	}
}
