// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graph provides the organizational property graph and the
// analytics that run over it.
//
// The graph package contains types for representing an organization as a
// directed multigraph where nodes are HR entities (employees, positions,
// departments, skills, reviews, goals) and typed edges represent the
// relationships between them (REPORTS_TO, HAS_SKILL, REVIEWED_BY, etc.).
// On top of the snapshot model it implements cascade impact analysis,
// centrality metrics, community detection, and shortest-path queries.
//
// # Ownership Model
//
// A Snapshot is built by an external loader and borrowed by the engine:
//   - Nodes and edges MUST NOT be mutated after being added
//   - Analytics never retains snapshot-derived state across calls
//   - Attribute maps are stored by reference, not copied
//
// # Thread Safety
//
// Snapshot is NOT safe for concurrent use during building. It is designed
// for:
//   - Single-writer access during the build phase (AddNode, AddEdge calls)
//   - Read-only access after Freeze() is called
//
// After Freeze(), the snapshot can be safely read from multiple goroutines,
// and any number of analyses may run against it concurrently.
//
// # Lifecycle
//
// A typical snapshot lifecycle:
//  1. Create with NewSnapshot()
//  2. Build with AddNode() and AddEdge() calls
//  3. Call Validate() and Freeze() to finalize
//  4. Analyze with NewAnalytics(snapshot, spec)
package graph

import "errors"

// Sentinel errors for snapshot and analytics operations.
var (
	// ErrSnapshotFrozen is returned when attempting to modify a frozen
	// snapshot. Once Freeze() is called, the snapshot becomes read-only
	// and no further nodes or edges can be added.
	ErrSnapshotFrozen = errors.New("snapshot is frozen and cannot be modified")

	// ErrSnapshotNotFrozen is returned when an analysis is requested
	// against a snapshot still in the building state.
	ErrSnapshotNotFrozen = errors.New("snapshot must be frozen before analysis")

	// ErrNodeNotFound is returned when a requested node is absent from
	// the snapshot, or when an edge references a non-existent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrDuplicateNode is returned when adding a node with an ID that
	// already exists in the snapshot.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrMalformedGraph is returned when an edge references a node
	// outside the snapshot. This is a loader contract violation and is
	// fatal: the engine does not guess intent about dangling references.
	ErrMalformedGraph = errors.New("malformed graph")

	// ErrUnsupportedMetric is returned when an unknown centrality metric
	// name is requested.
	ErrUnsupportedMetric = errors.New("unsupported centrality metric")

	// ErrMaxNodesExceeded is returned when the snapshot has reached its
	// configured maximum node capacity.
	ErrMaxNodesExceeded = errors.New("maximum node count exceeded")

	// ErrMaxEdgesExceeded is returned when the snapshot has reached its
	// configured maximum edge capacity.
	ErrMaxEdgesExceeded = errors.New("maximum edge count exceeded")

	// ErrInvalidNode is returned when attempting to add a node with an
	// empty ID or an unknown node type.
	ErrInvalidNode = errors.New("invalid node")

	// ErrInvalidRelType is returned when an edge uses a relationship
	// type outside the known range.
	ErrInvalidRelType = errors.New("invalid relationship type")
)
