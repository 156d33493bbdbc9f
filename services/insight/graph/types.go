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
	"time"
)

// Default configuration values.
const (
	// DefaultMaxNodes is the default maximum number of nodes a snapshot can hold.
	DefaultMaxNodes = 1_000_000

	// DefaultMaxEdges is the default maximum number of edges a snapshot can hold.
	DefaultMaxEdges = 10_000_000
)

// SnapshotState represents the lifecycle state of the snapshot.
type SnapshotState int

const (
	// SnapshotStateBuilding indicates the snapshot is accepting AddNode/AddEdge calls.
	SnapshotStateBuilding SnapshotState = iota

	// SnapshotStateReadOnly indicates the snapshot is frozen and read-only.
	SnapshotStateReadOnly
)

// String returns the string representation of the SnapshotState.
func (s SnapshotState) String() string {
	switch s {
	case SnapshotStateBuilding:
		return "building"
	case SnapshotStateReadOnly:
		return "readonly"
	default:
		return "unknown"
	}
}

// NodeType classifies an entity in the organizational graph.
type NodeType int

const (
	// NodeTypeUnknown indicates an unrecognized entity type.
	NodeTypeUnknown NodeType = iota

	// NodeTypeEmployee is a person currently employed by the organization.
	NodeTypeEmployee

	// NodeTypeCandidate is a person in the hiring pipeline.
	NodeTypeCandidate

	// NodeTypeDivision is a top-level organizational unit.
	NodeTypeDivision

	// NodeTypeDepartment is an organizational unit within a division.
	NodeTypeDepartment

	// NodeTypeLocation is a physical or remote work site.
	NodeTypeLocation

	// NodeTypePosition is a seat an employee occupies.
	NodeTypePosition

	// NodeTypeJobFamily groups positions with similar work.
	NodeTypeJobFamily

	// NodeTypeJobLevel is a seniority band for positions.
	NodeTypeJobLevel

	// NodeTypeSkill is a competency an employee can hold or a requisition can require.
	NodeTypeSkill

	// NodeTypeRequisition is an open hiring request.
	NodeTypeRequisition

	// NodeTypeApplication is a candidate's application to a requisition.
	NodeTypeApplication

	// NodeTypeInterview is an interview round for an application.
	NodeTypeInterview

	// NodeTypeOffer is an offer extended to a candidate.
	NodeTypeOffer

	// NodeTypePerformanceReview is a review written about an employee.
	NodeTypePerformanceReview

	// NodeTypeGoal is an objective set by an employee.
	NodeTypeGoal

	// NodeTypePerformanceCycle is a review/goal period.
	NodeTypePerformanceCycle

	// NodeTypeSalaryBand is a compensation range for a level.
	NodeTypeSalaryBand

	// NodeTypeBaseSalary is a base compensation record.
	NodeTypeBaseSalary

	// NodeTypeBonus is a one-time compensation event.
	NodeTypeBonus

	// NodeTypeEquityGrant is an equity compensation record.
	NodeTypeEquityGrant

	// NodeTypeSourceChannel is where a candidate was sourced from.
	NodeTypeSourceChannel

	// NodeTypeTemporalEvent is a dated employment event (hire, transfer, exit).
	NodeTypeTemporalEvent

	// NumNodeTypes is the total number of node types (for array sizing).
	NumNodeTypes
)

// nodeTypeNames maps NodeType values to their canonical string form.
var nodeTypeNames = map[NodeType]string{
	NodeTypeUnknown:           "Unknown",
	NodeTypeEmployee:          "Employee",
	NodeTypeCandidate:         "Candidate",
	NodeTypeDivision:          "Division",
	NodeTypeDepartment:        "Department",
	NodeTypeLocation:          "Location",
	NodeTypePosition:          "Position",
	NodeTypeJobFamily:         "JobFamily",
	NodeTypeJobLevel:          "JobLevel",
	NodeTypeSkill:             "Skill",
	NodeTypeRequisition:       "Requisition",
	NodeTypeApplication:       "Application",
	NodeTypeInterview:         "Interview",
	NodeTypeOffer:             "Offer",
	NodeTypePerformanceReview: "PerformanceReview",
	NodeTypeGoal:              "Goal",
	NodeTypePerformanceCycle:  "PerformanceCycle",
	NodeTypeSalaryBand:        "SalaryBand",
	NodeTypeBaseSalary:        "BaseSalary",
	NodeTypeBonus:             "Bonus",
	NodeTypeEquityGrant:       "EquityGrant",
	NodeTypeSourceChannel:     "SourceChannel",
	NodeTypeTemporalEvent:     "TemporalEvent",
}

// nodeTypeValues is the reverse mapping, built once at init.
var nodeTypeValues = func() map[string]NodeType {
	m := make(map[string]NodeType, len(nodeTypeNames))
	for t, name := range nodeTypeNames {
		m[name] = t
	}
	return m
}()

// String returns the canonical string form of the NodeType.
func (t NodeType) String() string {
	if name, ok := nodeTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// NodeTypeFromString parses a canonical node type name.
//
// Outputs:
//
//	NodeType - The parsed type.
//	bool - True if the name is known.
func NodeTypeFromString(name string) (NodeType, bool) {
	t, ok := nodeTypeValues[name]
	return t, ok
}

// RelType defines the type of relationship between two entities.
type RelType int

const (
	// RelTypeUnknown indicates an unrecognized relationship type.
	RelTypeUnknown RelType = iota

	// RelTypeReportsTo links an employee to their manager.
	RelTypeReportsTo

	// RelTypeBelongsTo links an employee to their department.
	RelTypeBelongsTo

	// RelTypePartOf links a department to its division.
	RelTypePartOf

	// RelTypeLocatedAt links an employee to their work site.
	RelTypeLocatedAt

	// RelTypeHoldsPosition links an employee to their position.
	RelTypeHoldsPosition

	// RelTypePositionIn links a position to its department.
	RelTypePositionIn

	// RelTypeInJobFamily links a position to its job family.
	RelTypeInJobFamily

	// RelTypeAtLevel links a position to its job level.
	RelTypeAtLevel

	// RelTypeHasSkill links an employee to a skill they hold.
	RelTypeHasSkill

	// RelTypeRequiresSkill links a requisition to a required skill.
	RelTypeRequiresSkill

	// RelTypeDemonstratesCompetency links an employee to an assessed competency.
	RelTypeDemonstratesCompetency

	// RelTypeAppliedFor links a candidate to a requisition.
	RelTypeAppliedFor

	// RelTypeHasApplication links a candidate to their application.
	RelTypeHasApplication

	// RelTypeApplicationFor links an application to its requisition.
	RelTypeApplicationFor

	// RelTypeHasInterview links an application to an interview round.
	RelTypeHasInterview

	// RelTypeInterviewedBy links an interview to the interviewing employee.
	RelTypeInterviewedBy

	// RelTypeHasOffer links an application to an offer.
	RelTypeHasOffer

	// RelTypeFillsRequisition links an employee to the requisition they filled.
	RelTypeFillsRequisition

	// RelTypeSourcedFrom links a candidate to a source channel.
	RelTypeSourcedFrom

	// RelTypeRequisitionFor links a requisition to a position.
	RelTypeRequisitionFor

	// RelTypeReviewedIn links an employee to a review written about them.
	RelTypeReviewedIn

	// RelTypeReviewedBy links a review to the reviewing employee.
	RelTypeReviewedBy

	// RelTypeSetGoal links an employee to a goal they own.
	RelTypeSetGoal

	// RelTypePartOfCycle links a review to its performance cycle.
	RelTypePartOfCycle

	// RelTypeGoalInCycle links a goal to its performance cycle.
	RelTypeGoalInCycle

	// RelTypeEarnsBase links an employee to their base salary record.
	RelTypeEarnsBase

	// RelTypeReceivedBonus links an employee to a bonus record.
	RelTypeReceivedBonus

	// RelTypeGrantedEquity links an employee to an equity grant.
	RelTypeGrantedEquity

	// RelTypeInSalaryBand links a base salary to its band.
	RelTypeInSalaryBand

	// RelTypeExperiencedEvent links an employee to a temporal event.
	RelTypeExperiencedEvent

	// NumRelTypes is the total number of relationship types (for array sizing).
	NumRelTypes
)

// relTypeNames maps RelType values to their canonical wire names.
var relTypeNames = map[RelType]string{
	RelTypeUnknown:                "UNKNOWN",
	RelTypeReportsTo:              "REPORTS_TO",
	RelTypeBelongsTo:              "BELONGS_TO",
	RelTypePartOf:                 "PART_OF",
	RelTypeLocatedAt:              "LOCATED_AT",
	RelTypeHoldsPosition:          "HOLDS_POSITION",
	RelTypePositionIn:             "POSITION_IN",
	RelTypeInJobFamily:            "IN_JOB_FAMILY",
	RelTypeAtLevel:                "AT_LEVEL",
	RelTypeHasSkill:               "HAS_SKILL",
	RelTypeRequiresSkill:          "REQUIRES_SKILL",
	RelTypeDemonstratesCompetency: "DEMONSTRATES_COMPETENCY",
	RelTypeAppliedFor:             "APPLIED_FOR",
	RelTypeHasApplication:         "HAS_APPLICATION",
	RelTypeApplicationFor:         "APPLICATION_FOR",
	RelTypeHasInterview:           "HAS_INTERVIEW",
	RelTypeInterviewedBy:          "INTERVIEWED_BY",
	RelTypeHasOffer:               "HAS_OFFER",
	RelTypeFillsRequisition:       "FILLS_REQUISITION",
	RelTypeSourcedFrom:            "SOURCED_FROM",
	RelTypeRequisitionFor:         "REQUISITION_FOR",
	RelTypeReviewedIn:             "REVIEWED_IN",
	RelTypeReviewedBy:             "REVIEWED_BY",
	RelTypeSetGoal:                "SET_GOAL",
	RelTypePartOfCycle:            "PART_OF_CYCLE",
	RelTypeGoalInCycle:            "GOAL_IN_CYCLE",
	RelTypeEarnsBase:              "EARNS_BASE",
	RelTypeReceivedBonus:          "RECEIVED_BONUS",
	RelTypeGrantedEquity:          "GRANTED_EQUITY",
	RelTypeInSalaryBand:           "IN_SALARY_BAND",
	RelTypeExperiencedEvent:       "EXPERIENCED_EVENT",
}

// relTypeValues is the reverse mapping, built once at init.
var relTypeValues = func() map[string]RelType {
	m := make(map[string]RelType, len(relTypeNames))
	for t, name := range relTypeNames {
		m[name] = t
	}
	return m
}()

// String returns the canonical wire name of the RelType.
func (t RelType) String() string {
	if name, ok := relTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// RelTypeFromString parses a canonical relationship type name.
//
// Outputs:
//
//	RelType - The parsed type.
//	bool - True if the name is known.
func RelTypeFromString(name string) (RelType, bool) {
	t, ok := relTypeValues[name]
	return t, ok
}

// Attributes is a scalar attribute bag attached to a node or edge.
//
// Values are the scalars that survive JSON decoding: string, float64,
// bool, or nil. Attribute maps MUST NOT be mutated after the owning
// node or edge is added to a snapshot.
type Attributes map[string]any

// GetString returns a string attribute, or "" if absent or not a string.
func (a Attributes) GetString(key string) string {
	if a == nil {
		return ""
	}
	if s, ok := a[key].(string); ok {
		return s
	}
	return ""
}

// Edge represents a directed, typed relationship between two entities.
//
// Multiple edges of the same type between the same nodes are allowed,
// representing distinct relationship instances (e.g. two bonuses granted
// to the same employee, or the same skill asserted by two systems).
type Edge struct {
	// FromID is the ID of the source node.
	FromID string

	// ToID is the ID of the target node.
	ToID string

	// Type is the relationship type (REPORTS_TO, HAS_SKILL, etc.).
	Type RelType

	// Attrs carries the relationship's scalar attributes.
	// May be nil; not owned by the snapshot.
	Attrs Attributes
}

// Node represents an entity in the organizational graph with its relationships.
type Node struct {
	// ID is the globally unique entity identifier.
	ID string

	// Type classifies the entity.
	Type NodeType

	// Attrs carries the entity's scalar attributes.
	// May be nil; not owned by the snapshot.
	Attrs Attributes

	// Outgoing contains edges where this node is the source.
	// For an employee, Outgoing holds the REPORTS_TO edge to their
	// manager, HAS_SKILL edges to skills, and so on.
	Outgoing []*Edge

	// Incoming contains edges where this node is the target.
	// For a manager, Incoming holds the REPORTS_TO edges from their
	// direct reports.
	Incoming []*Edge
}

// Name returns the display name attribute, falling back to the node ID.
func (n *Node) Name() string {
	if name := n.Attrs.GetString("name"); name != "" {
		return name
	}
	return n.ID
}

// SnapshotOptions configures Snapshot behavior and limits.
type SnapshotOptions struct {
	// MaxNodes is the maximum number of nodes the snapshot can hold.
	// Default: 1,000,000
	MaxNodes int

	// MaxEdges is the maximum number of edges the snapshot can hold.
	// Default: 10,000,000
	MaxEdges int
}

// DefaultSnapshotOptions returns sensible defaults for snapshot configuration.
func DefaultSnapshotOptions() SnapshotOptions {
	return SnapshotOptions{
		MaxNodes: DefaultMaxNodes,
		MaxEdges: DefaultMaxEdges,
	}
}

// SnapshotOption is a functional option for configuring Snapshot.
type SnapshotOption func(*SnapshotOptions)

// WithMaxNodes sets the maximum number of nodes the snapshot can hold.
func WithMaxNodes(n int) SnapshotOption {
	return func(o *SnapshotOptions) {
		o.MaxNodes = n
	}
}

// WithMaxEdges sets the maximum number of edges the snapshot can hold.
func WithMaxEdges(n int) SnapshotOption {
	return func(o *SnapshotOptions) {
		o.MaxEdges = n
	}
}

// Snapshot is an immutable, point-in-time container of the organizational
// graph with precomputed adjacency indices.
//
// Thread Safety:
//
//	Snapshot is NOT safe for concurrent use during building. It is
//	designed for single-writer access during build, then read-only after
//	Freeze(). After Freeze() is called, the snapshot can be safely read
//	from multiple goroutines, but no further modifications are allowed.
//
// Lifecycle:
//
//  1. Create with NewSnapshot()
//  2. Build with AddNode() and AddEdge() calls
//  3. Call Validate() and Freeze() to finalize
//  4. Analyze with NewAnalytics(snapshot, spec)
type Snapshot struct {
	// nodes maps node ID to Node. Unexported to prevent direct access.
	nodes map[string]*Node

	// edges contains all edges in the snapshot.
	edges []*Edge

	// nodesByType stores nodes grouped by entity type.
	// Array indexed by NodeType for cache-friendly access.
	// Writes during build only, reads after Freeze().
	nodesByType [NumNodeTypes][]*Node

	// edgesByType stores edges grouped by relationship type.
	// Array indexed by RelType for cache-friendly access.
	// Writes during build only, reads after Freeze().
	edgesByType [NumRelTypes][]*Edge

	// state is the current lifecycle state.
	state SnapshotState

	// options contains configuration.
	options SnapshotOptions

	// BuiltAtMilli is the Unix timestamp in milliseconds when Freeze() was
	// called. Zero if the snapshot has not been frozen.
	BuiltAtMilli int64
}

// NewSnapshot creates a new empty snapshot.
//
// Description:
//
//	Creates a snapshot in the Building state, ready to accept AddNode and
//	AddEdge calls. The snapshot must be frozen with Freeze() before any
//	analysis runs against it.
//
// Example:
//
//	// Default options
//	s := NewSnapshot()
//
//	// Custom limits
//	s := NewSnapshot(
//	    WithMaxNodes(100_000),
//	    WithMaxEdges(1_000_000),
//	)
func NewSnapshot(opts ...SnapshotOption) *Snapshot {
	options := DefaultSnapshotOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Snapshot{
		nodes:   make(map[string]*Node),
		edges:   make([]*Edge, 0),
		state:   SnapshotStateBuilding,
		options: options,
	}
}

// State returns the current lifecycle state of the snapshot.
func (s *Snapshot) State() SnapshotState {
	return s.state
}

// IsFrozen returns true if the snapshot is in read-only mode.
func (s *Snapshot) IsFrozen() bool {
	return s.state == SnapshotStateReadOnly
}

// Freeze transitions the snapshot to read-only mode.
//
// Description:
//
//	After calling Freeze(), AddNode and AddEdge will return
//	ErrSnapshotFrozen. This operation is irreversible. The BuiltAtMilli
//	timestamp is set to the current time.
//
// Thread Safety:
//
//	After Freeze() returns, the snapshot can be safely read from multiple
//	goroutines concurrently.
func (s *Snapshot) Freeze() {
	s.state = SnapshotStateReadOnly
	s.BuiltAtMilli = time.Now().UnixMilli()
}

// NodeCount returns the number of nodes in the snapshot.
func (s *Snapshot) NodeCount() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the snapshot.
func (s *Snapshot) EdgeCount() int {
	return len(s.edges)
}

// AddNode adds an entity as a node in the snapshot.
//
// Description:
//
//	Creates a new node with the given identity, type, and attributes and
//	adds it to the snapshot.
//
// Inputs:
//
//	id - Globally unique entity identifier. Must not be empty.
//	nodeType - The entity type. Must be a known type.
//	attrs - Scalar attribute bag. May be nil.
//
// Outputs:
//
//	*Node - The created node. Can be used to inspect Outgoing/Incoming edges.
//	error - Non-nil if the snapshot is frozen, at capacity, or the node is invalid.
//
// Errors:
//
//	ErrSnapshotFrozen - Snapshot has been frozen
//	ErrInvalidNode - ID is empty or type is out of range
//	ErrDuplicateNode - Node with same ID already exists
//	ErrMaxNodesExceeded - Snapshot is at node capacity
//
// Ownership:
//
//	The snapshot stores the attribute map by reference but does NOT own
//	it. The map MUST NOT be mutated after this call.
func (s *Snapshot) AddNode(id string, nodeType NodeType, attrs Attributes) (*Node, error) {
	if s.state == SnapshotStateReadOnly {
		return nil, ErrSnapshotFrozen
	}

	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidNode)
	}

	if nodeType <= NodeTypeUnknown || nodeType >= NumNodeTypes {
		return nil, fmt.Errorf("%w: %q has unknown type", ErrInvalidNode, id)
	}

	if len(s.nodes) >= s.options.MaxNodes {
		return nil, ErrMaxNodesExceeded
	}

	if _, exists := s.nodes[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}

	node := &Node{
		ID:       id,
		Type:     nodeType,
		Attrs:    attrs,
		Outgoing: make([]*Edge, 0),
		Incoming: make([]*Edge, 0),
	}

	s.nodes[id] = node
	s.nodesByType[nodeType] = append(s.nodesByType[nodeType], node)

	return node, nil
}

// GetNode retrieves a node by its ID.
//
// Description:
//
//	Performs O(1) lookup in the node map.
//
// Outputs:
//
//	*Node - The node if found, nil otherwise.
//	bool - True if the node was found.
func (s *Snapshot) GetNode(id string) (*Node, bool) {
	node, exists := s.nodes[id]
	return node, exists
}

// AddEdge creates a directed, typed edge between two nodes.
//
// Description:
//
//	Creates an edge from the source node to the target node with the
//	given relationship type and attributes. Both nodes must already exist
//	in the snapshot. Multiple edges of the same type between the same
//	nodes are allowed (the model is a multigraph).
//
// Inputs:
//
//	fromID - ID of the source node.
//	toID - ID of the target node.
//	relType - The relationship type.
//	attrs - Scalar attribute bag. May be nil.
//
// Outputs:
//
//	error - Non-nil if the snapshot is frozen, at capacity, or nodes don't exist.
//
// Errors:
//
//	ErrSnapshotFrozen - Snapshot has been frozen
//	ErrInvalidRelType - Relationship type out of range
//	ErrNodeNotFound - Source or target node doesn't exist
//	ErrMaxEdgesExceeded - Snapshot is at edge capacity
func (s *Snapshot) AddEdge(fromID, toID string, relType RelType, attrs Attributes) error {
	if s.state == SnapshotStateReadOnly {
		return ErrSnapshotFrozen
	}

	if relType <= RelTypeUnknown || relType >= NumRelTypes {
		return fmt.Errorf("%w: %d", ErrInvalidRelType, relType)
	}

	if len(s.edges) >= s.options.MaxEdges {
		return ErrMaxEdgesExceeded
	}

	fromNode, fromOK := s.nodes[fromID]
	if !fromOK {
		return fmt.Errorf("%w: source %s", ErrNodeNotFound, fromID)
	}

	toNode, toOK := s.nodes[toID]
	if !toOK {
		return fmt.Errorf("%w: target %s", ErrNodeNotFound, toID)
	}

	edge := &Edge{
		FromID: fromID,
		ToID:   toID,
		Type:   relType,
		Attrs:  attrs,
	}

	s.edges = append(s.edges, edge)
	fromNode.Outgoing = append(fromNode.Outgoing, edge)
	toNode.Incoming = append(toNode.Incoming, edge)
	s.edgesByType[relType] = append(s.edgesByType[relType], edge)

	return nil
}

// Validate checks that the snapshot is structurally consistent.
//
// Description:
//
//	Verifies all edges reference existing nodes. Should be called once
//	after build, before Freeze(). A dangling reference is a loader
//	contract violation and surfaces as ErrMalformedGraph.
//
// Outputs:
//
//	error - Non-nil if the snapshot is corrupt (dangling edges)
//
// Example:
//
//	if err := snap.Validate(); err != nil {
//	    return fmt.Errorf("snapshot rejected: %w", err)
//	}
func (s *Snapshot) Validate() error {
	for i, edge := range s.edges {
		if _, ok := s.nodes[edge.FromID]; !ok {
			return fmt.Errorf("%w: edge[%d]: source node %q not found", ErrMalformedGraph, i, edge.FromID)
		}
		if _, ok := s.nodes[edge.ToID]; !ok {
			return fmt.Errorf("%w: edge[%d]: target node %q not found", ErrMalformedGraph, i, edge.ToID)
		}
	}
	return nil
}

// Nodes returns an iterator function over all nodes in the snapshot.
//
// Description:
//
//	Returns a function that can be used to iterate over all nodes.
//	This allows iteration without exposing the internal map.
//
// Example:
//
//	for id, node := range s.Nodes() {
//	    fmt.Printf("Node: %s (%s)\n", id, node.Type)
//	}
func (s *Snapshot) Nodes() func(yield func(string, *Node) bool) {
	return func(yield func(string, *Node) bool) {
		for id, node := range s.nodes {
			if !yield(id, node) {
				return
			}
		}
	}
}

// Edges returns a slice of all edges in the snapshot.
//
// Description:
//
//	Returns the internal edge slice. Callers should NOT modify the
//	returned slice.
func (s *Snapshot) Edges() []*Edge {
	return s.edges
}

// NodesOfType returns all nodes of the given entity type.
//
// Description:
//
//	Uses the secondary index for O(1) lookup. Returns a defensive copy
//	to prevent external mutation.
//
// Outputs:
//
//	[]*Node - Nodes of that type. Empty slice if none found or invalid type.
//
// Thread Safety:
//
//	Safe for concurrent use on frozen snapshots.
func (s *Snapshot) NodesOfType(nodeType NodeType) []*Node {
	if nodeType < 0 || nodeType >= NumNodeTypes {
		return []*Node{}
	}
	nodes := s.nodesByType[nodeType]
	if len(nodes) == 0 {
		return []*Node{}
	}
	result := make([]*Node, len(nodes))
	copy(result, nodes)
	return result
}

// EdgesOfType returns all edges of the given relationship type.
//
// Description:
//
//	Uses the secondary index for O(1) lookup. Returns a defensive copy
//	to prevent external mutation.
//
// Outputs:
//
//	[]*Edge - Edges of that type. Empty slice if none found or invalid type.
//
// Thread Safety:
//
//	Safe for concurrent use on frozen snapshots.
func (s *Snapshot) EdgesOfType(relType RelType) []*Edge {
	if relType < 0 || relType >= NumRelTypes {
		return []*Edge{}
	}
	edges := s.edgesByType[relType]
	if len(edges) == 0 {
		return []*Edge{}
	}
	result := make([]*Edge, len(edges))
	copy(result, edges)
	return result
}

// NodeCountByType returns the count of nodes of the given entity type.
//
// Complexity: O(1) via the secondary index, no copying.
func (s *Snapshot) NodeCountByType(nodeType NodeType) int {
	if nodeType < 0 || nodeType >= NumNodeTypes {
		return 0
	}
	return len(s.nodesByType[nodeType])
}

// EdgeCountByType returns the count of edges of the given relationship type.
//
// Complexity: O(1) via the secondary index, no copying.
func (s *Snapshot) EdgeCountByType(relType RelType) int {
	if relType < 0 || relType >= NumRelTypes {
		return 0
	}
	return len(s.edgesByType[relType])
}

// SnapshotStats contains statistics about the snapshot.
//
// Thread Safety: SnapshotStats is a value type with no internal state.
// Safe for concurrent use as long as the source Snapshot is frozen.
type SnapshotStats struct {
	// NodeCount is the total number of nodes.
	NodeCount int `json:"node_count"`

	// EdgeCount is the total number of edges.
	EdgeCount int `json:"edge_count"`

	// NodesByType maps each entity type name to the count of nodes of that type.
	NodesByType map[string]int `json:"nodes_by_type"`

	// EdgesByType maps each relationship type name to the count of edges of that type.
	EdgesByType map[string]int `json:"edges_by_type"`

	// MaxNodes is the configured maximum node capacity.
	MaxNodes int `json:"max_nodes"`

	// MaxEdges is the configured maximum edge capacity.
	MaxEdges int `json:"max_edges"`

	// State is the current snapshot state.
	State string `json:"state"`

	// BuiltAtMilli is when Freeze() was called (0 if not frozen).
	BuiltAtMilli int64 `json:"built_at_milli"`
}

// Stats returns statistics about the snapshot.
//
// Description:
//
//	Returns statistics including node/edge counts, breakdowns by entity
//	and relationship type, and capacity information. Uses the secondary
//	indexes for O(1) lookups instead of O(V+E) iteration.
//
// Complexity:
//
//	O(K + T) where K is the number of node types and T the number of
//	relationship types.
//
// Thread Safety:
//
//	Safe for concurrent use on frozen snapshots. Not safe during building.
func (s *Snapshot) Stats() SnapshotStats {
	nodesByType := make(map[string]int)
	for i := 0; i < int(NumNodeTypes); i++ {
		if count := len(s.nodesByType[i]); count > 0 {
			nodesByType[NodeType(i).String()] = count
		}
	}

	edgesByType := make(map[string]int)
	for i := 0; i < int(NumRelTypes); i++ {
		if count := len(s.edgesByType[i]); count > 0 {
			edgesByType[RelType(i).String()] = count
		}
	}

	return SnapshotStats{
		NodeCount:    len(s.nodes),
		EdgeCount:    len(s.edges),
		NodesByType:  nodesByType,
		EdgesByType:  edgesByType,
		MaxNodes:     s.options.MaxNodes,
		MaxEdges:     s.options.MaxEdges,
		State:        s.state.String(),
		BuiltAtMilli: s.BuiltAtMilli,
	}
}
