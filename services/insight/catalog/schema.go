// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package catalog

import (
	"fmt"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// Relationship describes one relationship type's expected endpoints.
type Relationship struct {
	// Type is the relationship type.
	Type graph.RelType

	// From is the expected source entity type.
	From graph.NodeType

	// To is the expected target entity type.
	To graph.NodeType
}

// schema lists the expected endpoint types for every relationship in
// the HR ontology.
var schema = []Relationship{
	{graph.RelTypeReportsTo, graph.NodeTypeEmployee, graph.NodeTypeEmployee},
	{graph.RelTypeBelongsTo, graph.NodeTypeEmployee, graph.NodeTypeDepartment},
	{graph.RelTypePartOf, graph.NodeTypeDepartment, graph.NodeTypeDivision},
	{graph.RelTypeLocatedAt, graph.NodeTypeEmployee, graph.NodeTypeLocation},
	{graph.RelTypeHoldsPosition, graph.NodeTypeEmployee, graph.NodeTypePosition},
	{graph.RelTypePositionIn, graph.NodeTypePosition, graph.NodeTypeDepartment},
	{graph.RelTypeInJobFamily, graph.NodeTypePosition, graph.NodeTypeJobFamily},
	{graph.RelTypeAtLevel, graph.NodeTypePosition, graph.NodeTypeJobLevel},
	{graph.RelTypeHasSkill, graph.NodeTypeEmployee, graph.NodeTypeSkill},
	{graph.RelTypeRequiresSkill, graph.NodeTypePosition, graph.NodeTypeSkill},
	{graph.RelTypeDemonstratesCompetency, graph.NodeTypePerformanceReview, graph.NodeTypeSkill},
	{graph.RelTypeAppliedFor, graph.NodeTypeCandidate, graph.NodeTypeRequisition},
	{graph.RelTypeHasApplication, graph.NodeTypeCandidate, graph.NodeTypeApplication},
	{graph.RelTypeApplicationFor, graph.NodeTypeApplication, graph.NodeTypeRequisition},
	{graph.RelTypeHasInterview, graph.NodeTypeApplication, graph.NodeTypeInterview},
	{graph.RelTypeInterviewedBy, graph.NodeTypeInterview, graph.NodeTypeEmployee},
	{graph.RelTypeHasOffer, graph.NodeTypeApplication, graph.NodeTypeOffer},
	{graph.RelTypeFillsRequisition, graph.NodeTypeEmployee, graph.NodeTypeRequisition},
	{graph.RelTypeSourcedFrom, graph.NodeTypeCandidate, graph.NodeTypeSourceChannel},
	{graph.RelTypeRequisitionFor, graph.NodeTypeRequisition, graph.NodeTypeDepartment},
	{graph.RelTypeReviewedIn, graph.NodeTypeEmployee, graph.NodeTypePerformanceReview},
	{graph.RelTypeReviewedBy, graph.NodeTypePerformanceReview, graph.NodeTypeEmployee},
	{graph.RelTypeSetGoal, graph.NodeTypeEmployee, graph.NodeTypeGoal},
	{graph.RelTypePartOfCycle, graph.NodeTypePerformanceReview, graph.NodeTypePerformanceCycle},
	{graph.RelTypeGoalInCycle, graph.NodeTypeGoal, graph.NodeTypePerformanceCycle},
	{graph.RelTypeEarnsBase, graph.NodeTypeEmployee, graph.NodeTypeBaseSalary},
	{graph.RelTypeReceivedBonus, graph.NodeTypeEmployee, graph.NodeTypeBonus},
	{graph.RelTypeGrantedEquity, graph.NodeTypeEmployee, graph.NodeTypeEquityGrant},
	{graph.RelTypeInSalaryBand, graph.NodeTypePosition, graph.NodeTypeSalaryBand},
	{graph.RelTypeExperiencedEvent, graph.NodeTypeEmployee, graph.NodeTypeTemporalEvent},
}

// schemaByType indexes the schema for O(1) endpoint checks.
var schemaByType = func() map[graph.RelType]Relationship {
	m := make(map[graph.RelType]Relationship, len(schema))
	for _, rel := range schema {
		m[rel.Type] = rel
	}
	return m
}()

// Schema returns the endpoint schema for every relationship type.
func Schema() []Relationship {
	out := make([]Relationship, len(schema))
	copy(out, schema)
	return out
}

// CheckEndpoints verifies that an edge's endpoint entity types match
// the schema for its relationship type.
//
// Outputs:
//
//	error - Non-nil when the relationship is unknown or an endpoint
//	        type doesn't match.
func CheckEndpoints(relType graph.RelType, from, to graph.NodeType) error {
	expected, ok := schemaByType[relType]
	if !ok {
		return fmt.Errorf("no schema for relationship %s", relType)
	}
	if from != expected.From {
		return fmt.Errorf("%s: source is %s, want %s", relType, from, expected.From)
	}
	if to != expected.To {
		return fmt.Errorf("%s: target is %s, want %s", relType, to, expected.To)
	}
	return nil
}
