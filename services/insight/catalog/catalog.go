// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package catalog defines the relationship catalog: which relationship
// type forms the reporting hierarchy, which short edge walks make up
// the departure impact categories, and how each category weighs into
// the impact score. A built-in default covers the standard HR ontology;
// deployments can override it with a YAML file.
package catalog

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// StepConfig is one hop of a category probe in configuration form.
type StepConfig struct {
	// Rel is the relationship type's wire name (e.g. "REPORTS_TO").
	Rel string `yaml:"rel" validate:"required"`

	// Direction is "outgoing" or "incoming".
	Direction string `yaml:"direction" validate:"required,oneof=outgoing incoming"`
}

// CategoryConfig is one impact category in configuration form.
type CategoryConfig struct {
	Name            string       `yaml:"name" validate:"required"`
	Steps           []StepConfig `yaml:"steps" validate:"required,min=1,max=2,dive"`
	ExcludeAttr     string       `yaml:"exclude_attr"`
	ExcludeValue    string       `yaml:"exclude_value"`
	SortByFrequency bool         `yaml:"sort_by_frequency"`
	Weight          int          `yaml:"weight" validate:"gte=0"`
}

// Config is the YAML shape of the relationship catalog.
type Config struct {
	// Hierarchy is the wire name of the reporting relationship.
	Hierarchy string `yaml:"hierarchy" validate:"required"`

	// DirectWeight is the impact score contribution per direct report.
	DirectWeight int `yaml:"direct_weight" validate:"gte=0"`

	// Categories are the impact probes.
	Categories []CategoryConfig `yaml:"categories" validate:"required,min=1,dive"`
}

// Catalog is a compiled relationship catalog.
type Catalog struct {
	config Config
	spec   graph.CascadeSpec
}

// DefaultConfig returns the built-in catalog configuration: the
// REPORTS_TO hierarchy plus the four standard impact categories.
//
// Weights follow the standard impact formula: 10 per direct report,
// 3 per review the departing employee authored, 2 per skill lost.
func DefaultConfig() Config {
	return Config{
		Hierarchy:    graph.RelTypeReportsTo.String(),
		DirectWeight: 10,
		Categories: []CategoryConfig{
			{
				Name: "reviewer_for",
				Steps: []StepConfig{
					{Rel: graph.RelTypeReviewedBy.String(), Direction: "incoming"},
					{Rel: graph.RelTypeReviewedIn.String(), Direction: "incoming"},
				},
				Weight: 3,
			},
			{
				Name: "interviews",
				Steps: []StepConfig{
					{Rel: graph.RelTypeInterviewedBy.String(), Direction: "incoming"},
				},
			},
			{
				Name: "skills_lost",
				Steps: []StepConfig{
					{Rel: graph.RelTypeHasSkill.String(), Direction: "outgoing"},
				},
				SortByFrequency: true,
				Weight:          2,
			},
			{
				Name: "goals_at_risk",
				Steps: []StepConfig{
					{Rel: graph.RelTypeSetGoal.String(), Direction: "outgoing"},
				},
				ExcludeAttr:  "status",
				ExcludeValue: "Completed",
			},
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := FromConfig(DefaultConfig())
	if err != nil {
		// The built-in config compiling is a package invariant.
		panic(fmt.Sprintf("catalog: default config invalid: %v", err))
	}
	return c
}

// Load reads and compiles a catalog from a YAML file.
//
// Inputs:
//
//	path - Path to the YAML catalog file.
//
// Outputs:
//
//	*Catalog - The compiled catalog.
//	error - Non-nil on read, parse, or validation failure.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return FromConfig(config)
}

// FromConfig validates and compiles a catalog configuration.
//
// Description:
//
//	Runs struct validation, resolves relationship wire names against
//	the known types, and builds the cascade spec the analytics engine
//	consumes.
func FromConfig(config Config) (*Catalog, error) {
	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	hierarchy, ok := graph.RelTypeFromString(config.Hierarchy)
	if !ok {
		return nil, fmt.Errorf("unknown hierarchy relationship: %q", config.Hierarchy)
	}

	spec := graph.CascadeSpec{
		Hierarchy:    hierarchy,
		DirectWeight: config.DirectWeight,
		Categories:   make([]graph.CategorySpec, 0, len(config.Categories)),
	}

	for _, cat := range config.Categories {
		compiled := graph.CategorySpec{
			Name:            cat.Name,
			Steps:           make([]graph.ProbeStep, 0, len(cat.Steps)),
			ExcludeAttr:     cat.ExcludeAttr,
			ExcludeValue:    cat.ExcludeValue,
			SortByFrequency: cat.SortByFrequency,
			Weight:          cat.Weight,
		}
		for _, step := range cat.Steps {
			rel, ok := graph.RelTypeFromString(step.Rel)
			if !ok {
				return nil, fmt.Errorf("category %q: unknown relationship %q", cat.Name, step.Rel)
			}
			direction := graph.DirectionOutgoing
			if step.Direction == "incoming" {
				direction = graph.DirectionIncoming
			}
			compiled.Steps = append(compiled.Steps, graph.ProbeStep{Rel: rel, Direction: direction})
		}
		spec.Categories = append(spec.Categories, compiled)
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("compile catalog: %w", err)
	}

	return &Catalog{config: config, spec: spec}, nil
}

// CascadeSpec returns the compiled cascade spec.
func (c *Catalog) CascadeSpec() graph.CascadeSpec {
	return c.spec
}

// Hierarchy returns the compiled hierarchy relationship type.
func (c *Catalog) Hierarchy() graph.RelType {
	return c.spec.Hierarchy
}

// Config returns the catalog's source configuration.
func (c *Catalog) Config() Config {
	return c.config
}
