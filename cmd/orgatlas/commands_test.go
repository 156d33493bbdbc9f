// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
	"github.com/spf13/cobra"
)

// TestUsageExamplesUseWireRelationNames tests that every --rel-types
// value shown in command help is a real relationship wire name, so
// pasting an example never yields an unknown-relationship error.
func TestUsageExamplesUseWireRelationNames(t *testing.T) {
	relTypesArg := regexp.MustCompile(`--rel-types (\S+)`)
	for _, cmd := range []*cobra.Command{centralityCmd, communitiesCmd, pathCmd} {
		for _, match := range relTypesArg.FindAllStringSubmatch(cmd.Long, -1) {
			for _, name := range strings.Split(match[1], ",") {
				if _, ok := graph.RelTypeFromString(name); !ok {
					t.Errorf("%s usage example references unknown relationship %q", cmd.Name(), name)
				}
			}
		}
	}
}
