// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"os"
	"testing"
)

// =============================================================================
// GetPersonality / SetPersonality Tests
// =============================================================================

func TestSetPersonality_AndGet(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	custom := Personality{
		Level:    PersonalityMinimal,
		Theme:    "custom",
		ShowTips: false,
	}
	SetPersonality(custom)

	retrieved := GetPersonality()
	if retrieved.Level != PersonalityMinimal {
		t.Errorf("expected level %v, got %v", PersonalityMinimal, retrieved.Level)
	}
	if retrieved.Theme != "custom" {
		t.Errorf("expected theme 'custom', got %q", retrieved.Theme)
	}
	if retrieved.ShowTips != false {
		t.Errorf("expected ShowTips false, got %v", retrieved.ShowTips)
	}
}

func TestSetPersonalityLevel(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityMachine)
	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("expected level machine, got %v", got)
	}

	// Only the level changes; theme is preserved
	if got := GetPersonality().Theme; got != orig.Theme {
		t.Errorf("expected theme %q preserved, got %q", orig.Theme, got)
	}
}

// =============================================================================
// ParsePersonalityLevel Tests
// =============================================================================

func TestParsePersonalityLevel(t *testing.T) {
	tests := []struct {
		input string
		want  PersonalityLevel
	}{
		{"full", PersonalityFull},
		{"f", PersonalityFull},
		{"FULL", PersonalityFull},
		{"standard", PersonalityStandard},
		{"std", PersonalityStandard},
		{"s", PersonalityStandard},
		{"minimal", PersonalityMinimal},
		{"min", PersonalityMinimal},
		{"m", PersonalityMinimal},
		{"machine", PersonalityMachine},
		{"quiet", PersonalityMachine},
		{"q", PersonalityMachine},
		{"bogus", PersonalityStandard},
		{"", PersonalityStandard},
	}

	for _, tt := range tests {
		if got := ParsePersonalityLevel(tt.input); got != tt.want {
			t.Errorf("ParsePersonalityLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// =============================================================================
// InitPersonality Tests
// =============================================================================

func TestInitPersonality_EnvOverride(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	os.Setenv("ORGATLAS_PERSONALITY", "minimal")
	defer os.Unsetenv("ORGATLAS_PERSONALITY")

	InitPersonality()
	if got := GetPersonality().Level; got != PersonalityMinimal {
		t.Errorf("expected level minimal from env, got %v", got)
	}
}

func TestInitPersonality_NonTTY(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	os.Unsetenv("ORGATLAS_PERSONALITY")

	// Test binaries run with stdout piped, so the non-interactive
	// path selects machine mode.
	InitPersonality()
	if got := GetPersonality().Level; got != PersonalityMachine {
		t.Errorf("expected level machine in non-TTY context, got %v", got)
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestShouldShowProgress(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityFull)
	if !ShouldShowProgress() {
		t.Error("expected progress enabled at full level")
	}

	SetPersonalityLevel(PersonalityMachine)
	if ShouldShowProgress() {
		t.Error("expected progress disabled at machine level")
	}
}

func TestShouldShowColors(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)

	SetPersonalityLevel(PersonalityStandard)
	if !ShouldShowColors() {
		t.Error("expected colors enabled at standard level")
	}

	SetPersonalityLevel(PersonalityMachine)
	if ShouldShowColors() {
		t.Error("expected colors disabled at machine level")
	}
}
