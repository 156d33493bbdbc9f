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
	"errors"
	"strings"
	"testing"
)

func TestIcon_Render(t *testing.T) {
	icons := []Icon{IconSuccess, IconWarning, IconError, IconPending, IconArrow, IconBullet}
	for _, icon := range icons {
		rendered := icon.Render()
		if rendered == "" {
			t.Errorf("icon %q rendered empty", string(icon))
		}
		if !strings.Contains(rendered, string(icon)) {
			t.Errorf("rendered icon %q lost its glyph: %q", string(icon), rendered)
		}
	}
}

func TestIcon_Render_Unstyled(t *testing.T) {
	// Icons without a semantic style render as the bare glyph
	if got := IconArrow.Render(); got != string(IconArrow) {
		t.Errorf("expected bare glyph %q, got %q", string(IconArrow), got)
	}
}

func TestSpinner_StartStopMachineMode(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	// Machine mode prints once and never animates, so Start/Stop
	// must not block or panic.
	spin := NewSpinner("loading snapshot")
	spin.Start()
	spin.Stop()
}

func TestSpinner_DoubleStart(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	spin := NewSpinner("working")
	spin.Start()
	spin.Start() // no-op
	spin.Stop()
	spin.Stop() // no-op
}

func TestWithSpinner_Error(t *testing.T) {
	orig := GetPersonality()
	defer SetPersonality(orig)
	SetPersonalityLevel(PersonalityMachine)

	want := errors.New("load failed")
	err := WithSpinner("loading", func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("expected error %v, got %v", want, err)
	}

	if err := WithSpinner("loading", func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
