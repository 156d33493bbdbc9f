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
	"math"
	"testing"
)

func newTestAnalytics(t *testing.T, s *Snapshot) *Analytics {
	t.Helper()
	a, err := NewAnalytics(s, testCascadeSpec())
	if err != nil {
		t.Fatalf("NewAnalytics: %v", err)
	}
	return a
}

func TestNewAnalytics(t *testing.T) {
	if _, err := NewAnalytics(nil, testCascadeSpec()); err == nil {
		t.Error("nil snapshot accepted")
	}

	unfrozen := NewSnapshot()
	if _, err := NewAnalytics(unfrozen, testCascadeSpec()); !errors.Is(err, ErrSnapshotNotFrozen) {
		t.Errorf("unfrozen err = %v, want ErrSnapshotNotFrozen", err)
	}

	s := newTestGraph(t).addEmployees("a").build()
	bad := testCascadeSpec()
	bad.Hierarchy = RelTypeUnknown
	if _, err := NewAnalytics(s, bad); err == nil {
		t.Error("invalid spec accepted")
	}

	a := newTestAnalytics(t, s)
	if a.Snapshot() != s {
		t.Error("Snapshot() does not return the underlying snapshot")
	}
}

func TestAnalyticsCascade(t *testing.T) {
	a := newTestAnalytics(t, buildDepartureScenario(t))

	report, err := a.Cascade(context.Background(), "mgr", DefaultCascadeOptions())
	if err != nil {
		t.Fatal(err)
	}
	if report.ImpactScore != 37 {
		t.Errorf("ImpactScore = %d, want 37", report.ImpactScore)
	}

	if _, err := a.Cascade(context.Background(), "ghost", DefaultCascadeOptions()); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("err = %v, want ErrNodeNotFound", err)
	}
}

func TestAnalyticsOrgDistance(t *testing.T) {
	s := newTestGraph(t).
		addEmployees("mgr", "p1", "p2").
		addEdge("p1", "mgr", RelTypeReportsTo).
		addEdge("p2", "mgr", RelTypeReportsTo).
		build()
	a := newTestAnalytics(t, s)

	distance, err := a.OrgDistance(context.Background(), "p1", "p2")
	if err != nil {
		t.Fatal(err)
	}
	if distance != 2 {
		t.Errorf("distance = %d, want 2", distance)
	}
}

func TestFlightRiskRanking(t *testing.T) {
	a := newTestAnalytics(t, buildDepartureScenario(t))

	entries, err := a.FlightRisk(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 7 {
		t.Fatalf("entries = %d, want 7 employees", len(entries))
	}
	if entries[0].NodeID != "mgr" {
		t.Errorf("top entry = %s, want mgr", entries[0].NodeID)
	}
	if entries[0].ImpactScore != 37 || entries[0].DirectReports != 3 {
		t.Errorf("top entry = %+v, want score 37 with 3 directs", entries[0])
	}
	// Scores must be non-increasing.
	for i := 1; i < len(entries); i++ {
		if entries[i].ImpactScore > entries[i-1].ImpactScore {
			t.Errorf("ranking not sorted at %d: %+v", i, entries[i])
		}
	}

	top2, err := a.FlightRisk(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(top2) != 2 {
		t.Errorf("top 2 = %d entries", len(top2))
	}
}

func TestFlightRiskDeterministic(t *testing.T) {
	a := newTestAnalytics(t, buildDepartureScenario(t))

	first, err := a.FlightRisk(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := a.FlightRisk(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}
		for j := range first {
			if again[j] != first[j] {
				t.Fatalf("run %d: entry %d = %+v, want %+v", i, j, again[j], first[j])
			}
		}
	}
}

func TestSpanOfControl(t *testing.T) {
	s := newTestGraph(t).
		addEmployees("ceo", "m1", "m2", "e1", "e2", "e3").
		addEdge("m1", "ceo", RelTypeReportsTo).
		addEdge("m2", "ceo", RelTypeReportsTo).
		addEdge("e1", "m1", RelTypeReportsTo).
		addEdge("e2", "m1", RelTypeReportsTo).
		addEdge("e3", "m1", RelTypeReportsTo).
		build()
	a := newTestAnalytics(t, s)

	stats, err := a.SpanOfControl(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Managers != 2 {
		t.Errorf("Managers = %d, want 2", stats.Managers)
	}
	if stats.Min != 2 || stats.Max != 3 {
		t.Errorf("Min/Max = %d/%d, want 2/3", stats.Min, stats.Max)
	}
	if math.Abs(stats.Mean-2.5) > 1e-9 {
		t.Errorf("Mean = %f, want 2.5", stats.Mean)
	}
	if stats.ByManager["m1"] != 3 || stats.ByManager["ceo"] != 2 {
		t.Errorf("ByManager = %v", stats.ByManager)
	}
}

func TestSpanOfControlEmpty(t *testing.T) {
	a := newTestAnalytics(t, newTestGraph(t).addEmployees("a").build())

	stats, err := a.SpanOfControl(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Managers != 0 || len(stats.ByManager) != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}
