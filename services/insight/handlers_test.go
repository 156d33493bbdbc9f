// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

// testSnapshotJSONL is a small org: Morgan manages Dana, Drew, and
// Devi, Iris reports to Dana, and Morgan holds the Go skill.
const testSnapshotJSONL = `{"kind":"node","id":"m","type":"Employee","attrs":{"name":"Morgan"}}
{"kind":"node","id":"d1","type":"Employee","attrs":{"name":"Dana"}}
{"kind":"node","id":"d2","type":"Employee","attrs":{"name":"Drew"}}
{"kind":"node","id":"d3","type":"Employee","attrs":{"name":"Devi"}}
{"kind":"node","id":"i1","type":"Employee","attrs":{"name":"Iris"}}
{"kind":"node","id":"go","type":"Skill","attrs":{"name":"Go"}}
{"kind":"edge","from":"d1","to":"m","type":"REPORTS_TO"}
{"kind":"edge","from":"d2","to":"m","type":"REPORTS_TO"}
{"kind":"edge","from":"d3","to":"m","type":"REPORTS_TO"}
{"kind":"edge","from":"i1","to":"d1","type":"REPORTS_TO"}
{"kind":"edge","from":"m","to":"go","type":"HAS_SKILL"}
`

func writeTestSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "org.jsonl")
	if err := os.WriteFile(path, []byte(testSnapshotJSONL), 0o644); err != nil {
		t.Fatalf("failed to write snapshot file: %v", err)
	}
	return path
}

func setupTestRouter(svc *Service) *gin.Engine {
	router := gin.New()
	handlers := NewHandlers(svc)
	v1 := router.Group("/v1")
	RegisterRoutes(v1, handlers)
	return router
}

// setupLoadedService returns a service with the test snapshot loaded.
func setupLoadedService(t *testing.T) (*Service, *gin.Engine) {
	t.Helper()
	config := DefaultServiceConfig()
	config.DataPath = writeTestSnapshot(t)

	svc, err := NewService(config)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("failed to load snapshot: %v", err)
	}
	return svc, setupTestRouter(svc)
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}
	req, _ := http.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlers_HandleHealth(t *testing.T) {
	svc, err := NewService(DefaultServiceConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	router := setupTestRouter(svc)

	req, _ := http.NewRequest("GET", "/v1/insight/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", resp.Status)
	}
	if resp.Version != ServiceVersion {
		t.Errorf("expected version %q, got %q", ServiceVersion, resp.Version)
	}
}

func TestHandlers_HandleReady(t *testing.T) {
	svc, err := NewService(DefaultServiceConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	router := setupTestRouter(svc)

	// Not ready before any snapshot is loaded.
	req, _ := http.NewRequest("GET", "/v1/insight/ready", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d before load, got %d", http.StatusServiceUnavailable, w.Code)
	}

	_, router = setupLoadedService(t)
	req, _ = http.NewRequest("GET", "/v1/insight/ready", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d after load, got %d", http.StatusOK, w.Code)
	}

	var resp ReadyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Ready {
		t.Error("expected ready=true after load")
	}
	if resp.NodeCount != 6 {
		t.Errorf("expected node count 6, got %d", resp.NodeCount)
	}
}

func TestHandlers_HandleCascade(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/cascade", CascadeRequest{NodeID: "m"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp CascadeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Report.RootName != "Morgan" {
		t.Errorf("expected root name Morgan, got %q", resp.Report.RootName)
	}
	if resp.Report.DirectCount != 3 {
		t.Errorf("expected 3 direct reports, got %d", resp.Report.DirectCount)
	}
	if resp.Report.IndirectCount != 1 {
		t.Errorf("expected 1 indirect report, got %d", resp.Report.IndirectCount)
	}
	// 3 directs at weight 10 plus 1 skill at weight 2.
	if resp.Report.ImpactScore != 32 {
		t.Errorf("expected impact score 32, got %d", resp.Report.ImpactScore)
	}
}

func TestHandlers_HandleCascade_NotFound(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/cascade", CascadeRequest{NodeID: "nobody"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != "NODE_NOT_FOUND" {
		t.Errorf("expected code NODE_NOT_FOUND, got %q", resp.Code)
	}
}

func TestHandlers_HandleCascade_InvalidBody(t *testing.T) {
	_, router := setupLoadedService(t)

	req, _ := http.NewRequest("POST", "/v1/insight/cascade", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlers_HandleCascade_NotLoaded(t *testing.T) {
	svc, err := NewService(DefaultServiceConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	router := setupTestRouter(svc)

	w := postJSON(t, router, "/v1/insight/cascade", CascadeRequest{NodeID: "m"})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
}

func TestHandlers_HandleCentrality(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/centrality", CentralityRequest{
		Metric:    "degree",
		NodeTypes: []string{"Employee"},
		RelTypes:  []string{"REPORTS_TO"},
		Top:       1,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp CentralityResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Metric != "degree" {
		t.Errorf("expected metric degree, got %q", resp.Metric)
	}
	if resp.NodeCount != 5 {
		t.Errorf("expected 5 nodes, got %d", resp.NodeCount)
	}
	if len(resp.Ranked) != 1 {
		t.Fatalf("expected 1 ranked entry, got %d", len(resp.Ranked))
	}
	if resp.Ranked[0].NodeID != "m" {
		t.Errorf("expected m to rank first, got %q", resp.Ranked[0].NodeID)
	}
}

func TestHandlers_HandleCentrality_UnsupportedMetric(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/centrality", CentralityRequest{Metric: "eigenvector"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != "UNSUPPORTED_METRIC" {
		t.Errorf("expected code UNSUPPORTED_METRIC, got %q", resp.Code)
	}
}

func TestHandlers_HandleCentrality_UnknownType(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/centrality", CentralityRequest{
		Metric:    "degree",
		NodeTypes: []string{"Wizard"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != "UNKNOWN_TYPE" {
		t.Errorf("expected code UNKNOWN_TYPE, got %q", resp.Code)
	}
}

func TestHandlers_HandleCommunities(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/communities", CommunitiesRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp CommunitiesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Assignments) != 6 {
		t.Errorf("expected 6 assignments, got %d", len(resp.Assignments))
	}
	if len(resp.Communities) == 0 {
		t.Error("expected at least one community")
	}
}

func TestHandlers_HandlePath(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/path", PathRequest{
		FromID:    "i1",
		ToID:      "m",
		RelTypes:  []string{"REPORTS_TO"},
		Direction: "outgoing",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp PathResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if !resp.Path.Found {
		t.Fatal("expected a path")
	}
	if resp.Path.Length != 2 {
		t.Errorf("expected path length 2, got %d", resp.Path.Length)
	}
}

func TestHandlers_HandlePath_UnknownNode(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/path", PathRequest{FromID: "i1", ToID: "nobody"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestHandlers_HandleDistance(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/distance", DistanceRequest{FromID: "d1", ToID: "d2"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp DistanceResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	// Peers under the same manager are two hops apart.
	if resp.Distance != 2 {
		t.Errorf("expected distance 2, got %d", resp.Distance)
	}
}

func TestHandlers_HandleFlightRisk(t *testing.T) {
	_, router := setupLoadedService(t)

	req, _ := http.NewRequest("GET", "/v1/insight/flight-risk?top=1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp FlightRiskResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(resp.Entries))
	}
	if resp.Entries[0].NodeID != "m" {
		t.Errorf("expected m to rank first, got %q", resp.Entries[0].NodeID)
	}
	if resp.Entries[0].ImpactScore != 32 {
		t.Errorf("expected impact score 32, got %d", resp.Entries[0].ImpactScore)
	}
}

func TestHandlers_HandleFlightRisk_BadTop(t *testing.T) {
	_, router := setupLoadedService(t)

	req, _ := http.NewRequest("GET", "/v1/insight/flight-risk?top=many", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestHandlers_HandleStats(t *testing.T) {
	_, router := setupLoadedService(t)

	req, _ := http.NewRequest("GET", "/v1/insight/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp StatsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Stats.NodeCount != 6 {
		t.Errorf("expected 6 nodes, got %d", resp.Stats.NodeCount)
	}
	if resp.Stats.EdgeCount != 5 {
		t.Errorf("expected 5 edges, got %d", resp.Stats.EdgeCount)
	}
	if resp.SpanOfControl.Managers != 2 {
		t.Errorf("expected 2 managers, got %d", resp.SpanOfControl.Managers)
	}
	if resp.SpanOfControl.Max != 3 {
		t.Errorf("expected max span 3, got %d", resp.SpanOfControl.Max)
	}
	if resp.Source == "" {
		t.Error("expected a snapshot source path")
	}
}

func TestHandlers_HandleReload(t *testing.T) {
	_, router := setupLoadedService(t)

	w := postJSON(t, router, "/v1/insight/snapshot/reload", ReloadRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp ReloadResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Nodes != 6 || resp.Edges != 5 {
		t.Errorf("expected 6 nodes and 5 edges, got %d and %d", resp.Nodes, resp.Edges)
	}
}

func TestHandlers_HandleReload_NoDataSource(t *testing.T) {
	svc, err := NewService(DefaultServiceConfig())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	router := setupTestRouter(svc)

	req, _ := http.NewRequest("POST", "/v1/insight/snapshot/reload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != "NO_DATA_SOURCE" {
		t.Errorf("expected code NO_DATA_SOURCE, got %q", resp.Code)
	}
}

func TestHandlers_RequestIDEchoed(t *testing.T) {
	_, router := setupLoadedService(t)

	data, _ := json.Marshal(CascadeRequest{NodeID: "m"})
	req, _ := http.NewRequest("POST", "/v1/insight/cascade", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("expected request ID to be echoed, got %q", got)
	}
}
