// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package insight provides the Insight HTTP service for organizational
// graph analytics.
//
// The service exposes endpoints for:
//   - Departure cascade impact analysis
//   - Centrality rankings (degree, betweenness, pagerank)
//   - Community detection over the org graph
//   - Shortest paths and hierarchy distance
//   - Snapshot loading and reload
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/OrgAtlas/services/insight/catalog"
	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
	"github.com/AleutianAI/OrgAtlas/services/insight/loader"
	"github.com/AleutianAI/OrgAtlas/services/insight/telemetry"
)

// ServiceConfig configures the Insight service.
type ServiceConfig struct {
	// DataPath is the JSONL snapshot file to load. Optional; the
	// service starts empty when unset and reports not ready until a
	// reload supplies a path.
	DataPath string

	// CatalogPath is an optional YAML cascade catalog. The built-in
	// catalog is used when unset.
	CatalogPath string

	// StrictEndpoints rejects edges whose endpoint entity types don't
	// match the relationship schema during loading.
	StrictEndpoints bool

	// SkipUnknown drops records with unknown entity or relationship
	// types instead of failing the load.
	SkipUnknown bool

	// MaxNodes and MaxEdges bound snapshot capacity. Zero means the
	// package defaults.
	MaxNodes int
	MaxEdges int

	// WatchData reloads the snapshot automatically when the data file
	// changes on disk.
	WatchData bool

	// WatchDebounce is the quiet window before a file change triggers
	// a reload. Default: 2s
	WatchDebounce time.Duration

	// ReloadTimeout bounds a single snapshot load. Default: 60s
	ReloadTimeout time.Duration
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		WatchDebounce: 2 * time.Second,
		ReloadTimeout: 60 * time.Second,
	}
}

// Service is the Insight service.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Queries run against an
//	immutable snapshot; Reload swaps the snapshot atomically under a
//	write lock, so in-flight queries finish against the old one.
type Service struct {
	config  ServiceConfig
	catalog *catalog.Catalog
	log     *slog.Logger

	mu        sync.RWMutex
	analytics *graph.Analytics
	loadStats loader.Stats
	loadedAt  time.Time
	source    string

	watcher *loader.ReloadWatcher
}

// NewService creates a new Insight service.
//
// Description:
//
//	Compiles the cascade catalog (from CatalogPath when set, the
//	built-in catalog otherwise). No snapshot is loaded; call Load to
//	read the configured data path.
//
// Inputs:
//
//	config - Service configuration
//
// Outputs:
//
//	*Service - The configured service
//	error - Non-nil when the catalog fails to compile
func NewService(config ServiceConfig) (*Service, error) {
	if config.WatchDebounce <= 0 {
		config.WatchDebounce = 2 * time.Second
	}
	if config.ReloadTimeout <= 0 {
		config.ReloadTimeout = 60 * time.Second
	}

	cat := catalog.Default()
	if config.CatalogPath != "" {
		loaded, err := catalog.Load(config.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		cat = loaded
	}

	return &Service{
		config:  config,
		catalog: cat,
		log:     slog.Default().With("component", "insight.service"),
	}, nil
}

// Catalog returns the compiled cascade catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Load reads the configured data path into a fresh snapshot.
func (s *Service) Load(ctx context.Context) (loader.Stats, error) {
	if s.config.DataPath == "" {
		return loader.Stats{}, ErrNoDataSource
	}
	return s.LoadFrom(ctx, s.config.DataPath)
}

// LoadFrom reads the given JSONL file into a fresh snapshot and swaps
// it in. The path becomes the configured data path on success.
//
// Errors:
//
//	graph.ErrMalformedGraph - An edge references a missing node.
//	Parse and schema errors are wrapped with their line number.
func (s *Service) LoadFrom(ctx context.Context, path string) (loader.Stats, error) {
	ctx, span := telemetry.StartSpan(ctx, "insight.service", "Service.LoadFrom")
	defer span.End()

	start := time.Now()

	snap, stats, err := loader.New(loader.Options{
		StrictEndpoints: s.config.StrictEndpoints,
		SkipUnknown:     s.config.SkipUnknown,
		MaxNodes:        s.config.MaxNodes,
		MaxEdges:        s.config.MaxEdges,
	}).LoadFile(ctx, path)
	if err != nil {
		err = fmt.Errorf("load snapshot: %w", err)
		telemetry.RecordError(span, err)
		return loader.Stats{}, err
	}

	analytics, err := graph.NewAnalytics(snap, s.catalog.CascadeSpec())
	if err != nil {
		err = fmt.Errorf("build analytics: %w", err)
		telemetry.RecordError(span, err)
		return loader.Stats{}, err
	}

	s.mu.Lock()
	s.analytics = analytics
	s.loadStats = *stats
	s.loadedAt = time.Now()
	s.source = path
	s.config.DataPath = path
	s.mu.Unlock()

	s.log.Info("Snapshot loaded",
		"path", path,
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"skipped", stats.Skipped,
		"load_time_ms", time.Since(start).Milliseconds())
	return *stats, nil
}

// Watch starts reloading the snapshot whenever the data file changes.
//
// Description:
//
//	Watches the configured data path and reloads after the debounce
//	window. A failed reload keeps the previous snapshot and logs the
//	error. No-op when WatchData is false.
func (s *Service) Watch() error {
	if !s.config.WatchData {
		return nil
	}
	s.mu.RLock()
	path := s.source
	s.mu.RUnlock()
	if path == "" {
		return ErrNoDataSource
	}

	w, err := loader.NewReloadWatcher(path, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.ReloadTimeout)
		defer cancel()
		if _, err := s.LoadFrom(ctx, path); err != nil {
			s.log.Error("Snapshot reload failed, keeping previous snapshot", "error", err)
		}
	}, &loader.ReloadWatcherOptions{DebounceWindow: s.config.WatchDebounce})
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(context.Background()); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	s.watcher = w
	return nil
}

// Close stops the file watcher, if any.
func (s *Service) Close() error {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	return nil
}

// Ready reports whether a snapshot is loaded, and its node count.
func (s *Service) Ready() (bool, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analytics == nil {
		return false, 0
	}
	return true, s.analytics.Stats().NodeCount
}

// current returns the loaded analytics engine, or ErrSnapshotNotLoaded.
func (s *Service) current() (*graph.Analytics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.analytics == nil {
		return nil, ErrSnapshotNotLoaded
	}
	return s.analytics, nil
}

// Cascade analyzes the impact of one node's departure.
func (s *Service) Cascade(ctx context.Context, req CascadeRequest) (*CascadeResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}

	opts := graph.DefaultCascadeOptions()
	if req.MaxDepth > 0 {
		opts.MaxDepth = req.MaxDepth
	}
	if req.MaxItems > 0 {
		opts.MaxItems = req.MaxItems
	}
	if req.MaxNodes > 0 {
		opts.MaxNodes = req.MaxNodes
	}

	start := time.Now()
	report, err := a.Cascade(ctx, req.NodeID, opts)
	if err != nil {
		return nil, err
	}
	return &CascadeResponse{
		Report:    report,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Centrality computes a centrality ranking over the loaded snapshot.
func (s *Service) Centrality(ctx context.Context, req CentralityRequest) (*CentralityResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}

	metric, err := graph.ParseMetric(req.Metric)
	if err != nil {
		return nil, err
	}
	nodeTypes, err := parseNodeTypes(req.NodeTypes)
	if err != nil {
		return nil, err
	}
	relTypes, err := parseRelTypes(req.RelTypes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := a.Centrality(ctx, graph.CentralityOptions{
		Metric:     metric,
		NodeTypes:  nodeTypes,
		RelTypes:   relTypes,
		Directed:   req.Directed,
		MaxSources: req.MaxSources,
	})
	if err != nil {
		return nil, err
	}
	return &CentralityResponse{
		Metric:      string(result.Metric),
		NodeCount:   result.NodeCount,
		Ranked:      result.Top(req.Top),
		Approximate: result.Approximate,
		Converged:   result.Converged,
		Iterations:  result.Iterations,
		ElapsedMs:   time.Since(start).Milliseconds(),
	}, nil
}

// Communities detects communities in the loaded snapshot.
func (s *Service) Communities(ctx context.Context, req CommunitiesRequest) (*CommunitiesResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}

	nodeTypes, err := parseNodeTypes(req.NodeTypes)
	if err != nil {
		return nil, err
	}
	relTypes, err := parseRelTypes(req.RelTypes)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := a.DetectCommunities(ctx, graph.CommunityOptions{
		NodeTypes:        nodeTypes,
		RelTypes:         relTypes,
		Resolution:       req.Resolution,
		MinCommunitySize: req.MinCommunitySize,
	})
	if err != nil {
		return nil, err
	}
	return &CommunitiesResponse{
		Communities: result.Communities,
		Assignments: result.Assignments,
		Modularity:  result.Modularity,
		Passes:      result.Passes,
		Converged:   result.Converged,
		ElapsedMs:   time.Since(start).Milliseconds(),
	}, nil
}

// Path finds a shortest path between two nodes.
func (s *Service) Path(ctx context.Context, req PathRequest) (*PathResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}

	relTypes, err := parseRelTypes(req.RelTypes)
	if err != nil {
		return nil, err
	}
	direction, err := parseDirection(req.Direction)
	if err != nil {
		return nil, err
	}

	opts := graph.DefaultTraverseOptions()
	opts.Direction = direction
	opts.RelTypes = relTypes
	if req.MaxDepth > 0 {
		opts.MaxDepth = req.MaxDepth
	}

	start := time.Now()
	result, err := a.ShortestPath(ctx, req.FromID, req.ToID, opts)
	if err != nil {
		return nil, err
	}
	return &PathResponse{
		Path:      result,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Distance computes the undirected hierarchy distance between two nodes.
func (s *Service) Distance(ctx context.Context, req DistanceRequest) (*DistanceResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	distance, err := a.OrgDistance(ctx, req.FromID, req.ToID)
	if err != nil {
		return nil, err
	}
	return &DistanceResponse{Distance: distance}, nil
}

// FlightRisk ranks employees by the impact of their departure.
func (s *Service) FlightRisk(ctx context.Context, top int) (*FlightRiskResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	entries, err := a.FlightRisk(ctx, top)
	if err != nil {
		return nil, err
	}
	return &FlightRiskResponse{
		Entries:   entries,
		ElapsedMs: time.Since(start).Milliseconds(),
	}, nil
}

// Stats summarizes the loaded snapshot.
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	a, err := s.current()
	if err != nil {
		return nil, err
	}
	span, err := a.SpanOfControl(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	source := s.source
	loadedAt := s.loadedAt
	s.mu.RUnlock()

	return &StatsResponse{
		Stats:         a.Stats(),
		SpanOfControl: span,
		Source:        source,
		LoadedAt:      loadedAt.UTC().Format(time.RFC3339),
	}, nil
}

// parseNodeTypes resolves entity type names to their enum values.
func parseNodeTypes(names []string) ([]graph.NodeType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]graph.NodeType, 0, len(names))
	for _, name := range names {
		t, ok := graph.NodeTypeFromString(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, name)
		}
		types = append(types, t)
	}
	return types, nil
}

// parseRelTypes resolves relationship type names to their enum values.
func parseRelTypes(names []string) ([]graph.RelType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	types := make([]graph.RelType, 0, len(names))
	for _, name := range names {
		t, ok := graph.RelTypeFromString(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRelType, name)
		}
		types = append(types, t)
	}
	return types, nil
}

// parseDirection resolves a direction name; empty means both.
func parseDirection(name string) (graph.Direction, error) {
	switch name {
	case "", "both":
		return graph.DirectionBoth, nil
	case "outgoing":
		return graph.DirectionOutgoing, nil
	case "incoming":
		return graph.DirectionIncoming, nil
	default:
		return graph.DirectionBoth, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
	}
}
