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
	"fmt"
	"sort"
)

// Metric names a centrality measure.
type Metric string

const (
	// MetricDegree is normalized degree centrality.
	MetricDegree Metric = "degree"

	// MetricBetweenness is shortest-path betweenness centrality.
	MetricBetweenness Metric = "betweenness"

	// MetricPageRank is PageRank with sink redistribution.
	MetricPageRank Metric = "pagerank"
)

// ParseMetric parses a metric name.
//
// Outputs:
//
//	Metric - The parsed metric.
//	error - ErrUnsupportedMetric when the name is not a known metric.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricDegree, MetricBetweenness, MetricPageRank:
		return Metric(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMetric, name)
	}
}

// CentralityOptions configures a centrality computation.
type CentralityOptions struct {
	// Metric selects the measure to compute.
	Metric Metric

	// NodeTypes restricts the computation to nodes of the given types.
	// Empty means all nodes.
	NodeTypes []NodeType

	// RelTypes restricts the computation to edges of the given types.
	// Empty means all edges.
	RelTypes []RelType

	// Directed, when true, treats edges as directed for degree and
	// betweenness. PageRank is always directed. Default treats the
	// graph as undirected, which is the usual reading for
	// organizational brokerage.
	Directed bool

	// MaxSources bounds the number of source nodes Brandes betweenness
	// accumulates from. Zero means exact (all sources). When the bound
	// cuts the source set the result is marked Approximate and scores
	// are scaled up to compensate.
	MaxSources int

	// PageRank configures the pagerank iteration. Zero values take
	// defaults.
	PageRank PageRankOptions
}

// DefaultCentralityOptions returns sensible defaults for centrality.
func DefaultCentralityOptions() CentralityOptions {
	return CentralityOptions{
		Metric:   MetricDegree,
		PageRank: DefaultPageRankOptions(),
	}
}

// Validate checks the options and applies defaults for zero values.
func (o *CentralityOptions) Validate() error {
	if _, err := ParseMetric(string(o.Metric)); err != nil {
		return err
	}
	if o.MaxSources < 0 {
		return fmt.Errorf("invalid max sources: %d", o.MaxSources)
	}
	for _, nt := range o.NodeTypes {
		if nt <= NodeTypeUnknown || nt >= NumNodeTypes {
			return fmt.Errorf("%w: node type %d", ErrInvalidNode, nt)
		}
	}
	for _, rt := range o.RelTypes {
		if rt <= RelTypeUnknown || rt >= NumRelTypes {
			return fmt.Errorf("%w: %d", ErrInvalidRelType, rt)
		}
	}
	return o.PageRank.Validate()
}

// CentralityResult holds the scores of one centrality computation.
type CentralityResult struct {
	// Metric is the measure that was computed.
	Metric Metric `json:"metric"`

	// Scores maps node ID to its centrality score.
	Scores map[string]float64 `json:"scores"`

	// Ranked lists nodes by score descending, node ID ascending on ties.
	Ranked []RankedNode `json:"ranked"`

	// Approximate is true when betweenness sampled a subset of sources.
	Approximate bool `json:"approximate"`

	// Converged is true when pagerank reached its tolerance before the
	// iteration cap. Always true for degree and betweenness.
	Converged bool `json:"converged"`

	// Iterations is the number of pagerank iterations run. Zero for
	// degree and betweenness.
	Iterations int `json:"iterations"`

	// NodeCount is the size of the analyzed subgraph.
	NodeCount int `json:"node_count"`
}

// subgraphIndex is a compact integer-indexed view of a node/edge-type
// filtered subgraph. Node order is sorted by ID so every computation
// over the same snapshot and filter is deterministic.
type subgraphIndex struct {
	ids []string
	idx map[string]int

	// out and in are directed adjacency with parallel edges deduped.
	out [][]int
	in  [][]int

	// und is symmetrized, deduped adjacency.
	und [][]int
}

// buildSubgraph materializes the filtered subgraph index.
func (s *Snapshot) buildSubgraph(nodeTypes []NodeType, relTypes []RelType) *subgraphIndex {
	includeNode := func(t NodeType) bool {
		if len(nodeTypes) == 0 {
			return true
		}
		for _, nt := range nodeTypes {
			if nt == t {
				return true
			}
		}
		return false
	}
	includeEdge := func(t RelType) bool {
		if len(relTypes) == 0 {
			return true
		}
		for _, rt := range relTypes {
			if rt == t {
				return true
			}
		}
		return false
	}

	ids := make([]string, 0, len(s.nodes))
	for id, node := range s.nodes {
		if includeNode(node.Type) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	g := &subgraphIndex{
		ids: ids,
		idx: make(map[string]int, len(ids)),
		out: make([][]int, len(ids)),
		in:  make([][]int, len(ids)),
		und: make([][]int, len(ids)),
	}
	for i, id := range ids {
		g.idx[id] = i
	}

	outSeen := make([]map[int]bool, len(ids))
	undSeen := make([]map[int]bool, len(ids))
	for i := range ids {
		outSeen[i] = make(map[int]bool)
		undSeen[i] = make(map[int]bool)
	}

	for _, edge := range s.edges {
		if !includeEdge(edge.Type) {
			continue
		}
		from, okFrom := g.idx[edge.FromID]
		to, okTo := g.idx[edge.ToID]
		if !okFrom || !okTo || from == to {
			continue
		}
		if !outSeen[from][to] {
			outSeen[from][to] = true
			g.out[from] = append(g.out[from], to)
			g.in[to] = append(g.in[to], from)
		}
		if !undSeen[from][to] {
			undSeen[from][to] = true
			undSeen[to][from] = true
			g.und[from] = append(g.und[from], to)
			g.und[to] = append(g.und[to], from)
		}
	}

	return g
}

// Centrality computes a centrality measure over the snapshot.
//
// Description:
//
//	Builds the filtered subgraph and dispatches to the selected metric.
//	Scores are keyed by node ID; Ranked orders them score descending
//	with node ID ascending as the tiebreak. The snapshot must be frozen.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	opts - Metric selection, filters, and bounds.
//
// Outputs:
//
//	*CentralityResult - Scores and ranking. Never nil on success.
//	error - ErrSnapshotNotFrozen, ErrUnsupportedMetric, or ctx.Err().
func (s *Snapshot) Centrality(ctx context.Context, opts CentralityOptions) (*CentralityResult, error) {
	if s.state != SnapshotStateReadOnly {
		return nil, ErrSnapshotNotFrozen
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	g := s.buildSubgraph(opts.NodeTypes, opts.RelTypes)

	result := &CentralityResult{
		Metric:    opts.Metric,
		Converged: true,
		NodeCount: len(g.ids),
	}

	var err error
	switch opts.Metric {
	case MetricDegree:
		result.Scores = degreeScores(g, opts.Directed)
	case MetricBetweenness:
		result.Scores, result.Approximate, err = betweennessScores(ctx, g, opts.Directed, opts.MaxSources)
	case MetricPageRank:
		var pr *pageRankOutcome
		pr, err = pageRankScores(ctx, g, opts.PageRank)
		if err == nil {
			result.Scores = pr.scores
			result.Converged = pr.converged
			result.Iterations = pr.iterations
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMetric, opts.Metric)
	}
	if err != nil {
		return nil, err
	}

	result.Ranked = rankScores(result.Scores)
	return result, nil
}

// degreeScores computes degree centrality normalized by n-1.
func degreeScores(g *subgraphIndex, directed bool) map[string]float64 {
	scores := make(map[string]float64, len(g.ids))
	n := len(g.ids)
	if n <= 1 {
		for _, id := range g.ids {
			scores[id] = 0
		}
		return scores
	}

	norm := float64(n - 1)
	for i, id := range g.ids {
		if directed {
			scores[id] = float64(len(g.out[i])+len(g.in[i])) / norm
		} else {
			scores[id] = float64(len(g.und[i])) / norm
		}
	}
	return scores
}

// betweennessScores computes shortest-path betweenness with the Brandes
// single-source accumulation scheme. Shortest-path ties split their
// contribution fractionally across predecessors.
//
// When maxSources > 0 and the graph has more nodes than that, only the
// first maxSources sources (in sorted node order) accumulate, scores
// are scaled by n/maxSources, and the result is marked approximate.
func betweennessScores(ctx context.Context, g *subgraphIndex, directed bool, maxSources int) (map[string]float64, bool, error) {
	n := len(g.ids)
	adj := g.und
	if directed {
		adj = g.out
	}

	centrality := make([]float64, n)

	sources := n
	approximate := false
	if maxSources > 0 && maxSources < n {
		sources = maxSources
		approximate = true
	}

	// Per-source scratch, reused across sources.
	dist := make([]int, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	pred := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for source := 0; source < sources; source++ {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		for i := 0; i < n; i++ {
			dist[i] = -1
			sigma[i] = 0
			delta[i] = 0
			pred[i] = pred[i][:0]
		}
		stack = stack[:0]
		queue = queue[:0]

		dist[source] = 0
		sigma[source] = 1
		queue = append(queue, source)

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)

			for _, w := range adj[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}

		// Accumulate dependencies in reverse BFS order.
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
			}
			if w != source {
				centrality[w] += delta[w]
			}
		}
	}

	// Undirected accumulation counts each pair twice.
	scale := 1.0
	if !directed {
		scale = 0.5
	}
	if approximate {
		scale *= float64(n) / float64(sources)
	}

	scores := make(map[string]float64, n)
	for i, id := range g.ids {
		scores[id] = centrality[i] * scale
	}
	return scores, approximate, nil
}
