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
	"math"
)

// Default pagerank configuration values.
const (
	// DefaultDampingFactor is the standard pagerank damping factor.
	DefaultDampingFactor = 0.85

	// DefaultPageRankTolerance is the L1 convergence threshold.
	DefaultPageRankTolerance = 1e-6

	// DefaultPageRankMaxIterations caps the power iteration.
	DefaultPageRankMaxIterations = 100

	// SmallGraphThreshold is the node count below which the tolerance
	// is tightened, so tiny graphs don't converge on the first noisy
	// iteration.
	SmallGraphThreshold = 10
)

// PageRankOptions configures the pagerank power iteration.
type PageRankOptions struct {
	// DampingFactor is the probability of following an edge rather
	// than teleporting. Must be in (0, 1).
	// Default: 0.85
	DampingFactor float64

	// Tolerance is the L1 score-change threshold below which the
	// iteration is considered converged.
	// Default: 1e-6
	Tolerance float64

	// MaxIterations caps the iteration count. Hitting the cap is not
	// an error; the result reports Converged=false.
	// Default: 100
	MaxIterations int
}

// DefaultPageRankOptions returns sensible defaults for pagerank.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		DampingFactor: DefaultDampingFactor,
		Tolerance:     DefaultPageRankTolerance,
		MaxIterations: DefaultPageRankMaxIterations,
	}
}

// Validate checks the options and applies defaults for zero values.
func (o *PageRankOptions) Validate() error {
	if o.DampingFactor == 0 {
		o.DampingFactor = DefaultDampingFactor
	}
	if o.DampingFactor <= 0 || o.DampingFactor >= 1 {
		return fmt.Errorf("invalid damping factor: %f", o.DampingFactor)
	}
	if o.Tolerance == 0 {
		o.Tolerance = DefaultPageRankTolerance
	}
	if o.Tolerance < 0 {
		return fmt.Errorf("invalid tolerance: %f", o.Tolerance)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultPageRankMaxIterations
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("invalid max iterations: %d", o.MaxIterations)
	}
	return nil
}

// pageRankOutcome carries the internal pagerank result before ranking.
type pageRankOutcome struct {
	scores     map[string]float64
	converged  bool
	iterations int
}

// pageRankScores runs the power iteration over the directed subgraph.
//
// Sink nodes (no outgoing edges) redistribute their mass uniformly
// across all nodes, keeping the scores a proper distribution. An empty
// graph yields empty scores; a graph with no edges converges to the
// uniform 1/N distribution on the first iteration.
func pageRankScores(ctx context.Context, g *subgraphIndex, opts PageRankOptions) (*pageRankOutcome, error) {
	n := len(g.ids)
	outcome := &pageRankOutcome{
		scores: make(map[string]float64, n),
	}
	if n == 0 {
		outcome.converged = true
		return outcome, nil
	}

	tolerance := opts.Tolerance
	if n < SmallGraphThreshold {
		tolerance = opts.Tolerance / 10
	}

	d := opts.DampingFactor
	fn := float64(n)

	scores := make([]float64, n)
	next := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / fn
	}

	for iter := 0; iter < opts.MaxIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		outcome.iterations = iter + 1

		// Mass held by sink nodes this round.
		sinkMass := 0.0
		for i := 0; i < n; i++ {
			if len(g.out[i]) == 0 {
				sinkMass += scores[i]
			}
		}
		sinkContribution := d * sinkMass / fn
		base := (1-d)/fn + sinkContribution

		for i := 0; i < n; i++ {
			next[i] = base
		}
		for v := 0; v < n; v++ {
			if len(g.out[v]) == 0 {
				continue
			}
			share := d * scores[v] / float64(len(g.out[v]))
			for _, w := range g.out[v] {
				next[w] += share
			}
		}

		diff := 0.0
		for i := 0; i < n; i++ {
			diff += math.Abs(next[i] - scores[i])
		}

		scores, next = next, scores

		if diff < tolerance {
			outcome.converged = true
			break
		}
	}

	for i, id := range g.ids {
		outcome.scores[id] = scores[i]
	}
	return outcome, nil
}
