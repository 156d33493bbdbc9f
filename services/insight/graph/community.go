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

// Default community detection configuration values.
const (
	// DefaultMaxPasses caps the number of contraction passes.
	DefaultMaxPasses = 10

	// DefaultMaxSweeps caps local-move sweeps within one pass.
	DefaultMaxSweeps = 100

	// DefaultModularityThreshold is the minimum modularity gain a pass
	// must produce to continue.
	DefaultModularityThreshold = 1e-7

	// DefaultResolution is the standard modularity resolution.
	DefaultResolution = 1.0
)

// CommunityOptions configures modularity-based community detection.
type CommunityOptions struct {
	// NodeTypes restricts detection to nodes of the given types.
	// Empty means all nodes.
	NodeTypes []NodeType

	// RelTypes restricts detection to edges of the given types.
	// Empty means all edges.
	RelTypes []RelType

	// MaxPasses caps the number of contraction passes.
	// Default: 10
	MaxPasses int

	// MaxSweeps caps local-move sweeps within one pass.
	// Default: 100
	MaxSweeps int

	// ModularityThreshold is the minimum modularity gain a pass must
	// produce for detection to continue.
	// Default: 1e-7
	ModularityThreshold float64

	// Resolution tunes community granularity. Values above 1 favor
	// more, smaller communities.
	// Default: 1.0
	Resolution float64

	// MinCommunitySize hides communities below this size from the
	// Communities listing. Assignments are unaffected.
	// Default: 1 (list everything)
	MinCommunitySize int
}

// DefaultCommunityOptions returns sensible defaults for detection.
func DefaultCommunityOptions() CommunityOptions {
	return CommunityOptions{
		MaxPasses:           DefaultMaxPasses,
		MaxSweeps:           DefaultMaxSweeps,
		ModularityThreshold: DefaultModularityThreshold,
		Resolution:          DefaultResolution,
		MinCommunitySize:    1,
	}
}

// Validate checks the options and applies defaults for zero values.
func (o *CommunityOptions) Validate() error {
	if o.MaxPasses == 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.MaxPasses < 0 {
		return fmt.Errorf("invalid max passes: %d", o.MaxPasses)
	}
	if o.MaxSweeps == 0 {
		o.MaxSweeps = DefaultMaxSweeps
	}
	if o.MaxSweeps < 0 {
		return fmt.Errorf("invalid max sweeps: %d", o.MaxSweeps)
	}
	if o.ModularityThreshold == 0 {
		o.ModularityThreshold = DefaultModularityThreshold
	}
	if o.ModularityThreshold < 0 {
		return fmt.Errorf("invalid modularity threshold: %f", o.ModularityThreshold)
	}
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Resolution < 0 {
		return fmt.Errorf("invalid resolution: %f", o.Resolution)
	}
	if o.MinCommunitySize == 0 {
		o.MinCommunitySize = 1
	}
	if o.MinCommunitySize < 0 {
		return fmt.Errorf("invalid min community size: %d", o.MinCommunitySize)
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
	return nil
}

// CommunityResult describes the detected community structure.
type CommunityResult struct {
	// Assignments maps node ID to its community index. Indices are
	// dense, starting at 0.
	Assignments map[string]int `json:"assignments"`

	// Communities lists member node IDs per community, largest
	// community first, members sorted by ID. Communities below
	// MinCommunitySize are omitted from this listing.
	Communities [][]string `json:"communities"`

	// Modularity is the final partition's modularity score.
	Modularity float64 `json:"modularity"`

	// Passes is the number of contraction passes performed.
	Passes int `json:"passes"`

	// Iterations is the total number of local-move sweeps across all
	// passes.
	Iterations int `json:"iterations"`

	// Converged is true when detection stopped because no further
	// improvement was possible, rather than by hitting a cap.
	Converged bool `json:"converged"`
}

// weightedGraph is the contracted working graph between passes. Edges
// are undirected: adj[i][j] == adj[j][i]. self holds self-loop weight
// accumulated by contraction.
type weightedGraph struct {
	n    int
	adj  []map[int]float64
	self []float64
}

// m2 returns twice the total edge weight (the 2m term of modularity).
func (g *weightedGraph) m2() float64 {
	total := 0.0
	for i := 0; i < g.n; i++ {
		for _, w := range g.adj[i] {
			total += w
		}
		total += 2 * g.self[i]
	}
	return total
}

// degrees returns the weighted degree of each node, self-loops counted
// twice.
func (g *weightedGraph) degrees() []float64 {
	k := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		for _, w := range g.adj[i] {
			k[i] += w
		}
		k[i] += 2 * g.self[i]
	}
	return k
}

// DetectCommunities partitions the snapshot into communities by
// greedy modularity optimization.
//
// Description:
//
//	Runs local-move sweeps in deterministic sorted-node order until no
//	node improves modularity by moving, then contracts each community
//	to a single weighted node and repeats on the contracted graph.
//	Detection stops when a full pass gains less than the modularity
//	threshold or a cap is hit. Results are deterministic for a given
//	snapshot and options.
//
// Inputs:
//
//	ctx - Context for cancellation, checked between sweeps.
//	opts - Filters, caps, and resolution.
//
// Outputs:
//
//	*CommunityResult - The partition. Never nil on success.
//	error - ErrSnapshotNotFrozen, a validation error, or ctx.Err().
func (s *Snapshot) DetectCommunities(ctx context.Context, opts CommunityOptions) (*CommunityResult, error) {
	if s.state != SnapshotStateReadOnly {
		return nil, ErrSnapshotNotFrozen
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sub := s.buildSubgraph(opts.NodeTypes, opts.RelTypes)
	n := len(sub.ids)

	result := &CommunityResult{
		Assignments: make(map[string]int, n),
		Communities: make([][]string, 0),
		Converged:   true,
	}
	if n == 0 {
		return result, nil
	}

	// Level-0 working graph: unit weight per deduped undirected edge.
	work := &weightedGraph{
		n:    n,
		adj:  make([]map[int]float64, n),
		self: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		work.adj[i] = make(map[int]float64, len(sub.und[i]))
		for _, j := range sub.und[i] {
			work.adj[i][j] = 1
		}
	}

	// nodeComm maps original subgraph index to current community in
	// the working graph's numbering.
	nodeComm := make([]int, n)
	for i := range nodeComm {
		nodeComm[i] = i
	}

	prevModularity := modularity(work, identity(work.n), opts.Resolution)

	for pass := 0; pass < opts.MaxPasses; pass++ {
		comm, sweeps, moved, err := localMoves(ctx, work, opts)
		if err != nil {
			return nil, err
		}
		result.Passes = pass + 1
		result.Iterations += sweeps

		dense, numComms := renumber(comm)
		for i := range nodeComm {
			nodeComm[i] = dense[nodeComm[i]]
		}

		currModularity := modularity(work, dense, opts.Resolution)
		gain := currModularity - prevModularity
		prevModularity = currModularity

		if !moved || gain < opts.ModularityThreshold {
			break
		}
		if pass == opts.MaxPasses-1 {
			result.Converged = false
			break
		}

		work = contract(work, dense, numComms)
	}

	result.Modularity = prevModularity
	result.Assignments, result.Communities = groupCommunities(sub.ids, nodeComm, opts.MinCommunitySize)

	return result, nil
}

// identity returns the trivial one-node-per-community assignment.
func identity(n int) []int {
	comm := make([]int, n)
	for i := range comm {
		comm[i] = i
	}
	return comm
}

// localMoves runs greedy modularity sweeps until stable or the sweep
// cap. Nodes are visited in index order, which at level 0 is sorted
// node ID order, keeping results deterministic.
func localMoves(ctx context.Context, g *weightedGraph, opts CommunityOptions) ([]int, int, bool, error) {
	comm := identity(g.n)
	k := g.degrees()
	m2 := g.m2()
	if m2 == 0 {
		return comm, 0, false, nil
	}

	// commDegree caches the summed degree of each community so a move
	// evaluation is O(neighbor communities), not O(n).
	commDegree := make([]float64, g.n)
	copy(commDegree, k)

	sweeps := 0
	anyMoved := false
	for sweep := 0; sweep < opts.MaxSweeps; sweep++ {
		select {
		case <-ctx.Done():
			return nil, 0, false, ctx.Err()
		default:
		}
		sweeps++

		movedThisSweep := false
		for v := 0; v < g.n; v++ {
			current := comm[v]

			// Weight from v to each neighboring community.
			commWeight := make(map[int]float64, len(g.adj[v]))
			for u, w := range g.adj[v] {
				commWeight[comm[u]] += w
			}

			commDegree[current] -= k[v]

			bestComm := current
			bestGain := commWeight[current] - opts.Resolution*k[v]*commDegree[current]/m2
			// Candidate communities in sorted order so ties resolve
			// deterministically.
			candidates := make([]int, 0, len(commWeight))
			for c := range commWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)
			for _, c := range candidates {
				if c == current {
					continue
				}
				gain := commWeight[c] - opts.Resolution*k[v]*commDegree[c]/m2
				if gain > bestGain {
					bestGain = gain
					bestComm = c
				}
			}

			commDegree[bestComm] += k[v]
			if bestComm != current {
				comm[v] = bestComm
				movedThisSweep = true
				anyMoved = true
			}
		}

		if !movedThisSweep {
			break
		}
	}

	return comm, sweeps, anyMoved, nil
}

// renumber maps community labels to a dense 0..k-1 range, ordered by
// first appearance over ascending node index.
func renumber(comm []int) ([]int, int) {
	mapping := make(map[int]int)
	dense := make([]int, len(comm))
	next := 0
	for i, c := range comm {
		d, ok := mapping[c]
		if !ok {
			d = next
			mapping[c] = d
			next++
		}
		dense[i] = d
	}
	return dense, next
}

// contract collapses each community into a single node, summing edge
// weights. Internal edges become self-loops.
func contract(g *weightedGraph, dense []int, numComms int) *weightedGraph {
	contracted := &weightedGraph{
		n:    numComms,
		adj:  make([]map[int]float64, numComms),
		self: make([]float64, numComms),
	}
	for i := range contracted.adj {
		contracted.adj[i] = make(map[int]float64)
	}

	for v := 0; v < g.n; v++ {
		cv := dense[v]
		contracted.self[cv] += g.self[v]
		for u, w := range g.adj[v] {
			cu := dense[u]
			if cv == cu {
				// Each internal edge is seen from both endpoints.
				contracted.self[cv] += w / 2
			} else {
				contracted.adj[cv][cu] += w
			}
		}
	}

	return contracted
}

// modularity computes Q for the given assignment on the working graph.
func modularity(g *weightedGraph, comm []int, resolution float64) float64 {
	m2 := g.m2()
	if m2 == 0 {
		return 0
	}

	numComms := 0
	for _, c := range comm {
		if c+1 > numComms {
			numComms = c + 1
		}
	}

	internal := make([]float64, numComms)
	total := make([]float64, numComms)
	k := g.degrees()

	for v := 0; v < g.n; v++ {
		c := comm[v]
		total[c] += k[v]
		internal[c] += 2 * g.self[v]
		for u, w := range g.adj[v] {
			if comm[u] == c {
				internal[c] += w
			}
		}
	}

	q := 0.0
	for c := 0; c < numComms; c++ {
		q += internal[c]/m2 - resolution*(total[c]/m2)*(total[c]/m2)
	}
	return q
}

// groupCommunities renumbers final communities largest-first and
// builds the member listing.
func groupCommunities(ids []string, nodeComm []int, minSize int) (map[string]int, [][]string) {
	members := make(map[int][]string)
	for i, id := range ids {
		members[nodeComm[i]] = append(members[nodeComm[i]], id)
	}

	type group struct {
		label    int
		ids      []string
		smallest string
	}
	groups := make([]group, 0, len(members))
	for label, m := range members {
		sort.Strings(m)
		groups = append(groups, group{label: label, ids: m, smallest: m[0]})
	}
	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].ids) != len(groups[j].ids) {
			return len(groups[i].ids) > len(groups[j].ids)
		}
		return groups[i].smallest < groups[j].smallest
	})

	assignments := make(map[string]int, len(ids))
	communities := make([][]string, 0, len(groups))
	for rank, grp := range groups {
		for _, id := range grp.ids {
			assignments[id] = rank
		}
		if len(grp.ids) >= minSize {
			communities = append(communities, grp.ids)
		}
	}
	return assignments, communities
}
