// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package loader ingests organizational graph data into frozen
// snapshots. The wire format is JSONL: one node or edge record per
// line. A Badger-backed record store persists the records locally, and
// a reload watcher rebuilds the snapshot when the source file changes.
package loader

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/AleutianAI/OrgAtlas/services/insight/catalog"
	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// Record kinds in the JSONL wire format.
const (
	KindNode = "node"
	KindEdge = "edge"
)

// Record is one line of the JSONL wire format.
//
// Node lines carry kind, id, type, attrs. Edge lines carry kind, from,
// to, type, attrs. Type names are the canonical forms ("Employee",
// "REPORTS_TO").
type Record struct {
	Kind  string           `json:"kind"`
	ID    string           `json:"id,omitempty"`
	From  string           `json:"from,omitempty"`
	To    string           `json:"to,omitempty"`
	Type  string           `json:"type"`
	Attrs graph.Attributes `json:"attrs,omitempty"`
}

// Options configures snapshot loading.
type Options struct {
	// StrictEndpoints rejects edges whose endpoint entity types don't
	// match the relationship schema.
	StrictEndpoints bool

	// SkipUnknown tolerates records with unknown node or relationship
	// types, counting them instead of failing.
	SkipUnknown bool

	// MaxNodes and MaxEdges bound the built snapshot. Zero takes the
	// snapshot defaults.
	MaxNodes int
	MaxEdges int
}

// DefaultOptions returns sensible defaults for loading.
func DefaultOptions() Options {
	return Options{}
}

// Stats describes one load run.
type Stats struct {
	// Nodes and Edges are the counts loaded into the snapshot.
	Nodes int
	Edges int

	// Skipped counts records dropped under SkipUnknown.
	Skipped int
}

// Loader builds frozen snapshots from JSONL record streams.
type Loader struct {
	opts Options
	log  *slog.Logger
}

// New creates a loader.
func New(opts Options) *Loader {
	return &Loader{
		opts: opts,
		log:  slog.Default().With("component", "insight.loader"),
	}
}

// LoadFile reads a JSONL file into a frozen snapshot.
//
// Outputs:
//
//	*graph.Snapshot - The frozen snapshot.
//	*Stats - Load counters.
//	error - Non-nil on read, parse, or build failure.
func (l *Loader) LoadFile(ctx context.Context, path string) (*graph.Snapshot, *Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	snap, stats, err := l.Load(ctx, f)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	return snap, stats, nil
}

// Load reads a JSONL stream into a frozen snapshot.
//
// Description:
//
//	Parses records line by line, inserts them into a fresh snapshot,
//	validates, and freezes. Node records must precede the edges that
//	reference them; the conventional layout is all nodes first. Blank
//	lines and lines starting with '#' are ignored.
//
// Outputs:
//
//	*graph.Snapshot - The frozen snapshot.
//	*Stats - Load counters.
//	error - Parse or build errors, wrapped with the line number.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*graph.Snapshot, *Stats, error) {
	var snapOpts []graph.SnapshotOption
	if l.opts.MaxNodes > 0 {
		snapOpts = append(snapOpts, graph.WithMaxNodes(l.opts.MaxNodes))
	}
	if l.opts.MaxEdges > 0 {
		snapOpts = append(snapOpts, graph.WithMaxEdges(l.opts.MaxEdges))
	}
	snap := graph.NewSnapshot(snapOpts...)
	stats := &Stats{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
		}

		line := scanner.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch rec.Kind {
		case KindNode:
			if err := l.addNode(snap, &rec, stats); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		case KindEdge:
			if err := l.addEdge(snap, &rec, stats); err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, nil, fmt.Errorf("line %d: unknown record kind %q", lineNo, rec.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}

	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}
	snap.Freeze()

	l.log.Info("snapshot loaded",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"skipped", stats.Skipped)
	return snap, stats, nil
}

func (l *Loader) addNode(snap *graph.Snapshot, rec *Record, stats *Stats) error {
	nodeType, ok := graph.NodeTypeFromString(rec.Type)
	if !ok {
		if l.opts.SkipUnknown {
			stats.Skipped++
			return nil
		}
		return fmt.Errorf("unknown node type %q", rec.Type)
	}

	if _, err := snap.AddNode(rec.ID, nodeType, rec.Attrs); err != nil {
		return err
	}
	stats.Nodes++
	return nil
}

func (l *Loader) addEdge(snap *graph.Snapshot, rec *Record, stats *Stats) error {
	relType, ok := graph.RelTypeFromString(rec.Type)
	if !ok {
		if l.opts.SkipUnknown {
			stats.Skipped++
			return nil
		}
		return fmt.Errorf("unknown relationship type %q", rec.Type)
	}

	if l.opts.StrictEndpoints {
		from, okFrom := snap.GetNode(rec.From)
		to, okTo := snap.GetNode(rec.To)
		if !okFrom || !okTo {
			return fmt.Errorf("%w: edge %s -> %s", graph.ErrNodeNotFound, rec.From, rec.To)
		}
		if err := catalog.CheckEndpoints(relType, from.Type, to.Type); err != nil {
			return err
		}
	}

	if err := snap.AddEdge(rec.From, rec.To, relType, rec.Attrs); err != nil {
		return err
	}
	stats.Edges++
	return nil
}
