// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

// Key prefixes in the record store.
var (
	nodeKeyPrefix = []byte("n:")
	edgeKeyPrefix = []byte("e:")
)

// StoreConfig holds configuration for the Badger-backed record store.
type StoreConfig struct {
	// Path is the directory for database files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger is the logger for database operations.
	// If nil, Badger's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultStoreConfig returns sensible defaults for production use.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		SyncWrites: true,
	}
}

// InMemoryStoreConfig returns configuration for testing.
func InMemoryStoreConfig() StoreConfig {
	return StoreConfig{
		InMemory:   true,
		SyncWrites: false,
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store persists graph records in an embedded Badger database.
//
// Nodes are keyed "n:<id>", so re-importing a node overwrites its
// record. Edges are keyed "e:<seq>" with a monotonic sequence, which
// preserves the multigraph (parallel edges stay distinct).
//
// Thread Safety: Safe for concurrent use.
type Store struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// OpenStore opens the record store with the given configuration.
//
// Outputs:
//
//	*Store - The opened store. Caller must call Close() when done.
//	error - Non-nil if path is invalid or the database cannot open.
func OpenStore(cfg StoreConfig) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}

	seq, err := db.GetSequence([]byte("edge-seq"), 1000)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open edge sequence: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		db:  db,
		seq: seq,
		log: logger.With("component", "insight.store"),
	}, nil
}

// Close releases the sequence and closes the database.
func (s *Store) Close() error {
	if err := s.seq.Release(); err != nil {
		s.log.Warn("release edge sequence", "error", err)
	}
	return s.db.Close()
}

// PutRecords writes a batch of records in one transaction.
//
// Outputs:
//
//	error - Non-nil on marshal or write failure. The batch is atomic.
func (s *Store) PutRecords(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range records {
		rec := &records[i]
		key, err := s.recordKey(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		value, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := wb.Set(key, value); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return wb.Flush()
}

func (s *Store) recordKey(rec *Record) ([]byte, error) {
	switch rec.Kind {
	case KindNode:
		if rec.ID == "" {
			return nil, errors.New("node record without id")
		}
		return []byte("n:" + rec.ID), nil
	case KindEdge:
		n, err := s.seq.Next()
		if err != nil {
			return nil, fmt.Errorf("edge sequence: %w", err)
		}
		return []byte(fmt.Sprintf("e:%016x", n)), nil
	default:
		return nil, fmt.Errorf("unknown record kind %q", rec.Kind)
	}
}

// Import streams a JSONL source into the store.
//
// Description:
//
//	Parses records the same way the loader does and persists them in
//	batches. Does not build a snapshot; call Snapshot afterwards.
func (s *Store) Import(ctx context.Context, path string, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 1000
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	total := 0
	batch := make([]Record, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.PutRecords(ctx, batch); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	decoder := json.NewDecoder(f)
	for decoder.More() {
		var rec Record
		if err := decoder.Decode(&rec); err != nil {
			return total, fmt.Errorf("record %d: %w", total+len(batch)+1, err)
		}
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	s.log.Info("records imported", "path", path, "count", total)
	return total, nil
}

// Snapshot rebuilds a frozen snapshot from the stored records.
//
// Description:
//
//	Iterates all node records first, then all edge records, feeding
//	them through the loader's insert path so options (strict
//	endpoints, skip-unknown) apply the same way as file loads.
func (s *Store) Snapshot(ctx context.Context, opts Options) (*graph.Snapshot, *Stats, error) {
	l := New(opts)

	var snapOpts []graph.SnapshotOption
	if opts.MaxNodes > 0 {
		snapOpts = append(snapOpts, graph.WithMaxNodes(opts.MaxNodes))
	}
	if opts.MaxEdges > 0 {
		snapOpts = append(snapOpts, graph.WithMaxEdges(opts.MaxEdges))
	}
	snap := graph.NewSnapshot(snapOpts...)
	stats := &Stats{}

	// Nodes before edges so edge inserts find their endpoints.
	for _, prefix := range [][]byte{nodeKeyPrefix, edgeKeyPrefix} {
		if err := s.scanPrefix(ctx, prefix, func(value []byte) error {
			var rec Record
			if err := json.Unmarshal(value, &rec); err != nil {
				return err
			}
			if rec.Kind == KindNode {
				return l.addNode(snap, &rec, stats)
			}
			return l.addEdge(snap, &rec, stats)
		}); err != nil {
			return nil, nil, err
		}
	}

	if err := snap.Validate(); err != nil {
		return nil, nil, err
	}
	snap.Freeze()

	return snap, stats, nil
}

// scanPrefix iterates values under a key prefix in key order.
func (s *Store) scanPrefix(ctx context.Context, prefix []byte, fn func(value []byte) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         prefix,
		})
		defer it.Close()

		count := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
			if count%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes all stored records.
func (s *Store) Clear() error {
	return s.db.DropAll()
}
