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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(InMemoryStoreConfig())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []Record{
		{Kind: KindNode, ID: "e1", Type: "Employee", Attrs: graph.Attributes{"name": "Ada"}},
		{Kind: KindNode, ID: "e2", Type: "Employee"},
		{Kind: KindEdge, From: "e2", To: "e1", Type: "REPORTS_TO"},
	}
	require.NoError(t, store.PutRecords(ctx, records))

	snap, stats, err := store.Snapshot(ctx, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Nodes)
	assert.Equal(t, 1, stats.Edges)
	assert.True(t, snap.IsFrozen())

	ada, ok := snap.GetNode("e1")
	require.True(t, ok)
	assert.Equal(t, "Ada", ada.Name())
	assert.Len(t, ada.Incoming, 1)
}

func TestStoreNodeUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRecords(ctx, []Record{
		{Kind: KindNode, ID: "e1", Type: "Employee", Attrs: graph.Attributes{"name": "Old"}},
	}))
	require.NoError(t, store.PutRecords(ctx, []Record{
		{Kind: KindNode, ID: "e1", Type: "Employee", Attrs: graph.Attributes{"name": "New"}},
	}))

	snap, stats, err := store.Snapshot(ctx, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Nodes)

	node, _ := snap.GetNode("e1")
	assert.Equal(t, "New", node.Name())
}

func TestStoreParallelEdgesPreserved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRecords(ctx, []Record{
		{Kind: KindNode, ID: "e1", Type: "Employee"},
		{Kind: KindNode, ID: "b1", Type: "Bonus"},
		{Kind: KindEdge, From: "e1", To: "b1", Type: "RECEIVED_BONUS"},
		{Kind: KindEdge, From: "e1", To: "b1", Type: "RECEIVED_BONUS"},
	}))

	snap, stats, err := store.Snapshot(ctx, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 2, snap.EdgeCount())
}

func TestStoreImport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "org.jsonl")
	content := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"node","id":"e2","type":"Employee"}
{"kind":"edge","from":"e2","to":"e1","type":"REPORTS_TO"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	count, err := store.Import(ctx, path, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	snap, _, err := store.Snapshot(ctx, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, snap.NodeCount())
	assert.Equal(t, 1, snap.EdgeCount())
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutRecords(ctx, []Record{
		{Kind: KindNode, ID: "e1", Type: "Employee"},
	}))
	require.NoError(t, store.Clear())

	snap, stats, err := store.Snapshot(ctx, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Nodes)
	assert.Equal(t, 0, snap.NodeCount())
}

func TestOpenStoreValidation(t *testing.T) {
	_, err := OpenStore(StoreConfig{})
	assert.Error(t, err)

	dir := t.TempDir()
	cfg := DefaultStoreConfig()
	cfg.Path = filepath.Join(dir, "db")
	store, err := OpenStore(cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStorePutBadRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.PutRecords(ctx, []Record{{Kind: KindNode, Type: "Employee"}})
	assert.Error(t, err)

	err = store.PutRecords(ctx, []Record{{Kind: "widget"}})
	assert.Error(t, err)
}
