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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadWatcherTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	var reloads atomic.Int32
	opts := &ReloadWatcherOptions{DebounceWindow: 50 * time.Millisecond}
	w, err := NewReloadWatcher(path, func() { reloads.Add(1) }, opts)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	assert.True(t, w.IsWatching())

	// A burst of writes must collapse into one reload.
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 2*time.Second, 20*time.Millisecond)

	// Give any stray second trigger time to fire, then check it didn't.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), reloads.Load())
}

func TestReloadWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "org.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	var reloads atomic.Int32
	opts := &ReloadWatcherOptions{DebounceWindow: 30 * time.Millisecond}
	w, err := NewReloadWatcher(path, func() { reloads.Add(1) }, opts)
	require.NoError(t, err)
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), reloads.Load())
}

func TestReloadWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	w, err := NewReloadWatcher(path, func() {}, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))

	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
}
