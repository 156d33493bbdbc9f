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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/OrgAtlas/services/insight/graph"
)

const sampleJSONL = `# sample org
{"kind":"node","id":"e1","type":"Employee","attrs":{"name":"Ada"}}
{"kind":"node","id":"e2","type":"Employee","attrs":{"name":"Grace"}}
{"kind":"node","id":"s1","type":"Skill","attrs":{"name":"Go"}}

{"kind":"edge","from":"e2","to":"e1","type":"REPORTS_TO"}
{"kind":"edge","from":"e1","to":"s1","type":"HAS_SKILL"}
`

func TestLoadJSONL(t *testing.T) {
	l := New(DefaultOptions())

	snap, stats, err := l.Load(context.Background(), strings.NewReader(sampleJSONL))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
	assert.Equal(t, 0, stats.Skipped)

	assert.True(t, snap.IsFrozen())
	assert.Equal(t, 3, snap.NodeCount())

	ada, ok := snap.GetNode("e1")
	require.True(t, ok)
	assert.Equal(t, "Ada", ada.Name())
	assert.Len(t, ada.Incoming, 1)
	assert.Len(t, ada.Outgoing, 1)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "org.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSONL), 0o644))

	snap, _, err := New(DefaultOptions()).LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.NodeCount())

	_, _, err = New(DefaultOptions()).LoadFile(context.Background(), filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestLoadErrorsCarryLineNumbers(t *testing.T) {
	l := New(DefaultOptions())

	input := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"node","id":"e2","type":"Wizard"}
`
	_, _, err := l.Load(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "Wizard")

	_, _, err = l.Load(context.Background(), strings.NewReader("not json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")

	_, _, err = l.Load(context.Background(), strings.NewReader(`{"kind":"widget","type":"Employee"}`+"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown record kind")
}

func TestLoadSkipUnknown(t *testing.T) {
	opts := DefaultOptions()
	opts.SkipUnknown = true
	l := New(opts)

	input := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"node","id":"x1","type":"Wizard"}
{"kind":"edge","from":"e1","to":"e1","type":"CASTS_SPELL"}
`
	snap, stats, err := l.Load(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 1, snap.NodeCount())
}

func TestLoadStrictEndpoints(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictEndpoints = true
	l := New(opts)

	// HAS_SKILL must run Employee -> Skill; here it's reversed.
	input := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"node","id":"s1","type":"Skill"}
{"kind":"edge","from":"s1","to":"e1","type":"HAS_SKILL"}
`
	_, _, err := l.Load(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HAS_SKILL")

	valid := strings.Replace(input, `"from":"s1","to":"e1"`, `"from":"e1","to":"s1"`, 1)
	_, _, err = l.Load(context.Background(), strings.NewReader(valid))
	assert.NoError(t, err)
}

func TestLoadDanglingEdge(t *testing.T) {
	l := New(DefaultOptions())

	input := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"edge","from":"e1","to":"ghost","type":"REPORTS_TO"}
`
	_, _, err := l.Load(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
}

func TestLoadRespectsLimits(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxNodes = 1
	l := New(opts)

	input := `{"kind":"node","id":"e1","type":"Employee"}
{"kind":"node","id":"e2","type":"Employee"}
`
	_, _, err := l.Load(context.Background(), strings.NewReader(input))
	assert.ErrorIs(t, err, graph.ErrMaxNodesExceeded)
}
