// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package overlay_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/overlay"
)

func TestMergeRenumbersIncomingFragments(t *testing.T) {
	b := dts.NewTree()
	b.Plugin = true
	b.Root.GetOrAddChild("fragment@0")
	b.FragCount = 1

	o := dts.NewTree()
	o.Plugin = true
	o.Root.GetOrAddChild("fragment@0")

	require.NoError(t, overlay.Merge(b, o))

	_, ok := b.Root.FindChild("fragment@1")
	assert.True(t, ok)
	assert.Equal(t, 2, b.FragCount)
}

func TestMergeUniquifiesCollidingLabels(t *testing.T) {
	b := dts.NewTree()
	b.Plugin = true
	bFrag := b.Root.GetOrAddChild("fragment@0")
	bOverlay := bFrag.GetOrAddChild("__overlay__")
	bNode := bOverlay.GetOrAddChild("thing")
	_, err := b.AddLabel(bNode, "foo")
	require.NoError(t, err)
	b.FragCount = 1

	o := dts.NewTree()
	o.Plugin = true
	oFrag := o.Root.GetOrAddChild("fragment@0")
	oOverlay := oFrag.GetOrAddChild("__overlay__")
	oNode := oOverlay.GetOrAddChild("other")
	_, err = o.AddLabel(oNode, "foo")
	require.NoError(t, err)
	require.NoError(t, oNode.SetProperty("ref", []dts.ValueChunk{dts.NewCellsChunk(dts.LabelTerm("foo"))}))

	require.NoError(t, overlay.Merge(b, o))

	// b's original label is untouched.
	n, ok := b.FindLabel("foo")
	require.True(t, ok)
	assert.Same(t, bNode, n)

	// o's colliding label was renamed, and the self-referencing Cells term
	// inside o's own subtree follows it.
	renamed, ok := b.FindLabel("foo_1")
	require.True(t, ok)
	assert.Same(t, oNode, renamed)

	p, ok := oNode.FindProperty("ref")
	require.True(t, ok)
	cells, ok := p.Chunks[0].(*dts.CellsChunk)
	require.True(t, ok)
	assert.Equal(t, "foo_1", cells.Items[0].Label)
}

func TestMergeConcatenatesOverrides(t *testing.T) {
	b := dts.NewTree()
	b.Plugin = true
	b.Root.GetOrAddChild("fragment@0")
	b.FragCount = 1
	bOverrides := b.Root.GetOrAddChild("__overrides__")
	require.NoError(t, bOverrides.SetProperty("a", []dts.ValueChunk{dts.StringChunk("from-b")}))

	o := dts.NewTree()
	o.Plugin = true
	o.Root.GetOrAddChild("fragment@0")
	oOverrides := o.Root.GetOrAddChild("__overrides__")
	require.NoError(t, oOverrides.SetProperty("b", []dts.ValueChunk{dts.StringChunk("from-o")}))

	require.NoError(t, overlay.Merge(b, o))

	merged, ok := b.Root.FindChild("__overrides__")
	require.True(t, ok)
	_, ok = merged.FindProperty("a")
	assert.True(t, ok)
	_, ok = merged.FindProperty("b")
	assert.True(t, ok)
}

func TestMergeDuplicateOverrideParameterFails(t *testing.T) {
	b := dts.NewTree()
	b.Plugin = true
	bOverrides := b.Root.GetOrAddChild("__overrides__")
	require.NoError(t, bOverrides.SetProperty("dup", []dts.ValueChunk{dts.StringChunk("from-b")}))

	o := dts.NewTree()
	o.Plugin = true
	oOverrides := o.Root.GetOrAddChild("__overrides__")
	require.NoError(t, oOverrides.SetProperty("dup", []dts.ValueChunk{dts.StringChunk("from-o")}))

	err := overlay.Merge(b, o)
	assert.Error(t, err)
}
