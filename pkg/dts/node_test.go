// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

func TestNodeBaseNameAndUnitAddress(t *testing.T) {
	n := &dts.Node{Name: "i2c@7e804000"}
	assert.Equal(t, "i2c", n.BaseName())
	assert.Equal(t, "7e804000", n.UnitAddress())

	plain := &dts.Node{Name: "soc"}
	assert.Equal(t, "soc", plain.BaseName())
	assert.Equal(t, "", plain.UnitAddress())
}

func TestNodeSetUnitAddress(t *testing.T) {
	n := &dts.Node{Name: "i2c@7e804000"}
	n.SetUnitAddress(0x7e805000)
	assert.Equal(t, "i2c@7e805000", n.Name)

	bare := &dts.Node{Name: "spi"}
	bare.SetUnitAddress(1)
	assert.Equal(t, "spi@1", bare.Name)
}

func TestFindChildMatchesUnitAddress(t *testing.T) {
	root := dts.NewRootNode()
	child := root.GetOrAddChild("i2c@7e804000")

	found, ok := root.FindChild("i2c")
	require.True(t, ok)
	assert.Same(t, child, found)

	exact, ok := root.FindChild("i2c@7e804000")
	require.True(t, ok)
	assert.Same(t, child, exact)

	_, ok = root.FindChild("i2c@deadbeef")
	assert.False(t, ok)
}

func TestGetOrAddChildReusesExisting(t *testing.T) {
	root := dts.NewRootNode()
	first := root.GetOrAddChild("soc")
	second := root.GetOrAddChild("soc")
	assert.Same(t, first, second)
	assert.Len(t, root.Children, 1)
}

func TestSetPropertyStatusCoercion(t *testing.T) {
	n := dts.NewRootNode()

	require.NoError(t, n.SetProperty("status", []dts.ValueChunk{dts.StringChunk("on")}))
	p, ok := n.FindProperty("status")
	require.True(t, ok)
	assert.Equal(t, dts.StringChunk("okay"), p.Chunks[0])

	require.NoError(t, n.SetProperty("status", []dts.ValueChunk{dts.StringChunk("n")}))
	p, _ = n.FindProperty("status")
	assert.Equal(t, dts.StringChunk("disabled"), p.Chunks[0])
}

func TestSetPropertyBootargsFuses(t *testing.T) {
	n := dts.NewRootNode()
	require.NoError(t, n.SetProperty("bootargs", []dts.ValueChunk{dts.StringChunk("a=0")}))
	require.NoError(t, n.SetProperty("bootargs", []dts.ValueChunk{dts.StringChunk("b=1")}))

	p, ok := n.FindProperty("bootargs")
	require.True(t, ok)
	assert.Equal(t, dts.StringChunk("a=0 b=1"), p.Chunks[0])
}

func TestEnsureBooleanPropertyIsIdempotent(t *testing.T) {
	n := dts.NewRootNode()
	n.EnsureBooleanProperty("disable-wp")
	n.EnsureBooleanProperty("disable-wp")
	assert.Len(t, n.Properties, 1)
}

func TestAddressLessOrdersByUnitAddressThenName(t *testing.T) {
	a := &dts.Node{Name: "i2c@10"}
	b := &dts.Node{Name: "i2c@2"}
	c := &dts.Node{Name: "zzz"}
	d := &dts.Node{Name: "aaa"}

	assert.True(t, dts.AddressLess(b, a)) // 2 < 16
	assert.False(t, dts.AddressLess(a, b))
	assert.True(t, dts.AddressLess(a, c)) // addressed node sorts before unaddressed
	assert.True(t, dts.AddressLess(d, c)) // lexical fallback
}
