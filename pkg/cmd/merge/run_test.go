// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

func TestPrintIncludesDedups(t *testing.T) {
	a := dts.NewTree()
	a.AddInclude("common.dtsi")
	b := dts.NewTree()
	b.AddInclude("common.dtsi")
	b.AddInclude("extra.dtsi")

	var buf bytes.Buffer
	printIncludes(&buf, []*dts.Tree{a, b})
	assert.Equal(t, "common.dtsi\nextra.dtsi\n", buf.String())
}

func TestComposeMergesPluginLeadingTrees(t *testing.T) {
	base := dts.NewTree()
	base.Plugin = true
	base.Root.GetOrAddChild("fragment@0")
	base.FragCount = 1

	extra := dts.NewTree()
	extra.Plugin = true
	extra.Root.GetOrAddChild("fragment@0")

	final, err := compose([]*dts.Tree{base, extra}, false)
	require.NoError(t, err)
	_, ok := final.Root.FindChild("fragment@1")
	assert.True(t, ok)
}

func TestComposeAppliesOverlaysOntoBase(t *testing.T) {
	base := dts.NewTree()
	soc := base.Root.GetOrAddChild("soc")
	target := soc.GetOrAddChild("i2c@1")
	_, err := base.AddLabel(target, "i2c")
	require.NoError(t, err)

	o1 := dts.NewTree()
	o1.Plugin = true
	f1 := o1.Root.GetOrAddChild("fragment@0")
	require.NoError(t, f1.SetProperty("target", []dts.ValueChunk{dts.NewCellsChunk(dts.LabelTerm("i2c"))}))
	ov1 := f1.GetOrAddChild("__overlay__")
	require.NoError(t, ov1.SetProperty("status", []dts.ValueChunk{dts.StringChunk("okay")}))

	o2 := dts.NewTree()
	o2.Plugin = true
	f2 := o2.Root.GetOrAddChild("fragment@0")
	require.NoError(t, f2.SetProperty("target", []dts.ValueChunk{dts.NewCellsChunk(dts.LabelTerm("i2c"))}))
	ov2 := f2.GetOrAddChild("__overlay__")
	require.NoError(t, ov2.SetProperty("clock-frequency", []dts.ValueChunk{dts.NewCellsChunk(dts.LiteralTerm("0x186a0"))}))

	final, err := compose([]*dts.Tree{base, o1, o2}, false)
	require.NoError(t, err)
	assert.Same(t, base, final)

	p, ok := target.FindProperty("status")
	require.True(t, ok)
	assert.Equal(t, dts.StringChunk("okay"), p.Chunks[0])
	_, ok = target.FindProperty("clock-frequency")
	assert.True(t, ok)

	_, ok = base.Root.FindChild("__symbols__")
	assert.True(t, ok, "composing more than one overlay onto a base should ensure a __symbols__ node")
}

func TestComposeSingleBaseReturnsAsIs(t *testing.T) {
	base := dts.NewTree()
	final, err := compose([]*dts.Tree{base}, false)
	require.NoError(t, err)
	assert.Same(t, base, final)
}

func TestRunEndToEndBaseAndOverlay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.dts"), []byte(`/dts-v1/;
/ {
	soc {
		i2c: i2c@1 {
			status = "disabled";
		};
	};
};
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay.dtso"), []byte(`/dts-v1/;
/plugin/;
/ {
	fragment@0 {
		target = <&i2c>;
		__overlay__ {
			status = "okay";
		};
	};
};
`), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	o := NewOptions()
	var out bytes.Buffer
	require.NoError(t, o.Run([]string{"base.dts", "overlay.dtso"}, &out))
	assert.Contains(t, out.String(), `status = "okay";`)
}

func TestRunRequiresAtLeastOneOvspec(t *testing.T) {
	o := NewOptions()
	var out bytes.Buffer
	err := o.Run(nil, &out)
	assert.Error(t, err)
}
