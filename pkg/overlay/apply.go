// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// Apply composes plugin overlay o onto non-plugin base b in place (spec
// §4.5 "Apply (plugin → base)"). Dormant fragments (no __overlay__ child)
// are skipped. b's own __overrides__ is left untouched.
func Apply(b, o *dts.Tree) error {
	for _, inc := range o.Includes {
		b.AddInclude(inc.Raw)
	}

	for _, f := range o.Fragments() {
		body, ok := f.Node.FindChild("__overlay__")
		if !ok {
			continue
		}
		target, err := resolveTarget(b, f.Node)
		if err != nil {
			return fmt.Errorf("fragment %s: %s", f.Node.Name, err)
		}
		if err := applyNode(b, target, body); err != nil {
			return fmt.Errorf("fragment %s: %s", f.Node.Name, err)
		}
	}
	return nil
}

func resolveTarget(b *dts.Tree, frag *dts.Node) (*dts.Node, error) {
	if p, ok := frag.FindProperty("target"); ok {
		if len(p.Chunks) != 1 {
			return nil, fmt.Errorf("'target' must be a single cell")
		}
		cc, ok := p.Chunks[0].(*dts.CellsChunk)
		if !ok || len(cc.Items) != 1 || !cc.Items[0].IsLabel() {
			return nil, fmt.Errorf("'target' must be a one-cell label reference")
		}
		node, ok := b.FindLabel(cc.Items[0].Label)
		if !ok {
			return nil, fmt.Errorf("target label '&%s' not found in base", cc.Items[0].Label)
		}
		return node, nil
	}
	if p, ok := frag.FindProperty("target-path"); ok {
		if len(p.Chunks) != 1 {
			return nil, fmt.Errorf("'target-path' must be a single string")
		}
		sc, ok := p.Chunks[0].(dts.StringChunk)
		if !ok {
			return nil, fmt.Errorf("'target-path' must be a string")
		}
		return b.ResolvePath(string(sc))
	}
	return nil, fmt.Errorf("fragment has neither 'target' nor 'target-path'")
}

// applyNode implements spec §4.5's apply(base, dst, src): properties go
// through the §4.2 write rule, labels are added to base's label map, and
// children are located-or-created and recursed into.
func applyNode(base *dts.Tree, dst, src *dts.Node) error {
	for _, p := range src.Properties {
		if err := dst.SetProperty(p.Name, p.Chunks); err != nil {
			return err
		}
	}
	for _, l := range src.Labels {
		if _, err := base.AddLabel(dst, l); err != nil {
			return err
		}
	}
	for _, c := range src.Children {
		childDst := dst.GetOrAddChild(c.Name)
		if err := applyNode(base, childDst, c); err != nil {
			return err
		}
	}
	return nil
}
