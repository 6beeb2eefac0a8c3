// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package overlay

import (
	"fmt"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// Merge composes plugin overlay into base plugin b in place (spec §4.5
// "Merge (plugin + plugin)"): includes are unioned, o's fragments are
// renumbered past b's, o's labels are uniquified against b's and every
// Cells-embedded "&label" term in o is rewritten through that mapping, o's
// fragments are moved under b's root, the two __overrides__ nodes are
// concatenated, and b.FragCount grows by o's fragment count.
func Merge(b, o *dts.Tree) error {
	for _, inc := range o.Includes {
		b.AddInclude(inc.Raw)
	}

	Renumber(o, b.FragCount)

	mapping := uniquifyLabels(b, o)
	for _, c := range o.Root.Children {
		rewriteCellLabels(c, mapping)
	}

	if err := mergeInto(b, o); err != nil {
		return err
	}
	b.FragCount += o.FragCount
	return nil
}

// uniquifyLabels renames every label of o that collides with an existing
// label of b, returning the full old→new mapping (identity entries
// included, so callers don't need a second lookup to know "unchanged").
func uniquifyLabels(b, o *dts.Tree) map[string]string {
	mapping := make(map[string]string, len(o.Labels))
	for l, node := range o.Labels {
		newLabel := l
		if _, used := b.Labels[l]; used {
			for k := 1; ; k++ {
				cand := fmt.Sprintf("%s_%d", l, k)
				if _, conflict := b.Labels[cand]; !conflict {
					newLabel = cand
					break
				}
			}
		}
		mapping[l] = newLabel
		renameLabel(node, l, newLabel)
		b.Labels[newLabel] = node
		delete(o.Labels, l)
	}
	return mapping
}

func renameLabel(n *dts.Node, old, new string) {
	for i, l := range n.Labels {
		if l == old {
			n.Labels[i] = new
		}
	}
}

// rewriteCellLabels rewrites "&L" terms embedded inside Cells chunks through
// mapping. Whole-value LabelRefChunk properties are left untouched by
// design (spec §4.5: base label references across fragments stay valid).
func rewriteCellLabels(n *dts.Node, mapping map[string]string) {
	for _, p := range n.Properties {
		for _, c := range p.Chunks {
			cc, ok := c.(*dts.CellsChunk)
			if !ok {
				continue
			}
			for i, t := range cc.Items {
				if !t.IsLabel() {
					continue
				}
				if newL, ok := mapping[t.Label]; ok {
					cc.Items[i] = dts.LabelTerm(newL)
				}
			}
		}
	}
	for _, c := range n.Children {
		rewriteCellLabels(c, mapping)
	}
}

func mergeInto(b, o *dts.Tree) error {
	baseOverrides, hadBaseOverrides := b.Root.FindChild("__overrides__")
	if hadBaseOverrides {
		b.DeleteNode(baseOverrides)
	}

	fragments := o.Fragments()
	fragSet := make(map[*dts.Node]bool, len(fragments))
	for _, f := range fragments {
		fragSet[f.Node] = true
		f.Node.Parent = b.Root
		b.Root.Children = append(b.Root.Children, f.Node)
	}
	remaining := o.Root.Children[:0:0]
	for _, c := range o.Root.Children {
		if !fragSet[c] {
			remaining = append(remaining, c)
		}
	}
	o.Root.Children = remaining

	oOverrides, hadOOverrides := o.Root.FindChild("__overrides__")

	combined := baseOverrides
	if combined == nil && hadOOverrides {
		combined = &dts.Node{Name: "__overrides__", Parent: b.Root, Depth: b.Root.Depth + 1}
	}
	if hadOOverrides {
		for _, p := range oOverrides.Properties {
			if _, exists := combined.FindProperty(p.Name); exists {
				return fmt.Errorf("duplicate override parameter '%s' during merge", p.Name)
			}
			combined.Properties = append(combined.Properties, p)
		}
	}
	if combined != nil {
		b.Root.Children = append(b.Root.Children, combined)
	}
	return nil
}
