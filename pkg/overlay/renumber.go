// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package overlay implements the overlay composer (spec §4.5): fragment
// renumbering, plugin+plugin merging with label uniquification, and
// plugin-onto-base application.
package overlay

import (
	"regexp"
	"strconv"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// Renumber renames tree's root-level fragment children to a contiguous run
// starting at baseOffset, updates tree.FragCount, and rewrites any
// fragment-enable override declarations through the resulting remap (spec
// §4.5 "Renumber fragments"). It returns the old→new fragment index map.
func Renumber(tree *dts.Tree, baseOffset int) map[int]int {
	remap := map[int]int{}
	fragments := tree.Fragments()
	for idx, f := range fragments {
		newNum := baseOffset + idx
		remap[f.Num] = newNum
		f.Node.Name = dts.FragmentName(newNum, f.Sep)
	}
	tree.FragCount = len(fragments)
	rewriteFragmentEnableRefs(tree, remap)
	return remap
}

var fragRefRe = regexp.MustCompile(`([=!+-])(\d+)`)

func rewriteFragmentEnableRefs(tree *dts.Tree, remap map[int]int) {
	overridesNode, ok := tree.Overrides()
	if !ok {
		return
	}
	for _, prop := range overridesNode.Properties {
		for i := 0; i+1 < len(prop.Chunks); i++ {
			cc, ok := prop.Chunks[i].(*dts.CellsChunk)
			if !ok || len(cc.Items) != 1 || cc.Items[0].IsLabel() || cc.Items[0].Literal != "0" {
				continue
			}
			sc, ok := prop.Chunks[i+1].(dts.StringChunk)
			if !ok {
				continue
			}
			prop.Chunks[i+1] = dts.StringChunk(remapDecl(string(sc), remap))
		}
	}
}

func remapDecl(d string, remap map[int]int) string {
	return fragRefRe.ReplaceAllStringFunc(d, func(m string) string {
		sub := fragRefRe.FindStringSubmatch(m)
		num, err := strconv.Atoi(sub[2])
		if err != nil {
			return m
		}
		newNum, ok := remap[num]
		if !ok {
			return m
		}
		return sub[1] + strconv.Itoa(newNum)
	})
}
