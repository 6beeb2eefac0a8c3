// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"
	"io"

	"github.com/dtoverlay/ovmerge/pkg/cmdcore/ui"
	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/dts/emit"
	"github.com/dtoverlay/ovmerge/pkg/dts/parse"
	"github.com/dtoverlay/ovmerge/pkg/dtparam"
	"github.com/dtoverlay/ovmerge/pkg/files"
	"github.com/dtoverlay/ovmerge/pkg/overlay"
)

// Run drives the full spec §2 data-flow pipeline over rawArgs' ovspecs and
// writes the composed, emitted tree to stdout.
func (o *Options) Run(rawArgs []string, stdout io.Writer) error {
	if len(rawArgs) == 0 {
		return fmt.Errorf("at least one ovspec is required")
	}
	ovspecs := make([]Ovspec, len(rawArgs))
	for i, a := range rawArgs {
		ovspecs[i] = ParseOvspec(a)
	}

	u := ui.NewTTY(o.Warn, o.Trace)

	var opener files.Opener
	if o.Branch != "" {
		opener = files.NewGitBranchOpener(o.Branch, ".")
	} else {
		opener = files.NewLocalOpener(".")
	}

	trees := make([]*dts.Tree, len(ovspecs))
	for i, spec := range ovspecs {
		tree, err := loadTree(spec.Name, opener, u)
		if err != nil {
			return err
		}
		for _, p := range spec.Params {
			if err := dtparam.Apply(tree, p.Name, p.Value); err != nil {
				return fmt.Errorf("%s: %s", spec.Name, err)
			}
		}
		if spec.BakesInOverrides() {
			if node, ok := tree.Root.FindChild("__overrides__"); ok {
				tree.DeleteNode(node)
			}
		}
		trees[i] = tree
	}

	if o.IncludesOnly {
		printIncludes(stdout, trees)
		return nil
	}

	final, err := compose(trees, o.PiExtras)
	if err != nil {
		return err
	}

	if o.Comment {
		fmt.Fprintln(stdout, FormatRedoComment(rawArgs))
	}
	return emit.Emit(stdout, final, o.Sorted)
}

func loadTree(name string, opener files.Opener, u ui.UI) (*dts.Tree, error) {
	toks, err := parse.Tokenize(name, opener)
	if err != nil {
		return nil, err
	}
	u.Tracef("%s: %d tokens", name, len(toks))
	res, err := parse.Parse(toks)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		u.Warnf("%s", w)
	}
	return res.Tree, nil
}

func printIncludes(w io.Writer, trees []*dts.Tree) {
	seen := map[string]bool{}
	for _, t := range trees {
		for _, inc := range t.Includes {
			if seen[inc.Raw] {
				continue
			}
			seen[inc.Raw] = true
			fmt.Fprintln(w, inc.Raw)
		}
	}
}

// compose implements spec §2's data-flow rule: a leading plugin tree
// absorbs the rest via Merge; a leading base tree gets any overlays merged
// together first, then applied onto it. The tree that absorbs the others has
// its own fragments renumbered from 0 first, so that its FragCount is set.
func compose(trees []*dts.Tree, piExtras bool) (*dts.Tree, error) {
	base := trees[0]
	rest := trees[1:]

	if base.Plugin {
		overlay.Renumber(base, 0)
		for _, t := range rest {
			if err := overlay.Merge(base, t); err != nil {
				return nil, err
			}
		}
		return base, nil
	}

	if piExtras {
		if err := applyPiExtras(base); err != nil {
			return nil, err
		}
	}

	if len(rest) == 0 {
		return base, nil
	}

	if len(rest) > 1 {
		ensureSymbolsNode(base)
	}

	combined := rest[0]
	overlay.Renumber(combined, 0)
	for _, t := range rest[1:] {
		if err := overlay.Merge(combined, t); err != nil {
			return nil, err
		}
	}
	if err := overlay.Apply(base, combined); err != nil {
		return nil, err
	}
	return base, nil
}

func ensureSymbolsNode(base *dts.Tree) {
	if _, ok := base.Root.FindChild("__symbols__"); !ok {
		base.Root.GetOrAddChild("__symbols__")
	}
}
