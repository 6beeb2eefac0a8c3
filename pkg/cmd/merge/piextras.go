// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"fmt"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// applyPiExtras implements spec §6's -p preprocessing, run against the base
// tree before composition: it clones /aliases/i2c1 onto /aliases/i2c and
// /aliases/i2c_arm, and attaches matching fresh labels to the node it names.
func applyPiExtras(base *dts.Tree) error {
	aliases, ok := base.Root.FindChild("aliases")
	if !ok {
		return fmt.Errorf("-p: base has no /aliases node")
	}
	prop, ok := aliases.FindProperty("i2c1")
	if !ok || len(prop.Chunks) != 1 {
		return fmt.Errorf("-p: /aliases/i2c1 not found")
	}
	ref, ok := prop.Chunks[0].(dts.LabelRefChunk)
	if !ok {
		return fmt.Errorf("-p: /aliases/i2c1 is not a label reference")
	}
	node, ok := base.FindLabel(string(ref))
	if !ok {
		return fmt.Errorf("-p: /aliases/i2c1 refers to unknown label '&%s'", ref)
	}

	if err := aliases.SetProperty("i2c", []dts.ValueChunk{dts.LabelRefChunk(ref)}); err != nil {
		return err
	}
	if err := aliases.SetProperty("i2c_arm", []dts.ValueChunk{dts.LabelRefChunk(ref)}); err != nil {
		return err
	}
	if _, err := base.AddLabel(node, "i2c"); err != nil {
		return err
	}
	if _, err := base.AddLabel(node, "i2c_arm"); err != nil {
		return err
	}
	return nil
}
