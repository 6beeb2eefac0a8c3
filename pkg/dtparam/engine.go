// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package dtparam implements the parameter engine (spec §4.3/§4.4): it
// walks a tree's "__overrides__" property and applies a single named
// dtparam, in one of its four shapes (integer, boolean, string,
// fragment-enable), to the tree in place.
package dtparam

import (
	"fmt"
	"strconv"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// pair is one (target, declaration[, extra]) triple read off an
// "__overrides__" property's flat chunk list (spec §4.3).
type pair struct {
	Target *dts.CellsChunk
	Decl   string
	Extra  *dts.CellsChunk
}

// Apply resolves parameter name against tree's __overrides__ node and
// applies it with value (nil means "no '=VALUE' was given on the command
// line", which still has meaning: booleans default to true, integer
// overrides fall back to their own ASSIGN or fail, and string overrides fall
// back to their own ASSIGN or the empty string).
func Apply(tree *dts.Tree, name string, value *string) error {
	overridesNode, ok := tree.Overrides()
	if !ok {
		return fmt.Errorf("no __overrides__ node: parameter '%s' is not defined", name)
	}
	prop, ok := overridesNode.FindProperty(name)
	if !ok {
		return fmt.Errorf("unknown parameter '%s'", name)
	}

	pairs, err := splitPairs(prop.Chunks)
	if err != nil {
		return fmt.Errorf("parameter '%s': %s", name, err)
	}

	for _, p := range pairs {
		if err := applyPair(tree, name, p, value); err != nil {
			return fmt.Errorf("parameter '%s': %s", name, err)
		}
	}
	return nil
}

func splitPairs(chunks []dts.ValueChunk) ([]pair, error) {
	var pairs []pair
	i := 0
	for i < len(chunks) {
		target, ok := chunks[i].(*dts.CellsChunk)
		if !ok || len(target.Items) != 1 {
			return nil, fmt.Errorf("invalid override declaration syntax: expected a one-cell target at position %d", i)
		}
		if i+1 >= len(chunks) {
			return nil, fmt.Errorf("invalid override declaration syntax: missing declaration string")
		}
		declChunk, ok := chunks[i+1].(dts.StringChunk)
		if !ok {
			return nil, fmt.Errorf("invalid override declaration syntax: expected a string declaration at position %d", i+1)
		}
		p := pair{Target: target, Decl: string(declChunk)}
		i += 2

		if isFragmentTarget(target) {
			// Fragment-enable declarations never carry a trailing vector.
			pairs = append(pairs, p)
			continue
		}
		if _, boolOK := IsBooleanDecl(p.Decl); !boolOK {
			decl, derr := ParseDecl(p.Decl)
			if derr == nil && decl.IsInteger() {
				if _, hasAssign := decl.AssignValue(); hasAssign && decl.Assign == "" {
					if i >= len(chunks) {
						return nil, fmt.Errorf("invalid override declaration syntax: missing value vector for %q", p.Decl)
					}
					extra, ok := chunks[i].(*dts.CellsChunk)
					if !ok {
						return nil, fmt.Errorf("invalid override declaration syntax: expected a value vector after %q", p.Decl)
					}
					p.Extra = extra
					i++
				}
			}
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func isFragmentTarget(target *dts.CellsChunk) bool {
	item := target.Items[0]
	return !item.IsLabel() && item.Literal == "0"
}

func applyPair(tree *dts.Tree, name string, p pair, value *string) error {
	if isFragmentTarget(p.Target) {
		return applyFragmentEnable(tree, p.Decl, value)
	}

	item := p.Target.Items[0]
	if !item.IsLabel() {
		return fmt.Errorf("invalid override target (expected '&label' or literal 0)")
	}
	node, ok := tree.FindLabel(item.Label)
	if !ok {
		return fmt.Errorf("unknown target label '&%s'", item.Label)
	}

	if prop, ok := IsBooleanDecl(p.Decl); ok {
		return applyBoolean(node, prop, value)
	}

	decl, err := ParseDecl(p.Decl)
	if err != nil {
		return err
	}
	if decl.IsInteger() {
		return applyInteger(node, decl, p.Extra, value)
	}
	return applyString(node, decl, value)
}

func derefOr(value *string, def string) string {
	if value == nil {
		return def
	}
	return *value
}

func applyBoolean(node *dts.Node, prop string, value *string) error {
	b, err := dts.ParseBooleanValue(derefOr(value, ""))
	if err != nil {
		return err
	}
	if b {
		node.EnsureBooleanProperty(prop)
	} else {
		node.DeleteProperty(prop)
	}
	return nil
}

func applyString(node *dts.Node, decl *Decl, value *string) error {
	assign, hasAssign := decl.AssignValue()
	val := derefOr(value, "")
	if hasAssign {
		val = assign
	}
	return node.ReplaceProperty(decl.Prop, []dts.ValueChunk{dts.StringChunk(val)})
}

var typeWidths = map[string]int{
	".": 1,
	";": 2,
	":": 4,
	"#": 8,
}

func applyInteger(node *dts.Node, decl *Decl, extra *dts.CellsChunk, value *string) error {
	prop := decl.Prop
	offset, err := strconv.Atoi(decl.TypedOffset.Offset)
	if err != nil {
		return fmt.Errorf("invalid override offset %q: %s", decl.TypedOffset.Offset, err)
	}

	typeChar := decl.TypedOffset.Type
	widthBytes, known := typeWidths[typeChar]
	isString := typeChar == `"`
	if !known && !isString {
		return fmt.Errorf("unrecognized override type char %q", typeChar)
	}
	if isString {
		widthBytes = 1
	}

	val, err := integerOverrideValue(decl, extra, value)
	if err != nil {
		return err
	}

	if isString {
		return patchStringOffset(node, prop, offset, val)
	}

	term, err := ResolveTerm(val, widthBytes)
	if err != nil {
		return err
	}

	if prop == "reg" {
		if !term.IsLabel() {
			if addr, perr := dts.ParseUintLiteral(term.Literal); perr == nil {
				node.SetUnitAddress(addr)
			}
		}
	}

	existing, ok := node.FindProperty(prop)
	if !ok {
		if prop == "reg" {
			return nil // silently dropped (spec §4.3)
		}
		existing = &dts.Property{Name: prop, Chunks: []dts.ValueChunk{&dts.CellsChunk{ElemSize: widthBytes}}}
		node.Properties = append(node.Properties, existing)
	}
	return patchCellOffset(existing, offset, widthBytes, term)
}

// integerOverrideValue resolves the raw (pre integer-value) text for an
// Integer override: an explicit ASSIGN, a bare '=' consuming the trailing
// one-cell vector, or the command-line VALUE.
func integerOverrideValue(decl *Decl, extra *dts.CellsChunk, value *string) (string, error) {
	assign, hasAssign := decl.AssignValue()
	if !hasAssign {
		return derefOr(value, ""), nil
	}
	if assign != "" {
		return assign, nil
	}
	if extra == nil || len(extra.Items) != 1 {
		return "", fmt.Errorf("bare '=' in %q requires a one-cell value vector", decl.Prop)
	}
	item := extra.Items[0]
	if item.IsLabel() {
		return "&" + item.Label, nil
	}
	return item.Literal, nil
}

// patchCellOffset writes term into prop's (first, or newly created) Cells
// chunk at byte offset offsetBytes, padding with zero cells and extending
// the chunk as needed (spec §4.3, §8's "extend with zero padding" boundary).
func patchCellOffset(prop *dts.Property, offsetBytes, widthBytes int, term dts.CellTerm) error {
	if offsetBytes%widthBytes != 0 {
		return fmt.Errorf("offset %d is not aligned to a %d-byte width", offsetBytes, widthBytes)
	}
	elemIndex := offsetBytes / widthBytes

	var target *dts.CellsChunk
	for _, c := range prop.Chunks {
		if cc, ok := c.(*dts.CellsChunk); ok {
			target = cc
			break
		}
	}
	if target == nil {
		target = &dts.CellsChunk{ElemSize: widthBytes}
		prop.Chunks = append(prop.Chunks, target)
	}
	target.ElemSize = widthBytes

	for len(target.Items) <= elemIndex {
		target.Items = append(target.Items, dts.LiteralTerm("0x0"))
	}
	target.Items[elemIndex] = term
	return nil
}

// patchStringOffset implements the `"` type-char corner of the Integer
// override (spec §4.4: "width 0 meaning string"): the named property is
// treated as a byte buffer and the byte at offset is overwritten, padding
// with NULs as needed.
func patchStringOffset(node *dts.Node, prop string, offset int, val string) error {
	term, err := ResolveTerm(val, 1)
	if err != nil {
		return err
	}
	if term.IsLabel() {
		return fmt.Errorf("label reference not valid in a string-width override")
	}
	n, err := dts.ParseUintLiteral(term.Literal)
	if err != nil {
		return fmt.Errorf("invalid byte value %q: %s", term.Literal, err)
	}

	var buf []byte
	if existing, ok := node.FindProperty(prop); ok && len(existing.Chunks) > 0 {
		if sc, ok := existing.Chunks[0].(dts.StringChunk); ok {
			buf = []byte(string(sc))
		}
	}
	for len(buf) <= offset {
		buf = append(buf, 0)
	}
	buf[offset] = byte(n)
	return node.ReplaceProperty(prop, []dts.ValueChunk{dts.StringChunk(string(buf))})
}

func applyFragmentEnable(tree *dts.Tree, decl string, value *string) error {
	base, err := dts.ParseBooleanValue(derefOr(value, ""))
	if err != nil {
		return err
	}
	fe, err := ParseFragmentEnableDecl(decl)
	if err != nil {
		return err
	}
	for _, op := range fe.Ops {
		b := base
		switch op.Op {
		case "!", "-":
			b = !base
		case "=", "+":
			// track base as-is; "+" is the chaining form of "=" (ties
			// another fragment to the same sense rather than forcing it).
		default:
			return fmt.Errorf("unrecognized fragment-enable op %q", op.Op)
		}
		num, err := strconv.Atoi(op.Num)
		if err != nil {
			return fmt.Errorf("invalid fragment number %q: %s", op.Num, err)
		}
		if err := setFragmentEnabled(tree, num, b); err != nil {
			return err
		}
	}
	return nil
}

func setFragmentEnabled(tree *dts.Tree, num int, enabled bool) error {
	for _, f := range tree.Fragments() {
		if f.Num != num {
			continue
		}
		body, ok := f.Node.FindChild("__overlay__")
		if !ok {
			body, ok = f.Node.FindChild("__dormant__")
		}
		if !ok {
			return fmt.Errorf("fragment %d has neither __overlay__ nor __dormant__", num)
		}
		if enabled {
			body.Name = "__overlay__"
		} else {
			body.Name = "__dormant__"
		}
		return nil
	}
	return fmt.Errorf("no fragment %d for fragment-enable override", num)
}
