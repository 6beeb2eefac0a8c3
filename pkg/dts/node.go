// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts

import (
	"strconv"
	"strings"
)

// Node is a device-tree node (spec §3). Parent is a weak back-reference:
// the Tree that owns both Node and its parent is the only owner.
type Node struct {
	Name string

	Properties []*Property
	Children   []*Node
	Labels     []string

	Parent *Node
	Depth  int
}

// Property is an ordered (name, chunks) pair. Zero chunks means a
// boolean-present property (e.g. "disable-wp;").
type Property struct {
	Name   string
	Chunks []ValueChunk
}

func NewRootNode() *Node {
	return &Node{Name: "/", Depth: 0}
}

// BaseName strips a node's "@unit-address" suffix, if any.
func (n *Node) BaseName() string {
	if i := strings.IndexByte(n.Name, '@'); i >= 0 {
		return n.Name[:i]
	}
	return n.Name
}

// UnitAddress returns the hex text after "@", or "" if the node has none.
func (n *Node) UnitAddress() string {
	if i := strings.IndexByte(n.Name, '@'); i >= 0 {
		return n.Name[i+1:]
	}
	return ""
}

// SetUnitAddress rewrites the "@..." suffix of Name to addr, written as
// lowercase hex with no "0x" prefix, appending one if the node had none. Used by
// the "reg" integer override (spec §4.3).
func (n *Node) SetUnitAddress(addr uint64) {
	n.Name = n.BaseName() + "@" + strconv.FormatUint(addr, 16)
}

// matchesName implements the §4.6 child-lookup rule: an exact match wins;
// otherwise a name with no "@" matches a child named "name@anything".
func matchesName(nodeName, query string) bool {
	if nodeName == query {
		return true
	}
	if strings.ContainsRune(query, '@') {
		return false
	}
	base, hasAddr := splitAt(nodeName)
	return hasAddr && base == query
}

func splitAt(name string) (string, bool) {
	if i := strings.IndexByte(name, '@'); i >= 0 {
		return name[:i], true
	}
	return name, false
}

// FindChild looks up an immediate child by §4.6 name-matching rules.
func (n *Node) FindChild(name string) (*Node, bool) {
	for _, c := range n.Children {
		if matchesName(c.Name, name) {
			return c, true
		}
	}
	return nil, false
}

// GetOrAddChild finds an existing child (§4.6 matching) or creates and
// attaches a fresh one named exactly name.
func (n *Node) GetOrAddChild(name string) *Node {
	if c, ok := n.FindChild(name); ok {
		return c
	}
	c := &Node{Name: name, Parent: n, Depth: n.Depth + 1}
	n.Children = append(n.Children, c)
	return c
}

// removeChild detaches (without deep-deleting labels; callers needing the
// full "/delete-node/" semantics should use Tree.DeleteNode) the first
// child matching name and reports whether one was found.
func (n *Node) removeChild(name string) (*Node, bool) {
	for i, c := range n.Children {
		if matchesName(c.Name, name) {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// FindProperty looks up a property by exact name.
func (n *Node) FindProperty(name string) (*Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// DeleteProperty removes a property by exact name, reporting success.
func (n *Node) DeleteProperty(name string) bool {
	for i, p := range n.Properties {
		if p.Name == name {
			n.Properties = append(n.Properties[:i], n.Properties[i+1:]...)
			return true
		}
	}
	return false
}

// SetProperty applies the §4.2 property-write rule: replace chunks of an
// existing property, with the "status" and "bootargs" fusing exceptions, or
// append a new one.
func (n *Node) SetProperty(name string, chunks []ValueChunk) error {
	chunks, err := coerceStatusChunks(name, chunks)
	if err != nil {
		return err
	}
	if p, ok := n.FindProperty(name); ok {
		if name == "bootargs" {
			existing := firstString(p.Chunks)
			addition := firstString(chunks)
			p.Chunks = []ValueChunk{StringChunk(existing + " " + addition)}
			return nil
		}
		p.Chunks = chunks
		return nil
	}
	n.Properties = append(n.Properties, &Property{Name: name, Chunks: chunks})
	return nil
}

// ReplaceProperty sets name's chunks outright, overwriting any existing
// value. Unlike SetProperty, it never takes the "bootargs" append-fuse: the
// §4.3 string override's "Set property PROP" is a plain assignment even for
// bootargs, not the append-fuse SetProperty applies to an existing bootargs
// property on any node.
func (n *Node) ReplaceProperty(name string, chunks []ValueChunk) error {
	chunks, err := coerceStatusChunks(name, chunks)
	if err != nil {
		return err
	}
	if p, ok := n.FindProperty(name); ok {
		p.Chunks = chunks
		return nil
	}
	n.Properties = append(n.Properties, &Property{Name: name, Chunks: chunks})
	return nil
}

func coerceStatusChunks(name string, chunks []ValueChunk) ([]ValueChunk, error) {
	if name != "status" {
		return chunks, nil
	}
	coerced, err := coerceStatus(firstString(chunks))
	if err != nil {
		return nil, err
	}
	return []ValueChunk{StringChunk(coerced)}, nil
}

func firstString(chunks []ValueChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	if s, ok := chunks[0].(StringChunk); ok {
		return string(s)
	}
	return ""
}

func coerceStatus(v string) (string, error) {
	b, err := ParseBooleanValue(v)
	if err != nil {
		return "", err
	}
	if b {
		return "okay", nil
	}
	return "disabled", nil
}

// EnsureBooleanProperty makes sure a zero-chunk property named name is
// present (used by boolean dtparam overrides).
func (n *Node) EnsureBooleanProperty(name string) {
	if _, ok := n.FindProperty(name); !ok {
		n.Properties = append(n.Properties, &Property{Name: name})
	}
}

// AddressLess implements the §4.6 sort comparator: numeric by unit address
// when both sides have one (by name when the addresses are equal or not
// valid hex), the addressed node first when only one side has one, else
// lexical by name.
func AddressLess(a, b *Node) bool {
	aAddr, aHas := a.UnitAddress(), a.UnitAddress() != ""
	bAddr, bHas := b.UnitAddress(), b.UnitAddress() != ""
	switch {
	case aHas && bHas:
		av, aerr := strconv.ParseUint(aAddr, 16, 64)
		bv, berr := strconv.ParseUint(bAddr, 16, 64)
		if aerr == nil && berr == nil && av != bv {
			return av < bv
		}
		return a.Name < b.Name
	case aHas != bHas:
		return aHas
	default:
		return a.Name < b.Name
	}
}
