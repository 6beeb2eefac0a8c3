// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts

import (
	"fmt"
	"strconv"
)

// Include is a deduplicated #include/ /include/ directive, keyed on its
// original textual form so that "foo.h" and <foo.h> are treated as
// distinct (design note §9: "structural equality over the include token").
type Include struct {
	Raw string
}

// MemReserve is a /memreserve/ <start> <length>; pair, deduplicated by
// value.
type MemReserve struct {
	Start, Length uint64
}

// Tree is the in-memory device tree produced by the Parser and mutated by
// the Parameter Engine and Overlay Composer (spec §3).
type Tree struct {
	Root   *Node
	Plugin bool

	Labels      map[string]*Node
	Includes    []Include
	MemReserves []MemReserve
	FragCount   int
}

func NewTree() *Tree {
	return &Tree{
		Root:   NewRootNode(),
		Labels: map[string]*Node{},
	}
}

// AddLabel attaches label l to node n, honoring the §4.2 duplicate-label
// semantics: re-declaring the same label on the same node is a (warnable)
// no-op, declaring it on a different node is fatal.
func (t *Tree) AddLabel(n *Node, l string) (warn bool, err error) {
	if existing, ok := t.Labels[l]; ok {
		if existing == n {
			return true, nil // "warn" case: duplicate label on the same node
		}
		return false, fmt.Errorf("duplicated label '%s'", l)
	}
	t.Labels[l] = n
	n.Labels = append(n.Labels, l)
	return false, nil
}

// FindLabel resolves "&label".
func (t *Tree) FindLabel(l string) (*Node, bool) {
	n, ok := t.Labels[l]
	return n, ok
}

// AddInclude appends an include directive if it is not already present
// (first-seen ordered set, design note §9).
func (t *Tree) AddInclude(raw string) {
	for _, inc := range t.Includes {
		if inc.Raw == raw {
			return
		}
	}
	t.Includes = append(t.Includes, Include{Raw: raw})
}

// AddMemReserve appends a /memreserve/ pair, deduplicated by value.
func (t *Tree) AddMemReserve(start, length uint64) {
	for _, m := range t.MemReserves {
		if m.Start == start && m.Length == length {
			return
		}
	}
	t.MemReserves = append(t.MemReserves, MemReserve{Start: start, Length: length})
}

// DeleteNode detaches n from its parent and recursively removes every
// label of n and its descendants from the label map (spec §3's lifecycle
// rule and the "/delete-node/" boundary behavior in §8).
func (t *Tree) DeleteNode(n *Node) {
	if n.Parent != nil {
		n.Parent.removeChild(n.Name)
	}
	t.unlabelSubtree(n)
}

func (t *Tree) unlabelSubtree(n *Node) {
	for _, l := range n.Labels {
		delete(t.Labels, l)
	}
	n.Labels = nil
	for _, c := range n.Children {
		t.unlabelSubtree(c)
	}
}

// DeleteNodeNamed removes the root's (or any node's) child matching name
// per §4.6 matching rules, returning whether one was found. Used by the
// in-body "/delete-node/ NAME;" form; the top-level form names an &label and
// goes through DeleteNode.
func (t *Tree) DeleteNodeNamed(parent *Node, name string) bool {
	c, ok := parent.FindChild(name)
	if !ok {
		return false
	}
	t.DeleteNode(c)
	return true
}

// ResolvePath resolves an absolute "/a/b/c" path from the root, or a path
// whose leading component is an alias (spec §4.6: "a leading NAME/
// component through the aliases table"). Aliases are looked up under
// /aliases as properties whose value is either a LabelRefChunk or a
// StringChunk absolute path.
func (t *Tree) ResolvePath(path string) (*Node, error) {
	if path == "" || path == "/" {
		return t.Root, nil
	}
	segs := splitPath(path)
	cur := t.Root

	if aliasNode, ok := t.Root.FindChild("aliases"); ok {
		if p, ok := aliasNode.FindProperty(segs[0]); ok && len(p.Chunks) > 0 {
			switch v := p.Chunks[0].(type) {
			case LabelRefChunk:
				n, ok := t.FindLabel(string(v))
				if !ok {
					return nil, fmt.Errorf("alias '%s' refers to unknown label '%s'", segs[0], v)
				}
				cur = n
				segs = segs[1:]
			case StringChunk:
				n, err := t.ResolvePath(string(v))
				if err != nil {
					return nil, err
				}
				cur = n
				segs = segs[1:]
			}
		}
	}

	for _, seg := range segs {
		if seg == "" {
			continue
		}
		child, ok := cur.FindChild(seg)
		if !ok {
			return nil, fmt.Errorf("no node at path '%s' (missing '%s')", path, seg)
		}
		cur = child
	}
	return cur, nil
}

func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i + 1
		}
	}
	return segs
}

// FragmentNode is a root-level "fragment@N" / "fragment-N" child.
type FragmentNode struct {
	Node *Node
	Num  int
	Sep  byte // '@' or '-'
}

// Fragments returns Root's fragment children in document order, parsed for
// their index and separator.
func (t *Tree) Fragments() []FragmentNode {
	var out []FragmentNode
	for _, c := range t.Root.Children {
		if f, ok := parseFragmentName(c.Name); ok {
			f.Node = c
			out = append(out, f)
		}
	}
	return out
}

func parseFragmentName(name string) (FragmentNode, bool) {
	const prefix = "fragment"
	if len(name) <= len(prefix) || name[:len(prefix)] != prefix {
		return FragmentNode{}, false
	}
	sep := name[len(prefix)]
	if sep != '@' && sep != '-' {
		return FragmentNode{}, false
	}
	n, err := strconv.Atoi(name[len(prefix)+1:])
	if err != nil {
		return FragmentNode{}, false
	}
	return FragmentNode{Num: n, Sep: sep}, true
}

// FragmentName formats a fragment child name for index n using separator
// sep.
func FragmentName(n int, sep byte) string {
	return fmt.Sprintf("fragment%c%d", sep, n)
}

// Overrides returns the root's "__overrides__" node, if present.
func (t *Tree) Overrides() (*Node, bool) {
	return t.Root.FindChild("__overrides__")
}
