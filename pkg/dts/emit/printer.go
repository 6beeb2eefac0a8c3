// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package emit

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// Emit serializes tree to w as DTS text (spec §4.6). With sorted set,
// properties and children are emitted in the deterministic order spec §8
// requires ("two runs on the same input produce byte-identical output");
// without it, document order is preserved.
func Emit(w io.Writer, tree *dts.Tree, sorted bool) error {
	if _, err := fmt.Fprintln(w, "/dts-v1/;"); err != nil {
		return err
	}
	if tree.Plugin {
		if _, err := fmt.Fprintln(w, "/plugin/;"); err != nil {
			return err
		}
	}
	for _, inc := range tree.Includes {
		if _, err := fmt.Fprintf(w, "#include %s\n", inc.Raw); err != nil {
			return err
		}
	}
	for _, m := range tree.MemReserves {
		if _, err := fmt.Fprintf(w, "/memreserve/ 0x%x 0x%x;\n", m.Start, m.Length); err != nil {
			return err
		}
	}
	return emitNode(w, tree.Root, 0, sorted)
}

func emitNode(w io.Writer, n *dts.Node, depth int, sorted bool) error {
	indent := strings.Repeat("\t", depth)

	labels := append([]string{}, n.Labels...)
	if sorted {
		sort.Strings(labels)
	}
	prefix := ""
	if len(labels) > 0 {
		prefix = strings.Join(labels, ": ") + ": "
	}

	if _, err := fmt.Fprintf(w, "%s%s%s {\n", indent, prefix, n.Name); err != nil {
		return err
	}

	props := append([]*dts.Property{}, n.Properties...)
	if sorted {
		sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
	}
	for _, p := range props {
		if err := emitProperty(w, p, depth+1); err != nil {
			return err
		}
	}

	children := append([]*dts.Node{}, n.Children...)
	if sorted {
		sort.Slice(children, func(i, j int) bool { return dts.AddressLess(children[i], children[j]) })
	}
	for _, c := range children {
		if err := emitNode(w, c, depth+1, sorted); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%s};\n", indent)
	return err
}

func emitProperty(w io.Writer, p *dts.Property, depth int) error {
	indent := strings.Repeat("\t", depth)
	if len(p.Chunks) == 0 {
		_, err := fmt.Fprintf(w, "%s%s;\n", indent, p.Name)
		return err
	}
	parts := make([]string, len(p.Chunks))
	for i, c := range p.Chunks {
		parts[i] = formatChunk(c)
	}
	_, err := fmt.Fprintf(w, "%s%s = %s;\n", indent, p.Name, strings.Join(parts, ", "))
	return err
}

func formatChunk(c dts.ValueChunk) string {
	switch v := c.(type) {
	case dts.StringChunk:
		return strconv.Quote(string(v))
	case dts.LabelRefChunk:
		return "&" + string(v)
	case *dts.CellsChunk:
		terms := make([]string, len(v.Items))
		for i, t := range v.Items {
			if t.IsLabel() {
				terms[i] = "&" + t.Label
			} else {
				terms[i] = t.Literal
			}
		}
		return "<" + strings.Join(terms, " ") + ">"
	case *dts.BytesChunk:
		return "[" + strings.Join(v.Items, " ") + "]"
	default:
		return ""
	}
}
