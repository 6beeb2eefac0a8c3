// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/filepos"
)

// Result is a parsed Tree plus the warnings collected along the way
// (spec §7's "Warnings (only with -w)" taxonomy). Whether to print them
// is a CLI-layer decision, not the parser's.
type Result struct {
	Tree     *dts.Tree
	Warnings []string
}

// cursor walks a token stream, transparently skipping file-marker tokens
// and tracking the current file for diagnostics (spec §4.2).
type cursor struct {
	toks []dts.Token
	idx  int
	file string
}

func (c *cursor) sync() {
	for c.idx < len(c.toks) && c.toks[c.idx].Kind == dts.TokFileMarker {
		c.file = c.toks[c.idx].File
		c.idx++
	}
}

func (c *cursor) head() (dts.Token, bool) {
	c.sync()
	if c.idx >= len(c.toks) {
		return dts.Token{}, false
	}
	return c.toks[c.idx], true
}

func (c *cursor) advance() (dts.Token, bool) {
	t, ok := c.head()
	if ok {
		c.idx++
	}
	return t, ok
}

func (c *cursor) pos() *filepos.Position {
	if t, ok := c.head(); ok {
		return t.Pos
	}
	return filepos.NewUnknownPositionInFile(c.file)
}

func (c *cursor) expect(s string) error {
	t, ok := c.advance()
	if !ok || t.Text != s {
		got := "<eof>"
		if ok {
			got = t.String()
		}
		return fmt.Errorf("%s: expected '%s', got '%s'", c.pos().AsCompactString(), s, got)
	}
	return nil
}

// Parse builds a Tree Store from a token stream produced by Tokenize
// (spec §4.2).
func Parse(toks []dts.Token) (*Result, error) {
	c := &cursor{toks: toks}
	tree := dts.NewTree()
	res := &Result{Tree: tree}

	if err := parseHeader(c, tree, res); err != nil {
		return nil, err
	}

	for {
		t, ok := c.head()
		if !ok {
			break
		}
		if err := parseTopLevelItem(c, tree, res, t); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func parseHeader(c *cursor, tree *dts.Tree, res *Result) error {
	t, ok := c.head()
	if !ok || t.Text != "/dts-v1/" {
		return fmt.Errorf("%s: missing /dts-v1/;", c.pos().AsCompactString())
	}
	c.advance()
	if err := c.expect(";"); err != nil {
		return err
	}

	for {
		t, ok := c.head()
		if !ok {
			return nil
		}
		switch t.Text {
		case "/plugin/":
			c.advance()
			if err := c.expect(";"); err != nil {
				return err
			}
			tree.Plugin = true
		case "/memreserve/":
			c.advance()
			start, err := parseHeaderInt(c)
			if err != nil {
				return err
			}
			length, err := parseHeaderInt(c)
			if err != nil {
				return err
			}
			if err := c.expect(";"); err != nil {
				return err
			}
			tree.AddMemReserve(start, length)
		case "#include":
			c.advance()
			lit, ok := c.advance()
			if !ok {
				return fmt.Errorf("%s: expected include literal", c.pos().AsCompactString())
			}
			tree.AddInclude(lit.Text)
		default:
			return nil
		}
	}
}

func parseHeaderInt(c *cursor) (uint64, error) {
	t, ok := c.advance()
	if !ok {
		return 0, fmt.Errorf("%s: expected integer literal", c.pos().AsCompactString())
	}
	return dts.ParseUintLiteral(t.Text)
}

func parseTopLevelItem(c *cursor, tree *dts.Tree, res *Result, t dts.Token) error {
	switch {
	case t.Text == "/":
		c.advance()
		if err := c.expect("{"); err != nil {
			return err
		}
		if err := parseNodeBody(c, tree, res, tree.Root); err != nil {
			return err
		}
		if err := c.expect("}"); err != nil {
			return err
		}
		return c.expect(";")

	case t.Text == "/delete-node/":
		c.advance()
		ref, ok := c.advance()
		if !ok || ref.Kind != dts.TokLabelRef {
			return fmt.Errorf("%s: expected &label after /delete-node/", c.pos().AsCompactString())
		}
		node, ok := tree.FindLabel(strings.TrimPrefix(ref.Text, "&"))
		if !ok {
			return fmt.Errorf("%s: unknown label '%s'", ref.Pos.AsCompactString(), ref.Text)
		}
		tree.DeleteNode(node)
		return c.expect(";")

	case t.Text == "#include":
		c.advance()
		lit, ok := c.advance()
		if !ok {
			return fmt.Errorf("%s: expected include literal", c.pos().AsCompactString())
		}
		tree.AddInclude(lit.Text)
		return nil

	case t.Kind == dts.TokLabelDecl || t.Kind == dts.TokLabelRef:
		var labels []string
		for t.Kind == dts.TokLabelDecl {
			labels = append(labels, t.Text)
			c.advance()
			t, _ = c.head()
		}
		ref, ok := c.advance()
		if !ok || ref.Kind != dts.TokLabelRef {
			return fmt.Errorf("%s: expected &label", c.pos().AsCompactString())
		}
		node, ok := tree.FindLabel(strings.TrimPrefix(ref.Text, "&"))
		if !ok {
			return fmt.Errorf("%s: unknown label '%s'", ref.Pos.AsCompactString(), ref.Text)
		}
		if err := attachLabels(tree, res, node, labels); err != nil {
			return err
		}
		if err := c.expect("{"); err != nil {
			return err
		}
		if err := parseNodeBody(c, tree, res, node); err != nil {
			return err
		}
		if err := c.expect("}"); err != nil {
			return err
		}
		return c.expect(";")

	default:
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s: ignoring unexpected top-level token '%s'", t.Pos.AsCompactString(), t.Text))
		c.advance()
		return nil
	}
}

func attachLabels(tree *dts.Tree, res *Result, node *dts.Node, labels []string) error {
	if len(labels) > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf("multiple labels declared on node '%s'", node.Name))
	}
	for _, l := range labels {
		warn, err := tree.AddLabel(node, l)
		if err != nil {
			return err
		}
		if warn {
			res.Warnings = append(res.Warnings, fmt.Sprintf("duplicate label '%s' on node '%s'", l, node.Name))
		}
	}
	return nil
}

func parseNodeBody(c *cursor, tree *dts.Tree, res *Result, node *dts.Node) error {
	for {
		t, ok := c.head()
		if !ok {
			return fmt.Errorf("%s: unexpected end of input inside node '%s'", c.pos().AsCompactString(), node.Name)
		}
		if t.Text == "}" {
			return nil
		}

		if t.Text == "/delete-node/" {
			c.advance()
			name, ok := c.advance()
			if !ok {
				return fmt.Errorf("%s: expected name after /delete-node/", c.pos().AsCompactString())
			}
			tree.DeleteNodeNamed(node, name.Text)
			if err := c.expect(";"); err != nil {
				return err
			}
			continue
		}
		if t.Text == "/delete-property/" {
			c.advance()
			name, ok := c.advance()
			if !ok {
				return fmt.Errorf("%s: expected name after /delete-property/", c.pos().AsCompactString())
			}
			node.DeleteProperty(name.Text)
			if err := c.expect(";"); err != nil {
				return err
			}
			continue
		}

		var labels []string
		for t.Kind == dts.TokLabelDecl {
			labels = append(labels, t.Text)
			c.advance()
			t, ok = c.head()
			if !ok {
				return fmt.Errorf("%s: unexpected end of input after label", c.pos().AsCompactString())
			}
		}

		if t.Kind != dts.TokLiteral {
			return fmt.Errorf("%s: unexpected token '%s' in node body", t.Pos.AsCompactString(), t.Text)
		}
		name := t.Text
		c.advance()

		next, ok := c.head()
		if !ok {
			return fmt.Errorf("%s: unexpected end of input after '%s'", c.pos().AsCompactString(), name)
		}

		switch next.Text {
		case "{":
			c.advance()
			child := node.GetOrAddChild(name)
			if err := attachLabels(tree, res, child, labels); err != nil {
				return err
			}
			if err := parseNodeBody(c, tree, res, child); err != nil {
				return err
			}
			if err := c.expect("}"); err != nil {
				return err
			}
			if err := c.expect(";"); err != nil {
				return err
			}

		case "=":
			c.advance()
			chunks, err := parseValueList(c)
			if err != nil {
				return err
			}
			if err := c.expect(";"); err != nil {
				return err
			}
			if len(labels) > 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: labels on property '%s' ignored", t.Pos.AsCompactString(), name))
			}
			if err := node.SetProperty(name, chunks); err != nil {
				return err
			}

		case ";":
			c.advance()
			if len(labels) > 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("%s: labels on property '%s' ignored", t.Pos.AsCompactString(), name))
			}
			if err := node.SetProperty(name, nil); err != nil {
				return err
			}

		default:
			return fmt.Errorf("%s: expected '{', '=' or ';' after '%s', got '%s'", next.Pos.AsCompactString(), name, next.Text)
		}
	}
}

func parseValueList(c *cursor) ([]dts.ValueChunk, error) {
	var chunks []dts.ValueChunk
	for {
		chunk, err := parseOneChunk(c)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)

		t, ok := c.head()
		if ok && t.Text == "," {
			c.advance()
			continue
		}
		return chunks, nil
	}
}

func parseOneChunk(c *cursor) (dts.ValueChunk, error) {
	t, ok := c.head()
	if !ok {
		return nil, fmt.Errorf("%s: expected value", c.pos().AsCompactString())
	}

	switch {
	case t.Kind == dts.TokString:
		c.advance()
		return dts.StringChunk(t.Text), nil

	case t.Kind == dts.TokLabelRef:
		c.advance()
		return dts.LabelRefChunk(strings.TrimPrefix(t.Text, "&")), nil

	case t.Text == "/bits/":
		c.advance()
		widthTok, ok := c.advance()
		if !ok {
			return nil, fmt.Errorf("%s: expected width after /bits/", c.pos().AsCompactString())
		}
		width, err := strconv.Atoi(widthTok.Text)
		if err != nil || (width != 8 && width != 16 && width != 32 && width != 64) {
			return nil, fmt.Errorf("%s: invalid /bits/ size '%s'", widthTok.Pos.AsCompactString(), widthTok.Text)
		}
		if err := c.expect("<"); err != nil {
			return nil, err
		}
		items, err := parseCellItems(c)
		if err != nil {
			return nil, err
		}
		if err := c.expect(">"); err != nil {
			return nil, err
		}
		return &dts.CellsChunk{ElemSize: width / 8, Items: items}, nil

	case t.Text == "<":
		c.advance()
		items, err := parseCellItems(c)
		if err != nil {
			return nil, err
		}
		if err := c.expect(">"); err != nil {
			return nil, err
		}
		return dts.NewCellsChunk(items...), nil

	case t.Text == "[":
		c.advance()
		items, err := parseByteItems(c)
		if err != nil {
			return nil, err
		}
		if err := c.expect("]"); err != nil {
			return nil, err
		}
		return &dts.BytesChunk{Items: items}, nil

	default:
		return nil, fmt.Errorf("%s: unexpected token '%s' in value", t.Pos.AsCompactString(), t.Text)
	}
}

func parseCellItems(c *cursor) ([]dts.CellTerm, error) {
	var items []dts.CellTerm
	for {
		t, ok := c.head()
		if !ok || t.Text == ">" {
			return items, nil
		}
		switch t.Kind {
		case dts.TokLabelRef:
			items = append(items, dts.LabelTerm(strings.TrimPrefix(t.Text, "&")))
		case dts.TokLiteral:
			items = append(items, dts.LiteralTerm(t.Text))
		default:
			return nil, fmt.Errorf("%s: unexpected token '%s' in cell vector", t.Pos.AsCompactString(), t.Text)
		}
		c.advance()
	}
}

func parseByteItems(c *cursor) ([]string, error) {
	var items []string
	for {
		t, ok := c.head()
		if !ok || t.Text == "]" {
			return items, nil
		}
		if t.Kind != dts.TokLiteral {
			return nil, fmt.Errorf("%s: unexpected token '%s' in byte vector", t.Pos.AsCompactString(), t.Text)
		}
		items = append(items, t.Text)
		c.advance()
	}
}
