// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts

// ValueChunk is the closed sum type backing a Property's right-hand side
// (spec §3, design note §9). Pattern-match on the concrete type, not a
// string tag: Go's type switch plays that role here.
type ValueChunk interface {
	sealed()
}

var _ = []ValueChunk{StringChunk(""), LabelRefChunk(""), &CellsChunk{}, &BytesChunk{}}

// StringChunk is a quoted string value, e.g. "okay".
type StringChunk string

func (StringChunk) sealed() {}

// LabelRefChunk is a "&label" occurring as a whole property value, as
// opposed to one embedded inside a CellsChunk term.
type LabelRefChunk string

func (LabelRefChunk) sealed() {}

// CellTerm is one element of a CellsChunk. Exactly one of Label or Literal
// is set: a "&label" reference (only legal at ElemSize==4), or the original
// textual token of a numeric/expression literal.
type CellTerm struct {
	Label   string
	Literal string
}

func LiteralTerm(s string) CellTerm { return CellTerm{Literal: s} }
func LabelTerm(l string) CellTerm   { return CellTerm{Label: l} }

func (t CellTerm) IsLabel() bool { return t.Label != "" }

// CellsChunk is a "<...>" vector. ElemSize is in bytes and is one of
// 1, 2, 4, 8 (default 4; set by a leading "/bits/ N").
type CellsChunk struct {
	ElemSize int
	Items    []CellTerm
}

func (*CellsChunk) sealed() {}

func NewCellsChunk(items ...CellTerm) *CellsChunk {
	return &CellsChunk{ElemSize: 4, Items: items}
}

// BytesChunk is a "[...]" vector of hex byte tokens; always 1-byte elements.
type BytesChunk struct {
	Items []string
}

func (*BytesChunk) sealed() {}
