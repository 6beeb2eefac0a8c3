// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dtparam

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Decl is the declaration half of an __overrides__ (target, declaration)
// pair (spec §4.3). It covers both shapes that share a "PROP [stuff]"
// prefix: the integer override "PROP TYPECHAR OFFSET [=ASSIGN]" and the
// string override "PROP [=ASSIGN]" — TypedOffset is nil for the latter.
type Decl struct {
	Prop        string       `parser:"@Word"`
	TypedOffset *TypedOffset `parser:"@@?"`
	HasAssign   bool         `parser:"( @Equals"`
	Assign      string       `parser:"  @Word? )?"`
}

type TypedOffset struct {
	Type   string `parser:"@Type"`
	Offset string `parser:"@Word"`
}

var declLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Equals", Pattern: `=`},
	{Name: "Type", Pattern: `[".;:#]`},
	{Name: "Word", Pattern: `[^."';:#=]+`},
})

var declParser = participle.MustBuild[Decl](participle.Lexer(declLexer))

// ParseDecl parses an __overrides__ declaration string that targets an
// actual node (as opposed to a fragment-enable sentinel). IsInteger
// reports which of spec §4.3's "Integer override"/"String override" shapes
// it matched.
func ParseDecl(d string) (*Decl, error) {
	decl, err := declParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("invalid override declaration syntax %q: %s", d, err)
	}
	return decl, nil
}

// IsInteger reports whether this Decl carries a TYPECHAR/OFFSET pair.
func (d *Decl) IsInteger() bool { return d.TypedOffset != nil }

// AssignValue returns (assign string, present). HasAssign distinguishes
// "no '=' at all" from "'=' with an empty right-hand side" — both are
// represented by Assign=="" but only the latter has HasAssign==true.
func (d *Decl) AssignValue() (string, bool) {
	return d.Assign, d.HasAssign
}

// IsBooleanDecl reports the trivial "PROP?" shape (spec §4.3's Boolean
// override). Callers check it before trying the Decl grammar above, whose
// Word token would otherwise take the trailing '?' as part of PROP.
func IsBooleanDecl(d string) (prop string, ok bool) {
	if strings.HasSuffix(d, "?") {
		return strings.TrimSuffix(d, "?"), true
	}
	return "", false
}

// FragOp is one operation in a fragment-enable declaration's "[=!+-]<num>"
// sequence (spec §4.3).
type FragOp struct {
	Op  string `parser:"@Op"`
	Num string `parser:"@Num"`
}

// FragmentEnableDecl is the full op sequence, e.g. "=0+1".
type FragmentEnableDecl struct {
	Ops []*FragOp `parser:"@@+"`
}

var fragLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Op", Pattern: `[=!+-]`},
	{Name: "Num", Pattern: `[0-9]+`},
})

var fragParser = participle.MustBuild[FragmentEnableDecl](participle.Lexer(fragLexer))

func ParseFragmentEnableDecl(d string) (*FragmentEnableDecl, error) {
	decl, err := fragParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("invalid fragment-enable declaration %q: %s", d, err)
	}
	return decl, nil
}
