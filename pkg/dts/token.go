// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts

import "github.com/dtoverlay/ovmerge/pkg/filepos"

// TokenKind classifies a Token (spec §3).
type TokenKind int

const (
	TokLiteral   TokenKind = iota // identifier, number, node name, punctuation run
	TokLabelRef                   // &ident
	TokLabelDecl                  // ident:
	TokString                     // "..." or '...'
	TokDirective                  // /dts-v1/, /plugin/, /memreserve/, /bits/, /delete-node/, /delete-property/, #include
	TokPunct                      // single-char punctuation: { } ; = < > , [ ] /
	TokFileMarker                 // restores current filename for diagnostics
)

// Token is one lexeme produced by the tokenizer, carrying its source
// position for error reporting.
type Token struct {
	Kind Kind
	Text string
	Pos  *filepos.Position

	// File is only meaningful when Kind == TokFileMarker.
	File string
}

// Kind is an alias kept for readability at call sites (Token.Kind).
type Kind = TokenKind

func NewToken(kind TokenKind, text string, pos *filepos.Position) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

func NewFileMarker(file string, pos *filepos.Position) Token {
	return Token{Kind: TokFileMarker, File: file, Pos: pos}
}

func (t Token) String() string {
	if t.Kind == TokFileMarker {
		return "<file:" + t.File + ">"
	}
	return t.Text
}
