// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos

import (
	"fmt"
)

// Position locates a token in the original .dts/.dtsi text: the include
// file it came from and, once the tokenizer has scanned that far, the
// 1-based line within it. A Position can be file-only (known=false) when
// it marks the start of an included file before any line has been read.
type Position struct {
	lineNum int // 1 based; meaningless unless known
	file    string
	known   bool
}

// NewPositionInFile returns the Position of line lineNum within file.
func NewPositionInFile(lineNum int, file string) *Position {
	if lineNum <= 0 {
		panic("Lines are 1 based")
	}
	return &Position{lineNum: lineNum, file: file, known: true}
}

// NewUnknownPositionInFile produces a Position of a known file at an
// unknown line, used for the marker emitted when a /include/ is entered.
func NewUnknownPositionInFile(file string) *Position {
	return &Position{file: file}
}

func (p *Position) IsKnown() bool { return p != nil && p.known }

func (p *Position) LineNum() int {
	if !p.IsKnown() {
		panic("Position is unknown")
	}
	return p.lineNum
}

// AsCompactString renders "file:line", or "file:?" for an unknown line,
// the form used to prefix parse and tokenize errors.
func (p *Position) AsCompactString() string {
	filePrefix := p.file
	if len(filePrefix) > 0 {
		filePrefix += ":"
	}
	if p.IsKnown() {
		return fmt.Sprintf("%s%d", filePrefix, p.LineNum())
	}
	return fmt.Sprintf("%s?", filePrefix)
}
