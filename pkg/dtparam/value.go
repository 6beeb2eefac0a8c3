// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dtparam

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

// ResolveTerm implements spec §4.4's integer-value(V, width) rule, returning
// a CellTerm ready to drop straight into a CellsChunk: the boolean synonyms
// and "up" resolve to 1/0/2, a "&label" term passes through unmasked (and
// only at 4-byte width), and everything else is evaluated as an integer
// expression and masked to width.
func ResolveTerm(v string, widthBytes int) (dts.CellTerm, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "on", "true", "down":
		return dts.LiteralTerm(formatHex(1, widthBytes)), nil
	case "n", "no", "off", "false", "none":
		return dts.LiteralTerm(formatHex(0, widthBytes)), nil
	case "up":
		return dts.LiteralTerm(formatHex(2, widthBytes)), nil
	}
	if strings.HasPrefix(v, "&") {
		if widthBytes != 4 {
			return dts.CellTerm{}, fmt.Errorf("label reference '%s' requires 4-byte width, got %d", v, widthBytes)
		}
		return dts.LabelTerm(strings.TrimPrefix(v, "&")), nil
	}
	n, err := EvalIntExpr(v)
	if err != nil {
		return dts.CellTerm{}, fmt.Errorf("invalid integer value %q: %s", v, err)
	}
	masked := uint64(n) & dts.WidthMask(widthBytes)
	return dts.LiteralTerm(formatHex(masked, widthBytes)), nil
}

// EvalIntExpr evaluates an arithmetic override value (decimal, 0x-hex, or a
// small expression over them) using the same expression language the
// parameter engine leans on for everything beyond bare literals.
func EvalIntExpr(v string) (int64, error) {
	v = strings.TrimSpace(v)
	program, err := expr.Compile(v, expr.AsInt64())
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return 0, err
	}
	n, ok := out.(int64)
	if !ok {
		return 0, fmt.Errorf("expression %q did not evaluate to an integer", v)
	}
	return n, nil
}

func formatHex(n uint64, widthBytes int) string {
	n &= dts.WidthMask(widthBytes)
	return fmt.Sprintf("0x%x", n)
}
