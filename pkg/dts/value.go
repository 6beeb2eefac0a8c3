// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts

import (
	"fmt"
	"strconv"
	"strings"
)

// BooleanValue implements spec §4.4's boolean-value(V) rule without an
// error result: text that ParseBooleanValue rejects yields false.
func BooleanValue(v string) bool {
	b, err := ParseBooleanValue(v)
	if err != nil {
		// Unparseable text is treated as false rather than reported.
		return false
	}
	return b
}

// ParseBooleanValue is BooleanValue with the failure spec §4.4 describes
// ("otherwise parse as an integer ...; else fail") surfaced as an error. It
// is used both by the "status" property-write exception (§4.2) and by the
// parameter engine's boolean/fragment-enable overrides (§4.3), so it lives
// on the data model rather than in the parameter engine.
func ParseBooleanValue(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "y", "yes", "on", "true", "okay":
		return true, nil
	case "n", "no", "off", "false", "disabled":
		return false, nil
	}
	n, err := parseIntLiteral(v)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value %q: %s", v, err)
	}
	return n != 0, nil
}

// parseIntLiteral parses a decimal or 0x-prefixed hex integer literal.
func parseIntLiteral(v string) (int64, error) {
	v = strings.TrimSpace(v)
	neg := false
	if strings.HasPrefix(v, "-") {
		neg = true
		v = v[1:]
	}
	var n uint64
	var err error
	switch {
	case strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X"):
		n, err = strconv.ParseUint(v[2:], 16, 64)
	default:
		n, err = strconv.ParseUint(v, 10, 64)
	}
	if err != nil {
		return 0, err
	}
	if neg {
		return -int64(n), nil
	}
	return int64(n), nil
}

// WidthMask returns the unsigned mask for a cell width in bytes.
func WidthMask(width int) uint64 {
	switch width {
	case 1:
		return 0xff
	case 2:
		return 0xffff
	case 4:
		return 0xffffffff
	case 8:
		return 0xffffffffffffffff
	default:
		return 0xffffffffffffffff
	}
}

// ParseUintLiteral parses a decimal or 0x-prefixed hex non-negative integer
// literal, as used by /memreserve/ operands and cell items.
func ParseUintLiteral(v string) (uint64, error) {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		return strconv.ParseUint(v[2:], 16, 64)
	}
	return strconv.ParseUint(v, 10, 64)
}
