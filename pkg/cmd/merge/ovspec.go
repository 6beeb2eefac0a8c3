// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package merge is the CLI orchestrator (spec §6): it parses ovspecs,
// drives the Tokenizer/Parser/Parameter Engine/Overlay Composer/Emitter
// over them in the order spec §2's data-flow rule describes, and writes
// the result to stdout.
package merge

import "strings"

// ParamAssignment is one "PARAM" or "PARAM=VAL" entry within an ovspec.
// Value is nil when no "=" was given at all, distinct from an explicit
// empty VAL.
type ParamAssignment struct {
	Name  string
	Value *string
}

// Ovspec is one positional argument: a source NAME plus zero or more
// dtparam assignments (spec §6: "NAME(,PARAM(=VAL)?)*" or
// "NAME:PARAM(=VAL)?…").
type Ovspec struct {
	Name          string
	Params        []ParamAssignment
	TrailingComma bool
}

// BakesInOverrides reports spec §6's "empty __overrides__ signal": true
// when this ovspec carries at least one parameter, or ends in a bare
// trailing comma.
func (o Ovspec) BakesInOverrides() bool {
	return len(o.Params) > 0 || o.TrailingComma
}

// ParseOvspec parses one positional argument into an Ovspec.
func ParseOvspec(arg string) Ovspec {
	name, rest := splitOvspec(arg)

	var params []ParamAssignment
	trailingComma := false
	for i, seg := range rest {
		if seg == "" {
			if i == len(rest)-1 {
				trailingComma = true
			}
			continue
		}
		if eq := strings.IndexByte(seg, '='); eq >= 0 {
			v := seg[eq+1:]
			params = append(params, ParamAssignment{Name: seg[:eq], Value: &v})
		} else {
			params = append(params, ParamAssignment{Name: seg})
		}
	}
	return Ovspec{Name: name, Params: params, TrailingComma: trailingComma}
}

// splitOvspec separates an ovspec's NAME from its raw, still-unparsed
// PARAM segments, honoring the "NAME:PARAM…" first-separator alternative.
func splitOvspec(arg string) (name string, rest []string) {
	if colon := strings.IndexByte(arg, ':'); colon >= 0 {
		if comma := strings.IndexByte(arg, ','); comma < 0 || colon < comma {
			head, tail := arg[:colon], arg[colon+1:]
			parts := strings.Split(tail, ",")
			return head, parts
		}
	}
	parts := strings.Split(arg, ",")
	return parts[0], parts[1:]
}
