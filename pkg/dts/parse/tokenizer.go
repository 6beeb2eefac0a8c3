// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/filepos"
	"github.com/dtoverlay/ovmerge/pkg/files"
)

// directiveKeywords are the fixed "/xxx/" tokens recognized inline by the
// generic scanner (spec §4.1), longest first so the scan is unambiguous.
var directiveKeywords = []string{
	"/delete-property/",
	"/delete-node/",
	"/memreserve/",
	"/plugin/",
	"/dts-v1/",
	"/bits/",
}

var (
	includeLineRe = regexp.MustCompile(`^(#include|/include/)\s+(?:"([^"]*)"|<([^>]*)>)\s*$`)
	ifLineRe      = regexp.MustCompile(`^#\s*(if|ifdef)\b`)
	endifLineRe   = regexp.MustCompile(`^#\s*endif\b`)
	negLiteralRe  = regexp.MustCompile(`^\(-\d+\)`)
	nameClassRe   = regexp.MustCompile(`^[A-Za-z0-9,._+#@-]+`)
)

// Tokenize reads path through opener, producing the flat token stream
// described in spec §4.1, inlining /include/-ed .dts/.dtsi files depth
// first and recording but not descending into header (.h) includes.
func Tokenize(path string, opener files.Opener) ([]dts.Token, error) {
	return tokenizeFile(path, opener, map[string]bool{})
}

func tokenizeFile(path string, opener files.Opener, active map[string]bool) ([]dts.Token, error) {
	src, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	raw, err := src.Bytes()
	if err != nil {
		return nil, fmt.Errorf("reading '%s': %s", path, err)
	}

	out := []dts.Token{dts.NewFileMarker(path, filepos.NewUnknownPositionInFile(path))}

	lines := strings.Split(string(raw), "\n")
	inComment := false
	ifDepth := 0

	for i, rawLine := range lines {
		lineNo := i + 1
		pos := filepos.NewPositionInFile(lineNo, path)
		line := rawLine

		if inComment {
			idx := strings.Index(line, "*/")
			if idx < 0 {
				continue
			}
			inComment = false
			line = line[idx+2:]
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if ifDepth > 0 {
			switch {
			case ifLineRe.MatchString(trimmed):
				ifDepth++
			case endifLineRe.MatchString(trimmed):
				ifDepth--
			}
			continue
		}

		if m := includeLineRe.FindStringSubmatch(trimmed); m != nil {
			quoted, inlined, err := tokenizeInclude(m, path, opener, active)
			if err != nil {
				return nil, err
			}
			if inlined != nil {
				out = append(out, inlined...)
				out = append(out, dts.NewFileMarker(path, pos))
			} else {
				out = append(out, dts.NewToken(dts.TokDirective, "#include", pos))
				out = append(out, dts.NewToken(dts.TokString, quoted, pos))
			}
			continue
		}

		if ifLineRe.MatchString(trimmed) {
			ifDepth++
			continue
		}
		if endifLineRe.MatchString(trimmed) {
			ifDepth--
			continue
		}
		if trimmed[0] == '#' {
			return nil, fmt.Errorf("%s: unrecognized directive '%s'", pos.AsCompactString(), trimmed)
		}

		toks, rest, err := scanLine(line, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, toks...)
		if rest {
			inComment = true
		}
	}

	return out, nil
}

// tokenizeInclude resolves one #include/ /include/ line. It returns either
// the literal quoted form (for header includes, which are not descended
// into) or the fully tokenized, spliceable content of a .dts/.dtsi include.
func tokenizeInclude(m []string, curFile string, opener files.Opener, active map[string]bool) (quoted string, inlined []dts.Token, err error) {
	directive, dq, aq := m[1], m[2], m[3]
	target := dq
	quoted = fmt.Sprintf("%q", dq)
	if aq != "" {
		target = aq
		quoted = "<" + aq + ">"
	}
	_ = directive

	switch {
	case strings.Contains(target, ".h"):
		return quoted, nil, nil
	case strings.Contains(target, ".dtsi") || strings.Contains(target, ".dts"):
		if !opener.Exists(target) {
			return "", nil, fmt.Errorf("including '%s' from '%s': no such file", target, curFile)
		}
		if active[target] {
			return "", nil, fmt.Errorf("circular include of '%s' from '%s'", target, curFile)
		}
		active[target] = true
		defer delete(active, target)
		toks, err := tokenizeFile(target, opener, active)
		if err != nil {
			return "", nil, fmt.Errorf("including '%s' from '%s': %s", target, curFile, err)
		}
		return "", toks, nil
	default:
		return "", nil, fmt.Errorf("cannot include '%s': not a header or dts/dtsi file", target)
	}
}

// scanLine runs the longest-match token scan described in spec §4.1 over a
// single (non-directive) source line. The returned bool reports whether
// the line ended inside an unterminated "/*" comment.
func scanLine(line string, pos *filepos.Position) ([]dts.Token, bool, error) {
	var out []dts.Token
	i := 0
	n := len(line)

	for i < n {
		if line[i] == ' ' || line[i] == '\t' || line[i] == '\r' {
			i++
			continue
		}

		rest := line[i:]

		if strings.HasPrefix(rest, "/*") {
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return out, true, nil
			}
			i += 2 + end + 2
			continue
		}
		if strings.HasPrefix(rest, "//") {
			break
		}

		if kw, ok := matchDirectiveKeyword(rest); ok {
			out = append(out, dts.NewToken(dts.TokDirective, kw, pos))
			i += len(kw)
			continue
		}

		if line[i] == '&' {
			m := nameClassRe.FindString(rest[1:])
			if m == "" {
				return out, false, fmt.Errorf("%s: malformed label reference at '%s'", pos.AsCompactString(), rest)
			}
			out = append(out, dts.NewToken(dts.TokLabelRef, "&"+m, pos))
			i += 1 + len(m)
			continue
		}

		if m := negLiteralRe.FindString(rest); m != "" {
			out = append(out, dts.NewToken(dts.TokLiteral, m, pos))
			i += len(m)
			continue
		}

		if line[i] == '"' || line[i] == '\'' {
			lit, width, err := scanQuoted(rest)
			if err != nil {
				return out, false, fmt.Errorf("%s: %s", pos.AsCompactString(), err)
			}
			out = append(out, dts.NewToken(dts.TokString, lit, pos))
			i += width
			continue
		}

		if m := nameClassRe.FindString(rest); m != "" {
			if i+len(m) < n && line[i+len(m)] == ':' {
				out = append(out, dts.NewToken(dts.TokLabelDecl, m, pos))
				i += len(m) + 1
				continue
			}
			out = append(out, dts.NewToken(dts.TokLiteral, m, pos))
			i += len(m)
			continue
		}

		if strings.ContainsRune("{};=<>,[]/", rune(line[i])) {
			out = append(out, dts.NewToken(dts.TokPunct, string(line[i]), pos))
			i++
			continue
		}

		return out, false, fmt.Errorf("%s: unrecognized token residue '%s'", pos.AsCompactString(), rest)
	}

	return out, false, nil
}

func matchDirectiveKeyword(s string) (string, bool) {
	for _, kw := range directiveKeywords {
		if strings.HasPrefix(s, kw) {
			return kw, true
		}
	}
	return "", false
}

// scanQuoted consumes a '...'/"..." literal (with backslash escapes),
// returning its unescaped content and the width (including quotes)
// consumed from the input.
func scanQuoted(s string) (string, int, error) {
	quote := s[0]
	var sb strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == quote {
			return sb.String(), i + 1, nil
		}
		if c == '\\' && i+1 < len(s) {
			sb.WriteByte(s[i+1])
			i += 2
			continue
		}
		sb.WriteByte(c)
		i++
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}
