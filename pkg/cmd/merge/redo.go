// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var redoLineRe = regexp.MustCompile(`^// redo: ovmerge (.*)$`)

// ReadRedoArgs implements spec §6's -r: the first line of r must read
// "// redo: ovmerge <args>"; the captured <args> are split back into an
// argv, reversing FormatRedoComment's single-quote quoting.
func ReadRedoArgs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("-r: reading stdin: %s", err)
		}
		return nil, fmt.Errorf("-r: stdin is empty")
	}
	m := redoLineRe.FindStringSubmatch(scanner.Text())
	if m == nil {
		return nil, fmt.Errorf("-r: stdin's first line does not match '// redo: ovmerge ...'")
	}
	return splitRedoArgs(m[1]), nil
}

func splitRedoArgs(s string) []string {
	var out []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == ' ' && !inQuote:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// FormatRedoComment builds the "// redo: ovmerge ..." line spec §6's -c
// prepends, single-quoting any argument containing whitespace.
func FormatRedoComment(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			parts[i] = "'" + a + "'"
		} else {
			parts[i] = a
		}
	}
	return "// redo: ovmerge " + strings.Join(parts, " ")
}

// HasRedoFlag reports whether -r/--redo appears in argv, so the caller can
// perform the stdin-argv swap before cobra's normal flag parsing runs.
func HasRedoFlag(argv []string) bool {
	for _, a := range argv {
		if a == "-r" || a == "--redo" {
			return true
		}
		if a == "--" {
			return false
		}
	}
	return false
}
