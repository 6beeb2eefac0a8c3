// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package ui implements the diagnostic surface used by pkg/cmd/merge: plain
// stderr text, with warnings and trace lines colorized when stderr is a
// terminal.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// UI is the diagnostic sink the merge orchestrator writes through, covering
// spec §7's "Warnings (only with -w)" output and -t parser tracing.
type UI interface {
	Warnf(str string, args ...interface{})
	Tracef(str string, args ...interface{})
	TraceWriter() io.Writer
}

// TTY writes warnings and trace output to stderr, colorizing them when
// stderr is attached to a terminal.
type TTY struct {
	trace  bool
	warn   bool
	stderr io.Writer
	color  bool
}

var _ UI = TTY{}

// NewTTY builds a UI for the given -w/-t flag settings, auto-detecting
// whether stderr supports color.
func NewTTY(warn, trace bool) TTY {
	return TTY{
		trace:  trace,
		warn:   warn,
		stderr: os.Stderr,
		color:  isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
	}
}

// NewCustomWriterTTY is used by tests that need to capture stderr output.
func NewCustomWriterTTY(warn, trace bool, stderr io.Writer) TTY {
	if stderr == nil {
		stderr = os.Stderr
	}
	return TTY{trace: trace, warn: warn, stderr: stderr}
}

func (t TTY) Warnf(str string, args ...interface{}) {
	if !t.warn {
		return
	}
	msg := fmt.Sprintf(str, args...)
	if t.color {
		msg = color.YellowString(msg)
	}
	fmt.Fprintln(t.stderr, msg)
}

func (t TTY) Tracef(str string, args ...interface{}) {
	if !t.trace {
		return
	}
	msg := fmt.Sprintf(str, args...)
	if t.color {
		msg = color.CyanString(msg)
	}
	fmt.Fprintln(t.stderr, msg)
}

func (t TTY) TraceWriter() io.Writer {
	if t.trace {
		return t.stderr
	}
	return noopWriter{}
}

type noopWriter struct{}

var _ io.Writer = noopWriter{}

func (w noopWriter) Write(data []byte) (int, error) { return len(data), nil }
