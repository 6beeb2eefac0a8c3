// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge

import (
	"github.com/spf13/cobra"
)

// Options binds every flag spec §6 lists for the flat "ovmerge ovspecs..."
// command.
type Options struct {
	Branch       string
	Comment      bool
	IncludesOnly bool
	PiExtras     bool
	Redo         bool
	Sorted       bool
	Trace        bool
	Warn         bool
}

func NewOptions() *Options {
	return &Options{}
}

func (o *Options) BindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Branch, "branch", "b", "", "Read sources via 'git show BRANCH:./PATH' instead of the local filesystem")
	cmd.Flags().BoolVarP(&o.Comment, "comment", "c", false, "Prepend a '// redo: ovmerge ...' reproducibility comment to the output")
	cmd.Flags().BoolVarP(&o.IncludesOnly, "includes", "i", false, "Print the include hierarchy and exit")
	cmd.Flags().BoolVarP(&o.PiExtras, "pi-extras", "p", false, "Enable Raspberry Pi i2c alias extras on the base tree")
	cmd.Flags().BoolVarP(&o.Redo, "redo", "r", false, "Replace argv with the '// redo: ovmerge ...' line read from stdin")
	cmd.Flags().BoolVarP(&o.Sorted, "sorted", "s", false, "Sort children, properties, and labels on emission")
	cmd.Flags().BoolVarP(&o.Trace, "trace", "t", false, "Trace parsing to stderr")
	cmd.Flags().BoolVarP(&o.Warn, "warnings", "w", false, "Emit warnings to stderr")
}
