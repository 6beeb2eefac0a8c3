// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

// Package cmd wires the ovmerge cobra command: a single flat command
// taking one or more ovspecs, per spec §6.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dtoverlay/ovmerge/pkg/cmd/merge"
	"github.com/dtoverlay/ovmerge/pkg/version"
)

type OvmergeOptions struct {
	Merge *merge.Options
}

func NewDefaultOvmergeOptions() *OvmergeOptions {
	return &OvmergeOptions{Merge: merge.NewOptions()}
}

// NewDefaultOvmergeCmd builds the root command with its default options.
func NewDefaultOvmergeCmd() *cobra.Command {
	return NewOvmergeCmd(NewDefaultOvmergeOptions())
}

func NewOvmergeCmd(o *OvmergeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ovmerge NAME[,PARAM[=VAL]]... [NAME...]",
		Short:   "ovmerge parses, merges, and emits device-tree overlays",
		Version: version.Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return o.Merge.Run(args, os.Stdout)
		},
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.DisableAutoGenTag = true

	o.Merge.BindFlags(cmd)

	return cmd
}
