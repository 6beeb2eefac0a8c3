// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"github.com/dtoverlay/ovmerge/pkg/cmd"
	"github.com/dtoverlay/ovmerge/pkg/cmd/merge"
)

func main() {
	args := os.Args[1:]

	for _, a := range args {
		if a == "-h" || a == "--help" {
			command := cmd.NewDefaultOvmergeCmd()
			command.SetArgs([]string{"--help"})
			command.Execute()
			// spec §6: "-h (usage + exit 1)", unlike cobra's default exit 0.
			os.Exit(1)
		}
	}

	if merge.HasRedoFlag(args) {
		redoArgs, err := merge.ReadRedoArgs(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ovmerge: Error: %s\n", uierrs.NewMultiLineError(err))
			os.Exit(1)
		}
		args = redoArgs
	}

	command := cmd.NewDefaultOvmergeCmd()
	command.SetArgs(args)

	if err := command.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ovmerge: Error: %s\n", uierrs.NewMultiLineError(err))
		os.Exit(1)
	}
}
