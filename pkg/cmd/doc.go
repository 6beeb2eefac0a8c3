// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd builds the ovmerge cobra.Command (not to be confused with
./cmd/ovmerge, which contains the binary's bootstrapping).

ovmerge is a single flat command: it takes one or more ovspecs and has no
subcommands.
*/
package cmd
