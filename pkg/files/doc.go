// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides the file-opening abstraction used by the tokenizer.

An Opener turns a path into a Source of bytes without the rest of the
codebase knowing whether the bytes came from the local filesystem or from a
particular branch of a git repository. This mirrors the ytt pkg/files
Source interface, narrowed to just what the DTS tokenizer needs: reading one
named file and probing whether an include target exists.
*/
package files
