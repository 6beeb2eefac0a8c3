// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: an include file name and
a line number within that file, the granularity at which the tokenizer and
parser attribute tokens to source text.

Not every Position has a known line: NewUnknownPositionInFile marks the
point where an /include/ directive is entered, before any line of the
included file has been scanned.
*/
package filepos
