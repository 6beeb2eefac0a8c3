// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package merge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/cmd/merge"
)

func TestFormatRedoCommentQuotesWhitespace(t *testing.T) {
	line := merge.FormatRedoComment([]string{"base.dts", "overlay,gpiopin=4", "a b"})
	assert.Equal(t, "// redo: ovmerge base.dts overlay,gpiopin=4 'a b'", line)
}

func TestReadRedoArgsRoundTrip(t *testing.T) {
	line := merge.FormatRedoComment([]string{"base.dts", "a b", "c"})
	args, err := merge.ReadRedoArgs(strings.NewReader(line + "\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"base.dts", "a b", "c"}, args)
}

func TestReadRedoArgsRejectsWrongPrefix(t *testing.T) {
	_, err := merge.ReadRedoArgs(strings.NewReader("not a redo line\n"))
	assert.Error(t, err)
}

func TestReadRedoArgsRejectsEmptyStdin(t *testing.T) {
	_, err := merge.ReadRedoArgs(strings.NewReader(""))
	assert.Error(t, err)
}

func TestHasRedoFlag(t *testing.T) {
	assert.True(t, merge.HasRedoFlag([]string{"-r"}))
	assert.True(t, merge.HasRedoFlag([]string{"--redo"}))
	assert.False(t, merge.HasRedoFlag([]string{"base.dts"}))
	assert.False(t, merge.HasRedoFlag([]string{"--", "-r"}))
}
