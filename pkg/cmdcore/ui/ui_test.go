// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package ui_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtoverlay/ovmerge/pkg/cmdcore/ui"
)

func TestWarnfRespectsFlag(t *testing.T) {
	var buf bytes.Buffer
	u := ui.NewCustomWriterTTY(false, false, &buf)
	u.Warnf("uh oh %d", 1)
	assert.Empty(t, buf.String())

	buf.Reset()
	u = ui.NewCustomWriterTTY(true, false, &buf)
	u.Warnf("uh oh %d", 1)
	assert.Equal(t, "uh oh 1\n", buf.String())
}

func TestTracefRespectsFlag(t *testing.T) {
	var buf bytes.Buffer
	u := ui.NewCustomWriterTTY(false, false, &buf)
	u.Tracef("step %s", "a")
	assert.Empty(t, buf.String())

	buf.Reset()
	u = ui.NewCustomWriterTTY(false, true, &buf)
	u.Tracef("step %s", "a")
	assert.Equal(t, "step a\n", buf.String())
}

func TestTraceWriterIsNoopWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	u := ui.NewCustomWriterTTY(false, false, &buf)
	n, err := u.TraceWriter().Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Empty(t, buf.String())
}

func TestTraceWriterWritesToStderrWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	u := ui.NewCustomWriterTTY(false, true, &buf)
	_, err := u.TraceWriter().Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}
