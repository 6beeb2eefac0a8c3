// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/dts"
)

func TestParseBooleanValueSynonyms(t *testing.T) {
	truthy := []string{"", "y", "Yes", "ON", "true", "okay"}
	for _, v := range truthy {
		b, err := dts.ParseBooleanValue(v)
		require.NoError(t, err, v)
		assert.True(t, b, v)
	}

	falsy := []string{"n", "No", "OFF", "false", "disabled"}
	for _, v := range falsy {
		b, err := dts.ParseBooleanValue(v)
		require.NoError(t, err, v)
		assert.False(t, b, v)
	}
}

func TestParseBooleanValueFallsBackToInteger(t *testing.T) {
	b, err := dts.ParseBooleanValue("0")
	require.NoError(t, err)
	assert.False(t, b)

	b, err = dts.ParseBooleanValue("0x2")
	require.NoError(t, err)
	assert.True(t, b)
}

func TestParseBooleanValueRejectsGarbage(t *testing.T) {
	_, err := dts.ParseBooleanValue("not-a-bool")
	assert.Error(t, err)
}

func TestWidthMask(t *testing.T) {
	assert.Equal(t, uint64(0xff), dts.WidthMask(1))
	assert.Equal(t, uint64(0xffff), dts.WidthMask(2))
	assert.Equal(t, uint64(0xffffffff), dts.WidthMask(4))
	assert.Equal(t, uint64(0xffffffffffffffff), dts.WidthMask(8))
}

func TestParseUintLiteral(t *testing.T) {
	n, err := dts.ParseUintLiteral("0x1a")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1a), n)

	n, err = dts.ParseUintLiteral("26")
	require.NoError(t, err)
	assert.Equal(t, uint64(26), n)
}
