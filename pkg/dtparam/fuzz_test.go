// Copyright 2026 The ovmerge Authors.
// SPDX-License-Identifier: Apache-2.0

package dtparam_test

import (
	"fmt"
	"math/rand"
	"strconv"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/dtoverlay/ovmerge/pkg/dts"
	"github.com/dtoverlay/ovmerge/pkg/dtparam"
)

// TestResolveTermFuzzedIntegersRoundTripThroughTheirWidthMask exercises the
// invariant behind ResolveTerm's masking step: resolving a decimal literal
// at width W always yields a literal equal to (n & WidthMask(W)), and
// re-resolving that literal at the same width is idempotent.
func TestResolveTermFuzzedIntegersRoundTripThroughTheirWidthMask(t *testing.T) {
	randSource := rand.NewSource(1)
	widths := []int{1, 2, 4, 8}

	fuzzUint32 := fuzz.New().RandSource(randSource).Funcs(func(n *uint32, c fuzz.Continue) {
		*n = c.Uint32()
	})

	for i := 0; i < 200; i++ {
		var n uint32
		fuzzUint32.Fuzz(&n)
		width := widths[i%len(widths)]

		term, err := dtparam.ResolveTerm(strconv.FormatUint(uint64(n), 10), width)
		require.NoError(t, err)

		want := fmt.Sprintf("0x%x", uint64(n)&dts.WidthMask(width))
		require.Equal(t, want, term.Literal)

		// Re-resolving the literal at the same width must not change it.
		again, err := dtparam.ResolveTerm(term.Literal, width)
		require.NoError(t, err)
		require.Equal(t, term.Literal, again.Literal)
	}
}
