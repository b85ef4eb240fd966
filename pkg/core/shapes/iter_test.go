// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"slices"
	"testing"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/stretchr/testify/require"
)

func TestShape_Keys(t *testing.T) {
	kinds := axes.NewRegistry().Setup("x", "y")
	x, y := kinds[0], kinds[1]

	// Scalar: exactly one empty key.
	var collect []Key
	for key, indices := range Scalar().Keys() {
		require.Empty(t, indices)
		collect = append(collect, key)
	}
	require.Equal(t, []Key{""}, collect)

	// Last axis changes fastest.
	shape := Make(y.Of(2), x.Of(3))
	collect = collect[:0]
	var collectIndices [][]axes.Index
	for key, indices := range shape.Keys() {
		collect = append(collect, key)
		collectIndices = append(collectIndices, slices.Clone(indices))
	}
	require.Equal(t, []Key{
		"x(0),y(0)", "x(0),y(1)",
		"x(1),y(0)", "x(1),y(1)",
		"x(2),y(0)", "x(2),y(1)",
	}, collect)
	require.Len(t, collectIndices, shape.Size())
	require.Equal(t, []axes.Index{x.At(1), y.At(1)}, collectIndices[3])
	for ii, indices := range collectIndices {
		require.Equal(t, collect[ii], MakeKey(indices...))
	}

	// Restartable.
	count := 0
	for range shape.Keys() {
		count++
	}
	require.Equal(t, 6, count)

	// Early termination.
	count = 0
	for range shape.Keys() {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)

	// Zero-sized extent yields nothing.
	count = 0
	for range Make(x.Of(0), y.Of(2)).Keys() {
		count++
	}
	require.Zero(t, count)
}
