// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package xslices

import (
	"flag"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlices(t *testing.T) {
	assert.Equal(t, 5, Last([]int{1, 3, 5}))
	assert.Equal(t, []string{"1", "2"}, Map([]int{1, 2}, strconv.Itoa))
}

func TestClose(t *testing.T) {
	assert.True(t, Close([]float64{1, 2}, []float64{1.001, 2}, 0.01))
	assert.False(t, Close([]float64{1, 2}, []float64{1.1, 2}, 0.01))
	assert.False(t, Close([]float64{1}, []float64{1, 2}, 0.01))
	assert.True(t, Close([]float64{math.NaN(), math.Inf(1)}, []float64{math.NaN(), math.Inf(1)}, 0))
	assert.False(t, Close([]float32{float32(math.NaN())}, []float32{0}, 1))
}

func TestFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	values := FlagSet(fs, "values", []int{1}, "values", strconv.Atoi)
	require.NoError(t, fs.Parse([]string{"-values=3,5,7"}))
	assert.Equal(t, []int{3, 5, 7}, *values)
	assert.Equal(t, "3,5,7", fs.Lookup("values").Value.String())
	require.Error(t, fs.Parse([]string{"-values=3,x"}))
}
