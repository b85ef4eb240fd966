// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productTensor() *tensors.Tensor {
	kinds := axes.NewRegistry().Setup("foo", "bar")
	foo, bar := kinds[0], kinds[1]
	return tensors.FromFunc(shapes.Make(foo.Of(2), bar.Of(3)), func(indices []axes.Index) float64 {
		return float64((indices[0].Value() + 1) * (indices[1].Value() + 1))
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("LaTeX")
	require.NoError(t, err)
	assert.Equal(t, FormatLatex, f)
	_, err = ParseFormat("html")
	require.Error(t, err)
}

func TestFprint(t *testing.T) {
	x := productTensor()
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, FormatText, "A", x))
	assert.Equal(t, "A:\n"+x.String()+"\n\n", buf.String())

	buf.Reset()
	require.NoError(t, Fprint(&buf, FormatLatex, "A", x))
	assert.True(t, strings.HasPrefix(buf.String(), "A:\n$$\\mathsf{bar}"), "got %q", buf.String())

	buf.Reset()
	require.Error(t, Fprint(&buf, Format("html"), "A", x))
}

func TestTensorTable(t *testing.T) {
	// Axes are sorted: bar indexes the rows, foo the columns.
	rendered := TensorTable(productTensor(), 4).String()
	for _, want := range []string{"bar", "foo(0)", "foo(1)", "bar(0)", "bar(2)", "6"} {
		assert.Contains(t, rendered, want)
	}
	assert.NotContains(t, rendered, "bar(3)")

	scalar := TensorTable(tensors.FromScalar(3.5), 4).String()
	assert.Contains(t, scalar, "value")
	assert.Contains(t, scalar, "3.5")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50ms", FormatDuration(1500*time.Microsecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "1m30s", FormatDuration(90*time.Second))
	assert.Equal(t, 2*time.Second, MedianDuration([]time.Duration{3 * time.Second, time.Second, 2 * time.Second}))
	assert.Equal(t, time.Duration(0), MedianDuration(nil))
}

func TestProgressBarInNotebook(t *testing.T) {
	var buf bytes.Buffer
	pBar := newProgressBar(&buf, nil, 10, "runs")
	for range 10 {
		pBar.Add(1)
	}
	pBar.Done()
	assert.Equal(t, 10, pBar.stepsDone)
	assert.Equal(t, 0, pBar.pending)
	assert.NotEmpty(t, buf.String())
}

func TestProgressBarStepsLabel(t *testing.T) {
	var buf bytes.Buffer
	pBar := newProgressBar(&buf, nil, 1234567, "runs")
	pBar.Add(12)
	pBar.Done()
	assert.Equal(t, "12 of 1,234,567", pBar.stepsLabel())
}
