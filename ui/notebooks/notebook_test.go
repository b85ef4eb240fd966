// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package notebooks

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/latex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelDetection(t *testing.T) {
	t.Setenv(bashKernelEnv, "")
	assert.True(t, IsBashKernel())
	assert.True(t, IsNotebook())
}

func TestDisplayOutsideNotebook(t *testing.T) {
	kinds := axes.NewRegistry().Setup("seq")
	seq := kinds[0]
	x := tensors.FromFunc(shapes.Make(seq.Of(3)), func(indices []axes.Index) float64 {
		return float64(indices[0].Value())
	})

	var buf bytes.Buffer
	display(&buf, false, x)
	assert.Equal(t, "(seq[3]): {0, 1, 2}\n", buf.String())

	buf.Reset()
	kinds = axes.NewRegistry().Setup("key", "seq", "val")
	decl := latex.AttentionDecl(kinds[0], kinds[1], kinds[2])
	require.NoError(t, displayFunction(&buf, false, decl))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Att(Q: (key), K: (seq, key), V: (seq, val)) -> (val)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `\mathrm{Att}:`))

	decl.Body = "Q +"
	assert.Error(t, displayFunction(&buf, false, decl))
}
