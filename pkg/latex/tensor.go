// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package latex renders named-axes tensors and function definitions as LaTeX math, for display in
// notebooks or documents.
//
// Axis names are rendered in sans-serif (\mathsf), and the type of a tensor with axes foo and bar is
// written as \mathbb{R}^{\mathsf{bar}\times\mathsf{foo}}.
package latex

import (
	"strconv"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/support/xslices"
)

// Name renders an axis name.
func Name(name string) string {
	return `\mathsf{` + name + `}`
}

// Type renders the type of a tensor with the given axes, e.g. \mathbb{R}^{\mathsf{bar}\times\mathsf{foo}}.
// The type of a scalar is \mathbb{R}.
func Type(kinds ...axes.Kind) string {
	if len(kinds) == 0 {
		return `\mathbb{R}`
	}
	names := xslices.Map(kinds, func(k axes.Kind) string { return Name(k.Name()) })
	return `\mathbb{R}^{` + strings.Join(names, `\times`) + `}`
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Tensor renders the tensor in display math.
//
// Scalars are rendered inline with their type. Tensors with 1 or 2 axes are rendered as a row
// vector or a matrix, labeled with their axes names (the first axis indexes the rows).
// Tensors with more axes are rendered only by their type.
func Tensor(t *tensors.Tensor) string {
	kinds := t.Axes()
	typeStr := Type(kinds...)
	var sb strings.Builder
	switch len(kinds) {
	case 0:
		return "$" + formatValue(t.Value()) + `\in\mathbb{R}$`

	case 1:
		sb.WriteString(`$$\begin{array}{c}`)
		sb.WriteString(typeStr)
		sb.WriteString(`\\ `)
		sb.WriteString(Name(kinds[0].Name()))
		sb.WriteString(` \\ \begin{bmatrix}`)
		sb.WriteString(strings.Join(xslices.Map(t.Values(), formatValue), " & "))
		sb.WriteString(`\end{bmatrix}\end{array}$$`)

	case 2:
		rows, columns := kinds[0], kinds[1]
		sb.WriteString(`$$`)
		sb.WriteString(Name(rows.Name()))
		sb.WriteString(`\begin{array}{c}`)
		sb.WriteString(typeStr)
		sb.WriteString(`\\ `)
		sb.WriteString(Name(columns.Name()))
		sb.WriteString(` \\ \begin{bmatrix}`)
		for ii, i := range t.Range(rows) {
			if ii > 0 {
				sb.WriteString(`\\`)
			}
			values := make([]string, 0, t.Slice(columns).Size())
			for _, j := range t.Range(columns) {
				values = append(values, formatValue(t.At(i, j)))
			}
			sb.WriteString(strings.Join(values, " & "))
		}
		sb.WriteString(` \end{bmatrix}\end{array}$$`)

	default:
		sb.WriteString("$$")
		sb.WriteString(typeStr)
		sb.WriteString("$$")
	}
	return sb.String()
}
