// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/support/xslices"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
)

// NewPlainTable returns a table with alternating row styles. The alignments are given per column,
// and the last one is used for the remaining columns.
func NewPlainTable(withHeader bool, alignments ...lipgloss.Position) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if withHeader && row < 0 {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = oddRowStyle
			} else {
				s = evenRowStyle
			}
			alignment := lipgloss.Left
			if col < len(alignments) {
				alignment = alignments[col]
			} else if len(alignments) > 0 {
				alignment = alignments[len(alignments)-1]
			}
			return s.Align(alignment)
		})
}

// TensorTable renders the tensor as a table: the last axis indexes the columns, and there is one row
// per combination of indices of the other axes, labeled by them. Values are printed with the given precision.
func TensorTable(t *tensors.Tensor, precision int) *lgtable.Table {
	table := NewPlainTable(true, lipgloss.Left, lipgloss.Right)
	format := func(v float64) string { return fmt.Sprintf("%.*g", precision, v) }
	if t.IsScalar() {
		table.Headers("value")
		table.Row(format(t.Value()))
		return table
	}

	extents := t.Shape().Extents()
	last := xslices.Last(extents)
	outer := shapes.Make(extents[:len(extents)-1]...)
	outerNames := xslices.Map(outer.Kinds(), axes.Kind.Name)
	headers := []string{strings.Join(outerNames, ",")}
	headers = append(headers, xslices.Map(last.Range(), axes.Index.String)...)
	table.Headers(headers...)

	for _, rowIndices := range outer.Keys() {
		row := []string{strings.Join(xslices.Map(rowIndices, axes.Index.String), ",")}
		rowTensor := t.Get(rowIndices...)
		row = append(row, xslices.Map(rowTensor.Values(), format)...)
		table.Row(row...)
	}
	return table
}
