// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
)

// StringDefaultPrecision is the precision used by Tensor.String.
const StringDefaultPrecision = 4

// summaryMaxItems is the number of rows or columns above which Summary elides the middle ones.
const summaryMaxItems = 6

// String implements fmt.Stringer. See Summary.
func (t *Tensor) String() string {
	return t.Summary(StringDefaultPrecision)
}

// Summary returns a multi-line summary of the Tensor's content, one row per key of all axes but
// the last, labeled by its indices. Rows and columns beyond 6 are elided with "...".
// Inspired by numpy output.
//
// Example for a tensor with shape (bar[2], foo[3]):
//
//	(bar[2], foo[3]): {
//	  bar(0): {1, 2, 3},
//	  bar(1): {2, 4, 6}}
func (t *Tensor) Summary(precision int) string {
	if t.IsScalar() {
		return fmt.Sprintf("%.*g", precision, t.getOrDefault(""))
	}
	var buf bytes.Buffer
	w := func(format string, args ...any) { _, _ = fmt.Fprintf(&buf, format, args...) }

	extents := t.shape.Extents()
	last := extents[len(extents)-1]
	outer := shapes.Make(extents[:len(extents)-1]...)

	writeRow := func(rowIndices []axes.Index) {
		w("{")
		columns := last.Range()
		for ii, idx := range columns {
			if len(columns) > summaryMaxItems && ii >= 3 && ii < len(columns)-3 {
				if ii == 3 {
					w(", ...")
				}
				continue
			}
			if ii > 0 {
				w(", ")
			}
			w("%.*g", precision, t.getOrDefault(shapes.MakeKey(append(slices.Clone(rowIndices), idx)...)))
		}
		w("}")
	}

	w("%s: ", t.shape)
	if outer.IsScalar() {
		writeRow(nil)
		return buf.String()
	}
	w("{")
	numRows := outer.Size()
	row := 0
	for _, rowIndices := range outer.Keys() {
		if numRows > summaryMaxItems && row >= 3 && row < numRows-3 {
			if row == 3 {
				w(",\n  ...")
			}
			row++
			continue
		}
		if row > 0 {
			w(",")
		}
		labels := make([]string, len(rowIndices))
		for ii, idx := range rowIndices {
			labels[ii] = idx.String()
		}
		w("\n  %s: ", strings.Join(labels, ","))
		writeRow(rowIndices)
		row++
	}
	w("}")
	return buf.String()
}
