// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/pkg/errors"
)

// Key is the canonical representation of an unordered tuple of indices, used to address
// elements of a tensor in a map.
//
// Two tuples with the same indices, in any order, have the same Key.
// The format is the sorted indices joined by commas, e.g. "bar(1),foo(0)".
// The empty Key addresses the single value of a scalar.
type Key string

// MakeKey returns the canonical Key for the given indices, in any order.
//
// It panics with an error wrapping ErrShapeMismatch if an axis kind is repeated.
func MakeKey(indices ...axes.Index) Key {
	if len(indices) == 0 {
		return ""
	}
	sorted := SortIndices(indices)
	return keyOfSorted(sorted)
}

// SortIndices returns a sorted copy of indices.
//
// It panics with an error wrapping ErrShapeMismatch if an axis kind is repeated.
func SortIndices(indices []axes.Index) []axes.Index {
	sorted := slices.Clone(indices)
	slices.SortFunc(sorted, axes.Compare)
	for ii := 1; ii < len(sorted); ii++ {
		if sorted[ii-1].Kind() == sorted[ii].Kind() {
			panic(errors.Wrapf(ErrShapeMismatch, "key %v has axis %q more than once",
				indices, sorted[ii].Kind()))
		}
	}
	return sorted
}

// keyOfSorted builds the Key of indices already sorted and with distinct kinds.
func keyOfSorted(sorted []axes.Index) Key {
	var sb strings.Builder
	for ii, idx := range sorted {
		if ii > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(idx.Kind().Name())
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(idx.Value()))
		sb.WriteByte(')')
	}
	return Key(sb.String())
}

// String implements fmt.Stringer.
func (k Key) String() string {
	return "[" + string(k) + "]"
}

// Indices decodes the key back into its sorted indices. The empty Key has no indices.
//
// It panics with an error wrapping axes.ErrInvalidIndex if the key is malformed, which can only
// happen for keys not built with MakeKey.
func (k Key) Indices() []axes.Index {
	if k == "" {
		return nil
	}
	parts := strings.Split(string(k), ",")
	indices := make([]axes.Index, len(parts))
	for ii, part := range parts {
		idx, err := axes.ParseIndex(part)
		if err != nil {
			panic(errors.WithMessagef(err, "malformed key %q", string(k)))
		}
		indices[ii] = idx
	}
	return indices
}
