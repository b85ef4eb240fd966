// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"slices"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/support/sets"
	"github.com/pkg/errors"
)

// bind validates the indices used to index the tensor and returns them sorted.
//
// It panics if an index refers to an axis not in the tensor (ErrUnknownAxis), if an axis is
// repeated (ErrShapeMismatch) or if an index is out of its axis extent (ErrInvalidIndex).
func (t *Tensor) bind(method string, indices []axes.Index) []axes.Index {
	for _, idx := range indices {
		e, found := t.shape.Extent(idx.Kind())
		if !found {
			panic(errors.Wrapf(ErrUnknownAxis, "Tensor.%s(%v): axis %q not in tensor of shape %s",
				method, indices, idx.Kind(), t.shape))
		}
		if !e.Contains(idx) {
			panic(errors.Wrapf(ErrInvalidIndex, "Tensor.%s(%v): index %s out of extent %s",
				method, indices, idx, e))
		}
	}
	return shapes.SortIndices(indices)
}

// Get returns the sub-tensor at the given indices, which can be given in any order.
//
// If the indices bind all the axes of the tensor, it returns a scalar tensor with the value at
// that key. Otherwise, it returns a new tensor over the remaining (unbound) axes: partial
// indexing lowers the rank of the tensor.
//
// A scalar tensor ignores the indices and always returns (a copy of) itself.
//
// It panics with an error wrapping ErrUnknownAxis if an index refers to an axis that is not in
// the tensor, or ErrInvalidIndex if an index is out of its axis extent.
func (t *Tensor) Get(indices ...axes.Index) *Tensor {
	if t.IsScalar() {
		return FromScalar(t.getOrDefault(""))
	}
	bound := t.bind("Get", indices)
	if len(bound) == t.Rank() {
		return FromScalar(t.getOrDefault(shapes.MakeKey(bound...)))
	}
	remaining := t.shape.Without(kindsOf(bound)...)
	result := Zeros(remaining)
	for key, inner := range remaining.Keys() {
		if value, found := t.data[shapes.MakeKey(slices.Concat(bound, inner)...)]; found {
			result.data[key] = value
		}
	}
	return result
}

// At returns the value at the given indices, which can be given in any order and must bind all
// the axes of the tensor.
//
// A scalar tensor ignores the indices and always returns its value.
//
// It panics with an error wrapping ErrShapeMismatch if not all axes are bound, and see Get
// for the other errors.
func (t *Tensor) At(indices ...axes.Index) float64 {
	if t.IsScalar() {
		return t.getOrDefault("")
	}
	bound := t.bind("At", indices)
	if len(bound) != t.Rank() {
		panic(errors.Wrapf(ErrShapeMismatch, "Tensor.At(%v): all axes of shape %s must be indexed, use Get for partial indexing",
			indices, t.shape))
	}
	return t.getOrDefault(shapes.MakeKey(bound...))
}

// Set the value at the given indices, which can be given in any order and must bind all the axes
// of the tensor. A scalar is set with no indices.
//
// It panics with an error wrapping ErrShapeMismatch if not all axes are bound, ErrUnknownAxis if
// an index refers to an axis that is not in the tensor, or ErrInvalidIndex if an index is out of
// its axis extent.
func (t *Tensor) Set(value float64, indices ...axes.Index) {
	bound := t.bind("Set", indices)
	if len(bound) != t.Rank() {
		panic(errors.Wrapf(ErrShapeMismatch, "Tensor.Set(%g, %v): all axes of shape %s must be indexed, use SetTensor to place a sub-tensor",
			value, indices, t.shape))
	}
	t.data[shapes.MakeKey(bound...)] = value
}

// SetTensor places the values of a sub-tensor at the given indices: each value of the sub-tensor
// is written under the key made of the given indices and the sub-tensor's own indices.
//
// The axes of value must be disjoint from the axes of the given indices, and together they must
// be exactly the axes of the tensor. Otherwise, it panics with an error wrapping ErrShapeMismatch.
// The extents of value can't be larger than the tensor's (ErrInvalidIndex).
// Nothing is changed if it panics.
func (t *Tensor) SetTensor(value *Tensor, indices ...axes.Index) {
	bound := t.bind("SetTensor", indices)
	boundKinds := sets.MakeWith(kindsOf(bound)...)
	valueKinds := value.shape.KindsSet()
	if boundKinds.Intersects(valueKinds) {
		panic(errors.Wrapf(ErrShapeMismatch, "Tensor.SetTensor(%s, %v): value axes overlap with indexed axes",
			value.shape, indices))
	}
	if !boundKinds.Union(valueKinds).Equal(t.shape.KindsSet()) {
		panic(errors.Wrapf(ErrShapeMismatch, "Tensor.SetTensor(%s, %v): indexed axes and value axes don't match the tensor shape %s",
			value.shape, indices, t.shape))
	}
	for _, valueExtent := range value.shape.Extents() {
		e, _ := t.shape.Extent(valueExtent.Kind())
		if valueExtent.Size() > e.Size() {
			panic(errors.Wrapf(ErrInvalidIndex, "Tensor.SetTensor(%s, %v): value extent %s larger than tensor's %s",
				value.shape, indices, valueExtent, e))
		}
	}
	for key, inner := range value.shape.Keys() {
		t.data[shapes.MakeKey(slices.Concat(bound, inner)...)] = value.getOrDefault(key)
	}
}

// lookup returns the value at the key made of the indices that belong to the tensor's axes,
// ignoring the others. Indices out of the tensor's extents read as 0.
//
// It is used to read values aligned by axis name, e.g. for broadcasting.
// The indices must be sorted and with distinct axes.
func (t *Tensor) lookup(indices []axes.Index) float64 {
	if t.IsScalar() {
		return t.getOrDefault("")
	}
	restricted := make([]axes.Index, 0, t.Rank())
	for _, idx := range indices {
		e, found := t.shape.Extent(idx.Kind())
		if !found {
			continue
		}
		if !e.Contains(idx) {
			return 0
		}
		restricted = append(restricted, idx)
	}
	if len(restricted) != t.Rank() {
		panic(errors.Wrapf(ErrShapeMismatch, "key %v doesn't cover all axes of shape %s", indices, t.shape))
	}
	return t.getOrDefault(shapes.MakeKey(restricted...))
}

func kindsOf(indices []axes.Index) []axes.Kind {
	kinds := make([]axes.Kind, len(indices))
	for ii, idx := range indices {
		kinds[ii] = idx.Kind()
	}
	return kinds
}
