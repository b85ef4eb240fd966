// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensors implements Tensor, a mapping from named-axes keys to float64 values.
//
// A Tensor is defined by its shape (a set of named axes with their sizes, see package shapes)
// and a sparse storage of values: any key of the shape that was not set holds 0.
// A tensor with the empty shape is a scalar: it holds a single value, and ignores any indices
// it is indexed with.
//
// There are various ways to construct a Tensor:
//
//   - Zeros(shape): a tensor of the given shape with all values 0.
//   - New(shape, entries): a tensor with the given values, keyed by shapes.Key.
//   - FromEntries(shape, entries...): a tensor with the given values, each keyed by its indices in any order.
//   - FromFunc(shape, fn): a tensor whose values are computed from the indices of each key.
//   - FromScalar(value): a scalar tensor.
//
// Tensors are immutable by convention: all operations return new tensors. The exceptions are
// Set and SetTensor, meant to fill in a tensor before it is used elsewhere.
//
// Indexing by name:
//
//	A := tensors.FromFunc(shapes.Make(foo.Of(4), bar.Of(5)), func(idx []axes.Index) float64 {...})
//	A.At(bar.At(3), foo.At(2)) // float64 value: key order is irrelevant.
//	A.Get(foo.At(2))           // Tensor with shape (bar[5]): partial indexing lowers the rank.
//
// Arithmetic aligns axes by name: the result of A.Add(B) has the union of the axes of A and B,
// and the values of each operand are reused (broadcast) over the axes it doesn't have.
//
// Errors are reported by panicking with an error that wraps one of ErrUnknownAxis,
// ErrShapeMismatch or ErrInvalidIndex. Use exceptions.TryCatch[error] to convert them to
// errors, and errors.Is to check their kind.
package tensors

import (
	"iter"
	"maps"
	"slices"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/support/xslices"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownAxis is wrapped by errors raised when a key or a slice references an axis that is
	// not part of the tensor's shape.
	ErrUnknownAxis = errors.New("unknown axis")

	// ErrShapeMismatch is wrapped by errors raised when a value can't be placed in the tensor's shape.
	// It is the same as shapes.ErrShapeMismatch.
	ErrShapeMismatch = shapes.ErrShapeMismatch

	// ErrInvalidIndex is wrapped by errors raised when indices are outside the tensor's extents.
	// It is the same as axes.ErrInvalidIndex.
	ErrInvalidIndex = axes.ErrInvalidIndex
)

// Tensor maps keys (one index per named axis of its shape) to float64 values.
// Keys not set explicitly hold 0.
type Tensor struct {
	shape shapes.Shape

	// data holds the values set explicitly: it is accessed through getOrDefault.
	data map[shapes.Key]float64
}

// Entry is a value with its indices, in any order. See FromEntries.
type Entry struct {
	Indices []axes.Index
	Value   float64
}

// Zeros returns a Tensor of the given shape with all values set to 0.
func Zeros(shape shapes.Shape) *Tensor {
	return &Tensor{shape: shape, data: make(map[shapes.Key]float64)}
}

// New creates a Tensor with the given shape and entries. Entries not given are 0.
//
// Keys are normalized, so the indices in a key built by hand can be in any order. It panics with an
// error wrapping ErrShapeMismatch if the axes of a key are not exactly the axes of the shape, and
// with an error wrapping ErrInvalidIndex if an index is beyond its extent or the key is malformed.
func New(shape shapes.Shape, entries map[shapes.Key]float64) *Tensor {
	t := Zeros(shape)
	kinds := shape.Kinds()
	for key, value := range entries {
		indices := shapes.SortIndices(key.Indices())
		if !slices.Equal(kindsOf(indices), kinds) {
			panic(errors.Wrapf(ErrShapeMismatch, "tensors.New(): key %s doesn't match the axes of shape %s", key, shape))
		}
		for _, idx := range indices {
			if !shape.Contains(idx) {
				panic(errors.Wrapf(ErrInvalidIndex, "tensors.New(): index %s of key %s is out of shape %s", idx, key, shape))
			}
		}
		t.data[shapes.MakeKey(indices...)] = value
	}
	return t
}

// FromEntries creates a Tensor with the given shape and entries. Entries not given are 0.
// The indices of each entry can be given in any order.
//
// See Set for errors.
func FromEntries(shape shapes.Shape, entries ...Entry) *Tensor {
	t := Zeros(shape)
	for _, entry := range entries {
		t.Set(entry.Value, entry.Indices...)
	}
	return t
}

// FromFunc creates a Tensor of the given shape, with the values returned by fn for each key.
// The indices passed to fn are sorted by axis name, and are only valid during the call.
func FromFunc(shape shapes.Shape, fn func(indices []axes.Index) float64) *Tensor {
	t := Zeros(shape)
	for key, indices := range shape.Keys() {
		t.data[key] = fn(indices)
	}
	return t
}

// FromScalar creates a scalar Tensor, with the empty shape, holding value.
func FromScalar(value float64) *Tensor {
	t := Zeros(shapes.Scalar())
	t.data[""] = value
	return t
}

// Shape of the tensor.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// Axes returns the sorted axes kinds of the tensor.
func (t *Tensor) Axes() []axes.Kind { return t.shape.Kinds() }

// Rank returns the number of axes of the tensor.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size returns the number of values spanned by the tensor's shape.
func (t *Tensor) Size() int { return t.shape.Size() }

// IsScalar returns whether the tensor has no axes.
func (t *Tensor) IsScalar() bool { return t.shape.IsScalar() }

// Value returns the value of a scalar tensor.
//
// It panics with an error wrapping ErrShapeMismatch if the tensor is not a scalar.
func (t *Tensor) Value() float64 {
	if !t.IsScalar() {
		panic(errors.Wrapf(ErrShapeMismatch, "Tensor.Value() called on non-scalar tensor of shape %s", t.shape))
	}
	return t.getOrDefault("")
}

// Slice returns the extent of the given axis.
//
// It panics with an error wrapping ErrUnknownAxis if the tensor doesn't have the axis.
func (t *Tensor) Slice(kind axes.Kind) axes.Extent {
	e, found := t.shape.Extent(kind)
	if !found {
		panic(errors.Wrapf(ErrUnknownAxis, "axis %q not in tensor of shape %s", kind, t.shape))
	}
	return e
}

// Range returns the indices of the given axis. See Slice.
func (t *Tensor) Range(kind axes.Kind) []axes.Index {
	return t.Slice(kind).Range()
}

// getOrDefault returns the value stored for the key, or 0 if it was not set.
func (t *Tensor) getOrDefault(key shapes.Key) float64 {
	if value, found := t.data[key]; found {
		return value
	}
	return 0
}

// Keys iterates over all keys of the tensor's shape, in order. See shapes.Shape.Keys.
func (t *Tensor) Keys() iter.Seq2[shapes.Key, []axes.Index] {
	return t.shape.Keys()
}

// Items iterates over all the indices of the tensor's shape and their values, including the
// ones that hold the default 0.
//
// The yielded indices are owned by the iterator: clone them if they need to be kept.
func (t *Tensor) Items() iter.Seq2[[]axes.Index, float64] {
	return func(yield func([]axes.Index, float64) bool) {
		for key, indices := range t.shape.Keys() {
			if !yield(indices, t.getOrDefault(key)) {
				return
			}
		}
	}
}

// Values returns all values of the tensor in the order of its keys (last axis changing fastest).
func (t *Tensor) Values() []float64 {
	values := make([]float64, 0, t.Size())
	for key := range t.shape.Keys() {
		values = append(values, t.getOrDefault(key))
	}
	return values
}

// Clone returns a copy of the tensor that doesn't share storage with it.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{shape: t.shape, data: maps.Clone(t.data)}
}

// Equal returns whether both tensors have the same shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.InDelta(other, 0)
}

// InDelta returns whether both tensors have the same shape, and their values are within delta.
// NaN values are considered equal to each other.
func (t *Tensor) InDelta(other *Tensor, delta float64) bool {
	return t.shape.Equal(other.shape) && xslices.Close(t.Values(), other.Values(), delta)
}
