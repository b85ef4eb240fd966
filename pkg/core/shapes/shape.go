// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package shapes defines Shape, the set of named axes (with their sizes) of a tensor, and the
// shape algebra used to align tensors by axis name.
//
// A Shape is a set of axes.Extent with pairwise-distinct kinds. It is always kept sorted by
// (axis name, size), so two shapes with the same extents iterate, print and compare the same way.
//
// ## Glossary
//
//   - Rank: number of axes of a shape.
//   - Size: number of elements spanned by the shape, the product of its extents' sizes.
//   - Key: a canonical (sorted) tuple of indices, one per axis of a shape, used to address an
//     element of a tensor. See Key and MakeKey.
//   - Union: the smallest shape covering all the given shapes, keeping the larger extent when
//     an axis appears with different sizes.
package shapes

import (
	"slices"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/support/sets"
	"github.com/pkg/errors"
)

// ErrShapeMismatch is wrapped by errors raised when axes or keys can't be placed in a shape:
// repeated axes, values assigned with incompatible axes, etc.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape is a sorted set of named axes extents. Use Make to create one.
//
// The zero value is the empty shape, the shape of a scalar.
type Shape struct {
	extents []axes.Extent
}

// Make returns a Shape with the given extents, in any order.
//
// It panics with an error wrapping ErrShapeMismatch if an axis kind is repeated.
func Make(extents ...axes.Extent) Shape {
	s := Shape{extents: slices.Clone(extents)}
	slices.SortFunc(s.extents, axes.Extent.Compare)
	for ii := 1; ii < len(s.extents); ii++ {
		if s.extents[ii-1].Kind() == s.extents[ii].Kind() {
			panic(errors.Wrapf(ErrShapeMismatch, "shapes.Make(%v): axis %q given more than once",
				extents, s.extents[ii].Kind()))
		}
	}
	return s
}

// Scalar returns the empty shape.
func Scalar() Shape { return Shape{} }

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.extents) }

// IsScalar returns whether the shape has no axes.
func (s Shape) IsScalar() bool { return len(s.extents) == 0 }

// Size returns the number of elements spanned by the shape: the product of all the extents' sizes.
// It is 1 for a scalar.
func (s Shape) Size() (size int) {
	size = 1
	for _, e := range s.extents {
		size *= e.Size()
	}
	return
}

// Extents returns a copy of the sorted extents of the shape.
func (s Shape) Extents() []axes.Extent { return slices.Clone(s.extents) }

// Kinds returns the sorted axes kinds of the shape.
func (s Shape) Kinds() []axes.Kind {
	kinds := make([]axes.Kind, len(s.extents))
	for ii, e := range s.extents {
		kinds[ii] = e.Kind()
	}
	return kinds
}

// KindsSet returns the axes kinds of the shape as a set.
func (s Shape) KindsSet() sets.Set[axes.Kind] {
	return sets.MakeWith(s.Kinds()...)
}

// Extent returns the extent of the given axis kind, if it is part of the shape.
func (s Shape) Extent(kind axes.Kind) (axes.Extent, bool) {
	for _, e := range s.extents {
		if e.Kind() == kind {
			return e, true
		}
	}
	return axes.Extent{}, false
}

// Has returns whether the shape has an axis of the given kind.
func (s Shape) Has(kind axes.Kind) bool {
	_, found := s.Extent(kind)
	return found
}

// Contains returns whether the index's axis is part of the shape and the index is within its extent.
func (s Shape) Contains(idx axes.Index) bool {
	e, found := s.Extent(idx.Kind())
	return found && e.Contains(idx)
}

// Without returns a new shape with the given axes removed. Kinds not in the shape are ignored.
func (s Shape) Without(kinds ...axes.Kind) Shape {
	remove := sets.MakeWith(kinds...)
	s2 := Shape{extents: make([]axes.Extent, 0, len(s.extents))}
	for _, e := range s.extents {
		if !remove.Has(e.Kind()) {
			s2.extents = append(s2.extents, e)
		}
	}
	return s2
}

// Only returns a new shape with only the given axes. Kinds not in the shape are ignored.
func (s Shape) Only(kinds ...axes.Kind) Shape {
	keep := sets.MakeWith(kinds...)
	s2 := Shape{extents: make([]axes.Extent, 0, len(kinds))}
	for _, e := range s.extents {
		if keep.Has(e.Kind()) {
			s2.extents = append(s2.extents, e)
		}
	}
	return s2
}

// Equal returns whether both shapes have the same extents.
func (s Shape) Equal(s2 Shape) bool {
	return slices.Equal(s.extents, s2.extents)
}

// SameAxes returns whether both shapes have the same axes kinds, regardless of their sizes.
func (s Shape) SameAxes(s2 Shape) bool {
	return slices.Equal(s.Kinds(), s2.Kinds())
}

// String implements fmt.Stringer, e.g. "(bar[5], foo[4])". The scalar shape is "()".
func (s Shape) String() string {
	parts := make([]string, len(s.extents))
	for ii, e := range s.extents {
		parts[ii] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Union returns the shape with all the axes of the given shapes. If an axis appears with
// different sizes, the larger extent is kept: alignment must cover the full range of indices
// used by any of the shapes.
func Union(shapes ...Shape) Shape {
	merged := make(map[axes.Kind]axes.Extent)
	for _, s := range shapes {
		for _, e := range s.extents {
			if prev, found := merged[e.Kind()]; !found || e.Size() > prev.Size() {
				merged[e.Kind()] = e
			}
		}
	}
	u := Shape{extents: make([]axes.Extent, 0, len(merged))}
	for _, e := range merged {
		u.extents = append(u.extents, e)
	}
	slices.SortFunc(u.extents, axes.Extent.Compare)
	return u
}
