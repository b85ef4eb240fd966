// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package axes defines named axes: the Kind of an axis (e.g. "foo"), a concrete Index on
// that axis (e.g. foo(2)), and an Extent, the declared size of an axis (e.g. foo[4]).
//
// Kinds are created by a Registry, which guarantees there is only one Kind per name.
// Most code uses the process-wide default registry through Setup:
//
//	kinds := axes.Setup("foo", "bar")
//	foo, bar := kinds[0], kinds[1]
//	shape := shapes.Make(foo.Of(4), bar.Of(5))
//	idx := foo.At(2) // foo(2)
//
// ## Glossary
//
//   - Kind: the identity of a named axis. Two kinds are equal iff their names are equal.
//   - Index: a non-negative integer tagged with a Kind. Ordered by (name, value).
//   - Extent: a Kind paired with a size n, spanning the indices 0..n-1. Ordered by (name, size).
package axes

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidIndex is wrapped by the errors raised when creating an index (or extent) with a
// negative or non-integral value, or when using an index outside the extent of its axis.
var ErrInvalidIndex = errors.New("invalid index")

// Kind identifies a named axis. Kinds are created by a Registry (see Setup and Register),
// and the zero value is an invalid Kind.
//
// Kind is comparable and can be used as a map key.
type Kind struct {
	name string
}

// Name of the axis.
func (k Kind) Name() string { return k.name }

// Ok returns whether the Kind was created by a Registry.
func (k Kind) Ok() bool { return k.name != "" }

// String implements fmt.Stringer.
func (k Kind) String() string {
	if !k.Ok() {
		return "<invalid axis>"
	}
	return k.name
}

// At returns the index i on this axis. It is the equivalent of writing foo(i).
//
// It panics with an error wrapping ErrInvalidIndex if i is negative.
func (k Kind) At(i int) Index {
	if !k.Ok() {
		panic(errors.Wrap(ErrInvalidIndex, "index of an invalid axis kind"))
	}
	if i < 0 {
		panic(errors.Wrapf(ErrInvalidIndex, "%s(%d): index must be non-negative", k.name, i))
	}
	return Index{kind: k, value: i}
}

// AtValue is like At, but accepts a float value, which must be integral.
//
// It panics with an error wrapping ErrInvalidIndex if v is negative, not finite or has a fractional part.
func (k Kind) AtValue(v float64) Index {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		panic(errors.Wrapf(ErrInvalidIndex, "%s(%g): index must be an integer", k.name, v))
	}
	if v > math.MaxInt32 {
		panic(errors.Wrapf(ErrInvalidIndex, "%s(%g): index too large", k.name, v))
	}
	return k.At(int(v))
}

// Of returns the Extent of size n for this axis. It is the equivalent of writing foo[n].
//
// It panics with an error wrapping ErrInvalidIndex if n is negative.
func (k Kind) Of(n int) Extent {
	if !k.Ok() {
		panic(errors.Wrap(ErrInvalidIndex, "extent of an invalid axis kind"))
	}
	if n < 0 {
		panic(errors.Wrapf(ErrInvalidIndex, "%s[%d]: size must be non-negative", k.name, n))
	}
	return Extent{kind: k, size: n}
}

// Compare orders kinds by name.
func (k Kind) Compare(k2 Kind) int { return strings.Compare(k.name, k2.name) }

// Index is a position on a named axis. Use Kind.At to create one.
//
// Index is comparable, and two indices are equal iff both their kind and value match.
type Index struct {
	kind  Kind
	value int
}

// Kind of the axis the index refers to.
func (idx Index) Kind() Kind { return idx.kind }

// Value of the index.
func (idx Index) Value() int { return idx.value }

// String implements fmt.Stringer, e.g. "foo(2)".
func (idx Index) String() string {
	return fmt.Sprintf("%s(%d)", idx.kind, idx.value)
}

// ParseIndex parses the format of Index.String, e.g. "foo(2)".
// Kinds are equal by name, so the result equals the formatted Index whichever Registry created its Kind.
func ParseIndex(s string) (Index, error) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return Index{}, errors.Wrapf(ErrInvalidIndex, "can't parse %q as an index, want \"name(value)\"", s)
	}
	name := s[:open]
	if strings.ContainsAny(name, invalidNameChars) {
		return Index{}, errors.Wrapf(ErrInvalidIndex, "invalid axis name in %q", s)
	}
	value, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil || value < 0 {
		return Index{}, errors.Wrapf(ErrInvalidIndex, "invalid value in %q", s)
	}
	return Index{kind: Kind{name: name}, value: value}, nil
}

// Compare orders indices lexicographically on (kind name, value).
func (idx Index) Compare(idx2 Index) int {
	if c := idx.kind.Compare(idx2.kind); c != 0 {
		return c
	}
	return cmp.Compare(idx.value, idx2.value)
}

// Compare is a function version of Index.Compare, convenient for slices.SortFunc.
func Compare(a, b Index) int { return a.Compare(b) }

// Extent is the declared size of a named axis. Use Kind.Of to create one.
//
// It is called "slice" in the notation: foo[4] spans foo(0), foo(1), foo(2) and foo(3).
type Extent struct {
	kind Kind
	size int
}

// Kind of the axis.
func (e Extent) Kind() Kind { return e.kind }

// Size of the extent, the number of indices it spans.
func (e Extent) Size() int { return e.size }

// Range returns the indices 0..n-1 of the extent, in order.
func (e Extent) Range() []Index {
	indices := make([]Index, e.size)
	for ii := range indices {
		indices[ii] = Index{kind: e.kind, value: ii}
	}
	return indices
}

// Contains returns whether idx is of the same kind and within the extent.
func (e Extent) Contains(idx Index) bool {
	return idx.kind == e.kind && idx.value < e.size
}

// String implements fmt.Stringer, e.g. "foo[4]".
func (e Extent) String() string {
	return fmt.Sprintf("%s[%d]", e.kind, e.size)
}

// Compare orders extents by (kind name, size).
func (e Extent) Compare(e2 Extent) int {
	if c := e.kind.Compare(e2.kind); c != 0 {
		return c
	}
	return cmp.Compare(e.size, e2.size)
}
