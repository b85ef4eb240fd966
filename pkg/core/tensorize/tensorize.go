// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package tensorize lifts functions written for a fixed set of named axes per parameter to work on
// tensors with extra ("dangling") axes.
//
// A function is declared with a Template, which lists for each parameter the axes it naturally
// expects. Lift returns a function that accepts arguments with those axes plus any others: it
// enumerates all combinations of the extra axes, calls the original function on the sub-tensors
// at each combination, and assembles the results into a new tensor with the extra axes.
//
// This is how the reductions in this package are written. For instance Sum is a function on a
// tensor with a single axis, lifted so that Sum(seq, x) works on an x with axes (key, seq), and
// returns a tensor over key.
package tensorize

import (
	"slices"
	"strings"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/shapes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
	"github.com/gomlx/namedtensors/pkg/support/sets"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrLiftMismatch is wrapped by errors raised when a lifted function is called with arguments that
// don't fit its template: a declared axis is missing, or the number of arguments is wrong.
var ErrLiftMismatch = errors.New("lift mismatch")

// Func is a function on named-axes tensors.
type Func func(args ...*tensors.Tensor) *tensors.Tensor

// Param declares a parameter of a function and the axes it expects.
type Param struct {
	Name string

	// Axes expected by the function for this parameter. Any extra axes of the argument are lifted.
	// An empty list declares a scalar parameter, lifted over all the axes of the argument.
	Axes []axes.Kind

	// Untyped parameters are passed through unchanged, and never lifted.
	Untyped bool
}

// Template declares the expected axes of the parameters of a function, and of its result.
type Template struct {
	// Name of the function, used in error messages and when rendering it.
	Name string

	Params []Param

	// Returns lists the axes of the result of the function. It is only informative
	// and used when rendering the function.
	Returns []axes.Kind
}

// Signature returns the template in the format "name(X: (key), Y: (seq, key)) -> (val)".
func (tmpl Template) Signature() string {
	var sb strings.Builder
	sb.WriteString(tmpl.Name)
	sb.WriteString("(")
	for ii, p := range tmpl.Params {
		if ii > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name)
		if !p.Untyped {
			sb.WriteString(": ")
			sb.WriteString(kindsString(p.Axes))
		}
	}
	sb.WriteString(") -> ")
	sb.WriteString(kindsString(tmpl.Returns))
	return sb.String()
}

func kindsString(kinds []axes.Kind) string {
	names := make([]string, len(kinds))
	for ii, k := range kinds {
		names[ii] = k.Name()
	}
	return "(" + strings.Join(names, ", ") + ")"
}

// Lift returns a version of fn that accepts arguments with axes beyond the ones declared in tmpl.
//
// If the axes of every argument match their declaration, fn is called directly.
// Otherwise, the extra ("spare") axes of all the arguments are joined (keeping the larger extent if
// two arguments share a spare axis with different sizes) and their combinations are enumerated once.
// For each combination, each argument is indexed at the combination's indices of its own spare axes
// (see tensors.Tensor.Get), and fn is called with those sub-tensors. An argument indexed beyond its
// own extent is replaced by zeros.
//
// The result has the spare axes plus the axes of the results of fn, which must be the same for all
// combinations.
//
// The lifted function panics with an error wrapping ErrLiftMismatch if the number of arguments
// doesn't match the template, if an argument is missing a declared axis, or if the results of fn
// don't fit together.
func Lift(tmpl Template, fn Func) Func {
	return func(args ...*tensors.Tensor) *tensors.Tensor {
		if len(args) != len(tmpl.Params) {
			panic(errors.Wrapf(ErrLiftMismatch, "%s: %d arguments given, %d expected",
				tmpl.Signature(), len(args), len(tmpl.Params)))
		}

		spareKinds := make([][]axes.Kind, len(args))
		var spareShapes []shapes.Shape
		for ii, p := range tmpl.Params {
			if p.Untyped {
				continue
			}
			declared := sets.MakeWith(p.Axes...)
			actual := args[ii].Shape().KindsSet()
			if !declared.IsSubsetOf(actual) {
				panic(errors.Wrapf(ErrLiftMismatch, "%s: argument %q with shape %s is missing axes %v",
					tmpl.Signature(), p.Name, args[ii].Shape(), sortedKinds(declared.Sub(actual))))
			}
			spare := actual.Sub(declared)
			if len(spare) == 0 {
				continue
			}
			spareShape := args[ii].Shape().Only(sortedKinds(spare)...)
			spareKinds[ii] = spareShape.Kinds()
			spareShapes = append(spareShapes, spareShape)
		}
		if len(spareShapes) == 0 {
			return fn(args...)
		}

		outer := shapes.Union(spareShapes...)
		klog.V(2).Infof("tensorize: lifting %s over %s (%d combinations)", tmpl.Name, outer, outer.Size())
		type liftedResult struct {
			indices []axes.Index
			value   *tensors.Tensor
		}
		results := make([]liftedResult, 0, outer.Size())
		var innerShapes []shapes.Shape
		for _, combination := range outer.Keys() {
			sliced := slices.Clone(args)
			for ii, kinds := range spareKinds {
				if kinds == nil {
					continue
				}
				sliced[ii] = sliceAt(args[ii], kinds, combination)
			}
			y := fn(sliced...)
			results = append(results, liftedResult{indices: slices.Clone(combination), value: y})
			innerShapes = append(innerShapes, y.Shape())
		}

		inner := shapes.Union(innerShapes...)
		for ii, s := range innerShapes {
			if !s.SameAxes(inner) {
				panic(errors.Wrapf(ErrLiftMismatch, "%s: results have different axes, %s and %s",
					tmpl.Signature(), innerShapes[0], innerShapes[ii]))
			}
		}
		for _, k := range inner.Kinds() {
			if outer.Has(k) {
				panic(errors.Wrapf(ErrLiftMismatch, "%s: result axis %q is also a lifted axis", tmpl.Signature(), k))
			}
		}
		result := tensors.Zeros(shapes.Union(outer, inner))
		for _, r := range results {
			result.SetTensor(r.value, r.indices...)
		}
		return result
	}
}

// sliceAt indexes arg at the indices of combination that belong to the given kinds.
// If any of those indices is beyond arg's extent, it returns zeros with the shape of the sub-tensor.
func sliceAt(arg *tensors.Tensor, kinds []axes.Kind, combination []axes.Index) *tensors.Tensor {
	own := sets.MakeWith(kinds...)
	indices := make([]axes.Index, 0, len(kinds))
	for _, idx := range combination {
		if !own.Has(idx.Kind()) {
			continue
		}
		if !arg.Shape().Contains(idx) {
			return tensors.Zeros(arg.Shape().Without(kinds...))
		}
		indices = append(indices, idx)
	}
	return arg.Get(indices...)
}

func sortedKinds(s sets.Set[axes.Kind]) []axes.Kind {
	kinds := make([]axes.Kind, 0, len(s))
	for k := range s {
		kinds = append(kinds, k)
	}
	slices.SortFunc(kinds, axes.Kind.Compare)
	return kinds
}
