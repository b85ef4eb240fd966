// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensorize

import (
	"math"

	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/gomlx/namedtensors/pkg/core/tensors"
)

// reduceTemplate declares a function of a single tensor with the given axis.
func reduceTemplate(name string, kind axes.Kind) Template {
	return Template{Name: name, Params: []Param{{Name: "X", Axes: []axes.Kind{kind}}}}
}

// Reduce the axis kind of x with fn, which is called with the values along the axis.
// The result has all the other axes of x.
func Reduce(name string, kind axes.Kind, x *tensors.Tensor, fn func(values []float64) float64) *tensors.Tensor {
	return Lift(reduceTemplate(name, kind), func(args ...*tensors.Tensor) *tensors.Tensor {
		return tensors.FromScalar(fn(args[0].Values()))
	})(x)
}

// Sum x over the given axis.
func Sum(kind axes.Kind, x *tensors.Tensor) *tensors.Tensor {
	return Reduce("sum", kind, x, func(values []float64) float64 {
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	})
}

// Max of x over the given axis. The max of an empty axis is -Inf.
func Max(kind axes.Kind, x *tensors.Tensor) *tensors.Tensor {
	return Reduce("max", kind, x, func(values []float64) float64 {
		result := math.Inf(-1)
		for _, v := range values {
			result = max(result, v)
		}
		return result
	})
}

// Mean of x over the given axis. The mean of an empty axis is NaN.
func Mean(kind axes.Kind, x *tensors.Tensor) *tensors.Tensor {
	return Reduce("mean", kind, x, func(values []float64) float64 {
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values))
	})
}

// Softmax of x over the given axis: the values along the axis are exponentiated and normalized
// to sum to 1. The result has the same shape as x.
//
// It is computed as Exp(X - Max(X)) / Sum(Exp(X - Max(X))), which is numerically stable.
func Softmax(kind axes.Kind, x *tensors.Tensor) *tensors.Tensor {
	return Lift(reduceTemplate("softmax", kind), func(args ...*tensors.Tensor) *tensors.Tensor {
		logits := args[0]
		normalized := logits.Sub(Max(kind, logits))
		numerator := Exp(normalized)
		return numerator.Div(Sum(kind, numerator))
	})(x)
}

// ScalarFn lifts a function on plain numbers to a function applied to every value of a tensor.
// The result has the same shape as its argument.
func ScalarFn(name string, fn func(x float64) float64) Func {
	tmpl := Template{Name: name, Params: []Param{{Name: "x"}}}
	return Lift(tmpl, func(args ...*tensors.Tensor) *tensors.Tensor {
		return tensors.FromScalar(fn(args[0].Value()))
	})
}

var exp = ScalarFn("exp", math.Exp)

// Exp returns e^x for every value of x.
func Exp(x *tensors.Tensor) *tensors.Tensor { return exp(x) }

// Dot contracts a and b over the given axis: it multiplies them element-wise along the axis and
// sums the products. The remaining axes of a and b are lifted together: axes shared by a and b
// are aligned, the others are combined as an outer product.
func Dot(kind axes.Kind, a, b *tensors.Tensor) *tensors.Tensor {
	tmpl := Template{Name: "dot", Params: []Param{
		{Name: "A", Axes: []axes.Kind{kind}},
		{Name: "B", Axes: []axes.Kind{kind}},
	}}
	return Lift(tmpl, func(args ...*tensors.Tensor) *tensors.Tensor {
		return Sum(kind, args[0].Mul(args[1]))
	})(a, b)
}

// AttentionTemplate declares the attention function: queries Q over the key axis, keys K over
// (seq, key) and values V over (seq, val), returning a tensor over val.
func AttentionTemplate(key, seq, val axes.Kind) Template {
	return Template{
		Name: "Att",
		Params: []Param{
			{Name: "Q", Axes: []axes.Kind{key}},
			{Name: "K", Axes: []axes.Kind{seq, key}},
			{Name: "V", Axes: []axes.Kind{seq, val}},
		},
		Returns: []axes.Kind{val},
	}
}

// Attention computes the scaled dot-product attention of the queries q over the keys k and values v:
//
//	Dot(seq, Softmax(seq, Dot(key, Q, K) / sqrt(|key|)), V)
//
// where |key| is the size of the key axis. Extra axes (e.g. multiple queries or heads) are lifted.
func Attention(key, seq, val axes.Kind, q, k, v *tensors.Tensor) *tensors.Tensor {
	return Lift(AttentionTemplate(key, seq, val), func(args ...*tensors.Tensor) *tensors.Tensor {
		q, k, v := args[0], args[1], args[2]
		scale := math.Sqrt(float64(k.Slice(key).Size()))
		scores := Dot(key, q, k).DivScalar(scale)
		return Dot(seq, Softmax(seq, scores), v)
	})(q, k, v)
}
