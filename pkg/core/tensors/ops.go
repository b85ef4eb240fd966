// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package tensors

import (
	"math"

	"github.com/gomlx/namedtensors/pkg/core/shapes"
)

// BinaryOp combines two values element-wise.
type BinaryOp func(a, b float64) float64

// Binary combines the tensors t and other element-wise, aligning their axes by name.
//
// The result has the union of the shapes of both operands (see shapes.Union). For each key of the
// union, each operand is read at the restriction of the key to its own axes: an operand is reused
// (broadcast) over the axes it doesn't have. Keys beyond an operand's extent (when the same axis has
// different sizes) read as 0.
func (t *Tensor) Binary(other *Tensor, op BinaryOp) *Tensor {
	union := shapes.Union(t.shape, other.shape)
	result := Zeros(union)
	for key, indices := range union.Keys() {
		result.data[key] = op(t.lookup(indices), other.lookup(indices))
	}
	return result
}

// Map applies fn to every value of the tensor, including the ones that hold the default 0.
func (t *Tensor) Map(fn func(v float64) float64) *Tensor {
	result := Zeros(t.shape)
	for key := range t.shape.Keys() {
		result.data[key] = fn(t.getOrDefault(key))
	}
	return result
}

// MapScalar applies op with the given constant as the second operand to every value of the tensor.
func (t *Tensor) MapScalar(value float64, op BinaryOp) *Tensor {
	return t.Map(func(v float64) float64 { return op(v, value) })
}

func add(a, b float64) float64 { return a + b }
func sub(a, b float64) float64 { return a - b }
func mul(a, b float64) float64 { return a * b }
func div(a, b float64) float64 { return a / b }

// Add returns t + other, aligned by axis name. See Binary.
func (t *Tensor) Add(other *Tensor) *Tensor { return t.Binary(other, add) }

// Sub returns t - other, aligned by axis name. See Binary.
func (t *Tensor) Sub(other *Tensor) *Tensor { return t.Binary(other, sub) }

// Mul returns t * other element-wise, aligned by axis name. See Binary.
func (t *Tensor) Mul(other *Tensor) *Tensor { return t.Binary(other, mul) }

// Div returns t / other element-wise, aligned by axis name. See Binary.
// Division by zero follows IEEE-754: it yields ±Inf or NaN.
func (t *Tensor) Div(other *Tensor) *Tensor { return t.Binary(other, div) }

// AddScalar returns t + value, for every key of t.
func (t *Tensor) AddScalar(value float64) *Tensor { return t.MapScalar(value, add) }

// SubScalar returns t - value, for every key of t.
func (t *Tensor) SubScalar(value float64) *Tensor { return t.MapScalar(value, sub) }

// MulScalar returns t * value, for every key of t.
func (t *Tensor) MulScalar(value float64) *Tensor { return t.MapScalar(value, mul) }

// DivScalar returns t / value, for every key of t.
func (t *Tensor) DivScalar(value float64) *Tensor { return t.MapScalar(value, div) }

// Neg returns -t.
func (t *Tensor) Neg() *Tensor { return t.Map(func(v float64) float64 { return -v }) }

// Exp returns e^t, element-wise.
func (t *Tensor) Exp() *Tensor { return t.Map(math.Exp) }
