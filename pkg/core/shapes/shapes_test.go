// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/namedtensors/pkg/core/axes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAxes() (x, y, z axes.Kind) {
	kinds := axes.NewRegistry().Setup("x", "y", "z")
	return kinds[0], kinds[1], kinds[2]
}

func TestShape(t *testing.T) {
	x, y, z := setupAxes()

	scalar := Scalar()
	assert.True(t, scalar.IsScalar())
	assert.Equal(t, 0, scalar.Rank())
	assert.Equal(t, 1, scalar.Size())
	assert.Equal(t, "()", scalar.String())
	assert.True(t, scalar.Equal(Shape{}))

	shape := Make(y.Of(3), x.Of(2))
	assert.False(t, shape.IsScalar())
	assert.Equal(t, 2, shape.Rank())
	assert.Equal(t, 6, shape.Size())
	assert.Equal(t, "(x[2], y[3])", shape.String())
	assert.Equal(t, []axes.Kind{x, y}, shape.Kinds())
	assert.Equal(t, []axes.Extent{x.Of(2), y.Of(3)}, shape.Extents())
	assert.True(t, shape.Equal(Make(x.Of(2), y.Of(3))))
	assert.False(t, shape.Equal(Make(x.Of(2), y.Of(4))))
	assert.True(t, shape.SameAxes(Make(x.Of(5), y.Of(4))))
	assert.True(t, shape.KindsSet().Has(y))

	e, found := shape.Extent(y)
	require.True(t, found)
	assert.Equal(t, y.Of(3), e)
	_, found = shape.Extent(z)
	assert.False(t, found)
	assert.True(t, shape.Has(x))
	assert.False(t, shape.Has(z))
	assert.True(t, shape.Contains(y.At(2)))
	assert.False(t, shape.Contains(y.At(3)))
	assert.False(t, shape.Contains(z.At(0)))

	assert.Equal(t, "(y[3])", shape.Without(x, z).String())
	assert.Equal(t, "(x[2])", shape.Only(x, z).String())
	assert.True(t, shape.Without(x, y).IsScalar())

	err := exceptions.TryCatch[error](func() { Make(x.Of(2), x.Of(3)) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestUnion(t *testing.T) {
	x, y, z := setupAxes()

	// The larger extent of a shared axis wins.
	a := Make(x.Of(3))
	b := Make(x.Of(5), y.Of(2))
	u := Union(a, b)
	assert.True(t, u.Equal(Make(x.Of(5), y.Of(2))), "got %s", u)
	assert.True(t, Union(b, a).Equal(u))

	u = Union(Make(z.Of(1)), Scalar(), Make(y.Of(4), x.Of(1)), a)
	assert.Equal(t, "(x[3], y[4], z[1])", u.String())
	assert.True(t, Union().IsScalar())
	assert.True(t, Union(Scalar(), Scalar()).IsScalar())
}

func TestMakeKey(t *testing.T) {
	x, y, _ := setupAxes()
	assert.Equal(t, Key(""), MakeKey())
	assert.Equal(t, Key("x(0),y(1)"), MakeKey(y.At(1), x.At(0)))
	assert.Equal(t, MakeKey(x.At(0), y.At(1)), MakeKey(y.At(1), x.At(0)))
	assert.Equal(t, "[x(0),y(1)]", MakeKey(y.At(1), x.At(0)).String())

	err := exceptions.TryCatch[error](func() { MakeKey(x.At(0), x.At(1)) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))

	assert.Equal(t, []axes.Index{x.At(0), y.At(12)}, MakeKey(y.At(12), x.At(0)).Indices())
	assert.Empty(t, MakeKey().Indices())
	err = exceptions.TryCatch[error](func() { Key("x(0),y").Indices() })
	require.Error(t, err)
	assert.True(t, errors.Is(err, axes.ErrInvalidIndex))
}
