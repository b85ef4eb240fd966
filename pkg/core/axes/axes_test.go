// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package axes

import (
	"slices"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	created := r.Register("foo", "bar", "foo")
	require.Len(t, created, 2)
	assert.Equal(t, "foo", created[0].Name())
	assert.Equal(t, "bar", created[1].Name())

	// Re-registering is a no-op.
	assert.Empty(t, r.Register("bar"))
	assert.Equal(t, []string{"foo", "bar"}, r.Names())

	// Stable identity.
	foo, found := r.Lookup("foo")
	require.True(t, found)
	assert.Equal(t, created[0], foo)
	assert.Equal(t, foo, r.Kind("foo"))

	kinds := r.Setup("bar", "baz")
	require.Len(t, kinds, 2)
	assert.Equal(t, created[1], kinds[0])
	assert.Equal(t, "baz", kinds[1].Name())
	assert.Equal(t, []string{"foo", "bar", "baz"}, r.Names())

	_, found = r.Lookup("qux")
	assert.False(t, found)
	require.Panics(t, func() { r.MustLookup("qux") })
	require.Panics(t, func() { r.Register("") })
	require.Panics(t, func() { r.Register("a,b") })
	require.Panics(t, func() { r.Register("a(1)") })
}

func TestIndex(t *testing.T) {
	kinds := NewRegistry().Setup("foo", "bar")
	foo, bar := kinds[0], kinds[1]

	idx := foo.At(2)
	assert.Equal(t, foo, idx.Kind())
	assert.Equal(t, 2, idx.Value())
	assert.Equal(t, "foo(2)", idx.String())
	assert.Equal(t, foo.At(2), idx)
	assert.NotEqual(t, bar.At(2), idx)
	assert.Equal(t, foo.At(3), foo.AtValue(3.0))

	// Ordering on (name, value).
	indices := []Index{foo.At(1), bar.At(3), foo.At(0), bar.At(0)}
	slices.SortFunc(indices, Compare)
	assert.Equal(t, []Index{bar.At(0), bar.At(3), foo.At(0), foo.At(1)}, indices)

	for _, fn := range []func(){
		func() { foo.At(-1) },
		func() { foo.AtValue(1.5) },
		func() { foo.AtValue(-2) },
		func() { Kind{}.At(0) },
	} {
		err := exceptions.TryCatch[error](fn)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidIndex), "unexpected error: %v", err)
	}

	parsed, err := ParseIndex("foo(12)")
	require.NoError(t, err)
	assert.Equal(t, foo.At(12), parsed)
	for _, s := range []string{"foo", "(1)", "foo(-1)", "foo(x)", "f,o(1)", "foo(1"} {
		_, err = ParseIndex(s)
		assert.Truef(t, errors.Is(err, ErrInvalidIndex), "ParseIndex(%q): %v", s, err)
	}
}

func TestExtent(t *testing.T) {
	kinds := NewRegistry().Setup("foo", "bar")
	foo, bar := kinds[0], kinds[1]

	e := foo.Of(3)
	assert.Equal(t, foo, e.Kind())
	assert.Equal(t, 3, e.Size())
	assert.Equal(t, "foo[3]", e.String())
	assert.Equal(t, []Index{foo.At(0), foo.At(1), foo.At(2)}, e.Range())
	assert.True(t, e.Contains(foo.At(2)))
	assert.False(t, e.Contains(foo.At(3)))
	assert.False(t, e.Contains(bar.At(0)))

	assert.Negative(t, bar.Of(7).Compare(foo.Of(1)))
	assert.Negative(t, foo.Of(1).Compare(foo.Of(2)))
	assert.Zero(t, foo.Of(2).Compare(foo.Of(2)))
	assert.Empty(t, foo.Of(0).Range())

	err := exceptions.TryCatch[error](func() { foo.Of(-1) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
}

func TestDefaultRegistry(t *testing.T) {
	kinds := Setup("axes_test_a", "axes_test_b")
	again := Setup("axes_test_b", "axes_test_a")
	assert.Equal(t, kinds[0], again[1])
	assert.Equal(t, kinds[1], again[0])
	assert.Empty(t, Register("axes_test_a"))
	k, found := Lookup("axes_test_b")
	require.True(t, found)
	assert.Equal(t, kinds[1], k)
	assert.Contains(t, Names(), "axes_test_a")
}
