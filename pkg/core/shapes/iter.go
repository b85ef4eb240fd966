// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package shapes

import (
	"iter"

	"github.com/gomlx/namedtensors/pkg/core/axes"
)

// Keys iterates over the Cartesian product of the ranges of the extents of the shape, that is,
// over all the keys of a tensor with this shape. The last axis changes fastest.
//
// It yields the canonical Key and the corresponding indices (sorted, one per axis).
// To avoid allocating the slice of indices, the yielded indices is owned by the Keys() method:
// don't change it inside the loop, and clone it if it needs to be kept.
//
// The iteration can be restarted, and it yields Size() keys: a scalar yields exactly one empty key,
// and a shape with any zero-sized extent yields none.
func (s Shape) Keys() iter.Seq2[Key, []axes.Index] {
	return func(yield func(Key, []axes.Index) bool) {
		rank := s.Rank()
		if rank == 0 {
			_ = yield("", []axes.Index{})
			return
		}
		for _, e := range s.extents {
			if e.Size() == 0 {
				return
			}
		}

		ranges := make([][]axes.Index, rank)
		for axis, e := range s.extents {
			ranges[axis] = e.Range()
		}
		counters := make([]int, rank)
		indices := make([]axes.Index, rank)
		for axis := range indices {
			indices[axis] = ranges[axis][0]
		}

		// This structure simulates an N-dimensional counter for the indices.
		for {
			if !yield(keyOfSorted(indices), indices) {
				return
			}

			axis := rank - 1
			for ; axis >= 0; axis-- {
				counters[axis]++
				if counters[axis] < len(ranges[axis]) {
					indices[axis] = ranges[axis][counters[axis]]
					break
				}
				// Carry-over to the next higher-order axis.
				counters[axis] = 0
				indices[axis] = ranges[axis][0]
			}
			if axis < 0 {
				return
			}
		}
	}
}
