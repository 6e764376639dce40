// Copyright 2025-2026 The Nurse Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// package interval provides structures for laying out closed integer
// intervals without overlap, used to stack annotation rows beneath a
// source line.
package interval

import (
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Endpoint arithmetic needs Integer, not Ordered.
)

// Endpoint is any type usable as an interval endpoint.
type Endpoint interface {
	constraints.Integer
}

// Map is a collection of disjoint closed intervals [start, end] with
// associated values.
//
// A zero value is ready to use.
type Map[K Endpoint, V any] struct {
	// Keys in this map are the ends of intervals in the map.
	tree btree.Map[K, *entry[K, V]]
}

type entry[K Endpoint, V any] struct {
	start K
	value V
}

// Len returns the number of intervals in the map.
func (m *Map[K, V]) Len() int {
	return m.tree.Len()
}

// Overlaps reports whether [start, end] intersects any interval already in
// the map.
func (m *Map[K, V]) Overlaps(start, end K) bool {
	it := m.tree.Iter()
	// The first interval whose end is >= start is the only candidate; every
	// earlier interval ends strictly before start.
	if !it.Seek(start) {
		return false
	}
	return it.Value().start <= end
}

// Insert adds [start, end] to the map if it does not overlap an existing
// interval, and reports whether the insertion happened.
func (m *Map[K, V]) Insert(start, end K, value V) bool {
	if m.Overlaps(start, end) {
		return false
	}
	m.tree.Set(end, &entry[K, V]{start: start, value: value})
	return true
}

// All returns an iterator over the intervals in the map, in ascending order.
func (m *Map[K, V]) All() iter.Seq2[[2]K, V] {
	return func(yield func([2]K, V) bool) {
		it := m.tree.Iter()
		for more := it.First(); more; more = it.Next() {
			if !yield([2]K{it.Value().start, it.Key()}, it.Value().value) {
				return
			}
		}
	}
}

// Rows packs intervals into rows such that the intervals within any one row
// are pairwise disjoint. Each interval lands on the first (topmost) row it
// fits into, so insertion order decides stacking: insert outer intervals
// first to place them above the intervals they enclose.
//
// A zero value is ready to use.
type Rows[K Endpoint, V any] struct {
	rows []*Map[K, V]
}

// Insert places [start, end] on the first row with no overlapping interval,
// appending a new row if none fits, and returns the row index.
func (r *Rows[K, V]) Insert(start, end K, value V) int {
	for i, row := range r.rows {
		if row.Insert(start, end, value) {
			return i
		}
	}
	row := new(Map[K, V])
	row.Insert(start, end, value)
	r.rows = append(r.rows, row)
	return len(r.rows) - 1
}

// Len returns the number of rows.
func (r *Rows[K, V]) Len() int {
	return len(r.rows)
}

// Row returns an iterator over the intervals of row i, in ascending order.
func (r *Rows[K, V]) Row(i int) iter.Seq2[[2]K, V] {
	return r.rows[i].All()
}
