// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"unsafe"
)

// blockShift is log2(BlockSize), for index -> (block, element) mapping.
const blockShift = 10

func sizeOf[T any](p *T) uintptr { return unsafe.Sizeof(*p) }

// Cursor is a random-access cursor into a Deque.  Cursors into two
// different containers must never be compared or subtracted.
type Cursor[T any] struct {
	dq  *Deque[T]
	idx int
}

// Valid reports whether the cursor points at a dereferenceable element.
func (c Cursor[T]) Valid() bool {
	return c.dq != nil && c.idx >= 0 && c.idx < c.dq.finish.idx
}

// V returns a pointer to the element the cursor points at.
func (c Cursor[T]) V() *T {
	return c.dq.At(c.idx)
}

// Index returns the element index of the cursor within its container.
func (c Cursor[T]) Index() int {
	return c.idx
}

// Add returns a cursor advanced by n (n may be negative), satisfying
// (c.Add(n)).Sub(c) == n.
func (c Cursor[T]) Add(n int) Cursor[T] {
	c.idx += n
	return c
}

// Sub returns the distance between two cursors into the same container.
func (c Cursor[T]) Sub(o Cursor[T]) int {
	return c.idx - o.idx
}

// Next advances the cursor by one element in place.
func (c *Cursor[T]) Next() {
	c.idx++
}

// Prev moves the cursor back by one element in place.
func (c *Cursor[T]) Prev() {
	c.idx--
}

// Eq reports whether two cursors into the same container are equal.
func (c Cursor[T]) Eq(o Cursor[T]) bool {
	return c.idx == o.idx
}
