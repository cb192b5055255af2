// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package history implements the block-allocated sequence container used to
archive bounded-lifetime spike records per target node.

The container is a growable list of fixed-size blocks (1024 elements each)
addressed by (block, element) cursors.  It is optimized for the access
pattern of spike archiving: amortized O(1) append at the tail, O(1) indexed
random access, and O(k) erase of a contiguous range where k is the number
of elements removed -- pruning an already-consumed prefix never pays for
the elements that remain.
*/
package history

import (
	"github.com/c2h5oh/datasize"
)

// BlockSize is the number of elements per allocated block.
// Must be a power of two: cursor arithmetic relies on mask / shift.
const BlockSize = 1024

const blockMask = BlockSize - 1

// Deque is a block-allocated double-open sequence of elements of type T.
// The zero value is not usable; call New.
type Deque[T any] struct {
	blocks [][]T     // allocated blocks, each of length BlockSize
	finish Cursor[T] // one past the last valid element
}

// New returns a new empty Deque with one block allocated.
func New[T any]() *Deque[T] {
	dq := &Deque[T]{}
	dq.blocks = append(dq.blocks, make([]T, BlockSize))
	dq.finish = Cursor[T]{dq: dq, idx: 0}
	return dq
}

// Len returns the number of elements, derived purely from the tail cursor.
func (dq *Deque[T]) Len() int {
	return dq.finish.idx
}

// PushBack appends an element at the tail, allocating a new block only
// when the current tail block is full.
func (dq *Deque[T]) PushBack(v T) {
	blk := dq.finish.idx >> blockShift
	if blk == len(dq.blocks) {
		dq.blocks = append(dq.blocks, make([]T, BlockSize))
	}
	dq.blocks[blk][dq.finish.idx&blockMask] = v
	dq.finish.idx++
}

// At returns a pointer to the element at index i.  No bounds checking
// beyond the underlying slice access.
func (dq *Deque[T]) At(i int) *T {
	return &dq.blocks[i>>blockShift][i&blockMask]
}

// Begin returns a cursor to the first element.
func (dq *Deque[T]) Begin() Cursor[T] {
	return Cursor[T]{dq: dq, idx: 0}
}

// End returns a cursor one past the last element.
func (dq *Deque[T]) End() Cursor[T] {
	return dq.finish
}

// Clear releases all blocks except one and resets the tail cursor to the
// start, leaving the container in the exact state of a freshly constructed
// one.
func (dq *Deque[T]) Clear() {
	dq.blocks = dq.blocks[:1]
	var zero T
	for i := range dq.blocks[0] {
		dq.blocks[0][i] = zero
	}
	dq.finish.idx = 0
}

// Erase removes the half-open range [first, last) and returns a cursor to
// the first element after the erased range, so that callers can resume
// iteration.  Elements after last are shifted down to close the gap and
// trailing now-unused blocks are released.  An empty range is a no-op; a
// full-container range is equivalent to Clear.
func (dq *Deque[T]) Erase(first, last Cursor[T]) Cursor[T] {
	n := last.idx - first.idx
	if n <= 0 {
		return last
	}
	if first.idx == 0 && last.idx == dq.finish.idx {
		dq.Clear()
		return dq.Begin()
	}
	for i := last.idx; i < dq.finish.idx; i++ {
		*dq.At(i - n) = *dq.At(i)
	}
	dq.finish.idx -= n
	need := (dq.finish.idx >> blockShift) + 1
	if need < len(dq.blocks) {
		dq.blocks = dq.blocks[:need]
	}
	return Cursor[T]{dq: dq, idx: first.idx}
}

// MemSize returns the total allocated block memory, for diagnostics.
func (dq *Deque[T]) MemSize() datasize.ByteSize {
	var t T
	elem := uint64(sizeOf(&t))
	return datasize.ByteSize(uint64(len(dq.blocks)) * BlockSize * elem)
}
