// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"sync"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// RingBuffer is the in-process DelayedDelivery: a circular per-step
// accumulator of event amplitudes.  Scheduling from concurrent workers
// is safe; the critical section is one add.
type RingBuffer struct {
	mu  sync.Mutex
	buf []float64
	cur int
}

// NewRingBuffer returns a ring covering delays up to nSteps-1 steps.
func NewRingBuffer(nSteps int) *RingBuffer {
	if nSteps < 1 {
		nSteps = 1
	}
	return &RingBuffer{buf: make([]float64, nSteps)}
}

// Schedule accumulates ev.Weight (scaled by multiplicity) into the slot
// ev.DelaySteps ahead of the current step.
func (rb *RingBuffer) Schedule(ev *synapse.SpikeEvent) {
	mult := ev.Multiplicity
	if mult == 0 {
		mult = 1
	}
	rb.mu.Lock()
	idx := (rb.cur + int(ev.DelaySteps)) % len(rb.buf)
	rb.buf[idx] += float64(ev.Weight) * float64(mult)
	rb.mu.Unlock()
}

// ValueAt returns the accumulated amplitude lag steps ahead of the
// current step.
func (rb *RingBuffer) ValueAt(lag int64) float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.buf[(rb.cur+int(lag))%len(rb.buf)]
}

// Advance closes the current step: it returns the amplitude due now,
// zeroes the slot for reuse, and moves to the next step.
func (rb *RingBuffer) Advance() float64 {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	v := rb.buf[rb.cur]
	rb.buf[rb.cur] = 0
	rb.cur = (rb.cur + 1) % len(rb.buf)
	return v
}
