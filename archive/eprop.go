// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package archive

import (
	"github.com/nest/nest-simulator-sub012/history"
)

// EpropEntry is one per-step eligibility record of an eprop target node.
type EpropEntry struct {
	T           float64 `desc:"simulation time of the record, in msec, target-local"`
	Ebar        float32 `desc:"slow (low-pass filtered) eligibility trace at T"`
	Epsilon     float32 `desc:"threshold-adaptation correction; 0 for non-adaptive targets"`
	LearnSignal float32 `desc:"learning signal broadcast to this target at T"`
	Accesses    int32   `desc:"number of incoming eprop connections that have read this entry"`
}

// EpropArchive archives the per-step eligibility traces and learning
// signals of one eprop target node.  Like SpikeArchive it is owned by a
// single worker and needs no locking; entries are pruned once every
// registered eprop connection has consumed them.
type EpropArchive struct {
	Hist      *history.Deque[EpropEntry] `view:"-" desc:"trace records in non-decreasing time order"`
	NIncoming int                        `inactive:"+" desc:"number of registered incoming eprop connections"`
	Adaptive  bool                       `desc:"whether the owning node has an adaptive threshold, enabling the epsilon correction"`
}

// NewEpropArchive returns a new empty eprop archive.
func NewEpropArchive() *EpropArchive {
	return &EpropArchive{Hist: history.New[EpropEntry]()}
}

// RegisterIncoming registers one incoming eprop connection as a reader.
func (ea *EpropArchive) RegisterIncoming() {
	ea.NIncoming++
}

// WriteTrace appends a per-step record.  Times must be non-decreasing.
func (ea *EpropArchive) WriteTrace(t float64, ebar, epsilon, learnSignal float32) {
	ea.Hist.PushBack(EpropEntry{T: t, Ebar: ebar, Epsilon: epsilon, LearnSignal: learnSignal})
}

// History returns cursors delimiting entries with t1 < T <= t2, marking
// each as accessed.
func (ea *EpropArchive) History(t1, t2 float64) (start, finish history.Cursor[EpropEntry]) {
	run := ea.Hist.Begin()
	end := ea.Hist.End()
	for !run.Eq(end) && run.V().T <= t1 {
		run.Next()
	}
	start = run
	for !run.Eq(end) && run.V().T <= t2 {
		run.V().Accesses++
		run.Next()
	}
	finish = run
	return start, finish
}

// Prune drops leading entries that every registered reader has consumed
// and that are older than t.
func (ea *EpropArchive) Prune(t float64) {
	end := ea.Hist.Begin()
	for !end.Eq(ea.Hist.End()) {
		e := end.V()
		if e.T >= t || int(e.Accesses) < ea.NIncoming {
			break
		}
		end.Next()
	}
	ea.Hist.Erase(ea.Hist.Begin(), end)
}
