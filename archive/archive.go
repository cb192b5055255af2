// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package archive implements per-target spike archiving: each target node
owns a SpikeArchive holding its own spike times along with decayed trace
values, queried by incoming plastic connections when a spike traverses
them.  Connections never own entries; they hold only read positions into
the archive, and entries are pruned once every registered reader has
consumed them and no conduction delay can still reach them.
*/
package archive

import (
	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/history"
)

// Entry is one archived spike of the owning node.
type Entry struct {
	T             float64 `desc:"simulation time of the spike, in msec, target-local"`
	Kminus        float32 `desc:"low-pass spike trace value immediately after this spike"`
	KminusTriplet float32 `desc:"slower triplet trace value immediately after this spike"`
	Accesses      int32   `desc:"number of incoming connections that have read this entry"`
}

// TraceParams are the post-synaptic trace time constants.
type TraceParams struct {
	TauMinus        float32 `def:"20" min:"0" desc:"time constant of the fast post-synaptic spike trace, in msec"`
	TauMinusTriplet float32 `def:"110" min:"0" desc:"time constant of the slow triplet post-synaptic spike trace, in msec"`
}

func (tp *TraceParams) Defaults() {
	tp.TauMinus = 20
	tp.TauMinusTriplet = 110
}

func (tp *TraceParams) Update() {
}

// SpikeArchive archives the spike history of one target node.
// It is owned exclusively by that node's worker: all mutation and
// traversal is strictly sequential, so the archive itself needs no
// locking.
type SpikeArchive struct {
	Trace TraceParams `view:"inline" desc:"trace time constants"`

	Kminus        float32 `inactive:"+" desc:"current value of the fast spike trace, at LastSpike"`
	KminusTriplet float32 `inactive:"+" desc:"current value of the slow triplet trace, at LastSpike"`
	LastSpike     float64 `inactive:"+" desc:"time of the most recent spike, in msec; -1 if none yet"`

	Hist      *history.Deque[Entry] `view:"-" desc:"archived spikes in non-decreasing time order"`
	NIncoming int                   `inactive:"+" desc:"number of incoming connections registered as history readers"`
	MaxDelay  float64               `inactive:"+" desc:"largest dendritic delay over registered readers, in msec"`
}

// NewSpikeArchive returns a new empty archive with default trace params.
func NewSpikeArchive() *SpikeArchive {
	ar := &SpikeArchive{}
	ar.Trace.Defaults()
	ar.Init()
	return ar
}

// Init resets all trace state and drops the history.
func (ar *SpikeArchive) Init() {
	ar.Kminus = 0
	ar.KminusTriplet = 0
	ar.LastSpike = -1
	if ar.Hist == nil {
		ar.Hist = history.New[Entry]()
	} else {
		ar.Hist.Clear()
	}
}

// RegisterIncoming registers one incoming plastic connection as a reader
// of this archive.  tFirstRead is the time up to which the new connection
// has (by definition) already consumed history; entries at or before it
// are marked accessed so pruning is not held back.  delay is the
// connection's dendritic delay in msec, extending the retention window.
func (ar *SpikeArchive) RegisterIncoming(tFirstRead, delay float64) {
	for c := ar.Hist.Begin(); !c.Eq(ar.Hist.End()); c.Next() {
		e := c.V()
		if e.T > tFirstRead {
			break
		}
		e.Accesses++
	}
	ar.NIncoming++
	if delay > ar.MaxDelay {
		ar.MaxDelay = delay
	}
}

// SpikeOccurred records a spike of the owning node at time t (msec,
// target-local).  Times must be non-decreasing across calls.  Updates the
// decayed traces exactly and appends a history entry; first prunes
// leading entries that every registered reader has consumed and that no
// conduction delay can still reach.
func (ar *SpikeArchive) SpikeOccurred(t float64) {
	if ar.NIncoming == 0 {
		ar.LastSpike = t
		return
	}
	for ar.Hist.Len() > 1 {
		front := ar.Hist.Begin().V()
		next := ar.Hist.Begin().Add(1).V()
		if int(front.Accesses) >= ar.NIncoming && t-next.T > ar.MaxDelay {
			ar.Hist.Erase(ar.Hist.Begin(), ar.Hist.Begin().Add(1))
		} else {
			break
		}
	}
	if ar.LastSpike < 0 {
		ar.Kminus = 1
		ar.KminusTriplet = 1
	} else {
		ar.Kminus = ar.Kminus*math32.Exp(float32((ar.LastSpike-t)/float64(ar.Trace.TauMinus))) + 1
		ar.KminusTriplet = ar.KminusTriplet*math32.Exp(float32((ar.LastSpike-t)/float64(ar.Trace.TauMinusTriplet))) + 1
	}
	ar.LastSpike = t
	ar.Hist.PushBack(Entry{T: t, Kminus: ar.Kminus, KminusTriplet: ar.KminusTriplet})
}

// History returns cursors delimiting the entries with t1 < T <= t2
// (half-open on the left, matching the traversal windows of the STDP
// protocols), marking each returned entry as accessed.
func (ar *SpikeArchive) History(t1, t2 float64) (start, finish history.Cursor[Entry]) {
	run := ar.Hist.Begin()
	end := ar.Hist.End()
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

// KValue returns the fast spike trace decayed to time t: the trace of the
// most recent archived spike strictly before t, decayed over the
// remaining interval.  Returns 0 if no spike precedes t.
func (ar *SpikeArchive) KValue(t float64) float32 {
	if ar.Hist.Len() == 0 {
		return 0
	}
	c := ar.Hist.End()
	for c.Sub(ar.Hist.Begin()) > 0 {
		c.Prev()
		e := c.V()
		if t > e.T {
			return e.Kminus * math32.Exp(float32((e.T-t)/float64(ar.Trace.TauMinus)))
		}
	}
	return 0
}

// KValues returns both the fast and the slow triplet trace decayed to
// time t, from the most recent archived spike strictly before t.
func (ar *SpikeArchive) KValues(t float64) (kminus, kminusTriplet float32) {
	if ar.Hist.Len() == 0 {
		return 0, 0
	}
	c := ar.Hist.End()
	for c.Sub(ar.Hist.Begin()) > 0 {
		c.Prev()
		e := c.V()
		if t > e.T {
			kminus = e.Kminus * math32.Exp(float32((e.T-t)/float64(ar.Trace.TauMinus)))
			kminusTriplet = e.KminusTriplet * math32.Exp(float32((e.T-t)/float64(ar.Trace.TauMinusTriplet)))
			return kminus, kminusTriplet
		}
	}
	return 0, 0
}
