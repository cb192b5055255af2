// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"sync"

	"github.com/nest/nest-simulator-sub012/simtime"
	"github.com/nest/nest-simulator-sub012/status"
	"github.com/nest/nest-simulator-sub012/synapse"
)

// Network owns the node arena and the wired connection records.  Nodes
// are addressed by their arena index only; indices stay valid across
// arena growth, so no node or record is ever identified by address.
//
// Records are partitioned across workers by target node, so all inbound
// records of one target, and that target's archives, belong to exactly
// one worker.  Spike traversal runs the workers concurrently; within a
// worker, traversal is strictly sequential.
type Network struct {
	Time   *simtime.Time `desc:"global discrete clock"`
	Models *Registry     `desc:"registered connector models"`
	Audit  *status.Audit `desc:"access audit shared by all status maps"`
	Ring   *RingBuffer   `desc:"delayed event delivery"`

	nodes   []synapse.Node
	workers []*worker
}

// worker owns the inbound records of its target partition, indexed by
// source node for traversal on presynaptic spikes.
type worker struct {
	recs map[synapse.NodeID][]Record
}

// New returns an empty network with the given number of workers and a
// ring buffer covering the largest representable delay.
func New(nWorkers int) *Network {
	if nWorkers < 1 {
		nWorkers = 1
	}
	nt := &Network{
		Time:   simtime.NewTime(),
		Models: NewRegistry(),
		Audit:  status.NewAudit(),
		Ring:   NewRingBuffer(synapse.MaxDelaySteps + 1),
	}
	nt.nodes = make([]synapse.Node, 1) // index 0 is not a valid node
	nt.workers = make([]*worker, nWorkers)
	for i := range nt.workers {
		nt.workers[i] = &worker{recs: make(map[synapse.NodeID][]Record)}
	}
	return nt
}

// AddNode allocates the next arena index and stores the node the maker
// constructs for it.
func (nt *Network) AddNode(mk func(id synapse.NodeID) synapse.Node) synapse.Node {
	id := synapse.NodeID(len(nt.nodes))
	n := mk(id)
	nt.nodes = append(nt.nodes, n)
	return n
}

// Node returns the node at the given arena index, or nil if out of
// range.
func (nt *Network) Node(id synapse.NodeID) synapse.Node {
	if id < 1 || int(id) >= len(nt.nodes) {
		return nil
	}
	return nt.nodes[id]
}

// NNodes returns the number of nodes in the arena.
func (nt *Network) NNodes() int {
	return len(nt.nodes) - 1
}

func (nt *Network) workerFor(tgt synapse.NodeID) *worker {
	return nt.workers[int(tgt)%len(nt.workers)]
}

// Connect wires one edge from src to tgt under the named model,
// drawing the initial weight from the model's distribution.  All
// structural checks run before the record exists: unknown model,
// invalid nodes, receptor mismatch, and unrepresentable delays fail
// without creating a partial edge.
func (nt *Network) Connect(src, tgt synapse.NodeID, model string, receptor int, delayMs float64) (Record, error) {
	cm, ok := nt.Models.ModelByName(model)
	if !ok {
		return nil, synapse.BadPropertyf("no model registered under %q", model)
	}
	srcNode, tgtNode := nt.Node(src), nt.Node(tgt)
	if srcNode == nil || tgtNode == nil {
		return nil, synapse.BadPropertyf("connect %d -> %d: no such node", src, tgt)
	}
	steps, err := nt.Time.DelaySteps(delayMs)
	if err != nil {
		return nil, err
	}
	p, err := synapse.EncodePacked(cm.ModelTag(), steps, false, false)
	if err != nil {
		return nil, err
	}
	// last fallible step with registration side effects: after this the
	// edge is committed
	port, err := synapse.CheckConnection(tgtNode, receptor, cm.NeedsHist(), nt.Time.Ms(), delayMs)
	if err != nil {
		return nil, err
	}
	rec := cm.NewRecord()
	base := rec.Base()
	base.Target = tgt
	base.Rport = port
	base.P = p
	if err := rec.wire(tgtNode, cm.InitWeight()); err != nil {
		return nil, err
	}
	wk := nt.workerFor(tgt)
	wk.recs[src] = append(wk.recs[src], rec)
	return rec, nil
}

// SendSpike traverses all outbound records of src at the current time,
// running the target partitions concurrently.  Each worker stops at its
// first error; the first error across workers is returned and aborts
// the step.
func (nt *Network) SendSpike(src synapse.NodeID, multiplicity int) error {
	t := nt.Time.Ms()
	var wg sync.WaitGroup
	errs := make([]error, len(nt.workers))
	for wi, wk := range nt.workers {
		recs := wk.recs[src]
		if len(recs) == 0 {
			continue
		}
		wg.Add(1)
		go func(wi int, recs []Record) {
			defer wg.Done()
			for _, rec := range recs {
				base := rec.Base()
				ev := &synapse.SpikeEvent{
					Sender:       src,
					Receptor:     base.Rport,
					Stamp:        t,
					Multiplicity: multiplicity,
				}
				tgt := nt.nodes[base.Target]
				if err := rec.Send(ev, tgt, nt.Ring, nt.Time.MsPerStep); err != nil {
					errs[wi] = err
					return
				}
			}
		}(wi, recs)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Step closes the current step: it advances the clock and returns the
// delivered amplitude that was due.
func (nt *Network) Step() float64 {
	v := nt.Ring.Advance()
	nt.Time.StepInc(1)
	return v
}

// Records returns the inbound records of tgt, across all sources, in
// worker storage order.  Administrative use only.
func (nt *Network) Records(tgt synapse.NodeID) []Record {
	wk := nt.workerFor(tgt)
	var out []Record
	for _, recs := range wk.recs {
		for _, rec := range recs {
			if rec.Base().Target == tgt {
				out = append(out, rec)
			}
		}
	}
	return out
}

// RecordsFrom returns the outbound records of src, across all workers.
// Administrative use only.
func (nt *Network) RecordsFrom(src synapse.NodeID) []Record {
	var out []Record
	for _, wk := range nt.workers {
		out = append(out, wk.recs[src]...)
	}
	return out
}

// Recalibrate changes the global resolution and re-encodes the packed
// delay of every record, preserving delays in msec.  Fails on the first
// delay the new resolution cannot represent; earlier records stay
// re-encoded, so callers should treat an error as fatal.
func (nt *Network) Recalibrate(msPerStep float64) error {
	old, err := nt.Time.SetResolution(msPerStep)
	if err != nil {
		return err
	}
	for _, wk := range nt.workers {
		for _, recs := range wk.recs {
			for _, rec := range recs {
				if err := rec.Base().Recalibrate(old, msPerStep); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// GetStatus writes a record's state into a fresh audited status map.
func (nt *Network) GetStatus(rec Record) *status.Map {
	m := status.NewMap(nt.Audit)
	rec.GetStatus(m, nt.Time.MsPerStep)
	return m
}

// SetStatus applies state from a status map to a record.  After the
// model's setter has run, any key that was never read is reported as
// one UnaccessedParameter error naming all residue keys together.
func (nt *Network) SetStatus(rec Record, m *status.Map) error {
	if err := rec.SetStatus(m, nt.Time.MsPerStep); err != nil {
		return err
	}
	return m.ResidueErr()
}
