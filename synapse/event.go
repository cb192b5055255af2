// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"github.com/nest/nest-simulator-sub012/archive"
	"github.com/nest/nest-simulator-sub012/history"
)

// NodeID is the arena index of a node; nodes are never identified by
// address.  0 is not a valid node.
type NodeID int32

// SpikeEvent is one spike traveling along a connection.  The weight is
// the connection's weight at the moment of traversal, after any
// plasticity update.
type SpikeEvent struct {
	Sender       NodeID  `desc:"arena index of the source node"`
	Receptor     int     `desc:"receptor port on the target"`
	Stamp        float64 `desc:"spike time at the source, in msec"`
	Weight       float32 `desc:"transmitted weight"`
	DelaySteps   int64   `desc:"conduction delay, in steps"`
	Multiplicity int     `desc:"number of coincident spikes this event represents"`
}

// DelayedDelivery admits events for delivery delay-steps in the future
// and exposes the accumulated value at a queried lag.  It is implemented
// by the event-exchange collaborator (see network.RingBuffer for the
// in-process form); connection updates never block on it.
type DelayedDelivery interface {
	// Schedule admits ev for delivery at the current step plus
	// ev.DelaySteps.
	Schedule(ev *SpikeEvent)

	// ValueAt returns the accumulated delivered value at the given lag
	// behind the current step.
	ValueAt(lag int64) float64
}

// Node is the target-side surface a connection needs: receptor
// validation at wiring time, and archive access during traversal.
type Node interface {
	// ID returns the node's arena index.
	ID() NodeID

	// HandlesSpikeEvent checks that the node accepts spike events on the
	// given receptor port, returning the resolved port or an
	// ErrUnknownReceptor / ErrIllegalConnection error.
	HandlesSpikeEvent(receptor int) (int, error)

	// Archive returns the node's spike archive, or nil if the node does
	// not archive spike history (in which case no history-reading model
	// may connect to it).
	Archive() *archive.SpikeArchive

	// EpropArchive returns the node's eligibility-trace archive, or nil
	// if the node does not participate in eprop learning.
	EpropArchive() *archive.EpropArchive
}

// HistEntry and HistCursor name the archive types in connection code.
type (
	HistEntry  = archive.Entry
	HistCursor = history.Cursor[archive.Entry]
)

// CheckConnection validates that the target accepts spike events on
// receptor before the edge is materialized, and, when needsHist is set
// (the model reads spike history), registers the connection as an archive
// reader so retention covers its delay window.  tNow is the wiring time
// in msec; delayMs the dendritic delay.  No partial edges: on error
// nothing is registered.
func CheckConnection(tgt Node, receptor int, needsHist bool, tNow, delayMs float64) (int, error) {
	port, err := tgt.HandlesSpikeEvent(receptor)
	if err != nil {
		return 0, err
	}
	if needsHist {
		ar := tgt.Archive()
		if ar == nil {
			return 0, BadPropertyf("target %d archives no spike history required by this synapse model", tgt.ID())
		}
		ar.RegisterIncoming(tNow-delayMs, delayMs)
	}
	return port, nil
}
