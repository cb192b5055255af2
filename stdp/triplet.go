// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// TripletParams are the common properties of the triplet STDP model
// after Pfister & Gerstner (2006): pair terms plus triplet terms scaled
// by slower traces on both sides.
type TripletParams struct {
	TauPlus        float32          `def:"16.8" min:"0" desc:"time constant of the fast presynaptic trace, in msec"`
	TauPlusTriplet float32          `def:"101" min:"0" desc:"time constant of the slow presynaptic triplet trace, in msec"`
	Aplus          float32          `def:"5e-10" desc:"pair-term amplitude of facilitation"`
	AplusTriplet   float32          `def:"6.2e-3" desc:"triplet-term amplitude of facilitation"`
	Aminus         float32          `def:"7e-3" desc:"pair-term amplitude of depression"`
	AminusTriplet  float32          `def:"2.3e-4" desc:"triplet-term amplitude of depression"`
	Bounds         synapse.WtBounds `view:"inline" desc:"weight bounds"`
}

func (pr *TripletParams) Defaults() {
	pr.TauPlus = 16.8
	pr.TauPlusTriplet = 101
	pr.Aplus = 5e-10
	pr.AplusTriplet = 6.2e-3
	pr.Aminus = 7e-3
	pr.AminusTriplet = 2.3e-4
	pr.Bounds.Defaults()
	pr.Bounds.Wmax = 1
	pr.Update()
}

func (pr *TripletParams) Update() {
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *TripletParams) Validate() error {
	if pr.TauPlus <= 0 || pr.TauPlusTriplet <= 0 {
		return synapse.BadPropertyf("triplet time constants must be positive, got %g, %g", pr.TauPlus, pr.TauPlusTriplet)
	}
	return pr.Bounds.Validate()
}

// TripletConn is the per-edge state of a triplet STDP connection: the
// fast pair trace plus the slow triplet trace of the presynaptic spike
// train.
type TripletConn struct {
	synapse.Connection
	Kplus        float32 `desc:"fast presynaptic trace, decaying with TauPlus"`
	KplusTriplet float32 `desc:"slow presynaptic triplet trace, decaying with TauPlusTriplet"`
	TLast        float64 `desc:"time of the previous traversal, in msec"`
}

// Init resets the plastic state for a freshly wired edge.
func (cn *TripletConn) Init(w float32) {
	cn.Weight = w
	cn.Kplus = 0
	cn.KplusTriplet = 0
	cn.TLast = 0
}

func (pr *TripletParams) facilitate(w, kplus, ky float32) float32 {
	w += kplus * (pr.Aplus + pr.AplusTriplet*ky)
	return pr.Bounds.Clamp(w)
}

func (pr *TripletParams) depress(w, kminus, kplusTriplet float32) float32 {
	w -= kminus * (pr.Aminus + pr.AminusTriplet*kplusTriplet)
	return pr.Bounds.Clamp(w)
}

// Send executes the triplet STDP update for a presynaptic spike at
// ev.Stamp and forwards the event.  The facilitation triplet term is
// scaled by the target's slow trace sampled just before each target
// spike (the entry value minus the spike's own increment), so the
// instant of the spike itself is not included.
func (pr *TripletParams) Send(cn *TripletConn, ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	if cn.Disabled() {
		return nil
	}
	tSpike := ev.Stamp
	delay := float64(cn.DelaySteps()) * msPerStep

	ar := tgt.Archive()
	start, finish := ar.History(cn.TLast-delay, tSpike-delay)
	for c := start; !c.Eq(finish); c.Next() {
		e := c.V()
		minusDt := cn.TLast - (e.T + delay)
		if minusDt > 0 {
			return synapse.Causalityf("post-synaptic entry at %g msec precedes last traversal %g msec (delay %g)", e.T, cn.TLast, delay)
		}
		if minusDt == 0 {
			continue
		}
		ky := e.KminusTriplet - 1 // slow trace just prior to this target spike
		cn.Weight = pr.facilitate(cn.Weight, cn.Kplus*math32.Exp(float32(minusDt/float64(pr.TauPlus))), ky)
	}

	// depression keyed off the target's instantaneous fast trace; the
	// presynaptic triplet trace is decayed to the current spike but its
	// own increment is added only afterwards
	cn.KplusTriplet *= math32.Exp(float32((cn.TLast - tSpike) / float64(pr.TauPlusTriplet)))
	cn.Weight = pr.depress(cn.Weight, ar.KValue(tSpike-delay), cn.KplusTriplet)
	cn.KplusTriplet++

	cn.Kplus = cn.Kplus*math32.Exp(float32((cn.TLast-tSpike)/float64(pr.TauPlus))) + 1
	cn.TLast = tSpike

	ev.Weight = cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
