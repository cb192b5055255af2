// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// SymParams are the common properties of the symmetric rule of Vogels &
// Sprekeler (2011), typically used on inhibitory synapses: potentiation
// for pre-post and post-pre pairings alike, balanced by a constant
// depression on every presynaptic spike.  The weight is normalized to
// Wmax, so negative bounds give inhibitory weights with the correct sign.
type SymParams struct {
	Tau    float32          `def:"20" min:"0" desc:"time constant of both spike traces, in msec"`
	Eta    float32          `def:"1e-4" min:"0" desc:"learning rate"`
	Alpha  float32          `def:"0.36" min:"0" desc:"constant depression per presynaptic spike, in units of Eta"`
	Bounds synapse.WtBounds `view:"inline" desc:"weight bounds; negative Wmax for inhibitory synapses"`
}

func (pr *SymParams) Defaults() {
	pr.Tau = 20
	pr.Eta = 1e-4
	pr.Alpha = 0.36
	pr.Bounds.Defaults()
	pr.Bounds.Wmax = 1
	pr.Update()
}

func (pr *SymParams) Update() {
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *SymParams) Validate() error {
	if pr.Tau <= 0 {
		return synapse.BadPropertyf("tau must be positive, got %g", pr.Tau)
	}
	if pr.Eta < 0 || pr.Alpha < 0 {
		return synapse.BadPropertyf("eta and alpha must be non-negative, got %g, %g", pr.Eta, pr.Alpha)
	}
	return pr.Bounds.Validate()
}

// SetWeight is rejected: the symmetric model derives the weight purely
// from the pairing statistics and forbids external assignment.
func (pr *SymParams) SetWeight(cn *STDPConn, w float32) error {
	return synapse.Immutablef("symmetric model derives its weight; external assignment is not allowed")
}

func (pr *SymParams) potentiate(wn, k float32) float32 {
	wn += pr.Eta * k
	if wn > 1 {
		wn = 1
	}
	return wn
}

func (pr *SymParams) depress(wn, wminN float32) float32 {
	wn -= pr.Alpha * pr.Eta
	if wn < wminN {
		wn = wminN
	}
	return wn
}

// Send executes the symmetric update for a presynaptic spike at ev.Stamp
// and forwards the event: potentiation for every target spike in the
// delay-shifted window and for the target's instantaneous trace, plus
// one constant depression step.
func (pr *SymParams) Send(cn *STDPConn, ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	if cn.Disabled() {
		return nil
	}
	tSpike := ev.Stamp
	delay := float64(cn.DelaySteps()) * msPerStep
	wmax := pr.Bounds.Wmax
	wminN := pr.Bounds.Wmin / wmax
	wn := cn.Weight / wmax

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
		wn = pr.potentiate(wn, cn.Kplus*math32.Exp(float32(minusDt/float64(pr.Tau))))
	}
	wn = pr.potentiate(wn, ar.KValue(tSpike-delay))
	wn = pr.depress(wn, wminN)
	cn.Weight = wn * wmax

	cn.Kplus = cn.Kplus*math32.Exp(float32((cn.TLast-tSpike)/float64(pr.Tau))) + 1
	cn.TLast = tSpike

	ev.Weight = cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
