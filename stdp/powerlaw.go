// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// PLParams are the common properties of the homogeneous power-law STDP
// model: every plasticity constant is shared across all edges of the
// model, and the per-edge state is only {weight, Kplus, TLast}
// (STDPConn).  The power law acts on the raw weight, not the normalized
// one.
type PLParams struct {
	TauPlus float32          `def:"20" min:"0" desc:"time constant of the presynaptic trace, in msec"`
	Lambda  float32          `def:"0.1" min:"0" desc:"learning rate of facilitation"`
	Alpha   float32          `def:"1" min:"0" desc:"relative scale of depression vs. facilitation"`
	Mu      float32          `def:"0.4" min:"0" desc:"power-law exponent on the raw weight in facilitation"`
	Bounds  synapse.WtBounds `view:"inline" desc:"weight bounds"`
}

func (pr *PLParams) Defaults() {
	pr.TauPlus = 20
	pr.Lambda = 0.1
	pr.Alpha = 1
	pr.Mu = 0.4
	pr.Bounds.Defaults()
	pr.Update()
}

func (pr *PLParams) Update() {
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *PLParams) Validate() error {
	if pr.TauPlus <= 0 {
		return synapse.BadPropertyf("tau_plus must be positive, got %g", pr.TauPlus)
	}
	if pr.Lambda < 0 || pr.Alpha < 0 || pr.Mu < 0 {
		return synapse.BadPropertyf("lambda, alpha and mu must be non-negative, got %g, %g, %g", pr.Lambda, pr.Alpha, pr.Mu)
	}
	return pr.Bounds.Validate()
}

func (pr *PLParams) facilitate(w, kplus float32) float32 {
	w += pr.Lambda * math32.Pow(w, pr.Mu) * kplus
	return pr.Bounds.Clamp(w)
}

func (pr *PLParams) depress(w, kminus float32) float32 {
	w -= pr.Alpha * pr.Lambda * w * kminus
	return pr.Bounds.Clamp(w)
}

// Send executes the power-law STDP update for a presynaptic spike at
// ev.Stamp and forwards the event with the resulting weight.
func (pr *PLParams) Send(cn *STDPConn, ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
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
		cn.Weight = pr.facilitate(cn.Weight, cn.Kplus*math32.Exp(float32(minusDt/float64(pr.TauPlus))))
	}
	cn.Weight = pr.depress(cn.Weight, ar.KValue(tSpike-delay))

	cn.Kplus = cn.Kplus*math32.Exp(float32((cn.TLast-tSpike)/float64(pr.TauPlus))) + 1
	cn.TLast = tSpike

	ev.Weight = cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
