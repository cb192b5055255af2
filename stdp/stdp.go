// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stdp implements spike-timing-dependent plasticity connection
models: the pairwise model with a pluggable weight-update rule (additive,
Gütig power-law, multiplicative), the homogeneous power-law model whose
constants all live in shared common properties, the triplet model of
Pfister & Gerstner (2006), and the symmetric rule of Vogels & Sprekeler
(2011).

All models follow the same causally-ordered traversal protocol: on each
presynaptic spike the target's archive is queried for post-synaptic
spikes in the dendritic-delay-shifted window since the previous
traversal, each is folded through the exact exponential decay kernel to
facilitate the weight, then one depression step is applied off the
target's instantaneous trace.  The updated weight travels with the event.
*/
package stdp

import (
	"github.com/chewxy/math32"
	"github.com/goki/ki/kit"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// WtRule selects the dependence of the weight update on the current
// weight.  The rules are presets of the Gütig et al. (2003) exponent
// form applied to the normalized weight w/Wmax.
type WtRule int

//go:generate stringer -type=WtRule

var KiT_WtRule = kit.Enums.AddEnum(WtRuleN, false, nil)

func (wr WtRule) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(wr) }
func (wr *WtRule) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(wr, b) }

const (
	// Additive updates are independent of the current weight (mu = 0).
	Additive WtRule = iota

	// Multiplicative updates scale linearly with the distance to the
	// bound (mu = 1).
	Multiplicative

	// PowerLaw updates use a fractional exponent on the distance to the
	// bound, after Gütig et al. (2003).
	PowerLaw

	WtRuleN
)

// STDPParams are the common properties shared by all pairwise STDP
// connections of one model.  Immutable after creation except through
// explicit administrative update; never duplicated per edge.
type STDPParams struct {
	Rule    WtRule           `desc:"weight dependence of the update; selecting a rule presets MuPlus and MuMinus"`
	TauPlus float32          `def:"20" min:"0" desc:"time constant of the presynaptic trace, in msec"`
	Lambda  float32          `def:"0.01" min:"0" desc:"learning rate: step size of the normalized facilitation update"`
	Alpha   float32          `def:"1" min:"0" desc:"asymmetry: relative scale of depression vs. facilitation"`
	MuPlus  float32          `def:"1" min:"0" desc:"weight-dependence exponent of facilitation"`
	MuMinus float32          `def:"1" min:"0" desc:"weight-dependence exponent of depression"`
	Bounds  synapse.WtBounds `view:"inline" desc:"weight bounds; negative Wmax for inhibitory models"`
}

func (pr *STDPParams) Defaults() {
	pr.Rule = PowerLaw
	pr.TauPlus = 20
	pr.Lambda = 0.01
	pr.Alpha = 1
	pr.MuPlus = 1
	pr.MuMinus = 1
	pr.Bounds.Defaults()
	pr.Update()
}

// Update presets the exponents from the selected rule.  PowerLaw leaves
// the configured exponents in place.
func (pr *STDPParams) Update() {
	switch pr.Rule {
	case Additive:
		pr.MuPlus = 0
		pr.MuMinus = 0
	case Multiplicative:
		pr.MuPlus = 1
		pr.MuMinus = 1
	}
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *STDPParams) Validate() error {
	if pr.TauPlus <= 0 {
		return synapse.BadPropertyf("tau_plus must be positive, got %g", pr.TauPlus)
	}
	if pr.Lambda < 0 {
		return synapse.BadPropertyf("lambda must be non-negative, got %g", pr.Lambda)
	}
	if pr.Alpha < 0 {
		return synapse.BadPropertyf("alpha must be non-negative, got %g", pr.Alpha)
	}
	if pr.MuPlus < 0 || pr.MuMinus < 0 {
		return synapse.BadPropertyf("mu exponents must be non-negative, got %g, %g", pr.MuPlus, pr.MuMinus)
	}
	return pr.Bounds.Validate()
}

// STDPConn is the per-edge state of a pairwise STDP connection.
type STDPConn struct {
	synapse.Connection
	Kplus float32 `desc:"presynaptic eligibility trace, decaying with TauPlus"`
	TLast float64 `desc:"time of the previous traversal, in msec; 0 before the first"`
}

// Init resets the plastic state for a freshly wired edge.
func (cn *STDPConn) Init(w float32) {
	cn.Weight = w
	cn.Kplus = 0
	cn.TLast = 0
}

// facilitate applies one potentiation step on the normalized weight.
func (pr *STDPParams) facilitate(wn, kplus float32) float32 {
	wn += pr.Lambda * math32.Pow(1-wn, pr.MuPlus) * kplus
	if wn > 1 {
		wn = 1
	}
	return wn
}

// depress applies one depression step on the normalized weight.
func (pr *STDPParams) depress(wn, kminus, wminN float32) float32 {
	wn -= pr.Alpha * pr.Lambda * math32.Pow(wn, pr.MuMinus) * kminus
	if wn < wminN {
		wn = wminN
	}
	return wn
}

// Send executes the pairwise STDP update for a presynaptic spike at
// ev.Stamp and forwards the event with the resulting weight.  The target
// archive window is shifted by the dendritic delay because the target's
// own records are stamped in target-local time.  A history entry at or
// after the presynaptic spike arrival is a caller bug and aborts the
// step with CausalityViolation.
func (pr *STDPParams) Send(cn *STDPConn, ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
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
		if minusDt == 0 { // duplicate same-timestep entry
			continue
		}
		wn = pr.facilitate(wn, cn.Kplus*math32.Exp(float32(minusDt/float64(pr.TauPlus))))
	}
	wn = pr.depress(wn, ar.KValue(tSpike-delay), wminN)
	cn.Weight = wn * wmax

	cn.Kplus = cn.Kplus*math32.Exp(float32((cn.TLast-tSpike)/float64(pr.TauPlus))) + 1
	cn.TLast = tSpike

	ev.Weight = cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
