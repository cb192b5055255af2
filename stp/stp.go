// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stp implements the short-term plasticity pool model of Tsodyks &
Markram: a release probability u facilitating toward 1 and a resource
fraction x depressing toward 0, both relaxing back between spikes.  The
static weight is never changed; the transmitted amplitude of each spike
is scaled by u*x.

Two documented transmission sub-variants exist and are both supported:
one reads the pool state after folding the current spike into it, the
other transmits with the state as left by the previous traversal.  This
is a deliberate, tested difference between the variants, not a bug.
*/
package stp

import (
	"github.com/chewxy/math32"
	"github.com/goki/ki/kit"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// Variant selects when the transmitted amplitude samples the pool state.
type Variant int

//go:generate stringer -type=Variant

var KiT_Variant = kit.Enums.AddEnum(VariantN, false, nil)

func (vr Variant) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(vr) }
func (vr *Variant) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(vr, b) }

const (
	// ReadAfterUpdate transmits with the pool state after the current
	// spike has been folded in.
	ReadAfterUpdate Variant = iota

	// ReadBeforeUpdate transmits with the pool state as left by the
	// previous traversal.
	ReadBeforeUpdate

	VariantN
)

// tauFacEps is the facilitation time constant below which facilitation
// is disabled outright (the decay factor is taken as 0, not 1).
const tauFacEps = 1.0e-10

// STPParams are the common properties of one short-term plasticity
// model.
type STPParams struct {
	Variant Variant `desc:"when the transmitted amplitude samples the pool state"`
	U       float32 `def:"0.5" min:"0" max:"1" desc:"baseline release probability: increment of u on each spike"`
	TauRec  float32 `def:"800" min:"0" desc:"recovery time constant of the resource fraction x, in msec"`
	TauFac  float32 `def:"0" min:"0" desc:"facilitation time constant of u, in msec; 0 disables facilitation"`
}

func (pr *STPParams) Defaults() {
	pr.Variant = ReadAfterUpdate
	pr.U = 0.5
	pr.TauRec = 800
	pr.TauFac = 0
	pr.Update()
}

func (pr *STPParams) Update() {
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *STPParams) Validate() error {
	if pr.U < 0 || pr.U > 1 {
		return synapse.BadPropertyf("U must be in [0,1], got %g", pr.U)
	}
	if pr.TauRec <= 0 {
		return synapse.BadPropertyf("tau_rec must be positive, got %g", pr.TauRec)
	}
	if pr.TauFac < 0 {
		return synapse.BadPropertyf("tau_fac must be non-negative, got %g", pr.TauFac)
	}
	return nil
}

// STPConn is the per-edge state of a short-term plasticity connection.
// U and X track the pool at the most recent traversal.
type STPConn struct {
	synapse.Connection
	U     float32 `desc:"release probability at the last traversal"`
	X     float32 `desc:"resource fraction at the last traversal"`
	TLast float64 `desc:"time of the previous traversal, in msec"`
}

// Init resets the pool for a freshly wired edge: full resources, release
// probability at baseline.
func (cn *STPConn) Init(pr *STPParams, w float32) {
	cn.Weight = w
	cn.U = pr.U
	cn.X = 1
	cn.TLast = 0
}

// Send folds the inter-spike interval h = ev.Stamp - TLast into the pool
// state and forwards the event with amplitude u*x*weight, sampling the
// pool per the variant.  u and x stay in [0,1] for all non-negative h.
func (pr *STPParams) Send(cn *STPConn, ev *synapse.SpikeEvent, dd synapse.DelayedDelivery) error {
	if cn.Disabled() {
		return nil
	}
	tSpike := ev.Stamp
	h := tSpike - cn.TLast
	if h < 0 {
		return synapse.Causalityf("traversal at %g msec precedes previous traversal at %g msec", tSpike, cn.TLast)
	}
	xDecay := math32.Exp(float32(-h / float64(pr.TauRec)))
	uDecay := float32(0)
	if pr.TauFac > tauFacEps {
		uDecay = math32.Exp(float32(-h / float64(pr.TauFac)))
	}
	sendU, sendX := cn.U, cn.X
	cn.X = 1 + (cn.X-cn.X*cn.U-1)*xDecay
	cn.U = pr.U + cn.U*(1-pr.U)*uDecay
	if pr.Variant == ReadAfterUpdate {
		sendU, sendX = cn.U, cn.X
	}
	cn.TLast = tSpike

	ev.Weight = sendX * sendU * cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
