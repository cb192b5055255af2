// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package eprop implements the eligibility-propagation connection model:
weight updates are computed from a per-target eligibility trace folded
with a fast presynaptic trace and a broadcast learning signal, instead
of from paired spike times.

Gradients accumulate per connection across fixed-width global update
intervals, independent of spike timing.  On the first traversal that
closes an interval the connection fetches the target's eligibility
history over the inter-spike interval since the previous traversal,
capped at ISITraceCutoff, folds it into SumGrads, and once BatchSize
gradients have accumulated applies the configured optimizer and clamps
the weight.  Off-schedule traversals never change the weight.
*/
package eprop

import (
	"github.com/chewxy/math32"
	"github.com/goki/ki/kit"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// Optimizer selects the gradient-application scheme.
type Optimizer int

//go:generate stringer -type=Optimizer

var KiT_Optimizer = kit.Enums.AddEnum(OptimizerN, false, nil)

func (op Optimizer) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(op) }
func (op *Optimizer) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(op, b) }

const (
	// GradientDescent applies weight -= Eta * mean gradient.
	GradientDescent Optimizer = iota

	// Adam applies bias-corrected first and second moment estimates,
	// after Kingma & Ba (2015).
	Adam

	OptimizerN
)

// EpropParams are the common properties shared by all eprop connections
// of one model.
type EpropParams struct {
	Optimizer      Optimizer        `desc:"gradient-application scheme"`
	Eta            float32          `def:"1e-4" min:"0" desc:"learning rate"`
	Beta1          float32          `def:"0.9" min:"0" max:"1" desc:"Adam first-moment decay"`
	Beta2          float32          `def:"0.999" min:"0" max:"1" desc:"Adam second-moment decay"`
	EpsilonHat     float32          `def:"1e-8" min:"0" desc:"Adam denominator floor"`
	BatchSize      int              `def:"1" min:"1" desc:"number of accumulated gradients per optimizer step"`
	UpdateInterval float64          `def:"1000" min:"0" desc:"width of the global update interval, in msec"`
	RecallDuration float64          `def:"150" min:"0" desc:"length of the recall window at the end of each interval during which learning signals are nonzero, in msec"`
	ISITraceCutoff float64          `def:"1000" min:"0" desc:"cap on the inter-spike interval over which eligibility history is folded, in msec"`
	TauPresyn      float32          `def:"10" min:"0" desc:"time constant of the fast presynaptic trace, in msec"`
	Bounds         synapse.WtBounds `view:"inline" desc:"weight bounds the optimizer clamps to"`
}

func (pr *EpropParams) Defaults() {
	pr.Optimizer = GradientDescent
	pr.Eta = 1e-4
	pr.Beta1 = 0.9
	pr.Beta2 = 0.999
	pr.EpsilonHat = 1e-8
	pr.BatchSize = 1
	pr.UpdateInterval = 1000
	pr.RecallDuration = 150
	pr.ISITraceCutoff = 1000
	pr.TauPresyn = 10
	pr.Bounds.Defaults()
	pr.Update()
}

func (pr *EpropParams) Update() {
}

// Validate checks parameter consistency, returning BadProperty errors.
func (pr *EpropParams) Validate() error {
	if pr.Eta < 0 {
		return synapse.BadPropertyf("eta must be non-negative, got %g", pr.Eta)
	}
	if pr.Beta1 < 0 || pr.Beta1 >= 1 {
		return synapse.BadPropertyf("beta1 must be in [0,1), got %g", pr.Beta1)
	}
	if pr.Beta2 < 0 || pr.Beta2 >= 1 {
		return synapse.BadPropertyf("beta2 must be in [0,1), got %g", pr.Beta2)
	}
	if pr.EpsilonHat <= 0 {
		return synapse.BadPropertyf("epsilon must be positive, got %g", pr.EpsilonHat)
	}
	if pr.BatchSize < 1 {
		return synapse.BadPropertyf("batch_size must be at least 1, got %d", pr.BatchSize)
	}
	if pr.UpdateInterval <= 0 {
		return synapse.BadPropertyf("update_interval must be positive, got %g", pr.UpdateInterval)
	}
	if pr.RecallDuration < 0 || pr.RecallDuration > pr.UpdateInterval {
		return synapse.BadPropertyf("recall_duration must be in [0, update_interval], got %g", pr.RecallDuration)
	}
	if pr.ISITraceCutoff < 0 {
		return synapse.BadPropertyf("isi_trace_cutoff must be non-negative, got %g", pr.ISITraceCutoff)
	}
	if pr.TauPresyn <= 0 {
		return synapse.BadPropertyf("tau_presyn must be positive, got %g", pr.TauPresyn)
	}
	return pr.Bounds.Validate()
}

// OptState is the per-connection optimizer state.  Unused fields stay
// zero under plain gradient descent.
type OptState struct {
	M    float32 `desc:"Adam first moment estimate"`
	V    float32 `desc:"Adam second moment estimate"`
	Step int64   `inactive:"+" desc:"number of optimizer steps taken, for bias correction"`
}

// EpropConn is the per-edge state of an eprop connection.
type EpropConn struct {
	synapse.Connection
	SumGrads float32  `desc:"gradient accumulated over the current batch"`
	NGrads   int      `inactive:"+" desc:"number of gradients in SumGrads"`
	ZBar     float32  `desc:"fast presynaptic trace at the last traversal"`
	TLast    float64  `desc:"time of the previous traversal, in msec"`
	Opt      OptState `view:"inline" desc:"optimizer state"`
}

// Wire validates the target, registers this connection as an eligibility
// reader, and initializes the edge state.  The target must expose an
// eprop archive; connecting an eprop model to any other node is a
// structural error and creates no edge.
func (pr *EpropParams) Wire(cn *EpropConn, tgt synapse.Node, receptor int, w float32) error {
	port, err := tgt.HandlesSpikeEvent(receptor)
	if err != nil {
		return err
	}
	ea := tgt.EpropArchive()
	if ea == nil {
		return synapse.Illegalf("target %d records no eligibility traces", tgt.ID())
	}
	ea.RegisterIncoming()
	cn.Target = tgt.ID()
	cn.Rport = port
	cn.Weight = w
	cn.SumGrads = 0
	cn.NGrads = 0
	cn.ZBar = 0
	cn.TLast = 0
	cn.Opt = OptState{}
	return nil
}

// shouldUpdate reports whether the traversal at tSpike closes an update
// interval: the fixed-width global window containing tSpike differs from
// the one containing the previous traversal.
func (pr *EpropParams) shouldUpdate(cn *EpropConn, tSpike float64) bool {
	return int64(tSpike/pr.UpdateInterval) > int64(cn.TLast/pr.UpdateInterval)
}

// updateGradient folds the target's eligibility history over the
// inter-spike interval (TLast, min(TLast+ISITraceCutoff, tSpike)] into a
// scalar gradient.  The fast presynaptic trace is decayed to each
// entry's time; adaptive targets contribute the threshold-adaptation
// correction epsilon.
func (pr *EpropParams) updateGradient(cn *EpropConn, tgt synapse.Node, tSpike float64) float32 {
	ea := tgt.EpropArchive()
	t2 := tSpike
	if cut := cn.TLast + pr.ISITraceCutoff; cut < t2 {
		t2 = cut
	}
	run, end := ea.History(cn.TLast, t2)
	grad := float32(0)
	z := cn.ZBar
	tz := cn.TLast
	for !run.Eq(end) {
		e := run.V()
		z *= math32.Exp(float32(-(e.T - tz) / float64(pr.TauPresyn)))
		tz = e.T
		elig := z * e.Ebar
		if ea.Adaptive {
			elig -= z * e.Epsilon
		}
		grad += e.LearnSignal * elig
		run.Next()
	}
	ea.Prune(tSpike - pr.RecallDuration)
	return grad
}

// optimize applies one optimizer step from the accumulated batch and
// clamps the weight.  Resets the batch.
func (pr *EpropParams) optimize(cn *EpropConn) {
	g := cn.SumGrads / float32(pr.BatchSize)
	switch pr.Optimizer {
	case GradientDescent:
		cn.Weight -= pr.Eta * g
	case Adam:
		st := &cn.Opt
		st.Step++
		st.M = pr.Beta1*st.M + (1-pr.Beta1)*g
		st.V = pr.Beta2*st.V + (1-pr.Beta2)*g*g
		mHat := st.M / (1 - math32.Pow(pr.Beta1, float32(st.Step)))
		vHat := st.V / (1 - math32.Pow(pr.Beta2, float32(st.Step)))
		cn.Weight -= pr.Eta * mHat / (math32.Sqrt(vHat) + pr.EpsilonHat)
	}
	cn.Weight = pr.Bounds.Clamp(cn.Weight)
	cn.SumGrads = 0
	cn.NGrads = 0
}

// Send processes one presynaptic spike: on interval-closing traversals
// it folds the eligibility history into the batch gradient and, once
// BatchSize gradients have accumulated, steps the optimizer.  All other
// traversals only advance the presynaptic trace.  The current weight
// travels with the event.
func (pr *EpropParams) Send(cn *EpropConn, ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery) error {
	if cn.Disabled() {
		return nil
	}
	tSpike := ev.Stamp
	h := tSpike - cn.TLast
	if h < 0 {
		return synapse.Causalityf("traversal at %g msec precedes previous traversal at %g msec", tSpike, cn.TLast)
	}
	if pr.shouldUpdate(cn, tSpike) {
		cn.SumGrads += pr.updateGradient(cn, tgt, tSpike)
		cn.NGrads++
		if cn.NGrads >= pr.BatchSize {
			pr.optimize(cn)
		}
	}
	cn.ZBar = cn.ZBar*math32.Exp(float32(-h/float64(pr.TauPresyn))) + 1
	cn.TLast = tSpike

	ev.Weight = cn.Weight
	ev.DelaySteps = cn.DelaySteps()
	dd.Schedule(ev)
	return nil
}
