// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eprop

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/archive"
	"github.com/nest/nest-simulator-sub012/synapse"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

// testNode is a minimal eligibility-recording target for eprop tests.
type testNode struct {
	id synapse.NodeID
	ea *archive.EpropArchive
}

func newTestNode(id synapse.NodeID) *testNode {
	return &testNode{id: id, ea: archive.NewEpropArchive()}
}

func (tn *testNode) ID() synapse.NodeID { return tn.id }

func (tn *testNode) HandlesSpikeEvent(receptor int) (int, error) {
	if receptor != 0 {
		return 0, synapse.ErrUnknownReceptor
	}
	return 0, nil
}

func (tn *testNode) Archive() *archive.SpikeArchive      { return nil }
func (tn *testNode) EpropArchive() *archive.EpropArchive { return tn.ea }

// plainNode records no eligibility traces.
type plainNode struct{ testNode }

func (pn *plainNode) EpropArchive() *archive.EpropArchive { return nil }

type captureDelivery struct {
	evs []synapse.SpikeEvent
}

func (cd *captureDelivery) Schedule(ev *synapse.SpikeEvent) { cd.evs = append(cd.evs, *ev) }
func (cd *captureDelivery) ValueAt(lag int64) float64       { return 0 }

func TestGradientDescentKinematics(t *testing.T) {
	// target values hand-computed from the trace-folding equations with
	// tau_presyn = 10 ms, update_interval = 1000 ms, eta = 0.1
	pr := &EpropParams{}
	pr.Defaults()
	pr.Eta = 0.1
	pr.Bounds = synapse.WtBounds{Wmin: 0, Wmax: 100}
	if err := pr.Validate(); err != nil {
		t.Fatal(err)
	}

	tn := newTestNode(1)
	cn := &EpropConn{}
	if err := pr.Wire(cn, tn, 0, 1); err != nil {
		t.Fatal(err)
	}
	dd := &captureDelivery{}

	tn.ea.WriteTrace(950, 0.5, 0, 2)
	tn.ea.WriteTrace(960, 0.25, 0, 1)

	// first traversal stays inside interval 0: no weight change
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 900}, tn, dd); err != nil {
		t.Fatal(err)
	}
	if cn.Weight != 1 {
		t.Errorf("off-schedule traversal changed weight to %v", cn.Weight)
	}
	if dif := math32.Abs(cn.ZBar - 1); dif > difTol {
		t.Errorf("presynaptic trace = %v, want 1", cn.ZBar)
	}

	// second traversal closes interval 0: fold both entries and step
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 1100}, tn, dd); err != nil {
		t.Fatal(err)
	}
	z := math32.Exp(-5)
	grad := 2 * (z * 0.5)
	z *= math32.Exp(-1)
	grad += 1 * (z * 0.25)
	corWt := 1 - 0.1*grad
	if dif := math32.Abs(cn.Weight - corWt); dif > difTol {
		t.Errorf("weight after update = %v, want %v", cn.Weight, corWt)
	}
	if got := dd.evs[len(dd.evs)-1].Weight; got != cn.Weight {
		t.Errorf("event carried weight %v, connection has %v", got, cn.Weight)
	}
}

func TestAdaptiveCorrection(t *testing.T) {
	pr := &EpropParams{}
	pr.Defaults()
	pr.Eta = 1
	pr.Bounds = synapse.WtBounds{Wmin: 0, Wmax: 100}

	run := func(adaptive bool) float32 {
		tn := newTestNode(1)
		tn.ea.Adaptive = adaptive
		cn := &EpropConn{}
		if err := pr.Wire(cn, tn, 0, 1); err != nil {
			t.Fatal(err)
		}
		dd := &captureDelivery{}
		tn.ea.WriteTrace(510, 1, 0.25, 1)
		if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 500}, tn, dd); err != nil {
			t.Fatal(err)
		}
		if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 1500}, tn, dd); err != nil {
			t.Fatal(err)
		}
		return cn.Weight
	}

	z := math32.Exp(-1)
	wantPlain := 1 - z
	wantAdaptive := 1 - (z - z*0.25)
	if dif := math32.Abs(run(false) - wantPlain); dif > difTol {
		t.Errorf("non-adaptive weight = %v, want %v", run(false), wantPlain)
	}
	if dif := math32.Abs(run(true) - wantAdaptive); dif > difTol {
		t.Errorf("adaptive weight = %v, want %v", run(true), wantAdaptive)
	}
}

func TestAdamFirstStep(t *testing.T) {
	// after one step the bias-corrected moments reduce to mHat = g,
	// vHat = g^2, so the update is eta * g / (|g| + eps) ~= eta * sign(g)
	pr := &EpropParams{}
	pr.Defaults()
	pr.Optimizer = Adam
	pr.Eta = 0.05
	pr.Bounds = synapse.WtBounds{Wmin: 0, Wmax: 100}

	tn := newTestNode(1)
	cn := &EpropConn{}
	if err := pr.Wire(cn, tn, 0, 1); err != nil {
		t.Fatal(err)
	}
	dd := &captureDelivery{}
	tn.ea.WriteTrace(110, 1, 0, 0.3)
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 100}, tn, dd); err != nil {
		t.Fatal(err)
	}
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 1100}, tn, dd); err != nil {
		t.Fatal(err)
	}
	if dif := math32.Abs(cn.Weight - 0.95); dif > difTol {
		t.Errorf("weight after first Adam step = %v, want 0.95", cn.Weight)
	}
	if cn.Opt.Step != 1 {
		t.Errorf("optimizer step count = %v, want 1", cn.Opt.Step)
	}
	if cn.Opt.M == 0 || cn.Opt.V == 0 {
		t.Errorf("moment estimates not updated: m=%v v=%v", cn.Opt.M, cn.Opt.V)
	}
}

func TestBatchAccumulation(t *testing.T) {
	pr := &EpropParams{}
	pr.Defaults()
	pr.Eta = 0.1
	pr.BatchSize = 3
	pr.TauPresyn = 100
	pr.Bounds = synapse.WtBounds{Wmin: 0, Wmax: 100}

	tn := newTestNode(1)
	cn := &EpropConn{}
	if err := pr.Wire(cn, tn, 0, 1); err != nil {
		t.Fatal(err)
	}
	dd := &captureDelivery{}

	tn.ea.WriteTrace(600, 1, 0, 1)
	tn.ea.WriteTrace(1600, 1, 0, 1)
	tn.ea.WriteTrace(2600, 1, 0, 1)

	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 100}, tn, dd); err != nil {
		t.Fatal(err)
	}
	for _, tm := range []float64{1100, 2100} {
		if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: tm}, tn, dd); err != nil {
			t.Fatal(err)
		}
		if cn.Weight != 1 {
			t.Fatalf("weight changed mid-batch at t=%v: %v", tm, cn.Weight)
		}
	}
	if cn.NGrads != 2 {
		t.Errorf("accumulated gradients = %v, want 2", cn.NGrads)
	}
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 3100}, tn, dd); err != nil {
		t.Fatal(err)
	}

	e5 := math32.Exp(-5)
	e10 := math32.Exp(-10)
	g1 := e5
	zb1 := e10 + 1
	g2 := zb1 * e5
	zb2 := zb1*e10 + 1
	g3 := zb2 * e5
	corWt := 1 - 0.1*(g1+g2+g3)/3
	if dif := math32.Abs(cn.Weight - corWt); dif > difTol {
		t.Errorf("weight after batch = %v, want %v", cn.Weight, corWt)
	}
	if cn.NGrads != 0 || cn.SumGrads != 0 {
		t.Errorf("batch not reset: n=%v sum=%v", cn.NGrads, cn.SumGrads)
	}
}

func TestWeightClamp(t *testing.T) {
	pr := &EpropParams{}
	pr.Defaults()
	pr.Eta = 100
	pr.Bounds = synapse.WtBounds{Wmin: 0, Wmax: 1}

	tn := newTestNode(1)
	cn := &EpropConn{}
	if err := pr.Wire(cn, tn, 0, 0.9); err != nil {
		t.Fatal(err)
	}
	dd := &captureDelivery{}
	// negative learning signal drives the weight up; clamp at Wmax
	tn.ea.WriteTrace(510, 1, 0, -5)
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 500}, tn, dd); err != nil {
		t.Fatal(err)
	}
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 1500}, tn, dd); err != nil {
		t.Fatal(err)
	}
	if cn.Weight != 1 {
		t.Errorf("weight = %v, want clamp at 1", cn.Weight)
	}
}

func TestWireRejectsPlainTarget(t *testing.T) {
	pr := &EpropParams{}
	pr.Defaults()
	pn := &plainNode{}
	cn := &EpropConn{}
	err := pr.Wire(cn, pn, 0, 1)
	if !errors.Is(err, synapse.ErrIllegalConnection) {
		t.Errorf("Wire to plain target: err = %v, want IllegalConnection", err)
	}
}

func TestBadProperties(t *testing.T) {
	mk := func(mut func(pr *EpropParams)) *EpropParams {
		pr := &EpropParams{}
		pr.Defaults()
		mut(pr)
		return pr
	}
	bad := []*EpropParams{
		mk(func(pr *EpropParams) { pr.Eta = -1 }),
		mk(func(pr *EpropParams) { pr.Beta1 = 1 }),
		mk(func(pr *EpropParams) { pr.Beta2 = -0.1 }),
		mk(func(pr *EpropParams) { pr.BatchSize = 0 }),
		mk(func(pr *EpropParams) { pr.UpdateInterval = 0 }),
		mk(func(pr *EpropParams) { pr.RecallDuration = 2000 }),
		mk(func(pr *EpropParams) { pr.ISITraceCutoff = -1 }),
		mk(func(pr *EpropParams) { pr.TauPresyn = 0 }),
	}
	for i, pr := range bad {
		if err := pr.Validate(); !errors.Is(err, synapse.ErrBadProperty) {
			t.Errorf("case %d: Validate = %v, want BadProperty", i, err)
		}
	}
}
