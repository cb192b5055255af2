// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stp

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"

	"github.com/nest/nest-simulator-sub012/synapse"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

type captureDelivery struct {
	evs []synapse.SpikeEvent
}

func (cd *captureDelivery) Schedule(ev *synapse.SpikeEvent) { cd.evs = append(cd.evs, *ev) }
func (cd *captureDelivery) ValueAt(lag int64) float64       { return 0 }

// TestDepressionScenario is the reference scenario: U = 0.5,
// tau_rec = 800 ms, tau_fac = 0, two traversals 100 ms apart.  x after
// the second traversal must equal 1 - 0.5*exp(-0.125), and in the
// read-before variant the delivered amplitude uses the pre-update pool
// from the first traversal.
func TestDepressionScenario(t *testing.T) {
	for _, variant := range []Variant{ReadAfterUpdate, ReadBeforeUpdate} {
		pr := &STPParams{}
		pr.Defaults()
		pr.Variant = variant
		if err := pr.Validate(); err != nil {
			t.Fatal(err)
		}

		cn := &STPConn{}
		cn.Init(pr, 2)
		dd := &captureDelivery{}

		// first traversal after a long quiescence: pool fully recovered
		ev := &synapse.SpikeEvent{Stamp: 80000}
		if err := pr.Send(cn, ev, dd); err != nil {
			t.Fatal(err)
		}
		if dif := math32.Abs(cn.X - 1); dif > difTol {
			t.Errorf("%v: x after first traversal = %v, want 1", variant, cn.X)
		}
		if dif := math32.Abs(cn.U - 0.5); dif > difTol {
			t.Errorf("%v: u after first traversal = %v, want 0.5", variant, cn.U)
		}

		ev = &synapse.SpikeEvent{Stamp: 80100}
		if err := pr.Send(cn, ev, dd); err != nil {
			t.Fatal(err)
		}
		wantX := 1 - 0.5*math32.Exp(-0.125)
		if dif := math32.Abs(cn.X - wantX); dif > difTol {
			t.Errorf("%v: x after second traversal = %v, want %v", variant, cn.X, wantX)
		}
		got := dd.evs[len(dd.evs)-1].Weight
		var want float32
		switch variant {
		case ReadBeforeUpdate:
			want = 1 * 0.5 * 2 // pre-update pool from the first traversal
		case ReadAfterUpdate:
			want = wantX * 0.5 * 2
		}
		if dif := math32.Abs(got - want); dif > difTol {
			t.Errorf("%v: delivered weight = %v, want %v", variant, got, want)
		}
		// the static weight itself is never touched
		if cn.Weight != 2 {
			t.Errorf("%v: static weight = %v, want 2", variant, cn.Weight)
		}
	}
}

func TestFacilitation(t *testing.T) {
	pr := &STPParams{}
	pr.Defaults()
	pr.U = 0.2
	pr.TauFac = 1000
	pr.TauRec = 100

	cn := &STPConn{}
	cn.Init(pr, 1)
	dd := &captureDelivery{}

	ev := &synapse.SpikeEvent{Stamp: 50000}
	if err := pr.Send(cn, ev, dd); err != nil {
		t.Fatal(err)
	}
	u1 := cn.U
	ev = &synapse.SpikeEvent{Stamp: 50010}
	if err := pr.Send(cn, ev, dd); err != nil {
		t.Fatal(err)
	}
	// u = U + u*(1-U)*exp(-10/1000): facilitation raises u above baseline
	wantU := 0.2 + u1*0.8*math32.Exp(-10.0/1000.0)
	if dif := math32.Abs(cn.U - wantU); dif > difTol {
		t.Errorf("u = %v, want %v", cn.U, wantU)
	}
	if cn.U <= u1 {
		t.Errorf("facilitation did not raise u: %v <= %v", cn.U, u1)
	}
}

func TestPoolBounds(t *testing.T) {
	// u and x stay in [0,1] for all non-negative h and valid parameters
	cases := []STPParams{
		{U: 0.1, TauRec: 50, TauFac: 2000},
		{U: 0.9, TauRec: 800, TauFac: 0},
		{U: 1.0, TauRec: 10, TauFac: 10},
		{U: 0.5, TauRec: 1000, TauFac: 500},
	}
	isis := []float64{0, 0.1, 1, 10, 100, 5000}
	for _, pr := range cases {
		if err := pr.Validate(); err != nil {
			t.Fatal(err)
		}
		cn := &STPConn{}
		cn.Init(&pr, 1)
		dd := &captureDelivery{}
		tm := 0.0
		for i := 0; i < 300; i++ {
			tm += isis[i%len(isis)]
			ev := &synapse.SpikeEvent{Stamp: tm}
			if err := pr.Send(cn, ev, dd); err != nil {
				t.Fatal(err)
			}
			if cn.U < 0 || cn.U > 1 || cn.X < 0 || cn.X > 1 {
				t.Fatalf("%+v: pool escaped [0,1]: u=%v x=%v at step %d", pr, cn.U, cn.X, i)
			}
		}
	}
}

func TestBadProperties(t *testing.T) {
	bad := []STPParams{
		{U: -0.1, TauRec: 800},
		{U: 1.5, TauRec: 800},
		{U: 0.5, TauRec: 0},
		{U: 0.5, TauRec: -10},
		{U: 0.5, TauRec: 800, TauFac: -1},
	}
	for _, pr := range bad {
		if err := pr.Validate(); !errors.Is(err, synapse.ErrBadProperty) {
			t.Errorf("Validate(%+v) = %v, want BadProperty", pr, err)
		}
	}
}

func TestTraversalOrder(t *testing.T) {
	pr := &STPParams{}
	pr.Defaults()
	cn := &STPConn{}
	cn.Init(pr, 1)
	dd := &captureDelivery{}
	if err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 100}, dd); err != nil {
		t.Fatal(err)
	}
	err := pr.Send(cn, &synapse.SpikeEvent{Stamp: 50}, dd)
	if !errors.Is(err, synapse.ErrCausalityViolation) {
		t.Errorf("backwards traversal: err = %v, want CausalityViolation", err)
	}
}
