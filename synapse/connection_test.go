// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"errors"
	"testing"

	"github.com/nest/nest-simulator-sub012/status"
)

func TestStatusRoundTrip(t *testing.T) {
	p, _ := EncodePacked(7, 15, false, true)
	cn := &Connection{Target: 42, Rport: 1, P: p, Weight: 2.5}
	wb := WtBounds{Wmin: 0, Wmax: 100}

	aud := status.NewAudit()
	m := status.NewMap(aud)
	cn.GetStatus(m, 0.1)
	if d, _ := m.Float("delay"); d != 1.5 {
		t.Errorf("delay = %v, want 1.5", d)
	}
	if w, _ := m.Float("weight"); w != 2.5 {
		t.Errorf("weight = %v, want 2.5", w)
	}

	set := status.NewMap(aud)
	set.Set("weight", 7.0)
	set.Set("delay", 2.0)
	if err := cn.SetStatus(set, 0.1, &wb); err != nil {
		t.Fatal(err)
	}
	if err := set.ResidueErr(); err != nil {
		t.Errorf("ResidueErr = %v", err)
	}
	if cn.Weight != 7 {
		t.Errorf("Weight = %v, want 7", cn.Weight)
	}
	if cn.DelaySteps() != 20 {
		t.Errorf("DelaySteps = %d, want 20", cn.DelaySteps())
	}
	if !cn.P.HasMoreTargets() {
		t.Errorf("iteration hint lost across set-status")
	}
}

func TestSetStatusRejects(t *testing.T) {
	p, _ := EncodePacked(7, 15, false, false)
	cn := &Connection{Target: 42, Rport: 1, P: p, Weight: 2.5}
	wb := WtBounds{Wmin: 0, Wmax: 100}

	m := status.NewMap(nil)
	m.Set("target", int64(43))
	if err := cn.SetStatus(m, 0.1, &wb); !errors.Is(err, ErrImmutableProperty) {
		t.Errorf("target change: err = %v", err)
	}
	m = status.NewMap(nil)
	m.Set("weight", 1000.0)
	if err := cn.SetStatus(m, 0.1, &wb); !errors.Is(err, ErrBadProperty) {
		t.Errorf("out-of-bounds weight: err = %v", err)
	}
	m = status.NewMap(nil)
	m.Set("delay", -1.0)
	if err := cn.SetStatus(m, 0.1, &wb); !errors.Is(err, ErrBadProperty) {
		t.Errorf("negative delay: err = %v", err)
	}
}

func TestVarAccess(t *testing.T) {
	type testConn struct {
		Connection
		Kplus float32
	}
	cn := &testConn{Kplus: 0.25}
	cn.Weight = 1.5
	names := VarNames(cn)
	want := []string{"Weight", "Kplus"}
	if len(names) != len(want) {
		t.Fatalf("VarNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("VarNames[%d] = %v, want %v", i, names[i], want[i])
		}
	}
	if v, err := VarByName(cn, "Kplus"); err != nil || v != 0.25 {
		t.Errorf("VarByName(Kplus) = %v, %v", v, err)
	}
	if v, err := VarByName(cn, "Weight"); err != nil || v != 1.5 {
		t.Errorf("VarByName(Weight) = %v, %v", v, err)
	}
	if err := SetVarByName(cn, "Weight", 2); err != nil || cn.Weight != 2 {
		t.Errorf("SetVarByName(Weight) = %v, Weight = %v", err, cn.Weight)
	}
	if _, err := VarByName(cn, "Bogus"); err == nil {
		t.Errorf("VarByName(Bogus) should fail")
	}
}
