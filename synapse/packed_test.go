// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"errors"
	"testing"
)

func TestPackedRoundTrip(t *testing.T) {
	tags := []int{0, 1, 37, MaxModelTag}
	delays := []int64{0, 1, 1000, MaxDelaySteps}
	for _, tag := range tags {
		for _, dl := range delays {
			for _, dis := range []bool{false, true} {
				for _, more := range []bool{false, true} {
					p, err := EncodePacked(tag, dl, dis, more)
					if err != nil {
						t.Fatalf("EncodePacked(%d, %d): %v", tag, dl, err)
					}
					if p.ModelTag() != tag {
						t.Errorf("ModelTag = %d, want %d", p.ModelTag(), tag)
					}
					if p.DelaySteps() != dl {
						t.Errorf("DelaySteps = %d, want %d", p.DelaySteps(), dl)
					}
					if p.Disabled() != dis || p.HasMoreTargets() != more {
						t.Errorf("flags = %v, %v, want %v, %v", p.Disabled(), p.HasMoreTargets(), dis, more)
					}
				}
			}
		}
	}
}

func TestPackedRanges(t *testing.T) {
	if _, err := EncodePacked(MaxModelTag+1, 0, false, false); !errors.Is(err, ErrBadProperty) {
		t.Errorf("oversized tag: err = %v", err)
	}
	if _, err := EncodePacked(0, MaxDelaySteps+1, false, false); !errors.Is(err, ErrBadProperty) {
		t.Errorf("oversized delay: err = %v", err)
	}
	if _, err := EncodePacked(-1, 0, false, false); !errors.Is(err, ErrBadProperty) {
		t.Errorf("negative tag: err = %v", err)
	}
	p, _ := EncodePacked(3, 10, true, false)
	if _, err := p.WithDelaySteps(-1); !errors.Is(err, ErrBadProperty) {
		t.Errorf("negative delay: err = %v", err)
	}
}

func TestPackedFlagIndependence(t *testing.T) {
	p, _ := EncodePacked(5, 123, false, false)
	p2 := p.WithDisabled(true).WithHasMoreTargets(true)
	if p2.ModelTag() != 5 || p2.DelaySteps() != 123 {
		t.Errorf("flags clobbered tag/delay: %d, %d", p2.ModelTag(), p2.DelaySteps())
	}
	p3 := p2.WithDisabled(false)
	if p3.Disabled() || !p3.HasMoreTargets() {
		t.Errorf("flag clear clobbered other flag")
	}
}

func TestRecalibrate(t *testing.T) {
	cn := &Connection{}
	// 15 steps at 0.1 ms/step = 1.5 ms
	if err := cn.SetDelaySteps(15); err != nil {
		t.Fatal(err)
	}
	// halve the resolution: 1.5 ms = 30 steps at 0.05 ms/step
	if err := cn.Recalibrate(0.1, 0.05); err != nil {
		t.Fatal(err)
	}
	if cn.DelaySteps() != 30 {
		t.Errorf("DelaySteps = %d, want 30", cn.DelaySteps())
	}
	// and back: lossless round trip
	if err := cn.Recalibrate(0.05, 0.1); err != nil {
		t.Fatal(err)
	}
	if cn.DelaySteps() != 15 {
		t.Errorf("DelaySteps = %d, want 15", cn.DelaySteps())
	}
}

func TestWtBounds(t *testing.T) {
	wb := WtBounds{Wmin: 0, Wmax: 100}
	if err := wb.Validate(); err != nil {
		t.Fatal(err)
	}
	if w := wb.Clamp(150); w != 100 {
		t.Errorf("Clamp(150) = %v, want 100", w)
	}
	if w := wb.Clamp(-3); w != 0 {
		t.Errorf("Clamp(-3) = %v, want 0", w)
	}
	// inhibitory: negative bounds, sign of Wmax preserved
	wb = WtBounds{Wmin: -0.5, Wmax: -80}
	if err := wb.Validate(); err != nil {
		t.Fatal(err)
	}
	if s := wb.Sign(); s != -1 {
		t.Errorf("Sign = %v, want -1", s)
	}
	if w := wb.Clamp(-100); w != -80 {
		t.Errorf("Clamp(-100) = %v, want -80", w)
	}
	if w := wb.Clamp(5); w != -0.5 {
		t.Errorf("Clamp(5) = %v, want -0.5", w)
	}
	// inconsistent bounds are BadProperty
	bad := []WtBounds{
		{Wmin: -1, Wmax: 1},
		{Wmin: 2, Wmax: 1},
		{Wmin: 0, Wmax: 0},
	}
	for _, wb := range bad {
		if err := wb.Validate(); !errors.Is(err, ErrBadProperty) {
			t.Errorf("Validate(%+v) = %v, want BadProperty", wb, err)
		}
	}
}
