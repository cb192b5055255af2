// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package synapse implements the core directed-edge representation shared
by all plasticity models: the compact packed delay / model-tag / flags
word, the spike event and delivery interfaces, wiring-time connection
checks, weight bounds, and the error taxonomy.

A Connection is never shared by two edges, and copying a record never
aliases archive state: connections hold only read positions into the
target's archive, expressed as times, never container internals.
*/
package synapse

import (
	"github.com/emer/etable/minmax"
	"github.com/goki/mat32"

	"github.com/nest/nest-simulator-sub012/status"
)

// WtBounds are the per-model weight bounds [Wmin, Wmax].  The sign of a
// bounded weight always matches the sign of Wmax, supporting inhibitory
// models with negative bounds.  Magnitudes satisfy |Wmin| <= |Wmax|.
type WtBounds struct {
	Wmin float32 `desc:"lower weight bound (by magnitude); same sign as Wmax or zero"`
	Wmax float32 `def:"100" desc:"upper weight bound; negative for inhibitory models"`
}

func (wb *WtBounds) Defaults() {
	wb.Wmin = 0
	wb.Wmax = 100
}

func (wb *WtBounds) Update() {
}

// Validate checks sign consistency and magnitude ordering of the bounds.
func (wb *WtBounds) Validate() error {
	if wb.Wmax == 0 {
		return BadPropertyf("Wmax must be non-zero")
	}
	if wb.Wmin != 0 && mat32.Sign(wb.Wmin) != mat32.Sign(wb.Wmax) {
		return BadPropertyf("Wmin %g and Wmax %g differ in sign", wb.Wmin, wb.Wmax)
	}
	if mat32.Abs(wb.Wmin) > mat32.Abs(wb.Wmax) {
		return BadPropertyf("|Wmin| %g exceeds |Wmax| %g", wb.Wmin, wb.Wmax)
	}
	return nil
}

// Sign returns the sign of Wmax: +1 or -1.
func (wb *WtBounds) Sign() float32 {
	if wb.Wmax < 0 {
		return -1
	}
	return 1
}

// Range returns the numerically ordered weight range.
func (wb *WtBounds) Range() minmax.F32 {
	if wb.Wmax < 0 {
		return minmax.F32{Min: wb.Wmax, Max: wb.Wmin}
	}
	return minmax.F32{Min: wb.Wmin, Max: wb.Wmax}
}

// Clamp clips a weight into [Wmin, Wmax], preserving the model's sign.
func (wb *WtBounds) Clamp(w float32) float32 {
	r := wb.Range()
	return mat32.Clamp(w, r.Min, r.Max)
}

// Contains reports whether w lies within the bounds.
func (wb *WtBounds) Contains(w float32) bool {
	r := wb.Range()
	return w >= r.Min && w <= r.Max
}

// Connection is the base state of one directed, delayed edge.  Model
// packages embed it and add their plasticity state.
type Connection struct {
	Target NodeID  `desc:"arena index of the target node"`
	Rport  int     `desc:"resolved receptor port on the target"`
	P      Packed  `view:"-" desc:"packed model tag, delay steps, and status flags"`
	Weight float32 `desc:"current synaptic weight"`
}

// DelaySteps returns the conduction delay in steps.
func (cn *Connection) DelaySteps() int64 {
	return cn.P.DelaySteps()
}

// SetDelaySteps sets the conduction delay, range-checked against the
// packed encoding.
func (cn *Connection) SetDelaySteps(steps int64) error {
	p, err := cn.P.WithDelaySteps(steps)
	if err != nil {
		return err
	}
	cn.P = p
	return nil
}

// Disabled reports whether the edge is logically removed.  A disabled
// record may be skipped during iteration but never delivers events;
// its memory is retained.
func (cn *Connection) Disabled() bool {
	return cn.P.Disabled()
}

// SetDisabled sets or clears the disabled flag.
func (cn *Connection) SetDisabled(on bool) {
	cn.P = cn.P.WithDisabled(on)
}

// Recalibrate re-encodes the packed delay after the global step size
// changed from oldMsPerStep to newMsPerStep, preserving the delay in
// msec.  Lossless for any delay representable at both resolutions;
// returns BadProperty if the new resolution cannot represent it.
func (cn *Connection) Recalibrate(oldMsPerStep, newMsPerStep float64) error {
	if oldMsPerStep <= 0 || newMsPerStep <= 0 {
		return BadPropertyf("resolution must be positive: old %g, new %g", oldMsPerStep, newMsPerStep)
	}
	ms := float64(cn.P.DelaySteps()) * oldMsPerStep
	steps := int64(ms/newMsPerStep + 0.5)
	return cn.SetDelaySteps(steps)
}

// GetStatus writes the base connection state into a status map.
func (cn *Connection) GetStatus(m *status.Map, msPerStep float64) {
	m.Set("target", int64(cn.Target))
	m.Set("receptor", int64(cn.Rport))
	m.Set("delay", float64(cn.P.DelaySteps())*msPerStep)
	m.Set("weight", float64(cn.Weight))
	m.Set("synapse_model_id", int64(cn.P.ModelTag()))
	m.Set("disabled", cn.Disabled())
}

// SetStatus applies base connection state from a status map.  The target
// and model tag are identity, not properties: attempting to change them
// is an ImmutableProperty error.  Weight and delay changes are bound
// checked; models that forbid external weight assignment override this.
func (cn *Connection) SetStatus(m *status.Map, msPerStep float64, wb *WtBounds) error {
	if tg, ok := m.Int("target"); ok && NodeID(tg) != cn.Target {
		return Immutablef("target cannot be changed after wiring")
	}
	if mt, ok := m.Int("synapse_model_id"); ok && int(mt) != cn.P.ModelTag() {
		return Immutablef("synapse model cannot be changed after wiring")
	}
	if rp, ok := m.Int("receptor"); ok && int(rp) != cn.Rport {
		return Immutablef("receptor cannot be changed after wiring")
	}
	if d, ok := m.Float("delay"); ok {
		if d < 0 {
			return BadPropertyf("delay must be non-negative, got %g msec", d)
		}
		if err := cn.SetDelaySteps(int64(d/msPerStep + 0.5)); err != nil {
			return err
		}
	}
	if w, ok := m.Float("weight"); ok {
		if wb != nil && !wb.Contains(float32(w)) {
			return BadPropertyf("weight %g outside [%g, %g]", w, wb.Wmin, wb.Wmax)
		}
		cn.Weight = float32(w)
	}
	if dis, ok := m.Bool("disabled"); ok {
		cn.SetDisabled(dis)
	}
	return nil
}
