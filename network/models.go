// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package network

import (
	"github.com/nest/nest-simulator-sub012/eprop"
	"github.com/nest/nest-simulator-sub012/status"
	"github.com/nest/nest-simulator-sub012/stdp"
	"github.com/nest/nest-simulator-sub012/stp"
	"github.com/nest/nest-simulator-sub012/synapse"
)

//////////////////////////////////////////////////////////////////////////////////////
//  StaticModel

// StaticModel is the non-plastic connection: fixed weight, fixed delay.
type StaticModel struct {
	ModelBase
	WtInit WtInitParams `view:"inline" desc:"initial weight distribution"`
}

func NewStaticModel(name string) *StaticModel {
	m := &StaticModel{}
	m.Nm = name
	m.Cls = "static"
	m.WtInit.Defaults()
	return m
}

func (m *StaticModel) Validate() error     { return nil }
func (m *StaticModel) NeedsHist() bool     { return false }
func (m *StaticModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *StaticModel) NewRecord() Record   { return &staticRecord{model: m} }

type staticRecord struct {
	model *StaticModel
	conn  synapse.Connection
}

func (r *staticRecord) Base() *synapse.Connection { return &r.conn }
func (r *staticRecord) State() any                { return &r.conn }

func (r *staticRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Weight = w
	return nil
}

func (r *staticRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	if r.conn.Disabled() {
		return nil
	}
	ev.Weight = r.conn.Weight
	ev.DelaySteps = r.conn.DelaySteps()
	dd.Schedule(ev)
	return nil
}

func (r *staticRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
}

func (r *staticRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, nil)
}

//////////////////////////////////////////////////////////////////////////////////////
//  StdpModel

// StdpModel is pairwise spike-timing-dependent plasticity with a
// selectable weight-dependence rule.
type StdpModel struct {
	ModelBase
	STDP   stdp.STDPParams `view:"inline" desc:"plasticity common properties"`
	WtInit WtInitParams    `view:"inline" desc:"initial weight distribution"`
}

func NewStdpModel(name string) *StdpModel {
	m := &StdpModel{}
	m.Nm = name
	m.Cls = "plastic pairwise"
	m.STDP.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *StdpModel) Validate() error     { return m.STDP.Validate() }
func (m *StdpModel) NeedsHist() bool     { return true }
func (m *StdpModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *StdpModel) NewRecord() Record   { return &stdpRecord{model: m} }

type stdpRecord struct {
	model *StdpModel
	conn  stdp.STDPConn
}

func (r *stdpRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *stdpRecord) State() any                { return &r.conn }

func (r *stdpRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Init(w)
	return nil
}

func (r *stdpRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.STDP.Send(&r.conn, ev, tgt, dd, msPerStep)
}

func (r *stdpRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("Kplus", float64(r.conn.Kplus))
}

func (r *stdpRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, &r.model.STDP.Bounds)
}

//////////////////////////////////////////////////////////////////////////////////////
//  StdpHomModel

// StdpHomModel is the homogeneous power-law STDP variant: all plasticity
// constants live here in the common properties and the update acts on
// the raw weight.
type StdpHomModel struct {
	ModelBase
	PL     stdp.PLParams `view:"inline" desc:"power-law plasticity common properties"`
	WtInit WtInitParams  `view:"inline" desc:"initial weight distribution"`
}

func NewStdpHomModel(name string) *StdpHomModel {
	m := &StdpHomModel{}
	m.Nm = name
	m.Cls = "plastic pairwise hom"
	m.PL.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *StdpHomModel) Validate() error     { return m.PL.Validate() }
func (m *StdpHomModel) NeedsHist() bool     { return true }
func (m *StdpHomModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *StdpHomModel) NewRecord() Record   { return &stdpHomRecord{model: m} }

type stdpHomRecord struct {
	model *StdpHomModel
	conn  stdp.STDPConn
}

func (r *stdpHomRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *stdpHomRecord) State() any                { return &r.conn }

func (r *stdpHomRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Init(w)
	return nil
}

func (r *stdpHomRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.PL.Send(&r.conn, ev, tgt, dd, msPerStep)
}

func (r *stdpHomRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("Kplus", float64(r.conn.Kplus))
}

func (r *stdpHomRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, &r.model.PL.Bounds)
}

//////////////////////////////////////////////////////////////////////////////////////
//  TripletModel

// TripletModel is triplet STDP after Pfister & Gerstner (2006).
type TripletModel struct {
	ModelBase
	Triplet stdp.TripletParams `view:"inline" desc:"plasticity common properties"`
	WtInit  WtInitParams       `view:"inline" desc:"initial weight distribution"`
}

func NewTripletModel(name string) *TripletModel {
	m := &TripletModel{}
	m.Nm = name
	m.Cls = "plastic triplet"
	m.Triplet.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *TripletModel) Validate() error     { return m.Triplet.Validate() }
func (m *TripletModel) NeedsHist() bool     { return true }
func (m *TripletModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *TripletModel) NewRecord() Record   { return &tripletRecord{model: m} }

type tripletRecord struct {
	model *TripletModel
	conn  stdp.TripletConn
}

func (r *tripletRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *tripletRecord) State() any                { return &r.conn }

func (r *tripletRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Init(w)
	return nil
}

func (r *tripletRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.Triplet.Send(&r.conn, ev, tgt, dd, msPerStep)
}

func (r *tripletRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("Kplus", float64(r.conn.Kplus))
	m.Set("Kplus_triplet", float64(r.conn.KplusTriplet))
}

func (r *tripletRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, &r.model.Triplet.Bounds)
}

//////////////////////////////////////////////////////////////////////////////////////
//  SymmetricModel

// SymmetricModel is the symmetric inhibitory rule of Vogels & Sprekeler
// (2011).  Weights are learned, never externally assigned.
type SymmetricModel struct {
	ModelBase
	Sym    stdp.SymParams `view:"inline" desc:"plasticity common properties"`
	WtInit WtInitParams   `view:"inline" desc:"initial weight distribution"`
}

func NewSymmetricModel(name string) *SymmetricModel {
	m := &SymmetricModel{}
	m.Nm = name
	m.Cls = "plastic symmetric"
	m.Sym.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *SymmetricModel) Validate() error     { return m.Sym.Validate() }
func (m *SymmetricModel) NeedsHist() bool     { return true }
func (m *SymmetricModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *SymmetricModel) NewRecord() Record   { return &symRecord{model: m} }

type symRecord struct {
	model *SymmetricModel
	conn  stdp.STDPConn
}

func (r *symRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *symRecord) State() any                { return &r.conn }

func (r *symRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Init(w)
	return nil
}

func (r *symRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.Sym.Send(&r.conn, ev, tgt, dd, msPerStep)
}

func (r *symRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("Kplus", float64(r.conn.Kplus))
}

func (r *symRecord) SetStatus(m *status.Map, msPerStep float64) error {
	if m.Has("weight") {
		return synapse.Immutablef("weight of a symmetric connection is learned, not assigned")
	}
	return r.conn.SetStatus(m, msPerStep, &r.model.Sym.Bounds)
}

//////////////////////////////////////////////////////////////////////////////////////
//  StpModel

// StpModel is Tsodyks-Markram short-term plasticity.
type StpModel struct {
	ModelBase
	STP    stp.STPParams `view:"inline" desc:"pool common properties"`
	WtInit WtInitParams  `view:"inline" desc:"initial weight distribution"`
}

func NewStpModel(name string) *StpModel {
	m := &StpModel{}
	m.Nm = name
	m.Cls = "stp"
	m.STP.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *StpModel) Validate() error     { return m.STP.Validate() }
func (m *StpModel) NeedsHist() bool     { return false }
func (m *StpModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *StpModel) NewRecord() Record   { return &stpRecord{model: m} }

type stpRecord struct {
	model *StpModel
	conn  stp.STPConn
}

func (r *stpRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *stpRecord) State() any                { return &r.conn }

func (r *stpRecord) wire(tgt synapse.Node, w float32) error {
	r.conn.Init(&r.model.STP, w)
	return nil
}

func (r *stpRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.STP.Send(&r.conn, ev, dd)
}

func (r *stpRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("u", float64(r.conn.U))
	m.Set("x", float64(r.conn.X))
}

func (r *stpRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, nil)
}

//////////////////////////////////////////////////////////////////////////////////////
//  EpropModel

// EpropModel is the eligibility-propagation connection.  Wiring
// requires a target that records eligibility traces.
type EpropModel struct {
	ModelBase
	Eprop  eprop.EpropParams `view:"inline" desc:"learning common properties"`
	WtInit WtInitParams      `view:"inline" desc:"initial weight distribution"`
}

func NewEpropModel(name string) *EpropModel {
	m := &EpropModel{}
	m.Nm = name
	m.Cls = "plastic eprop"
	m.Eprop.Defaults()
	m.WtInit.Defaults()
	return m
}

func (m *EpropModel) Validate() error     { return m.Eprop.Validate() }
func (m *EpropModel) NeedsHist() bool     { return false }
func (m *EpropModel) InitWeight() float32 { return m.WtInit.Gen() }
func (m *EpropModel) NewRecord() Record   { return &epropRecord{model: m} }

type epropRecord struct {
	model *EpropModel
	conn  eprop.EpropConn
}

func (r *epropRecord) Base() *synapse.Connection { return &r.conn.Connection }
func (r *epropRecord) State() any                { return &r.conn }

func (r *epropRecord) wire(tgt synapse.Node, w float32) error {
	return r.model.Eprop.Wire(&r.conn, tgt, r.conn.Rport, w)
}

func (r *epropRecord) Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error {
	return r.model.Eprop.Send(&r.conn, ev, tgt, dd)
}

func (r *epropRecord) GetStatus(m *status.Map, msPerStep float64) {
	r.conn.GetStatus(m, msPerStep)
	m.Set("sum_grads", float64(r.conn.SumGrads))
	m.Set("z_bar", float64(r.conn.ZBar))
}

func (r *epropRecord) SetStatus(m *status.Map, msPerStep float64) error {
	return r.conn.SetStatus(m, msPerStep, &r.model.Eprop.Bounds)
}
