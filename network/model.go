// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package network wires connection models into a runnable graph: a flat
node arena addressed by integer IDs, a registry of connector models
keyed by the packed model tag, wiring-time structural checks, a ring
buffer implementing delayed event delivery, per-worker partitioned
traversal, and etable-based state reporting.

Connector models are a closed set: each couples shared common properties
with per-edge record construction, and parameters are applied to them
through params.Sheet selectors, addressed as "Model.<Field>...".
*/
package network

import (
	"sync"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/params"

	"github.com/nest/nest-simulator-sub012/status"
	"github.com/nest/nest-simulator-sub012/synapse"
)

// Record is one wired, directed edge: the model-specific connection
// state bound to its model's common properties.  Records are created
// only through a registered ConnectorModel; the set of record kinds is
// closed.
type Record interface {
	// Base returns the shared connection fields.
	Base() *synapse.Connection

	// Send processes one presynaptic spike: applies the model's
	// plasticity update and schedules the event for delayed delivery.
	Send(ev *synapse.SpikeEvent, tgt synapse.Node, dd synapse.DelayedDelivery, msPerStep float64) error

	// State returns the model-specific connection struct, for variable
	// access by name and reporting.
	State() any

	// GetStatus writes the record's state into a status map.
	GetStatus(m *status.Map, msPerStep float64)

	// SetStatus applies settable state from a status map, rejecting
	// immutable and out-of-range properties.
	SetStatus(m *status.Map, msPerStep float64) error

	// wire finishes edge construction against the checked target.
	wire(tgt synapse.Node, w float32) error
}

// ConnectorModel is one registered synapse model: shared common
// properties plus per-edge record construction.  Models implement
// params.Styler so parameter sheets can select them by name, class,
// or the generic "Model" type.
type ConnectorModel interface {
	params.Styler

	// ModelTag returns the registry-assigned tag stored in the packed
	// word of every record of this model.
	ModelTag() int

	// setModelTag is called once by the registry at registration.
	setModelTag(tag int)

	// Validate checks the common properties for consistency.
	Validate() error

	// NeedsHist reports whether records of this model read the target's
	// spike history, requiring archive registration at wiring time.
	NeedsHist() bool

	// InitWeight draws one initial weight.
	InitWeight() float32

	// NewRecord returns a blank edge record for this model.
	NewRecord() Record
}

// ModelBase is the embeddable registry identity of a connector model.
type ModelBase struct {
	Nm  string `desc:"registered model name, unique within a registry"`
	Cls string `desc:"space-separated class tags for parameter selection"`
	Tag int    `inactive:"+" desc:"registry-assigned model tag, stored packed in every record"`
}

func (mb *ModelBase) Name() string      { return mb.Nm }
func (mb *ModelBase) Class() string     { return mb.Cls }
func (mb *ModelBase) TypeName() string  { return "Model" }
func (mb *ModelBase) ModelTag() int     { return mb.Tag }
func (mb *ModelBase) setModelTag(t int) { mb.Tag = t }

// WtInitParams are initial weight random distribution parameters.
type WtInitParams struct {
	erand.RndParams
}

func (wp *WtInitParams) Defaults() {
	wp.Mean = 1
	wp.Var = 0
	wp.Dist = erand.Mean
}

// Gen draws one initial weight from the distribution.
func (wp *WtInitParams) Gen() float32 {
	return float32(wp.RndParams.Gen(-1))
}

// Registry maps model tags and names to registered connector models.
// Registration and parameter application are administrative paths and
// take the lock; tag lookup during wiring does too, but never on the
// per-spike path, where records hold their model directly.
type Registry struct {
	mu     sync.RWMutex
	byTag  map[int]ConnectorModel
	byName map[string]int
	next   int
}

func NewRegistry() *Registry {
	return &Registry{byTag: make(map[int]ConnectorModel), byName: make(map[string]int)}
}

// Register validates the model's common properties, assigns the next
// free tag, and adds the model under its name.  Duplicate names and tag
// space exhaustion are BadProperty errors.
func (rg *Registry) Register(cm ConnectorModel) (int, error) {
	if err := cm.Validate(); err != nil {
		return 0, err
	}
	rg.mu.Lock()
	defer rg.mu.Unlock()
	if cm.Name() == "" {
		return 0, synapse.BadPropertyf("model name must be non-empty")
	}
	if _, dup := rg.byName[cm.Name()]; dup {
		return 0, synapse.BadPropertyf("model %q already registered", cm.Name())
	}
	if rg.next > synapse.MaxModelTag {
		return 0, synapse.BadPropertyf("model tag space exhausted at %d", synapse.MaxModelTag)
	}
	tag := rg.next
	rg.next++
	cm.setModelTag(tag)
	rg.byTag[tag] = cm
	rg.byName[cm.Name()] = tag
	return tag, nil
}

// Model returns the model registered under tag.
func (rg *Registry) Model(tag int) (ConnectorModel, bool) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	cm, ok := rg.byTag[tag]
	return cm, ok
}

// ModelByName returns the model registered under name.
func (rg *Registry) ModelByName(name string) (ConnectorModel, bool) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	tag, ok := rg.byName[name]
	if !ok {
		return nil, false
	}
	return rg.byTag[tag], true
}

// ApplySheet applies a parameter sheet to every registered model,
// using each model's Styler identity for selector matching.  Returns
// the number of models any selector applied to.
func (rg *Registry) ApplySheet(sh *params.Sheet, setMsg bool) (int, error) {
	rg.mu.Lock()
	defer rg.mu.Unlock()
	napp := 0
	for tag := 0; tag < rg.next; tag++ {
		cm := rg.byTag[tag]
		app, err := sh.Apply(cm, setMsg)
		if err != nil {
			return napp, err
		}
		if app {
			napp++
		}
		if err := cm.Validate(); err != nil {
			return napp, err
		}
	}
	return napp, nil
}
