// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package status

import (
	"sync"
)

// Audit tracks which keys of which maps have been read.  It is shared
// across workers on administrative paths only (parameter get / set), so a
// single mutex with short critical sections is sufficient; nothing on the
// per-spike hot path ever touches it.
type Audit struct {
	mu   sync.Mutex
	seen map[MapID]map[string]bool
}

// NewAudit returns a new empty Audit.
func NewAudit() *Audit {
	return &Audit{seen: make(map[MapID]map[string]bool)}
}

func (au *Audit) register(id MapID) {
	au.mu.Lock()
	defer au.mu.Unlock()
	if _, ok := au.seen[id]; !ok {
		au.seen[id] = make(map[string]bool)
	}
}

// MarkAccessed records that key of map id has been read.
func (au *Audit) MarkAccessed(id MapID, key string) {
	au.mu.Lock()
	defer au.mu.Unlock()
	ks := au.seen[id]
	if ks == nil {
		ks = make(map[string]bool)
		au.seen[id] = ks
	}
	ks[key] = true
}

// ResetMap clears the access record for one map, e.g. before replaying a
// fresh set-status pass over an existing map.
func (au *Audit) ResetMap(id MapID) {
	au.mu.Lock()
	defer au.mu.Unlock()
	au.seen[id] = make(map[string]bool)
}

// Release drops all bookkeeping for a map whose lifetime has ended.
func (au *Audit) Release(id MapID) {
	au.mu.Lock()
	defer au.mu.Unlock()
	delete(au.seen, id)
}

// accessed returns a copy of the access set for a map.
func (au *Audit) accessed(id MapID) map[string]bool {
	au.mu.Lock()
	defer au.mu.Unlock()
	out := make(map[string]bool, len(au.seen[id]))
	for k, v := range au.seen[id] {
		out[k] = v
	}
	return out
}
