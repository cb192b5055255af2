// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package status implements the heterogeneous parameter maps used to get and
set model state, together with access auditing: every read of a key is
recorded, so that after a full set-status round trip the residue of keys
that were never consumed can be reported as a likely typo or unsupported
option.

Maps are identified by explicit integer handles issued at creation, never
by address, so audit bookkeeping is not tied to value lifetime.
*/
package status

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
)

// ErrUnaccessed is the sentinel wrapped by ResidueErr, so callers can
// classify a leftover-key failure with errors.Is across package
// boundaries.
var ErrUnaccessed = errors.New("unaccessed parameter")

// MapID is the handle issued to each Map at creation.
type MapID int64

var nextMapID int64

// Map is a heterogeneous key -> value store.  Reads through the typed
// accessors mark the key as accessed in the map's audit record.
type Map struct {
	ID    MapID
	vals  map[string]any
	audit *Audit
}

// NewMap returns a new empty Map registered with the given audit
// (nil for an unaudited map).
func NewMap(aud *Audit) *Map {
	m := &Map{
		ID:    MapID(atomic.AddInt64(&nextMapID, 1)),
		vals:  make(map[string]any),
		audit: aud,
	}
	if aud != nil {
		aud.register(m.ID)
	}
	return m
}

// Set stores a value under key.  Setting never marks access.
func (m *Map) Set(key string, v any) {
	m.vals[key] = v
}

// Has reports whether key is present, without marking access.
func (m *Map) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Keys returns all keys in sorted order, without marking access.
func (m *Map) Keys() []string {
	ks := make([]string, 0, len(m.vals))
	for k := range m.vals {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func (m *Map) mark(key string) {
	if m.audit != nil {
		m.audit.MarkAccessed(m.ID, key)
	}
}

// Float returns the float64 value under key.  ok is false if the key is
// absent or holds a non-numeric value.  Integer values convert.
func (m *Map) Float(key string) (float64, bool) {
	v, present := m.vals[key]
	if !present {
		return 0, false
	}
	m.mark(key)
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// Int returns the int64 value under key.
func (m *Map) Int(key string) (int64, bool) {
	v, present := m.vals[key]
	if !present {
		return 0, false
	}
	m.mark(key)
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	}
	return 0, false
}

// Bool returns the bool value under key.
func (m *Map) Bool(key string) (bool, bool) {
	v, present := m.vals[key]
	if !present {
		return false, false
	}
	m.mark(key)
	b, ok := v.(bool)
	return b, ok
}

// String returns the string value under key.
func (m *Map) String(key string) (string, bool) {
	v, present := m.vals[key]
	if !present {
		return "", false
	}
	m.mark(key)
	s, ok := v.(string)
	return s, ok
}

// Residue returns the sorted keys present in the map that were never
// accessed through a typed getter.  For an unaudited map it returns nil.
func (m *Map) Residue() []string {
	if m.audit == nil {
		return nil
	}
	seen := m.audit.accessed(m.ID)
	var res []string
	for k := range m.vals {
		if !seen[k] {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return res
}

// ResidueErr returns an error listing unaccessed keys, or nil if every
// key was consumed.  Intended to be called once, at the end of a full
// set-status pass, so all problems are reported together.
func (m *Map) ResidueErr() error {
	res := m.Residue()
	if len(res) == 0 {
		return nil
	}
	return fmt.Errorf("%w(s): %v", ErrUnaccessed, res)
}
