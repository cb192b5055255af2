// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

// Packed is the compact per-connection word holding the synapse model
// tag, the quantized conduction delay, and the status flags, as an
// explicit fixed-width encoding:
//
//	bits  0..1   flags (disabled, source-has-more-targets)
//	bits  2..22  conduction delay in steps (21 bits)
//	bits 23..31  synapse model tag (9 bits)
//
// Encode / Decode round-trip losslessly for all legal inputs; struct
// layout is never relied upon.
type Packed uint32

const (
	flagBits  = 2
	delayBits = 21
	modelBits = 9

	delayShift = flagBits
	modelShift = flagBits + delayBits

	// MaxDelaySteps is the largest representable conduction delay, in steps.
	MaxDelaySteps = 1<<delayBits - 1

	// MaxModelTag is the largest representable synapse model tag.
	MaxModelTag = 1<<modelBits - 1
)

const (
	flagDisabled       = 1 << 0
	flagHasMoreTargets = 1 << 1
)

// EncodePacked builds a packed word from a model tag, a delay in steps,
// and the two status flags.  Range errors are BadProperty.
func EncodePacked(modelTag int, delaySteps int64, disabled, hasMoreTargets bool) (Packed, error) {
	if modelTag < 0 || modelTag > MaxModelTag {
		return 0, BadPropertyf("model tag %d outside [0, %d]", modelTag, MaxModelTag)
	}
	if delaySteps < 0 || delaySteps > MaxDelaySteps {
		return 0, BadPropertyf("delay %d steps outside [0, %d]", delaySteps, MaxDelaySteps)
	}
	p := Packed(modelTag)<<modelShift | Packed(delaySteps)<<delayShift
	if disabled {
		p |= flagDisabled
	}
	if hasMoreTargets {
		p |= flagHasMoreTargets
	}
	return p, nil
}

// ModelTag returns the synapse model tag.
func (p Packed) ModelTag() int {
	return int(p >> modelShift)
}

// DelaySteps returns the conduction delay in steps.
func (p Packed) DelaySteps() int64 {
	return int64(p>>delayShift) & MaxDelaySteps
}

// Disabled reports whether the edge is logically removed.
func (p Packed) Disabled() bool {
	return p&flagDisabled != 0
}

// HasMoreTargets reports the iteration hint that the source has further
// targets after this one.  Not semantic.
func (p Packed) HasMoreTargets() bool {
	return p&flagHasMoreTargets != 0
}

// WithDelaySteps returns a copy with the delay replaced, range-checked.
func (p Packed) WithDelaySteps(steps int64) (Packed, error) {
	if steps < 0 || steps > MaxDelaySteps {
		return p, BadPropertyf("delay %d steps outside [0, %d]", steps, MaxDelaySteps)
	}
	const mask = Packed(MaxDelaySteps) << delayShift
	return p&^mask | Packed(steps)<<delayShift, nil
}

// WithDisabled returns a copy with the disabled flag set or cleared.
func (p Packed) WithDisabled(on bool) Packed {
	if on {
		return p | flagDisabled
	}
	return p &^ flagDisabled
}

// WithHasMoreTargets returns a copy with the iteration hint set or cleared.
func (p Packed) WithHasMoreTargets(on bool) Packed {
	if on {
		return p | flagHasMoreTargets
	}
	return p &^ flagHasMoreTargets
}
