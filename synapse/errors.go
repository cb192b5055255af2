// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package synapse

import (
	"errors"
	"fmt"

	"github.com/nest/nest-simulator-sub012/status"
)

// The error taxonomy shared by all connection models.  Structural and
// configuration errors are raised at wiring time and prevent the edge
// from being created; ErrCausalityViolation is a programming-contract
// failure that aborts the current update step and is never silently
// corrected.
var (
	// ErrBadProperty: out-of-range or mutually inconsistent parameters,
	// e.g. Wmin > Wmax, tau <= 0, probability outside [0,1].
	ErrBadProperty = errors.New("bad property")

	// ErrImmutableProperty: attempt to set weight or delay on a model
	// that forbids external assignment.
	ErrImmutableProperty = errors.New("immutable property")

	// ErrUnknownReceptor: the target has no receptor port of the
	// requested type.
	ErrUnknownReceptor = errors.New("unknown receptor type")

	// ErrIllegalConnection: structural mismatch between the source event
	// type and the target's capability.
	ErrIllegalConnection = errors.New("illegal connection")

	// ErrUnaccessedParameter: a configuration map contained keys that
	// were never read during set-status.  Aliases the sentinel that
	// status.Map.ResidueErr wraps, so either name matches.
	ErrUnaccessedParameter = status.ErrUnaccessed

	// ErrCausalityViolation: an archive query returned an entry that
	// violates the expected strict time ordering.
	ErrCausalityViolation = errors.New("causality violation")
)

// BadPropertyf wraps ErrBadProperty with a formatted detail message.
func BadPropertyf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadProperty, fmt.Sprintf(format, args...))
}

// Immutablef wraps ErrImmutableProperty with a formatted detail message.
func Immutablef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrImmutableProperty, fmt.Sprintf(format, args...))
}

// Illegalf wraps ErrIllegalConnection with a formatted detail message.
func Illegalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalConnection, fmt.Sprintf(format, args...))
}

// Causalityf wraps ErrCausalityViolation with a formatted detail message.
func Causalityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCausalityViolation, fmt.Sprintf(format, args...))
}
