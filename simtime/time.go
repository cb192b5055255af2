// Copyright (c) 2024, The NEST Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package simtime implements the discrete simulation clock: a monotonically
advancing step counter together with the resolution (msec of simulated
time per step), and the quantization of conduction delays onto the step
grid.  All simulation times are expressed in msec as float64; all delays
travel the network as integer step counts so that event exchange is exact.
*/
package simtime

import (
	"fmt"
	"math"
)

// Time contains the timing state and parameters for running a model.
type Time struct {
	Step      int64   `desc:"current simulation step -- increments continuously from whenever it was last reset"`
	MsPerStep float64 `def:"0.1" desc:"simulation resolution: amount of simulated time per step, in msec"`
}

// NewTime returns a new Time struct with default parameters.
func NewTime() *Time {
	tm := &Time{}
	tm.Defaults()
	return tm
}

// Defaults sets default time constants.
func (tm *Time) Defaults() {
	tm.MsPerStep = 0.1
}

// Reset resets the step counter back to zero.
func (tm *Time) Reset() {
	tm.Step = 0
	if tm.MsPerStep == 0 {
		tm.Defaults()
	}
}

// StepInc increments the step counter by n.
func (tm *Time) StepInc(n int64) {
	tm.Step += n
}

// Ms returns the current simulation time in msec.
func (tm *Time) Ms() float64 {
	return float64(tm.Step) * tm.MsPerStep
}

// StepMs returns the simulation time of the given step, in msec.
func (tm *Time) StepMs(step int64) float64 {
	return float64(step) * tm.MsPerStep
}

// DelaySteps converts a delay in msec to an integer number of steps at the
// current resolution, rounding half up.  Returns an error for negative
// delays; a zero-msec delay maps to zero steps.
func (tm *Time) DelaySteps(ms float64) (int64, error) {
	if ms < 0 {
		return 0, fmt.Errorf("simtime.DelaySteps: delay must be non-negative, got %g msec", ms)
	}
	return int64(math.Floor(ms/tm.MsPerStep + 0.5)), nil
}

// DelayMs converts a delay in steps back to msec at the current resolution.
func (tm *Time) DelayMs(steps int64) float64 {
	return float64(steps) * tm.MsPerStep
}

// SetResolution changes the resolution and returns the previous one.
// Callers holding step-quantized delays must recalibrate them through
// DelaySteps / DelayMs against the old resolution (see synapse.Recalibrate).
func (tm *Time) SetResolution(msPerStep float64) (float64, error) {
	if msPerStep <= 0 {
		return 0, fmt.Errorf("simtime.SetResolution: resolution must be positive, got %g", msPerStep)
	}
	old := tm.MsPerStep
	tm.MsPerStep = msPerStep
	return old, nil
}
