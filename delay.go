// Copyright 2024 Harald Albrecht.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package ilt

import (
	"math"
	"time"
)

// TicksPerMillisecond is the number of ILT ticks in a millisecond.
const TicksPerMillisecond = uint32(time.Millisecond / TickPeriod)

// MaxDelayMs is the largest delay in milliseconds that still fits into the
// interrupt generator delay register without saturating.
const MaxDelayMs = math.MaxUint32 / TicksPerMillisecond

// DelayTicks converts a delay in milliseconds into ticks. Delays that would
// overflow the 32 bit delay register saturate at [math.MaxUint32] ticks and
// report saturated as true.
func DelayTicks(ms uint32) (ticks uint32, saturated bool) {
	if ms > MaxDelayMs {
		return math.MaxUint32, true
	}
	return ms * TicksPerMillisecond, false
}

// DurationTicks converts a duration into ticks, truncating to full ticks.
// Negative durations become zero ticks, durations too long for the delay
// register saturate.
func DurationTicks(d time.Duration) (ticks uint32, saturated bool) {
	if d <= 0 {
		return 0, false
	}
	t := d / TickPeriod
	if t > math.MaxUint32 {
		return math.MaxUint32, true
	}
	return uint32(t), false
}

// SetDelayMs sets the interrupt generator delay in milliseconds, returning
// true if the delay had to be saturated.
func (r *Registers) SetDelayMs(ms uint32) (saturated bool) {
	ticks, saturated := DelayTicks(ms)
	r.SetDelayTicks(ticks)
	return saturated
}

// SetDelay sets the interrupt generator delay, returning true if the delay
// had to be saturated.
func (r *Registers) SetDelay(d time.Duration) (saturated bool) {
	ticks, saturated := DurationTicks(d)
	r.SetDelayTicks(ticks)
	return saturated
}

// SetDelayTicks sets the interrupt generator delay in raw ticks.
func (r *Registers) SetDelayTicks(ticks uint32) {
	r.bus.Store32(RegIntGenDelay, ticks)
}

// Delay returns the interrupt generator delay in raw ticks.
func (r *Registers) Delay() uint32 { return r.bus.Load32(RegIntGenDelay) }
