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

// Package simcore provides a software model of the ILT core's register
// block and timing behavior, raising a shared interrupt line whenever the
// core generates an interrupt.
//
// Time in the model only advances when told so using [Core.Advance], or in
// real time when running [Core.Run].
package simcore

import (
	"context"
	"sync"
	"time"

	"github.com/thediveo/ilt"
	"github.com/thediveo/ilt/relay"
)

// DefaultCoreID is the core ID reported by a simulated core unless
// configured otherwise.
const DefaultCoreID = 0x11700100

// csrStored are the master CSR bits that read back as written; the start
// delay counter bit as well as the FRT bits are strobes.
const csrStored = ilt.CSRModeMask | ilt.CSREnable

// Core is a simulated ILT core. It implements [ilt.Bus] so that it can be
// accessed through [ilt.Registers] just like a memory-mapped hardware core.
type Core struct {
	mu   sync.Mutex
	line *relay.Line

	coreID     uint32
	irqLatency uint64 // ticks between interrupt and raising the line

	now            uint64 // simulated time in ticks, never cleared
	csr            uint32
	frtBase        uint64 // simulated time when the FRT was last cleared
	frtLatch       uint64
	frtValid       bool
	frtOverwritten bool
	delay          uint32

	delayRunning   bool
	delayRemaining uint64
	raisePending   bool
	raiseAt        uint64

	intCount   uint32
	missedAck0 uint32
	missedAck3 uint32

	ack0Wait  bool
	ack3Wait  bool
	pendingAt uint64 // when the current interrupt became pending
	ack0At    uint64 // when the current interrupt got ACK0'ed

	latches     [ilt.NumAckStages]uint32
	valid       uint32 // per-stage latch valid bits
	overwritten uint32 // per-stage latch overwritten bits
}

var _ ilt.Bus = (*Core)(nil)

// Option configures a simulated core.
type Option func(*Core)

// WithCoreID sets the core ID register value.
func WithCoreID(id uint32) Option {
	return func(c *Core) { c.coreID = id }
}

// WithIRQLatency sets the number of ticks between the core generating an
// interrupt and the interrupt line getting raised, which then shows up as
// the ACK0 (“OS”) latency.
func WithIRQLatency(ticks uint32) Option {
	return func(c *Core) { c.irqLatency = uint64(ticks) }
}

// New returns a new simulated ILT core that raises the specified interrupt
// line. The core starts disabled.
func New(line *relay.Line, opts ...Option) *Core {
	c := &Core{
		line:   line,
		coreID: DefaultCoreID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load32 returns the value of the register at the specified offset.
func (c *Core) Load32(off ilt.Offset) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch off {
	case ilt.RegCoreID:
		return c.coreID
	case ilt.RegMasterCSR:
		csr := c.csr
		if c.frtValid {
			csr |= ilt.CSRFRTLatchValidLow | ilt.CSRFRTLatchValidHigh
		}
		if c.frtOverwritten {
			csr |= ilt.CSRFRTOverwrittenLow | ilt.CSRFRTOverwrittenHigh
		}
		return csr
	case ilt.RegFRTLatchLow:
		return uint32(c.frtLatch)
	case ilt.RegFRTLatchHigh:
		return uint32(c.frtLatch >> 32)
	case ilt.RegIntGenDelay:
		return c.delay
	case ilt.RegIntAckSR:
		return c.status()
	case ilt.RegIntCount:
		return c.intCount
	case ilt.RegMissedAck0:
		return c.missedAck0
	case ilt.RegMissedAck3:
		return c.missedAck3
	case ilt.RegAck0Latency, ilt.RegAck1Latency, ilt.RegAck2Latency, ilt.RegAck3Latency:
		return c.latches[(off-ilt.RegAck0Latency)/4]
	}
	return 0
}

// Store32 writes the register at the specified offset, triggering the
// register's side effects.
func (c *Core) Store32(off ilt.Offset, value uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch off {
	case ilt.RegMasterCSR:
		c.writeCSR(value)
	case ilt.RegIntGenDelay:
		c.delay = value
	case ilt.RegIntAckSR:
		c.writeAckSR(value)
	}
}

func (c *Core) enabled() bool { return c.csr&ilt.CSREnable != 0 }

func (c *Core) mode() ilt.IRGMode { return ilt.IRGMode(c.csr & ilt.CSRModeMask) }

func (c *Core) status() uint32 {
	st := c.valid | c.overwritten<<4
	if c.delayRunning {
		st |= ilt.StatusDelayCounterRunning
	}
	if c.ack0Wait || c.ack3Wait {
		st |= ilt.StatusLatencyCounterRunning
	}
	if c.ack3Wait {
		st |= ilt.StatusAck3Wait
	}
	if c.ack0Wait {
		st |= ilt.StatusAck0Wait
	}
	return st
}

func (c *Core) writeCSR(value uint32) {
	wasEnabled := c.enabled()
	c.csr = value & csrStored
	if wasEnabled && !c.enabled() {
		c.reset()
	}
	if value&ilt.CSRFRTLatch != 0 {
		if c.frtValid {
			c.frtOverwritten = true
		}
		c.frtLatch = c.now - c.frtBase
		c.frtValid = true
	}
	if value&ilt.CSRFRTClear != 0 {
		c.frtBase = c.now
	}
	if value&ilt.CSRStartDelayCounter != 0 {
		c.startDelay()
	}
}

// reset stops any ongoing interrupt cycle when the core gets disabled.
func (c *Core) reset() {
	c.delayRunning = false
	c.delayRemaining = 0
	c.raisePending = false
	c.ack0Wait = false
	c.ack3Wait = false
}

func (c *Core) startDelay() {
	if !c.enabled() || c.mode() == ilt.Disabled {
		return
	}
	c.delayRunning = true
	c.delayRemaining = max(uint64(c.delay), 1)
}

func (c *Core) writeAckSR(value uint32) {
	if value&ilt.AckSRAck0 != 0 && c.ack0Wait {
		c.ack0Wait = false
		c.ack3Wait = true
		c.ack0At = c.now
		c.latch(ilt.Ack0, c.now-c.pendingAt)
		if c.mode() == ilt.DelayAfterAck0 {
			c.startDelay()
		}
	}
	for _, stage := range []ilt.AckStage{ilt.Ack1, ilt.Ack2} {
		if value&stage.AckBit() != 0 && c.ack3Wait {
			c.latch(stage, c.now-c.ack0At)
		}
	}
	if value&ilt.AckSRAck3 != 0 && c.ack3Wait {
		c.ack3Wait = false
		c.latch(ilt.Ack3, c.now-c.ack0At)
		if c.mode() == ilt.DelayAfterAck3 {
			c.startDelay()
		}
	}
	for stage := ilt.Ack0; stage <= ilt.Ack3; stage++ {
		if value&stage.ClearLatchBit() != 0 {
			c.latches[stage] = 0
			c.valid &^= 1 << stage
			c.overwritten &^= 1 << stage
		}
	}
	if value&(ilt.AckSRClearIntCount|ilt.AckSRClearAllCounters) != 0 {
		c.intCount = 0
	}
	if value&(ilt.AckSRClearMissedAck0|ilt.AckSRClearAllCounters) != 0 {
		c.missedAck0 = 0
	}
	if value&(ilt.AckSRClearMissedAck3|ilt.AckSRClearAllCounters) != 0 {
		c.missedAck3 = 0
	}
}

func (c *Core) latch(stage ilt.AckStage, ticks uint64) {
	bit := uint32(1) << stage
	if c.valid&bit != 0 {
		c.overwritten |= bit
	}
	c.valid |= bit
	c.latches[stage] = uint32(min(ticks, uint64(^uint32(0))))
}

// fire generates a new interrupt, accounting for any unacknowledged previous
// interrupt cycle.
func (c *Core) fire() {
	if c.ack0Wait {
		c.missedAck0++
	}
	if c.ack3Wait {
		c.missedAck3++
		c.ack3Wait = false
	}
	c.ack0Wait = true
	c.pendingAt = c.now
	c.intCount++
	if !c.raisePending {
		c.raisePending = true
		c.raiseAt = c.now + c.irqLatency
	}
	if c.mode() == ilt.FreeRunning {
		c.delayRemaining = max(uint64(c.delay), 1)
		return
	}
	c.delayRunning = false
}

// Advance advances the simulated time by the specified number of ticks,
// generating interrupts as the delay counter expires. The interrupt line is
// raised without holding the core's lock, so that interrupt handlers can
// access the core's registers.
func (c *Core) Advance(ticks uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		step := ticks
		if c.delayRunning {
			step = min(step, c.delayRemaining)
		}
		if c.raisePending {
			step = min(step, c.raiseAt-c.now)
		}
		c.now += step
		ticks -= step
		if c.delayRunning {
			c.delayRemaining -= step
			if c.delayRemaining == 0 {
				c.fire()
			}
		}
		if c.raisePending && c.now == c.raiseAt {
			c.raisePending = false
			if c.line != nil {
				c.mu.Unlock()
				c.line.Raise()
				c.mu.Lock()
			}
			continue
		}
		if ticks == 0 {
			return
		}
	}
}

// Run advances the simulated time in (coarse) real time until the context
// gets cancelled. Every period, the simulated time advances by the ticks
// corresponding to this period.
func (c *Core) Run(ctx context.Context, period time.Duration) {
	ticks, _ := ilt.DurationTicks(period)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance(uint64(ticks))
		}
	}
}

// FRT returns the current (unlatched) free-running timer value.
func (c *Core) FRT() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now - c.frtBase
}
