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

import "time"

// Offset of a register inside the ILT register block, in bytes.
type Offset uint32

// Register offsets inside the ILT register block.
const (
	RegCoreID         Offset = 0x00 // core identifier (R)
	RegMasterCSR      Offset = 0x04 // master control and status (RW)
	RegFRTLatchLow    Offset = 0x08 // free-running timer latch, low word (R)
	RegFRTLatchHigh   Offset = 0x0c // free-running timer latch, high word (R)
	RegIntGenDelay    Offset = 0x10 // interrupt generator delay in ticks (RW)
	RegReserved1      Offset = 0x14
	RegReserved2      Offset = 0x18
	RegReserved3      Offset = 0x1c
	RegIntAckSR       Offset = 0x20 // interrupt acknowledge (W) and status (R)
	RegIntCount       Offset = 0x24 // interrupt counter (R)
	RegMissedAck0     Offset = 0x28 // missed ACK0 counter (R)
	RegMissedAck3     Offset = 0x2c // missed ACK3 counter (R)
	RegAck0Latency    Offset = 0x30 // ACK0 latency latch (R)
	RegAck1Latency    Offset = 0x34 // ACK1 latency latch (R)
	RegAck2Latency    Offset = 0x38 // ACK2 latency latch (R)
	RegAck3Latency    Offset = 0x3c // ACK3 latency latch (R)
	NumRegisters             = 16
	RegisterBlockSize        = NumRegisters * 4
)

// TickPeriod is the duration of a single ILT timer tick.
const TickPeriod = 40 * time.Nanosecond

// Bus gives access to the 32 bit registers of a single ILT register block.
// Implementations must neither elide, merge, nor reorder accesses, as reading
// and writing registers can have side effects in the hardware.
type Bus interface {
	Load32(off Offset) uint32
	Store32(off Offset, value uint32)
}

// Registers is an opaque handle to the register block of an ILT core. It
// does not own the underlying mapping and thus becomes invalid as soon as the
// mapping gets released.
type Registers struct {
	bus Bus
}

// New returns a new register handle accessing the ILT registers through the
// specified bus.
func New(bus Bus) *Registers {
	return &Registers{bus: bus}
}

// CoreID returns the (read-only) identifier of the ILT core.
func (r *Registers) CoreID() uint32 { return r.bus.Load32(RegCoreID) }

// CSR returns the current value of the master control and status register.
func (r *Registers) CSR() uint32 { return r.bus.Load32(RegMasterCSR) }

// SetCSR writes the master control and status register.
func (r *Registers) SetCSR(value uint32) { r.bus.Store32(RegMasterCSR, value) }

// AckSR returns the current value of the interrupt acknowledge and status
// register, see also [Registers.Status].
func (r *Registers) AckSR() uint32 { return r.bus.Load32(RegIntAckSR) }

// WriteAckSR writes the interrupt acknowledge and status register. As only
// bits set to 1 trigger actions, independent writers don't need to
// read-modify-write.
func (r *Registers) WriteAckSR(value uint32) { r.bus.Store32(RegIntAckSR, value) }

// IntCount returns the cumulative number of interrupts generated.
func (r *Registers) IntCount() uint32 { return r.bus.Load32(RegIntCount) }

// MissedAck0 returns the number of interrupt cycles that didn't see an ACK0
// in time.
func (r *Registers) MissedAck0() uint32 { return r.bus.Load32(RegMissedAck0) }

// MissedAck3 returns the number of interrupt cycles that didn't see an ACK3
// in time.
func (r *Registers) MissedAck3() uint32 { return r.bus.Load32(RegMissedAck3) }

// Latency returns the raw contents of the latency latch for the specified
// stage, in ticks.
func (r *Registers) Latency(stage AckStage) uint32 {
	return r.bus.Load32(stage.latchOffset())
}

// LatencyDuration returns the contents of the latency latch for the
// specified stage, converted into a duration.
func (r *Registers) LatencyDuration(stage AckStage) time.Duration {
	return Ticks(r.Latency(stage))
}

// Ticks converts the specified number of ILT ticks into a duration.
func Ticks(ticks uint32) time.Duration {
	return time.Duration(ticks) * TickPeriod
}
