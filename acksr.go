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

import "fmt"

// Bits of the interrupt acknowledge and status register when writing.
const (
	AckSRAck0             uint32 = 1 << 0
	AckSRAck1             uint32 = 1 << 1
	AckSRAck2             uint32 = 1 << 2
	AckSRAck3             uint32 = 1 << 3
	AckSRClearLatch0      uint32 = 1 << 4
	AckSRClearLatch1      uint32 = 1 << 5
	AckSRClearLatch2      uint32 = 1 << 6
	AckSRClearLatch3      uint32 = 1 << 7
	AckSRClearIntCount    uint32 = 1 << 8
	AckSRClearMissedAck0  uint32 = 1 << 9
	AckSRClearMissedAck3  uint32 = 1 << 10
	AckSRClearAllCounters uint32 = 1 << 31

	// all counter clearing bits
	AckSRClearCounters = AckSRClearIntCount | AckSRClearMissedAck0 |
		AckSRClearMissedAck3 | AckSRClearAllCounters
)

// Bits of the interrupt acknowledge and status register when reading.
const (
	StatusValid0                uint32 = 1 << 0
	StatusValid1                uint32 = 1 << 1
	StatusValid2                uint32 = 1 << 2
	StatusValid3                uint32 = 1 << 3
	StatusOverwritten0          uint32 = 1 << 4
	StatusOverwritten1          uint32 = 1 << 5
	StatusOverwritten2          uint32 = 1 << 6
	StatusOverwritten3          uint32 = 1 << 7
	StatusDelayCounterRunning   uint32 = 1 << 8
	StatusLatencyCounterRunning uint32 = 1 << 9
	StatusAck3Wait              uint32 = 1 << 16
	StatusAck0Wait              uint32 = 1 << 24
)

// AckStage identifies one of the four acknowledgment stages of an interrupt
// cycle. Stage 0 is acknowledged from the kernel's interrupt handler, stage 3
// from user space. Stages 1 and 2 are unused, but have the same bit layout.
type AckStage uint8

// The four acknowledgment stages.
const (
	Ack0 AckStage = iota
	Ack1
	Ack2
	Ack3
)

// NumAckStages is the number of acknowledgment stages of the ILT core.
const NumAckStages = 4

// Valid returns true if s is one of the four acknowledgment stages.
func (s AckStage) Valid() bool { return s < NumAckStages }

// AckBit returns the bit to write into the interrupt acknowledge register in
// order to acknowledge this stage.
func (s AckStage) AckBit() uint32 { return AckSRAck0 << s.must() }

// ClearLatchBit returns the bit to write into the interrupt acknowledge
// register in order to clear this stage's latency latch.
func (s AckStage) ClearLatchBit() uint32 { return AckSRClearLatch0 << s.must() }

func (s AckStage) latchOffset() Offset { return RegAck0Latency + Offset(s.must())*4 }

func (s AckStage) String() string {
	if !s.Valid() {
		return fmt.Sprintf("AckStage(%d)", uint8(s))
	}
	return fmt.Sprintf("ACK%d", uint8(s))
}

// must panics for invalid stages, as these always are programming errors.
func (s AckStage) must() AckStage {
	if !s.Valid() {
		panic(fmt.Sprintf("ilt: invalid acknowledgment stage %d", uint8(s)))
	}
	return s
}

// Ack acknowledges the specified stage by writing only this stage's ACK bit.
// There's no read-modify-write, so ACKs from the kernel and user space never
// interfere with each other.
func (r *Registers) Ack(stage AckStage) {
	r.WriteAckSR(stage.AckBit())
}

// ClearLatch clears the latency latch of the specified stage, as well as its
// valid and overwritten status bits.
func (r *Registers) ClearLatch(stage AckStage) {
	r.WriteAckSR(stage.ClearLatchBit())
}

// ClearCounters clears the counters selected by the counter clearing bits in
// mask; any other bits in mask are ignored.
func (r *Registers) ClearCounters(mask uint32) {
	mask &= AckSRClearCounters
	if mask == 0 {
		return
	}
	r.WriteAckSR(mask)
}

// Status returns the decoded status half of the interrupt acknowledge and
// status register.
func (r *Registers) Status() Status { return Status(r.AckSR()) }

// Status is the value of the interrupt acknowledge and status register when
// reading it.
type Status uint32

// Ack0Waiting returns true if the ILT core is waiting for ACK0, that is, it
// has raised an interrupt that hasn't been acknowledged by the kernel yet.
func (s Status) Ack0Waiting() bool { return uint32(s)&StatusAck0Wait != 0 }

// Ack3Waiting returns true if the ILT core is waiting for ACK3 from user
// space.
func (s Status) Ack3Waiting() bool { return uint32(s)&StatusAck3Wait != 0 }

// Valid returns true if the specified stage's latency latch is valid.
func (s Status) Valid(stage AckStage) bool {
	return uint32(s)&(StatusValid0<<stage.must()) != 0
}

// Overwritten returns true if the specified stage's latency latch got
// overwritten before it was cleared.
func (s Status) Overwritten(stage AckStage) bool {
	return uint32(s)&(StatusOverwritten0<<stage.must()) != 0
}

// DelayCounterRunning returns true while the interrupt generator delay
// counter is counting down.
func (s Status) DelayCounterRunning() bool {
	return uint32(s)&StatusDelayCounterRunning != 0
}

// LatencyCounterRunning returns true while the ILT is measuring latency.
func (s Status) LatencyCounterRunning() bool {
	return uint32(s)&StatusLatencyCounterRunning != 0
}
