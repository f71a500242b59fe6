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

package ilt_test

import (
	"time"

	"github.com/thediveo/ilt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ILT registers", func() {

	var bus *memBus
	var regs *ilt.Registers

	BeforeEach(func() {
		bus = &memBus{}
		regs = ilt.New(bus)
	})

	When("changing the master CSR", func() {

		DescribeTable("sets the mode, touching only bits 0-1",
			func(csr uint32, mode ilt.IRGMode) {
				bus.regs[ilt.RegMasterCSR/4] = csr
				regs.SetMode(mode)
				Expect(regs.CSR() &^ ilt.CSRModeMask).To(Equal(csr &^ ilt.CSRModeMask))
				Expect(regs.Mode()).To(Equal(mode))
				Expect(bus.writes).To(HaveExactElements(
					HaveField("Offset", ilt.RegMasterCSR)))
			},
			Entry(nil, uint32(0), ilt.FreeRunning),
			Entry(nil, uint32(0xffffffff), ilt.Disabled),
			Entry(nil, uint32(0xdeadbeef), ilt.DelayAfterAck0),
			Entry(nil, uint32(0x80000083), ilt.DelayAfterAck3),
			Entry(nil, uint32(0x0f000001), ilt.FreeRunning),
			Entry(nil, uint32(0x55555555), ilt.DelayAfterAck0),
		)

		It("enables and disables, preserving other bits", func() {
			bus.regs[ilt.RegMasterCSR/4] = 0x0f000081
			regs.SetEnable(true)
			Expect(regs.CSR()).To(Equal(uint32(0x8f000081)))
			Expect(regs.Enabled()).To(BeTrue())
			regs.SetEnable(false)
			Expect(regs.CSR()).To(Equal(uint32(0x0f000081)))
			Expect(regs.Enabled()).To(BeFalse())
		})

		It("starts the delay counter", func() {
			bus.regs[ilt.RegMasterCSR/4] = ilt.CSREnable | uint32(ilt.FreeRunning)
			regs.StartDelayCounter()
			Expect(regs.CSR()).To(Equal(ilt.CSREnable | ilt.CSRStartDelayCounter | uint32(ilt.FreeRunning)))
		})

		It("starts the delay counter without strobing a valid FRT latch", func() {
			bus.regs[ilt.RegMasterCSR/4] = ilt.CSREnable | ilt.CSRFRTLatchValidLow | ilt.CSRFRTLatchValidHigh |
				uint32(ilt.DelayAfterAck0)
			regs.StartDelayCounter()
			Expect(bus.writes).To(ConsistOf(regWrite{
				Offset: ilt.RegMasterCSR,
				Value:  ilt.CSREnable | ilt.CSRStartDelayCounter | uint32(ilt.DelayAfterAck0),
			}))
		})

		It("latches and clears the FRT without accidentally strobing the other", func() {
			bus.regs[ilt.RegMasterCSR/4] = ilt.CSREnable | ilt.CSRFRTLatchValidLow | ilt.CSRFRTLatchValidHigh
			regs.LatchFRT()
			Expect(regs.CSR()).To(Equal(ilt.CSREnable | ilt.CSRFRTLatch))

			bus.regs[ilt.RegMasterCSR/4] = ilt.CSREnable | ilt.CSRFRTLatchValidLow | ilt.CSRFRTLatchValidHigh
			regs.ClearFRT()
			Expect(regs.CSR()).To(Equal(ilt.CSREnable | ilt.CSRFRTClear))
		})

	})

	When("checking the FRT latch", func() {

		DescribeTable("reports valid only when both halves are valid",
			func(csr uint32, valid bool) {
				bus.regs[ilt.RegMasterCSR/4] = csr
				Expect(regs.LatchValid()).To(Equal(valid))
			},
			Entry("neither", uint32(0), false),
			Entry("only low", ilt.CSRFRTLatchValidLow, false),
			Entry("only high", ilt.CSRFRTLatchValidHigh, false),
			Entry("both", ilt.CSRFRTLatchValidLow|ilt.CSRFRTLatchValidHigh, true),
			Entry("both, plus others", ilt.CSREnable|ilt.CSRFRTLatchValidLow|ilt.CSRFRTLatchValidHigh|0x83, true),
		)

		It("concatenates the high and low halves", func() {
			bus.regs[ilt.RegFRTLatchLow/4] = 0x89abcdef
			bus.regs[ilt.RegFRTLatchHigh/4] = 0x01234567
			Expect(regs.FRT()).To(Equal(uint64(0x0123456789abcdef)))
		})

	})

	When("acknowledging", func() {

		It("writes exactly one ACK bit per stage, with disjoint masks", func() {
			var all uint32
			for stage := ilt.Ack0; stage <= ilt.Ack3; stage++ {
				bus.writes = nil
				regs.Ack(stage)
				Expect(bus.writes).To(HaveExactElements(
					regWrite{Offset: ilt.RegIntAckSR, Value: 1 << stage}))
				Expect(all & stage.AckBit()).To(BeZero())
				all |= stage.AckBit()
			}
			Expect(all).To(Equal(ilt.AckSRAck0 | ilt.AckSRAck1 | ilt.AckSRAck2 | ilt.AckSRAck3))
		})

		It("never reads before acknowledging", func() {
			bus.regs[ilt.RegIntAckSR/4] = 0xffffffff
			regs.Ack(ilt.Ack0)
			Expect(bus.regs[ilt.RegIntAckSR/4]).To(Equal(ilt.AckSRAck0))
		})

		It("clears latches and counters", func() {
			regs.ClearLatch(ilt.Ack3)
			Expect(bus.writes).To(HaveExactElements(
				regWrite{Offset: ilt.RegIntAckSR, Value: ilt.AckSRClearLatch3}))

			bus.writes = nil
			regs.ClearCounters(ilt.AckSRAck0 | ilt.AckSRClearMissedAck0)
			Expect(bus.writes).To(HaveExactElements(
				regWrite{Offset: ilt.RegIntAckSR, Value: ilt.AckSRClearMissedAck0}))

			bus.writes = nil
			regs.ClearCounters(ilt.AckSRAck3)
			Expect(bus.writes).To(BeEmpty())
		})

		It("panics on invalid stages", func() {
			Expect(func() { regs.Ack(ilt.AckStage(4)) }).To(PanicWith(ContainSubstring("invalid")))
			Expect(ilt.AckStage(42).String()).To(Equal("AckStage(42)"))
			Expect(ilt.Ack3.String()).To(Equal("ACK3"))
		})

	})

	When("reading status, counters, and latches", func() {

		It("decodes the status", func() {
			bus.regs[ilt.RegIntAckSR/4] = ilt.StatusAck0Wait | ilt.StatusValid3 | ilt.StatusOverwritten0 |
				ilt.StatusDelayCounterRunning
			st := regs.Status()
			Expect(st.Ack0Waiting()).To(BeTrue())
			Expect(st.Ack3Waiting()).To(BeFalse())
			Expect(st.Valid(ilt.Ack3)).To(BeTrue())
			Expect(st.Valid(ilt.Ack0)).To(BeFalse())
			Expect(st.Overwritten(ilt.Ack0)).To(BeTrue())
			Expect(st.DelayCounterRunning()).To(BeTrue())
			Expect(st.LatencyCounterRunning()).To(BeFalse())
		})

		It("reads counters and latencies", func() {
			bus.regs[ilt.RegCoreID/4] = 0x11700001
			bus.regs[ilt.RegIntCount/4] = 42
			bus.regs[ilt.RegMissedAck0/4] = 1
			bus.regs[ilt.RegMissedAck3/4] = 2
			bus.regs[ilt.RegAck0Latency/4] = 100
			bus.regs[ilt.RegAck3Latency/4] = 25000
			Expect(regs.CoreID()).To(Equal(uint32(0x11700001)))
			Expect(regs.IntCount()).To(Equal(uint32(42)))
			Expect(regs.MissedAck0()).To(Equal(uint32(1)))
			Expect(regs.MissedAck3()).To(Equal(uint32(2)))
			Expect(regs.Latency(ilt.Ack0)).To(Equal(uint32(100)))
			Expect(regs.LatencyDuration(ilt.Ack0)).To(Equal(4 * time.Microsecond))
			Expect(regs.LatencyDuration(ilt.Ack3)).To(Equal(time.Millisecond))
		})

	})

})
