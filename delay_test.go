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
	"math"
	"time"

	"github.com/thediveo/ilt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("interrupt generator delay", func() {

	var bus *memBus
	var regs *ilt.Registers

	BeforeEach(func() {
		bus = &memBus{}
		regs = ilt.New(bus)
	})

	It("has 25000 ticks per millisecond", func() {
		Expect(ilt.TicksPerMillisecond).To(Equal(uint32(25000)))
		Expect(ilt.MaxDelayMs).To(Equal(uint32(171798)))
	})

	It("round-trips all 16 bit millisecond delays", func() {
		for ms := uint32(0); ms <= math.MaxUint16; ms++ {
			Expect(regs.SetDelayMs(ms)).To(BeFalse())
			if regs.Delay() != ms*25000 {
				Fail("delay register mismatch")
			}
		}
		Expect(regs.Delay()).To(Equal(uint32(65535 * 25000)))
	})

	It("saturates instead of wrapping", func() {
		Expect(regs.SetDelayMs(ilt.MaxDelayMs)).To(BeFalse())
		Expect(regs.Delay()).To(Equal(uint32(4294950000)))

		Expect(regs.SetDelayMs(ilt.MaxDelayMs + 1)).To(BeTrue())
		Expect(regs.Delay()).To(Equal(uint32(math.MaxUint32)))

		Expect(regs.SetDelayMs(math.MaxUint32)).To(BeTrue())
		Expect(regs.Delay()).To(Equal(uint32(math.MaxUint32)))
	})

	It("converts durations", func() {
		Expect(regs.SetDelay(1000 * time.Millisecond)).To(BeFalse())
		Expect(regs.Delay()).To(Equal(uint32(25_000_000)))

		Expect(regs.SetDelay(-time.Second)).To(BeFalse())
		Expect(regs.Delay()).To(BeZero())

		Expect(regs.SetDelay(79 * time.Nanosecond)).To(BeFalse())
		Expect(regs.Delay()).To(Equal(uint32(1)))

		Expect(regs.SetDelay(time.Hour)).To(BeTrue())
		Expect(regs.Delay()).To(Equal(uint32(math.MaxUint32)))
	})

	It("converts ticks into durations", func() {
		Expect(ilt.Ticks(0)).To(BeZero())
		Expect(ilt.Ticks(25)).To(Equal(time.Microsecond))
	})

})
