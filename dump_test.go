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
	"strings"

	"github.com/thediveo/ilt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("register dumps and modes", func() {

	It("dumps all registers in offset order", func() {
		bus := &memBus{}
		for idx := range bus.regs {
			bus.regs[idx] = uint32(0x1000 + idx)
		}
		d := ilt.New(bus).Dump()
		Expect(d).To(HaveLen(ilt.NumRegisters))
		for idx, reg := range d {
			Expect(reg.Offset).To(Equal(ilt.Offset(idx * 4)))
			Expect(reg.Value).To(Equal(uint32(0x1000 + idx)))
		}
		Expect(bus.writes).To(BeEmpty())

		lines := strings.Split(strings.TrimSuffix(d.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(ilt.NumRegisters))
		Expect(lines[0]).To(MatchRegexp(`^\(0x00\) Core ID:\s+0x00001000$`))
		Expect(lines[15]).To(MatchRegexp(`^\(0x3c\) ACK3 latency latch:\s+0x0000100f$`))
	})

	It("names and parses modes", func() {
		for _, mode := range []ilt.IRGMode{ilt.Disabled, ilt.FreeRunning, ilt.DelayAfterAck0, ilt.DelayAfterAck3} {
			Expect(Successful(ilt.ParseIRGMode(mode.String()))).To(Equal(mode))
		}
		Expect(ilt.IRGMode(42).String()).To(Equal("IRGMode(42)"))
		_, err := ilt.ParseIRGMode("frantic")
		Expect(err).To(MatchError(ilt.ErrUnknownMode))
	})

})
