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

package uio

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("interrupt statistics", func() {

	It("determines online CPU numbers", func() {
		Expect(cpuList([]byte(""))).To(BeEmpty())
		Expect(cpuList([]byte("  FOO0 FOO1"))).To(BeEmpty())
		Expect(cpuList([]byte("  CPUA CPU42"))).To(BeEmpty())
		Expect(cpuList([]byte("  CPU1  CPU42  CPU666 "))).To(
			HaveExactElements(CPUList{1, 42, 666}))
	})

	It("finds the counters of a line by action", func() {
		irq, ok := LineCounters("testdata/proc", "aries_ilt0")
		Expect(ok).To(BeTrue())
		Expect(irq.Num).To(Equal(uint(45)))
		Expect(irq.CPUs).To(Equal(CPUList{0, 1, 2, 3}))
		Expect(irq.Counters).To(Equal([]uint64{40, 1, 0, 2}))
		Expect(irq.Total()).To(Equal(uint64(43)))

		irq, ok = LineCounters("testdata/proc", "mmc1")
		Expect(ok).To(BeTrue())
		Expect(irq.Num).To(Equal(uint(44)))
	})

	It("reports missing lines", func() {
		_, ok := LineCounters("testdata/proc", "aries_ilt1")
		Expect(ok).To(BeFalse())
		_, ok = LineCounters("testdata/noproc", "aries_ilt0")
		Expect(ok).To(BeFalse())
	})

	DescribeTable("rejects malformed interrupt information",
		func(text string) {
			_, ok := lineCounters(strings.NewReader(text), "foo")
			Expect(ok).To(BeFalse())
		},
		Entry("empty", ""),
		Entry("no CPUs", "\n 1: foo\n"),
		Entry("bad CPU header", " CPU0 GPU1\n 1: 0 0 foo\n"),
		Entry("missing counters", " CPU0 CPU1\n 1: 42\n"),
		Entry("bad IRQ number", " CPU0\n x: 42 foo\n"),
		Entry("missing colon", " CPU0\n 1 42 foo\n"),
	)

	It("reads effective affinities", func() {
		aff, ok := Affinity("testdata/proc", 45)
		Expect(ok).To(BeTrue())
		Expect(aff).To(Equal(CPUAffinities{{1, 2}, {5, 5}}))
		_, ok = Affinity("testdata/proc", 46)
		Expect(ok).To(BeFalse())
	})

	DescribeTable("parses affinity lists",
		func(list string, expected CPUAffinities) {
			Expect(affinityList([]byte(list))).To(Equal(expected))
		},
		Entry(nil, "", CPUAffinities{}),
		Entry(nil, "0", CPUAffinities{{0, 0}}),
		Entry(nil, "0,2", CPUAffinities{{0, 0}, {2, 2}}),
		Entry(nil, "0-3", CPUAffinities{{0, 3}}),
		Entry(nil, "0-3,8,10-11", CPUAffinities{{0, 3}, {8, 8}, {10, 11}}),
	)

	It("reads actions", func() {
		actions, ok := Actions("testdata/sys", 45)
		Expect(ok).To(BeTrue())
		Expect(actions).To(Equal("aries_ilt0"))
		_, ok = Actions("testdata/sys", 46)
		Expect(ok).To(BeFalse())
	})

})
