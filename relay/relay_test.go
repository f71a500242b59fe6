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

package relay

import (
	"context"
	"time"

	"github.com/thediveo/ilt"
	"go.uber.org/mock/gomock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ACK0 relay", func() {

	var ctrl *gomock.Controller
	var bus *MockBus

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		bus = NewMockBus(ctrl)
	})

	It("leaves foreign interrupts alone", func() {
		// any status except ACK0 wait, and no writes whatsoever.
		bus.EXPECT().Load32(ilt.RegIntAckSR).
			Return(^ilt.StatusAck0Wait).Times(1)
		r := New(ilt.New(bus), nil)
		Expect(r.HandleIRQ(42)).To(Equal(NotMine))
		Expect(r.Events().Count()).To(BeZero())
	})

	It("acknowledges stage 0 with a single write and notifies", func() {
		gomock.InOrder(
			bus.EXPECT().Load32(ilt.RegIntAckSR).
				Return(ilt.StatusAck0Wait|ilt.StatusDelayCounterRunning).Times(1),
			bus.EXPECT().Store32(ilt.RegIntAckSR, ilt.AckSRAck0).Times(1),
		)
		events := &Counter{}
		r := New(ilt.New(bus), events)
		Expect(r.Events()).To(BeIdenticalTo(events))
		Expect(r.HandleIRQ(42)).To(Equal(Handled))
		Expect(events.Count()).To(Equal(uint32(1)))
	})

	It("never touches the master CSR", func() {
		bus.EXPECT().Load32(gomock.Not(ilt.RegMasterCSR)).
			Return(ilt.StatusAck0Wait).AnyTimes()
		bus.EXPECT().Store32(gomock.Not(ilt.RegMasterCSR), gomock.Any()).AnyTimes()
		r := New(ilt.New(bus), nil)
		for range 10 {
			Expect(r.HandleIRQ(1)).To(Equal(Handled))
		}
	})

	It("stringifies results", func() {
		Expect(Handled.String()).To(Equal("handled"))
		Expect(NotMine.String()).To(Equal("not mine"))
	})

})

var _ = Describe("shared interrupt lines", func() {

	It("dispatches to all handlers in registration order", func() {
		l := NewLine(42)
		Expect(l.IRQ()).To(Equal(42))
		calls := []string{}
		l.Register("foo", HandlerFunc(func(irq int) Result {
			Expect(irq).To(Equal(42))
			calls = append(calls, "foo")
			return NotMine
		}))
		l.Register("bar", HandlerFunc(func(int) Result {
			calls = append(calls, "bar")
			return Handled
		}))
		Expect(l.Actions()).To(HaveExactElements("foo", "bar"))
		Expect(l.Raise()).To(Equal(Handled))
		Expect(calls).To(HaveExactElements("foo", "bar"))
		Expect(l.Handled()).To(Equal(uint64(1)))
		Expect(l.Unhandled()).To(BeZero())

		Expect(l.Unregister("bar")).To(BeTrue())
		Expect(l.Unregister("bar")).To(BeFalse())
		Expect(l.Raise()).To(Equal(NotMine))
		Expect(l.Unhandled()).To(Equal(uint64(1)))
	})

	It("lets handlers change the line while dispatching", func() {
		l := NewLine(42)
		calls := []string{}
		l.Register("once", HandlerFunc(func(int) Result {
			calls = append(calls, "once")
			Expect(l.Unregister("once")).To(BeTrue())
			l.Register("later", HandlerFunc(func(int) Result {
				calls = append(calls, "later")
				return Handled
			}))
			return Handled
		}))
		l.Register("other", HandlerFunc(func(int) Result {
			calls = append(calls, "other")
			return NotMine
		}))

		done := make(chan Result)
		go func() {
			defer GinkgoRecover()
			done <- l.Raise()
		}()
		Eventually(done).Within(time.Second).Should(Receive(Equal(Handled)))
		Expect(calls).To(HaveExactElements("once", "other"))
		Expect(l.Actions()).To(HaveExactElements("other", "later"))

		calls = calls[:0]
		Expect(l.Raise()).To(Equal(Handled))
		Expect(calls).To(HaveExactElements("other", "later"))
	})

})

var _ = Describe("event counters", func() {

	It("wakes up once per change", func(ctx context.Context) {
		var c Counter
		c.Notify()
		c.Notify()
		count, ok, err := c.Wait(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(count).To(Equal(uint32(2)))

		tctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		_, ok, err = c.Wait(tctx)
		Expect(ok).To(BeFalse())
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("wakes up a blocked waiter", func(ctx context.Context) {
		var c Counter
		done := make(chan uint32)
		go func() {
			defer GinkgoRecover()
			count, ok, err := c.Wait(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			done <- count
		}()
		Consistently(done).WithTimeout(50 * time.Millisecond).ShouldNot(Receive())
		c.Notify()
		Eventually(done).WithContext(ctx).Should(Receive(Equal(uint32(1))))
	})

})
