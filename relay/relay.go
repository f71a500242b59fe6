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

import "github.com/thediveo/ilt"

// Result of invoking an interrupt handler on a (shared) interrupt line.
type Result int

const (
	// NotMine tells the line that the interrupt wasn't raised by the
	// handler's device, so the line needs to try the other handlers.
	NotMine Result = iota
	// Handled tells the line that the handler's device raised the interrupt
	// and it has been dealt with.
	Handled
)

func (r Result) String() string {
	if r == Handled {
		return "handled"
	}
	return "not mine"
}

// Handler handles interrupts on an interrupt line.
type Handler interface {
	HandleIRQ(irq int) Result
}

// HandlerFunc adapts an ordinary function into a [Handler].
type HandlerFunc func(irq int) Result

// HandleIRQ calls f(irq).
func (f HandlerFunc) HandleIRQ(irq int) Result { return f(irq) }

// Relay is the ACK0 interrupt handler for a single ILT core. Its context is
// passed in explicitly when creating it and is owned by whoever registers
// the relay with an interrupt line.
type Relay struct {
	regs   *ilt.Registers
	events *Counter
}

var _ Handler = (*Relay)(nil)

// New returns a relay for the ILT core accessible through regs, bumping the
// passed event counter for each interrupt handled. If events is nil, the
// relay allocates its own event counter.
func New(regs *ilt.Registers, events *Counter) *Relay {
	if events == nil {
		events = &Counter{}
	}
	return &Relay{
		regs:   regs,
		events: events,
	}
}

// Events returns the event counter of this relay that user space waits on.
func (r *Relay) Events() *Counter { return r.events }

// HandleIRQ acknowledges stage 0 of a pending ILT interrupt, but only if the
// ILT actually waits for ACK0. The status register is read exactly once and
// nothing gets written when the ILT doesn't wait for ACK0.
func (r *Relay) HandleIRQ(int) Result {
	if !r.regs.Status().Ack0Waiting() {
		return NotMine
	}
	// Writing ACK0 makes the ILT latch the OS latency; reporting it is up to
	// user space.
	r.regs.Ack(ilt.Ack0)
	r.events.Notify()
	return Handled
}
