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
	"slices"
	"sync"
	"sync/atomic"
)

// Line is a shared interrupt line that dispatches interrupts to all handlers
// registered with it. Similar to the Linux kernel's handling of shared
// interrupts, all handlers get called in order of their registration, as
// more than a single device might have raised the interrupt at the same
// time.
type Line struct {
	irq       int
	mu        sync.RWMutex
	actions   []action
	handled   atomic.Uint64
	unhandled atomic.Uint64
}

type action struct {
	name    string
	handler Handler
}

// NewLine returns a new interrupt line with the specified IRQ number.
func NewLine(irq int) *Line {
	return &Line{irq: irq}
}

// IRQ returns the IRQ number of this interrupt line.
func (l *Line) IRQ() int { return l.irq }

// Register adds a named handler to this line.
func (l *Line) Register(name string, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.actions = append(l.actions, action{name: name, handler: h})
}

// Unregister removes the first handler with the specified name, returning
// true if there was such a handler.
func (l *Line) Unregister(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for idx, a := range l.actions {
		if a.name == name {
			// Never modify the actions in place, as Raise might currently
			// be dispatching them.
			l.actions = slices.Concat(l.actions[:idx], l.actions[idx+1:])
			return true
		}
	}
	return false
}

// Actions returns the names of the registered handlers, in order.
func (l *Line) Actions() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.actions))
	for _, a := range l.actions {
		names = append(names, a.name)
	}
	return names
}

// Raise dispatches an interrupt on this line to all registered handlers. It
// returns [Handled] if at least one handler handled the interrupt, otherwise
// the interrupt is accounted for as unhandled (spurious). Handlers are called
// without holding the line's lock, so they are free to register and
// unregister handlers; such changes take effect with the next interrupt.
func (l *Line) Raise() Result {
	l.mu.RLock()
	actions := l.actions
	l.mu.RUnlock()
	result := NotMine
	for _, a := range actions {
		if a.handler.HandleIRQ(l.irq) == Handled {
			result = Handled
		}
	}
	if result == Handled {
		l.handled.Add(1)
	} else {
		l.unhandled.Add(1)
	}
	return result
}

// Handled returns the number of interrupts handled by at least one handler.
func (l *Line) Handled() uint64 { return l.handled.Load() }

// Unhandled returns the number of interrupts that no handler claimed.
func (l *Line) Unhandled() uint64 { return l.unhandled.Load() }
