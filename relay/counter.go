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
	"sync"
)

// Counter is a monotonically increasing interrupt event counter with
// wakeup semantics modelled after the Linux UIO event counter: a waiter
// returns once the counter has changed since its last successful wait,
// receiving the current (cumulative) count. Events happening while nobody
// waits are thus coalesced into a single wakeup.
//
// A Counter serves a single consumer. The zero value is ready to use.
type Counter struct {
	mu      sync.Mutex
	count   uint32
	seen    uint32
	changed chan struct{} // closed and replaced on each notification
}

// Notify increments the event counter and wakes up a waiter, if any.
func (c *Counter) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count++
	if c.changed != nil {
		close(c.changed)
		c.changed = nil
	}
}

// Count returns the current event count without consuming it.
func (c *Counter) Count() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Wait blocks until the counter has changed since the last successful Wait
// and then returns the current count. Wait returns the context's error when
// the context gets cancelled or its deadline expires first. The ok result is
// always true for a Counter, as there are no short reads.
func (c *Counter) Wait(ctx context.Context) (count uint32, ok bool, err error) {
	for {
		c.mu.Lock()
		if c.count != c.seen {
			c.seen = c.count
			count = c.count
			c.mu.Unlock()
			return count, true, nil
		}
		if c.changed == nil {
			c.changed = make(chan struct{})
		}
		changed := c.changed
		c.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return 0, false, ctx.Err()
		}
	}
}
