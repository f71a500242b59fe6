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

package main

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/thediveo/ilt"
	"github.com/thediveo/ilt/internal/simcore"
	"github.com/thediveo/ilt/relay"
	"github.com/thediveo/ilt/session"
	"github.com/thediveo/ilt/uio"
)

const (
	// simIRQ is the interrupt line number of the simulated core.
	simIRQ = 42
	// simIRQLatency is the simulated interrupt latency in ticks (10µs).
	simIRQLatency = 250
	// simPeriod is the real-time period of advancing the simulated time.
	simPeriod = time.Millisecond
)

// openTarget opens either the located UIO device or a simulated core.
func openTarget(ctx context.Context, g *globals, log logr.Logger) (session.Device, error) {
	if g.simulate {
		log.V(1).Info("starting simulated ILT core", "irq", simIRQ)
		return newSimDevice(ctx, g.name+"0"), nil
	}
	idx, err := uio.Locate(g.sysfs, g.name, g.bound)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("located UIO device", "index", idx)
	dev, err := uio.Open(g.sysfs, g.devDir, idx)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// simDevice is a simulated ILT core that runs in real time, with the
// interrupt relay registered on its simulated interrupt line.
type simDevice struct {
	regs   *ilt.Registers
	events *relay.Counter
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

var _ session.Device = (*simDevice)(nil)

func newSimDevice(ctx context.Context, action string) *simDevice {
	line := relay.NewLine(simIRQ)
	core := simcore.New(line, simcore.WithIRQLatency(simIRQLatency))
	regs := ilt.New(core)
	r := relay.New(regs, nil)
	line.Register(action, r)

	ctx, cancel := context.WithCancel(ctx)
	d := &simDevice{
		regs:   regs,
		events: r.Events(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		defer close(d.done)
		core.Run(ctx, simPeriod)
	}()
	return d
}

func (d *simDevice) Registers() *ilt.Registers { return d.regs }

func (d *simDevice) Wait(ctx context.Context) (uint32, bool, error) {
	return d.events.Wait(ctx)
}

// Close stops the simulated time.
func (d *simDevice) Close() error {
	d.once.Do(func() {
		d.cancel()
		<-d.done
	})
	return nil
}
