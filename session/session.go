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

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/rs/xid"
	"github.com/thediveo/ilt"
)

// Notifier waits for interrupt event notifications, returning the cumulative
// event count. A short read of the event count isn't an error and is reported
// as ok false instead.
type Notifier interface {
	Wait(ctx context.Context) (count uint32, ok bool, err error)
}

// Device is an ILT core with its register block and event notifications, such
// as an opened UIO device. Closing a Device releases its register mapping.
type Device interface {
	Notifier
	io.Closer
	Registers() *ilt.Registers
}

var (
	// ErrTimeout is returned when no event notification arrived in time.
	ErrTimeout = errors.New("no event notification")
	// ErrInvalidMode is returned for interrupt request generator modes that
	// never generate interrupts.
	ErrInvalidMode = errors.New("invalid session mode")
)

// Sample of a single ILT interrupt event, taken directly after acknowledging
// the final stage.
type Sample struct {
	Seq        int           // sequence number of this sample, starting at 1
	Count      uint32        // cumulative event count as notified
	OSTicks    uint32        // raw ACK0 latency latch value
	SWTicks    uint32        // raw ACK3 latency latch value
	OSLatency  time.Duration // interrupt to kernel acknowledgment (ACK0)
	SWLatency  time.Duration // kernel to userspace acknowledgment (ACK3)
	IntCount   uint32        // interrupts generated so far
	MissedAck0 uint32        // interrupts missing their ACK0 so far
	MissedAck3 uint32        // interrupts missing their ACK3 so far
	Dump       ilt.Dump      // optional register dump
}

// Session is a measurement session on an ILT core. A Session isn't safe for
// concurrent use, as it solely owns the core's configuration.
type Session struct {
	id     xid.ID
	regs   *ilt.Registers
	events Notifier
	cfg    *config
	log    logr.Logger
	state  State
	seq    int
}

// New returns a new measurement session for the specified register block and
// event notifier, configured by the passed options. The session starts in
// state [Disabled], but without touching the core yet.
func New(regs *ilt.Registers, events Notifier, opts ...Option) *Session {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	id := xid.New()
	return &Session{
		id:     id,
		regs:   regs,
		events: events,
		cfg:    cfg,
		log:    cfg.log.WithValues("session", id.String()),
		state:  Disabled,
	}
}

// ID returns the unique session ID.
func (s *Session) ID() xid.ID { return s.id }

// State returns the current session state.
func (s *Session) State() State { return s.state }

func (s *Session) to(next State) error {
	if !canTransition(s.state, next) {
		return fmt.Errorf("session: %w from %s to %s",
			ErrInvalidTransition, s.state, next)
	}
	s.log.V(2).Info("state transition", "from", s.state.String(), "to", next.String())
	s.state = next
	return nil
}

// Enable enables the core, arming the session.
func (s *Session) Enable() error {
	if err := s.to(Armed); err != nil {
		return err
	}
	s.regs.SetEnable(true)
	return nil
}

// Configure sets the core's interrupt generation delay and mode. Delays too
// large for the delay register saturate and get logged.
func (s *Session) Configure() error {
	switch s.cfg.mode {
	case ilt.FreeRunning, ilt.DelayAfterAck0, ilt.DelayAfterAck3:
	default:
		return fmt.Errorf("session: %w %s", ErrInvalidMode, s.cfg.mode)
	}
	if err := s.to(Configured); err != nil {
		return err
	}
	if s.regs.SetDelayMs(s.cfg.delayMs) {
		s.log.Info("delay saturated",
			"delayMs", s.cfg.delayMs, "ticks", s.regs.Delay())
	}
	s.regs.SetMode(s.cfg.mode)
	return nil
}

// Start starts the delay counter, so that the core begins generating
// interrupts.
func (s *Session) Start() error {
	if err := s.to(Running); err != nil {
		return err
	}
	s.regs.StartDelayCounter()
	return nil
}

// Next waits for the next event notification and then acknowledges the final
// stage, returning the latencies latched for this event. A short event read
// isn't an error, but returns ok false without any acknowledgment.
func (s *Session) Next(ctx context.Context) (sample Sample, ok bool, err error) {
	if s.state != Running {
		return Sample{}, false, fmt.Errorf("session: %w: cannot wait for events while %s",
			ErrInvalidTransition, s.state)
	}
	wctx := ctx
	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		wctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}
	count, ok, err := s.events.Wait(wctx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return Sample{}, false, fmt.Errorf("session: %w within %s", ErrTimeout, s.cfg.timeout)
		}
		return Sample{}, false, fmt.Errorf("session: waiting for event failed: %w", err)
	}
	if !ok {
		s.log.V(1).Info("short event read, skipping")
		return Sample{}, false, nil
	}
	_ = s.to(Acknowledging)
	s.regs.Ack(ilt.Ack3)
	s.seq++
	sample = Sample{
		Seq:        s.seq,
		Count:      count,
		OSTicks:    s.regs.Latency(ilt.Ack0),
		SWTicks:    s.regs.Latency(ilt.Ack3),
		IntCount:   s.regs.IntCount(),
		MissedAck0: s.regs.MissedAck0(),
		MissedAck3: s.regs.MissedAck3(),
	}
	sample.OSLatency = ilt.Ticks(sample.OSTicks)
	sample.SWLatency = ilt.Ticks(sample.SWTicks)
	if s.cfg.dumps {
		sample.Dump = s.regs.Dump()
	}
	_ = s.to(Running)
	s.log.V(1).Info("event",
		"seq", sample.Seq, "count", count,
		"osLatency", sample.OSLatency, "swLatency", sample.SWLatency)
	return sample, true, nil
}

// Disable disables the core, resetting its timers. Disable is allowed in any
// state and always writes to the core.
func (s *Session) Disable() {
	s.regs.SetEnable(false)
	_ = s.to(Disabled)
}

// Run runs a complete measurement session for the configured number of event
// notifications, returning the samples taken. Short event reads count towards
// the number of notifications, but don't produce samples. Run disables the
// core both before starting and before returning, regardless of whether the
// session succeeded, failed, or got cancelled.
func (s *Session) Run(ctx context.Context) (samples []Sample, err error) {
	s.Disable()
	defer s.Disable()
	s.log.Info("starting session",
		"events", s.cfg.events, "delayMs", s.cfg.delayMs, "mode", s.cfg.mode.String())
	if err := s.Enable(); err != nil {
		return nil, err
	}
	if err := s.Configure(); err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	for range s.cfg.events {
		sample, ok, err := s.Next(ctx)
		if err != nil {
			s.log.Error(err, "session aborted", "samples", len(samples))
			return samples, err
		}
		if !ok {
			continue
		}
		samples = append(samples, sample)
		if s.cfg.report != nil {
			s.cfg.report(sample)
		}
	}
	s.log.Info("session done", "samples", len(samples))
	return samples, nil
}

// Run runs a complete measurement session on the specified device and then
// closes the device. The core is always disabled before the device gets
// closed, on every exit path.
func Run(ctx context.Context, dev Device, opts ...Option) (samples []Sample, err error) {
	s := New(dev.Registers(), dev, opts...)
	defer func() {
		s.Disable()
		if cerr := dev.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("session: %w", cerr)
		}
	}()
	return s.Run(ctx)
}
