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
	"time"

	"github.com/go-logr/logr"
	"github.com/thediveo/ilt"
)

// Defaults of a measurement session.
const (
	DefaultEvents  = 20
	DefaultDelayMs = 1000
	DefaultMode    = ilt.FreeRunning
)

// config holds the configuration of a measurement session.
type config struct {
	events  int
	delayMs uint32
	mode    ilt.IRGMode
	timeout time.Duration
	dumps   bool
	report  func(Sample)
	log     logr.Logger
}

// Option is a functional option for configuring measurement sessions.
type Option func(*config)

// defaultConfig returns the default configuration.
func defaultConfig() *config {
	return &config{
		events:  DefaultEvents,
		delayMs: DefaultDelayMs,
		mode:    DefaultMode,
		log:     logr.Discard(),
	}
}

// WithEvents sets the number of event notifications to wait for. Default is
// 20.
func WithEvents(n int) Option {
	return func(c *config) {
		c.events = n
	}
}

// WithDelayMs sets the interrupt generation delay in milliseconds. Default is
// 1000ms.
func WithDelayMs(ms uint32) Option {
	return func(c *config) {
		c.delayMs = ms
	}
}

// WithMode sets the interrupt request generator mode. Default is free
// running.
func WithMode(mode ilt.IRGMode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// WithTimeout sets the maximum time to wait for a single event notification.
// Default (0) waits without timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithDumps includes a register dump in each sample.
func WithDumps() Option {
	return func(c *config) {
		c.dumps = true
	}
}

// WithReporter sets a function called with each sample as soon as it has
// been taken.
func WithReporter(fn func(Sample)) Option {
	return func(c *config) {
		c.report = fn
	}
}

// WithLogger sets the logger to use. Default is to discard all log messages.
func WithLogger(log logr.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}
