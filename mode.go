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

package ilt

import (
	"errors"
	"fmt"
)

// IRGMode is the mode of the interrupt request generator, governing when the
// delay counter (re)starts relative to the acknowledgment stages.
type IRGMode uint32

// Interrupt request generator modes, as stored in bits 0-1 of the master CSR.
const (
	Disabled       IRGMode = iota // no interrupts generated
	FreeRunning                   // delay counter restarts on expiry
	DelayAfterAck0                // delay counter restarts after ACK0
	DelayAfterAck3                // delay counter restarts after ACK3
)

var modeNames = [...]string{
	Disabled:       "disabled",
	FreeRunning:    "free-running",
	DelayAfterAck0: "delay-after-ack0",
	DelayAfterAck3: "delay-after-ack3",
}

// ErrUnknownMode is returned by [ParseIRGMode] for unknown mode names.
var ErrUnknownMode = errors.New("unknown interrupt request generator mode")

func (m IRGMode) String() string {
	if m > DelayAfterAck3 {
		return fmt.Sprintf("IRGMode(%d)", uint32(m))
	}
	return modeNames[m]
}

// ParseIRGMode returns the mode for the specified textual mode name, as
// returned by [IRGMode.String].
func ParseIRGMode(s string) (IRGMode, error) {
	for mode, name := range modeNames {
		if name == s {
			return IRGMode(mode), nil
		}
	}
	return Disabled, fmt.Errorf("ilt: %w %q", ErrUnknownMode, s)
}
