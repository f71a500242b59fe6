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
	"errors"
	"fmt"
)

// State of a measurement session.
type State uint8

// Session states.
const (
	Disabled      State = iota // core disabled
	Armed                      // core enabled, but not yet configured
	Configured                 // delay and mode set
	Running                    // delay counter started, waiting for events
	Acknowledging              // event observed, acknowledging and reading latches
)

var stateNames = [...]string{
	Disabled:      "disabled",
	Armed:         "armed",
	Configured:    "configured",
	Running:       "running",
	Acknowledging: "acknowledging",
}

func (s State) String() string {
	if int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

// ErrInvalidTransition is returned when an operation isn't allowed in the
// current session state.
var ErrInvalidTransition = errors.New("invalid session state transition")

// transitions lists the allowed state transitions, except for disabling,
// which is always allowed.
var transitions = map[State]State{
	Disabled:      Armed,
	Armed:         Configured,
	Configured:    Running,
	Running:       Acknowledging,
	Acknowledging: Running,
}

// canTransition returns true if the session may go from one state to the
// other.
func canTransition(from, to State) bool {
	if to == Disabled {
		return true
	}
	next, ok := transitions[from]
	return ok && next == to
}
