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
	"fmt"
	"strings"
)

// RegisterValue is a single register's offset, descriptive name, and value at
// the time of a [Dump].
type RegisterValue struct {
	Offset Offset
	Name   string
	Value  uint32
}

// Dump lists all registers of an ILT register block in offset order.
type Dump []RegisterValue

var registerNames = [NumRegisters]string{
	"Core ID",
	"Master CSR",
	"FRT latch (low)",
	"FRT latch (hi)",
	"INT gen delay",
	"Reserved",
	"Reserved",
	"Reserved",
	"INT ack/SR",
	"INT count",
	"Missed ACK0 count",
	"Missed ACK3 count",
	"ACK0 latency latch",
	"ACK1 latency latch",
	"ACK2 latency latch",
	"ACK3 latency latch",
}

// Dump reads all 16 registers in offset order. Please note that reading
// registers might have side effects, depending on the hardware.
func (r *Registers) Dump() Dump {
	d := make(Dump, NumRegisters)
	for idx := range d {
		off := Offset(idx * 4)
		d[idx] = RegisterValue{
			Offset: off,
			Name:   registerNames[idx],
			Value:  r.bus.Load32(off),
		}
	}
	return d
}

// String renders the dump in human-readable form, one register per line. The
// format is meant for humans and thus isn't stable.
func (d Dump) String() string {
	var b strings.Builder
	for _, reg := range d {
		fmt.Fprintf(&b, "(0x%02x) %-19s 0x%08x\n",
			uint32(reg.Offset), reg.Name+":", reg.Value)
	}
	return b.String()
}
