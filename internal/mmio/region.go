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

// Package mmio accesses memory-mapped device registers in a way that the Go
// compiler neither elides nor reorders, using atomic 32 bit loads and stores.
package mmio

import (
	"errors"
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/thediveo/ilt"
)

// ErrRegion is returned for register regions that are too small or
// misaligned.
var ErrRegion = errors.New("invalid register region")

// Region is a register block inside a memory-mapped area.
type Region struct {
	mem []byte
}

var _ ilt.Bus = (*Region)(nil)

// New returns a new register region for the specified mapped memory,
// which must start 32 bit aligned and be large enough for at least size bytes.
func New(mem []byte, size int) (*Region, error) {
	if len(mem) < size || size < 4 {
		return nil, fmt.Errorf("mmio: %w: need %d bytes, got %d",
			ErrRegion, size, len(mem))
	}
	if uintptr(unsafe.Pointer(&mem[0]))%4 != 0 {
		return nil, fmt.Errorf("mmio: %w: not 32 bit aligned", ErrRegion)
	}
	return &Region{mem: mem[:size:size]}, nil
}

// Load32 atomically loads the 32 bit register at the specified byte offset.
func (r *Region) Load32(off ilt.Offset) uint32 {
	return atomic.LoadUint32(r.word(off))
}

// Store32 atomically stores a value into the 32 bit register at the
// specified byte offset.
func (r *Region) Store32(off ilt.Offset, value uint32) {
	atomic.StoreUint32(r.word(off), value)
}

// word returns a pointer to the 32 bit register at the specified offset,
// panicking for out-of-range or misaligned offsets.
func (r *Region) word(off ilt.Offset) *uint32 {
	if off%4 != 0 {
		panic(fmt.Sprintf("mmio: misaligned register offset 0x%02x", uint32(off)))
	}
	return (*uint32)(unsafe.Pointer(&r.mem[off:][:4][0]))
}
