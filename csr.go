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

// Bits and masks of the master control and status register. Bits 24 and 25
// have different meanings when writing and reading.
const (
	CSRModeMask           uint32 = 0x03    // interrupt request generator mode (RW)
	CSRStartDelayCounter  uint32 = 1 << 7  // start the delay counter (W)
	CSRFRTLatch           uint32 = 1 << 24 // latch the free-running timer (W)
	CSRFRTLatchValidLow   uint32 = 1 << 24 // FRT latch low word valid (R)
	CSRFRTClear           uint32 = 1 << 25 // clear the free-running timer (W)
	CSRFRTLatchValidHigh  uint32 = 1 << 25 // FRT latch high word valid (R)
	CSRFRTOverwrittenLow  uint32 = 1 << 26 // FRT latch low word overwritten (R)
	CSRFRTOverwrittenHigh uint32 = 1 << 27 // FRT latch high word overwritten (R)
	CSREnable             uint32 = 1 << 31 // ILT enable (RW)
)

// SetEnable enables or disables the ILT core, leaving all other bits of the
// master CSR untouched. Disabling the core resets its timers.
func (r *Registers) SetEnable(on bool) {
	csr := r.CSR()
	if on {
		csr |= CSREnable
	} else {
		csr &^= CSREnable
	}
	r.SetCSR(csr)
}

// Enabled returns true if the ILT core is currently enabled.
func (r *Registers) Enabled() bool { return r.CSR()&CSREnable != 0 }

// SetMode sets the interrupt request generator mode, leaving all other bits
// of the master CSR untouched.
func (r *Registers) SetMode(mode IRGMode) {
	csr := r.CSR()
	csr &^= CSRModeMask
	csr |= uint32(mode) & CSRModeMask
	r.SetCSR(csr)
}

// Mode returns the currently set interrupt request generator mode.
func (r *Registers) Mode() IRGMode { return IRGMode(r.CSR() & CSRModeMask) }

// StartDelayCounter kicks off the interrupt generator delay counter. Both FRT
// strobes are masked off, as they read back as the FRT latch valid bits.
func (r *Registers) StartDelayCounter() {
	r.SetCSR(r.CSR()&^(CSRFRTLatch|CSRFRTClear) | CSRStartDelayCounter)
}

// LatchFRT latches the current value of the free-running timer into the FRT
// latch registers. The FRT clear strobe is masked off, as it reads back as
// the “valid high” status bit.
func (r *Registers) LatchFRT() {
	r.SetCSR(r.CSR()&^CSRFRTClear | CSRFRTLatch)
}

// ClearFRT resets the free-running timer to zero.
func (r *Registers) ClearFRT() {
	r.SetCSR(r.CSR()&^CSRFRTLatch | CSRFRTClear)
}

// LatchValid returns true only if both the low and high word of the FRT latch
// are valid. Both bits are read in a single register access, yet the
// hardware might update them in between; LatchValid does not retry.
func (r *Registers) LatchValid() bool {
	const valid = CSRFRTLatchValidLow | CSRFRTLatchValidHigh
	return r.CSR()&valid == valid
}

// FRT returns the latched 64 bit free-running timer value, concatenating the
// high and low latch words.
func (r *Registers) FRT() uint64 {
	lo := r.bus.Load32(RegFRTLatchLow)
	hi := r.bus.Load32(RegFRTLatchHigh)
	return uint64(hi)<<32 | uint64(lo)
}
