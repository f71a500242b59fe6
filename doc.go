/*
Package ilt provides a typed view onto the register block of the “Interrupt
Latency Timer” IP core (ILT for short), as well as the bits and pieces needed
to drive its four-stage interrupt acknowledgment protocol from Linux user
space.

The ILT core is a small FPGA fabric IP block that periodically (or after a
programmable delay) raises an interrupt and then measures how long it takes
the system to acknowledge this interrupt, first from inside the kernel's
interrupt handler and then later from a user space process. Its register
block is mapped into a user space process via the Linux UIO (“userspace I/O”)
subsystem, see the [github.com/thediveo/ilt/uio] package.

# The Handshake

An interrupt cycle of the ILT core consists of up to four acknowledgment
stages, ACK0 to ACK3. The hardware measures the elapsed time between stage
boundaries in ticks of 40ns and latches these measurements into four latency
latch registers.

  - the ILT raises its interrupt line and sets the “ACK0 wait” status bit.
  - the kernel interrupt handler (see the [github.com/thediveo/ilt/relay]
    package) checks that the “ACK0 wait” status bit is set, because the
    interrupt line might be shared, and only then writes the ACK0 bit. The
    ILT latches the time since the interrupt became pending into the ACK0
    latency latch. This is the “OS latency”.
  - the kernel wakes up the user space process blocked on reading from
    “/dev/uio#”.
  - the user space process writes the ACK3 bit (see the
    [github.com/thediveo/ilt/session] package), and the ILT latches the
    time since ACK0 into the ACK3 latency latch. This is the “SW latency”.

ACK1 and ACK2 are not used in this protocol, but they have the same bit
layout as ACK0 and ACK3.

The kernel side never writes to the master control and status register; it
only ever writes the ACK0 bit of the interrupt acknowledge and status
register. All other register writes are done by user space. These two write
domains are disjoint, so no locking between both sides is needed.

# The Register Block

The register block consists of 16 consecutive 32 bit registers.

  - 0x00 core ID, read-only.
  - 0x04 master control and status register (“master CSR”): interrupt request
    generator mode in bits 0-1, start delay counter bit 7, free-running timer
    latch (write) and latch valid low (read) bit 24, free-running timer clear
    (write) and latch valid high (read) bit 25, latch overwritten low and high
    bits 26 and 27, ILT enable bit 31.
  - 0x08 and 0x0c free-running timer latch, low and high 32 bits.
  - 0x10 interrupt generator delay in ticks of 40ns.
  - 0x14-0x1c reserved.
  - 0x20 interrupt acknowledge and status register. When writing: ACK bits
    0-3, clear latch bits 4-7, clear interrupt counter bit 8, clear missed
    ACK0 counter bit 9, clear missed ACK3 counter bit 10, clear all counters
    bit 31. When reading: latch valid bits 0-3, latch overwritten bits 4-7,
    delay counter running bit 8, latency counter running bit 9, ACK3 wait bit
    16, ACK0 wait bit 24.
  - 0x24 interrupt counter.
  - 0x28 and 0x2c missed ACK0 and missed ACK3 counters.
  - 0x30-0x3c ACK0 to ACK3 latency latches in ticks of 40ns.

Please note that the same bit can have different meanings when reading and
writing a register. Any register access can have side effects in the
hardware, so all accesses go through a [Bus] that must neither elide nor
reorder them.

# The Free-Running Timer

The free-running timer is a 64 bit counter that is read by first writing the
latch bit in the master CSR and then reading the two halves of the latch. The
latch is only valid when both the low and high “valid” bits are set. A
reading immediately after a concurrent hardware update may transiently
report the latch as invalid; callers that care need to retry themselves.

[Registers.FRT] returns the concatenated high and low halves of the latch as
a single 64 bit value.
*/
package ilt
