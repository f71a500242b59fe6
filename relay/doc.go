/*
Package relay implements the interrupt-context half of the ILT handshake: the
minimal-latency ACK0 handler that runs on a (potentially shared) interrupt
line, and the event counter used to wake up the observer waiting in user
space.

On real hardware this half lives inside the Linux kernel's UIO driver for the
ILT core; the UIO core then increments the device's event counter and wakes up
any reader of “/dev/uio#”. This package models the very same contract so that
it can be exercised against the simulated ILT core and thus tested:

  - a [Relay] reads the interrupt acknowledge and status register exactly
    once; if the “ACK0 wait” bit isn't set, it returns [NotMine] without
    writing anything, so that the [Line] continues with the other handlers
    sharing the line.
  - otherwise, the relay writes the ACK0 bit, and only the ACK0 bit. It then
    bumps its [Counter], waking up the observer, and returns [Handled].

A relay never touches the master control and status register, and it never
reads the ACK0 latency latch: reporting the latency is up to the observer.
*/
package relay
