/*
Package session drives measurement sessions of an ILT core from userspace.

A [Session] owns the core's configuration for its whole lifetime and walks
through these states:

	Disabled ─enable→ Armed ─configure→ Configured ─start→ Running
	Running ─event→ Acknowledging ─ACK3→ Running
	any ─disable→ Disabled

For each interrupt event relayed from the kernel, the session acknowledges the
final stage (ACK3) and then reads the ACK0 latency latch (“OS latency”) as well
as the ACK3 latency latch (“SW latency”) as a [Sample].

[Run] runs a complete free-running (or delayed) session for a bounded number of
event notifications, always starting and ending with the core disabled, even
when the session fails or gets cancelled. When a session ends, [Run] disables
the core before it releases the register mapping.
*/
package session
