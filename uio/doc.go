/*
Package uio discovers ILT cores exposed through the Linux userspace I/O (UIO)
subsystem, maps their register blocks, and waits for their interrupt events.

# Discovery

The ILT kernel module registers its UIO devices with names starting with
“aries_ilt”. [Locate] scans “/sys/class/uio/uio0”, “uio1”, and so on for the
first device whose name starts with the requested identifier, stopping at the
first missing index:

	idx, err := uio.Locate("/sys", uio.DefaultName, uio.MaxDevices)

[Devices] instead loops over all UIO devices, giving their names, versions, and
register map sizes.

# Mapping and Events

[Open] opens “/dev/uioN” for reading and writing and maps the first UIO memory
map (map0) shared, so that register writes reach the hardware. The size of the
mapping is taken from sysfs and must cover at least the 64 bytes of the ILT
register block. Register blocks not starting on a page boundary are found at
the map's in-page offset, as also given in sysfs.

[Device.Wait] then blocks until the kernel reports another interrupt event,
returning the cumulative 32 bit event count. A short read of the event count
isn't an error but simply means “no event this time”, reported by returning ok
false.

# Interrupt Statistics

[LineCounters] picks the ILT's interrupt line from “/proc/interrupts” by the
name of its action, returning the per-CPU counters. [Affinity] returns the
effective CPU affinities of an interrupt.
*/
package uio
