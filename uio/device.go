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

package uio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/thediveo/ilt"
	"github.com/thediveo/ilt/internal/mmio"
	"golang.org/x/sys/unix"
)

// DefaultDevDir is the directory containing the UIO device nodes.
const DefaultDevDir = "/dev"

// pollInterval is the maximum time a single poll(2) blocks before checking
// for cancellation.
const pollInterval = 100 * time.Millisecond

// ErrClosed is returned when waiting on an already closed device.
var ErrClosed = errors.New("device closed")

// Device is an opened UIO device with its register block mapped into memory.
// A Device is meant to be used by a single consumer.
type Device struct {
	index int
	mu    sync.Mutex
	fd    int
	mem   []byte
	regs  *ilt.Registers
}

// Open opens the UIO device with the specified index, mapping its first
// memory map (map0) with the size and in-page offset as reported by sysfs.
func Open(sysfs string, devDir string, index int) (*Device, error) {
	size, err := MapSize(sysfs, index, 0)
	if err != nil {
		return nil, err
	}
	offs, err := MapOffset(sysfs, index, 0)
	if err != nil {
		return nil, err
	}
	if size > 1<<31 || offs >= uint64(unix.Getpagesize()) {
		return nil, fmt.Errorf("uio: map size 0x%x at offset 0x%x out of range: %w",
			size, offs, ErrBadSize)
	}
	return OpenMap(devDir, index, int(offs), int(size))
}

// OpenSize opens the UIO device with the specified index in the device
// directory, mapping size bytes of its first memory map, with the register
// block starting at the beginning of the map.
func OpenSize(devDir string, index int, size int) (*Device, error) {
	return OpenMap(devDir, index, 0, size)
}

// OpenMap opens the UIO device with the specified index in the device
// directory, mapping its first memory map. The register block starts offs
// bytes into the first mapped page and the size must cover the complete ILT
// register block. All failures are fatal and returned with the underlying
// system error.
func OpenMap(devDir string, index int, offs int, size int) (*Device, error) {
	if size < ilt.RegisterBlockSize || offs < 0 {
		return nil, fmt.Errorf("uio: map size %d at offset %d cannot hold register block: %w",
			size, offs, ErrBadSize)
	}
	path := devDir + "/uio" + strconv.Itoa(index)
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("uio: cannot open %s: %w", path, err)
	}
	// UIO selects the memory map N by the page offset N.
	mem, err := unix.Mmap(fd, 0, offs+size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("uio: cannot map %s: %w", path, err)
	}
	region, err := mmio.New(mem[offs:], ilt.RegisterBlockSize)
	if err != nil {
		_ = unix.Munmap(mem)
		_ = unix.Close(fd)
		return nil, fmt.Errorf("uio: cannot map %s: %w", path, err)
	}
	return &Device{
		index: index,
		fd:    fd,
		mem:   mem,
		regs:  ilt.New(region),
	}, nil
}

// Index returns the UIO device index.
func (d *Device) Index() int { return d.index }

// Registers returns the device's register block. The register block becomes
// invalid as soon as the device is closed.
func (d *Device) Registers() *ilt.Registers { return d.regs }

// Wait blocks until the next interrupt event, returning the cumulative event
// count. If the event count read comes up short, Wait returns ok false but no
// error: this is a non-event. Wait returns an error when the context gets
// cancelled or its deadline exceeded, as well as on I/O errors.
func (d *Device) Wait(ctx context.Context) (count uint32, ok bool, err error) {
	d.mu.Lock()
	fd := d.fd
	d.mu.Unlock()
	if fd < 0 {
		return 0, false, fmt.Errorf("uio: %w", ErrClosed)
	}
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		n, err := unix.Poll(fds, pollTimeout(ctx))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, false, fmt.Errorf("uio: poll failed: %w", err)
		}
		if n > 0 {
			break
		}
	}
	var buf [4]byte
	n, err := unix.Read(fd, buf[:])
	if err != nil {
		return 0, false, fmt.Errorf("uio: cannot read event count: %w", err)
	}
	if n < len(buf) {
		return 0, false, nil
	}
	return binary.NativeEndian.Uint32(buf[:]), true, nil
}

// pollTimeout returns the poll(2) timeout in milliseconds, never blocking
// beyond the context's deadline.
func pollTimeout(ctx context.Context) int {
	timeout := pollInterval
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	if timeout <= 0 {
		return 0
	}
	return int((timeout + time.Millisecond - 1) / time.Millisecond)
}

// Close unmaps the register block and closes the device. Close can be called
// multiple times; only the first call has any effect.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fd < 0 {
		return nil
	}
	err := unix.Munmap(d.mem)
	if cerr := unix.Close(d.fd); err == nil {
		err = cerr
	}
	d.fd = -1
	d.mem = nil
	if err != nil {
		return fmt.Errorf("uio: cannot close device: %w", err)
	}
	return nil
}
