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
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/thediveo/faf"
)

// DefaultName is the name prefix of the UIO devices registered by the ILT
// kernel module.
const DefaultName = "aries_ilt"

// MaxDevices is the default upper bound on the UIO device indices scanned by
// [Locate].
const MaxDevices = 32

const (
	uioClassPath = "/class/uio/"
	nameNode     = "/name"
	versionNode  = "/version"
	mapsPath     = "/maps/map"
	sizeNode     = "/size"
	offsetNode   = "/offset"
)

var (
	// ErrNotFound is returned when no UIO device with a matching name exists.
	ErrNotFound = errors.New("no matching UIO device found")
	// ErrBadSize is returned for missing, malformed, or zero map sizes.
	ErrBadSize = errors.New("bad memory size")
)

// Info describes a UIO device as found in sysfs.
type Info struct {
	Index   int    // device index N as in “uioN”
	Name    string // name of the device, as given by its kernel driver
	Version string // version of the kernel driver
	Size    uint64 // size of the first memory map (map0), or zero
}

// Locate returns the index of the first UIO device whose name starts with the
// specified identifier. The sysfs parameter specifies the mount point of
// sysfs, usually “/sys”. Locate scans the UIO devices in ascending index order,
// up to the specified bound, and stops as soon as a device index is missing.
// If no matching device could be found, Locate returns [ErrNotFound].
func Locate(sysfs string, id string, bound int) (int, error) {
	var contents []byte
	for idx := range bound {
		var ok bool
		contents, ok = faf.ReadFile(deviceNode(sysfs, idx, nameNode), contents)
		if !ok {
			break
		}
		if strings.HasPrefix(string(contents), id) {
			return idx, nil
		}
	}
	return -1, fmt.Errorf("uio: cannot locate %q: %w", id, ErrNotFound)
}

// Devices returns an iterator looping over all UIO devices found in sysfs, in
// the order as returned from the directory listing. Devices without a
// readable name are skipped.
func Devices(sysfs string) iter.Seq[Info] {
	return func(yield func(Info) bool) {
		var contents []byte
		for entry := range faf.ReadDir(sysfs + uioClassPath) {
			name, found := strings.CutPrefix(string(entry.Name), "uio")
			if !found {
				continue
			}
			idx, ok := faf.ParseUint([]byte(name))
			if !ok {
				continue
			}
			info := Info{Index: int(idx)}
			contents, ok = faf.ReadFile(deviceNode(sysfs, info.Index, nameNode), contents)
			if !ok {
				continue
			}
			info.Name = trimNewline(contents)
			contents, ok = faf.ReadFile(deviceNode(sysfs, info.Index, versionNode), contents)
			if ok {
				info.Version = trimNewline(contents)
			}
			info.Size, _ = MapSize(sysfs, info.Index, 0)
			if !yield(info) {
				return
			}
		}
	}
}

// MapSize returns the size in bytes of the specified memory map of the UIO
// device with the passed index. It returns an error wrapping [ErrBadSize] when
// the size cannot be determined or is zero.
func MapSize(sysfs string, index int, mapNo int) (uint64, error) {
	path := deviceNode(sysfs, index, mapsPath+strconv.Itoa(mapNo)+sizeNode)
	contents, ok := faf.ReadFile(path, nil)
	if !ok {
		return 0, fmt.Errorf("uio: cannot read %s: %w", path, ErrBadSize)
	}
	size, ok := newBytestring(contents).Hex64()
	if !ok || size == 0 {
		return 0, fmt.Errorf("uio: invalid size %q in %s: %w",
			trimNewline(contents), path, ErrBadSize)
	}
	return size, nil
}

// MapOffset returns the offset of the device memory inside the first page of
// the specified memory map, as the memory doesn't need to be page-aligned.
// Older kernels lacking the offset attribute always map page-aligned memory,
// so a missing offset is zero. A malformed offset returns an error wrapping
// [ErrBadSize].
func MapOffset(sysfs string, index int, mapNo int) (uint64, error) {
	path := deviceNode(sysfs, index, mapsPath+strconv.Itoa(mapNo)+offsetNode)
	contents, ok := faf.ReadFile(path, nil)
	if !ok {
		return 0, nil
	}
	offs, ok := newBytestring(contents).Hex64()
	if !ok {
		return 0, fmt.Errorf("uio: invalid offset %q in %s: %w",
			trimNewline(contents), path, ErrBadSize)
	}
	return offs, nil
}

func deviceNode(sysfs string, index int, node string) string {
	return sysfs + uioClassPath + "uio" + strconv.Itoa(index) + node
}

func trimNewline(b []byte) string {
	return strings.TrimSuffix(string(b), "\n")
}
