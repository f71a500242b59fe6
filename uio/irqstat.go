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
	"bufio"
	"io"
	"os"
	"strconv"

	"github.com/thediveo/faf"
)

const (
	procInterruptsNode    = "/interrupts"
	procIRQPath           = "/irq/"
	effectiveAffinityNode = "/effective_affinity_list"
)

// IRQ holds the per-CPU interrupt counters of a particular interrupt line.
type IRQ struct {
	Num      uint     // IRQ number
	Counters []uint64 // per-CPU counters
	CPUs     CPUList  // numbers of the CPUs that are currently online
}

// Total returns the sum of the per-CPU counters.
func (i IRQ) Total() (sum uint64) {
	for _, count := range i.Counters {
		sum += count
	}
	return
}

// CPUList lists the numbers of the CPUs currently being online.
type CPUList []uint

// CPUAffinities is a list of CPU [from...to] ranges. CPU numbers are starting
// from zero.
type CPUAffinities [][2]uint

// LineCounters returns the per-CPU counters of the interrupt line that has an
// action with the specified name registered, such as “aries_ilt0”. The procfs
// parameter specifies the mount point of procfs, usually “/proc”. If no such
// interrupt line exists, LineCounters returns ok false.
func LineCounters(procfs string, action string) (irq IRQ, ok bool) {
	f, err := os.Open(procfs + procInterruptsNode)
	if err != nil {
		return IRQ{}, false
	}
	defer f.Close()
	return lineCounters(f, action)
}

// lineCounters scans the interrupt information in “/proc/interrupts” format
// produced by the specified reader for the first numbered interrupt line with
// the specified action.
func lineCounters(r io.Reader, action string) (irq IRQ, ok bool) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return IRQ{}, false
	}
	// The header line tells us the CPUs that are actually online (their
	// numbers), and thus the number of counter columns.
	cpus := cpuList(sc.Bytes())
	numCPUs := len(cpus)
	if numCPUs == 0 {
		return IRQ{}, false
	}
	for sc.Scan() {
		// Fetch the IRQ number from the beginning of the current text line,
		// ending the scan when encountering an "unnumbered" (architecture
		// specific) IRQ.
		bstr := newBytestring(sc.Bytes())
		if bstr.SkipSpace() {
			return IRQ{}, false
		}
		irqno, ok := bstr.Uint64()
		if !ok || !bstr.SkipText(":") {
			return IRQ{}, false
		}
		counters := make([]uint64, numCPUs)
		for idx := range numCPUs {
			if bstr.SkipSpace() {
				return IRQ{}, false
			}
			count, ok := bstr.Uint64()
			if !ok {
				return IRQ{}, false
			}
			counters[idx] = count
		}
		// The remainder consists of the interrupt chip, hardware IRQ, trigger
		// type, and finally the comma-separated actions.
		if !bstr.HasField(action) {
			continue
		}
		return IRQ{
			Num:      uint(irqno),
			Counters: counters,
			CPUs:     cpus,
		}, true
	}
	return IRQ{}, false
}

// cpuList returns the list of CPUs that are currently online, according to the
// passed text line that must be in the format of the header line from
// “/proc/interrupts”.
func cpuList(b []byte) CPUList {
	bstr := newBytestring(b)
	numCPUs := bstr.NumFields()
	if numCPUs == 0 {
		return nil
	}
	cpuNums := make(CPUList, numCPUs)
	idx := 0
	for {
		if bstr.SkipSpace() {
			break
		}
		if !bstr.SkipText("CPU") {
			break
		}
		cpuNum, ok := bstr.Uint64()
		if !ok {
			break
		}
		cpuNums[idx] = uint(cpuNum)
		idx++
	}
	if idx != numCPUs {
		return nil
	}
	return cpuNums
}

// Affinity returns the effective CPU affinities of the specified interrupt.
func Affinity(procfs string, irq uint) (CPUAffinities, bool) {
	contents, ok := faf.ReadFile(
		procfs+procIRQPath+strconv.FormatUint(uint64(irq), 10)+effectiveAffinityNode, nil)
	if !ok || len(contents) < 1 || contents[len(contents)-1] != '\n' {
		return nil, false
	}
	affinities := affinityList(contents[:len(contents)-1])
	return affinities, len(affinities) > 0
}

// affinityList returns the CPUAffinities list from the given byte slice in
// “effective_affinity_list” format, such as “0-3,8”.
func affinityList(b []byte) CPUAffinities {
	bstr := faf.NewBytestring(b)
	cpus := CPUAffinities{}
	for !bstr.EOL() {
		from, ok := bstr.Uint64()
		if !ok {
			break
		}
		if bstr.EOL() {
			cpus = append(cpus, [2]uint{uint(from), uint(from)})
			break
		}
		ch, _ := bstr.Next()
		if ch == ',' {
			cpus = append(cpus, [2]uint{uint(from), uint(from)})
			continue
		}
		if ch != '-' {
			break
		}
		to, ok := bstr.Uint64()
		if !ok {
			break
		}
		cpus = append(cpus, [2]uint{uint(from), uint(to)})
		if ch, ok := bstr.Next(); !ok || ch != ',' {
			break
		}
	}
	return cpus
}

// Actions returns the comma-separated names of the actions registered for the
// specified interrupt, as listed in sysfs.
func Actions(sysfs string, irq uint) (string, bool) {
	contents, ok := faf.ReadFile(
		sysfs+"/kernel/irq/"+strconv.FormatUint(uint64(irq), 10)+"/actions", nil)
	if !ok || len(contents) < 1 || contents[len(contents)-1] != '\n' {
		return "", false
	}
	return string(contents[:len(contents)-1]), true
}
