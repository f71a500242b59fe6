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

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thediveo/ilt/uio"
)

func newIRQStatCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "irqstat",
		Short: "Show the interrupt statistics of an ILT core",
		Long: `Show the per-CPU interrupt counters and effective CPU affinities of the ` +
			`interrupt line of the located ILT core.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.simulate {
				return errors.New("interrupt statistics are unavailable for simulated cores")
			}
			idx, err := uio.Locate(g.sysfs, g.name, g.bound)
			if err != nil {
				return err
			}
			action := ""
			for info := range uio.Devices(g.sysfs) {
				if info.Index == idx {
					action = info.Name
					break
				}
			}
			irq, ok := uio.LineCounters(g.procfs, action)
			if !ok {
				return fmt.Errorf("no interrupt line with action %q", action)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "IRQ %d (%s): %d interrupts\n", irq.Num, action, irq.Total())
			if actions, ok := uio.Actions(g.sysfs, irq.Num); ok {
				fmt.Fprintf(out, "actions: %s\n", actions)
			}
			for i, cpu := range irq.CPUs {
				fmt.Fprintf(out, "  CPU%d: %d\n", cpu, irq.Counters[i])
			}
			if affinities, ok := uio.Affinity(g.procfs, irq.Num); ok {
				ranges := make([]string, 0, len(affinities))
				for _, r := range affinities {
					if r[0] == r[1] {
						ranges = append(ranges, fmt.Sprintf("%d", r[0]))
						continue
					}
					ranges = append(ranges, fmt.Sprintf("%d-%d", r[0], r[1]))
				}
				fmt.Fprintf(out, "effective affinity: %s\n", strings.Join(ranges, ","))
			}
			return nil
		},
	}
}
