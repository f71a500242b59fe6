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
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
	"github.com/thediveo/ilt/uio"
)

// globals are the flags shared by all commands.
type globals struct {
	sysfs     string
	procfs    string
	devDir    string
	name      string
	bound     int
	simulate  bool
	verbosity int
}

// logger returns a logger writing to the specified writer with the verbosity
// as requested by the user.
func (g *globals) logger(w io.Writer) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: g.verbosity})
}

// newRootCmd returns the root command with all its child commands. Flag
// defaults are taken from the environment at the time of calling.
func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:   "iltctl",
		Short: "iltctl inspects ILT cores and measures interrupt latencies.",
		Long: `iltctl locates ILT (interrupt latency timer) cores exposed as UIO devices, ` +
			`dumps their registers, shows their interrupt statistics, and runs interrupt ` +
			`latency measurement sessions. Use --simulate to work on a simulated core instead.`,
		SilenceUsage: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&g.sysfs, "sysfs", envString(envSysfs, "/sys"), "sysfs mount point ($"+envSysfs+")")
	flags.StringVar(&g.procfs, "procfs", envString(envProcfs, "/proc"), "procfs mount point ($"+envProcfs+")")
	flags.StringVar(&g.devDir, "dev", envString(envDev, uio.DefaultDevDir), "device node directory ($"+envDev+")")
	flags.StringVar(&g.name, "name", envString(envName, uio.DefaultName), "UIO device name prefix ($"+envName+")")
	flags.IntVar(&g.bound, "bound", uio.MaxDevices, "maximum number of UIO devices to scan")
	flags.BoolVar(&g.simulate, "simulate", false, "use a simulated ILT core instead of a UIO device")
	flags.CountVarP(&g.verbosity, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(
		newListCmd(g),
		newLocateCmd(g),
		newDumpCmd(g),
		newRunCmd(g),
		newIRQStatCmd(g),
	)
	return rootCmd
}
