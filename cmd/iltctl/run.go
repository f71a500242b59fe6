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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/thediveo/ilt"
	"github.com/thediveo/ilt/session"
	"golang.org/x/sys/unix"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		events  int
		delayMs uint32
		mode    string
		timeout time.Duration
		dumps   bool
	)
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run an interrupt latency measurement session",
		Long: `Run an interrupt latency measurement session, reporting the OS latency ` +
			`(interrupt to kernel acknowledgment) and SW latency (kernel to userspace ` +
			`acknowledgment) of each interrupt. Interrupting iltctl ends the session, ` +
			`leaving the ILT core disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			irgMode, err := ilt.ParseIRGMode(mode)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
			defer cancel()

			log := g.logger(cmd.ErrOrStderr())
			dev, err := openTarget(ctx, g, log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			opts := []session.Option{
				session.WithEvents(events),
				session.WithDelayMs(delayMs),
				session.WithMode(irgMode),
				session.WithTimeout(timeout),
				session.WithLogger(log),
				session.WithReporter(func(s session.Sample) {
					fmt.Fprintf(out, "Interrupt #%d!\n", s.Count)
					if dumps {
						fmt.Fprintln(out, "--------------------------")
						fmt.Fprint(out, s.Dump)
					}
					fmt.Fprintln(out, "--------------------------")
					fmt.Fprintf(out, "OS latency: %d ns\n", s.OSLatency.Nanoseconds())
					fmt.Fprintf(out, "SW latency: %d ns\n", s.SWLatency.Nanoseconds())
					fmt.Fprintln(out, "--------------------------")
				}),
			}
			if dumps {
				opts = append(opts, session.WithDumps())
			}
			samples, err := session.Run(ctx, dev, opts...)
			if len(samples) > 0 {
				last := samples[len(samples)-1]
				fmt.Fprintf(out, "%d samples, %d interrupts, %d missed ACK0, %d missed ACK3\n",
					len(samples), last.IntCount, last.MissedAck0, last.MissedAck3)
			}
			if errors.Is(err, context.Canceled) {
				log.Info("session interrupted")
				return nil
			}
			return err
		},
	}
	flags := runCmd.Flags()
	flags.IntVarP(&events, "events", "n", envInt(envEvents, session.DefaultEvents),
		"number of event notifications to wait for ($"+envEvents+")")
	flags.Uint32VarP(&delayMs, "delay-ms", "d", envUint32(envDelayMs, session.DefaultDelayMs),
		"interrupt generation delay in milliseconds ($"+envDelayMs+")")
	flags.StringVarP(&mode, "mode", "m", envString(envMode, session.DefaultMode.String()),
		"interrupt generator mode: free-running, delay-after-ack0, delay-after-ack3 ($"+envMode+")")
	flags.DurationVar(&timeout, "timeout", envDuration(envTimeout, 0),
		"maximum time to wait for a single event, 0 waits forever ($"+envTimeout+")")
	flags.BoolVar(&dumps, "dump", false, "dump the registers after each interrupt")
	return runCmd
}
