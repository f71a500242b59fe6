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
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/thediveo/ilt"
	"github.com/thediveo/ilt/uio"
)

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all UIO devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DEVICE\tNAME\tVERSION\tSIZE")
			if g.simulate {
				fmt.Fprintf(w, "sim\t%s0\tsimulated\t0x%x\n", g.name, ilt.RegisterBlockSize)
				return w.Flush()
			}
			for info := range uio.Devices(g.sysfs) {
				fmt.Fprintf(w, "uio%d\t%s\t%s\t0x%x\n",
					info.Index, info.Name, info.Version, info.Size)
			}
			return w.Flush()
		},
	}
}
