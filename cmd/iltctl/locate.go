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

	"github.com/spf13/cobra"
	"github.com/thediveo/ilt/uio"
)

func newLocateCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "locate [name]",
		Short: "Locate the UIO device of an ILT core",
		Long: `Locate the first UIO device whose name starts with the specified name, ` +
			`defaulting to the --name flag, and print its device node path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := g.name
			if len(args) == 1 {
				name = args[0]
			}
			idx, err := uio.Locate(g.sysfs, name, g.bound)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s/uio%d\n", g.devDir, idx)
			return nil
		},
	}
}
