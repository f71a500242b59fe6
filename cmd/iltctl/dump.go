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
	"github.com/tebeka/atexit"
)

func newDumpCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Dump the registers of an ILT core",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := g.logger(cmd.ErrOrStderr())
			dev, err := openTarget(cmd.Context(), g, log)
			if err != nil {
				return err
			}
			atexit.Register(func() { _ = dev.Close() })
			defer dev.Close()
			fmt.Fprint(cmd.OutOrStdout(), dev.Registers().Dump())
			return nil
		},
	}
}
