// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <game|path>",
	Short: "describe a cartridge and the environment it creates",
	Args:  cobra.ExactArgs(1),
	RunE:  Info,
}

// ale info breakout
func Info(cmd *cobra.Command, args []string) error {
	rom, err := loadROM(args[0])
	if err != nil {
		return err
	}

	env, err := newEnv(cmd, rom)
	if err != nil {
		return err
	}
	defer env.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Game:\t%s\n", env.Name())
	fmt.Fprintf(w, "MD5:\t%s\n", env.Checksum())
	fmt.Fprintf(w, "Supported:\t%t\n", rom.Supported())
	fmt.Fprintf(w, "Screen:\t%dx%d\n", env.Width(), env.Height())
	fmt.Fprintf(w, "RAM:\t%d bytes\n", env.RAMSize())
	fmt.Fprintf(w, "Lives:\t%d\n", env.Lives())
	fmt.Fprintf(w, "Legal actions:\t%v\n", env.LegalActions())
	fmt.Fprintf(w, "Minimal actions:\t%v\n", env.MinimalActions())
	fmt.Fprintf(w, "Modes:\t%v\n", env.Modes())
	fmt.Fprintf(w, "Difficulties:\t%v\n", env.Difficulties())
	return w.Flush()
}
