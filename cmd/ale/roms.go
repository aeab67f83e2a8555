// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/kelindar/ale"
	"github.com/spf13/cobra"
)

var romsCmd = &cobra.Command{
	Use:   "roms",
	Short: "list the supported games and whether their cartridge is available",
	Args:  cobra.NoArgs,
	RunE:  Roms,
}

// ale roms --rom-dir ~/roms
func Roms(cmd *cobra.Command, args []string) error {
	dir, err := romDir()
	if err != nil {
		return err
	}

	found := 0
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tPATH")
	for _, game := range ale.Games {
		path, err := ale.FindROM(dir, game)
		if err != nil {
			path = "-"
		} else {
			found++
		}
		fmt.Fprintf(w, "%s\t%s\n", game, path)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d games found in %s\n", found, len(ale.Games), dir)
	return nil
}
