// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	outDir string
	steps  int
)

var screenshotsCmd = &cobra.Command{
	Use:   "screenshots <game|path>",
	Short: "save a PNG screenshot after every step of a random agent",
	Args:  cobra.ExactArgs(1),
	RunE:  Screenshots,
}

// ale screenshots pong --out frames --steps 100
func Screenshots(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, args[0])
	if err != nil {
		return err
	}
	defer env.Close()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("unable to create '%s': %w", outDir, err)
	}

	agent := newAgent(env)
	for step := 0; step < steps; step++ {
		if env.GameOver() {
			if err := env.Reset(); err != nil {
				return err
			}
		}

		if _, err := env.Step(agent.next()); err != nil {
			return err
		}

		path := filepath.Join(outDir, fmt.Sprintf("frame_%05d.png", step))
		if err := env.SavePNG(path); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d screenshots to %s\n", steps, outDir)
	return nil
}

func init() {
	screenshotsCmd.Flags().StringVarP(&outDir, "out", "o", "screenshots", "directory to write the screenshots to")
	screenshotsCmd.Flags().IntVarP(&steps, "steps", "n", 100, "number of steps to play")
}
