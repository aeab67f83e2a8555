// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/kelindar/ale"
	"github.com/kelindar/ale/mock"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// profiler is the running profiler, if --profile was set
var profiler interface{ Stop() }

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ale [command]",
	Short: "Arcade Learning Environment for Go",
	Long:  "Runs Atari 2600 games through the Arcade Learning Environment, the emulator used for reinforcement learning research.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dir := viper.GetString("profile"); dir != "" {
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(dir))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfile()
	},
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ale.yaml)")
	flags.String("rom-dir", "~/.ale/roms", "directory searched for cartridge images")
	flags.Int("seed", 0, "random seed of the emulator and the agent")
	flags.Int("frame-skip", 1, "number of frames each action is repeated for")
	flags.Float32("repeat-action-probability", 0.25, "probability of repeating the previous action")
	flags.String("backend", "native", "emulator backend, either native or mock")
	flags.String("profile", "", "write a CPU profile into this directory")
	flags.BoolP("verbose", "v", false, "log environment lifecycle events")
	cobra.CheckErr(viper.BindPFlags(flags))

	rootCmd.AddCommand(runCmd, screenshotsCmd, infoCmd, romsCmd)
}

// Execute runs the root command
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the root command; post-run hooks are skipped when a command
// fails, so the profiler is flushed here as well.
func run() error {
	defer stopProfile()
	return rootCmd.Execute()
}

// stopProfile flushes and stops the running profiler, if any
func stopProfile() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigName(".ale")
	}

	// ALE_ROM_DIR, ALE_SEED and so on
	viper.SetEnvPrefix("ale")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// romDir returns the configured ROM directory with the home directory expanded
func romDir() (string, error) {
	return homedir.Expand(viper.GetString("rom-dir"))
}

// loadROM loads a cartridge either from a file path or by game name from the
// ROM directory.
func loadROM(target string) (ale.ROM, error) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return ale.LoadROM(target)
	}

	dir, err := romDir()
	if err != nil {
		return ale.ROM{}, err
	}

	path, err := ale.FindROM(dir, target)
	if err != nil {
		return ale.ROM{}, err
	}

	return ale.LoadROM(path)
}

// options converts the global flags into environment options
func options(out io.Writer) ([]ale.Option, error) {
	opts := []ale.Option{
		ale.WithSeed(viper.GetInt("seed")),
		ale.WithFrameSkip(viper.GetInt("frame-skip")),
		ale.WithRepeatActionProbability(float32(viper.GetFloat64("repeat-action-probability"))),
	}

	switch backend := viper.GetString("backend"); backend {
	case "mock":
		opts = append(opts, ale.WithBackend(mock.New()))
	case "native", "":
	default:
		return nil, fmt.Errorf("unknown backend '%s'", backend)
	}

	if viper.GetBool("verbose") {
		opts = append(opts, ale.WithLogger(log.New(out, "", log.LstdFlags)), ale.WithLogLevel(ale.LogInfo))
	}

	return opts, nil
}

// openEnv loads the ROM and creates an environment for it
func openEnv(cmd *cobra.Command, target string, extra ...ale.Option) (*ale.Env, error) {
	rom, err := loadROM(target)
	if err != nil {
		return nil, err
	}

	return newEnv(cmd, rom, extra...)
}

// newEnv creates an environment for an already loaded ROM
func newEnv(cmd *cobra.Command, rom ale.ROM, extra ...ale.Option) (*ale.Env, error) {
	opts, err := options(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return ale.New(rom, append(opts, extra...)...)
}
