// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/kelindar/ale"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	episodes  int
	maxSteps  int
	histBins  int
	histWidth int
	minimal   bool
)

var runCmd = &cobra.Command{
	Use:   "run <game|path>",
	Short: "play episodes with a random agent",
	Args:  cobra.ExactArgs(1),
	RunE:  Run,
}

// ale run pong --episodes 10
func Run(cmd *cobra.Command, args []string) error {
	var extra []ale.Option
	if minimal {
		extra = append(extra, ale.WithMinimalActions())
	}

	env, err := openEnv(cmd, args[0], extra...)
	if err != nil {
		return err
	}
	defer env.Close()

	out := cmd.OutOrStdout()
	agent := newAgent(env)
	returns := make([]float64, 0, episodes)
	for episode := 1; episode <= episodes; episode++ {
		if err := env.Reset(); err != nil {
			return err
		}

		total := 0
		for step := 0; !env.GameOver() && (maxSteps <= 0 || step < maxSteps); step++ {
			reward, err := env.Act(agent.next())
			if err != nil {
				return err
			}
			total += reward
		}

		fmt.Fprintf(out, "Episode %d ended with score: %d\n", episode, total)
		returns = append(returns, float64(total))
	}

	if len(returns) > 1 {
		fmt.Fprintln(out)
		return histogram.Fprint(out, histogram.Hist(histBins, returns), histogram.Linear(histWidth))
	}
	return nil
}

// agent picks uniformly random legal actions
type agent struct {
	rng     *rand.Rand
	actions []ale.Action
}

func newAgent(env *ale.Env) *agent {
	seed := uint64(viper.GetInt("seed"))
	return &agent{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		actions: env.LegalActions(),
	}
}

func (a *agent) next() ale.Action {
	return a.actions[a.rng.IntN(len(a.actions))]
}

func init() {
	runCmd.Flags().IntVarP(&episodes, "episodes", "e", 10, "number of episodes to play")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum number of steps per episode, 0 for unlimited")
	runCmd.Flags().IntVar(&histBins, "bins", 10, "number of bins of the returns histogram")
	runCmd.Flags().IntVar(&histWidth, "width", 40, "width of the returns histogram")
	runCmd.Flags().BoolVar(&minimal, "minimal", false, "only use the minimal action set of the game")
}
