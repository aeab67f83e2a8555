// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"fmt"
	"strings"
)

// Action is a joystick input understood by the emulator.
type Action int

// The full set of ALE actions, in the order used by the native library
const (
	Noop Action = iota
	Fire
	Up
	Right
	Left
	Down
	UpRight
	UpLeft
	DownRight
	DownLeft
	UpFire
	RightFire
	LeftFire
	DownFire
	UpRightFire
	UpLeftFire
	DownRightFire
	DownLeftFire
)

// ActionCount is the size of the full action set
const ActionCount = int(DownLeftFire) + 1

var actionNames = [ActionCount]string{
	"NOOP", "FIRE", "UP", "RIGHT", "LEFT", "DOWN",
	"UPRIGHT", "UPLEFT", "DOWNRIGHT", "DOWNLEFT",
	"UPFIRE", "RIGHTFIRE", "LEFTFIRE", "DOWNFIRE",
	"UPRIGHTFIRE", "UPLEFTFIRE", "DOWNRIGHTFIRE", "DOWNLEFTFIRE",
}

// String returns the canonical ALE name of the action
func (a Action) String() string {
	if a < 0 || int(a) >= ActionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// ParseAction returns the action with the given name, case-insensitive.
func ParseAction(name string) (Action, error) {
	name = strings.ToUpper(strings.ReplaceAll(name, "_", ""))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return Noop, fmt.Errorf("%w: unknown action '%s'", ErrIllegalAction, name)
}

// toActions converts native action codes
func toActions(codes []int) []Action {
	out := make([]Action, 0, len(codes))
	for _, c := range codes {
		out = append(out, Action(c))
	}
	return out
}
