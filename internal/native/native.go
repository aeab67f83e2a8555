// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package native provides the raw binding to the Arcade Learning Environment
// C interface. The cgo implementation is only compiled with the "ale" build
// tag; without it, Default returns a library whose factory always fails.
package native

import (
	"errors"
	"fmt"
)

// ErrNotLinked is returned by the factory when the binary was built without
// the native ALE library.
var ErrNotLinked = errors.New("native: ale library not linked (build with -tags ale)")

// Code is a status code returned across the foreign call boundary.
type Code int

// Status codes returned by the shim
const (
	CodeOK      Code = 0 // Call succeeded
	CodeAlloc   Code = 1 // Native allocation failed
	CodeLoad    Code = 2 // ROM rejected by the native loader
	CodeState   Code = 3 // State could not be cloned, decoded or restored
	CodeRuntime Code = 4 // A C++ std::exception escaped the call
	CodeUnknown Code = 5 // A non-standard exception escaped the call
)

// String returns a human readable name of the code.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeAlloc:
		return "allocation failure"
	case CodeLoad:
		return "rom load failure"
	case CodeState:
		return "state failure"
	case CodeRuntime:
		return "runtime exception"
	default:
		return "unknown failure"
	}
}

// Error is a failure signaled by the native library.
type Error struct {
	Op   string // Name of the native call that failed
	Code Code   // Status code returned by the shim
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("native: %s: %s (code %d)", e.Op, e.Code, int(e.Code))
}

// Config holds the settings applied to a native environment before the ROM is loaded.
type Config struct {
	Name                    string  // Game name, used by the loader to select game settings
	Seed                    int     // random_seed
	FrameSkip               int     // frame_skip
	RepeatActionProbability float32 // repeat_action_probability
	MaxFrames               int     // max_num_frames_per_episode, 0 for unlimited
	DisplayScreen           bool    // display_screen
	Sound                   bool    // sound
	ColorAveraging          bool    // color_averaging
	LogLevel                int     // 0: info, 1: warning, 2: error
}

// Library creates native environments.
type Library interface {
	// Create allocates a native environment and loads the ROM into it. On
	// failure no native resource is left allocated.
	Create(rom []byte, config Config) (Handle, error)
}

// Handle is an opaque reference to a single native environment. A handle
// must be destroyed exactly once and must not be used afterwards. Calls that
// mutate the emulator report native failures as *Error; queries fall back to
// zero values.
type Handle interface {
	Reset() error
	Act(action int) (int, error)
	GameOver() bool
	Lives() int
	FrameNumber() int
	EpisodeFrameNumber() int

	LegalActions() []int
	MinimalActions() []int
	Modes() []int
	SetMode(mode int) error
	Difficulties() []int
	SetDifficulty(difficulty int) error

	ScreenSize() (width, height int)
	Screen(dst []byte)
	RAMSize() int
	RAM(dst []byte)

	CloneState() ([]byte, error)
	RestoreState(state []byte) error

	Destroy()
}
