// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"io"
	"log"

	"github.com/kelindar/ale/internal/native"
)

// Backend creates native environments. The default backend binds to libale_c
// when the module is built with the "ale" tag; mock.New() provides an
// in-memory one.
type Backend = native.Library

// Handle is an opaque reference to a native environment created by a Backend.
type Handle = native.Handle

// NativeConfig is the configuration passed to a Backend when creating a handle.
type NativeConfig = native.Config

// LogLevel is the verbosity of the native library logger
type LogLevel int

// Native logger levels
const (
	LogInfo LogLevel = iota
	LogWarning
	LogError
)

// Config describes how an environment is created.
type Config struct {
	Seed                    int         // Random seed of the emulator
	FrameSkip               int         // Number of frames each action is repeated for
	RepeatActionProbability float32     // Probability of ignoring the agent and repeating the last action
	MaxFrames               int         // Maximum number of frames per episode, 0 for unlimited
	Display                 bool        // Whether the native library opens a display window
	Sound                   bool        // Whether the native library plays sound
	ColorAveraging          bool        // Whether consecutive frames are averaged
	MinimalActions          bool        // Restrict the legal action set to the minimal set
	Mode                    *int        // Game mode selected after loading, if any
	Difficulty              *int        // Difficulty selected after loading, if any
	LogLevel                LogLevel    // Verbosity of the native logger
	Logger                  *log.Logger // Logger for lifecycle events
	Backend                 Backend     // Native library used to create the environment
}

// Option configures an environment
type Option func(*Config)

// defaultConfig returns the configuration used by ALE when nothing is set
func defaultConfig() Config {
	return Config{
		FrameSkip:               1,
		RepeatActionProbability: 0.25,
		LogLevel:                LogError,
		Logger:                  log.New(io.Discard, "", 0),
		Backend:                 native.Default(),
	}
}

// WithSeed sets the random seed of the emulator
func WithSeed(seed int) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithFrameSkip repeats each action for the given number of frames
func WithFrameSkip(frames int) Option {
	return func(c *Config) {
		c.FrameSkip = max(1, frames)
	}
}

// WithRepeatActionProbability sets the sticky action probability, clamped to [0, 1]
func WithRepeatActionProbability(p float32) Option {
	return func(c *Config) {
		c.RepeatActionProbability = min(1, max(0, p))
	}
}

// WithMaxFrames ends an episode after the given number of frames
func WithMaxFrames(frames int) Option {
	return func(c *Config) {
		c.MaxFrames = max(0, frames)
	}
}

// WithDisplay asks the native library to render into a window
func WithDisplay(enabled bool) Option {
	return func(c *Config) {
		c.Display = enabled
	}
}

// WithSound asks the native library to play sound
func WithSound(enabled bool) Option {
	return func(c *Config) {
		c.Sound = enabled
	}
}

// WithColorAveraging averages consecutive frames
func WithColorAveraging(enabled bool) Option {
	return func(c *Config) {
		c.ColorAveraging = enabled
	}
}

// WithMinimalActions restricts the legal action set to the game's minimal set
func WithMinimalActions() Option {
	return func(c *Config) {
		c.MinimalActions = true
	}
}

// WithMode selects a game mode once the ROM is loaded
func WithMode(mode int) Option {
	return func(c *Config) {
		c.Mode = &mode
	}
}

// WithDifficulty selects a difficulty once the ROM is loaded
func WithDifficulty(difficulty int) Option {
	return func(c *Config) {
		c.Difficulty = &difficulty
	}
}

// WithLogLevel sets the verbosity of the native logger
func WithLogLevel(level LogLevel) Option {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithLogger sets the logger used for lifecycle events
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger
		}
	}
}

// WithBackend sets the native library used to create the environment
func WithBackend(backend Backend) Option {
	return func(c *Config) {
		if backend != nil {
			c.Backend = backend
		}
	}
}

// toNative converts the configuration for the given game
func (c *Config) toNative(name string) native.Config {
	return native.Config{
		Name:                    name,
		Seed:                    c.Seed,
		FrameSkip:               c.FrameSkip,
		RepeatActionProbability: c.RepeatActionProbability,
		MaxFrames:               c.MaxFrames,
		DisplayScreen:           c.Display,
		Sound:                   c.Sound,
		ColorAveraging:          c.ColorAveraging,
		LogLevel:                int(c.LogLevel),
	}
}
