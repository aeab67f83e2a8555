// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"testing"

	"github.com/kelindar/ale/mock"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Defaults(t *testing.T) {
	c := defaultConfig()
	assert.Equal(t, 1, c.FrameSkip)
	assert.Equal(t, float32(0.25), c.RepeatActionProbability)
	assert.Equal(t, LogError, c.LogLevel)
	assert.NotNil(t, c.Logger)
	assert.NotNil(t, c.Backend)
	assert.Nil(t, c.Mode)
	assert.Nil(t, c.Difficulty)
}

func TestConfig_Options(t *testing.T) {
	lib := mock.New()
	c := defaultConfig()
	for _, opt := range []Option{
		WithSeed(7),
		WithFrameSkip(0),
		WithRepeatActionProbability(1.5),
		WithMaxFrames(-3),
		WithDisplay(true),
		WithSound(true),
		WithColorAveraging(true),
		WithMinimalActions(),
		WithMode(2),
		WithDifficulty(1),
		WithLogLevel(LogInfo),
		WithLogger(nil),
		WithBackend(lib),
	} {
		opt(&c)
	}

	assert.Equal(t, 7, c.Seed)
	assert.Equal(t, 1, c.FrameSkip)
	assert.Equal(t, float32(1), c.RepeatActionProbability)
	assert.Zero(t, c.MaxFrames)
	assert.True(t, c.Display)
	assert.True(t, c.Sound)
	assert.True(t, c.ColorAveraging)
	assert.True(t, c.MinimalActions)
	assert.Equal(t, 2, *c.Mode)
	assert.Equal(t, 1, *c.Difficulty)
	assert.Equal(t, LogInfo, c.LogLevel)
	assert.NotNil(t, c.Logger)
	assert.Same(t, lib, c.Backend)

	WithRepeatActionProbability(-1)(&c)
	assert.Zero(t, c.RepeatActionProbability)

	n := c.toNative("pong")
	assert.Equal(t, "pong", n.Name)
	assert.Equal(t, 7, n.Seed)
	assert.Equal(t, 1, n.FrameSkip)
	assert.True(t, n.DisplayScreen)
	assert.True(t, n.Sound)
	assert.True(t, n.ColorAveraging)
	assert.Equal(t, int(LogInfo), n.LogLevel)
}
