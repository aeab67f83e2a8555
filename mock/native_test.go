// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package mock

import (
	"testing"

	"github.com/kelindar/ale/internal/native"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testROM = []byte("a synthetic cartridge image")

func TestLibrary_Create(t *testing.T) {
	lib := New()
	h, err := lib.Create(testROM, native.Config{Name: "pong", FrameSkip: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, lib.Created())
	assert.Equal(t, 1, lib.Live())

	w, ht := h.ScreenSize()
	assert.Equal(t, ScreenWidth, w)
	assert.Equal(t, ScreenHeight, ht)
	assert.Equal(t, RAMSize, h.RAMSize())
	assert.Len(t, h.LegalActions(), 18)
	assert.Equal(t, []int{0, 1, 3, 4}, h.MinimalActions())
	assert.Equal(t, 5, h.Lives())

	h.Destroy()
	h.Destroy()
	assert.Equal(t, 1, lib.Destroyed())
	assert.Equal(t, 1, lib.DoubleFrees())

	assert.Error(t, h.Reset())
	assert.Equal(t, 1, lib.UseAfterFree())
}

func TestLibrary_Reject(t *testing.T) {
	lib := New()
	_, err := lib.Create(nil, native.Config{Name: "pong"})
	assert.Error(t, err)

	_, err = lib.Create(testROM, native.Config{})
	assert.Error(t, err)

	lib.Err = ErrRejected
	_, err = lib.Create(testROM, native.Config{Name: "pong"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Zero(t, lib.Created())
}

func TestHandle_Episode(t *testing.T) {
	lib := New()
	lib.Episode = 10
	lib.Lives = 2

	h, err := lib.Create(testROM, native.Config{Name: "pong", FrameSkip: 2})
	require.NoError(t, err)
	defer h.Destroy()

	for i := 0; i < 5; i++ {
		assert.False(t, h.GameOver())
		h.Act(1)
	}

	assert.True(t, h.GameOver())
	assert.Equal(t, 10, h.EpisodeFrameNumber())
	assert.Zero(t, h.Lives())
	reward, err := h.Act(1)
	assert.NoError(t, err)
	assert.Zero(t, reward, "no reward once over")

	require.NoError(t, h.Reset())
	assert.False(t, h.GameOver())
	assert.Equal(t, 2, h.Lives())
	assert.Equal(t, 10, h.FrameNumber())
}

func TestHandle_State(t *testing.T) {
	lib := New()
	h, err := lib.Create(testROM, native.Config{Name: "pong", FrameSkip: 1})
	require.NoError(t, err)
	defer h.Destroy()

	h.Act(3)
	state, err := h.CloneState()
	require.NoError(t, err)
	assert.Len(t, state, stateSize)

	ram1 := make([]byte, RAMSize)
	h.Act(1)
	h.RAM(ram1)

	require.NoError(t, h.RestoreState(state))
	assert.Equal(t, 1, h.EpisodeFrameNumber())

	ram2 := make([]byte, RAMSize)
	h.Act(1)
	h.RAM(ram2)
	assert.Equal(t, ram1, ram2)

	assert.Error(t, h.RestoreState(state[:10]))
	state[0] = 0
	assert.Error(t, h.RestoreState(state))
}

func TestHandle_Screen(t *testing.T) {
	lib := New()
	h, err := lib.Create(testROM, native.Config{Name: "pong", FrameSkip: 1})
	require.NoError(t, err)
	defer h.Destroy()

	screen := make([]byte, ScreenWidth*ScreenHeight)
	h.Screen(screen)
	for _, v := range screen {
		assert.Zero(t, v&1)
	}

	ram := make([]byte, RAMSize)
	h.RAM(ram)
	assert.Equal(t, ram[0]&^1, screen[0])
}

func TestHandle_Fail(t *testing.T) {
	lib := New()
	h, err := lib.Create(testROM, native.Config{Name: "pong", FrameSkip: 1})
	require.NoError(t, err)
	defer h.Destroy()

	lib.Fail = "act"
	reward, err := h.Act(1)
	assert.Zero(t, reward)
	assert.Zero(t, h.EpisodeFrameNumber())

	var nerr *native.Error
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "act", nerr.Op)
	assert.Equal(t, native.CodeRuntime, nerr.Code)
	assert.NoError(t, h.Reset())

	lib.Fail = "reset_game"
	assert.Error(t, h.Reset())
	assert.NoError(t, h.SetMode(0))

	lib.Fail = "setMode"
	assert.Error(t, h.SetMode(0))
	assert.NoError(t, h.SetDifficulty(1))

	lib.Fail = "setDifficulty"
	assert.Error(t, h.SetDifficulty(1))

	lib.Fail = ""
	_, err = h.Act(1)
	assert.NoError(t, err)
	assert.Zero(t, lib.UseAfterFree())
}
