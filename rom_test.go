// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"os"
	"path/filepath"
	"testing"

	aletest "github.com/kelindar/ale/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameName(t *testing.T) {
	tests := map[string]string{
		"breakout":             "breakout",
		"Breakout.bin":         "breakout",
		"Space Invaders.a26":   "space_invaders",
		"ms-pacman.rom":        "ms_pacman",
		"/roms/pong.bin.zip":   "pong",
		"roms/Seaquest.tar.gz": "seaquest",
		"up.n.down.bin":        "up_n_down",
		"":                     "",
		"   ":                  "",
	}

	for in, expect := range tests {
		assert.Equal(t, expect, GameName(in), "name %q", in)
	}
}

func TestROM_Validate(t *testing.T) {
	assert.NoError(t, NewROM("pong", aletest.Cartridge(2048, 1)).Validate())
	assert.NoError(t, NewROM("pong", aletest.Cartridge(superchargerLen*3, 1)).Validate())
	assert.NoError(t, NewROM("pitfall2", aletest.Cartridge(dpcLen, 1)).Validate())
	assert.NoError(t, NewROM("pong", aletest.Cartridge(maxROMSize, 1)).Validate())

	assert.ErrorIs(t, NewROM("pong", nil).Validate(), ErrInvalidRom)
	assert.ErrorIs(t, NewROM("pong", []byte{0xff}).Validate(), ErrInvalidRom)
	assert.ErrorIs(t, NewROM("pong", make([]byte, 2048)).Validate(), ErrInvalidRom)
	assert.ErrorIs(t, NewROM("", aletest.Cartridge(2048, 1)).Validate(), ErrInvalidRom)
}

func TestROM_Info(t *testing.T) {
	rom := NewROM("Pong.bin", []byte("hello"))
	assert.Equal(t, "pong", rom.Name)
	assert.Equal(t, 5, rom.Size())
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", rom.MD5())
	assert.True(t, rom.Supported())
	assert.False(t, NewROM("homebrew", nil).Supported())
}

func TestLoadROM(t *testing.T) {
	dir := t.TempDir()
	data := aletest.Cartridge(4096, 3)
	path := filepath.Join(dir, "Breakout.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rom, err := LoadROM(path)
	require.NoError(t, err)
	assert.Equal(t, "breakout", rom.Name)
	assert.Equal(t, data, rom.Data)
}

func TestLoadROM_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadROM(filepath.Join(dir, "missing.bin"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadROM(dir)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.bin")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	rom, err := LoadROM(empty)
	require.NoError(t, err)
	assert.ErrorIs(t, rom.Validate(), ErrInvalidRom)

	large := filepath.Join(dir, "large.bin")
	require.NoError(t, os.WriteFile(large, aletest.Cartridge(maxROMSize+1, 1), 0o644))
	_, err = LoadROM(large)
	assert.ErrorIs(t, err, ErrInvalidRom)
}

func TestFindROM(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pong.bin"), aletest.Cartridge(2048, 1), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seaquest.zip"), []byte("zip"), 0o644))

	path, err := FindROM(dir, "Pong")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pong.bin"), path)

	path, err = FindROM(dir, "seaquest")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "seaquest.zip"), path)

	_, err = FindROM(dir, "breakout")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
