// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package testing

import (
	"os"
	"path/filepath"
)

// RomDir returns the directory holding real cartridge images, as set by the
// ALE_ROM_DIR environment variable, or an empty string when none is available.
func RomDir() string {
	dir := os.Getenv("ALE_ROM_DIR")
	if dir == "" {
		return ""
	}

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// RomPath returns the path of a real cartridge image for the game, or an
// empty string when it is not available.
func RomPath(game string) string {
	dir := RomDir()
	if dir == "" {
		return ""
	}

	path := filepath.Join(dir, game+".bin")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Cartridge generates a synthetic, non-blank cartridge image of the given size
func Cartridge(size int, seed byte) []byte {
	out := make([]byte, size)
	state := uint32(seed) | 1
	for i := range out {
		state = state*1664525 + 1013904223
		out[i] = byte(state >> 24)
	}
	return out
}
