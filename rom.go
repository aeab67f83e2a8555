// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Cartridge size limits
const (
	maxROMSize      = 512 * 1024 // Largest bank-switched cartridge
	superchargerLen = 8448       // Size of a single Supercharger load
	dpcLen          = 10495      // 8K + 2K graphics + 255 byte DPC random table
)

// romExtensions lists the file extensions of raw cartridge images
var romExtensions = []string{".bin", ".a26", ".rom"}

// Games lists the games supported by the native library, by ROM name
var Games = []string{
	"adventure", "air_raid", "alien", "amidar", "assault", "asterix", "asteroids",
	"atlantis", "bank_heist", "battle_zone", "beam_rider", "berzerk", "bowling",
	"boxing", "breakout", "carnival", "centipede", "chopper_command", "crazy_climber",
	"defender", "demon_attack", "double_dunk", "elevator_action", "enduro",
	"fishing_derby", "freeway", "frostbite", "gopher", "gravitar", "hero",
	"ice_hockey", "jamesbond", "journey_escape", "kaboom", "kangaroo", "krull",
	"kung_fu_master", "montezuma_revenge", "ms_pacman", "name_this_game", "phoenix",
	"pitfall", "pong", "pooyan", "private_eye", "qbert", "riverraid", "road_runner",
	"robotank", "seaquest", "skiing", "solaris", "space_invaders", "star_gunner",
	"tennis", "time_pilot", "tutankham", "up_n_down", "venture", "video_pinball",
	"wizard_of_wor", "yars_revenge", "zaxxon",
}

// ROM is an immutable cartridge image together with the name of the game it
// contains. The native loader selects the game rules by name.
type ROM struct {
	Name string // Game name, such as "breakout"
	Data []byte // Cartridge image
}

// NewROM creates a ROM payload for the named game. The name is normalized
// the same way as file names are.
func NewROM(name string, data []byte) ROM {
	return ROM{
		Name: GameName(name),
		Data: data,
	}
}

// LoadROM reads a cartridge image from disk. Raw images are read through a
// memory map; ZIP, 7z, gzip, tar.gz and RAR archives are searched for the
// first file with a cartridge extension. The game name is derived from the
// file name.
func LoadROM(path string) (ROM, error) {
	data, name, err := readCartridge(path)
	if err != nil {
		return ROM{}, fmt.Errorf("ale: unable to load rom '%s': %w", path, err)
	}

	return NewROM(name, data), nil
}

// FindROM looks up the cartridge image of a game in a directory, trying the
// raw image extensions first and the archive extensions afterwards.
func FindROM(dir, game string) (string, error) {
	game = GameName(game)
	for _, ext := range append(slices.Clone(romExtensions), archiveExtensions...) {
		path := filepath.Join(dir, game+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}

	return "", fmt.Errorf("ale: rom for '%s' not found in '%s': %w", game, dir, os.ErrNotExist)
}

// Size returns the size of the cartridge image in bytes
func (r ROM) Size() int {
	return len(r.Data)
}

// MD5 returns the hex encoded MD5 digest of the cartridge image
func (r ROM) MD5() string {
	sum := md5.Sum(r.Data)
	return hex.EncodeToString(sum[:])
}

// Supported reports whether the native library has game settings for this ROM
func (r ROM) Supported() bool {
	return slices.Contains(Games, r.Name)
}

// Validate checks that the payload is well-formed enough for the native loader.
func (r ROM) Validate() error {
	size := len(r.Data)
	switch {
	case size == 0:
		return fmt.Errorf("%w: empty payload", ErrInvalidRom)
	case size > maxROMSize:
		return fmt.Errorf("%w: payload of %d bytes exceeds %d bytes", ErrInvalidRom, size, maxROMSize)
	case size%1024 != 0 && size%superchargerLen != 0 && size != dpcLen:
		return fmt.Errorf("%w: %d bytes is not a cartridge size", ErrInvalidRom, size)
	case isBlank(r.Data):
		return fmt.Errorf("%w: blank cartridge image", ErrInvalidRom)
	case r.Name == "":
		return fmt.Errorf("%w: missing game name", ErrInvalidRom)
	}

	return nil
}

// isBlank checks whether every byte of the image has the same value, as in
// an erased or zero-filled dump
func isBlank(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	for _, b := range data[1:] {
		if b != data[0] {
			return false
		}
	}
	return true
}

// GameName normalizes a file or game name into an ALE ROM name, for example
// "Space Invaders.a26" becomes "space_invaders".
func GameName(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	name = filepath.Base(name)
	for {
		ext := strings.ToLower(filepath.Ext(name))
		if ext == "" || !(slices.Contains(romExtensions, ext) || slices.Contains(archiveExtensions, ext) || ext == ".tar") {
			break
		}
		name = name[:len(name)-len(ext)]
	}

	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return '_'
		default:
			return r
		}
	}, name)
}
