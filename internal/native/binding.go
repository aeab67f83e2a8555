// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

//go:build ale

package native

/*
#cgo CXXFLAGS: -std=c++14
#cgo LDFLAGS: -lale_c -lstdc++ -lz
#include <stdlib.h>
#include "shim.h"
*/
import "C"
import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"
)

// Linked reports whether the native ALE library is compiled in.
const Linked = true

// Default returns the library backed by libale_c.
func Default() Library {
	return library{}
}

// library creates environments through the ALE C interface
type library struct{}

// Create allocates a native environment, applies the configuration and loads
// the ROM. The loader only accepts file paths, so the payload is written to a
// private temporary directory which is removed before returning.
func (library) Create(rom []byte, config Config) (Handle, error) {
	dir, err := os.MkdirTemp("", "ale-rom-*")
	if err != nil {
		return nil, fmt.Errorf("native: unable to create rom directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, config.Name+".bin")
	if err := os.WriteFile(path, rom, 0600); err != nil {
		return nil, fmt.Errorf("native: unable to stage rom: %w", err)
	}

	C.ale_shim_set_logger_mode(C.int(config.LogLevel))

	var env *C.ale_env
	if code := Code(C.ale_shim_new(&env)); code != CodeOK {
		return nil, &Error{Op: "ALE_new", Code: code}
	}

	if code := Code(C.ale_shim_configure(env,
		C.int(config.Seed),
		C.int(config.FrameSkip),
		C.float(config.RepeatActionProbability),
		C.int(config.MaxFrames),
		cbool(config.DisplayScreen),
		cbool(config.Sound),
		cbool(config.ColorAveraging),
	)); code != CodeOK {
		C.ale_shim_del(env)
		return nil, &Error{Op: "configure", Code: code}
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	if code := Code(C.ale_shim_load_rom(env, cpath)); code != CodeOK {
		C.ale_shim_del(env)
		return nil, &Error{Op: "loadROM", Code: code}
	}

	return &handle{ptr: env}, nil
}

// handle wraps a live ALEInterface pointer
type handle struct {
	ptr *C.ale_env
}

// Reset resets the game, but not the full system
func (h *handle) Reset() error {
	if code := Code(C.ale_shim_reset(h.ptr)); code != CodeOK {
		return &Error{Op: "reset_game", Code: code}
	}
	return nil
}

// Act applies an action and returns the reward
func (h *handle) Act(action int) (int, error) {
	var reward C.int
	if code := Code(C.ale_shim_act(h.ptr, C.int(action), &reward)); code != CodeOK {
		return 0, &Error{Op: "act", Code: code}
	}
	return int(reward), nil
}

// GameOver indicates if the game has ended
func (h *handle) GameOver() bool {
	return C.ale_shim_game_over(h.ptr) != 0
}

// Lives returns the remaining number of lives
func (h *handle) Lives() int {
	return int(C.ale_shim_lives(h.ptr))
}

// FrameNumber returns the frame number since the loading of the ROM
func (h *handle) FrameNumber() int {
	return int(C.ale_shim_frame_number(h.ptr))
}

// EpisodeFrameNumber returns the frame number since the start of the episode
func (h *handle) EpisodeFrameNumber() int {
	return int(C.ale_shim_episode_frame_number(h.ptr))
}

// LegalActions returns the full set of legal actions
func (h *handle) LegalActions() []int {
	size := int(C.ale_shim_legal_action_size(h.ptr))
	return readInts(size, func(dst *C.int) { C.ale_shim_legal_action_set(h.ptr, dst) })
}

// MinimalActions returns the minimal set of actions needed to play the game
func (h *handle) MinimalActions() []int {
	size := int(C.ale_shim_minimal_action_size(h.ptr))
	return readInts(size, func(dst *C.int) { C.ale_shim_minimal_action_set(h.ptr, dst) })
}

// Modes returns the game modes available for the loaded ROM
func (h *handle) Modes() []int {
	size := int(C.ale_shim_modes_size(h.ptr))
	return readInts(size, func(dst *C.int) { C.ale_shim_modes(h.ptr, dst) })
}

// SetMode selects a game mode
func (h *handle) SetMode(mode int) error {
	if code := Code(C.ale_shim_set_mode(h.ptr, C.int(mode))); code != CodeOK {
		return &Error{Op: "setMode", Code: code}
	}
	return nil
}

// Difficulties returns the difficulties available for the loaded ROM
func (h *handle) Difficulties() []int {
	size := int(C.ale_shim_difficulties_size(h.ptr))
	return readInts(size, func(dst *C.int) { C.ale_shim_difficulties(h.ptr, dst) })
}

// SetDifficulty selects a difficulty
func (h *handle) SetDifficulty(difficulty int) error {
	if code := Code(C.ale_shim_set_difficulty(h.ptr, C.int(difficulty))); code != CodeOK {
		return &Error{Op: "setDifficulty", Code: code}
	}
	return nil
}

// ScreenSize returns the dimensions of the screen in pixels
func (h *handle) ScreenSize() (int, int) {
	return int(C.ale_shim_screen_width(h.ptr)), int(C.ale_shim_screen_height(h.ptr))
}

// Screen writes the palette-indexed screen into dst, which must hold width*height bytes
func (h *handle) Screen(dst []byte) {
	if len(dst) == 0 {
		return
	}
	C.ale_shim_screen(h.ptr, (*C.uchar)(unsafe.Pointer(&dst[0])))
}

// RAMSize returns the size of the console RAM in bytes
func (h *handle) RAMSize() int {
	return int(C.ale_shim_ram_size(h.ptr))
}

// RAM writes the console RAM into dst, which must hold RAMSize() bytes
func (h *handle) RAM(dst []byte) {
	if len(dst) == 0 {
		return
	}
	C.ale_shim_ram(h.ptr, (*C.uchar)(unsafe.Pointer(&dst[0])))
}

// CloneState serializes the current state of the environment
func (h *handle) CloneState() ([]byte, error) {
	var buf *C.char
	var size C.int
	if code := Code(C.ale_shim_clone_state(h.ptr, &buf, &size)); code != CodeOK {
		return nil, &Error{Op: "cloneState", Code: code}
	}

	defer C.free(unsafe.Pointer(buf))
	return C.GoBytes(unsafe.Pointer(buf), size), nil
}

// RestoreState restores a state previously returned by CloneState
func (h *handle) RestoreState(state []byte) error {
	if len(state) == 0 {
		return &Error{Op: "restoreState", Code: CodeState}
	}

	data := (*C.char)(unsafe.Pointer(&state[0]))
	if code := Code(C.ale_shim_restore_state(h.ptr, data, C.int(len(state)))); code != CodeOK {
		return &Error{Op: "restoreState", Code: code}
	}
	return nil
}

// Destroy releases the native environment
func (h *handle) Destroy() {
	C.ale_shim_del(h.ptr)
	h.ptr = nil
}

// readInts reads a native int array of the given size
func readInts(size int, read func(dst *C.int)) []int {
	if size <= 0 {
		return nil
	}

	buffer := make([]C.int, size)
	read(&buffer[0])

	out := make([]int, size)
	for i, v := range buffer {
		out[i] = int(v)
	}
	return out
}

func cbool(v bool) C.int {
	if v {
		return 1
	}
	return 0
}
