// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package mock provides an in-memory, deterministic stand-in for the native
// ALE library. It keeps track of every handle it allocates so tests can
// assert that handles are neither leaked, destroyed twice nor used after
// being destroyed.
package mock

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
	"sync/atomic"

	"github.com/kelindar/ale/internal/native"
)

// Default geometry of the emulated console
const (
	ScreenWidth  = 160
	ScreenHeight = 210
	RAMSize      = 128
)

// Full ALE action set
var legalActions = []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}

// ErrRejected is returned when the loader rejects a ROM.
var ErrRejected = errors.New("mock: rom rejected")

// Library is an in-memory implementation of the native library.
type Library struct {
	Err          error  // When set, Create fails with this error
	Episode      int    // Number of frames in an episode
	Lives        int    // Lives at the start of an episode
	Width        int    // Reported screen width
	Height       int    // Reported screen height
	Minimal      []int  // Minimal action set
	Modes        []int  // Available game modes
	Difficulties []int  // Available difficulties
	Fail         string // Native operation to fail with a runtime error, such as "act"

	created    atomic.Int64
	destroyed  atomic.Int64
	doubleFree atomic.Int64
	afterFree  atomic.Int64
}

// New creates a mock library with defaults resembling an ALE game.
func New() *Library {
	return &Library{
		Episode:      1000,
		Lives:        5,
		Width:        ScreenWidth,
		Height:       ScreenHeight,
		Minimal:      []int{0, 1, 3, 4},
		Modes:        []int{0},
		Difficulties: []int{0, 1},
	}
}

// Create allocates a new mock environment for the ROM.
func (l *Library) Create(rom []byte, config native.Config) (native.Handle, error) {
	switch {
	case l.Err != nil:
		return nil, l.Err
	case len(rom) == 0 || config.Name == "":
		return nil, &native.Error{Op: "loadROM", Code: native.CodeLoad}
	}

	hash := fnv.New64a()
	hash.Write(rom)

	h := &handle{
		lib:    l,
		config: config,
		seed:   hash.Sum64() ^ (uint64(config.Seed)+1)*0x9E3779B97F4A7C15,
		screen: make([]byte, ScreenWidth*ScreenHeight),
		mode:   first(l.Modes),
		diff:   first(l.Difficulties),
	}

	l.created.Add(1)
	h.reset()
	return h, nil
}

// Created returns the number of handles allocated so far.
func (l *Library) Created() int {
	return int(l.created.Load())
}

// Destroyed returns the number of handles released so far.
func (l *Library) Destroyed() int {
	return int(l.destroyed.Load())
}

// Live returns the number of handles currently allocated.
func (l *Library) Live() int {
	return l.Created() - l.Destroyed()
}

// DoubleFrees returns the number of times a released handle was destroyed again.
func (l *Library) DoubleFrees() int {
	return int(l.doubleFree.Load())
}

// UseAfterFree returns the number of calls made on released handles.
func (l *Library) UseAfterFree() int {
	return int(l.afterFree.Load())
}

// ---------------------------------- Handle ----------------------------------

// handle is a tiny deterministic machine: its RAM evolves from a seed and the
// actions applied, and the screen is rendered from RAM.
type handle struct {
	lib       *Library
	config    native.Config
	seed      uint64
	rng       uint64
	ram       [RAMSize]byte
	screen    []byte
	frame     int
	episode   int
	lives     int
	mode      int
	diff      int
	destroyed bool
}

func (h *handle) check() bool {
	if h.destroyed {
		h.lib.afterFree.Add(1)
		return false
	}
	return true
}

// fault returns the error of a mutating call, if it should fail
func (h *handle) fault(op string) error {
	switch {
	case !h.check():
		return &native.Error{Op: op, Code: native.CodeRuntime}
	case h.lib.Fail == op:
		return &native.Error{Op: op, Code: native.CodeRuntime}
	default:
		return nil
	}
}

// next advances the xorshift generator
func (h *handle) next() uint64 {
	h.rng ^= h.rng << 13
	h.rng ^= h.rng >> 7
	h.rng ^= h.rng << 17
	return h.rng
}

// Reset restarts the episode from the initial state for the current mode and difficulty
func (h *handle) Reset() error {
	if err := h.fault("reset_game"); err != nil {
		return err
	}

	h.reset()
	return nil
}

func (h *handle) reset() {
	h.rng = h.seed ^ uint64(h.mode)<<8 ^ uint64(h.diff)<<16
	if h.rng == 0 {
		h.rng = 1
	}

	for i := range h.ram {
		h.ram[i] = byte(h.next())
	}

	h.episode = 0
	h.lives = h.lib.Lives
	h.render()
}

// Act applies the action for one step (frame skip frames) and returns the reward
func (h *handle) Act(action int) (int, error) {
	if err := h.fault("act"); err != nil {
		return 0, err
	}

	if h.gameOver() {
		return 0, nil
	}

	reward := 0
	for i := 0; i < max(1, h.config.FrameSkip); i++ {
		h.frame++
		h.episode++

		r := h.next()
		h.ram[h.episode%RAMSize] ^= byte(action) + byte(r)
		if action == 1 && r%4 == 0 {
			reward++
		}

		if span := h.lib.Episode / max(1, h.lib.Lives); span > 0 && h.episode%span == 0 {
			h.lives--
		}

		if h.gameOver() {
			break
		}
	}

	h.render()
	return reward, nil
}

func (h *handle) gameOver() bool {
	switch {
	case h.lives <= 0:
		return true
	case h.episode >= h.lib.Episode:
		return true
	case h.config.MaxFrames > 0 && h.episode >= h.config.MaxFrames:
		return true
	default:
		return false
	}
}

// render draws RAM onto the screen using even (palette) values only
func (h *handle) render() {
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			h.screen[y*ScreenWidth+x] = h.ram[(x/8+y)%RAMSize] &^ 1
		}
	}
}

func (h *handle) GameOver() bool {
	return h.check() && h.gameOver()
}

func (h *handle) Lives() int {
	h.check()
	return h.lives
}

func (h *handle) FrameNumber() int {
	h.check()
	return h.frame
}

func (h *handle) EpisodeFrameNumber() int {
	h.check()
	return h.episode
}

func (h *handle) LegalActions() []int {
	h.check()
	return append([]int(nil), legalActions...)
}

func (h *handle) MinimalActions() []int {
	h.check()
	return append([]int(nil), h.lib.Minimal...)
}

func (h *handle) Modes() []int {
	h.check()
	return append([]int(nil), h.lib.Modes...)
}

func (h *handle) SetMode(mode int) error {
	if err := h.fault("setMode"); err != nil {
		return err
	}

	h.mode = mode
	h.reset()
	return nil
}

func (h *handle) Difficulties() []int {
	h.check()
	return append([]int(nil), h.lib.Difficulties...)
}

func (h *handle) SetDifficulty(difficulty int) error {
	if err := h.fault("setDifficulty"); err != nil {
		return err
	}

	h.diff = difficulty
	h.reset()
	return nil
}

func (h *handle) ScreenSize() (int, int) {
	h.check()
	return h.lib.Width, h.lib.Height
}

func (h *handle) Screen(dst []byte) {
	if h.check() {
		copy(dst, h.screen)
	}
}

func (h *handle) RAMSize() int {
	h.check()
	return RAMSize
}

func (h *handle) RAM(dst []byte) {
	if h.check() {
		copy(dst, h.ram[:])
	}
}

// ---------------------------------- State ----------------------------------

const stateMagic = 0x4B434F4D // "MOCK"

// stateHeader is the fixed part of an encoded state
type stateHeader struct {
	Magic   uint32
	Frame   int64
	Episode int64
	Lives   int64
	Mode    int64
	Diff    int64
	RNG     uint64
}

const stateSize = 4 + 6*8 + RAMSize

// CloneState encodes the machine state
func (h *handle) CloneState() ([]byte, error) {
	if !h.check() {
		return nil, &native.Error{Op: "cloneState", Code: native.CodeState}
	}

	out := make([]byte, 0, stateSize)
	out = binary.LittleEndian.AppendUint32(out, stateMagic)
	out = binary.LittleEndian.AppendUint64(out, uint64(h.frame))
	out = binary.LittleEndian.AppendUint64(out, uint64(h.episode))
	out = binary.LittleEndian.AppendUint64(out, uint64(h.lives))
	out = binary.LittleEndian.AppendUint64(out, uint64(h.mode))
	out = binary.LittleEndian.AppendUint64(out, uint64(h.diff))
	out = binary.LittleEndian.AppendUint64(out, h.rng)
	out = append(out, h.ram[:]...)
	return out, nil
}

// RestoreState decodes a state produced by CloneState
func (h *handle) RestoreState(state []byte) error {
	if !h.check() || len(state) != stateSize || binary.LittleEndian.Uint32(state) != stateMagic {
		return &native.Error{Op: "restoreState", Code: native.CodeState}
	}

	var head stateHeader
	head.Frame = int64(binary.LittleEndian.Uint64(state[4:]))
	head.Episode = int64(binary.LittleEndian.Uint64(state[12:]))
	head.Lives = int64(binary.LittleEndian.Uint64(state[20:]))
	head.Mode = int64(binary.LittleEndian.Uint64(state[28:]))
	head.Diff = int64(binary.LittleEndian.Uint64(state[36:]))
	head.RNG = binary.LittleEndian.Uint64(state[44:])

	h.frame = int(head.Frame)
	h.episode = int(head.Episode)
	h.lives = int(head.Lives)
	h.mode = int(head.Mode)
	h.diff = int(head.Diff)
	h.rng = head.RNG
	copy(h.ram[:], state[52:])
	h.render()
	return nil
}

// Destroy releases the handle
func (h *handle) Destroy() {
	if h.destroyed {
		h.lib.doubleFree.Add(1)
		return
	}

	h.destroyed = true
	h.lib.destroyed.Add(1)
}

func first(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}
