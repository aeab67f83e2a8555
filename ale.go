// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package ale provides a safe Go handle around the Arcade Learning
// Environment, an Atari 2600 emulator used for reinforcement learning. Each
// Env exclusively owns one native emulator and releases it exactly once.
package ale

import (
	"errors"
	"fmt"
	"runtime"
	"slices"

	"github.com/kelindar/ale/internal/native"
	"github.com/kelindar/intmap"
)

// Env is a safe handle around a single native emulator instance. An Env is
// not safe for concurrent use; independent environments share no state and
// may be used from different goroutines.
type Env struct {
	config       Config          // Configuration used to create the environment
	name         string          // Game name of the loaded ROM
	checksum     string          // MD5 digest of the loaded ROM
	handle       native.Handle   // Native environment, nil once closed
	cleanup      runtime.Cleanup // Releases the handle if the Env is never closed
	legal        *intmap.Map     // Legal action set, for membership checks
	actions      []Action        // Legal action set, in native order
	minimal      []Action        // Minimal action set of the game
	modes        []int           // Available game modes
	difficulties []int           // Available difficulties
	screen       []byte          // Screen buffer, refreshed lazily
	ram          []byte          // RAM buffer, refreshed lazily
	view         *Screen         // View over the screen buffer
	fresh        struct{ screen, ram bool }
	closed       bool
}

// Step is the outcome of applying a single action.
type Step struct {
	Reward   int  // Reward accumulated over the skipped frames
	Terminal bool // Whether the episode has ended
	Lives    int  // Remaining number of lives
	Frame    int  // Frame number since the start of the episode
}

// New creates an environment for the ROM. Empty or malformed payloads fail
// with ErrInvalidRom before the native library is involved; failures of the
// native library are reported as ErrNativeInit.
func New(rom ROM, options ...Option) (*Env, error) {
	config := defaultConfig()
	for _, option := range options {
		option(&config)
	}

	if err := rom.Validate(); err != nil {
		return nil, fmt.Errorf("ale: create: %w", err)
	}

	handle, err := config.Backend.Create(rom.Data, config.toNative(rom.Name))
	switch {
	case err != nil:
		return nil, wrap(ErrNativeInit, "create", err)
	case handle == nil:
		return nil, wrap(ErrNativeInit, "create", nil)
	}

	env := &Env{
		config:   config,
		name:     rom.Name,
		checksum: rom.MD5(),
		handle:   handle,
	}

	// The handle is owned by this function until attach succeeds
	if err := env.attach(); err != nil {
		handle.Destroy()
		return nil, err
	}

	logger, name := config.Logger, rom.Name
	env.cleanup = runtime.AddCleanup(env, func(h native.Handle) {
		logger.Printf("ale: environment for '%s' was not closed, releasing it", name)
		h.Destroy()
	}, handle)

	logger.Printf("ale: created environment for '%s' (%dx%d, %d actions)",
		name, env.Width(), env.Height(), len(env.actions))
	return env, nil
}

// Open loads the ROM at path and creates an environment for it.
func Open(path string, options ...Option) (*Env, error) {
	rom, err := LoadROM(path)
	if err != nil {
		return nil, err
	}

	return New(rom, options...)
}

// attach checks the freshly created handle and applies the game settings
func (e *Env) attach() error {
	width, height := e.handle.ScreenSize()
	if width <= 0 || height <= 0 {
		return wrap(ErrNativeInit, "create", fmt.Errorf("invalid screen size %dx%d", width, height))
	}

	size := e.handle.RAMSize()
	if size <= 0 {
		return wrap(ErrNativeInit, "create", fmt.Errorf("invalid ram size %d", size))
	}

	e.minimal = toActions(e.handle.MinimalActions())
	e.actions = toActions(e.handle.LegalActions())
	if e.config.MinimalActions && len(e.minimal) > 0 {
		e.actions = slices.Clone(e.minimal)
	}

	if len(e.actions) == 0 {
		return wrap(ErrNativeInit, "create", fmt.Errorf("empty action set"))
	}

	e.legal = intmap.New(len(e.actions), .95)
	for _, action := range e.actions {
		e.legal.Store(uint32(action), 1)
	}

	e.modes = e.handle.Modes()
	e.difficulties = e.handle.Difficulties()
	e.screen = make([]byte, width*height)
	e.ram = make([]byte, size)
	e.view = newScreen(e.screen, width, height)

	if mode := e.config.Mode; mode != nil {
		if err := e.SetMode(*mode); err != nil {
			return initError(err)
		}
	}

	if difficulty := e.config.Difficulty; difficulty != nil {
		if err := e.SetDifficulty(*difficulty); err != nil {
			return initError(err)
		}
	}

	return nil
}

// initError reports native failures during creation as ErrNativeInit
func initError(err error) error {
	if errors.Is(err, ErrNativeFailure) {
		return wrap(ErrNativeInit, "create", err)
	}
	return err
}

// Close releases the native environment. It is safe to call Close more than
// once; the native teardown only ever runs the first time.
func (e *Env) Close() error {
	if e.closed {
		return nil
	}

	handle := e.handle
	e.closed = true
	e.handle = nil
	e.cleanup.Stop()

	e.screen, e.ram, e.view = nil, nil, nil
	handle.Destroy()
	e.config.Logger.Printf("ale: closed environment for '%s'", e.name)
	return nil
}

// ensureOpen returns ErrClosed once the environment is closed
func (e *Env) ensureOpen(op string) error {
	if e.closed {
		return fmt.Errorf("ale: %s: %w", op, ErrClosed)
	}
	return nil
}

// invalidate marks the observation buffers as stale
func (e *Env) invalidate() {
	e.fresh.screen = false
	e.fresh.ram = false
}

// Step applies an action and returns the reward and terminal flag. Actions
// outside of the legal action set fail with ErrIllegalAction and leave the
// environment untouched. As in the native library, it is up to the caller to
// reset the game once it is over. Native failures are reported as
// ErrNativeFailure.
func (e *Env) Step(action Action) (Step, error) {
	if err := e.ensureOpen("step"); err != nil {
		return Step{}, err
	}

	if !e.IsLegal(action) {
		return Step{}, fmt.Errorf("ale: step: %w: %s", ErrIllegalAction, action)
	}

	defer runtime.KeepAlive(e)
	reward, err := e.handle.Act(int(action))
	e.invalidate()
	if err != nil {
		return Step{}, wrap(ErrNativeFailure, "step", err)
	}

	return Step{
		Reward:   reward,
		Terminal: e.handle.GameOver(),
		Lives:    e.handle.Lives(),
		Frame:    e.handle.EpisodeFrameNumber(),
	}, nil
}

// Act applies an action and returns the reward
func (e *Env) Act(action Action) (int, error) {
	step, err := e.Step(action)
	return step.Reward, err
}

// Reset restarts the game without reallocating the native environment.
func (e *Env) Reset() error {
	if err := e.ensureOpen("reset"); err != nil {
		return err
	}

	defer runtime.KeepAlive(e)
	e.invalidate()
	if err := e.handle.Reset(); err != nil {
		return wrap(ErrNativeFailure, "reset", err)
	}
	return nil
}

// Screen returns a view of the current screen. The view is only valid until
// the next mutating call.
func (e *Env) Screen() (*Screen, error) {
	if err := e.ensureOpen("screen"); err != nil {
		return nil, err
	}

	if !e.fresh.screen {
		e.handle.Screen(e.screen)
		e.fresh.screen = true
		runtime.KeepAlive(e)
	}
	return e.view, nil
}

// RAM returns a view of the console RAM. The view is only valid until the
// next mutating call.
func (e *Env) RAM() ([]byte, error) {
	if err := e.ensureOpen("ram"); err != nil {
		return nil, err
	}

	if !e.fresh.ram {
		e.handle.RAM(e.ram)
		e.fresh.ram = true
		runtime.KeepAlive(e)
	}
	return e.ram, nil
}

// SavePNG writes the current screen to a PNG file
func (e *Env) SavePNG(path string) error {
	screen, err := e.Screen()
	if err != nil {
		return err
	}
	return screen.SavePNG(path)
}

// IsLegal reports whether the action belongs to the legal action set
func (e *Env) IsLegal(action Action) bool {
	if e.closed || action < 0 {
		return false
	}

	_, ok := e.legal.Load(uint32(action))
	return ok
}

// LegalActions returns the actions accepted by Step
func (e *Env) LegalActions() []Action {
	return slices.Clone(e.actions)
}

// MinimalActions returns the minimal set of actions needed to play the game
func (e *Env) MinimalActions() []Action {
	return slices.Clone(e.minimal)
}

// Modes returns the game modes available for the ROM
func (e *Env) Modes() []int {
	return slices.Clone(e.modes)
}

// SetMode selects a game mode and resets the game
func (e *Env) SetMode(mode int) error {
	if err := e.ensureOpen("set mode"); err != nil {
		return err
	}

	if !slices.Contains(e.modes, mode) {
		return fmt.Errorf("ale: set mode: %w: %d not in %v", ErrInvalidMode, mode, e.modes)
	}

	defer runtime.KeepAlive(e)
	e.invalidate()
	if err := e.handle.SetMode(mode); err != nil {
		return wrap(ErrNativeFailure, "set mode", err)
	}
	if err := e.handle.Reset(); err != nil {
		return wrap(ErrNativeFailure, "set mode", err)
	}
	return nil
}

// Difficulties returns the difficulties available for the ROM
func (e *Env) Difficulties() []int {
	return slices.Clone(e.difficulties)
}

// SetDifficulty selects a difficulty and resets the game
func (e *Env) SetDifficulty(difficulty int) error {
	if err := e.ensureOpen("set difficulty"); err != nil {
		return err
	}

	if !slices.Contains(e.difficulties, difficulty) {
		return fmt.Errorf("ale: set difficulty: %w: %d not in %v", ErrInvalidDifficulty, difficulty, e.difficulties)
	}

	defer runtime.KeepAlive(e)
	e.invalidate()
	if err := e.handle.SetDifficulty(difficulty); err != nil {
		return wrap(ErrNativeFailure, "set difficulty", err)
	}
	if err := e.handle.Reset(); err != nil {
		return wrap(ErrNativeFailure, "set difficulty", err)
	}
	return nil
}

// GameOver indicates if the game has ended. A closed environment is always over.
func (e *Env) GameOver() bool {
	if e.closed {
		return true
	}

	defer runtime.KeepAlive(e)
	return e.handle.GameOver()
}

// Lives returns the remaining number of lives
func (e *Env) Lives() int {
	if e.closed {
		return 0
	}

	defer runtime.KeepAlive(e)
	return e.handle.Lives()
}

// FrameNumber returns the frame number since the ROM was loaded
func (e *Env) FrameNumber() int {
	if e.closed {
		return 0
	}

	defer runtime.KeepAlive(e)
	return e.handle.FrameNumber()
}

// EpisodeFrameNumber returns the frame number since the start of the episode
func (e *Env) EpisodeFrameNumber() int {
	if e.closed {
		return 0
	}

	defer runtime.KeepAlive(e)
	return e.handle.EpisodeFrameNumber()
}

// Width returns the width of the screen in pixels
func (e *Env) Width() int {
	if e.view == nil {
		return 0
	}
	return e.view.Width()
}

// Height returns the height of the screen in pixels
func (e *Env) Height() int {
	if e.view == nil {
		return 0
	}
	return e.view.Height()
}

// RAMSize returns the size of the console RAM in bytes
func (e *Env) RAMSize() int {
	return len(e.ram)
}

// Name returns the game name of the loaded ROM
func (e *Env) Name() string {
	return e.name
}

// Checksum returns the MD5 digest of the loaded ROM
func (e *Env) Checksum() string {
	return e.checksum
}

// Config returns the configuration the environment was created with
func (e *Env) Config() Config {
	return e.config
}
