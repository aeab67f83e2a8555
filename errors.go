// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRom is returned when a ROM payload is empty or malformed
	ErrInvalidRom = errors.New("invalid rom")
	// ErrNativeInit is returned when the native library fails to create an environment
	ErrNativeInit = errors.New("native initialization failed")
	// ErrNativeFailure is returned when the native library fails while running a game
	ErrNativeFailure = errors.New("native call failed")
	// ErrIllegalAction is returned when an action is outside of the legal action set
	ErrIllegalAction = errors.New("illegal action")
	// ErrClosed is returned when an environment is used after being closed
	ErrClosed = errors.New("environment is closed")
	// ErrInvalidMode is returned when a game mode is not available for the ROM
	ErrInvalidMode = errors.New("invalid game mode")
	// ErrInvalidDifficulty is returned when a difficulty is not available for the ROM
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrInvalidState is returned when a state snapshot cannot be cloned or restored
	ErrInvalidState = errors.New("invalid state")
)

// wrap joins a sentinel kind with the underlying native error, so that both
// remain visible to errors.Is and errors.As.
func wrap(kind error, op string, err error) error {
	if err == nil {
		return fmt.Errorf("ale: %s: %w", op, kind)
	}
	return fmt.Errorf("ale: %s: %w: %w", op, kind, err)
}
