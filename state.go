// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"runtime"
	"slices"
)

// State is a serialized snapshot of an environment, produced by CloneState
// and consumed by RestoreState. It is owned by Go memory and may outlive the
// environment it came from, but is only meaningful for the same ROM.
type State []byte

// MarshalBinary implements encoding.BinaryMarshaler
func (s State) MarshalBinary() ([]byte, error) {
	return slices.Clone(s), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (s *State) UnmarshalBinary(data []byte) error {
	*s = slices.Clone(data)
	return nil
}

// CloneState captures the current state of the environment, including the
// pseudo-random generator.
func (e *Env) CloneState() (State, error) {
	if err := e.ensureOpen("clone state"); err != nil {
		return nil, err
	}

	defer runtime.KeepAlive(e)
	data, err := e.handle.CloneState()
	if err != nil {
		return nil, wrap(ErrInvalidState, "clone state", err)
	}

	return State(data), nil
}

// RestoreState returns the environment to a previously captured state. Views
// returned by Screen and RAM are invalidated.
func (e *Env) RestoreState(state State) error {
	if err := e.ensureOpen("restore state"); err != nil {
		return err
	}

	if len(state) == 0 {
		return wrap(ErrInvalidState, "restore state", nil)
	}

	defer runtime.KeepAlive(e)
	defer e.invalidate()
	if err := e.handle.RestoreState(state); err != nil {
		return wrap(ErrInvalidState, "restore state", err)
	}
	return nil
}
