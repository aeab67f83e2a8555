// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"testing"

	aletest "github.com/kelindar/ale/internal/testing"
	"github.com/kelindar/ale/mock"
	"github.com/stretchr/testify/require"
)

// TestWith runs a test with an environment backed by the in-memory library
// and a synthetic 4K cartridge. The environment is closed once the test
// function returns, and the test fails if any native handle leaked.
func TestWith(t *testing.T, testFn func(*testing.T, *Env), options ...Option) {
	lib := mock.New()
	rom := NewROM("breakout", aletest.Cartridge(4096, 42))

	env, err := New(rom, append([]Option{WithBackend(lib), WithSeed(123)}, options...)...)
	require.NoError(t, err, "failed to create environment")
	require.NotNil(t, env, "environment should not be nil")

	testFn(t, env)

	require.NoError(t, env.Close())
	require.Zero(t, lib.Live(), "native handles leaked")
	require.Zero(t, lib.DoubleFrees(), "native handles destroyed twice")
	require.Zero(t, lib.UseAfterFree(), "native handles used after destroy")
}
