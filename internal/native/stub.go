// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

//go:build !ale

package native

// Linked reports whether the native ALE library is compiled in.
const Linked = false

// Default returns the library used when no backend is configured. Without
// the "ale" build tag there is nothing to bind to.
func Default() Library {
	return unlinked{}
}

// unlinked is a library whose factory always fails.
type unlinked struct{}

// Create always fails with ErrNotLinked
func (unlinked) Create([]byte, Config) (Handle, error) {
	return nil, ErrNotLinked
}
