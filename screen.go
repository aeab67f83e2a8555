// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"slices"
)

// Screen is a palette-indexed view of the emulator screen. The pixel value at
// (x, y) is Pix[y*Width()+x]. A screen returned by Env.Screen aliases memory
// owned by the environment and is only valid until the next mutating call;
// use Clone to keep it around.
type Screen struct {
	*image.Paletted
}

// newScreen wraps a buffer of raw screen values without copying it
func newScreen(pix []byte, width, height int) *Screen {
	return &Screen{
		Paletted: &image.Paletted{
			Pix:     pix,
			Stride:  width,
			Rect:    image.Rect(0, 0, width, height),
			Palette: Palette,
		},
	}
}

// Width returns the width of the screen in pixels
func (s *Screen) Width() int {
	return s.Rect.Dx()
}

// Height returns the height of the screen in pixels
func (s *Screen) Height() int {
	return s.Rect.Dy()
}

// Value returns the raw palette value at the given coordinates
func (s *Screen) Value(x, y int) byte {
	return s.ColorIndexAt(x, y)
}

// RGB writes the screen in packed RGB format into dst, growing it if needed,
// and returns the filled slice of length Width()*Height()*3.
func (s *Screen) RGB(dst []byte) []byte {
	dst = slices.Grow(dst[:0], len(s.Pix)*3)[:len(s.Pix)*3]
	for i, v := range s.Pix {
		c := ntscColors[v>>1]
		dst[i*3] = byte(c >> 16)
		dst[i*3+1] = byte(c >> 8)
		dst[i*3+2] = byte(c)
	}
	return dst
}

// Grayscale writes the screen luminance, 0 being black and 255 white, into
// dst, growing it if needed, and returns the filled slice of length Width()*Height().
func (s *Screen) Grayscale(dst []byte) []byte {
	dst = slices.Grow(dst[:0], len(s.Pix))[:len(s.Pix)]
	for i, v := range s.Pix {
		dst[i] = grayscale[v]
	}
	return dst
}

// Clone returns a copy of the screen that does not alias the environment
func (s *Screen) Clone() *Screen {
	return newScreen(slices.Clone(s.Pix), s.Width(), s.Height())
}

// SavePNG encodes the screen as a PNG file
func (s *Screen) SavePNG(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ale: unable to create '%s': %w", path, err)
	}

	if err := png.Encode(file, s.Paletted); err != nil {
		file.Close()
		return fmt.Errorf("ale: unable to encode '%s': %w", path, err)
	}

	return file.Close()
}
