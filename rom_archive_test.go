// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	aletest "github.com/kelindar/ale/internal/testing"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZIP(t *testing.T, path string, files map[string][]byte) {
	var buffer bytes.Buffer
	w := zip.NewWriter(&buffer)
	for name, data := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buffer.Bytes(), 0o644))
}

func writeGzip(t *testing.T, path string, data []byte) {
	var buffer bytes.Buffer
	w := gzip.NewWriter(&buffer)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buffer.Bytes(), 0o644))
}

func writeTarGzip(t *testing.T, path string, files map[string][]byte) {
	var buffer bytes.Buffer
	gw := gzip.NewWriter(&buffer)
	tw := tar.NewWriter(gw)
	for name, data := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	require.NoError(t, os.WriteFile(path, buffer.Bytes(), 0o644))
}

func TestLoadROM_ZIP(t *testing.T) {
	data := aletest.Cartridge(4096, 9)
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZIP(t, path, map[string][]byte{
		"README.txt":        []byte("not a cartridge"),
		"roms/Seaquest.a26": data,
	})

	rom, err := LoadROM(path)
	require.NoError(t, err)
	assert.Equal(t, "seaquest", rom.Name)
	assert.Equal(t, data, rom.Data)
}

func TestLoadROM_ZIPWithoutCartridge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.zip")
	writeZIP(t, path, map[string][]byte{
		"README.txt": []byte("not a cartridge"),
	})

	_, err := LoadROM(path)
	assert.ErrorIs(t, err, errNoCartridge)
}

func TestLoadROM_Gzip(t *testing.T) {
	data := aletest.Cartridge(2048, 5)
	path := filepath.Join(t.TempDir(), "pong.bin.gz")
	writeGzip(t, path, data)

	rom, err := LoadROM(path)
	require.NoError(t, err)
	assert.Equal(t, "pong", rom.Name)
	assert.Equal(t, data, rom.Data)
}

func TestLoadROM_TarGzip(t *testing.T) {
	data := aletest.Cartridge(8192, 5)
	path := filepath.Join(t.TempDir(), "roms.tar.gz")
	writeTarGzip(t, path, map[string][]byte{
		"atari/ms_pacman.bin": data,
	})

	rom, err := LoadROM(path)
	require.NoError(t, err)
	assert.Equal(t, "ms_pacman", rom.Name)
	assert.Equal(t, data, rom.Data)
}

func TestLoadROM_7z(t *testing.T) {
	rom, err := LoadROM(filepath.Join("testdata", "seaquest.7z"))
	require.NoError(t, err)
	assert.Equal(t, "seaquest", rom.Name)
	assert.Equal(t, aletest.Cartridge(2048, 17), rom.Data)
	assert.NoError(t, rom.Validate())
}

func TestLoadROM_RAR(t *testing.T) {
	rom, err := LoadROM(filepath.Join("testdata", "freeway.rar"))
	require.NoError(t, err)
	assert.Equal(t, "freeway", rom.Name)
	assert.Equal(t, aletest.Cartridge(4096, 23), rom.Data)
	assert.NoError(t, rom.Validate())
}

func TestLoadROM_RawWithArchiveMagic(t *testing.T) {
	dir := t.TempDir()
	for name, magic := range map[string][]byte{
		"pong.bin":   magicGzip,
		"boxing.a26": magicZIP,
		"tennis.rom": magicRAR,
		"skiing.bin": magic7z,
	} {
		data := aletest.Cartridge(4096, 31)
		copy(data, magic)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		rom, err := LoadROM(path)
		require.NoError(t, err, name)
		assert.Equal(t, data, rom.Data, name)
		assert.Equal(t, GameName(name), rom.Name)
	}
}

func TestLoadROM_CorruptArchives(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string][]byte{
		"bad.zip": append(bytes.Clone(magicZIP), 1, 2, 3, 4),
		"bad.7z":  append(bytes.Clone(magic7z), 1, 2, 3, 4),
		"bad.rar": append(bytes.Clone(magicRAR), 1, 2, 3, 4),
		"bad.gz":  append(bytes.Clone(magicGzip), 1, 2, 3, 4),
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err := LoadROM(path)
		assert.Error(t, err, name)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		header []byte
		path   string
		expect archiveFormat
	}{
		{magicZIP, "rom", formatZIP},
		{magicZIP, "rom.bin", formatRaw},
		{magicGzip, "rom.A26", formatRaw},
		{magic7z, "rom.rom", formatRaw},
		{magicZIPEnd, "rom", formatZIP},
		{magic7z, "rom", format7z},
		{magicRAR, "rom", formatRAR},
		{magicGzip, "rom.gz", formatGzip},
		{magicGzip, "rom.tar.gz", formatTarGzip},
		{magicGzip, "rom.tgz", formatTarGzip},
		{[]byte{0, 1}, "rom.zip", formatZIP},
		{[]byte{0, 1}, "rom.7z", format7z},
		{[]byte{0, 1}, "rom.RAR", formatRAR},
		{[]byte{0, 1}, "rom.bin", formatRaw},
		{nil, "rom", formatRaw},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expect, detectFormat(tc.header, tc.path), tc.path)
	}
}

func TestIsCartridge(t *testing.T) {
	assert.True(t, isCartridge("pong.bin"))
	assert.True(t, isCartridge("PONG.A26"))
	assert.True(t, isCartridge("dir/pong.rom"))
	assert.False(t, isCartridge("pong.txt"))
	assert.False(t, isCartridge("pong"))
}
