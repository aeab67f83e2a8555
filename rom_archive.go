// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ale

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/go-mmap/mmap"
	"github.com/bodgit/sevenzip"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/nwaples/rardecode/v2"
)

// Magic bytes for archive detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21}
)

// archiveExtensions lists the archive extensions searched for cartridges
var archiveExtensions = []string{".zip", ".7z", ".gz", ".tgz", ".rar"}

// errNoCartridge is returned when an archive contains no cartridge image
var errNoCartridge = errors.New("no cartridge image found in archive")

// archiveFormat is the detected container of a cartridge image
type archiveFormat int

const (
	formatRaw archiveFormat = iota
	formatZIP
	format7z
	formatGzip
	formatTarGzip
	formatRAR
)

// readCartridge memory-maps the file at path and returns the cartridge image
// it holds along with the name of the image.
func readCartridge(path string) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}

	switch {
	case info.IsDir():
		return nil, "", fmt.Errorf("'%s' is a directory", path)
	case info.Size() == 0:
		return []byte{}, filepath.Base(path), nil
	}

	file, err := mmap.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("unable to map file: %w", err)
	}
	defer file.Close()

	size := int64(file.Len())
	header := make([]byte, 16)
	n, err := file.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("unable to read header: %w", err)
	}

	switch detectFormat(header[:n], path) {
	case formatZIP:
		return extractFromZIP(file, size)
	case format7z:
		return extractFrom7z(file, size)
	case formatGzip:
		return extractFromGzip(io.NewSectionReader(file, 0, size), path)
	case formatTarGzip:
		return extractFromTarGzip(io.NewSectionReader(file, 0, size))
	case formatRAR:
		return extractFromRAR(io.NewSectionReader(file, 0, size))
	default:
		data, err := limitedRead(io.NewSectionReader(file, 0, size))
		return data, filepath.Base(path), err
	}
}

// detectFormat determines the container from magic bytes, falling back to the
// extension. Raw image extensions always win, since any byte can start a cartridge.
func detectFormat(header []byte, path string) archiveFormat {
	lower := strings.ToLower(path)
	switch {
	case isCartridge(lower):
		return formatRaw
	case bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip) || strings.HasSuffix(lower, ".gz") || strings.HasSuffix(lower, ".tgz"):
		if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
			return formatTarGzip
		}
		return formatGzip
	case strings.HasSuffix(lower, ".zip"):
		return formatZIP
	case strings.HasSuffix(lower, ".7z"):
		return format7z
	case strings.HasSuffix(lower, ".rar"):
		return formatRAR
	default:
		return formatRaw
	}
}

// isCartridge checks if a file name has one of the cartridge extensions
func isCartridge(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range romExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// limitedRead reads up to maxROMSize bytes, failing if the image is larger
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	switch {
	case err != nil:
		return nil, err
	case len(data) > maxROMSize:
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrInvalidRom, maxROMSize)
	default:
		return data, nil
	}
}

// extractFromZIP extracts the first cartridge from a ZIP archive
func extractFromZIP(r io.ReaderAt, size int64) ([]byte, string, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open zip: %w", err)
	}

	for _, f := range archive.File {
		if f.FileInfo().IsDir() || !isCartridge(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("unable to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", errNoCartridge
}

// extractFrom7z extracts the first cartridge from a 7z archive
func extractFrom7z(r io.ReaderAt, size int64) ([]byte, string, error) {
	archive, err := sevenzip.NewReader(r, size)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open 7z: %w", err)
	}

	for _, f := range archive.File {
		if f.FileInfo().IsDir() || !isCartridge(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("unable to open %s in archive: %w", f.Name, err)
		}
		defer rc.Close()

		data, err := limitedRead(rc)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read %s: %w", f.Name, err)
		}
		return data, filepath.Base(f.Name), nil
	}

	return nil, "", errNoCartridge
}

// extractFromGzip decompresses a single gzipped cartridge
func extractFromGzip(r io.Reader, path string) ([]byte, string, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open gzip: %w", err)
	}
	defer gr.Close()

	data, err := limitedRead(gr)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decompress gzip: %w", err)
	}

	name := filepath.Base(path)
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		name = name[:len(name)-3]
	}
	return data, name, nil
}

// extractFromTarGzip extracts the first cartridge from a tar.gz archive
func extractFromTarGzip(r io.Reader) ([]byte, string, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open gzip: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil, "", errNoCartridge
		case err != nil:
			return nil, "", fmt.Errorf("unable to read tar entry: %w", err)
		case header.Typeflag != tar.TypeReg || !isCartridge(header.Name):
			continue
		}

		data, err := limitedRead(tr)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read %s from tar: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
}

// extractFromRAR extracts the first cartridge from a RAR archive
func extractFromRAR(r io.Reader) ([]byte, string, error) {
	archive, err := rardecode.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("unable to open rar: %w", err)
	}

	for {
		header, err := archive.Next()
		switch {
		case err == io.EOF:
			return nil, "", errNoCartridge
		case err != nil:
			return nil, "", fmt.Errorf("unable to read rar entry: %w", err)
		case header.IsDir || !isCartridge(header.Name):
			continue
		}

		data, err := limitedRead(archive)
		if err != nil {
			return nil, "", fmt.Errorf("unable to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
}
