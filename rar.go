// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/nwaples/rardecode"
)

// fileExtensionRar is the file extension for RAR archives.
const fileExtensionRar = "rar"

// magicBytesRar are the magic bytes for RAR archives.
var magicBytesRar = [][]byte{
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00},       // RAR 1.5
	{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}, // RAR 5.0
}

// isRar checks if data matches the RAR magic bytes.
func isRar(data []byte) bool {
	return matchesMagicBytes(data, 0, magicBytesRar)
}

// RarEntry is a fully-read RAR archive entry, the RAR analogue of
// [TarEntry]. Unlike TAR, RAR entries are read through a
// github.com/nwaples/rardecode stream cursor rather than sliced
// zero-copy from the input, so Data is an owned copy.
type RarEntry struct {
	Name    string
	Size    int64
	Mode    uint32
	IsDir   bool
	ModTime time.Time
	Data    []byte
}

// walkRar reads every entry out of a RAR archive held entirely in memory.
func walkRar(data []byte, maxInputSize, maxDecompressedSize int64) ([]RarEntry, error) {
	rr, err := rardecode.NewReader(limitReader(bytes.NewReader(data), maxInputSize), "")
	if err != nil {
		return nil, fmt.Errorf("rar: cannot create reader: %w", err)
	}

	var entries []RarEntry
	for {
		hdr, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rar: read entry header: %w", err)
		}

		var buf bytes.Buffer
		if _, err := io.Copy(limitWriter(&buf, maxDecompressedSize), rr); err != nil {
			return nil, fmt.Errorf("rar: read entry %q: %w", hdr.Name, err)
		}

		entries = append(entries, RarEntry{
			Name:    hdr.Name,
			Size:    hdr.UnPackedSize,
			Mode:    uint32(hdr.Mode()),
			IsDir:   hdr.IsDir,
			ModTime: hdr.ModificationTime,
			Data:    buf.Bytes(),
		})
	}
	return entries, nil
}
