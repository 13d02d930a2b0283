// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// fileExtensionGZip is the file extension for gzip streams.
const fileExtensionGZip = "gz"

// fileExtensionTarGZip is the file extension for tar.gz archives.
const fileExtensionTarGZip = "tgz"

// magicBytesGZip are the magic bytes for gzip streams (RFC 1952 §2.3.1).
var magicBytesGZip = [][]byte{
	{0x1f, 0x8b},
}

// isGZip checks if header matches the gzip magic bytes.
func isGZip(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesGZip)
}

const (
	gzipFlagFTEXT    = 1 << 0
	gzipFlagFHCRC    = 1 << 1
	gzipFlagFEXTRA   = 1 << 2
	gzipFlagFNAME    = 1 << 3
	gzipFlagFCOMMENT = 1 << 4
)

// decompressGZip decodes a gzip stream (RFC 1952): a 10-byte fixed header,
// optional extra/name/comment/header-CRC fields selected by FLG, a raw
// DEFLATE body decoded by this module's own [DeflateDecoder], and an 8-byte
// trailer of CRC32 + ISIZE verified against the decompressed output. CRC32
// is computed with the standard library's hash/crc32, the "CRC utility"
// spec.md treats as an external collaborator of the DEFLATE core.
func decompressGZip(data []byte) ([]byte, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("gzip stream shorter than header+trailer: %w", ErrTruncatedInput)
	}
	if data[0] != 0x1f || data[1] != 0x8b {
		return nil, fmt.Errorf("gzip: bad magic bytes")
	}
	if data[2] != 8 {
		return nil, fmt.Errorf("gzip: unsupported compression method %d", data[2])
	}

	flg := data[3]
	pos := 10

	if flg&gzipFlagFEXTRA != 0 {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("gzip: truncated extra field length: %w", ErrTruncatedInput)
		}
		xlen := int(binary.LittleEndian.Uint16(data[pos:]))
		pos += 2 + xlen
	}
	if flg&gzipFlagFNAME != 0 {
		pos = skipGZipCString(data, pos)
	}
	if flg&gzipFlagFCOMMENT != 0 {
		pos = skipGZipCString(data, pos)
	}
	if flg&gzipFlagFHCRC != 0 {
		pos += 2
	}
	if pos > len(data)-8 {
		return nil, fmt.Errorf("gzip: truncated header: %w", ErrTruncatedInput)
	}

	compressed := data[pos : len(data)-8]
	trailer := data[len(data)-8:]

	out, err := NewDeflateDecoder().Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	wantCRC := binary.LittleEndian.Uint32(trailer[0:4])
	wantSize := binary.LittleEndian.Uint32(trailer[4:8])

	if got := crc32.ChecksumIEEE(out); got != wantCRC {
		return nil, fmt.Errorf("gzip: crc32 mismatch: got %#08x want %#08x", got, wantCRC)
	}
	if got := uint32(len(out)); got != wantSize {
		return nil, fmt.Errorf("gzip: isize mismatch: got %d want %d", got, wantSize)
	}

	return out, nil
}

// skipGZipCString advances past a NUL-terminated field starting at pos.
func skipGZipCString(data []byte, pos int) int {
	for pos < len(data) && data[pos] != 0 {
		pos++
	}
	return pos + 1
}
