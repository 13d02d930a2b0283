// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"encoding/binary"
	"fmt"
	"hash/adler32"
)

// fileExtensionZlib is the file extension for zlib streams.
const fileExtensionZlib = "zz"

// magicBytesZlib are the first two bytes of a zlib stream (RFC 1950 §2.2):
// a CMF/FLG pair whose 16-bit value is a multiple of 31.
var magicBytesZlib = [][]byte{
	{0x78, 0x01},
	{0x78, 0x5e},
	{0x78, 0x9c},
	{0x78, 0xda},
}

// isZlib checks if header matches the zlib magic bytes.
func isZlib(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesZlib)
}

// decompressZlib decodes a zlib stream (RFC 1950): a 2-byte header, a raw
// DEFLATE body decoded by this module's own [DeflateDecoder], and a 4-byte
// big-endian Adler-32 trailer verified against the decompressed output. The
// Adler-32 computation itself is treated as an external collaborator of the
// DEFLATE core, exactly as spec.md describes for outer-format consumers, and
// is supplied by the standard library's hash/adler32.
func decompressZlib(data []byte) ([]byte, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("zlib stream shorter than header+trailer: %w", ErrTruncatedInput)
	}

	cmf, flg := data[0], data[1]
	if (int(cmf)*256+int(flg))%31 != 0 {
		return nil, fmt.Errorf("zlib: invalid header checksum")
	}
	if cmf&0x0f != 8 {
		return nil, fmt.Errorf("zlib: unsupported compression method %d", cmf&0x0f)
	}

	body := data[2:]
	if flg&0x20 != 0 {
		// FDICT: a preset-dictionary id follows the header. Preset
		// dictionaries are outside the scope of this decoder.
		return nil, fmt.Errorf("zlib: preset dictionaries are not supported")
	}

	trailer := body[len(body)-4:]
	compressed := body[:len(body)-4]

	out, err := NewDeflateDecoder().Decompress(compressed)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}

	want := binary.BigEndian.Uint32(trailer)
	if got := adler32.Checksum(out); got != want {
		return nil, fmt.Errorf("zlib: adler32 mismatch: got %#08x want %#08x", got, want)
	}

	return out, nil
}
