// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// fileExtensionZstd is the file extension for zstandard frames.
const fileExtensionZstd = "zst"

// magicBytesZstd is the magic bytes for zstandard frames.
// reference: https://www.rfc-editor.org/rfc/rfc8878.html
var magicBytesZstd = [][]byte{
	{0x28, 0xb5, 0x2f, 0xfd},
}

// isZstd checks if header matches the zstandard magic bytes.
func isZstd(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesZstd)
}

// decompressZstd decompresses a zstandard frame using
// github.com/klauspost/compress/zstd.
func decompressZstd(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	r, err := zstd.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	if err != nil {
		return nil, fmt.Errorf("zstd: cannot create reader: %w", err)
	}
	defer r.Close()
	var out bytes.Buffer
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), r)
	if err != nil {
		return nil, fmt.Errorf("zstd: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}
