// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// fileExtensionLZ4 is the file extension for LZ4 frames.
const fileExtensionLZ4 = "lz4"

// magicBytesLZ4 is the magic bytes for LZ4 frames.
// reference: https://android.googlesource.com/platform/external/lz4/+/HEAD/doc/lz4_Frame_format.md
var magicBytesLZ4 = [][]byte{
	{0x04, 0x22, 0x4D, 0x18},
}

// isLZ4 checks if header matches the LZ4 magic bytes.
func isLZ4(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesLZ4)
}

// decompressLZ4 decompresses an LZ4 frame using github.com/pierrec/lz4/v4.
func decompressLZ4(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	var out bytes.Buffer
	src := lz4.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), src)
	if err != nil {
		return nil, fmt.Errorf("lz4: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}
