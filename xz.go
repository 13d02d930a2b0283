// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// fileExtensionXz is the file extension for xz streams.
const fileExtensionXz = "xz"

// magicBytesXz is the magic bytes for xz streams.
// reference: https://tukaani.org/xz/xz-file-format-1.0.4.txt
var magicBytesXz = [][]byte{
	{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00},
}

// isXz checks if header matches the xz magic bytes.
func isXz(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesXz)
}

// decompressXz decompresses an xz stream using github.com/ulikunitz/xz.
func decompressXz(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	r, err := xz.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	if err != nil {
		return nil, fmt.Errorf("xz: cannot create reader: %w", err)
	}
	var out bytes.Buffer
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), r)
	if err != nil {
		return nil, fmt.Errorf("xz: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}
