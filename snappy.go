// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/snappy"
)

// fileExtensionSnappy is the file extension for snappy streams.
const fileExtensionSnappy = "sz"

// magicBytesSnappy is the magic bytes for the snappy framing format.
var magicBytesSnappy = [][]byte{
	append([]byte{0xff, 0x06, 0x00, 0x00}, []byte("sNaPpY")...),
}

// isSnappy checks if header matches the snappy magic bytes.
func isSnappy(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesSnappy)
}

// decompressSnappy decompresses a framed snappy stream using
// github.com/klauspost/compress/snappy.
func decompressSnappy(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	var out bytes.Buffer
	src := snappy.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), src)
	if err != nil {
		return nil, fmt.Errorf("snappy: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}
