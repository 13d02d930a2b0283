// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
)

// fileExtensionBzip2 is the file extension for bzip2 streams.
const fileExtensionBzip2 = "bz2"

// magicBytesBzip2 are the magic bytes for bzip2 streams.
var magicBytesBzip2 = [][]byte{
	[]byte("BZh"),
}

// isBzip2 checks if header matches the bzip2 magic bytes.
func isBzip2(header []byte) bool {
	return matchesMagicBytes(header, 0, magicBytesBzip2)
}

// decompressBzip2 decompresses a bzip2 stream using the standard library
// decoder; bzip2 is outside this module's from-scratch scope the way it is
// for the teacher, which also defers to compress/bzip2.
func decompressBzip2(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	var out bytes.Buffer
	src := bzip2.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), src)
	if err != nil {
		return nil, fmt.Errorf("bzip2: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}
