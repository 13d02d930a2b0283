// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// fileExtensionBrotli is the file extension for brotli streams.
const fileExtensionBrotli = "br"

// isBrotli always returns false: brotli streams carry no reliable magic
// bytes, matching the teacher's own IsBrotli detector.
func isBrotli(header []byte) bool {
	return false
}

// decompressBrotli decompresses a brotli stream using
// github.com/andybalholm/brotli.
func decompressBrotli(data []byte, maxInputSize, maxDecompressedSize int64) ([]byte, error) {
	var out bytes.Buffer
	src := brotli.NewReader(limitReader(bytes.NewReader(data), maxInputSize))
	n, err := io.Copy(limitWriter(&out, maxDecompressedSize), src)
	if err != nil {
		return nil, fmt.Errorf("brotli: decompressed %d bytes: %w", n, err)
	}
	return out.Bytes(), nil
}

// DecodeBrotli decompresses a brotli stream directly. Brotli carries no
// reliable magic bytes, so it can never be reached through [Decode]'s
// format-sniffing loop; callers that already know their input is
// brotli-encoded use this entry point instead.
func DecodeBrotli(data []byte, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	return decompressBrotli(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
}
