// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"fmt"
)

// fileExtensionTar is the file extension for a bare TAR archive.
const fileExtensionTar = "tar"

// offsetTar is the offset of the ustar magic within a header record.
const offsetTar = 257

// magicBytesTar are the magic bytes for ustar headers: POSIX ustar
// ("ustar\x00" followed by version "00") and the older GNU tar variant
// ("ustar  \x00", no separate version field).
var magicBytesTar = [][]byte{
	[]byte("ustar\x0000"),
	[]byte("ustar  \x00"),
}

// isTar checks if header matches the ustar magic bytes at their offset.
func isTar(header []byte) bool {
	return matchesMagicBytes(header, offsetTar, magicBytesTar)
}

// matchesMagicBytes reports whether any of candidates appears in data at
// offset.
func matchesMagicBytes(data []byte, offset int, candidates [][]byte) bool {
	if offset >= len(data) {
		return false
	}
	for _, c := range candidates {
		if offset+len(c) > len(data) {
			continue
		}
		match := true
		for i, b := range c {
			if data[offset+i] != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// decompressFunc decompresses data and returns the decompressed bytes. The
// library-backed codecs bound their input and output by cfg's size limits
// while decoding; gzip and zlib decode in full and leave the size check to
// [Decode], which applies it to every codec's result.
type decompressFunc func(data []byte, cfg *Config) ([]byte, error)

// codec describes one registered compression format: how to recognize it
// and how to decompress it into a byte buffer that may itself be a TAR
// archive.
type codec struct {
	Extension   string
	HeaderCheck func([]byte) bool
	Offset      int
	MagicBytes  [][]byte
	Decompress  decompressFunc
}

// registeredCodecs mirrors the teacher's availableExtractors table, but
// every entry here decodes into memory instead of writing to a [Target].
var registeredCodecs = []codec{
	{
		Extension:   fileExtensionGZip,
		HeaderCheck: isGZip,
		MagicBytes:  magicBytesGZip,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressGZip(data)
		},
	},
	{
		Extension:   fileExtensionZlib,
		HeaderCheck: isZlib,
		MagicBytes:  magicBytesZlib,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressZlib(data)
		},
	},
	{
		Extension:   fileExtensionBzip2,
		HeaderCheck: isBzip2,
		MagicBytes:  magicBytesBzip2,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressBzip2(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
		},
	},
	{
		Extension:   fileExtensionLZ4,
		HeaderCheck: isLZ4,
		MagicBytes:  magicBytesLZ4,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressLZ4(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
		},
	},
	{
		Extension:   fileExtensionXz,
		HeaderCheck: isXz,
		MagicBytes:  magicBytesXz,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressXz(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
		},
	},
	{
		Extension:   fileExtensionZstd,
		HeaderCheck: isZstd,
		MagicBytes:  magicBytesZstd,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressZstd(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
		},
	},
	{
		Extension:   fileExtensionSnappy,
		HeaderCheck: isSnappy,
		MagicBytes:  magicBytesSnappy,
		Decompress: func(data []byte, cfg *Config) ([]byte, error) {
			return decompressSnappy(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
		},
	},
}

// DecodeResult is the outcome of sniffing and decoding one archive: a flat
// TAR entry list (bare .tar, or tar.<codec> after decompression), a flat
// RAR entry list, or a raw decompressed byte buffer when the codec's
// payload was neither.
type DecodeResult struct {
	DecodedType string
	Entries     []TarEntry
	Rar         []RarEntry
	Raw         []byte
}

// Decode sniffs data's format by magic bytes, decompresses it if needed,
// and walks it as TAR if the (possibly decompressed) bytes carry a ustar
// header — mirroring the teacher's decompress() checkUntar branch, but
// returning everything in memory instead of writing to disk.
func Decode(ctx context.Context, data []byte, cfg *Config) (*DecodeResult, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	if int64(len(data)) > cfg.MaxInputSize() && cfg.MaxInputSize() != -1 {
		return nil, fmt.Errorf("input size %d: %w", len(data), ErrMaxInputSizeExceeded)
	}

	td := &TelemetryData{InputSize: int64(len(data))}
	defer cfg.TelemetryHook()(ctx, td)
	defer captureDecodeDuration(td, now())

	if isTar(data) {
		td.DecodedType = fileExtensionTar
		entries, err := decodeTar(data, cfg, td)
		if err != nil {
			td.DecodeErrors++
			td.LastDecodeError = err
			return nil, err
		}
		return &DecodeResult{DecodedType: fileExtensionTar, Entries: entries}, nil
	}

	if isRar(data) {
		td.DecodedType = fileExtensionRar
		entries, err := decodeRar(data, cfg, td)
		if err != nil {
			td.DecodeErrors++
			td.LastDecodeError = err
			return nil, fmt.Errorf("decode rar: %w", err)
		}
		return &DecodeResult{DecodedType: fileExtensionRar, Rar: entries}, nil
	}

	for _, c := range registeredCodecs {
		if !c.HeaderCheck(data) {
			continue
		}

		cfg.Logger().Debug("decompress", "format", c.Extension)
		decoded, err := c.Decompress(data, cfg)
		if err != nil {
			td.DecodeErrors++
			td.LastDecodeError = err
			return nil, fmt.Errorf("decode %s: %w", c.Extension, err)
		}

		if err := cfg.CheckDecompressedSize(int64(len(decoded))); err != nil {
			td.DecodeErrors++
			td.LastDecodeError = err
			return nil, err
		}
		td.DecompressedSize = int64(len(decoded))

		if isTar(decoded) {
			td.DecodedType = fmt.Sprintf("tar.%s", c.Extension)
			entries, err := decodeTar(decoded, cfg, td)
			if err != nil {
				td.DecodeErrors++
				td.LastDecodeError = err
				return nil, err
			}
			return &DecodeResult{DecodedType: td.DecodedType, Entries: entries}, nil
		}

		td.DecodedType = c.Extension
		return &DecodeResult{DecodedType: c.Extension, Raw: decoded}, nil
	}

	return nil, ErrUnrecognizedFormat
}

// decodeTar walks buf as a TAR archive and enforces the configured entry
// count limit.
func decodeTar(buf []byte, cfg *Config, td *TelemetryData) ([]TarEntry, error) {
	entries, err := NewTarWalker(buf).Walk()
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckEntryCount(int64(len(entries))); err != nil {
		return nil, err
	}
	td.EntriesWalked = int64(len(entries))
	return entries, nil
}

// decodeRar walks data as a RAR archive and enforces the configured entry
// count limit, the RAR analogue of decodeTar.
func decodeRar(data []byte, cfg *Config, td *TelemetryData) ([]RarEntry, error) {
	entries, err := walkRar(data, cfg.MaxInputSize(), cfg.MaxDecompressedSize())
	if err != nil {
		return nil, err
	}
	if err := cfg.CheckEntryCount(int64(len(entries))); err != nil {
		return nil, err
	}
	td.EntriesWalked = int64(len(entries))
	return entries, nil
}
