// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import "errors"

// Sentinel errors surfaced by this package. Callers can match on these with
// errors.Is whether a call site returns them bare or wraps them with
// additional context via fmt.Errorf("...: %w", ...).
var (
	// ErrWrongUncompressedBlockLengths is returned when a stored block's
	// length and one's-complement nlength fields do not satisfy
	// length & nlength == 0.
	ErrWrongUncompressedBlockLengths = errors.New("wrong uncompressed block lengths")

	// ErrWrongBlockType is returned for a block header with btype == 3 (11b).
	ErrWrongBlockType = errors.New("wrong block type")

	// ErrWrongSymbol is returned when a decoded literal/length, distance, or
	// code-length symbol falls outside its valid range.
	ErrWrongSymbol = errors.New("wrong symbol")

	// ErrSymbolNotFound is returned when the Huffman decoder cannot resolve
	// the bits it has read to any assigned code.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrTruncatedInput is returned when the bit/byte reader is asked for
	// more data than remains in the buffer.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrBackReferenceTooFar is returned when a DEFLATE back-reference
	// distance exceeds the amount of output produced so far.
	ErrBackReferenceTooFar = errors.New("back-reference distance exceeds output length")

	// ErrTooSmallFileIsPassed is returned when a TAR input is shorter than
	// one 512-byte record.
	ErrTooSmallFileIsPassed = errors.New("too small file is passed")

	// ErrFieldIsNotNumber is returned when a TAR numeric header field fails
	// to parse as ASCII octal.
	ErrFieldIsNotNumber = errors.New("field is not a number")

	// ErrNoPreviousLength is returned when a dynamic-Huffman code-length
	// symbol 16 ("repeat previous") appears with no previous length to
	// repeat.
	ErrNoPreviousLength = errors.New("repeat code with no previous length")

	// ErrMaxInputSizeExceeded is returned when compressed input exceeds the
	// configured maximum before decoding starts.
	ErrMaxInputSizeExceeded = errors.New("maximum input size exceeded")

	// ErrMaxDecompressedSizeExceeded is returned when decompressed output
	// would exceed the configured maximum.
	ErrMaxDecompressedSizeExceeded = errors.New("maximum decompressed size exceeded")

	// ErrMaxEntriesExceeded is returned when a TAR archive contains more
	// entries than the configured maximum.
	ErrMaxEntriesExceeded = errors.New("maximum entry count exceeded")

	// ErrUnrecognizedFormat is returned by the format registry when no
	// codec's magic bytes match the input.
	ErrUnrecognizedFormat = errors.New("unrecognized archive/compression format")
)
