// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import "fmt"

// blockType is the two-bit DEFLATE block type (RFC 1951 §3.2.3).
type blockType int

const (
	blockStored blockType = iota
	blockFixed
	blockDynamic
	blockReserved
)

// codeLengthOrder is the fixed order in which the hclen code-length-code
// lengths are transmitted in a dynamic-Huffman block header.
var codeLengthOrder = []int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// lengthBase and lengthExtraBits give, for length symbols 257..285, the base
// length and number of extra bits to read and add.
var lengthBase = []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258}

// distanceBase and distanceExtraBits give, for distance codes 0..29, the
// base distance and number of extra bits to read and add.
var distanceBase = []int{1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577}

var fixedLiteralBootstrap = []huffmanBootstrap{
	{StartSymbol: 0, BitLength: 8},
	{StartSymbol: 144, BitLength: 9},
	{StartSymbol: 256, BitLength: 7},
	{StartSymbol: 280, BitLength: 8},
	{StartSymbol: 288, BitLength: -1},
}

var fixedDistanceBootstrap = []huffmanBootstrap{
	{StartSymbol: 0, BitLength: 5},
	{StartSymbol: 32, BitLength: -1},
}

// lengthExtraBits returns the number of extra bits that follow length
// symbol sym (257..285).
func lengthExtraBits(sym int) int {
	if sym <= 260 || sym == 285 {
		return 0
	}
	return ((sym-257)>>2 - 1)
}

// distanceExtraBits returns the number of extra bits that follow distance
// code code (0..29).
func distanceExtraBits(code int) int {
	if code <= 1 {
		return 0
	}
	return (code >> 1) - 1
}

// DeflateDecoder decodes a raw DEFLATE bit stream (RFC 1951) into the
// original byte sequence. It holds no state between calls to Decompress;
// each call is independent.
type DeflateDecoder struct{}

// NewDeflateDecoder returns a ready-to-use [DeflateDecoder].
func NewDeflateDecoder() *DeflateDecoder {
	return &DeflateDecoder{}
}

// Decompress decodes a raw DEFLATE byte stream and returns the
// decompressed bytes.
func (d *DeflateDecoder) Decompress(data []byte) ([]byte, error) {
	return d.DecompressReader(NewBitReader(data, LSBFirst))
}

// DecompressReader decodes a raw DEFLATE stream from r, which MUST already
// be configured LSB-first. This entry point exists so outer formats (zlib,
// gzip) can embed the DEFLATE body within a larger bit/byte stream that
// carries its own header and trailer.
func (d *DeflateDecoder) DecompressReader(r *BitReader) ([]byte, error) {
	var out []byte

	for {
		finalBit, err := r.Bit()
		if err != nil {
			return nil, fmt.Errorf("read block header: %w", err)
		}
		final := finalBit == 1

		btypeVal, err := r.IntFromBits(2)
		if err != nil {
			return nil, fmt.Errorf("read block type: %w", err)
		}

		switch blockType(btypeVal) {
		case blockStored:
			out, err = decodeStoredBlock(r, out)
		case blockFixed:
			litTree := NewHuffmanTreeFromBootstrap(fixedLiteralBootstrap)
			distTree := NewHuffmanTreeFromBootstrap(fixedDistanceBootstrap)
			out, err = decodeSymbolLoop(r, litTree, distTree, out)
		case blockDynamic:
			var litTree, distTree *HuffmanTree
			litTree, distTree, err = readDynamicTrees(r)
			if err == nil {
				out, err = decodeSymbolLoop(r, litTree, distTree, out)
			}
		default:
			err = fmt.Errorf("block type %d: %w", btypeVal, ErrWrongBlockType)
		}
		if err != nil {
			return nil, err
		}

		if final {
			break
		}
	}

	return out, nil
}

// decodeStoredBlock implements btype=00: align to a byte boundary, read the
// length/~length pair, verify them, and copy length raw bytes to out.
func decodeStoredBlock(r *BitReader, out []byte) ([]byte, error) {
	r.SkipUntilNextByte()

	length, err := r.Uint16LE()
	if err != nil {
		return nil, fmt.Errorf("read stored block length: %w", err)
	}
	nlength, err := r.Uint16LE()
	if err != nil {
		return nil, fmt.Errorf("read stored block nlength: %w", err)
	}
	if length&nlength != 0 {
		return nil, fmt.Errorf("length=%#04x nlength=%#04x: %w", length, nlength, ErrWrongUncompressedBlockLengths)
	}

	raw, err := r.Bytes(int(length))
	if err != nil {
		return nil, fmt.Errorf("read stored block data: %w", err)
	}
	return append(out, raw...), nil
}

// readDynamicTrees implements the btype=10 header: hlit/hdist/hclen counts,
// the code-length tree, and the decoded literal/length + distance length
// vectors split at hlit.
func readDynamicTrees(r *BitReader) (lit *HuffmanTree, dist *HuffmanTree, err error) {
	hlitExtra, err := r.IntFromBits(5)
	if err != nil {
		return nil, nil, fmt.Errorf("read hlit: %w", err)
	}
	hlit := hlitExtra + 257

	hdistExtra, err := r.IntFromBits(5)
	if err != nil {
		return nil, nil, fmt.Errorf("read hdist: %w", err)
	}
	hdist := hdistExtra + 1

	hclenExtra, err := r.IntFromBits(4)
	if err != nil {
		return nil, nil, fmt.Errorf("read hclen: %w", err)
	}
	hclen := hclenExtra + 4

	clLengths := make([]int, 19)
	for i := 0; i < hclen; i++ {
		l, err := r.IntFromBits(3)
		if err != nil {
			return nil, nil, fmt.Errorf("read code-length code %d: %w", i, err)
		}
		clLengths[codeLengthOrder[i]] = l
	}
	clTree := NewHuffmanTreeFromLengths(clLengths)

	lengths := make([]int, 0, hlit+hdist)
	var prevLength int
	havePrev := false
	for len(lengths) < hlit+hdist {
		sym, err := clTree.DecodeNext(r)
		if err != nil {
			return nil, nil, err
		}
		if sym == -1 {
			return nil, nil, fmt.Errorf("decode code-length symbol: %w", ErrSymbolNotFound)
		}

		switch {
		case sym <= 15:
			lengths = append(lengths, sym)
			prevLength = sym
			havePrev = true
		case sym == 16:
			if !havePrev {
				return nil, nil, ErrNoPreviousLength
			}
			n, err := r.IntFromBits(2)
			if err != nil {
				return nil, nil, fmt.Errorf("read repeat-previous count: %w", err)
			}
			for i := 0; i < n+3; i++ {
				lengths = append(lengths, prevLength)
			}
		case sym == 17:
			n, err := r.IntFromBits(3)
			if err != nil {
				return nil, nil, fmt.Errorf("read repeat-zero-short count: %w", err)
			}
			for i := 0; i < n+3; i++ {
				lengths = append(lengths, 0)
			}
			havePrev = false
		case sym == 18:
			n, err := r.IntFromBits(7)
			if err != nil {
				return nil, nil, fmt.Errorf("read repeat-zero-long count: %w", err)
			}
			for i := 0; i < n+11; i++ {
				lengths = append(lengths, 0)
			}
			havePrev = false
		default:
			return nil, nil, fmt.Errorf("code-length symbol %d: %w", sym, ErrWrongSymbol)
		}
	}

	// decoding can overshoot on the final repeat run; trim back to exactly
	// hlit+hdist entries so the split below lines up.
	lengths = lengths[:hlit+hdist]

	lit = NewHuffmanTreeFromLengths(lengths[:hlit])
	dist = NewHuffmanTreeFromLengths(lengths[hlit:])
	return lit, dist, nil
}

// decodeSymbolLoop runs the literal/length + distance symbol loop shared by
// fixed and dynamic blocks until the end-of-block symbol (256) appears.
func decodeSymbolLoop(r *BitReader, litTree, distTree *HuffmanTree, out []byte) ([]byte, error) {
	for {
		sym, err := litTree.DecodeNext(r)
		if err != nil {
			return nil, err
		}
		if sym == -1 {
			return nil, fmt.Errorf("decode literal/length symbol: %w", ErrSymbolNotFound)
		}

		switch {
		case sym <= 255:
			out = append(out, byte(sym))
		case sym == 256:
			return out, nil
		case sym <= 285:
			extra := lengthExtraBits(sym)
			add, err := r.IntFromBits(extra)
			if err != nil {
				return nil, fmt.Errorf("read length extra bits: %w", err)
			}
			length := lengthBase[sym-257] + add

			distSym, err := distTree.DecodeNext(r)
			if err != nil {
				return nil, err
			}
			if distSym == -1 {
				return nil, fmt.Errorf("decode distance symbol: %w", ErrSymbolNotFound)
			}
			if distSym < 0 || distSym > 29 {
				return nil, fmt.Errorf("distance code %d: %w", distSym, ErrWrongSymbol)
			}
			dExtra := distanceExtraBits(distSym)
			dAdd, err := r.IntFromBits(dExtra)
			if err != nil {
				return nil, fmt.Errorf("read distance extra bits: %w", err)
			}
			distance := distanceBase[distSym] + dAdd

			if distance > len(out) {
				return nil, fmt.Errorf("distance %d exceeds output length %d: %w", distance, len(out), ErrBackReferenceTooFar)
			}
			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		default:
			return nil, fmt.Errorf("literal/length symbol %d: %w", sym, ErrWrongSymbol)
		}
	}
}
