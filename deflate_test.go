// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packBitsLSB packs bits (0/1 values, in emission order) into bytes the way
// a DEFLATE stream is laid out: each byte's bit 0 holds the earliest
// unpacked bit.
func packBitsLSB(bits []int) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func TestDeflateDecoder_StoredBlock(t *testing.T) {
	// final=1, btype=00 (stored), pad to byte boundary, length=2, nlength,
	// then the raw bytes "AB".
	data := []byte{0x01, 0x02, 0x00, 0xFD, 0xFF, 'A', 'B'}
	out, err := NewDeflateDecoder().Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("AB"), out)
}

func TestDeflateDecoder_StoredBlock_BadLengths(t *testing.T) {
	// length=3 (0b011) and nlength=1 (0b001) overlap in bit 0, violating
	// length&nlength==0.
	data := []byte{0x01, 0x03, 0x00, 0x01, 0x00}
	_, err := NewDeflateDecoder().Decompress(data)
	assert.ErrorIs(t, err, ErrWrongUncompressedBlockLengths)
}

func TestDeflateDecoder_FixedBlock_SingleLiteral(t *testing.T) {
	// final=1, btype=01 (fixed), literal 'A' (code 0x71, 8 bits),
	// end-of-block (code 0x00, 7 bits).
	bits := []int{1, 1, 0}
	bits = append(bits, 0, 1, 1, 1, 0, 0, 0, 1) // 'A' = 0x71 MSB-first
	bits = append(bits, 0, 0, 0, 0, 0, 0, 0)    // EOB = 0x00, 7 bits
	data := packBitsLSB(bits)

	out, err := NewDeflateDecoder().Decompress(data)
	require.NoError(t, err)
	assert.Equal(t, []byte("A"), out)
}

func TestDeflateDecoder_SymbolLoopOnEmptyInput(t *testing.T) {
	litTree := NewHuffmanTreeFromBootstrap(fixedLiteralBootstrap)
	distTree := NewHuffmanTreeFromBootstrap(fixedDistanceBootstrap)
	r := NewBitReader(nil, LSBFirst)
	_, err := decodeSymbolLoop(r, litTree, distTree, nil)
	require.Error(t, err)
}

func TestDeflateDecoder_WrongBlockType(t *testing.T) {
	// final=1, btype=11 (reserved): bits [1,1,1].
	data := packBitsLSB([]int{1, 1, 1})
	_, err := NewDeflateDecoder().Decompress(data)
	assert.ErrorIs(t, err, ErrWrongBlockType)
}

func TestDeflateDecoder_TruncatedInput(t *testing.T) {
	_, err := NewDeflateDecoder().Decompress(nil)
	require.Error(t, err)
}

func TestLengthExtraBits(t *testing.T) {
	cases := map[int]int{257: 0, 258: 0, 260: 0, 261: 0, 265: 1, 269: 2, 285: 0}
	for sym, want := range cases {
		assert.Equalf(t, want, lengthExtraBits(sym), "symbol %d", sym)
	}
}

func TestDistanceExtraBits(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 0, 4: 1, 6: 2}
	for code, want := range cases {
		assert.Equalf(t, want, distanceExtraBits(code), "code %d", code)
	}
}
