// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReader_LSBFirst(t *testing.T) {
	// 0b10110010 read LSB-first yields bits 0,1,0,0,1,1,0,1
	r := NewBitReader([]byte{0b10110010}, LSBFirst)
	want := []int{0, 1, 0, 0, 1, 1, 0, 1}
	for i, w := range want {
		bit, err := r.Bit()
		require.NoError(t, err)
		assert.Equalf(t, w, bit, "bit %d", i)
	}
	_, err := r.Bit()
	assert.ErrorIs(t, err, ErrTruncatedInput)
}

func TestBitReader_MSBFirst(t *testing.T) {
	r := NewBitReader([]byte{0b10110010}, MSBFirst)
	want := []int{1, 0, 1, 1, 0, 0, 1, 0}
	for i, w := range want {
		bit, err := r.Bit()
		require.NoError(t, err)
		assert.Equalf(t, w, bit, "bit %d", i)
	}
}

func TestBitReader_IntFromBits(t *testing.T) {
	// 5 in binary is 101, but IntFromBits treats first-read bit as LSB, so
	// encode 5 as bits [1,0,1,0,0] (3 then padding) -> reads back as 5.
	r := NewBitReader([]byte{0b00000101}, LSBFirst)
	v, err := r.IntFromBits(3)
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestBitReader_SkipUntilNextByte(t *testing.T) {
	r := NewBitReader([]byte{0xff, 0x42}, LSBFirst)
	_, err := r.Bits(3)
	require.NoError(t, err)
	r.SkipUntilNextByte()
	assert.Equal(t, 1, r.ByteIndex())

	b, err := r.AlignedByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), b)
}

func TestBitReader_AlignedByteRequiresAlignment(t *testing.T) {
	r := NewBitReader([]byte{0xff}, LSBFirst)
	_, _ = r.Bit()
	_, err := r.AlignedByte()
	assert.Error(t, err)
}

func TestBitReader_Uint16LE(t *testing.T) {
	r := NewBitReader([]byte{0x34, 0x12}, LSBFirst)
	v, err := r.Uint16LE()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}

func TestBitReader_Seek(t *testing.T) {
	r := NewBitReader([]byte{0x01, 0x02, 0x03}, LSBFirst)
	r.Seek(2)
	b, err := r.AlignedByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x03), b)
}

func TestBitReader_NullSpaceEndedASCII(t *testing.T) {
	r := NewBitReader([]byte("root\x0000"), LSBFirst)
	s, err := r.NullSpaceEndedASCII(6)
	require.NoError(t, err)
	assert.Equal(t, "root", s)
}

func TestBitReader_NullEndedASCII(t *testing.T) {
	r := NewBitReader([]byte("ustar\x00\x00\x00"), LSBFirst)
	s, err := r.NullEndedASCII(8)
	require.NoError(t, err)
	assert.Equal(t, "ustar", s)
}

func TestBitReader_BytesTruncated(t *testing.T) {
	r := NewBitReader([]byte{0x01, 0x02}, LSBFirst)
	_, err := r.Bytes(3)
	assert.ErrorIs(t, err, ErrTruncatedInput)
}
