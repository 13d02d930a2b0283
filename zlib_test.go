// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"hash/adler32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZlibStream wraps a raw stored-block DEFLATE payload (built the same
// way deflate_test.go does) in a minimal zlib container with a correct
// Adler-32 trailer, so the container logic can be exercised without a
// separate zlib encoder.
func buildZlibStream(t *testing.T, payload []byte) []byte {
	t.Helper()

	length := uint16(len(payload))
	nlength := ^length
	deflate := []byte{0x01, byte(length), byte(length >> 8), byte(nlength), byte(nlength >> 8)}
	deflate = append(deflate, payload...)

	out := []byte{0x78, 0x01} // CMF=0x78 (CM=8), FLG chosen so (cmf*256+flg)%31==0
	out = append(out, deflate...)

	sum := adler32.Checksum(payload)
	out = append(out, byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum))
	return out
}

func TestIsZlib(t *testing.T) {
	assert.True(t, isZlib([]byte{0x78, 0x9c, 0, 0}))
	assert.True(t, isZlib([]byte{0x78, 0x01}))
	assert.False(t, isZlib([]byte{0x1f, 0x8b}))
}

func TestDecompressZlib(t *testing.T) {
	stream := buildZlibStream(t, []byte("hello"))
	out, err := decompressZlib(stream)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), out)
}

func TestDecompressZlib_BadChecksum(t *testing.T) {
	stream := buildZlibStream(t, []byte("hello"))
	stream[len(stream)-1] ^= 0xff
	_, err := decompressZlib(stream)
	assert.Error(t, err)
}

func TestDecompressZlib_Truncated(t *testing.T) {
	_, err := decompressZlib([]byte{0x78})
	assert.ErrorIs(t, err, ErrTruncatedInput)
}
