// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// octalField renders v as a NUL-terminated, zero-padded octal field of
// exactly width bytes, matching what readOctalField expects to parse back.
func octalField(v int64, width int) []byte {
	s := fmt.Sprintf("%0*o", width-1, v)
	out := make([]byte, width)
	copy(out, s)
	return out
}

// asciiField renders s into a width-byte field, NUL-padded.
func asciiField(s string, width int) []byte {
	out := make([]byte, width)
	copy(out, s)
	return out
}

type headerSpec struct {
	name, linkname, uname, gname, prefix string
	typeflag                             byte
	size, mode, uid, gid, mtime          int64
}

func buildHeaderRecord(h headerSpec) []byte {
	buf := make([]byte, recordSize)
	copy(buf[offName:offName+lenName], asciiField(h.name, lenName))
	copy(buf[offMode:offMode+lenMode], octalField(h.mode, lenMode))
	copy(buf[offUID:offUID+lenUID], octalField(h.uid, lenUID))
	copy(buf[offGID:offGID+lenGID], octalField(h.gid, lenGID))
	copy(buf[offSize:offSize+lenSize], octalField(h.size, lenSize))
	copy(buf[offMtime:offMtime+lenMtime], octalField(h.mtime, lenMtime))
	buf[offTypeflag] = h.typeflag
	copy(buf[offLinkname:offLinkname+lenLinkname], asciiField(h.linkname, lenLinkname))
	copy(buf[offUname:offUname+lenUname], asciiField(h.uname, lenUname))
	copy(buf[offGname:offGname+lenGname], asciiField(h.gname, lenGname))
	copy(buf[offPrefix:offPrefix+lenPrefix], asciiField(h.prefix, lenPrefix))
	copy(buf[offsetTar:], magicBytesTar[0])
	return buf
}

func padTo512(data []byte) []byte {
	n := roundTo512(int64(len(data)))
	out := make([]byte, n)
	copy(out, data)
	return out
}

func buildArchive(blocks ...[]byte) []byte {
	var out []byte
	for _, b := range blocks {
		out = append(out, b...)
	}
	out = append(out, make([]byte, 2*recordSize)...)
	return out
}

func TestTarWalker_SingleRegularFile(t *testing.T) {
	hdr := buildHeaderRecord(headerSpec{
		name: "hello.txt", typeflag: TypeRegular, size: 3, mode: 0644, uname: "root", gname: "root",
	})
	data := padTo512([]byte("hi\n"))
	archive := buildArchive(hdr, data)

	entries, err := NewTarWalker(archive).Walk()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "hello.txt", entries[0].Info.Name)
	assert.Equal(t, []byte("hi\n"), entries[0].Data)
	assert.Equal(t, byte(TypeRegular), entries[0].Info.TypeFlag)
}

func TestTarWalker_MultipleEntries(t *testing.T) {
	h1 := buildHeaderRecord(headerSpec{name: "a.txt", typeflag: TypeRegular, size: 1})
	d1 := padTo512([]byte("A"))
	h2 := buildHeaderRecord(headerSpec{name: "b.txt", typeflag: TypeRegular, size: 2})
	d2 := padTo512([]byte("BB"))
	archive := buildArchive(h1, d1, h2, d2)

	entries, err := NewTarWalker(archive).Walk()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Info.Name)
	assert.Equal(t, "b.txt", entries[1].Info.Name)
}

func TestTarWalker_GNULongName(t *testing.T) {
	longName := "this/is/a/very/long/path/that/exceeds/the/one-hundred/byte/ustar/name/field/and/needs/the/gnu/extension.txt"
	require.Greater(t, len(longName), 100)

	longNameData := padTo512(append([]byte(longName), 0))
	lh := buildHeaderRecord(headerSpec{
		name: "././@LongLink", typeflag: TypeGNULongName, size: int64(len(longName) + 1),
	})

	hdr := buildHeaderRecord(headerSpec{name: longName[:90], typeflag: TypeRegular, size: 1})
	data := padTo512([]byte("x"))

	archive := buildArchive(lh, longNameData, hdr, data)

	entries, err := NewTarWalker(archive).Walk()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, longName, entries[0].Info.Name)
}

func TestTarWalker_PaxLocalHeaderOverridesPath(t *testing.T) {
	paxBody := []byte("29 path=unicode/filename.txt\n")
	ph := buildHeaderRecord(headerSpec{name: "PaxHeaders.0/short", typeflag: TypePaxLocal, size: int64(len(paxBody))})
	paxData := padTo512(paxBody)

	hdr := buildHeaderRecord(headerSpec{name: "short", typeflag: TypeRegular, size: 1})
	data := padTo512([]byte("y"))

	archive := buildArchive(ph, paxData, hdr, data)

	entries, err := NewTarWalker(archive).Walk()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unicode/filename.txt", entries[0].Info.Name)
}

func TestTarWalker_TooSmall(t *testing.T) {
	_, err := NewTarWalker([]byte{1, 2, 3}).Walk()
	assert.ErrorIs(t, err, ErrTooSmallFileIsPassed)
}

func TestParsePaxBody(t *testing.T) {
	body := []byte("14 path=x.txt\n12 uid=1000\n")
	overlay, err := parsePaxBody(body)
	require.NoError(t, err)
	assert.Equal(t, "x.txt", overlay["path"])
	assert.Equal(t, "1000", overlay["uid"])
}

func TestReadOctalField(t *testing.T) {
	buf := octalField(8, 8)
	r := NewBitReader(buf, MSBFirst)
	v, err := readOctalField(r, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(8), v)
}
