// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const recordSize = 512

// ustar field offsets within a 512-byte header record, per spec §6.
const (
	offName     = 0
	lenName     = 100
	offMode     = 100
	lenMode     = 8
	offUID      = 108
	lenUID      = 8
	offGID      = 116
	lenGID      = 8
	offSize     = 124
	lenSize     = 12
	offMtime    = 136
	lenMtime    = 12
	offTypeflag = 156
	offLinkname = 157
	lenLinkname = 100
	offUname    = 265
	lenUname    = 32
	offGname    = 297
	lenGname    = 32
	offDevmajor = 329
	lenDevmajor = 8
	offDevminor = 337
	lenDevminor = 8
	offPrefix   = 345
	lenPrefix   = 155
)

// TAR type flags recognized by this walker (spec §6).
const (
	TypeRegular     = '0'
	TypeHardlink    = '1'
	TypeSymlink     = '2'
	TypeChar        = '3'
	TypeBlock       = '4'
	TypeDirectory   = '5'
	TypeFifo        = '6'
	TypeContiguous  = '7'
	TypePaxLocal    = 'x'
	TypePaxGlobal   = 'g'
	TypeGNULongLink = 'K'
	TypeGNULongName = 'L'
)

// EntryInfo is a fully-resolved TAR entry descriptor. It is constructed once
// per 512-byte header record and is immutable once returned from
// [TarWalker.Walk].
type EntryInfo struct {
	Name     string
	LinkName string
	Size     int64
	TypeFlag byte
	Mode     int64
	UID      int64
	GID      int64
	ModTime  time.Time
	Uname    string
	Gname    string
	DevMajor int64
	DevMinor int64

	// BlockStartIndex is the byte offset of this entry's header record
	// within the archive.
	BlockStartIndex int

	IsGlobalExtendedHeader bool
	IsLocalExtendedHeader  bool
}

// TarEntry pairs an [EntryInfo] with its data, a zero-copy sub-slice of the
// archive buffer passed to [TarWalker.Walk]. Callers must not outlive that
// buffer.
type TarEntry struct {
	Info EntryInfo
	Data []byte
}

// roundTo512 rounds n up to the next multiple of 512, per spec §4.5.
func roundTo512(n int64) int64 {
	return ((n + 511) / 512) * 512
}

// paxOverlay is a key-to-string mapping parsed from a PAX extended-header
// record body (spec §3, "Extended-header overlay").
type paxOverlay map[string]string

// TarWalker iterates 512-byte records from a byte buffer, resolving GNU
// long-name and PAX extended-header continuations, and yields fully
// resolved entries with their data slices.
type TarWalker struct {
	buf []byte
}

// NewTarWalker returns a [TarWalker] over buf.
func NewTarWalker(buf []byte) *TarWalker {
	return &TarWalker{buf: buf}
}

// Walk parses the archive and returns every non-extended-header entry in
// order. It consumes exactly up to and including the terminating two
// zero-filled records of a well-formed archive.
func (w *TarWalker) Walk() ([]TarEntry, error) {
	if len(w.buf) < recordSize {
		return nil, ErrTooSmallFileIsPassed
	}

	var (
		entries        []TarEntry
		globalExtended paxOverlay
		localExtended  paxOverlay
		longName       string
		haveLongName   bool
		longLinkName   string
		haveLongLink   bool
	)

	r := NewBitReader(w.buf, MSBFirst)

	for {
		pos := r.ByteIndex()
		if terminationReached(w.buf, pos) {
			break
		}
		if pos+recordSize > len(w.buf) {
			return nil, fmt.Errorf("truncated header record at offset %d: %w", pos, ErrTooSmallFileIsPassed)
		}

		typeFlag := w.buf[pos+offTypeflag]

		if typeFlag == TypeGNULongLink || typeFlag == TypeGNULongName {
			r.Seek(pos + offSize)
			size, err := readOctalField(r, lenSize)
			if err != nil {
				return nil, err
			}

			r.Seek(pos + recordSize)
			name, err := r.NullEndedASCII(int(size))
			if err != nil {
				return nil, fmt.Errorf("read long name body at offset %d: %w", pos+recordSize, err)
			}

			if typeFlag == TypeGNULongLink {
				longLinkName, haveLongLink = name, true
			} else {
				longName, haveLongName = name, true
			}

			r.Seek(pos + recordSize + int(roundTo512(size)))
			continue
		}

		info, err := parseHeader(w.buf, pos, globalExtended, localExtended, longName, haveLongName, longLinkName, haveLongLink)
		if err != nil {
			return nil, err
		}

		dataStart := pos + recordSize
		dataEnd := dataStart + int(info.Size)
		if dataEnd > len(w.buf) {
			return nil, fmt.Errorf("entry %q data runs past end of archive: %w", info.Name, ErrTooSmallFileIsPassed)
		}
		data := w.buf[dataStart:dataEnd]

		next := dataStart + int(roundTo512(info.Size))

		switch {
		case info.IsGlobalExtendedHeader:
			globalExtended, err = parsePaxBody(data)
			if err != nil {
				return nil, err
			}
		case info.IsLocalExtendedHeader:
			localExtended, err = parsePaxBody(data)
			if err != nil {
				return nil, err
			}
		default:
			entries = append(entries, TarEntry{Info: info, Data: data})
			localExtended = nil
			longName, haveLongName = "", false
			longLinkName, haveLongLink = "", false
		}

		r.Seek(next)
	}

	return entries, nil
}

// terminationReached reports whether the walk ends at pos: either pos is at
// or past the end of buf, or the bytes from pos up to 1024 bytes further
// (fewer, if the buffer ends sooner) are entirely zero and span at least
// one full record.
func terminationReached(buf []byte, pos int) bool {
	if pos >= len(buf) {
		return true
	}
	end := pos + 2*recordSize
	if end > len(buf) {
		end = len(buf)
	}
	for _, b := range buf[pos:end] {
		if b != 0 {
			return false
		}
	}
	// a zero window of at least one full record (one or two zero records
	// at the end of the buffer) counts as the terminator; a zero tail
	// shorter than one record does not.
	return end-pos >= recordSize
}

// readOctalField reads an n-byte null/space-terminated ASCII field at the
// reader's current position and parses it as octal.
func readOctalField(r *BitReader, n int) (int64, error) {
	s, err := r.NullSpaceEndedASCII(n)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, fmt.Errorf("field %q: %w", s, ErrFieldIsNotNumber)
	}
	return v, nil
}

// parseHeader builds an EntryInfo for the header record at pos, applying
// the overlay precedence of spec §4.4: local extended > GNU long name/link
// > global extended > ustar prefix+name.
func parseHeader(buf []byte, pos int, global, local paxOverlay, longName string, haveLongName bool, longLink string, haveLongLink bool) (EntryInfo, error) {
	r := NewBitReader(buf, MSBFirst)

	r.Seek(pos + offName)
	name, err := r.NullSpaceEndedASCII(lenName)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offMode)
	mode, err := readOctalField(r, lenMode)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offUID)
	uid, err := readOctalField(r, lenUID)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offGID)
	gid, err := readOctalField(r, lenGID)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offSize)
	size, err := readOctalField(r, lenSize)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offMtime)
	mtime, err := readOctalField(r, lenMtime)
	if err != nil {
		return EntryInfo{}, err
	}

	typeFlag := buf[pos+offTypeflag]

	r.Seek(pos + offLinkname)
	linkName, err := r.NullSpaceEndedASCII(lenLinkname)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offUname)
	uname, err := r.NullSpaceEndedASCII(lenUname)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offGname)
	gname, err := r.NullSpaceEndedASCII(lenGname)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offDevmajor)
	devMajor, err := readOctalField(r, lenDevmajor)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offDevminor)
	devMinor, err := readOctalField(r, lenDevminor)
	if err != nil {
		return EntryInfo{}, err
	}

	r.Seek(pos + offPrefix)
	prefix, err := r.NullSpaceEndedASCII(lenPrefix)
	if err != nil {
		return EntryInfo{}, err
	}

	resolvedName := name
	if prefix != "" {
		resolvedName = prefix + "/" + name
	}
	if global != nil {
		if v, ok := global["path"]; ok {
			resolvedName = v
		}
	}
	if haveLongName {
		resolvedName = longName
	}
	if local != nil {
		if v, ok := local["path"]; ok {
			resolvedName = v
		}
	}

	resolvedLink := linkName
	if global != nil {
		if v, ok := global["linkpath"]; ok {
			resolvedLink = v
		}
	}
	if haveLongLink {
		resolvedLink = longLink
	}
	if local != nil {
		if v, ok := local["linkpath"]; ok {
			resolvedLink = v
		}
	}

	resolvedSize := size
	if global != nil {
		if v, ok := global["size"]; ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				resolvedSize = n
			}
		}
	}
	if local != nil {
		if v, ok := local["size"]; ok {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				resolvedSize = n
			}
		}
	}

	resolvedMtime := mtime
	for _, overlay := range []paxOverlay{global, local} {
		if overlay == nil {
			continue
		}
		if v, ok := overlay["mtime"]; ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				resolvedMtime = int64(f)
			}
		}
	}

	return EntryInfo{
		Name:                   resolvedName,
		LinkName:               resolvedLink,
		Size:                   resolvedSize,
		TypeFlag:               typeFlag,
		Mode:                   mode,
		UID:                    uid,
		GID:                    gid,
		ModTime:                time.Unix(resolvedMtime, 0).UTC(),
		Uname:                  uname,
		Gname:                  gname,
		DevMajor:               devMajor,
		DevMinor:               devMinor,
		BlockStartIndex:        pos,
		IsGlobalExtendedHeader: typeFlag == TypePaxGlobal,
		IsLocalExtendedHeader:  typeFlag == TypePaxLocal,
	}, nil
}

// parsePaxBody parses a PAX extended-header body into an overlay map.
// Records have the form "<len> <key>=<value>\n" where <len> is the decimal
// byte length of the entire record, including the length prefix itself and
// the trailing newline (spec §4.4, PAX body grammar).
func parsePaxBody(body []byte) (paxOverlay, error) {
	overlay := paxOverlay{}
	rest := body
	for len(rest) > 0 {
		sp := bytes.IndexByte(rest, ' ')
		if sp < 0 {
			break
		}
		n, err := strconv.Atoi(string(rest[:sp]))
		if err != nil {
			return nil, fmt.Errorf("pax record length %q: %w", rest[:sp], ErrFieldIsNotNumber)
		}
		if n <= 0 || n > len(rest) {
			return nil, fmt.Errorf("pax record length %d exceeds remaining body", n)
		}

		record := rest[:n]
		rest = rest[n:]

		kv := record[sp+1:]
		kv = []byte(strings.TrimSuffix(string(kv), "\n"))
		eq := bytes.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		overlay[string(kv[:eq])] = string(kv[eq+1:])
	}
	return overlay, nil
}
