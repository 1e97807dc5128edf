// Package record implements the perfect-hash record file: a sequence of
// fixed-size blocks addressed directly by article identifier, with
// phantom blocks padding any gaps between ingested ids.
package record

import "encoding/binary"

const (
	titleSize     = 300
	authorsSize   = 1024
	timestampSize = 20
	snippetSize   = 1024
)

// Entry is one bibliographic record. String fields are fixed-size,
// NUL-terminated buffers; bytes past the first NUL are undefined.
type Entry struct {
	Valid           bool
	ID              int32
	Title           [titleSize]byte
	Year            int32
	Authors         [authorsSize]byte
	Citations       int32
	UpdateTimestamp [timestampSize]byte
	Snippet         [snippetSize]byte
}

const entryPayloadSize = 1 + 4 + titleSize + 4 + authorsSize + 4 + timestampSize + snippetSize

// SetTitle copies s into Title, truncating and NUL-terminating as needed.
func (e *Entry) SetTitle(s string) { setCString(e.Title[:], s) }

// SetAuthors copies s into Authors, truncating and NUL-terminating.
func (e *Entry) SetAuthors(s string) { setCString(e.Authors[:], s) }

// SetUpdateTimestamp copies s into UpdateTimestamp, truncating and
// NUL-terminating.
func (e *Entry) SetUpdateTimestamp(s string) { setCString(e.UpdateTimestamp[:], s) }

// SetSnippet copies s into Snippet, truncating and NUL-terminating.
func (e *Entry) SetSnippet(s string) { setCString(e.Snippet[:], s) }

// TitleString returns Title up to its first NUL (or the whole buffer if
// unterminated).
func (e *Entry) TitleString() string { return cString(e.Title[:]) }

// AuthorsString returns Authors up to its first NUL.
func (e *Entry) AuthorsString() string { return cString(e.Authors[:]) }

// UpdateTimestampString returns UpdateTimestamp up to its first NUL.
func (e *Entry) UpdateTimestampString() string { return cString(e.UpdateTimestamp[:]) }

// SnippetString returns Snippet up to its first NUL.
func (e *Entry) SnippetString() string { return cString(e.Snippet[:]) }

func setCString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	n := len(s)
	if n > len(dst)-1 {
		n = len(dst) - 1
	}
	copy(dst, s[:n])
}

func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

func encodeEntry(e Entry) []byte {
	buf := make([]byte, entryPayloadSize)
	off := 0

	if e.Valid {
		buf[off] = 1
	}
	off++

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(e.ID))
	off += 4

	copy(buf[off:off+titleSize], e.Title[:])
	off += titleSize

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(e.Year))
	off += 4

	copy(buf[off:off+authorsSize], e.Authors[:])
	off += authorsSize

	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(e.Citations))
	off += 4

	copy(buf[off:off+timestampSize], e.UpdateTimestamp[:])
	off += timestampSize

	copy(buf[off:off+snippetSize], e.Snippet[:])
	off += snippetSize

	return buf
}

func decodeEntry(buf []byte) Entry {
	var e Entry
	off := 0

	e.Valid = buf[off] != 0
	off++

	e.ID = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	off += 4

	copy(e.Title[:], buf[off:off+titleSize])
	off += titleSize

	e.Year = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	off += 4

	copy(e.Authors[:], buf[off:off+authorsSize])
	off += authorsSize

	e.Citations = int32(binary.LittleEndian.Uint32(buf[off : off+4]))
	off += 4

	copy(e.UpdateTimestamp[:], buf[off:off+timestampSize])
	off += timestampSize

	copy(e.Snippet[:], buf[off:off+snippetSize])
	off += snippetSize

	return e
}

// OffsetForID implements the affine perfect-hash law: the entry for id i
// lives at byte offset B*(1+i), regardless of whether it was ever
// written (phantom blocks satisfy the same law). blockSize must match the
// block size the record file was created with.
func OffsetForID(id int32, blockSize int) int64 {
	return int64(blockSize) + int64(blockSize)*int64(id)
}

// fileHeader is the record file's block 0.
type fileHeader struct {
	blockCount int32
}

const fileHeaderPayloadSize = 4

func (h fileHeader) encode() []byte {
	buf := make([]byte, fileHeaderPayloadSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.blockCount))
	return buf
}

func decodeFileHeader(buf []byte) fileHeader {
	return fileHeader{blockCount: int32(binary.LittleEndian.Uint32(buf[0:4]))}
}
