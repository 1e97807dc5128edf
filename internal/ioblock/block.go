// Package ioblock implements fixed-size block framing over an *os.File:
// every read and every write moves exactly one block's worth of bytes,
// new blocks are always appended at end-of-file, and nothing is ever
// freed or reused.
//
// This is the disk-facing primitive both the B-tree engine and the record
// file are built on; neither package touches *os.File directly.
package ioblock

import (
	"fmt"
	"os"

	"github.com/scigolib/bibindex/internal/bibierr"
)

// Size is the default block size (B in the design), used when a caller
// doesn't need an override. Every block, whether it carries a file
// header, a B-tree node, or a record entry, occupies exactly the file's
// configured block size on disk; the bytes beyond the payload are zeroed
// and otherwise uninterpreted.
const Size = 4096

// File wraps an *os.File opened either for sequential block-addressed
// writing or for block-addressed reading. Allocation is end-of-file only:
// there is no free list and no block is ever reused, matching the engine's
// append-only invariant.
type File struct {
	f          *os.File
	nextOffset int64 // end-of-file address; where the next AppendBlock lands
	readOnly   bool
	size       int // block size this file was opened with
}

// Create truncates (or creates) the file at path and opens it for
// block-addressed writing at the default block Size, starting allocation
// at offset 0.
func Create(path string) (*File, error) {
	return CreateSized(path, Size)
}

// CreateSized is Create with an explicit block size, for stores configured
// away from the default (see internal/config's BlockSize field).
func CreateSized(path string, size int) (*File, error) {
	if size <= 0 {
		size = Size
	}
	f, err := os.Create(path) //nolint:gosec // path is operator-supplied, intentional
	if err != nil {
		return nil, bibierr.Wrap("creating block file", err)
	}
	return &File{f: f, size: size}, nil
}

// Open opens the file at path read-only for block-addressed reads at the
// default block Size.
func Open(path string) (*File, error) {
	return OpenSized(path, Size)
}

// OpenSized is Open with an explicit block size — it must match the size
// the file was created with, since nothing in the block framing itself
// records it.
func OpenSized(path string, size int) (*File, error) {
	if size <= 0 {
		size = Size
	}
	f, err := os.Open(path) //nolint:gosec // path is operator-supplied, intentional
	if err != nil {
		return nil, bibierr.Wrap("opening block file", err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, bibierr.Wrap("stat block file", err)
	}
	return &File{f: f, nextOffset: fi.Size(), readOnly: true, size: size}, nil
}

// BlockSize returns the block size this file was opened with.
func (bf *File) BlockSize() int {
	return bf.size
}

// ReadBlock reads the file's block size worth of bytes at offset. The
// returned slice is owned by the caller and should be released with
// ReleaseBuffer when done.
func (bf *File) ReadBlock(offset int64) ([]byte, error) {
	buf := GetBuffer(bf.size)
	n, err := bf.f.ReadAt(buf, offset)
	if err != nil {
		ReleaseBuffer(buf)
		return nil, bibierr.Wrap(fmt.Sprintf("reading block at %d", offset), err)
	}
	if n != bf.size {
		ReleaseBuffer(buf)
		return nil, bibierr.Wrap(fmt.Sprintf("reading block at %d", offset),
			fmt.Errorf("short read: got %d of %d bytes", n, bf.size))
	}
	return buf, nil
}

// WriteBlockAt writes payload, zero-padded to the file's block size, at
// the given offset. len(payload) must be <= the block size.
func (bf *File) WriteBlockAt(offset int64, payload []byte) error {
	if bf.readOnly {
		return bibierr.Wrap("writing block", fmt.Errorf("file is open read-only"))
	}
	if len(payload) > bf.size {
		return bibierr.Wrap("writing block", fmt.Errorf("payload of %d bytes exceeds block size %d", len(payload), bf.size))
	}

	buf := GetBuffer(bf.size)
	defer ReleaseBuffer(buf)
	copy(buf, payload)
	for i := len(payload); i < bf.size; i++ {
		buf[i] = 0
	}

	n, err := bf.f.WriteAt(buf, offset)
	if err != nil {
		return bibierr.Wrap(fmt.Sprintf("writing block at %d", offset), err)
	}
	if n != bf.size {
		return bibierr.Wrap(fmt.Sprintf("writing block at %d", offset),
			fmt.Errorf("short write: wrote %d of %d bytes", n, bf.size))
	}
	if offset+int64(bf.size) > bf.nextOffset {
		bf.nextOffset = offset + int64(bf.size)
	}
	return nil
}

// AppendBlock allocates a new block at the current end-of-file and writes
// payload into it, returning the offset it was written at. This is the
// only way new blocks come into existence — there is no free-list reuse.
func (bf *File) AppendBlock(payload []byte) (int64, error) {
	offset := bf.nextOffset
	if err := bf.WriteBlockAt(offset, payload); err != nil {
		return 0, err
	}
	return offset, nil
}

// EndOfFile returns the address the next AppendBlock call would land at.
func (bf *File) EndOfFile() int64 {
	return bf.nextOffset
}

// Sync flushes buffered writes to stable storage. Implementations must
// call this before finishing insertions/writes, per the buffering
// contract: writes may be buffered but must be durable once a writer
// session finishes.
func (bf *File) Sync() error {
	if bf.readOnly {
		return nil
	}
	if err := bf.f.Sync(); err != nil {
		return bibierr.Wrap("syncing block file", err)
	}
	return nil
}

// Close closes the underlying file handle. Safe to call on an already
// closed File.
func (bf *File) Close() error {
	if bf.f == nil {
		return nil
	}
	err := bf.f.Close()
	bf.f = nil
	return err
}
