package record

import (
	"errors"

	"github.com/scigolib/bibindex/internal/bibierr"
	"github.com/scigolib/bibindex/internal/ioblock"
)

// ErrNonMonotonicID is returned by Append when an entry's id is not
// strictly greater than the previous one appended. The perfect-hash
// layout depends on ids arriving in increasing order with no repeats;
// the caller (internal/ingest) is responsible for validating its input
// stream against this.
var ErrNonMonotonicID = errors.New("record: entry id is not strictly greater than the previous id")

var phantomPayload = make([]byte, entryPayloadSize)

// Writer builds a record file in a single forward pass: Create, then one
// Append per entry in increasing id order, then Finish.
type Writer struct {
	file   *ioblock.File
	lastID int64 // -1 until the first Append
}

// Create overwrites any file at path, sized at ioblock.Size blocks, and
// reserves block 0 for the header. See CreateSized for a non-default
// block size.
func Create(path string) (*Writer, error) {
	return CreateSized(path, ioblock.Size)
}

// CreateSized is Create with an explicit block size.
func CreateSized(path string, blockSize int) (*Writer, error) {
	f, err := ioblock.CreateSized(path, blockSize)
	if err != nil {
		return nil, err
	}
	if _, err := f.AppendBlock(fileHeader{}.encode()); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{file: f, lastID: -1}, nil
}

// Append writes the phantom blocks covering any id gap since the last
// append, then the entry itself, and returns the entry's byte offset
// (always B*(1+e.ID), per the perfect-hash law).
func (w *Writer) Append(e Entry) (int64, error) {
	if int64(e.ID) <= w.lastID {
		return 0, bibierr.Wrap("record append", ErrNonMonotonicID)
	}

	for id := w.lastID + 1; id < int64(e.ID); id++ {
		if _, err := w.file.AppendBlock(phantomPayload); err != nil {
			return 0, err
		}
	}

	offset, err := w.file.AppendBlock(encodeEntry(e))
	if err != nil {
		return 0, err
	}

	w.lastID = int64(e.ID)
	return offset, nil
}

// Finish writes the final block_count into the header and syncs the
// file.
func (w *Writer) Finish() error {
	blockCount := int32(w.lastID + 2) // header block + one block per id 0..lastID
	if err := w.file.WriteBlockAt(0, fileHeader{blockCount: blockCount}.encode()); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close releases the underlying file handle.
func (w *Writer) Close() error {
	return w.file.Close()
}
