package record

import "github.com/scigolib/bibindex/internal/ioblock"

// Reader gives random access into a record file built by Writer.
type Reader struct {
	file *ioblock.File
}

// Open opens path read-only, at the default ioblock.Size block size. See
// OpenSized for a non-default block size.
func Open(path string) (*Reader, error) {
	return OpenSized(path, ioblock.Size)
}

// OpenSized is Open with an explicit block size, which must match the
// size the file was created with.
func OpenSized(path string, blockSize int) (*Reader, error) {
	f, err := ioblock.OpenSized(path, blockSize)
	if err != nil {
		return nil, err
	}
	return &Reader{file: f}, nil
}

// ReadAt reads the entry block at the given byte offset. A phantom block
// decodes with Valid == false rather than an error: "no record at this
// id" is a normal outcome, not a fault.
func (r *Reader) ReadAt(offset int64) (Entry, error) {
	buf, err := r.file.ReadBlock(offset)
	if err != nil {
		return Entry{}, err
	}
	defer ioblock.ReleaseBuffer(buf)
	return decodeEntry(buf), nil
}

// BlockCount reads the header's recorded block count.
func (r *Reader) BlockCount() (int32, error) {
	buf, err := r.file.ReadBlock(0)
	if err != nil {
		return 0, err
	}
	defer ioblock.ReleaseBuffer(buf)
	return decodeFileHeader(buf).blockCount, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}
