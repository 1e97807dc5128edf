package ingest

import (
	"errors"
	"io"

	"github.com/scigolib/bibindex/internal/bibierr"
	"github.com/scigolib/bibindex/internal/btree"
	"github.com/scigolib/bibindex/internal/index"
	"github.com/scigolib/bibindex/internal/ioblock"
	"github.com/scigolib/bibindex/internal/record"
)

// ProgressStep is how many entries pass between progress callback
// invocations during Upload, mirroring the original tool's patience
// counter.
const ProgressStep = 10000

// Paths names the three files a store is built from.
type Paths struct {
	HashFile  string
	IDTree    string
	TitleTree string

	// BlockSize is the ioblock block size new files are created with.
	// Zero means ioblock.Size. Existing files must be opened at the size
	// they were created with; see blockSize.
	BlockSize int
}

// blockSize returns p.BlockSize, or ioblock.Size if unset.
func (p Paths) blockSize() int {
	if p.BlockSize > 0 {
		return p.BlockSize
	}
	return ioblock.Size
}

// UploadReport summarizes a completed Upload.
type UploadReport struct {
	EntriesRead        int
	HashFileBlockCount int32
	IDTreeStats        btree.Stats
	TitleTreeStats      btree.Stats
}

// Upload streams entries from r, building the record file and both
// indexes in a single pass. progress, if non-nil, is called every
// ProgressStep entries with the running count. Entries must arrive in
// strictly increasing id order; record.ErrNonMonotonicID aborts the
// upload with no rollback of files already written.
func Upload(paths Paths, r io.Reader, progress func(count int)) (UploadReport, error) {
	blockSize := paths.blockSize()

	writer, err := record.CreateSized(paths.HashFile, blockSize)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: create hashfile", err)
	}
	defer writer.Close()

	idIndex, err := index.NewIDIndexWithBlockSize(blockSize)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: new id index", err)
	}
	if err := idIndex.Create(paths.IDTree); err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: create id index", err)
	}
	defer idIndex.Close()

	titleIndex, err := index.NewTitleIndexWithBlockSize(blockSize)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: new title index", err)
	}
	if err := titleIndex.Create(paths.TitleTree); err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: create title index", err)
	}
	defer titleIndex.Close()

	scanner := NewScanner(r)
	count := 0

	for {
		e, ok, err := scanner.Next()
		if err != nil {
			return UploadReport{}, bibierr.Wrap("ingest upload: parse entry", err)
		}
		if !ok {
			break
		}

		offset, err := writer.Append(e)
		if err != nil {
			return UploadReport{}, bibierr.Wrap("ingest upload: append entry", err)
		}

		if err := idIndex.Insert(e.ID, offset); err != nil {
			return UploadReport{}, bibierr.Wrap("ingest upload: insert id key", err)
		}
		if err := titleIndex.Insert(e.TitleString(), offset); err != nil {
			return UploadReport{}, bibierr.Wrap("ingest upload: insert title key", err)
		}

		count++
		if progress != nil && count%ProgressStep == 0 {
			progress(count)
		}
	}

	if err := titleIndex.FinishInsertions(); err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: finish title index", err)
	}
	if err := idIndex.FinishInsertions(); err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: finish id index", err)
	}
	if err := writer.Finish(); err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: finish hashfile", err)
	}

	idStats, err := idIndex.Statistics(false)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: id index statistics", err)
	}
	titleStats, err := titleIndex.Statistics(false)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: title index statistics", err)
	}

	reader, err := record.OpenSized(paths.HashFile, blockSize)
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: reopen hashfile", err)
	}
	defer reader.Close()
	blockCount, err := reader.BlockCount()
	if err != nil {
		return UploadReport{}, bibierr.Wrap("ingest upload: read hashfile block count", err)
	}

	return UploadReport{
		EntriesRead:        count,
		HashFileBlockCount: blockCount,
		IDTreeStats:        idStats,
		TitleTreeStats:      titleStats,
	}, nil
}

// ErrNotFound is returned by the query helpers when the requested record
// does not exist (a phantom block, an absent index key, or a stale
// offset that no longer points at a valid entry).
var ErrNotFound = errors.New("ingest: record not found")

// QueryResult carries a found entry plus the block-read accounting the
// original tool reports alongside it.
type QueryResult struct {
	Entry      record.Entry
	BlocksRead int
	BlockCount int32
}

// FindRec computes the entry's offset directly from id (the perfect-hash
// path) and fetches it, consulting no index. blockSize must match the
// hashfile's block size (0 means ioblock.Size).
func FindRec(hashFilePath string, blockSize int, id int32) (QueryResult, error) {
	if blockSize <= 0 {
		blockSize = ioblock.Size
	}

	reader, err := record.OpenSized(hashFilePath, blockSize)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest findrec: open hashfile", err)
	}
	defer reader.Close()

	blockCount, err := reader.BlockCount()
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest findrec: read block count", err)
	}

	e, err := reader.ReadAt(record.OffsetForID(id, blockSize))
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest findrec: read entry", err)
	}
	if !e.Valid {
		return QueryResult{}, ErrNotFound
	}

	return QueryResult{Entry: e, BlocksRead: 1, BlockCount: blockCount}, nil
}

// Seek1 looks up id in the primary index, then fetches the entry from
// the record file.
func Seek1(paths Paths, id int32) (QueryResult, error) {
	idx, err := index.NewIDIndexWithBlockSize(paths.blockSize())
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek1: new id index", err)
	}
	if err := idx.Load(paths.IDTree); err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek1: load id index", err)
	}
	defer idx.Close()

	offset, found, err := idx.Seek(id)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek1: seek", err)
	}
	if !found {
		return QueryResult{}, ErrNotFound
	}

	stats, err := idx.Statistics(true)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek1: statistics", err)
	}

	return fetchAfterSeek(paths.HashFile, paths.blockSize(), offset, stats)
}

// Seek2 looks up title in the secondary index, then fetches the entry
// from the record file.
func Seek2(paths Paths, title string) (QueryResult, error) {
	idx, err := index.NewTitleIndexWithBlockSize(paths.blockSize())
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek2: new title index", err)
	}
	if err := idx.Load(paths.TitleTree); err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek2: load title index", err)
	}
	defer idx.Close()

	offset, found, err := idx.Seek(title)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek2: seek", err)
	}
	if !found {
		return QueryResult{}, ErrNotFound
	}

	stats, err := idx.Statistics(true)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest seek2: statistics", err)
	}

	return fetchAfterSeek(paths.HashFile, paths.blockSize(), offset, stats)
}

func fetchAfterSeek(hashFilePath string, blockSize int, offset int64, stats btree.Stats) (QueryResult, error) {
	reader, err := record.OpenSized(hashFilePath, blockSize)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest: open hashfile", err)
	}
	defer reader.Close()

	e, err := reader.ReadAt(offset)
	if err != nil {
		return QueryResult{}, bibierr.Wrap("ingest: read entry", err)
	}
	if !e.Valid {
		return QueryResult{}, ErrNotFound
	}

	return QueryResult{
		Entry:      e,
		BlocksRead: stats.BlocksRead + 1, // +1 for the entry block itself
		BlockCount: int32(stats.BlocksInDisk),
	}, nil
}
