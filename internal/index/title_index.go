package index

import (
	"github.com/scigolib/bibindex/internal/bibierr"
	"github.com/scigolib/bibindex/internal/btree"
	"github.com/scigolib/bibindex/internal/ioblock"
)

func titleOrdering() btree.Ordering[TitleKey, string] {
	return btree.Ordering[TitleKey, string]{
		Less:         func(a, b TitleKey) bool { return cStringLess(a.Title, b.Title) },
		KeyLessQuery: func(k TitleKey, q string) bool { return cStringOf(k.Title) < q },
		QueryLessKey: func(q string, k TitleKey) bool { return q < cStringOf(k.Title) },
	}
}

// TitleIndex is the secondary index over article titles.
type TitleIndex struct {
	tree *btree.Tree[TitleKey, string]
}

// NewTitleIndex constructs an unattached TitleIndex at the default
// ioblock.Size block size; call Create or Load before use. See
// NewTitleIndexWithBlockSize for a non-default block size.
func NewTitleIndex() (*TitleIndex, error) {
	return NewTitleIndexWithBlockSize(ioblock.Size)
}

// NewTitleIndexWithBlockSize is NewTitleIndex with an explicit block size.
func NewTitleIndexWithBlockSize(blockSize int) (*TitleIndex, error) {
	tree, err := btree.NewWithBlockSize[TitleKey, string](titleCodec{}, titleOrdering(), blockSize)
	if err != nil {
		return nil, bibierr.Wrap("new title index", err)
	}
	return &TitleIndex{tree: tree}, nil
}

func (x *TitleIndex) Create(path string) error { return x.tree.Create(path) }
func (x *TitleIndex) Load(path string) error    { return x.tree.Load(path) }
func (x *TitleIndex) Close() error              { return x.tree.Close() }

// Insert records that title lives at offset in the record file.
//
// Duplicate titles are inserted as distinct tree keys; which one a later
// Seek finds first is an unspecified choice among equal-title entries,
// driven by insertion order.
func (x *TitleIndex) Insert(title string, offset int64) error {
	return x.tree.Insert(NewTitleKey(title, offset))
}

// Seek returns the record-file offset for the first entry whose title
// equals title, if any.
func (x *TitleIndex) Seek(title string) (offset int64, ok bool, err error) {
	n := len(title)
	if n > titleKeySize-1 {
		n = titleKeySize - 1
	}
	k, found, err := x.tree.Seek(title[:n])
	if err != nil || !found {
		return 0, false, err
	}
	return k.Offset, true, nil
}

// FinishInsertions finalizes the tree after the last Insert.
func (x *TitleIndex) FinishInsertions() error { return x.tree.FinishInsertions() }

// Statistics returns the underlying tree's block-I/O counters.
func (x *TitleIndex) Statistics(includeFileBlockCount bool) (btree.Stats, error) {
	return x.tree.Statistics(includeFileBlockCount)
}
