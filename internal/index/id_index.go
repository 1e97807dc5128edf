package index

import (
	"github.com/scigolib/bibindex/internal/bibierr"
	"github.com/scigolib/bibindex/internal/btree"
	"github.com/scigolib/bibindex/internal/ioblock"
)

func idOrdering() btree.Ordering[IDKey, int32] {
	return btree.Ordering[IDKey, int32]{
		Less:         func(a, b IDKey) bool { return a.ID < b.ID },
		KeyLessQuery: func(k IDKey, q int32) bool { return k.ID < q },
		QueryLessKey: func(q int32, k IDKey) bool { return q < k.ID },
	}
}

// IDIndex is the primary index over article identifiers.
type IDIndex struct {
	tree *btree.Tree[IDKey, int32]
}

// NewIDIndex constructs an unattached IDIndex at the default ioblock.Size
// block size; call Create or Load before use. See NewIDIndexWithBlockSize
// for a non-default block size.
func NewIDIndex() (*IDIndex, error) {
	return NewIDIndexWithBlockSize(ioblock.Size)
}

// NewIDIndexWithBlockSize is NewIDIndex with an explicit block size.
func NewIDIndexWithBlockSize(blockSize int) (*IDIndex, error) {
	tree, err := btree.NewWithBlockSize[IDKey, int32](idCodec{}, idOrdering(), blockSize)
	if err != nil {
		return nil, bibierr.Wrap("new id index", err)
	}
	return &IDIndex{tree: tree}, nil
}

func (x *IDIndex) Create(path string) error { return x.tree.Create(path) }
func (x *IDIndex) Load(path string) error    { return x.tree.Load(path) }
func (x *IDIndex) Close() error              { return x.tree.Close() }

// Insert records that id lives at offset in the record file.
func (x *IDIndex) Insert(id int32, offset int64) error {
	return x.tree.Insert(IDKey{ID: id, Offset: offset})
}

// Seek returns the record-file offset for id, if present.
func (x *IDIndex) Seek(id int32) (offset int64, ok bool, err error) {
	k, found, err := x.tree.Seek(id)
	if err != nil || !found {
		return 0, false, err
	}
	return k.Offset, true, nil
}

// FinishInsertions finalizes the tree after the last Insert.
func (x *IDIndex) FinishInsertions() error { return x.tree.FinishInsertions() }

// Statistics returns the underlying tree's block-I/O counters.
func (x *IDIndex) Statistics(includeFileBlockCount bool) (btree.Stats, error) {
	return x.tree.Statistics(includeFileBlockCount)
}
