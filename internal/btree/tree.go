package btree

import (
	"github.com/scigolib/bibindex/internal/bibierr"
	"github.com/scigolib/bibindex/internal/ioblock"
)

// Stats is a snapshot of a Tree's block-I/O counters.
type Stats struct {
	BlocksRead    int
	BlocksCreated int
	BlocksInDisk  uint32
}

// overflowResult is what a child insert hands back to its parent when the
// child split: the key promoted to the parent and the new right sibling's
// disk offset.
type overflowResult[K any] struct {
	middle    K
	rightNode int64
}

// Tree is a generic, disk-resident B-tree over key type K, searchable by a
// (possibly narrower) query type Q. See state.go for the lifecycle it
// enforces and codec.go for how the order M is derived from K's encoded
// size.
type Tree[K any, Q any] struct {
	codec     Codec[K]
	ord       Ordering[K, Q]
	m         int
	blockSize int

	file   *ioblock.File
	path   string
	state  treeState
	header fileHeader
	root   node[K]
	stats  Stats
}

// New constructs a Tree for the given key codec and ordering, sized for
// blocks of ioblock.Size bytes (the package default). See NewWithBlockSize
// to configure a non-default block size.
func New[K any, Q any](codec Codec[K], ord Ordering[K, Q]) (*Tree[K, Q], error) {
	return NewWithBlockSize[K, Q](codec, ord, ioblock.Size)
}

// NewWithBlockSize constructs a Tree for the given key codec, ordering,
// and block size. The order M is computed immediately; a block size too
// small to hold even one key (e.g. a misconfigured --block-size) is a
// runtime condition reported to the caller rather than a panic, since the
// block size now comes from configuration, not a fixed compile-time key
// shape.
func NewWithBlockSize[K any, Q any](codec Codec[K], ord Ordering[K, Q], blockSize int) (*Tree[K, Q], error) {
	m, err := ComputeOrder(codec.Size(), blockSize)
	if err != nil {
		return nil, bibierr.Wrap("btree new", err)
	}
	return &Tree[K, Q]{
		codec:     codec,
		ord:       ord,
		m:         m,
		blockSize: blockSize,
		state:     stateFresh,
	}, nil
}

// Order returns the tree's B-tree order M.
func (t *Tree[K, Q]) Order() int {
	return t.m
}

func (t *Tree[K, Q]) closeCurrent() {
	if t.file != nil {
		_ = t.file.Close()
		t.file = nil
	}
	t.state = stateFresh
}

// Create overwrites any file at path, initializing an empty leaf root and
// a fresh header. Statistics are reset to zero.
func (t *Tree[K, Q]) Create(path string) error {
	t.closeCurrent()

	bf, err := ioblock.CreateSized(path, t.blockSize)
	if err != nil {
		return err
	}
	t.file = bf
	t.path = path
	t.ResetStatistics()

	if err := t.writeHeader(fileHeader{}); err != nil {
		t.closeCurrent()
		return err
	}
	t.stats.BlocksCreated++

	root := newNode[K](t.m, true)
	if err := t.writeNode(&root); err != nil {
		t.closeCurrent()
		return err
	}
	t.root = root

	t.header = fileHeader{rootAddress: root.offset, blockCount: uint32(t.stats.BlocksCreated)}
	if err := t.writeHeader(t.header); err != nil {
		t.closeCurrent()
		return err
	}

	t.state = stateWritable
	return nil
}

// Load opens path read-only, reading the header and caching the root.
func (t *Tree[K, Q]) Load(path string) error {
	t.closeCurrent()

	bf, err := ioblock.OpenSized(path, t.blockSize)
	if err != nil {
		return err
	}
	t.file = bf
	t.path = path
	t.ResetStatistics()

	h, err := t.readHeaderCounted()
	if err != nil {
		t.closeCurrent()
		return err
	}
	t.header = h

	root, err := t.readNode(h.rootAddress)
	if err != nil {
		t.closeCurrent()
		return err
	}
	t.root = root

	t.state = stateReadable
	return nil
}

// Insert adds k to the tree, permitted only after Create. A second insert
// of an equal key is undefined at this layer — callers are assumed to
// supply unique keys.
func (t *Tree[K, Q]) Insert(k K) error {
	if t.state != stateWritable {
		return bibierr.Wrap("btree insert", ErrInvalidState)
	}

	overflow, err := t.insertInto(&t.root, k, unwritten)
	if err != nil {
		return err
	}

	if overflow != nil {
		newRoot := newNode[K](t.m, false)
		newRoot.size = 1
		newRoot.keys[0] = overflow.middle
		newRoot.children[0] = t.root.offset
		newRoot.children[1] = overflow.rightNode

		if err := t.writeNode(&newRoot); err != nil {
			return err
		}

		t.header = fileHeader{rootAddress: newRoot.offset, blockCount: uint32(t.stats.BlocksCreated)}
		if err := t.writeHeader(t.header); err != nil {
			return err
		}

		t.root = newRoot
	}

	return nil
}

// insertInto implements the descend/absorb recursion from the design: if
// rightOffset is unwritten and n is internal, it descends into the proper
// child; otherwise it absorbs k (and, for an internal node, rightOffset)
// directly into n, splitting n if that overflows it.
func (t *Tree[K, Q]) insertInto(n *node[K], k K, rightOffset int64) (*overflowResult[K], error) {
	i := t.lowerBound(n, k)

	if !n.isLeaf && rightOffset == unwritten {
		child, err := t.readNode(n.children[i])
		if err != nil {
			return nil, err
		}

		childOverflow, err := t.insertInto(&child, k, unwritten)
		if err != nil {
			return nil, err
		}
		if childOverflow == nil {
			return nil, nil
		}

		return t.insertInto(n, childOverflow.middle, childOverflow.rightNode)
	}

	for j := n.size; j > i; j-- {
		n.keys[j] = n.keys[j-1]
	}
	n.keys[i] = k

	if !n.isLeaf {
		for j := n.size + 1; j > i+1; j-- {
			n.children[j] = n.children[j-1]
		}
		n.children[i+1] = rightOffset
	}
	n.size++

	if n.size == 2*t.m+1 {
		right := newNode[K](t.m, n.isLeaf)
		right.size = t.m
		for j := 0; j < t.m; j++ {
			right.keys[j] = n.keys[t.m+1+j]
		}
		if !n.isLeaf {
			for j := 0; j <= t.m; j++ {
				right.children[j] = n.children[t.m+1+j]
			}
		}

		middle := n.keys[t.m]
		n.size = t.m

		if err := t.writeNode(&right); err != nil {
			return nil, err
		}
		if err := t.writeNode(n); err != nil {
			return nil, err
		}

		return &overflowResult[K]{middle: middle, rightNode: right.offset}, nil
	}

	if err := t.writeNode(n); err != nil {
		return nil, err
	}
	return nil, nil
}

// lowerBound returns the position i such that keys[0:i) are all < k and,
// if i < size, keys[i] >= k.
func (t *Tree[K, Q]) lowerBound(n *node[K], k K) int {
	i := 0
	for i < n.size && t.ord.Less(n.keys[i], k) {
		i++
	}
	return i
}

// Seek returns the first key k' in the tree such that neither k' < q nor
// q < k', or (zero, false) if no such key exists. Valid in writable,
// readable, and finalized states.
func (t *Tree[K, Q]) Seek(q Q) (K, bool, error) {
	if t.state == stateFresh {
		var zero K
		return zero, false, bibierr.Wrap("btree seek", ErrInvalidState)
	}
	return t.seekNode(t.root, q)
}

func (t *Tree[K, Q]) seekNode(n node[K], q Q) (K, bool, error) {
	i := 0
	for i < n.size && t.ord.KeyLessQuery(n.keys[i], q) {
		i++
	}

	if i < n.size && !t.ord.QueryLessKey(q, n.keys[i]) {
		return n.keys[i], true, nil
	}

	if n.isLeaf {
		var zero K
		return zero, false, nil
	}

	child, err := t.readNode(n.children[i])
	if err != nil {
		var zero K
		return zero, false, err
	}
	return t.seekNode(child, q)
}

// FinishInsertions writes the current in-memory blocks-created count into
// the file header. Must be called exactly once, after the last Insert,
// before switching to reader mode or exiting.
func (t *Tree[K, Q]) FinishInsertions() error {
	if t.state != stateWritable {
		return bibierr.Wrap("btree finish insertions", ErrInvalidState)
	}

	t.header.blockCount = uint32(t.stats.BlocksCreated)
	if err := t.writeHeader(t.header); err != nil {
		return err
	}
	if err := t.file.Sync(); err != nil {
		return err
	}

	t.state = stateFinalized
	return nil
}

// Statistics returns a snapshot of the block-I/O counters. When
// includeFileBlockCount is true, blocksInDisk is refreshed by reading the
// header — itself counted as a block read, observable on the next call.
func (t *Tree[K, Q]) Statistics(includeFileBlockCount bool) (Stats, error) {
	snapshot := t.stats
	if includeFileBlockCount {
		h, err := t.readHeaderCounted()
		if err != nil {
			return Stats{}, err
		}
		t.stats.BlocksInDisk = h.blockCount
		snapshot.BlocksInDisk = h.blockCount
	}
	return snapshot, nil
}

// ResetStatistics zeros all three counters.
func (t *Tree[K, Q]) ResetStatistics() {
	t.stats = Stats{}
}

// Close releases the tree's file handle. Safe to call multiple times.
func (t *Tree[K, Q]) Close() error {
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	t.state = stateFresh
	return err
}

func (t *Tree[K, Q]) writeNode(n *node[K]) error {
	if n.offset == unwritten {
		// Assign the offset before encoding, so the block records its own
		// position and a later read of it can be rewritten in place.
		n.offset = t.file.EndOfFile()
		if _, err := t.file.AppendBlock(n.encode(t.codec, t.m)); err != nil {
			n.offset = unwritten
			return err
		}
		t.stats.BlocksCreated++
		return nil
	}
	return t.file.WriteBlockAt(n.offset, n.encode(t.codec, t.m))
}

func (t *Tree[K, Q]) readNode(offset int64) (node[K], error) {
	buf, err := t.file.ReadBlock(offset)
	if err != nil {
		return node[K]{}, err
	}
	defer ioblock.ReleaseBuffer(buf)

	n := decodeNode[K](buf, t.codec, t.m)
	t.stats.BlocksRead++
	return n, nil
}

func (t *Tree[K, Q]) writeHeader(h fileHeader) error {
	payload := h.encode()
	return t.file.WriteBlockAt(0, payload)
}

func (t *Tree[K, Q]) readHeaderCounted() (fileHeader, error) {
	buf, err := t.file.ReadBlock(0)
	if err != nil {
		return fileHeader{}, err
	}
	defer ioblock.ReleaseBuffer(buf)

	t.stats.BlocksRead++
	return decodeFileHeader(buf), nil
}
