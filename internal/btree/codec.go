// Package btree implements the generic, disk-resident B-tree engine that
// backs both the primary (id) and secondary (title) indexes. A Tree is
// parameterized over a key type K, serialized through a Codec, and over a
// query type Q used for asymmetric seeks: the same key shape can be
// searched for by only its searchable component (e.g. seeking an IdKey by
// a bare id), without the offset payload participating in the ordering.
package btree

import "fmt"

// Codec serializes and deserializes a fixed-size key shape K. Size must be
// constant for a given K — it determines the tree's order (see
// ComputeOrder) and every key slot in every node is exactly Size bytes.
type Codec[K any] interface {
	// Size returns the fixed encoded length of a key, in bytes.
	Size() int
	// Encode writes the key into buf, which is exactly Size() bytes long.
	Encode(buf []byte, k K)
	// Decode reads a key back out of buf, which is exactly Size() bytes long.
	Decode(buf []byte) K
}

// Ordering supplies the comparisons the engine needs: a total order on K
// (for insertion) and an asymmetric order between K and a query type Q
// (for seeking by a partial/searchable component). Go has no operator
// overloading, so this is passed as a value instead of implemented as
// methods on K — equivalent to the two comparator-function approach noted
// for index lookups.
type Ordering[K any, Q any] struct {
	// Less reports whether a sorts strictly before b.
	Less func(a, b K) bool
	// KeyLessQuery reports whether k sorts strictly before q.
	KeyLessQuery func(k K, q Q) bool
	// QueryLessKey reports whether q sorts strictly before k.
	QueryLessKey func(q Q, k K) bool
}

// nodeHeaderSize is sizeof(offset int64) + sizeof(isLeaf bool, stored as
// one byte) + sizeof(size int64), matching the node block's field order.
const nodeHeaderSize = 8 + 1 + 8

// nodeSize returns the serialized size in bytes of a node of order m
// holding keys of the given encoded size.
func nodeSize(m, keySize int) int {
	return nodeHeaderSize + (2*m+1)*keySize + (2*m+2)*8
}

// ComputeOrder picks the largest order M >= 1 such that a node storing
// keys of keySize bytes fits within blockSize bytes, per the formula:
//
//	nodeSize = sizeof(offset) + sizeof(is_leaf) + sizeof(size)
//	         + (2M+1)*keySize + (2M+2)*sizeof(child offset)
//
// It returns an error if even M=1 does not fit — the Go equivalent of the
// design's "fail to compile if no such M exists".
func ComputeOrder(keySize, blockSize int) (int, error) {
	if nodeSize(1, keySize) > blockSize {
		return 0, fmt.Errorf("btree: no order fits key size %d bytes in block size %d bytes", keySize, blockSize)
	}

	best := 1
	for m := 2; nodeSize(m, keySize) <= blockSize; m++ {
		best = m
	}
	return best, nil
}

