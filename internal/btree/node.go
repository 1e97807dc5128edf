package btree

import "encoding/binary"

// unwritten is the sentinel offset of a node that has not yet been placed
// on disk — assigned its real offset the first time it is written.
const unwritten int64 = -1

// node is the in-memory, value-typed representation of one B-tree node of
// order m. keys has capacity 2m+1 and children has capacity 2m+2 so a node
// can hold the transient overflow state during an absorb before it splits.
type node[K any] struct {
	offset   int64
	isLeaf   bool
	size     int
	keys     []K
	children []int64
}

func newNode[K any](m int, isLeaf bool) node[K] {
	return node[K]{
		offset:   unwritten,
		isLeaf:   isLeaf,
		size:     0,
		keys:     make([]K, 2*m+1),
		children: make([]int64, 2*m+2),
	}
}

// encode serializes the node's header, keys[0:size] and, for a non-leaf,
// children[0:size+1], into a payload buffer sized for order m and the
// given codec. Unused key/child slots are left zeroed; the design treats
// them as undefined outside [0:size)/[0:size+1).
func (n node[K]) encode(codec Codec[K], m int) []byte {
	keySize := codec.Size()
	buf := make([]byte, nodeSize(m, keySize))

	binary.LittleEndian.PutUint64(buf[0:8], uint64(n.offset))
	if n.isLeaf {
		buf[8] = 1
	}
	binary.LittleEndian.PutUint64(buf[9:17], uint64(n.size))

	keysOff := nodeHeaderSize
	for i := 0; i < n.size && i < len(n.keys); i++ {
		codec.Encode(buf[keysOff+i*keySize:keysOff+(i+1)*keySize], n.keys[i])
	}

	childrenOff := keysOff + (2*m+1)*keySize
	if !n.isLeaf {
		childCount := n.size + 1
		for i := 0; i < childCount && i < len(n.children); i++ {
			binary.LittleEndian.PutUint64(buf[childrenOff+i*8:childrenOff+(i+1)*8], uint64(n.children[i]))
		}
	}

	return buf
}

// decodeNode parses a node of order m out of buf (at least nodeSize(m,
// codec.Size()) bytes, as produced by ioblock.File.ReadBlock).
func decodeNode[K any](buf []byte, codec Codec[K], m int) node[K] {
	keySize := codec.Size()

	n := node[K]{
		offset:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		isLeaf:   buf[8] != 0,
		size:     int(binary.LittleEndian.Uint64(buf[9:17])),
		keys:     make([]K, 2*m+1),
		children: make([]int64, 2*m+2),
	}

	keysOff := nodeHeaderSize
	for i := 0; i < n.size; i++ {
		n.keys[i] = codec.Decode(buf[keysOff+i*keySize : keysOff+(i+1)*keySize])
	}

	childrenOff := keysOff + (2*m+1)*keySize
	if !n.isLeaf {
		for i := 0; i <= n.size; i++ {
			n.children[i] = int64(binary.LittleEndian.Uint64(buf[childrenOff+i*8 : childrenOff+(i+1)*8]))
		}
	}

	return n
}
