package btree

import "encoding/binary"

// fileHeader is the tree file's block 0: the current root's byte offset
// and the total number of blocks allocated so far (header counted as 1).
type fileHeader struct {
	rootAddress int64
	blockCount  uint32
}

const fileHeaderPayloadSize = 8 + 4

func (h fileHeader) encode() []byte {
	buf := make([]byte, fileHeaderPayloadSize)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(h.rootAddress))
	binary.LittleEndian.PutUint32(buf[8:12], h.blockCount)
	return buf
}

func decodeFileHeader(buf []byte) fileHeader {
	return fileHeader{
		rootAddress: int64(binary.LittleEndian.Uint64(buf[0:8])),
		blockCount:  binary.LittleEndian.Uint32(buf[8:12]),
	}
}
