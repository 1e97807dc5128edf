package ioblock

import "sync"

// bufferPool recycles scratch buffers used for every block read and
// write, avoiding an allocation per block on hot ingestion and seek
// paths. Sized on demand, the same way the teacher's own buffer pool
// grows a pooled slice to whatever capacity a caller needs instead of
// assuming one fixed size.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return make([]byte, 0, Size)
	},
}

// GetBuffer returns a zeroed, size-byte buffer from the pool.
func GetBuffer(size int) []byte {
	buf := bufferPool.Get().([]byte)
	if cap(buf) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// ReleaseBuffer returns a buffer obtained from GetBuffer to the pool.
func ReleaseBuffer(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	bufferPool.Put(buf[:0])
}
