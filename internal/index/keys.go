// Package index wraps internal/btree with the two concrete key shapes
// the bibliographic store needs: an id-ordered primary index and a
// title-ordered secondary index. Neither exposes raw btree or codec
// types to its callers.
package index

import "encoding/binary"

const titleKeySize = 300

// IDKey is the primary index's key: ordered on ID, with Offset carried
// as payload only.
type IDKey struct {
	ID     int32
	Offset int64
}

type idCodec struct{}

func (idCodec) Size() int { return 4 + 8 }

func (idCodec) Encode(buf []byte, k IDKey) {
	binary.LittleEndian.PutUint32(buf[0:4], uint32(k.ID))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(k.Offset))
}

func (idCodec) Decode(buf []byte) IDKey {
	return IDKey{
		ID:     int32(binary.LittleEndian.Uint32(buf[0:4])),
		Offset: int64(binary.LittleEndian.Uint64(buf[4:12])),
	}
}

// TitleKey is the secondary index's key: ordered lexicographically
// (C-string order, up to the first NUL) on Title, with Offset carried as
// payload only.
type TitleKey struct {
	Title  [titleKeySize]byte
	Offset int64
}

type titleCodec struct{}

func (titleCodec) Size() int { return titleKeySize + 8 }

func (titleCodec) Encode(buf []byte, k TitleKey) {
	copy(buf[0:titleKeySize], k.Title[:])
	binary.LittleEndian.PutUint64(buf[titleKeySize:titleKeySize+8], uint64(k.Offset))
}

func (titleCodec) Decode(buf []byte) TitleKey {
	var k TitleKey
	copy(k.Title[:], buf[0:titleKeySize])
	k.Offset = int64(binary.LittleEndian.Uint64(buf[titleKeySize : titleKeySize+8]))
	return k
}

// cStringLess compares two fixed buffers as NUL-terminated C strings:
// bytes past the first NUL are not part of the comparison.
func cStringLess(a, b [titleKeySize]byte) bool {
	return cStringOf(a) < cStringOf(b)
}

func cStringOf(buf [titleKeySize]byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf[:])
}

// NewTitleKey builds a TitleKey from a title string and payload offset,
// truncating and NUL-terminating the title the same way record.Entry
// does.
func NewTitleKey(title string, offset int64) TitleKey {
	var k TitleKey
	n := len(title)
	if n > titleKeySize-1 {
		n = titleKeySize - 1
	}
	copy(k.Title[:], title[:n])
	k.Offset = offset
	return k
}
