package ioblock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateAppendRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.bin")

	bf, err := Create(path)
	require.NoError(t, err)

	payload1 := []byte("first block payload")
	off1, err := bf.AppendBlock(payload1)
	require.NoError(t, err)
	require.Equal(t, int64(0), off1)

	payload2 := []byte("second block payload")
	off2, err := bf.AppendBlock(payload2)
	require.NoError(t, err)
	require.Equal(t, int64(Size), off2)

	require.Equal(t, int64(2*Size), bf.EndOfFile())
	require.NoError(t, bf.Sync())
	require.NoError(t, bf.Close())

	rf, err := Open(path)
	require.NoError(t, err)
	defer rf.Close()

	buf, err := rf.ReadBlock(off1)
	require.NoError(t, err)
	defer ReleaseBuffer(buf)
	require.Equal(t, payload1, buf[:len(payload1)])
	require.Equal(t, byte(0), buf[len(payload1)], "padding must be zeroed")

	buf2, err := rf.ReadBlock(off2)
	require.NoError(t, err)
	defer ReleaseBuffer(buf2)
	require.Equal(t, payload2, buf2[:len(payload2)])
}

func TestWriteBlockAt_RejectsOversizedPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.bin")
	bf, err := Create(path)
	require.NoError(t, err)
	defer bf.Close()

	err = bf.WriteBlockAt(0, make([]byte, Size+1))
	require.Error(t, err)
}

func TestWriteBlockAt_RejectsReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.bin")
	bf, err := Create(path)
	require.NoError(t, err)
	_, err = bf.AppendBlock([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, bf.Close())

	rf, err := Open(path)
	require.NoError(t, err)
	defer rf.Close()

	err = rf.WriteBlockAt(0, []byte("y"))
	require.Error(t, err)
}

func TestReadBlock_ShortReadIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.bin")
	bf, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, bf.Close())

	rf, err := Open(path)
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.ReadBlock(0)
	require.Error(t, err, "reading past an empty file must fail, not silently zero-fill")
}

func TestWriteBlockAt_OverwriteInPlaceDoesNotMoveEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.bin")
	bf, err := Create(path)
	require.NoError(t, err)
	defer bf.Close()

	_, err = bf.AppendBlock([]byte("first"))
	require.NoError(t, err)
	_, err = bf.AppendBlock([]byte("second"))
	require.NoError(t, err)

	eof := bf.EndOfFile()
	require.NoError(t, bf.WriteBlockAt(0, []byte("rewritten")))
	require.Equal(t, eof, bf.EndOfFile(), "in-place rewrite must not advance end-of-file")
}
