package record

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/bibindex/internal/ioblock"
)

func makeEntry(id int32, title string) Entry {
	e := Entry{Valid: true, ID: id, Year: 2020, Citations: 3}
	e.SetTitle(title)
	e.SetAuthors("Doe, J.")
	e.SetUpdateTimestamp("2020-01-01")
	e.SetSnippet("an abstract")
	return e
}

func TestWriter_AppendAndOffsetLaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.bin")
	w, err := Create(path)
	require.NoError(t, err)

	off, err := w.Append(makeEntry(0, "Zero"))
	require.NoError(t, err)
	require.Equal(t, OffsetForID(0, ioblock.Size), off)

	off, err = w.Append(makeEntry(3, "Three"))
	require.NoError(t, err)
	require.Equal(t, OffsetForID(3, ioblock.Size), off)

	require.NoError(t, w.Finish())
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadAt(OffsetForID(0, ioblock.Size))
	require.NoError(t, err)
	require.True(t, got.Valid)
	require.Equal(t, "Zero", got.TitleString())

	want := makeEntry(0, "Zero")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry round-trip mismatch (-want +got):\n%s", diff)
	}

	// Phantom gap for ids 1 and 2.
	for _, id := range []int32{1, 2} {
		got, err := r.ReadAt(OffsetForID(id, ioblock.Size))
		require.NoError(t, err)
		require.False(t, got.Valid)
	}

	got, err = r.ReadAt(OffsetForID(3, ioblock.Size))
	require.NoError(t, err)
	require.True(t, got.Valid)
	require.Equal(t, "Three", got.TitleString())

	count, err := r.BlockCount()
	require.NoError(t, err)
	require.Equal(t, int32(5), count) // header + ids 0,1,2,3
}

func TestWriter_RejectsNonMonotonicID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	w, err := Create(path)
	require.NoError(t, err)
	defer w.Close()

	_, err = w.Append(makeEntry(5, "Five"))
	require.NoError(t, err)

	_, err = w.Append(makeEntry(5, "Dup"))
	require.ErrorIs(t, err, ErrNonMonotonicID)

	_, err = w.Append(makeEntry(3, "Out of order"))
	require.ErrorIs(t, err, ErrNonMonotonicID)
}

func TestEntry_StringTruncationAndNULTermination(t *testing.T) {
	e := Entry{}
	e.SetTitle("short")
	require.Equal(t, "short", e.TitleString())

	long := make([]byte, titleSize+50)
	for i := range long {
		long[i] = 'x'
	}
	e.SetTitle(string(long))
	require.Len(t, e.TitleString(), titleSize-1)
}

func TestWriter_SingleEntryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "single.bin")
	w, err := Create(path)
	require.NoError(t, err)

	_, err = w.Append(makeEntry(0, "Only"))
	require.NoError(t, err)
	require.NoError(t, w.Finish())
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.ReadAt(OffsetForID(0, ioblock.Size))
	require.NoError(t, err)
	require.True(t, got.Valid)
}
