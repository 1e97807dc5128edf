package ingest

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	dir := t.TempDir()
	return Paths{
		HashFile:  filepath.Join(dir, "bd-hashfile.bin"),
		IDTree:    filepath.Join(dir, "bd-idtree.bin"),
		TitleTree: filepath.Join(dir, "bd-titletree.bin"),
	}
}

func sampleCSV() string {
	rows := []string{
		`"4";"Fourth Entry";"2004";"Author D";"4";"2004-01-01";"Snippet four";`,
		`"9";"Ninth Entry";"2009";"Author I";"9";"2009-01-01";"Snippet nine";`,
		`"15";"Fifteenth Entry";"2015";"Author O";"15";"2015-01-01";"Snippet fifteen";`,
	}
	return strings.Join(rows, "\n") + "\n"
}

func TestUpload_BuildsHashfileAndIndexes(t *testing.T) {
	paths := testPaths(t)

	report, err := Upload(paths, strings.NewReader(sampleCSV()), nil)
	require.NoError(t, err)
	require.Equal(t, 3, report.EntriesRead)
	require.Greater(t, report.IDTreeStats.BlocksCreated, 0)
	require.Greater(t, report.TitleTreeStats.BlocksCreated, 0)
}

func TestFindRec_ComputesOffsetDirectly(t *testing.T) {
	paths := testPaths(t)
	_, err := Upload(paths, strings.NewReader(sampleCSV()), nil)
	require.NoError(t, err)

	result, err := FindRec(paths.HashFile, paths.BlockSize, 9)
	require.NoError(t, err)
	require.Equal(t, "Ninth Entry", result.Entry.TitleString())

	_, err = FindRec(paths.HashFile, paths.BlockSize, 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeek1_UsesPrimaryIndex(t *testing.T) {
	paths := testPaths(t)
	_, err := Upload(paths, strings.NewReader(sampleCSV()), nil)
	require.NoError(t, err)

	result, err := Seek1(paths, 9)
	require.NoError(t, err)
	require.Equal(t, "Ninth Entry", result.Entry.TitleString())
	require.Greater(t, result.BlocksRead, 0)

	_, err = Seek1(paths, 10)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSeek2_UsesSecondaryIndex(t *testing.T) {
	paths := testPaths(t)
	_, err := Upload(paths, strings.NewReader(sampleCSV()), nil)
	require.NoError(t, err)

	result, err := Seek2(paths, "Ninth Entry")
	require.NoError(t, err)
	require.Equal(t, int32(9), result.Entry.ID)

	_, err = Seek2(paths, "Does Not Exist")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpload_ProgressCallback(t *testing.T) {
	paths := testPaths(t)

	var rows []string
	for i := 0; i < ProgressStep+5; i++ {
		rows = append(rows, quickRow(int32(i)))
	}
	csv := strings.Join(rows, "\n") + "\n"

	var calls []int
	_, err := Upload(paths, strings.NewReader(csv), func(count int) {
		calls = append(calls, count)
	})
	require.NoError(t, err)
	require.Equal(t, []int{ProgressStep}, calls)
}

func quickRow(id int32) string {
	return `"` + strconv.Itoa(int(id)) + `";"T";"2000";"A";"1";"2000-01-01";"S";`
}
