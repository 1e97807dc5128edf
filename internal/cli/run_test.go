package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSampleCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.csv")
	rows := []string{
		`"4";"Fourth Entry";"2004";"Author D";"4";"2004-01-01";"Snippet four";`,
		`"9";"Ninth Entry";"2009";"Author I";"9";"2009-01-01";"Snippet nine";`,
	}
	content := strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_UploadThenFindrec(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)

	var out, errOut bytes.Buffer
	code := Run(&out, &errOut, []string{"bibindex", "upload", csvPath}, dir)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Upload finished")

	out.Reset()
	errOut.Reset()
	code = Run(&out, &errOut, []string{"bibindex", "findrec", "9"}, dir)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Ninth Entry")
}

func TestRun_FindrecNotFoundStillExitsZero(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, Run(&out, &errOut, []string{"bibindex", "upload", csvPath}, dir))

	out.Reset()
	code := Run(&out, &errOut, []string{"bibindex", "findrec", "999"}, dir)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "not found")
}

func TestRun_UnknownCommandExitsNonZero(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := Run(&out, &errOut, []string{"bibindex", "bogus"}, dir)
	require.NotEqual(t, 0, code)
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := Run(&out, &errOut, []string{"bibindex"}, dir)
	require.NotEqual(t, 0, code)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_Seek1AndSeek2(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, Run(&out, &errOut, []string{"bibindex", "upload", csvPath}, dir))

	out.Reset()
	require.Equal(t, 0, Run(&out, &errOut, []string{"bibindex", "seek1", "4"}, dir))
	require.Contains(t, out.String(), "Fourth Entry")

	out.Reset()
	require.Equal(t, 0, Run(&out, &errOut, []string{"bibindex", "seek2", "Ninth Entry"}, dir))
	require.Contains(t, out.String(), "id        : 9")
}

func TestRun_DumpHexDumpsHashfile(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeSampleCSV(t, dir)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, Run(&out, &errOut, []string{"bibindex", "upload", csvPath}, dir))

	out.Reset()
	code := Run(&out, &errOut, []string{"bibindex", "dump", "--length", "32", filepath.Join(dir, "bd-hashfile.bin")}, dir)
	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Dumping")
}

func TestRun_DumpMissingArgExitsOne(t *testing.T) {
	dir := t.TempDir()
	var out, errOut bytes.Buffer
	code := Run(&out, &errOut, []string{"bibindex", "dump"}, dir)
	require.Equal(t, 1, code) // Exec returns a plain error, not a flag-parse error
}
