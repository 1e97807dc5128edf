package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanner_ParsesTypicalRow(t *testing.T) {
	csv := `"0";"Attention Is All You Need";"2017";"Vaswani, A.";"50000";"2020-01-01";"We propose a new architecture.";` + "\n"
	s := NewScanner(strings.NewReader(csv))

	e, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(0), e.ID)
	require.Equal(t, "Attention Is All You Need", e.TitleString())
	require.Equal(t, int32(2017), e.Year)
	require.Equal(t, "Vaswani, A.", e.AuthorsString())
	require.Equal(t, int32(50000), e.Citations)
	require.Equal(t, "We propose a new architecture.", e.SnippetString())

	_, ok, err = s.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScanner_NULLAndEmptyFields(t *testing.T) {
	csv := `"1";NULL;"2019";;"7";NULL;;` + "\n"
	s := NewScanner(strings.NewReader(csv))

	e, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(1), e.ID)
	require.Equal(t, "", e.TitleString())
	require.Equal(t, "", e.AuthorsString())
	require.Equal(t, "", e.SnippetString())
}

func TestScanner_CRLFLineEndings(t *testing.T) {
	csv := "\"2\";\"Title\";\"2021\";\"Author\";\"1\";\"2021-01-01\";\"Snippet\";\r\n"
	s := NewScanner(strings.NewReader(csv))

	e, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int32(2), e.ID)
	require.Equal(t, "Title", e.TitleString())
	require.Equal(t, "Snippet", e.SnippetString())
}

func TestScanner_MultipleRows(t *testing.T) {
	csv := `"0";"First";"2000";"A";"1";"2000-01-01";"S1";` + "\n" +
		`"1";"Second";"2001";"B";"2";"2001-01-01";"S2";` + "\n"
	s := NewScanner(strings.NewReader(csv))

	first, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "First", first.TitleString())

	second, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Second", second.TitleString())

	_, ok, err = s.Next()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestScanner_TitleTruncatedAtMaximum(t *testing.T) {
	longTitle := strings.Repeat("x", 400)
	csv := `"0";"` + longTitle + `";"2000";"A";"1";"2000-01-01";"S";` + "\n"
	s := NewScanner(strings.NewReader(csv))

	e, ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, e.TitleString(), 299)
}
