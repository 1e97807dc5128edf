// Package ingest implements the CSV-driven upload pipeline and the
// query orchestration (findrec/seek1/seek2) that sits on top of
// internal/record and internal/index.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/scigolib/bibindex/internal/record"
)

// Scanner reads bibliographic entries from a semicolon-separated CSV
// stream, one field at a time, following the quoting rules of the
// original upload tool: a field is either double-quoted text, the bare
// literal NULL, or empty (two consecutive delimiters). Text fields are
// truncated to their destination buffer's capacity.
type Scanner struct {
	r   *bufio.Reader
	err error
}

// NewScanner wraps r for entry-by-entry reading.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReader(r)}
}

// Next reads one entry. It returns ok=false, err=nil at a clean
// end-of-file (no partial entry pending), or a non-nil err if the
// stream ended mid-entry or a numeric field failed to parse.
func (s *Scanner) Next() (e record.Entry, ok bool, err error) {
	if s.err != nil {
		return record.Entry{}, false, s.err
	}

	id, err := s.readIntField()
	if err == io.EOF {
		return record.Entry{}, false, nil
	}
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.ID = id
	e.Valid = true

	title, err := s.readStringField(300)
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.SetTitle(title)

	year, err := s.readIntField()
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.Year = year

	authors, err := s.readStringField(1024)
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.SetAuthors(authors)

	citations, err := s.readIntField()
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.Citations = citations

	timestamp, err := s.readStringField(20)
	if err != nil {
		s.err = err
		return record.Entry{}, false, err
	}
	e.SetUpdateTimestamp(timestamp)

	snippet, err := s.readStringField(1024)
	if err != nil && err != io.EOF {
		s.err = err
		return record.Entry{}, false, err
	}
	e.SetSnippet(snippet)

	// A row may close its snippet with a trailing ';'; consume the line
	// ending that follows it so the next row starts at its id field.
	s.skipLineEndingOrDelimiter()

	return e, true, nil
}

// readIntField reads a `"123";` quoted integer field.
func (s *Scanner) readIntField() (int32, error) {
	if err := s.expectByte('"'); err != nil {
		return 0, err
	}

	var digits []byte
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == '"' {
			break
		}
		digits = append(digits, b)
	}

	if err := s.expectByte(';'); err != nil {
		return 0, err
	}

	n, err := strconv.ParseInt(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("ingest: invalid integer field %q: %w", digits, err)
	}
	return int32(n), nil
}

// readStringField reads one semicolon-delimited, possibly quoted field,
// following the original tool's grammar: empty (bare `;`), bare `NULL`,
// or a double-quoted, possibly multi-line string terminated by a quote
// immediately followed by `;`, `\n`, `\r\n`, or EOF.
func (s *Scanner) readStringField(maxLen int) (string, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return "", err
	}

	switch b {
	case ';':
		return "", nil
	case '\n':
		return "", nil
	case '\r':
		_, _ = s.r.ReadByte() // '\n'
		return "", nil
	case 'N':
		for i := 0; i < 3; i++ {
			if _, err := s.r.ReadByte(); err != nil {
				return "", err
			}
		}
		s.skipLineEndingOrDelimiter()
		return "", nil
	case '"':
		return s.readQuotedField(maxLen)
	default:
		return "", fmt.Errorf("ingest: unexpected field start byte %q", b)
	}
}

// readQuotedField mirrors the original parser's two-character lookback:
// each byte is appended optimistically, and a run of "closing quote
// immediately followed by a delimiter" drops that trailing quote before
// returning. This is what lets an embedded, unescaped quote that isn't
// immediately followed by a delimiter stay part of the field.
func (s *Scanner) readQuotedField(maxLen int) (string, error) {
	var raw []byte
	prev := byte('"')

	for {
		cur, err := s.r.ReadByte()
		if err != nil {
			if err == io.EOF && prev == '"' {
				break
			}
			return "", err
		}

		if prev == '"' {
			switch cur {
			case '\r':
				_, _ = s.r.ReadByte() // '\n'
				return truncateField(raw, maxLen), nil
			case ';', '\n':
				return truncateField(raw, maxLen), nil
			}
		}

		raw = append(raw, cur)
		prev = cur
	}

	return truncateField(raw, maxLen), nil // EOF right after the closing quote
}

// truncateField strips the tentatively-appended closing quote and caps
// the field at maxLen-1 bytes, leaving room for the NUL terminator the
// destination fixed buffer adds.
func truncateField(raw []byte, maxLen int) string {
	raw = raw[:len(raw)-1]
	if len(raw) > maxLen-1 {
		raw = raw[:maxLen-1]
	}
	return string(raw)
}

func (s *Scanner) skipLineEndingOrDelimiter() {
	b, err := s.r.ReadByte()
	if err != nil {
		return
	}
	if b == '\r' {
		_, _ = s.r.ReadByte() // '\n'
		return
	}
	if b != ';' && b != '\n' {
		_ = s.r.UnreadByte()
	}
}

func (s *Scanner) expectByte(want byte) error {
	got, err := s.r.ReadByte()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("ingest: expected %q, got %q", want, got)
	}
	return nil
}
