package core

// streaming.go provides the reader every input file passes through before
// CSV parsing.
//
// Device exports come off SD cards written by the scale and are often
// edited on Windows machines, so two problems are common:
//
//   - A UTF-8 BOM (0xEF 0xBB 0xBF) at the start of the file
//   - Bytes that are not valid UTF-8 (Latin-1 accents, truncated writes)
//
// Neither is fatal. The BOM is skipped and invalid bytes are dropped, so
// "Grasa,18" survives even when a stray byte sits next to it.

import (
	"bufio"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SanitizingReader strips a leading BOM and drops invalid UTF-8 bytes.
type SanitizingReader struct {
	r          *bufio.Reader
	bomChecked bool
	pending    []byte // Encoded rune that did not fit in the caller's buffer

	// Dropped counts invalid bytes removed so far.
	Dropped int
}

// NewSanitizingReader wraps r.
func NewSanitizingReader(r io.Reader) *SanitizingReader {
	return &SanitizingReader{
		r:       bufio.NewReader(r),
		pending: make([]byte, 0, utf8.UTFMax),
	}
}

// Read implements io.Reader.
func (s *SanitizingReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if !s.bomChecked {
		s.bomChecked = true
		if head, err := s.r.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
			s.r.Discard(len(utf8BOM))
		}
	}

	n := 0
	for n < len(p) {
		if len(s.pending) > 0 {
			c := copy(p[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}

		// Return what we have rather than block on the underlying reader.
		if n > 0 && s.r.Buffered() == 0 {
			break
		}

		r, size, err := s.r.ReadRune()
		if err != nil {
			if n > 0 {
				return n, nil
			}
			return 0, err
		}

		if r == utf8.RuneError && size == 1 {
			s.Dropped++
			continue
		}

		if size <= len(p)-n {
			n += utf8.EncodeRune(p[n:], r)
		} else {
			s.pending = utf8.AppendRune(s.pending[:0], r)
		}
	}

	return n, nil
}
