package extract

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
)

// readChunk is the scanner buffer size. A line longer than this is delivered to
// Next in several fragments and reassembled there.
const readChunk = 64 * 1024

// LineScanner lazily yields the matches found in a stream, one line at a time.
// It is single use: once Next has returned io.EOF or an error it keeps doing so.
// A LineScanner never closes the reader it was given.
//
// Lines have no length limit unless WithMaxLineBytes is used.
type LineScanner struct {
	scanner *bufio.Scanner
	chunk   int
	maxLine int
	lineNum int
	err     error

	// line collects the fragments of the current line.
	line      []byte
	fragment  bool
	pending   bool
	truncated bool
}

// ScannerOption configures a LineScanner.
type ScannerOption func(*scannerConfig)

type scannerConfig struct {
	maxLineBytes int
}

// WithMaxLineBytes bounds the memory kept for a single line. A longer line is
// counted but never matches; scanning goes on with the next line. Zero or a
// negative value means no bound.
func WithMaxLineBytes(n int) ScannerOption {
	return func(c *scannerConfig) {
		c.maxLineBytes = n
	}
}

// NewLineScanner creates a LineScanner reading from r.
func NewLineScanner(r io.Reader, opts ...ScannerOption) *LineScanner {
	return newLineScanner(r, readChunk, opts...)
}

func newLineScanner(r io.Reader, chunk int, opts ...ScannerOption) *LineScanner {
	var cfg scannerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &LineScanner{chunk: chunk}
	if cfg.maxLineBytes > 0 {
		s.maxLine = cfg.maxLineBytes
	}

	s.scanner = bufio.NewScanner(r)
	s.scanner.Buffer(make([]byte, 0, chunk), chunk)
	s.scanner.Split(s.split)
	return s
}

// Next returns the next match in line order.
// Returns io.EOF when the stream is exhausted.
func (s *LineScanner) Next(ctx context.Context) (*Match, error) {
	if s.err != nil {
		return nil, s.err
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				s.err = fmt.Errorf("reading line %d: %w", s.lineNum+1, err)
				return nil, s.err
			}
			s.err = io.EOF
			// The stream ended right after a fragment.
			if s.pending {
				if m, ok := s.endLine(); ok {
					return m, nil
				}
			}
			return nil, s.err
		}

		s.appendFragment(s.scanner.Bytes())
		if s.fragment {
			s.pending = true
			continue
		}

		if m, ok := s.endLine(); ok {
			return m, nil
		}
	}
}

// endLine parses the collected line and resets the line state.
func (s *LineScanner) endLine() (*Match, bool) {
	s.lineNum++
	line, truncated := string(s.line), s.truncated
	s.line = s.line[:0]
	s.pending = false
	s.truncated = false

	if truncated {
		return nil, false
	}
	m, ok := ParseLine(line)
	if !ok {
		return nil, false
	}
	m.LineNum = s.lineNum
	return &m, true
}

func (s *LineScanner) appendFragment(b []byte) {
	if s.truncated {
		return
	}
	if s.maxLine > 0 && len(s.line)+len(b) > s.maxLine {
		b = b[:s.maxLine-len(s.line)]
		s.truncated = true
	}
	s.line = append(s.line, b...)
}

// LinesRead returns the number of lines consumed so far.
func (s *LineScanner) LinesRead() int {
	return s.lineNum
}

// ScanString returns every match in content, in line order.
func ScanString(content string) []Match {
	s := NewLineScanner(strings.NewReader(content))

	var matches []Match
	for {
		m, err := s.Next(context.Background())
		if err != nil {
			return matches
		}
		matches = append(matches, *m)
	}
}

// split is a bufio.SplitFunc that accepts "\n", "\r\n" and a lone "\r" as line
// terminators. Terminators are not part of the returned token. When the buffer
// is full and holds no terminator, the buffered bytes are returned as a fragment
// of a longer line.
func (s *LineScanner) split(data []byte, atEOF bool) (advance int, token []byte, err error) {
	s.fragment = false
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		if i > 0 && len(data) >= s.chunk {
			// Full buffer ending in "\r": hand out the text before it and keep
			// the "\r" until the next byte shows whether "\n" follows.
			s.fragment = true
			return i, data[:i], nil
		}
		return 0, nil, nil
	}

	if atEOF {
		return len(data), data, nil
	}
	if len(data) >= s.chunk {
		s.fragment = true
		return len(data), data, nil
	}
	return 0, nil, nil
}
