package feed

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoLines        = errors.New("feed: no lines in source")
	ErrNotRegularFile = errors.New("feed: not a regular file")
	ErrClosed         = errors.New("feed: source closed")
)

// maxLineBytes bounds a single feed line; anything longer is dropped.
const maxLineBytes = 64 * 1024

// LineSource reads lines from a file, wrapping to the first line after
// the last. The file is reopened on wrap so edits between cycles are
// picked up on the next pass.
type LineSource struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	closed  bool
}

// Open validates and opens the data file.
func Open(path string) (*LineSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("feed: stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	s := &LineSource{path: path}
	if err := s.reopen(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the underlying file path.
func (s *LineSource) Path() string {
	return s.path
}

// Next returns the next line, without its terminator. Past the last
// line it wraps to the first. A file with no usable lines yields
// ErrNoLines.
func (s *LineSource) Next() (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	for attempt := 0; attempt < 2; attempt++ {
		if s.scanner.Scan() {
			// Scanner strips \n; a CRLF file leaves the \r behind.
			return strings.TrimSuffix(s.scanner.Text(), "\r"), nil
		}
		if err := s.scanner.Err(); err != nil {
			// Restart from the head so a transient read error cannot
			// wedge the source.
			readErr := fmt.Errorf("feed: read %s: %w", s.path, err)
			if reopenErr := s.reopen(); reopenErr != nil {
				return "", reopenErr
			}
			return "", readErr
		}
		if err := s.reopen(); err != nil {
			return "", err
		}
	}
	return "", ErrNoLines
}

// Close releases the underlying file. Further Next calls fail.
func (s *LineSource) Close() error {
	s.closed = true
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

func (s *LineSource) reopen() error {
	if s.file != nil {
		_ = s.file.Close()
	}
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("feed: open %s: %w", s.path, err)
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	scanner.Split(s.scanBoundedLines())
	s.file = f
	s.scanner = scanner
	return nil
}

// scanBoundedLines is bufio.ScanLines with a length bound: a line that
// outgrows maxLineBytes is discarded up to its newline instead of
// poisoning the scanner with ErrTooLong, so the source keeps serving
// the lines that follow it.
func (s *LineSource) scanBoundedLines() bufio.SplitFunc {
	skipping := false
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if skipping {
			if i := bytes.IndexByte(data, '\n'); i >= 0 {
				skipping = false
				return i + 1, nil, nil
			}
			return len(data), nil, nil
		}
		advance, token, err := bufio.ScanLines(data, atEOF)
		if advance > 0 || token != nil || err != nil || atEOF {
			return advance, token, err
		}
		if len(data) >= maxLineBytes {
			skipping = true
			log.Warn().
				Str("data_file", s.path).
				Int("limit", maxLineBytes).
				Msg("oversized line dropped")
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
}
