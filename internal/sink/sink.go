package sink

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

var ErrSinkClosed = errors.New("sink: closed")

// Sink is the relay's downstream forwarding target. Forward failures
// are non-fatal to the relay; it keeps listening and retries with the
// next received line.
type Sink interface {
	Forward(p []byte) error
	Close() error
}

// WriterSink adapts any io.Writer (stdout, a file, a test buffer) into
// a Sink.
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func NewWriter(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Forward(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.w.Write(p); err != nil {
		return fmt.Errorf("sink: write: %w", err)
	}
	return nil
}

func (s *WriterSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
