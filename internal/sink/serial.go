package sink

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialSink forwards received lines out a serial port.
type SerialSink struct {
	mu     sync.Mutex
	name   string
	port   serial.Port
	closed bool
}

// OpenSerial opens the named serial device for forwarding.
func OpenSerial(name string, baud int) (*SerialSink, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("sink: open serial %s: %w", name, err)
	}
	return &SerialSink{name: name, port: port}, nil
}

// Name returns the serial device path.
func (s *SerialSink) Name() string {
	return s.name
}

func (s *SerialSink) Forward(p []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.port.Write(p); err != nil {
		return fmt.Errorf("sink: serial write %s: %w", s.name, err)
	}
	return nil
}

func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
