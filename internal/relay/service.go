package relay

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/sink"
)

// datagramConn is the bidirectional socket boundary of the relay.
// *net.UDPConn (dialed) satisfies it; tests substitute a fake.
type datagramConn interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
}

// Service is the relay runtime: heartbeat sender plus receive loop
// sharing one dialed socket and one sink.
type Service struct {
	cfg   Config
	clock clockwork.Clock
	snk   sink.Sink

	conn *net.UDPConn

	serverReachable atomic.Bool
	packetsReceived atomic.Uint64
	linesForwarded  atomic.Uint64

	startedAt time.Time
}

// NewService builds a relay on the wall clock.
func NewService(cfg Config, snk sink.Sink) *Service {
	return NewServiceWithClock(cfg, snk, clockwork.NewRealClock())
}

// NewServiceWithClock builds a relay on an injected clock.
func NewServiceWithClock(cfg Config, snk sink.Sink, clock clockwork.Clock) *Service {
	return &Service{cfg: cfg, snk: snk, clock: clock}
}

// ServerReachable reports whether an ACK has been seen from the server.
func (s *Service) ServerReachable() bool {
	return s.serverReachable.Load()
}

// PacketsReceived returns the number of datagrams seen so far.
func (s *Service) PacketsReceived() uint64 {
	return s.packetsReceived.Load()
}

// LinesForwarded returns the number of data lines handed to the sink.
func (s *Service) LinesForwarded() uint64 {
	return s.linesForwarded.Load()
}

// Run blocks until SIGINT/SIGTERM. Only startup resource acquisition
// (config, socket) is fatal; per-datagram and per-tick failures are
// logged and survived.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.bootstrap(); err != nil {
		return err
	}
	defer s.teardown()

	return s.serve(ctx)
}

func (s *Service) bootstrap() error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if s.snk == nil {
		return ErrNilSink
	}

	raddr, err := net.ResolveUDPAddr("udp", s.cfg.ServerAddr)
	if err != nil {
		return fmt.Errorf("relay: resolve %s: %w", s.cfg.ServerAddr, err)
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return fmt.Errorf("relay: dial %s: %w", s.cfg.ServerAddr, err)
	}
	s.conn = conn
	s.startedAt = s.clock.Now()

	log.Info().
		Str("name", s.cfg.Name).
		Str("server", s.cfg.ServerAddr).
		Str("local", conn.LocalAddr().String()).
		Dur("heartbeat_interval", s.cfg.HeartbeatInterval).
		Msg("relay.Service.bootstrap ready")
	return nil
}

func (s *Service) teardown() {
	if s.conn != nil {
		// Best-effort goodbye so the server can drop us before the
		// heartbeat timeout would.
		if _, err := s.conn.Write([]byte(protocol.TokenDisconnect)); err != nil {
			log.Debug().Err(err).Msg("disconnect send failed")
		}
		_ = s.conn.Close()
	}
	if s.snk != nil {
		_ = s.snk.Close()
	}
	log.Info().
		Uint64("packets", s.PacketsReceived()).
		Uint64("forwarded", s.LinesForwarded()).
		Msg("relay.Service stopped")
}

func (s *Service) serve(ctx context.Context) error {
	// An expired read deadline unblocks the pending read so the
	// receive loop can observe cancellation.
	go func() {
		<-ctx.Done()
		_ = s.conn.SetReadDeadline(time.Now())
	}()

	go s.heartbeatLoop(ctx, s.conn)

	adminErr := make(chan error, 1)
	if s.cfg.AdminListenAddr != "" {
		go func() {
			adminErr <- s.serveAdmin(ctx)
		}()
	}

	receiveErr := make(chan error, 1)
	go func() {
		receiveErr <- s.receiveLoop(ctx, s.conn)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("relay.Service.serve shutdown")
			return nil
		case err := <-receiveErr:
			if err != nil {
				return err
			}
		case err := <-adminErr:
			if err != nil {
				return err
			}
		}
	}
}
