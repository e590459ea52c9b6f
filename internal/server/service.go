package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/feed"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/registry"
)

// Service wires the socket, registry, reaper and the two server loops.
type Service struct {
	cfg   Config
	clock clockwork.Clock

	reg  *registry.Registry
	src  *feed.LineSource
	conn *net.UDPConn

	startedAt time.Time
}

// NewService builds a feed server on the wall clock.
func NewService(cfg Config) *Service {
	return NewServiceWithClock(cfg, clockwork.NewRealClock())
}

// NewServiceWithClock builds a feed server on an injected clock.
func NewServiceWithClock(cfg Config, clock clockwork.Clock) *Service {
	return &Service{
		cfg:   cfg,
		clock: clock,
		reg:   registry.NewWithClock(clock),
	}
}

// Registry exposes liveness state to the admin surface and tests.
func (s *Service) Registry() *registry.Registry {
	return s.reg
}

// Run blocks until SIGINT/SIGTERM. Startup resource failures (bad
// config, missing data file, socket bind) are the only fatal errors;
// everything after bootstrap is logged and survived.
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

	src, err := feed.Open(s.cfg.DataFile)
	if err != nil {
		return err
	}
	s.src = src

	addr, err := net.ResolveUDPAddr("udp", s.cfg.BindAddr)
	if err != nil {
		return fmt.Errorf("server: resolve %s: %w", s.cfg.BindAddr, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("server: bind %s: %w", s.cfg.BindAddr, err)
	}
	s.conn = conn
	s.startedAt = s.clock.Now()

	log.Info().
		Str("name", s.cfg.Name).
		Str("bind", conn.LocalAddr().String()).
		Str("data_file", s.cfg.DataFile).
		Dur("broadcast_interval", s.cfg.BroadcastInterval).
		Dur("heartbeat_timeout", s.cfg.HeartbeatTimeout).
		Msg("server.Service.bootstrap ready")
	return nil
}

func (s *Service) teardown() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	if s.src != nil {
		_ = s.src.Close()
	}
}

func (s *Service) serve(ctx context.Context) error {
	reaper, err := registry.NewReaperWithClock(s.reg, s.clock, s.cfg.HeartbeatTimeout, s.cfg.ReapInterval)
	if err != nil {
		return err
	}

	// An expired read deadline unblocks the handler's pending read so
	// the loop can observe cancellation.
	go func() {
		<-ctx.Done()
		_ = s.conn.SetReadDeadline(time.Now())
	}()

	receiveErr := make(chan error, 1)
	go func() {
		receiveErr <- s.receiveLoop(ctx)
	}()
	go reaper.Run(ctx)

	adminErr := make(chan error, 1)
	if s.cfg.AdminListenAddr != "" {
		go func() {
			adminErr <- s.serveAdmin(ctx)
		}()
	}

	broadcastErr := make(chan error, 1)
	go func() {
		broadcastErr <- s.broadcastLoop(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("server.Service.serve shutdown")
			return nil
		case err := <-receiveErr:
			if err != nil {
				return err
			}
		case err := <-broadcastErr:
			if err != nil {
				return err
			}
		case err := <-adminErr:
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		}
	}
}
