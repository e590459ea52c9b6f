package server

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/feed"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
)

// broadcastLoop pulls one line from the feed per tick and fans it out
// to the current registry snapshot. The registry lock is never held
// across a network send.
func (s *Service) broadcastLoop(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.cfg.BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("server broadcast loop shutdown")
			return nil
		case <-ticker.Chan():
			s.broadcastTick(s.conn)
		}
	}
}

// broadcastTick performs a single broadcast: next line, snapshot, send
// to every address independently. A failed send to one client never
// suppresses the sends to the others.
func (s *Service) broadcastTick(w datagramWriter) {
	line, err := s.src.Next()
	if err != nil {
		if errors.Is(err, feed.ErrNoLines) {
			log.Warn().Str("data_file", s.src.Path()).Msg("no lines to broadcast, waiting")
			return
		}
		log.Warn().Err(err).Msg("feed read failed, tick skipped")
		return
	}

	payload, err := protocol.EncodeLine(line)
	if err != nil {
		log.Warn().Err(err).Msg("line dropped, tick skipped")
		return
	}

	addrs := s.reg.Snapshot()
	if len(addrs) == 0 {
		log.Debug().Msg("no clients connected, skipping broadcast")
		return
	}

	observability.RecordBroadcastLine()
	log.Debug().
		Int("clients", len(addrs)).
		Int("bytes", len(payload)).
		Msg("broadcasting line")

	for _, addr := range addrs {
		if _, err := w.WriteToUDPAddrPort(payload, addr); err != nil {
			observability.RecordBroadcastSendError()
			log.Warn().
				Str("client", addr.String()).
				Err(err).
				Msg("broadcast send failed")
		}
	}
}
