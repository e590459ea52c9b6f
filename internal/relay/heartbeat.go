package relay

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
)

// heartbeatLoop announces the relay with CONNECT, then keeps the
// registration alive with HEARTBEAT on every tick. Send failures are
// logged and retried on the next tick; no backoff, each UDP send is an
// independent one-shot.
func (s *Service) heartbeatLoop(ctx context.Context, conn datagramConn) {
	connected := s.sendToken(conn, protocol.TokenConnect)

	ticker := s.clock.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("relay heartbeat loop shutdown")
			return
		case <-ticker.Chan():
			token := protocol.TokenHeartbeat
			if !connected {
				token = protocol.TokenConnect
			}
			if s.sendToken(conn, token) {
				connected = true
			}
		}
	}
}

func (s *Service) sendToken(conn datagramConn, token string) bool {
	if _, err := conn.Write([]byte(token)); err != nil {
		observability.RecordRelayHeartbeatError()
		log.Warn().
			Str("token", token).
			Str("server", s.cfg.ServerAddr).
			Err(err).
			Msg("heartbeat send failed, will retry")
		return false
	}
	log.Debug().Str("token", token).Msg("heartbeat sent")
	return true
}
