package relay

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
)

// receiveLoop blocks on the socket until cancellation. Every received
// datagram is either the server's ACK or a data line for the sink; a
// sink failure never terminates the loop.
func (s *Service) receiveLoop(ctx context.Context, conn datagramConn) error {
	buf := make([]byte, protocol.MaxDatagramSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("relay receive failed")
			continue
		}
		s.handleDatagram(buf[:n])
	}
}

// handleDatagram routes one inbound payload: ACK updates the
// reachability indicator, anything else is forwarded verbatim.
func (s *Service) handleDatagram(payload []byte) {
	s.packetsReceived.Add(1)
	observability.RecordRelayDatagram()

	if protocol.IsAck(payload) {
		if !s.serverReachable.Swap(true) {
			log.Info().Str("server", s.cfg.ServerAddr).Msg("server acknowledged session")
		}
		observability.RecordRelayAck()
		return
	}

	if err := s.snk.Forward(payload); err != nil {
		observability.RecordRelayForwardError()
		log.Warn().
			Int("bytes", len(payload)).
			Err(err).
			Msg("sink forward failed, still listening")
		return
	}
	s.linesForwarded.Add(1)
	observability.RecordRelayForward()
	log.Debug().Int("bytes", len(payload)).Msg("line forwarded")
}
