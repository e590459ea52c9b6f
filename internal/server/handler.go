package server

import (
	"context"
	"errors"
	"net"
	"net/netip"

	"github.com/rs/zerolog/log"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/observability"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
)

// datagramWriter is the outbound half of the server socket. *net.UDPConn
// satisfies it; tests substitute a recorder.
type datagramWriter interface {
	WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error)
}

var ackPayload = []byte(protocol.TokenAck)

// receiveLoop reads inbound datagrams until the context is cancelled.
// A bad datagram never terminates the loop.
func (s *Service) receiveLoop(ctx context.Context) error {
	buf := make([]byte, protocol.MaxDatagramSize)
	for {
		n, addr, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Warn().Err(err).Msg("server receive failed")
			continue
		}
		s.handleDatagram(s.conn, buf[:n], addr)
	}
}

// handleDatagram applies one inbound message to the registry and sends
// the protocol reply where one is defined.
func (s *Service) handleDatagram(w datagramWriter, payload []byte, addr netip.AddrPort) {
	kind, err := protocol.Classify(payload)
	if err != nil {
		observability.RecordMalformedMessage()
		log.Warn().
			Str("client", addr.String()).
			Err(err).
			Msg("malformed message dropped")
		return
	}
	observability.RecordProtocolMessage(kind.String())

	switch kind {
	case protocol.KindConnect:
		if isNew := s.reg.Register(addr); isNew {
			log.Info().Str("client", addr.String()).Msg("client connected")
		}
		s.reply(w, addr)
	case protocol.KindHeartbeat:
		if created := s.reg.Touch(addr); created {
			// Deliberate leniency: a heartbeat from an unknown address
			// re-registers it without an explicit CONNECT.
			log.Info().Str("client", addr.String()).Msg("client re-registered via heartbeat")
		}
		s.reply(w, addr)
	case protocol.KindDisconnect:
		if removed := s.reg.Remove(addr); removed {
			log.Info().Str("client", addr.String()).Msg("client disconnected")
		}
	}
	observability.SetConnectedClients(s.reg.Len())
}

func (s *Service) reply(w datagramWriter, addr netip.AddrPort) {
	if _, err := w.WriteToUDPAddrPort(ackPayload, addr); err != nil {
		log.Warn().
			Str("client", addr.String()).
			Err(err).
			Msg("ack send failed")
	}
}
