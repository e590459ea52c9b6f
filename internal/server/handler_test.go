package server

import (
	"net/netip"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/protocol"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/testutil/testlog"
)

type sentDatagram struct {
	Addr    netip.AddrPort
	Payload string
}

// fakeWriter records outbound datagrams and can fail selected targets.
type fakeWriter struct {
	mu      sync.Mutex
	sent    []sentDatagram
	failFor map[netip.AddrPort]error
}

func (w *fakeWriter) WriteToUDPAddrPort(b []byte, addr netip.AddrPort) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err, ok := w.failFor[addr]; ok {
		return 0, err
	}
	w.sent = append(w.sent, sentDatagram{Addr: addr, Payload: string(b)})
	return len(b), nil
}

func (w *fakeWriter) sentTo(addr netip.AddrPort) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, d := range w.sent {
		if d.Addr == addr {
			out = append(out, d.Payload)
		}
	}
	return out
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewServiceWithClock(DefaultConfig(), clockwork.NewFakeClock())
}

func TestHandleConnectRegistersAndAcks(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	w := &fakeWriter{}
	client := netip.MustParseAddrPort("127.0.0.1:50001")

	svc.handleDatagram(w, []byte(protocol.TokenConnect), client)

	if !svc.reg.Contains(client) {
		t.Fatalf("connect did not register client")
	}
	replies := w.sentTo(client)
	if len(replies) != 1 || replies[0] != protocol.TokenAck {
		t.Fatalf("expected single ACK reply, got %v", replies)
	}
}

func TestHandleHeartbeatKnownClientAcks(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	w := &fakeWriter{}
	client := netip.MustParseAddrPort("127.0.0.1:50001")

	svc.handleDatagram(w, []byte(protocol.TokenConnect), client)
	svc.handleDatagram(w, []byte(protocol.TokenHeartbeat), client)

	if svc.reg.Len() != 1 {
		t.Fatalf("heartbeat must not duplicate the entry, len=%d", svc.reg.Len())
	}
	replies := w.sentTo(client)
	if len(replies) != 2 {
		t.Fatalf("expected ACK per message, got %v", replies)
	}
}

// A heartbeat from an address the server never saw re-registers it.
// Documented leniency, not a bug.
func TestHandleHeartbeatUnknownClientImplicitlyRegisters(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	w := &fakeWriter{}
	client := netip.MustParseAddrPort("127.0.0.1:50002")

	svc.handleDatagram(w, []byte(protocol.TokenHeartbeat), client)

	if !svc.reg.Contains(client) {
		t.Fatalf("stray heartbeat must register the sender")
	}
	if replies := w.sentTo(client); len(replies) != 1 || replies[0] != protocol.TokenAck {
		t.Fatalf("expected ACK for stray heartbeat, got %v", replies)
	}
}

func TestHandleDisconnectRemovesWithoutReply(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	w := &fakeWriter{}
	client := netip.MustParseAddrPort("127.0.0.1:50001")
	other := netip.MustParseAddrPort("127.0.0.1:50002")

	svc.handleDatagram(w, []byte(protocol.TokenConnect), other)
	svc.handleDatagram(w, []byte(protocol.TokenConnect), client)
	sentBefore := len(w.sentTo(client))

	svc.handleDatagram(w, []byte(protocol.TokenDisconnect), client)

	if svc.reg.Contains(client) {
		t.Fatalf("disconnect left client registered")
	}
	if !svc.reg.Contains(other) {
		t.Fatalf("disconnect of one client removed another")
	}
	if len(w.sentTo(client)) != sentBefore {
		t.Fatalf("disconnect must not be replied to")
	}
}

func TestHandleMalformedIsDroppedSilently(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	w := &fakeWriter{}
	client := netip.MustParseAddrPort("127.0.0.1:50001")

	for _, payload := range []string{"PING", "connect", "", "CONNECT NOW"} {
		svc.handleDatagram(w, []byte(payload), client)
	}

	if svc.reg.Len() != 0 {
		t.Fatalf("malformed messages must not mutate the registry")
	}
	if len(w.sent) != 0 {
		t.Fatalf("malformed messages must not be replied to, got %v", w.sent)
	}
}

func TestHandleAckSendFailureDoesNotUnregister(t *testing.T) {
	testlog.Start(t)
	svc := newTestService(t)
	client := netip.MustParseAddrPort("127.0.0.1:50001")
	w := &fakeWriter{failFor: map[netip.AddrPort]error{client: errUnreachable}}

	svc.handleDatagram(w, []byte(protocol.TokenConnect), client)

	if !svc.reg.Contains(client) {
		t.Fatalf("failed ACK send must not undo registration")
	}
}
