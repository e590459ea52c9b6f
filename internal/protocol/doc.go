// Package protocol owns the wire contract for the feed liveness protocol.
//
// Ownership boundary:
// - control token literals (CONNECT/HEARTBEAT/DISCONNECT/ACK)
// - inbound datagram classification
// - outbound data-line framing
package protocol
