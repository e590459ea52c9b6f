// Package server runs the feed broadcaster: one UDP socket shared by
// the protocol handler loop and the broadcast loop, a client registry
// for liveness, and a reaper for stale entries.
//
// Ownership boundary:
// - socket bind and lifecycle
// - inbound datagram handling (CONNECT/HEARTBEAT/DISCONNECT -> registry)
// - periodic line broadcast to the registry snapshot
// - optional admin HTTP surface
package server
