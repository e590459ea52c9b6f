// Package relay runs the client side of the feed protocol: it keeps a
// heartbeat session against the feed server and forwards every received
// data line into a downstream sink (serial port, stdout, ...).
//
// Ownership boundary:
// - the dialed UDP socket and its lifecycle
// - the periodic CONNECT/HEARTBEAT sender
// - the receive loop splitting ACK replies from data lines
package relay
