// Package sink defines the downstream byte-sink boundary the relay
// forwards received data lines into, plus the built-in serial-port and
// io.Writer implementations.
package sink
