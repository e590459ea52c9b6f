package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/relay"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/sink"
)

const defaultSerialBaud = 9600

// relayctl settings: the relay runtime config plus the sink wiring
// that only the binary cares about.
type relaySettings struct {
	Relay      relay.Config
	SinkKind   string
	SerialPort string
	SerialBaud int
}

func defaultSettings() relaySettings {
	return relaySettings{
		Relay:      relay.DefaultConfig(),
		SinkKind:   "stdout",
		SerialBaud: defaultSerialBaud,
	}
}

type fileConfig struct {
	Name              string `toml:"name"`
	ServerAddr        string `toml:"server_addr"`
	HeartbeatInterval string `toml:"heartbeat_interval"`
	AdminListenAddr   string `toml:"admin_listen_addr"`
	Sink              string `toml:"sink"`
	SerialPort        string `toml:"serial_port"`
	SerialBaud        int    `toml:"serial_baud"`
}

func loadRelaySettings(path string) (relaySettings, error) {
	set := defaultSettings()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return relaySettings{}, fmt.Errorf("load relay config: %w", err)
	}

	if meta.IsDefined("name") {
		set.Relay.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("server_addr") {
		set.Relay.ServerAddr = strings.TrimSpace(raw.ServerAddr)
	}
	if meta.IsDefined("heartbeat_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.HeartbeatInterval))
		if err != nil {
			return relaySettings{}, fmt.Errorf("invalid heartbeat_interval: %w", err)
		}
		set.Relay.HeartbeatInterval = d
	}
	if meta.IsDefined("admin_listen_addr") {
		set.Relay.AdminListenAddr = strings.TrimSpace(raw.AdminListenAddr)
	}
	if meta.IsDefined("sink") {
		set.SinkKind = strings.ToLower(strings.TrimSpace(raw.Sink))
	}
	if meta.IsDefined("serial_port") {
		set.SerialPort = strings.TrimSpace(raw.SerialPort)
	}
	if meta.IsDefined("serial_baud") {
		set.SerialBaud = raw.SerialBaud
	}

	if err := set.validate(); err != nil {
		return relaySettings{}, err
	}
	return set, nil
}

func (s relaySettings) validate() error {
	if err := s.Relay.Validate(); err != nil {
		return err
	}
	switch s.SinkKind {
	case "stdout":
	case "serial":
		if s.SerialPort == "" {
			return fmt.Errorf("sink %q requires serial_port", s.SinkKind)
		}
		if s.SerialBaud <= 0 {
			return fmt.Errorf("invalid serial_baud: %d", s.SerialBaud)
		}
	default:
		return fmt.Errorf("unknown sink kind: %s", s.SinkKind)
	}
	return nil
}

// buildSink opens the configured forwarding target. stdout is kept
// behind a nop-closer so a relay shutdown never closes the process's
// real stdout.
func (s relaySettings) buildSink() (sink.Sink, error) {
	switch s.SinkKind {
	case "stdout":
		return sink.NewWriter(nopCloser{os.Stdout}), nil
	case "serial":
		return sink.OpenSerial(s.SerialPort, s.SerialBaud)
	default:
		return nil, fmt.Errorf("unknown sink kind: %s", s.SinkKind)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
