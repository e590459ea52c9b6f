package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/relay"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/sink"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/testutil/testlog"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadRelaySettingsOverlaysDefaults(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `
server_addr = "10.0.0.5:2947"
heartbeat_interval = "2s"
sink = "serial"
serial_port = "/dev/ttyUSB0"
`)

	set, err := loadRelaySettings(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Relay.ServerAddr != "10.0.0.5:2947" {
		t.Fatalf("server_addr not overlaid: %q", set.Relay.ServerAddr)
	}
	if set.Relay.HeartbeatInterval != 2*time.Second {
		t.Fatalf("heartbeat_interval not overlaid: %v", set.Relay.HeartbeatInterval)
	}
	if set.SinkKind != "serial" || set.SerialPort != "/dev/ttyUSB0" {
		t.Fatalf("sink settings not overlaid: %+v", set)
	}
	if set.SerialBaud != defaultSerialBaud {
		t.Fatalf("serial_baud should default to %d, got %d", defaultSerialBaud, set.SerialBaud)
	}
	if set.Relay.Name != relay.DefaultConfig().Name {
		t.Fatalf("name should keep its default, got %q", set.Relay.Name)
	}
}

func TestLoadRelaySettingsRejectsSerialWithoutPort(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `sink = "serial"`)
	if _, err := loadRelaySettings(path); err == nil {
		t.Fatalf("expected error for serial sink without serial_port")
	}
}

func TestLoadRelaySettingsRejectsUnknownSink(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `sink = "pigeon"`)
	if _, err := loadRelaySettings(path); err == nil {
		t.Fatalf("expected error for unknown sink kind")
	}
}

func TestLoadRelaySettingsValidatesRelayConfig(t *testing.T) {
	testlog.Start(t)
	path := writeConfigFile(t, `server_addr = ""`)
	_, err := loadRelaySettings(path)
	if !errors.Is(err, relay.ErrInvalidServerAddr) {
		t.Fatalf("expected ErrInvalidServerAddr, got %v", err)
	}
}

func TestBuildStdoutSink(t *testing.T) {
	testlog.Start(t)
	set := defaultSettings()
	snk, err := set.buildSink()
	if err != nil {
		t.Fatalf("build sink: %v", err)
	}
	if _, ok := snk.(*sink.WriterSink); !ok {
		t.Fatalf("expected *sink.WriterSink, got %T", snk)
	}
	if err := snk.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNopCloserLeavesWriterOpen(t *testing.T) {
	testlog.Start(t)
	var buf bytes.Buffer
	snk := sink.NewWriter(nopCloser{&buf})
	if err := snk.Forward([]byte("line\r\n")); err != nil {
		t.Fatalf("forward: %v", err)
	}
	if err := snk.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if buf.String() != "line\r\n" {
		t.Fatalf("unexpected sink contents: %q", buf.String())
	}
}
