package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/config"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/logging"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/relay"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to relay config TOML")
		writeConfig = flag.Bool("write-config", false, "write a starter config to -config and exit")
		printConfig = flag.Bool("print-config", false, "print the effective config and exit")
		serverAddr  = flag.String("server", "", "override feed server address (host:port)")
		serialPort  = flag.String("serial", "", "forward to this serial device instead of stdout")
		adminAddr   = flag.String("admin", "", "override admin HTTP listen address")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	if *writeConfig {
		if *configPath == "" {
			fatalf("relayctl: -write-config requires -config")
		}
		if err := config.WriteTemplate(*configPath, "relay", false); err != nil {
			fatalf("relayctl: %v", err)
		}
		return
	}

	set := defaultSettings()
	if *configPath != "" {
		loaded, err := loadRelaySettings(*configPath)
		if err != nil {
			fatalf("relayctl: %v", err)
		}
		set = loaded
	}
	if *serverAddr != "" {
		set.Relay.ServerAddr = *serverAddr
	}
	if *serialPort != "" {
		set.SinkKind = "serial"
		set.SerialPort = *serialPort
	}
	if *adminAddr != "" {
		set.Relay.AdminListenAddr = *adminAddr
	}
	if err := set.validate(); err != nil {
		fatalf("relayctl: %v", err)
	}

	if *printConfig {
		out, err := config.Dump(struct {
			Name              string `toml:"name"`
			ServerAddr        string `toml:"server_addr"`
			HeartbeatInterval string `toml:"heartbeat_interval"`
			AdminListenAddr   string `toml:"admin_listen_addr,omitempty"`
			Sink              string `toml:"sink"`
			SerialPort        string `toml:"serial_port,omitempty"`
			SerialBaud        int    `toml:"serial_baud"`
		}{
			Name:              set.Relay.Name,
			ServerAddr:        set.Relay.ServerAddr,
			HeartbeatInterval: set.Relay.HeartbeatInterval.String(),
			AdminListenAddr:   set.Relay.AdminListenAddr,
			Sink:              set.SinkKind,
			SerialPort:        set.SerialPort,
			SerialBaud:        set.SerialBaud,
		})
		if err != nil {
			fatalf("relayctl: %v", err)
		}
		fmt.Print(out)
		return
	}

	snk, err := set.buildSink()
	if err != nil {
		fatalf("relayctl: %v", err)
	}

	svc := relay.NewService(set.Relay, snk)
	if err := svc.Run(); err != nil {
		fatalf("relayctl: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
