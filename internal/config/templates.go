package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "feed":
		return feedTemplate, nil
	case "relay":
		return relayTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const feedTemplate = `name = "feed.local"
bind_addr = "0.0.0.0:2947"
data_file = "payload.txt"
broadcast_interval = "1s"
heartbeat_timeout = "30s"
# reap_interval defaults to heartbeat_timeout / 3
# reap_interval = "10s"
# admin_listen_addr = "127.0.0.1:7100"
# cors_origins = ["http://localhost:3000"]
`

const relayTemplate = `name = "relay.local"
server_addr = "127.0.0.1:2947"
heartbeat_interval = "5s"
# admin_listen_addr = "127.0.0.1:7101"

# sink = "stdout" writes received lines to standard output.
# sink = "serial" forwards them out a serial device.
sink = "stdout"
# serial_port = "/dev/ttyUSB0"
# serial_baud = 9600
`
