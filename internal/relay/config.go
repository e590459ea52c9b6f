package relay

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidServerAddr        = errors.New("relay: invalid server address")
	ErrInvalidHeartbeatInterval = errors.New("relay: invalid heartbeat interval")
	ErrNilSink                  = errors.New("relay: nil sink")
)

// Relay runtime configuration.
type Config struct {
	Name              string
	ServerAddr        string
	HeartbeatInterval time.Duration
	AdminListenAddr   string // empty disables the admin surface
}

// Relay defaults: the feed server's historical port, a heartbeat well
// inside the server's 30s liveness window.
func DefaultConfig() Config {
	return Config{
		Name:              "relay.local",
		ServerAddr:        "127.0.0.1:2947",
		HeartbeatInterval: 5 * time.Second,
		AdminListenAddr:   "",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerAddr) == "" {
		return ErrInvalidServerAddr
	}
	if c.HeartbeatInterval <= 0 {
		return ErrInvalidHeartbeatInterval
	}
	return nil
}
