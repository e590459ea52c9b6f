package server

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidBindAddr          = errors.New("server: invalid bind address")
	ErrInvalidDataFile          = errors.New("server: invalid data file path")
	ErrInvalidBroadcastInterval = errors.New("server: invalid broadcast interval")
	ErrInvalidHeartbeatTimeout  = errors.New("server: invalid heartbeat timeout")
)

// Feed server runtime configuration.
type Config struct {
	Name              string
	BindAddr          string
	DataFile          string
	BroadcastInterval time.Duration
	HeartbeatTimeout  time.Duration
	ReapInterval      time.Duration // zero defaults to HeartbeatTimeout/3
	AdminListenAddr   string        // empty disables the admin surface
	CorsOrigins       []string
}

// Feed server defaults matching the historical deployment: GPSD-style
// port 2947, one line per second, 30s liveness window.
func DefaultConfig() Config {
	return Config{
		Name:              "feed.local",
		BindAddr:          "0.0.0.0:2947",
		DataFile:          "payload.txt",
		BroadcastInterval: time.Second,
		HeartbeatTimeout:  30 * time.Second,
		ReapInterval:      0,
		AdminListenAddr:   "",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.BindAddr) == "" {
		return ErrInvalidBindAddr
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return ErrInvalidDataFile
	}
	if c.BroadcastInterval <= 0 {
		return ErrInvalidBroadcastInterval
	}
	if c.HeartbeatTimeout <= 0 {
		return ErrInvalidHeartbeatTimeout
	}
	return nil
}
