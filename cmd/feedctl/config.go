package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/server"
)

// feedctl config.toml key mapping to feed server runtime settings.
type fileConfig struct {
	Name              string   `toml:"name"`
	BindAddr          string   `toml:"bind_addr"`
	DataFile          string   `toml:"data_file"`
	BroadcastInterval string   `toml:"broadcast_interval"`
	HeartbeatTimeout  string   `toml:"heartbeat_timeout"`
	ReapInterval      string   `toml:"reap_interval"`
	AdminListenAddr   string   `toml:"admin_listen_addr"`
	CorsOrigins       []string `toml:"cors_origins"`
}

// feedctl loader for TOML config with default overlay.
func loadServerConfig(path string) (server.Config, error) {
	cfg := server.DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return server.Config{}, fmt.Errorf("load feed config: %w", err)
	}

	if meta.IsDefined("name") {
		cfg.Name = strings.TrimSpace(raw.Name)
	}
	if meta.IsDefined("bind_addr") {
		cfg.BindAddr = strings.TrimSpace(raw.BindAddr)
	}
	if meta.IsDefined("data_file") {
		cfg.DataFile = strings.TrimSpace(raw.DataFile)
	}
	if meta.IsDefined("broadcast_interval") {
		cfg.BroadcastInterval, err = parseInterval("broadcast_interval", raw.BroadcastInterval)
		if err != nil {
			return server.Config{}, err
		}
	}
	if meta.IsDefined("heartbeat_timeout") {
		cfg.HeartbeatTimeout, err = parseInterval("heartbeat_timeout", raw.HeartbeatTimeout)
		if err != nil {
			return server.Config{}, err
		}
	}
	if meta.IsDefined("reap_interval") {
		cfg.ReapInterval, err = parseInterval("reap_interval", raw.ReapInterval)
		if err != nil {
			return server.Config{}, err
		}
	}
	if meta.IsDefined("admin_listen_addr") {
		cfg.AdminListenAddr = strings.TrimSpace(raw.AdminListenAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	if err := cfg.Validate(); err != nil {
		return server.Config{}, err
	}
	return cfg, nil
}

func parseInterval(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
