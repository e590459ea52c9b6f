// Package config holds shared configuration helpers for the feed
// daemons: starter-file templates and effective-config dumping.
package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Dump renders an effective configuration as TOML, for -print-config
// style introspection.
func Dump(cfg any) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("config dump failed: %w", err)
	}
	return string(out), nil
}
