package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/testutil/testlog"
)

func TestTemplateKnownKinds(t *testing.T) {
	testlog.Start(t)
	for _, kind := range []string{"feed", "relay", " FEED "} {
		tpl, err := Template(kind)
		if err != nil {
			t.Fatalf("template %q: %v", kind, err)
		}
		if !strings.Contains(tpl, "name =") {
			t.Fatalf("template %q missing name key", kind)
		}
	}
}

func TestTemplateUnknownKindFails(t *testing.T) {
	testlog.Start(t)
	if _, err := Template("broker"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "feed.toml")
	if err := WriteTemplate(path, "feed", false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteTemplate(path, "feed", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "feed", true); err != nil {
		t.Fatalf("explicit overwrite: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat written template: %v", err)
	}
}

func TestDumpRendersToml(t *testing.T) {
	testlog.Start(t)
	out, err := Dump(struct {
		Name string `toml:"name"`
		Port int    `toml:"port"`
	}{Name: "feed.test", Port: 2947})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(out, "name = 'feed.test'") && !strings.Contains(out, `name = "feed.test"`) {
		t.Fatalf("unexpected dump output: %q", out)
	}
}
