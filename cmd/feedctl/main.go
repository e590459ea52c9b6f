package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/config"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/logging"
	"github.com/shah253kt/udp-to-serial-forwarder/internal/server"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to feed config TOML")
		writeConfig = flag.Bool("write-config", false, "write a starter config to -config and exit")
		printConfig = flag.Bool("print-config", false, "print the effective config and exit")
		bindAddr    = flag.String("bind", "", "override UDP bind address (host:port)")
		dataFile    = flag.String("file", "", "override broadcast data file")
		adminAddr   = flag.String("admin", "", "override admin HTTP listen address")
	)
	flag.Parse()

	logging.ConfigureRuntime()

	if *writeConfig {
		if *configPath == "" {
			fatalf("feedctl: -write-config requires -config")
		}
		if err := config.WriteTemplate(*configPath, "feed", false); err != nil {
			fatalf("feedctl: %v", err)
		}
		return
	}

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := loadServerConfig(*configPath)
		if err != nil {
			fatalf("feedctl: %v", err)
		}
		cfg = loaded
	}
	if *bindAddr != "" {
		cfg.BindAddr = *bindAddr
	}
	if *dataFile != "" {
		cfg.DataFile = *dataFile
	}
	if *adminAddr != "" {
		cfg.AdminListenAddr = *adminAddr
	}

	if *printConfig {
		out, err := config.Dump(cfg)
		if err != nil {
			fatalf("feedctl: %v", err)
		}
		fmt.Print(out)
		return
	}

	svc := server.NewService(cfg)
	if err := svc.Run(); err != nil {
		fatalf("feedctl: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
