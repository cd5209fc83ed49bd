// Package config reads the example CLI binaries' configuration from flags,
// the way rpkirtr2's internal/config does: a struct of defaults, flags
// parsed over it, no env var or file layer.
package config

import (
	"flag"
	"time"
)

// Config holds everything either example binary (rudpsend/rudprecv) needs.
type Config struct {
	ListenAddr   string
	PeerAddr     string
	LogLevel     string
	RetryTimeout time.Duration
	LingerWindow time.Duration
	IdleTimeout  time.Duration
	MetricsAddr  string
}

// Load reads config from command-line flags, applying package defaults for
// anything left unset.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:   ":9000",
		LogLevel:     "info",
		RetryTimeout: time.Second,
		LingerWindow: time.Second,
		IdleTimeout:  30 * time.Second,
		MetricsAddr:  ":9100",
	}

	listen := flag.String("listen", cfg.ListenAddr, "address to bind (receiver)")
	peer := flag.String("peer", "", "peer address to connect to (sender)")
	loglevel := flag.String("loglevel", cfg.LogLevel, "log level (debug, info, warn, error)")
	retry := flag.Duration("retry-timeout", cfg.RetryTimeout, "stop-and-wait retry timeout")
	linger := flag.Duration("linger-window", cfg.LingerWindow, "teardown linger window")
	idle := flag.Duration("idle-timeout", cfg.IdleTimeout, "idle receive timeout")
	metrics := flag.String("metrics-addr", cfg.MetricsAddr, "address to serve /metrics on")

	flag.Parse()

	cfg.ListenAddr = *listen
	cfg.PeerAddr = *peer
	cfg.LogLevel = *loglevel
	cfg.RetryTimeout = *retry
	cfg.LingerWindow = *linger
	cfg.IdleTimeout = *idle
	cfg.MetricsAddr = *metrics

	return cfg, nil
}
