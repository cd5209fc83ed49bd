// rudpsend is the sending side of a reliable transfer: it connects to a
// peer, streams stdin to it reliably, and closes the connection once
// stdin is exhausted.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rudp-go/internal/config"
	"rudp-go/internal/obslog"
	"rudp-go/pkg/rudp"
)

const version = "1.0.0"

func main() {
	obslog.Banner("rudpsend", version)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if cfg.PeerAddr == "" {
		fmt.Fprintln(os.Stderr, "rudpsend: -peer is required")
		os.Exit(1)
	}
	logger := obslog.New(cfg.LogLevel)

	endpoint, err := rudp.Open(rudp.Options{
		RetryTimeout: cfg.RetryTimeout,
		LingerWindow: cfg.LingerWindow,
		IdleTimeout:  cfg.IdleTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("open endpoint: %v", err)
	}

	prometheus.MustRegister(endpoint.Metrics)
	go serveMetrics(cfg.MetricsAddr, logger)

	endpoint.On(rudp.EventPDURetransmitted, func(e rudp.Event) {
		logger.Warn("retransmitting sequence %d (%s)", e.Sequence, e.Detail)
	})

	logger.Info("connecting to %s", cfg.PeerAddr)
	if err := endpoint.Connect(cfg.PeerAddr); err != nil {
		logger.Fatal("connect: %v", err)
	}
	logger.Success("connected, session %s", endpoint.SessionID())

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		logger.Fatal("read stdin: %v", err)
	}

	n, err := endpoint.Send(input)
	if err != nil {
		logger.Fatal("send: %v", err)
	}
	logger.Success("sent %d bytes", n)

	if err := endpoint.Close(); err != nil {
		logger.Error("close: %v", err)
	}
}

func serveMetrics(addr string, logger *obslog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("metrics server stopped: %v", err)
	}
}
