// rudprecv is the receiving side of a reliable transfer: it binds a UDP
// socket, accepts one connection, and writes every delivered buffer to
// stdout until the peer tears the connection down.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rudp-go/internal/config"
	"rudp-go/internal/obslog"
	"rudp-go/pkg/rudp"
)

const version = "1.0.0"

func main() {
	obslog.Banner("rudprecv", version)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
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

	endpoint.On(rudp.EventHandshakeComplete, func(rudp.Event) {
		logger.Success("handshake complete, session %s", endpoint.SessionID())
	})
	endpoint.On(rudp.EventPeerClosed, func(rudp.Event) {
		logger.Info("peer closed the connection")
	})

	logger.Info("listening on %s", cfg.ListenAddr)
	if err := endpoint.Accept(cfg.ListenAddr); err != nil {
		logger.Fatal("accept: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		for {
			payload, status, err := endpoint.Receive()
			if err != nil {
				done <- err
				return
			}
			if len(payload) > 0 {
				os.Stdout.Write(payload)
			}
			if status == rudp.PeerClosedStatus {
				done <- nil
				return
			}
		}
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Fatal("receive: %v", err)
		}
		logger.Success("transfer complete")
	case sig := <-sigCh:
		logger.Warn("received signal: %v", sig)
	}

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
