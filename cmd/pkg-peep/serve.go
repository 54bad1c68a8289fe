package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/roivaz/pkg-peep/internal/config"
	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/mcp"
	"github.com/roivaz/pkg-peep/internal/metrics"
)

const defaultShutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the npm tools over MCP",
		RunE:  runServe,
	}
	flags := cmd.Flags()
	flags.String("transport", "stdio", "Transport to serve on (stdio, http)")
	flags.String("host", "127.0.0.1", "HTTP host")
	flags.Int("port", 8000, "HTTP port")
	flags.String("endpoint", mcp.DefaultHTTPEndpoint, "HTTP path for JSON-RPC messages")
	flags.String("shutdown-timeout", "5s", "Grace period for HTTP shutdown")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	config.BindFlags(cmd.Flags())
	log := logging.NewWithLevel(config.LogLevel())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	cfg, err := mcp.DefaultConfig(log, metrics.NewPrometheusMetrics(registry))
	if err != nil {
		return err
	}
	srv := mcp.New(cfg)

	switch transport := config.Transport(); transport {
	case "stdio":
		return serveStdio(ctx, srv, log)
	case "http":
		return serveHTTP(ctx, srv, registry, log)
	default:
		return fmt.Errorf("unsupported transport %q (expected stdio or http)", transport)
	}
}

func serveStdio(ctx context.Context, srv *mcp.Server, log logging.Logger) error {
	transport := mcp.NewStdioTransport(srv, os.Stdin, os.Stdout, log)
	defer transport.Close()

	if err := transport.Serve(ctx); err != nil {
		return err
	}
	log.Info("stdio transport stopped")
	return nil
}

func serveHTTP(ctx context.Context, srv *mcp.Server, gatherer prometheus.Gatherer, log logging.Logger) error {
	shutdownTimeout, err := config.ParseDuration(config.ShutdownTimeout(), defaultShutdownTimeout)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", config.KeyShutdownTimeout, err)
	}

	addr := net.JoinHostPort(config.HTTPHost(), strconv.Itoa(config.HTTPPort()))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mcp.NewHTTPHandler(srv, config.HTTPEndpoint(), gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP server listening", "addr", addr, "endpoint", config.HTTPEndpoint())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
