package mcp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roivaz/pkg-peep/internal/logging"
)

const (
	DefaultHTTPEndpoint = "/mcp/jsonrpc"

	maxRequestBytes = 1 << 20
)

// NewHTTPHandler serves the Streamable HTTP transport on endpoint alongside
// /metrics and /healthz.
func NewHTTPHandler(srv *Server, endpoint string, gatherer prometheus.Gatherer) http.Handler {
	if endpoint == "" {
		endpoint = DefaultHTTPEndpoint
	}

	sessions := &server.InsecureStatefulSessionIdManager{}
	streamable := server.NewStreamableHTTPServer(srv.MCP,
		server.WithEndpointPath(endpoint),
		server.WithSessionIdManager(sessions),
		server.WithLogger(mcpLogger{log: srv.log.WithName("http")}),
	)

	mux := http.NewServeMux()
	mux.Handle(endpoint, &toolCallGuard{server: srv, sessions: sessions, next: streamable})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})
	return mux
}

// toolCallGuard answers malformed tools/call requests from established
// sessions before they reach the Streamable HTTP server.
type toolCallGuard struct {
	server   *Server
	sessions server.SessionIdManager
	next     http.Handler
}

func (g *toolCallGuard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.next.ServeHTTP(w, r)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		http.Error(w, fmt.Sprintf("read request body: %v", err), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if g.validSession(r) {
		if resp := g.server.guardToolCall(body); resp != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			enc := json.NewEncoder(w)
			enc.SetEscapeHTML(false)
			_ = enc.Encode(resp)
			return
		}
	}
	g.next.ServeHTTP(w, r)
}

// validSession mirrors the session check the Streamable HTTP server applies to
// every non-initialize request, so rejected sessions keep its error response.
func (g *toolCallGuard) validSession(r *http.Request) bool {
	terminated, err := g.sessions.Validate(r.Header.Get(server.HeaderKeySessionID))
	return err == nil && !terminated
}

type mcpLogger struct {
	log logging.Logger
}

func (l mcpLogger) Infof(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

func (l mcpLogger) Errorf(format string, v ...any) {
	l.log.Error(fmt.Errorf(format, v...), "streamable http")
}
