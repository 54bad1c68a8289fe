package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/metrics"
)

const (
	serverName    = "pkg-peep"
	serverVersion = "1.0.0"
)

type ToolAdapter interface {
	ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Server dispatches MCP messages to the registered tool adapters. Tool call
// preconditions (arguments present, tool known) are checked here so they map
// onto invalid-params and method-not-found; everything else is served by the
// wrapped mcp-go server.
type Server struct {
	MCP   *server.MCPServer
	tools []mcp.Tool
	known map[string]struct{}
	log   logging.Logger
}

func New(cfg Config) *Server {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(observeToolCalls(recorder)),
	)

	s := &Server{
		MCP:   mcpServer,
		known: make(map[string]struct{}),
		log:   cfg.Logger.WithName("mcp"),
	}

	for _, tool := range ToolDefinitions() {
		adapter, ok := cfg.ToolAdapters[tool.Name]
		if !ok {
			continue
		}
		mcpServer.AddTool(tool, adapter.ToolAdapter)
		s.tools = append(s.tools, tool)
		s.known[tool.Name] = struct{}{}
	}

	return s
}

// ListTools returns the registered tool descriptors in listing order.
func (s *Server) ListTools() []mcp.Tool {
	out := make([]mcp.Tool, len(s.tools))
	copy(out, s.tools)
	return out
}

type toolCallMessage struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      mcp.RequestId `json:"id"`
	Method  string        `json:"method"`
	Params  *struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// HandleMessage processes one JSON-RPC message and returns the response, or
// nil for notifications.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	if resp := s.guardToolCall(raw); resp != nil {
		return resp
	}

	resp := s.MCP.HandleMessage(ctx, raw)
	if rpcErr, ok := resp.(mcp.JSONRPCError); ok {
		s.log.Info("request failed", "code", rpcErr.Error.Code, "message", rpcErr.Error.Message)
	}
	return resp
}

// guardToolCall returns the error response for a tools/call request that has
// no arguments object or names an unregistered tool, and nil for anything the
// wrapped server should handle.
func (s *Server) guardToolCall(raw []byte) mcp.JSONRPCMessage {
	var msg toolCallMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.JSONRPC != mcp.JSONRPC_VERSION ||
		msg.Method != string(mcp.MethodToolsCall) || msg.ID.IsNil() {
		return nil
	}

	var args json.RawMessage
	var name string
	if msg.Params != nil {
		args = bytes.TrimSpace(msg.Params.Arguments)
		name = msg.Params.Name
	}
	log := s.log.WithValues("tool", name, "id", msg.ID.String())

	if len(args) == 0 || bytes.Equal(args, []byte("null")) {
		log.Info("rejecting tool call", "reason", "missing arguments")
		return mcp.NewJSONRPCError(msg.ID, mcp.INVALID_PARAMS, "Missing arguments", nil)
	}
	if args[0] != '{' {
		log.Info("rejecting tool call", "reason", "arguments not an object")
		return mcp.NewJSONRPCError(msg.ID, mcp.INVALID_PARAMS, "Arguments must be an object", nil)
	}
	if _, ok := s.known[name]; !ok {
		log.Info("rejecting tool call", "reason", "unknown tool")
		return mcp.NewJSONRPCError(msg.ID, mcp.METHOD_NOT_FOUND, fmt.Sprintf("Unknown tool: %s", name), nil)
	}
	return nil
}

func observeToolCalls(recorder metrics.Recorder) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			res, err := next(ctx, req)
			recorder.ObserveToolCall(req.Params.Name, time.Since(start), err)
			return res, err
		}
	}
}
