package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pkg-peep/internal/logging"
)

// StdioTransport serves newline-delimited JSON-RPC messages from in and writes
// responses to out. Tool calls are handled concurrently; their responses are
// written in completion order.
type StdioTransport struct {
	server *Server
	in     io.Reader
	out    io.Writer
	log    logging.Logger

	writeMu   sync.Mutex
	inflight  sync.WaitGroup
	closeOnce sync.Once
}

func NewStdioTransport(srv *Server, in io.Reader, out io.Writer, log logging.Logger) *StdioTransport {
	return &StdioTransport{
		server: srv,
		in:     in,
		out:    out,
		log:    log.WithName("stdio"),
	}
}

// Serve processes messages until the input reaches EOF or ctx is cancelled.
// In-flight tool calls are waited for on EOF; on cancellation their responses
// are dropped.
func (t *StdioTransport) Serve(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)

	lines := make(chan string)
	readErr := make(chan error, 1)
	go t.readLines(lines, readErr, stop)

	t.log.Info("serving MCP on stdio")
	for {
		select {
		case <-ctx.Done():
			t.inflight.Wait()
			return nil
		case line, ok := <-lines:
			if !ok {
				t.inflight.Wait()
				select {
				case err := <-readErr:
					return fmt.Errorf("read input: %w", err)
				default:
					return nil
				}
			}
			t.handleLine(ctx, line)
		}
	}
}

// Close releases the input stream when it can be closed.
func (t *StdioTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		if closer, ok := t.in.(io.Closer); ok {
			err = closer.Close()
		}
	})
	return err
}

func (t *StdioTransport) readLines(lines chan<- string, readErr chan<- error, stop <-chan struct{}) {
	defer close(lines)
	reader := bufio.NewReader(t.in)
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			select {
			case lines <- line:
			case <-stop:
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				readErr <- err
			}
			return
		}
	}
}

func (t *StdioTransport) handleLine(ctx context.Context, line string) {
	raw := json.RawMessage(strings.TrimSpace(line))
	if !json.Valid(raw) {
		t.write(mcp.NewJSONRPCError(mcp.NewRequestId(nil), mcp.PARSE_ERROR, "Parse error", nil))
		return
	}

	var base struct {
		Method string `json:"method"`
	}
	if json.Unmarshal(raw, &base) == nil && base.Method == string(mcp.MethodToolsCall) {
		t.inflight.Add(1)
		go func() {
			defer t.inflight.Done()
			resp := t.server.HandleMessage(ctx, raw)
			if resp == nil || ctx.Err() != nil {
				return
			}
			t.write(resp)
		}()
		return
	}

	if resp := t.server.HandleMessage(ctx, raw); resp != nil {
		t.write(resp)
	}
}

func (t *StdioTransport) write(resp mcp.JSONRPCMessage) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		t.log.Error(err, "encode response")
		return
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := t.out.Write(buf.Bytes()); err != nil {
		t.log.Error(err, "write response")
	}
}
