package mcp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/mcp/tools"
	"github.com/roivaz/pkg-peep/internal/metrics"
)

const initializeRequest = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`

func newHTTPTestServer(t *testing.T) (*httptest.Server, *fakeRegistry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	registry := &fakeRegistry{}
	srv := New(Config{
		ToolAdapters: map[string]ToolAdapter{
			tools.GetDownloadsToolName:   &tools.GetDownloadsHandler{Service: registry},
			tools.GetPackageInfoToolName: &tools.GetPackageInfoHandler{Service: registry},
		},
		Logger:  logging.Discard(),
		Metrics: metrics.NewPrometheusMetrics(reg),
	})
	ts := httptest.NewServer(NewHTTPHandler(srv, "", reg))
	t.Cleanup(ts.Close)
	return ts, registry
}

func post(t *testing.T, url, sessionID, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(server.HeaderKeySessionID, sessionID)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func initializeSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := post(t, ts.URL+DefaultHTTPEndpoint, "", initializeRequest)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "pkg-peep", gjson.Get(body, "result.serverInfo.name").String())
	sessionID := resp.Header.Get(server.HeaderKeySessionID)
	require.NotEmpty(t, sessionID)
	return sessionID
}

func TestHTTPSessionToolsList(t *testing.T) {
	ts, _ := newHTTPTestServer(t)
	sessionID := initializeSession(t, ts)

	resp, body := post(t, ts.URL+DefaultHTTPEndpoint, sessionID, `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode, body)

	resp, body = post(t, ts.URL+DefaultHTTPEndpoint, sessionID, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, gjson.Get(body, "result.tools").Array(), 2)
}

func TestHTTPToolCallChecks(t *testing.T) {
	ts, registry := newHTTPTestServer(t)
	sessionID := initializeSession(t, ts)

	resp, body := post(t, ts.URL+DefaultHTTPEndpoint, sessionID,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_npm_downloads"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(-32602), gjson.Get(body, "error.code").Int())
	assert.Equal(t, "Missing arguments", gjson.Get(body, "error.message").String())

	_, body = post(t, ts.URL+DefaultHTTPEndpoint, sessionID,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"get_pypi_downloads","arguments":{"package":"x"}}}`)
	assert.Equal(t, int64(-32601), gjson.Get(body, "error.code").Int())
	assert.Equal(t, "Unknown tool: get_pypi_downloads", gjson.Get(body, "error.message").String())

	assert.Zero(t, registry.calls.Load())
}

func TestHTTPToolCallWithoutSessionRejected(t *testing.T) {
	ts, registry := newHTTPTestServer(t)

	resp, _ := post(t, ts.URL+DefaultHTTPEndpoint, "",
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_npm_downloads"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, registry.calls.Load())
}

func TestHTTPRejectsNonJSONContentType(t *testing.T) {
	ts, _ := newHTTPTestServer(t)

	resp, err := http.Post(ts.URL+DefaultHTTPEndpoint, "text/plain", strings.NewReader(initializeRequest))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPDeleteSession(t *testing.T) {
	ts, _ := newHTTPTestServer(t)
	sessionID := initializeSession(t, ts)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+DefaultHTTPEndpoint, nil)
	require.NoError(t, err)
	req.Header.Set(server.HeaderKeySessionID, sessionID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPMetricsAndHealth(t *testing.T) {
	ts, registry := newHTTPTestServer(t)
	sessionID := initializeSession(t, ts)

	_, body := post(t, ts.URL+DefaultHTTPEndpoint, sessionID,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"get_npm_package_info","arguments":{"package":"react"}}}`)
	assert.False(t, gjson.Get(body, "error").Exists(), body)
	assert.Equal(t, int32(1), registry.calls.Load())

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	metricsBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(metricsBody), `pkgpeep_tool_calls_total{status="success",tool="get_npm_package_info"} 1`)

	health, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
