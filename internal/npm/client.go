package npm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/metrics"
)

const (
	endpointPackage        = "package"
	endpointDownloadsPoint = "downloads_point"
	endpointDownloadsRange = "downloads_range"
)

// Client queries the npm registry metadata and download-count APIs. It holds
// no per-request state and is safe for concurrent use.
type Client struct {
	registryURL  string
	downloadsURL string
	userAgent    string
	http         *http.Client
	to           time.Duration
	log          logging.Logger
	metrics      metrics.Recorder
}

func NewClient(cfg Config) *Client {
	registryURL := strings.TrimRight(strings.TrimSpace(cfg.RegistryURL), "/")
	if registryURL == "" {
		registryURL = DefaultRegistryURL
	}
	downloadsURL := strings.TrimRight(strings.TrimSpace(cfg.DownloadsURL), "/")
	if downloadsURL == "" {
		downloadsURL = DefaultDownloadsURL
	}
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &Client{
		registryURL:  registryURL,
		downloadsURL: downloadsURL,
		userAgent:    cfg.UserAgent,
		http:         &http.Client{Timeout: cfg.Timeout},
		to:           cfg.Timeout,
		log:          cfg.Logger.WithName("npm"),
		metrics:      recorder,
	}
}

// getJSON issues one GET and returns the parsed body. A truthy "error" member
// in the body wins over the status code; a non-2xx response without one is a
// *StatusError.
func (c *Client) getJSON(ctx context.Context, endpoint, url string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	c.log.Debug("requesting", "endpoint", endpoint, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		annotated := c.annotateError(err)
		c.log.Debug("request failed", "endpoint", endpoint, "url", url, "elapsed", time.Since(start), "error", annotated.Error())
		return gjson.Result{}, annotated
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response body: %w", c.annotateError(err))
	}
	c.log.Debug("response received", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body), "elapsed", time.Since(start))

	if !gjson.ValidBytes(body) {
		if !isSuccess(resp.StatusCode) {
			return gjson.Result{}, &StatusError{StatusCode: resp.StatusCode, URL: url}
		}
		return gjson.Result{}, fmt.Errorf("parse response from %s: invalid JSON", url)
	}

	parsed := gjson.ParseBytes(body)
	if msg, ok := embeddedError(parsed); ok {
		return gjson.Result{}, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}
	if !isSuccess(resp.StatusCode) {
		return gjson.Result{}, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}
	return parsed, nil
}

// embeddedError reports the body's "error" member when it is truthy.
func embeddedError(doc gjson.Result) (string, bool) {
	field := doc.Get("error")
	if !field.Exists() {
		return "", false
	}
	switch field.Type {
	case gjson.Null, gjson.False:
		return "", false
	case gjson.String:
		return field.Str, field.Str != ""
	case gjson.Number:
		return field.Raw, field.Num != 0
	default:
		return field.Raw, true
	}
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func (c *Client) annotateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return fmt.Errorf("request timed out after %s: %w", c.to, err)
	}
	return err
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
