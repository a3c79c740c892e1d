package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/juliez0727-gif/steam2025/internal/ports"
)

const maxBodyBytes = 4 << 20

// Strategy is one proxy service in the fallback chain. The target URL is
// query-escaped and appended to Endpoint. Envelope marks services that wrap
// the upstream body in a {status, contents} JSON envelope; the rest pass the
// body through unchanged.
type Strategy struct {
	Name     string
	Endpoint string
	Envelope bool
}

// Client fetches upstream URLs through an ordered list of proxy strategies.
// Each strategy is attempted exactly once per call, in order; the call fails
// only when every strategy has failed.
type Client struct {
	strategies []Strategy
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

var _ ports.Relay = (*Client)(nil)

// New wires the strategy chain; client defaults to a 25s-timeout http.Client.
func New(strategies []Strategy, client *http.Client, logger *slog.Logger) *Client {
	if client == nil {
		client = &http.Client{Timeout: 25 * time.Second}
	}
	return &Client{
		strategies: strategies,
		httpClient: client,
		logger:     logger,
		now:        time.Now,
	}
}

// Fetch retrieves targetURL through the first strategy that succeeds. The
// returned payload is the decoded JSON structure when the body parses as JSON,
// otherwise the raw body text. A proxied 404 counts as success with an empty
// payload when tolerateNotFound is set.
func (c *Client) Fetch(ctx context.Context, targetURL string, tolerateNotFound bool) (any, error) {
	if len(c.strategies) == 0 {
		return nil, fmt.Errorf("no relay strategies configured")
	}

	busted := withCacheBuster(targetURL, c.now())

	var reasons []string
	for _, s := range c.strategies {
		payload, err := c.attempt(ctx, s, busted, tolerateNotFound)
		if err != nil {
			c.debug("relay attempt failed", "relay", s.Name, "error", err)
			reasons = append(reasons, fmt.Sprintf("%s: %v", s.Name, err))
			continue
		}
		return payload, nil
	}

	return nil, fmt.Errorf("all relays failed for %s: %s", targetURL, strings.Join(reasons, "; "))
}

func (c *Client) attempt(ctx context.Context, s Strategy, target string, tolerateNotFound bool) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Endpoint+url.QueryEscape(target), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && tolerateNotFound && !s.Envelope {
		return "", nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("relay returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if s.Envelope {
		body, err = unwrapEnvelope(body, tolerateNotFound)
		if err != nil {
			return nil, err
		}
	}

	return decodePayload(body), nil
}

// unwrapEnvelope extracts the upstream body from a {status, contents}
// envelope and enforces the upstream status it reports.
func unwrapEnvelope(body []byte, tolerateNotFound bool) ([]byte, error) {
	var env struct {
		Contents string `json:"contents"`
		Status   struct {
			HTTPCode int `json:"http_code"`
		} `json:"status"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	code := env.Status.HTTPCode
	if code != 0 && (code < 200 || code >= 300) {
		if code == http.StatusNotFound && tolerateNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("upstream returned %d", code)
	}

	return []byte(env.Contents), nil
}

// decodePayload returns the parsed structure for JSON object/array bodies and
// the raw text for everything else (e.g. bare HTML fragments).
func decodePayload(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(trimmed, &v); err == nil {
			return v
		}
	}
	return string(body)
}

// withCacheBuster appends a timestamp parameter so shared caches between the
// relay and the storefront never serve a stale page.
func withCacheBuster(target string, now time.Time) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + "_=" + strconv.FormatInt(now.UnixMilli(), 10)
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
