// Package radio reads live playout metadata from the station automation
// server (live-info-v2 / week-info endpoints). Payloads pass through as raw
// JSON; only the envelope is parsed.
package radio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to the station automation server.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
}

// New creates a radio client for the given automation server base URL.
func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(5, 1),
		logger:  logger.With(slog.String("client", "radio")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// TrackSet is the previous/current/next block of the live info payload.
type TrackSet struct {
	Previous json.RawMessage `json:"previous"`
	Current  json.RawMessage `json:"current"`
	Next     json.RawMessage `json:"next"`
}

// LiveInfo is the live-info-v2 envelope. Station, track and show payloads
// stay opaque.
type LiveInfo struct {
	Station json.RawMessage `json:"station"`
	Tracks  TrackSet        `json:"tracks"`
	Shows   TrackSet        `json:"shows"`
}

// LiveInfo fetches the current playout state.
func (c *Client) LiveInfo(ctx context.Context) (*LiveInfo, error) {
	body, err := c.get(ctx, c.baseURL+"/live-info-v2")
	if err != nil {
		return nil, err
	}
	var info LiveInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing live info: %w", err)
	}
	return &info, nil
}

// Schedule fetches the weekly program schedule as raw JSON.
func (c *Client) Schedule(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, c.baseURL+"/week-info")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", reqURL, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("automation server returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
