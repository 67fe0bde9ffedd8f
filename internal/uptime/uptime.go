// Package uptime reads monitor states from the uptime monitoring service
// backing the public status page. The response passes through as raw JSON.
package uptime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.uptimerobot.com/v2"

// Client reads monitor states.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
	apiKey  string
}

// New creates an uptime client.
func New(apiKey string, logger *slog.Logger) *Client {
	return NewWithBaseURL(apiKey, logger, defaultBaseURL)
}

// NewWithBaseURL creates an uptime client with a custom base URL (for
// testing).
func NewWithBaseURL(apiKey string, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(1, 1),
		logger:  logger.With(slog.String("client", "uptime")),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Monitors fetches the state of every configured monitor. The monitoring
// API is POST-only with form-encoded credentials.
func (c *Client) Monitors(ctx context.Context) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	form := url.Values{
		"api_key": {c.apiKey},
		"format":  {"json"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/getMonitors", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching monitors: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("uptime monitor returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return json.RawMessage(body), nil
}
