// Package translate reads translation progress from the Crowdin project
// status API. The response passes through as raw JSON.
package translate

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

const defaultBaseURL = "https://api.crowdin.com"

// Client reads the Crowdin project status.
type Client struct {
	client     *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	baseURL    string
	project    string
	login      string
	accountKey string
}

// New creates a Crowdin client for the given project and account.
func New(project, login, accountKey string, logger *slog.Logger) *Client {
	return NewWithBaseURL(project, login, accountKey, logger, defaultBaseURL)
}

// NewWithBaseURL creates a Crowdin client with a custom base URL (for
// testing).
func NewWithBaseURL(project, login, accountKey string, logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client:     &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(2, 1),
		logger:     logger.With(slog.String("client", "translate")),
		baseURL:    strings.TrimRight(baseURL, "/"),
		project:    project,
		login:      login,
		accountKey: accountKey,
	}
}

// Languages fetches the per-language translation status of the project.
func (c *Client) Languages(ctx context.Context) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{
		"login":       {c.login},
		"account-key": {c.accountKey},
		"json":        {""},
	}
	reqURL := fmt.Sprintf("%s/api/project/%s/status?%s", c.baseURL, c.project, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching translation status: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crowdin returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return json.RawMessage(body), nil
}
