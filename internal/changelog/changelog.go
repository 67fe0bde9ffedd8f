// Package changelog reads release lists for the project's repositories from
// the GitHub API. Responses pass through as raw JSON.
package changelog

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

const defaultBaseURL = "https://api.github.com"

// Repository names the changelog routes expose, all under one owner.
const (
	RepoWeb    = "radio-rasclat-web"
	RepoIOS    = "radio-rasclat-ios"
	RepoServer = "radio-rasclat-server"
)

const owner = "dmnktoe"

// Client reads release lists from the GitHub API.
type Client struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	baseURL string
}

// New creates a changelog client against api.github.com.
func New(logger *slog.Logger) *Client {
	return NewWithBaseURL(logger, defaultBaseURL)
}

// NewWithBaseURL creates a changelog client with a custom base URL (for
// testing).
func NewWithBaseURL(logger *slog.Logger, baseURL string) *Client {
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		// Unauthenticated GitHub API calls are limited to 60/hour.
		limiter: rate.NewLimiter(1, 3),
		logger:  logger.With(slog.String("client", "changelog")),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Releases fetches the release list of one repository.
func (c *Client) Releases(ctx context.Context, repo string) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := fmt.Sprintf("%s/repos/%s/%s/releases", c.baseURL, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching releases for %s: %w", repo, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub returned HTTP %d for %s", resp.StatusCode, repo)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return json.RawMessage(body), nil
}
