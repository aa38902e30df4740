// Package forge is a thin REST client for the remote git host (GitHub),
// covering the calls gitline's flows need to dispatch CI builds, manage
// pull requests, and keep a repository's Actions runs and tags tidy. It
// does not attempt to be a general-purpose GitHub SDK.
package forge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const githubAPIBase = "https://api.github.com"

// Client talks to GitHub on behalf of a single organization's token.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string // overridden in tests to point at an httptest.Server
}

// New creates a Client authenticated with a personal access token, talking
// to github.com.
func New(token string) *Client {
	return NewWithBaseURL(token, githubAPIBase)
}

// NewWithBaseURL creates a Client against a non-default API base URL, for
// GitHub Enterprise deployments or a test server.
func NewWithBaseURL(token, baseURL string) *Client {
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
	}
}

func (c *Client) get(ctx context.Context, endpoint string, result interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, result)
}

func (c *Client) post(ctx context.Context, endpoint string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, endpoint, body, result)
}

func (c *Client) put(ctx context.Context, endpoint string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, endpoint, body, result)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

// APIError is returned when GitHub responds with a 4xx/5xx status.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api %s %s returned %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Body)
}
