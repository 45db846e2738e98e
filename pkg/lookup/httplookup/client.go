// Package httplookup implements the lookup.Services contract against a
// remote HTTP endpoint. Requests are retried with backoff so a transient
// infrastructure hiccup does not immediately fail a submission; a request
// that still fails after retries surfaces as an error, never as "no
// conflict found".
package httplookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	workspaceNamePath = "/lookups/workspace-name"
	contactEmailPath  = "/lookups/contact-email"
)

// Option customises the client.
type Option func(*Client)

// WithRetryMax bounds the number of retries per lookup.
func WithRetryMax(max int) Option {
	return func(c *Client) {
		if max >= 0 {
			c.http.RetryMax = max
		}
	}
}

// WithTimeout sets the per-attempt HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.HTTPClient.Timeout = timeout
		}
	}
}

// Client queries the platform lookup API.
type Client struct {
	base string
	http *retryablehttp.Client
}

// New constructs a client for the lookup API rooted at baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("httplookup: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("httplookup: invalid base url: %w", err)
	}

	retry := retryablehttp.NewClient()
	retry.RetryMax = 3
	retry.RetryWaitMin = 250 * time.Millisecond
	retry.RetryWaitMax = 2 * time.Second
	retry.Logger = nil
	retry.HTTPClient.Timeout = 10 * time.Second

	c := &Client{base: baseURL, http: retry}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// IsWorkspaceNameTaken checks the remote registry for an existing workspace
// with the given name.
func (c *Client) IsWorkspaceNameTaken(ctx context.Context, name string) (bool, error) {
	return c.query(ctx, workspaceNamePath, name)
}

// IsContactEmailTaken checks the remote registry for an existing workspace
// contact email.
func (c *Client) IsContactEmailTaken(ctx context.Context, email string) (bool, error) {
	return c.query(ctx, contactEmailPath, email)
}

type lookupResponse struct {
	Taken bool `json:"taken"`
}

func (c *Client) query(ctx context.Context, path, value string) (bool, error) {
	endpoint := c.base + path + "?value=" + url.QueryEscape(value)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("httplookup: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("httplookup: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("httplookup: %s: unexpected status %d", path, resp.StatusCode)
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("httplookup: %s: decode response: %w", path, err)
	}
	return payload.Taken, nil
}
