// Package analytics reads the visitor count from Vercel Web Analytics.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://vercel.com/api"
	// Window is how far back visitors are counted.
	Window = 30 * 24 * time.Hour
)

// ErrMissingCredentials is returned when the token or project id is unset.
var ErrMissingCredentials = errors.New("missing Vercel credentials")

// UpstreamError carries a non-2xx status from the analytics API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("vercel analytics error %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	Token     string
	ProjectID string
	TeamID    string
	BaseURL   string
	Now       func() time.Time
}

// Client is an authenticated Vercel analytics client.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a client that sends the token as a bearer credential.
func NewClient(ctx context.Context, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = 10 * time.Second
	return &Client{httpClient: hc, opts: opts}
}

// Configured reports whether the required credentials are present.
func (c *Client) Configured() bool {
	return c.opts.Token != "" && c.opts.ProjectID != ""
}

type statsResponse struct {
	Data []struct {
		Visitors int `json:"visitors"`
	} `json:"data"`
}

// Visitors returns the total visitors over the last 30 days.
func (c *Client) Visitors(ctx context.Context) (int, error) {
	if !c.Configured() {
		return 0, ErrMissingCredentials
	}

	q := url.Values{}
	q.Set("projectId", c.opts.ProjectID)
	q.Set("from", c.opts.Now().Add(-Window).UTC().Format(time.RFC3339))
	if c.opts.TeamID != "" {
		q.Set("teamId", c.opts.TeamID)
	}
	endpoint := c.opts.BaseURL + "/v1/analytics/stats?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("analytics request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Unknown shapes count as zero visitors rather than failing.
	var stats statsResponse
	if err := json.Unmarshal(body, &stats); err != nil {
		return 0, nil
	}
	total := 0
	for _, d := range stats.Data {
		total += d.Visitors
	}
	return total, nil
}
