package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/Tiliavir/jtrack/internal/storage"
)

const (
	defaultBaseURL = "https://api.github.com"
	// CacheTTL is how long a fetched star count is served without refetching.
	CacheTTL = 5 * time.Minute
)

// ErrNotConfigured is returned when no owner/repo is set.
var ErrNotConfigured = errors.New("github repository not configured")

// Options configures a Client.
type Options struct {
	Owner   string
	Repo    string
	Token   string // optional; raises the rate limit
	BaseURL string // for tests; defaults to the public API
	Cache   storage.KV
	Logger  *zap.Logger
	Now     func() time.Time
}

// Client fetches a repository's star count with a KV-backed cache.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a client. With a token, requests are authenticated
// through an oauth2 transport.
func NewClient(ctx context.Context, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = 10 * time.Second
	}
	return &Client{httpClient: httpClient, opts: opts}
}

// Configured reports whether owner and repo are set.
func (c *Client) Configured() bool {
	return c.opts.Owner != "" && c.opts.Repo != ""
}

// RepoURL is the repository's web address.
func (c *Client) RepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", c.opts.Owner, c.opts.Repo)
}

// Stars is a star count and where it came from. Stale marks an expired cache
// entry served because the API could not be reached.
type Stars struct {
	Count  int  `json:"count"`
	Cached bool `json:"cached"`
	Stale  bool `json:"stale,omitempty"`
}

// cacheEntry matches the {count, timestamp} shape, timestamp in Unix ms.
type cacheEntry struct {
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

func (c *Client) cacheKey() string {
	return fmt.Sprintf("github-stars-%s-%s", c.opts.Owner, c.opts.Repo)
}

// Stars returns the star count. A cached value younger than CacheTTL is
// returned without a request; if the request fails, any cached value is
// returned instead of the error.
func (c *Client) Stars(ctx context.Context) (Stars, error) {
	if !c.Configured() {
		return Stars{}, ErrNotConfigured
	}

	cached, hasCache := c.readCache()
	now := c.opts.Now()
	if hasCache && now.Sub(time.UnixMilli(cached.Timestamp)) < CacheTTL {
		return Stars{Count: cached.Count, Cached: true}, nil
	}

	count, err := c.fetch(ctx)
	if err != nil {
		if hasCache {
			c.opts.Logger.Warn("github stars fetch failed, using cached value",
				zap.String("repo", c.opts.Owner+"/"+c.opts.Repo), zap.Error(err))
			return Stars{Count: cached.Count, Cached: true, Stale: true}, nil
		}
		return Stars{}, err
	}

	c.writeCache(cacheEntry{Count: count, Timestamp: now.UnixMilli()})
	return Stars{Count: count}, nil
}

type repoResponse struct {
	StargazersCount int    `json:"stargazers_count"`
	FullName        string `json:"full_name"`
}

func (c *Client) fetch(ctx context.Context) (int, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s", c.opts.BaseURL, c.opts.Owner, c.opts.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("github API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return 0, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("github API error %d: %s", resp.StatusCode, string(body))
	}

	var repo repoResponse
	if err := json.Unmarshal(body, &repo); err != nil {
		return 0, fmt.Errorf("decoding github response: %w", err)
	}
	return repo.StargazersCount, nil
}

func (c *Client) readCache() (cacheEntry, bool) {
	if c.opts.Cache == nil {
		return cacheEntry{}, false
	}
	data, ok, err := c.opts.Cache.Get(c.cacheKey())
	if err != nil || !ok {
		return cacheEntry{}, false
	}
	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return cacheEntry{}, false
	}
	return e, true
}

// writeCache is best effort.
func (c *Client) writeCache(e cacheEntry) {
	if c.opts.Cache == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.opts.Cache.Set(c.cacheKey(), data); err != nil {
		c.opts.Logger.Debug("could not cache github stars", zap.Error(err))
	}
}
