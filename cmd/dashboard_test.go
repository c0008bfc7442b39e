package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jtrack/internal/analytics"
	"github.com/Tiliavir/jtrack/internal/github"
	"github.com/Tiliavir/jtrack/internal/storage"
)

func TestPrintCounters(t *testing.T) {
	n := 12345
	tests := []struct {
		name string
		c    counters
		want string
	}{
		{"nothing configured", counters{}, ""},
		{"stars and visitors",
			counters{stars: &github.Stars{Count: 1200}, repoURL: "https://github.com/me/jobs", visitors: &n},
			"\n★ 1,200 stars – https://github.com/me/jobs\n12,345 visitors in the last 30 days\n"},
		{"stale stars",
			counters{stars: &github.Stars{Count: 3, Cached: true, Stale: true}, repoURL: "https://github.com/me/jobs"},
			"\n★ 3 stars (cached) – https://github.com/me/jobs\n"},
		{"stars unavailable", counters{repoURL: "https://github.com/me/jobs"},
			"\n★ stars unavailable – https://github.com/me/jobs\n"},
		{"upstream visitors error", counters{visitorsErr: &analytics.UpstreamError{StatusCode: 403}},
			"\nVisitors unavailable (HTTP 403)\n"},
		{"other visitors error", counters{visitorsErr: errors.New("boom")},
			"\nVisitors unavailable: boom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printCounters(&buf, tt.c)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestFetchCounters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/me/jobs":
			_, _ = w.Write([]byte(`{"stargazers_count": 7}`))
		case "/v1/analytics/stats":
			_, _ = w.Write([]byte(`{"data":[{"visitors":2},{"visitors":3}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	gh := github.NewClient(ctx, github.Options{Owner: "me", Repo: "jobs", BaseURL: srv.URL, Cache: storage.NewFileKV(t.TempDir())})
	va := analytics.NewClient(ctx, analytics.Options{Token: "t", ProjectID: "p", BaseURL: srv.URL})

	c := fetchCounters(ctx, gh, va)
	require.NotNil(t, c.stars)
	assert.Equal(t, 7, c.stars.Count)
	require.NotNil(t, c.visitors)
	assert.Equal(t, 5, *c.visitors)
	assert.Equal(t, "https://github.com/me/jobs", c.repoURL)
}

func TestFetchCountersUnconfigured(t *testing.T) {
	ctx := context.Background()
	c := fetchCounters(ctx, github.NewClient(ctx, github.Options{}), analytics.NewClient(ctx, analytics.Options{}))
	assert.Equal(t, counters{}, c)
}
