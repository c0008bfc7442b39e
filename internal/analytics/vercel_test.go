package analytics_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jtrack/internal/analytics"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func TestVisitorsMissingCredentials(t *testing.T) {
	c := analytics.NewClient(context.Background(), analytics.Options{Token: "t"})
	_, err := c.Visitors(context.Background())
	assert.ErrorIs(t, err, analytics.ErrMissingCredentials)
}

func TestVisitorsSumsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/analytics/stats", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "prj", r.URL.Query().Get("projectId"))
		assert.Equal(t, "team", r.URL.Query().Get("teamId"))
		assert.Equal(t, "2026-09-15T12:00:00Z", r.URL.Query().Get("from"))
		_, _ = w.Write([]byte(`{"data":[{"visitors":3},{"visitors":4},{"pageviews":10}]}`))
	}))
	defer srv.Close()

	c := analytics.NewClient(context.Background(), analytics.Options{
		Token: "tok", ProjectID: "prj", TeamID: "team", BaseURL: srv.URL,
		Now: func() time.Time { return fixedNow },
	})
	got, err := c.Visitors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestVisitorsOmitsEmptyTeam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.URL.Query()["teamId"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"unexpected": true}`))
	}))
	defer srv.Close()

	c := analytics.NewClient(context.Background(), analytics.Options{Token: "tok", ProjectID: "prj", BaseURL: srv.URL})
	got, err := c.Visitors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestVisitorsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := analytics.NewClient(context.Background(), analytics.Options{Token: "tok", ProjectID: "prj", BaseURL: srv.URL})
	_, err := c.Visitors(context.Background())
	var upstream *analytics.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
}
