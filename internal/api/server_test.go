package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/jtrack/internal/analytics"
	"github.com/Tiliavir/jtrack/internal/api"
	"github.com/Tiliavir/jtrack/internal/github"
	"github.com/Tiliavir/jtrack/internal/model"
	"github.com/Tiliavir/jtrack/internal/stats"
	"github.com/Tiliavir/jtrack/internal/storage"
)

var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type fakeStars struct {
	stars github.Stars
	err   error
}

func (f fakeStars) Stars(context.Context) (github.Stars, error) { return f.stars, f.err }

type fakeVisitors struct {
	n   int
	err error
}

func (f fakeVisitors) Visitors(context.Context) (int, error) { return f.n, f.err }

type fixture struct {
	apps  *storage.Applications
	notes *storage.DateNotes
	srv   *httptest.Server
}

func newFixture(t *testing.T, opts api.Options) *fixture {
	t.Helper()
	kv := storage.NewFileKV(t.TempDir())
	f := &fixture{
		apps:  storage.NewApplications(kv, nil),
		notes: storage.NewDateNotes(kv, nil),
	}
	opts.Applications = f.apps
	opts.Notes = f.notes
	opts.Location = time.UTC
	opts.Now = func() time.Time { return now }
	f.srv = httptest.NewServer(api.New(opts).Handler())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seed(t *testing.T, f *fixture, apps ...model.Application) {
	t.Helper()
	for _, a := range apps {
		require.NoError(t, f.apps.Add(a))
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, api.Options{})
	resp := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, resp))
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, api.Options{})
	resp := f.do(t, http.MethodOptions, "/applications", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}

func TestAddAndGetApplication(t *testing.T) {
	f := newFixture(t, api.Options{})

	resp := f.do(t, http.MethodPost, "/applications", `{"companyName":"Acme","role":"Backend Engineer","dateApplied":"Oct 14, 2026"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[model.Application](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.StatusApplied, created.Status)
	assert.Equal(t, model.DefaultLocation, created.Location)
	assert.Equal(t, "2026-10-14", created.DateApplied)

	resp = f.do(t, http.MethodGet, "/applications/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[model.Application](t, resp))

	resp = f.do(t, http.MethodGet, "/applications/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddApplicationValidation(t *testing.T) {
	f := newFixture(t, api.Options{})
	for name, body := range map[string]string{
		"malformed":      `{`,
		"missing role":   `{"companyName":"Acme"}`,
		"invalid status": `{"companyName":"Acme","role":"Dev","status":"Hired"}`,
		"invalid date":   `{"companyName":"Acme","role":"Dev","dateApplied":"someday"}`,
	} {
		t.Run(name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/applications", body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
		})
	}
	assert.Zero(t, f.apps.Len())
}

func TestListApplicationsFilters(t *testing.T) {
	f := newFixture(t, api.Options{})
	seed(t, f,
		model.Application{ID: "1", CompanyName: "Acme", Role: "Dev", Status: model.StatusApplied},
		model.Application{ID: "2", CompanyName: "Globex", Role: "SRE", Status: model.StatusOffer},
		model.Application{ID: "3", CompanyName: "Acme Labs", Role: "QA", Status: model.StatusOffer},
	)

	ids := func(path string) []string {
		resp := f.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out []string
		for _, a := range decode[[]model.Application](t, resp) {
			out = append(out, a.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids("/applications"))
	assert.Equal(t, []string{"1", "3"}, ids("/applications?q=acme"))
	assert.Equal(t, []string{"3"}, ids("/applications?q=acme&status=offer+received"))
	assert.Equal(t, []string{"1", "2", "3"}, ids("/applications?status=All"))
	assert.Equal(t, []string{"1", "2", "3"}, ids("/applications?status="))

	resp := f.do(t, http.MethodGet, "/applications?status=Hired", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	f := newFixture(t, api.Options{})
	seed(t, f,
		model.Application{ID: "1", DateApplied: "2026-10-14", Status: model.StatusApplied},
		model.Application{ID: "2", DateApplied: "2026-10-13", Status: model.StatusInterviewing},
		model.Application{ID: "3", DateApplied: "2026-09-01", Status: model.StatusOffer},
	)

	resp := f.do(t, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[stats.Summary](t, resp)
	assert.Equal(t, model.DashboardStats{Total: 3, Applied: 1, Interviews: 1, Offers: 1}, got.Stats)
	assert.Equal(t, 33, got.Progress)
	assert.Equal(t, stats.Rates{Response: 67, Interview: 33, Offer: 33}, got.Rates)
	assert.Equal(t, 2, got.ThisWeek)
}

type calendarResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Cells []struct {
		Date         string              `json:"date"`
		InMonth      bool                `json:"in_month"`
		IsToday      bool                `json:"is_today"`
		Applications []model.Application `json:"applications"`
		Note         *model.DateNote     `json:"note"`
		Matches      bool                `json:"matches"`
		Dimmed       bool                `json:"dimmed"`
	} `json:"cells"`
}

func TestCalendar(t *testing.T) {
	f := newFixture(t, api.Options{})
	seed(t, f, model.Application{ID: "1", CompanyName: "Acme", DateApplied: "2026-10-14", Status: model.StatusApplied})
	require.NoError(t, f.notes.Save(model.DateNote{Date: "2026-10-02", Note: "recruiter call"}))

	resp := f.do(t, http.MethodGet, "/calendar", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	grid := decode[calendarResponse](t, resp)
	assert.Equal(t, 2026, grid.Year)
	assert.Equal(t, 10, grid.Month)
	require.Len(t, grid.Cells, 42)
	// October 2026 starts on a Thursday.
	assert.Equal(t, "2026-09-27", grid.Cells[0].Date)
	assert.Equal(t, "2026-10-14", grid.Cells[17].Date)
	assert.Len(t, grid.Cells[17].Applications, 1)
	assert.True(t, grid.Cells[18].IsToday)
	require.NotNil(t, grid.Cells[5].Note)
	assert.Equal(t, "recruiter call", grid.Cells[5].Note.Note)

	resp = f.do(t, http.MethodGet, "/calendar?year=2026&month=10&q=recruiter", "")
	grid = decode[calendarResponse](t, resp)
	assert.True(t, grid.Cells[5].Matches)
	assert.Empty(t, grid.Cells[17].Applications)
	assert.True(t, grid.Cells[17].Dimmed)
	assert.False(t, grid.Cells[0].Dimmed, "days outside the month are never dimmed")

	for _, path := range []string{"/calendar?month=13", "/calendar?year=abc"} {
		assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, path, "").StatusCode, path)
	}
}

func TestNotesLifecycle(t *testing.T) {
	f := newFixture(t, api.Options{})
	seed(t, f,
		model.Application{ID: "a", DateApplied: "2026-10-14", Status: model.StatusApplied},
		model.Application{ID: "b", DateApplied: "Oct 14, 2026", Status: model.StatusApplied},
		model.Application{ID: "c", DateApplied: "2026-10-13", Status: model.StatusApplied},
	)

	resp := f.do(t, http.MethodGet, "/notes/2026-10-14", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.do(t, http.MethodPut, "/notes/2026-10-14", `{"note":"sent two"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := decode[model.DateNote](t, resp)
	assert.Equal(t, model.DateNote{Date: "2026-10-14", Note: "sent two", Applications: []string{"a", "b"}}, saved)

	resp = f.do(t, http.MethodPut, "/notes/2026-10-14", `{"note":"edited"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = f.do(t, http.MethodGet, "/notes", "")
	notes := decode[[]model.DateNote](t, resp)
	require.Len(t, notes, 1)
	assert.Equal(t, "edited", notes[0].Note)

	resp = f.do(t, http.MethodPut, "/notes/14-10-2026", `{"note":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/notes/2026-10-14", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = f.do(t, http.MethodDelete, "/notes/2026-10-14", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	f.do(t, http.MethodPut, "/notes/2026-10-13", `{"note":"one"}`)
	resp = f.do(t, http.MethodDelete, "/notes", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, f.notes.All())
}

func TestStars(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, api.Options{})
		assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/stars", "").StatusCode)
	})
	t.Run("cached", func(t *testing.T) {
		f := newFixture(t, api.Options{Stars: fakeStars{stars: github.Stars{Count: 42, Cached: true}}})
		resp := f.do(t, http.MethodGet, "/stars", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, github.Stars{Count: 42, Cached: true}, decode[github.Stars](t, resp))
	})
	t.Run("upstream failure", func(t *testing.T) {
		f := newFixture(t, api.Options{Stars: fakeStars{err: assert.AnError}})
		assert.Equal(t, http.StatusBadGateway, f.do(t, http.MethodGet, "/stars", "").StatusCode)
	})
}

func TestVisitors(t *testing.T) {
	tests := []struct {
		name     string
		visitors api.VisitorCounter
		status   int
		body     map[string]any
	}{
		{"ok", fakeVisitors{n: 128}, http.StatusOK, map[string]any{"visitors": float64(128)}},
		{"missing credentials", fakeVisitors{err: analytics.ErrMissingCredentials}, http.StatusInternalServerError,
			map[string]any{"error": analytics.ErrMissingCredentials.Error()}},
		{"unwired", nil, http.StatusInternalServerError, map[string]any{"error": analytics.ErrMissingCredentials.Error()}},
		{"upstream", fakeVisitors{err: &analytics.UpstreamError{StatusCode: http.StatusForbidden}}, http.StatusForbidden,
			map[string]any{"error": "Failed to fetch analytics data"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, api.Options{Visitors: tt.visitors})
			resp := f.do(t, http.MethodGet, "/visitors", "")
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.body, decode[map[string]any](t, resp))
		})
	}
}
