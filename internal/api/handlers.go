package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/jtrack/internal/analytics"
	"github.com/Tiliavir/jtrack/internal/calendar"
	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/filter"
	"github.com/Tiliavir/jtrack/internal/github"
	"github.com/Tiliavir/jtrack/internal/model"
	"github.com/Tiliavir/jtrack/internal/stats"
	"github.com/Tiliavir/jtrack/internal/storage"
)

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	if status == "" {
		status = model.StatusAll
	}
	if status != model.StatusAll {
		parsed, err := model.ParseStatus(status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		status = string(parsed)
	}

	apps := filter.Applications(s.apps.All(), r.URL.Query().Get("q"), status)
	writeJSON(w, http.StatusOK, apps)
}

// AddApplicationRequest is the request body for recording an application.
type AddApplicationRequest struct {
	CompanyName    string            `json:"companyName"`
	Role           string            `json:"role"`
	Location       string            `json:"location"`
	DateApplied    string            `json:"dateApplied"`
	Status         string            `json:"status"`
	ResumeName     string            `json:"resumeName"`
	ResumeFile     *model.ResumeFile `json:"resumeFile,omitempty"`
	Notes          string            `json:"notes"`
	JobDescription string            `json:"jobDescription"`
	SalaryRange    string            `json:"salaryRange"`
}

func (s *Server) addApplication(w http.ResponseWriter, r *http.Request) {
	var req AddApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := model.NewApplicationInput{
		CompanyName:    req.CompanyName,
		Role:           req.Role,
		Location:       req.Location,
		Status:         req.Status,
		ResumeName:     req.ResumeName,
		ResumeFile:     req.ResumeFile,
		Notes:          req.Notes,
		JobDescription: req.JobDescription,
		SalaryRange:    req.SalaryRange,
	}
	if req.DateApplied != "" {
		d, err := datecalc.ParseDate(req.DateApplied, s.loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		in.DateApplied = d
	}

	app, err := model.NewApplication(in, s.now().In(s.loc))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.apps.Add(app); err != nil {
		s.log.Error("saving application failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, app)
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.Get(r.PathValue("id"))
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "application not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stats.Summarize(s.apps.All(), s.now().In(s.loc)))
}

func (s *Server) getCalendar(w http.ResponseWriter, r *http.Request) {
	today := s.now().In(s.loc)
	year, month := today.Year(), today.Month()

	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, "invalid month (want 1-12)")
			return
		}
		month = time.Month(m)
	}

	grid := calendar.BuildMonth(calendar.MonthQuery{
		Year:  year,
		Month: month,
		Today: today,
		Query: q.Get("q"),
	}, s.apps.All(), s.notes.All())
	writeJSON(w, http.StatusOK, grid)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.notes.All())
}

func (s *Server) clearNotes(w http.ResponseWriter, r *http.Request) {
	if err := s.notes.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request) {
	note, ok := s.notes.GetByDate(r.PathValue("date"))
	if !ok {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// PutNoteRequest is the request body for saving a date note.
type PutNoteRequest struct {
	Note string `json:"note"`
}

// putNote stores the note together with the ids of the applications dated on
// that day at the time of saving.
func (s *Server) putNote(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation(datecalc.ISOLayout, r.PathValue("date"), s.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (want YYYY-MM-DD)")
		return
	}
	var req PutNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := []string{}
	for _, a := range calendar.ApplicationsOn(day, s.apps.All(), s.loc) {
		ids = append(ids, a.ID)
	}
	note := model.DateNote{Date: datecalc.FormatISO(day), Note: req.Note, Applications: ids}
	if err := s.notes.Save(note); err != nil {
		s.log.Error("saving note failed", zap.String("date", note.Date), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request) {
	existed, err := s.notes.Delete(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getStars(w http.ResponseWriter, r *http.Request) {
	if s.stars == nil {
		writeError(w, http.StatusNotFound, github.ErrNotConfigured.Error())
		return
	}
	st, err := s.stars.Stars(r.Context())
	if errors.Is(err, github.ErrNotConfigured) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// getVisitors answers {visitors: n}. Missing credentials are a 500 and
// upstream failures keep the upstream status code.
func (s *Server) getVisitors(w http.ResponseWriter, r *http.Request) {
	if s.visitors == nil {
		writeError(w, http.StatusInternalServerError, analytics.ErrMissingCredentials.Error())
		return
	}
	n, err := s.visitors.Visitors(r.Context())
	if err != nil {
		var upstream *analytics.UpstreamError
		switch {
		case errors.As(err, &upstream):
			writeError(w, upstream.StatusCode, "Failed to fetch analytics data")
		default:
			s.log.Warn("visitor count failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"visitors": n})
}
