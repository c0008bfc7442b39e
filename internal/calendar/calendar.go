// Package calendar lays out a month as a 6x7 grid and attaches applications
// and date notes to each day.
package calendar

import (
	"strings"
	"time"

	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
)

const (
	// Weeks is the number of rows in a month grid.
	Weeks = 6
	// Cells is the fixed number of days shown for any month.
	Cells = Weeks * 7
)

// Cell is one day of the grid.
type Cell struct {
	Date         time.Time           `json:"-"`
	ISODate      string              `json:"date"`
	InMonth      bool                `json:"in_month"`
	IsToday      bool                `json:"is_today"`
	Applications []model.Application `json:"applications"`
	Note         *model.DateNote     `json:"note,omitempty"`
	// Matches is false only when a search query is active and nothing on
	// this day contains it.
	Matches bool `json:"matches"`
	Dimmed  bool `json:"dimmed"`
}

// Grid is a month view.
type Grid struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Query string      `json:"query,omitempty"`
	Cells [Cells]Cell `json:"cells"`
}

// Weeks returns the grid split into rows, Sunday first.
func (g *Grid) Weeks() [][]Cell {
	rows := make([][]Cell, 0, Weeks)
	for i := 0; i < Cells; i += 7 {
		rows = append(rows, g.Cells[i:i+7])
	}
	return rows
}

// MonthQuery selects the month to build. Today decides the highlighted cell
// and the location every date is interpreted in.
type MonthQuery struct {
	Year  int
	Month time.Month
	Today time.Time
	Query string
}

// Days returns the 42 dates shown for a month: trailing days of the previous
// month up to the first Sunday, every day of the month, then leading days of
// the next month.
func Days(year int, month time.Month, loc *time.Location) [Cells]time.Time {
	var days [Cells]time.Time
	first := datecalc.FirstOfMonth(year, month, loc)
	lead := int(first.Weekday())
	for i := range days {
		// time.Date normalises out-of-range days into the neighbouring months.
		days[i] = time.Date(year, month, 1-lead+i, 0, 0, 0, 0, loc)
	}
	return days
}

// BuildMonth builds the grid for q from the given records.
func BuildMonth(q MonthQuery, apps []model.Application, notes []model.DateNote) Grid {
	today := q.Today
	if today.IsZero() {
		today = time.Now()
	}
	loc := today.Location()
	query := normalizeQuery(q.Query)

	g := Grid{Year: q.Year, Month: q.Month, Query: query}
	for i, d := range Days(q.Year, q.Month, loc) {
		inMonth := d.Month() == q.Month
		cell := Cell{
			Date:    d,
			ISODate: datecalc.FormatISO(d),
			InMonth: inMonth,
			IsToday: datecalc.SameDay(d, today),
		}

		dayApps := ApplicationsOn(d, apps, loc)
		note := NoteOn(d, notes)

		if query != "" {
			dayApps = matchingApplications(dayApps, query)
			if note != nil && !contains(note.Note, query) {
				note = nil
			}
			cell.Matches = len(dayApps) > 0 || note != nil
			cell.Dimmed = !cell.Matches && inMonth
		} else {
			cell.Matches = true
		}

		if dayApps == nil {
			dayApps = []model.Application{}
		}
		cell.Applications = dayApps
		cell.Note = note
		g.Cells[i] = cell
	}
	return g
}

// ApplicationsOn returns the applications dated on day, in input order.
func ApplicationsOn(day time.Time, apps []model.Application, loc *time.Location) []model.Application {
	var out []model.Application
	for _, a := range apps {
		if AppliedOn(a, day, loc) {
			out = append(out, a)
		}
	}
	return out
}

// AppliedOn reports whether a's applied date falls on day. Dates that cannot
// be parsed are compared against the display form of day, either whole or by
// its "Jan 5" prefix.
func AppliedOn(a model.Application, day time.Time, loc *time.Location) bool {
	d, err := datecalc.ParseDate(a.DateApplied, loc)
	if err == nil {
		return datecalc.SameDay(d, day.In(loc))
	}
	display := datecalc.FormatDisplay(day)
	if a.DateApplied == display {
		return true
	}
	prefix := strings.TrimSpace(strings.SplitN(display, ",", 2)[0])
	return strings.Contains(a.DateApplied, prefix)
}

// NoteOn returns the note stored under day's ISO date, if any.
func NoteOn(day time.Time, notes []model.DateNote) *model.DateNote {
	key := datecalc.FormatISO(day)
	for i := range notes {
		if notes[i].Date == key {
			n := notes[i]
			return &n
		}
	}
	return nil
}

// ApplicationMatches reports whether any searchable field of a contains
// query, ignoring case. An empty query matches everything.
func ApplicationMatches(a model.Application, query string) bool {
	query = normalizeQuery(query)
	if query == "" {
		return true
	}
	for _, field := range []string{
		a.CompanyName,
		a.Role,
		a.Location,
		string(a.Status),
		a.JobDescription,
		a.Notes,
		a.ResumeName,
	} {
		if contains(field, query) {
			return true
		}
	}
	return false
}

func matchingApplications(apps []model.Application, query string) []model.Application {
	var out []model.Application
	for _, a := range apps {
		if ApplicationMatches(a, query) {
			out = append(out, a)
		}
	}
	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// contains expects query to be normalised already.
func contains(text, query string) bool {
	return strings.Contains(strings.ToLower(text), query)
}
