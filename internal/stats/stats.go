// Package stats derives dashboard figures from the application list.
package stats

import (
	"math"
	"time"

	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
)

// Calculate counts applications per status in a single pass. Ghosted
// applications are counted in Total and nowhere else.
func Calculate(apps []model.Application) model.DashboardStats {
	s := model.DashboardStats{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case model.StatusApplied:
			s.Applied++
		case model.StatusPending:
			s.Pending++
		case model.StatusInterviewing:
			s.Interviews++
		case model.StatusOffer:
			s.Offers++
		case model.StatusRejected:
			s.Rejected++
		}
	}
	return s
}

// Percent returns round(100*part/total), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}

// ProgressPercentage is the share of applications currently interviewing.
func ProgressPercentage(s model.DashboardStats) int {
	return Percent(s.Interviews, s.Total)
}

// Rates are the dashboard percentages.
type Rates struct {
	Response  int `json:"response_rate"`
	Interview int `json:"interview_rate"`
	Offer     int `json:"offer_rate"`
}

// ComputeRates derives the response, interview and offer rates. Any status
// other than Applied or Pending Interview counts as a response.
func ComputeRates(apps []model.Application) Rates {
	s := Calculate(apps)
	responded := 0
	for _, a := range apps {
		if a.Status != model.StatusApplied && a.Status != model.StatusPending {
			responded++
		}
	}
	return Rates{
		Response:  Percent(responded, s.Total),
		Interview: Percent(s.Interviews, s.Total),
		Offer:     Percent(s.Offers, s.Total),
	}
}

// AppliedSince counts applications dated on or after since. Records whose
// date cannot be parsed are not counted.
func AppliedSince(apps []model.Application, since time.Time, loc *time.Location) int {
	n := 0
	cutoff := datecalc.StartOfDay(since.In(loc))
	for _, a := range apps {
		d, err := datecalc.ParseDate(a.DateApplied, loc)
		if err != nil {
			continue
		}
		if !d.Before(cutoff) {
			n++
		}
	}
	return n
}

// UniqueResumes returns up to limit distinct non-empty resume names in first
// seen order. A limit <= 0 returns all of them.
func UniqueResumes(apps []model.Application, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range apps {
		if a.ResumeName == "" || seen[a.ResumeName] {
			continue
		}
		seen[a.ResumeName] = true
		out = append(out, a.ResumeName)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

const (
	// RecentWindow is the span counted as "this week".
	RecentWindow = 7 * 24 * time.Hour
	// ResumeLimit is how many resume names the dashboard lists.
	ResumeLimit = 3
)

// Summary bundles every dashboard figure.
type Summary struct {
	Stats    model.DashboardStats `json:"stats"`
	Progress int                  `json:"progress"`
	Rates    Rates                `json:"rates"`
	ThisWeek int                  `json:"this_week"`
	Resumes  []string             `json:"resumes"`
}

// Summarize computes the dashboard as of now, reading dates in now's
// location.
func Summarize(apps []model.Application, now time.Time) Summary {
	s := Calculate(apps)
	resumes := UniqueResumes(apps, ResumeLimit)
	if resumes == nil {
		resumes = []string{}
	}
	return Summary{
		Stats:    s,
		Progress: ProgressPercentage(s),
		Rates:    ComputeRates(apps),
		ThisWeek: AppliedSince(apps, now.Add(-RecentWindow), now.Location()),
		Resumes:  resumes,
	}
}
