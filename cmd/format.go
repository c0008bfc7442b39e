package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"

	"github.com/Tiliavir/jtrack/internal/datecalc"
	"github.com/Tiliavir/jtrack/internal/model"
)

// colorStatus renders a status in the color the dashboard badges use.
func colorStatus(s model.Status) string {
	switch s {
	case model.StatusOffer:
		return pterm.Green(string(s))
	case model.StatusInterviewing:
		return pterm.LightBlue(string(s))
	case model.StatusPending:
		return pterm.Yellow(string(s))
	case model.StatusRejected:
		return pterm.Red(string(s))
	case model.StatusGhosted:
		return pterm.Gray(string(s))
	default:
		return string(s)
	}
}

// formatAge describes how long ago an application was sent, at day
// granularity: "today", "1 day ago", "2 weeks ago".
func formatAge(dateApplied string, now time.Time) string {
	d, err := datecalc.ParseDate(dateApplied, now.Location())
	if err != nil {
		return ""
	}
	// Compare calendar days in UTC so DST shifts do not produce "23 hours".
	then := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if then.Equal(today) {
		return "today"
	}
	return humanize.RelTime(then, today, "ago", "from now")
}

// displayDate renders a stored date as "Jan 2, 2006", or as stored if it
// cannot be parsed.
func displayDate(s string, loc *time.Location) string {
	d, err := datecalc.ParseDate(s, loc)
	if err != nil {
		return s
	}
	return datecalc.FormatDisplay(d)
}

// renderTable prints rows with the first row as header.
func renderTable(w io.Writer, rows [][]string) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData(rows)).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
